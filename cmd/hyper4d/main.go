// Command hyper4d renders 4D geometry variants to PNG files.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/gogpu/hyper4d"
	"github.com/gogpu/hyper4d/geometry"
	"github.com/gogpu/hyper4d/hypermath"

	_ "github.com/gogpu/hyper4d/render/softraster"
)

func main() {
	var (
		width      = flag.Int("width", 800, "image width")
		height     = flag.Int("height", 600, "image height")
		index      = flag.Int("geometry", 0, "geometry variant index (0-23)")
		resolution = flag.Int("resolution", 32, "tessellation resolution")
		frames     = flag.Int("frames", 1, "frames to render (last one is saved)")
		distance   = flag.Float64("distance", 2.5, "4D viewer distance")
		mode       = flag.String("projection", "perspective", "projection: perspective, stereographic, orthographic")
		spin       = flag.Float64("spin", 0.02, "per-frame rotation step for the XW and YZ planes")
		output     = flag.String("output", "hyper4d.png", "output file")
		list       = flag.Bool("list", false, "list geometry variants and exit")
	)
	flag.Parse()

	if *list {
		listVariants()
		return
	}

	session, err := hyper4d.NewSession(*width, *height, hyper4d.WithResolution(*resolution))
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	defer session.Close()

	pm, err := parseProjection(*mode)
	if err != nil {
		log.Fatal(err)
	}
	if err := session.SetProjection(pm, float32(*distance)); err != nil {
		log.Fatalf("Failed to set projection: %v", err)
	}
	if err := session.SetGeometryIndex(*index); err != nil {
		log.Fatalf("Failed to select geometry: %v", err)
	}

	for i := 0; i < *frames; i++ {
		angle := float32(*spin) * float32(i)
		if err := session.SetParameter("rotXW", angle); err != nil {
			log.Fatalf("Failed to set rotation: %v", err)
		}
		if err := session.SetParameter("rotYZ", angle*0.7); err != nil {
			log.Fatalf("Failed to set rotation: %v", err)
		}
		if err := session.RenderFrame(1.0 / 60.0); err != nil {
			log.Fatalf("Failed to render frame %d: %v", i, err)
		}
	}

	if err := savePNG(*output, session); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	stats := session.Telemetry()
	log.Printf("Rendered %d frame(s) via %s backend to %s (avg %.2fms)\n",
		stats.Frames, session.Backend(), *output,
		float64(stats.AvgFrameTime().Microseconds())/1000)
}

func parseProjection(name string) (hypermath.ProjectionMode, error) {
	switch name {
	case "perspective":
		return hypermath.ProjectionPerspective, nil
	case "stereographic":
		return hypermath.ProjectionStereographic, nil
	case "orthographic":
		return hypermath.ProjectionOrthographic, nil
	}
	return 0, fmt.Errorf("unknown projection %q", name)
}

func listVariants() {
	for i := 0; i < geometry.IndexCount; i++ {
		desc, err := geometry.Decode(i)
		if err != nil {
			continue
		}
		fmt.Printf("%2d  %s\n", i, desc.Name())
	}
}

func savePNG(path string, session *hyper4d.RenderSession) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, session.LastFrame())
}
