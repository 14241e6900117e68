package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"goray/pkg/imageio"
	"goray/pkg/integrator"
	"goray/pkg/render"
	"goray/pkg/sceneformat"
)

func main() {
	workers := flag.Int("workers", 0, "number of parallel render workers (0 = auto-detect CPU count)")
	output := flag.String("o", "", "output PNG path (overrides the scene file's Film filename)")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: goray [-workers N] [-o output.png] [-cpuprofile file] scene.pbrt")
		os.Exit(1)
	}
	sceneFile := flag.Arg(0)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	statements, err := sceneformat.ParseFile(sceneFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing %s: %v\n", sceneFile, err)
		os.Exit(1)
	}

	result, err := sceneformat.Build(statements, filepath.Dir(sceneFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error building scene: %v\n", err)
		os.Exit(1)
	}

	var integ integrator.Integrator
	switch result.Integrator {
	case sceneformat.IntegratorPath:
		integ = integrator.Path{MaxDepth: result.MaxDepth}
	default:
		integ = integrator.DirectLighting{MaxDepth: result.MaxDepth}
	}

	outputPath := result.OutputPath
	if *output != "" {
		outputPath = *output
	}

	fmt.Printf("Rendering %s (%dx%d, %d spp) -> %s\n",
		sceneFile, result.Film.Width, result.Film.Height, result.Sampler.SamplesPerPixel(), outputPath)

	start := time.Now()
	render.Render(result.Film, result.Camera, result.Scene, integ, result.Sampler, render.Options{Workers: *workers})
	fmt.Printf("Render completed in %v\n", time.Since(start))

	img := result.Film.ToImage()
	if err := imageio.SavePNG(outputPath, img); err != nil {
		fmt.Fprintf(os.Stderr, "error saving %s: %v\n", outputPath, err)
		os.Exit(1)
	}
}
