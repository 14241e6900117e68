// Package render implements the tiled, worker-pool render loop of spec.md
// §5: a work-stealing queue of film tiles consumed by goroutines equal to
// the logical CPU count, each holding a private sampler clone and merging
// into the shared Film only at tile completion.
package render

import (
	"runtime"
	"sync"

	"goray/pkg/camera"
	"goray/pkg/film"
	"goray/pkg/geometry"
	"goray/pkg/integrator"
	"goray/pkg/sampler"
	"goray/pkg/scene"
)

// Options configures a render pass.
type Options struct {
	Workers int    // 0 selects runtime.NumCPU()
	Logger  Logger // nil selects DefaultLogger
}

// Render drives the full image: generates tiles, dispatches them across a
// worker pool via a channel (Go's natural analogue of a work-stealing
// queue), and merges each tile into f as it completes.
func Render(f *film.Film, cam camera.Camera, sc *scene.Scene, integ integrator.Integrator, proto sampler.Sampler, opts Options) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = DefaultLogger{}
	}

	tiles := f.GenTiles()
	tileCh := make(chan film.Tile, len(tiles))
	for _, t := range tiles {
		tileCh <- t
	}
	close(tileCh)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			samp := proto.Clone()
			for t := range tileCh {
				renderTile(f, t, cam, sc, integ, samp, logger)
			}
		}()
	}
	wg.Wait()
}

func renderTile(f *film.Film, t film.Tile, cam camera.Camera, sc *scene.Scene, integ integrator.Integrator, samp sampler.Sampler, logger Logger) {
	tile := f.NewFilmTile(t)
	spp := samp.SamplesPerPixel()

	for y := t.MinY; y < t.MaxY; y++ {
		for x := t.MinX; x < t.MaxX; x++ {
			samp.SetPixel([2]int{x, y})
			for s := 0; s < spp; s++ {
				pFilm := geometry.Vec2{X: float64(x) + samp.Get1D(), Y: float64(y) + samp.Get1D()}
				pLens := samp.Get2D()
				r := cam.GenerateRay(pFilm, pLens)
				l := integ.Li(r, sc, samp)
				if l.HasNaN() {
					logger.Printf("discarding NaN radiance sample at pixel (%d,%d)", x, y)
					tile.DiscardSample(x, y)
					samp.NextSample()
					continue
				}
				tile.AddSample(x, y, l)
				samp.NextSample()
			}
		}
	}

	f.MergeTile(tile)
}
