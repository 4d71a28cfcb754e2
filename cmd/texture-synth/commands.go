package main

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"time"

	"github.com/ironsheep/texture-synth-mcp/internal/imaging"
	"github.com/ironsheep/texture-synth-mcp/internal/synthesis"
	"github.com/urfave/cli/v2"
)

const (
	defaultPatchSize  = 32
	defaultWindowSize = 11
)

// synthesisFlags are shared by quilt and grow.
func synthesisFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Required: true,
			Usage:    "write the result as PNG to `FILE`",
		},
		&cli.IntFlag{
			Name:     "width",
			Required: true,
			Usage:    "output width in pixels",
		},
		&cli.IntFlag{
			Name:     "height",
			Required: true,
			Usage:    "output height in pixels",
		},
		&cli.IntSliceFlag{
			Name:  "region",
			Usage: "sample only x1,y1,x2,y2 of the input",
		},
		&cli.IntFlag{
			Name:  "seed-x",
			Usage: "source x of the seed (requires --seed-y)",
		},
		&cli.IntFlag{
			Name:  "seed-y",
			Usage: "source y of the seed (requires --seed-x)",
		},
		&cli.Int64Flag{
			Name:    "random-seed",
			EnvVars: []string{"TEXTURE_SYNTH_RANDOM_SEED"},
			Usage:   "seed the random source for a reproducible run",
		},
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// loadSample reads the SAMPLE argument and applies --region.
func loadSample(c *cli.Context) (image.Image, error) {
	if c.NArg() < 1 {
		return nil, fmt.Errorf("missing SAMPLE argument")
	}

	img, err := imaging.NewImageCache().Load(c.Args().First())
	if err != nil {
		return nil, err
	}

	var region *imaging.Region
	if c.IsSet("region") {
		v := c.IntSlice("region")
		if len(v) != 4 {
			return nil, fmt.Errorf("--region needs x1,y1,x2,y2, got %d values", len(v))
		}
		region = &imaging.Region{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}
	}
	return imaging.SampleRegion(img, region)
}

func seedFlag(c *cli.Context) (*image.Point, error) {
	switch {
	case !c.IsSet("seed-x") && !c.IsSet("seed-y"):
		return nil, nil
	case !c.IsSet("seed-x") || !c.IsSet("seed-y"):
		return nil, fmt.Errorf("--seed-x and --seed-y must be given together")
	default:
		return &image.Point{X: c.Int("seed-x"), Y: c.Int("seed-y")}, nil
	}
}

func quiltAction(c *cli.Context) error {
	logger := newLogger(c)

	sample, err := loadSample(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	b := sample.Bounds()

	patchSize := c.Int("patch-size")
	if patchSize == 0 {
		patchSize = min(defaultPatchSize, b.Dx(), b.Dy())
	}
	overlap := c.Int("overlap")
	if overlap == 0 {
		overlap = max(1, patchSize/4)
	}

	var chance *float64
	if c.IsSet("selection-chance") {
		p := c.Float64("selection-chance")
		chance = &p
	}
	dist, err := synthesis.DistanceByName(c.String("distance"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	seed, err := seedFlag(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	params, err := synthesis.NewQuilterParams(image.Pt(c.Int("width"), c.Int("height")), patchSize, overlap, seed, chance, dist)
	if err != nil {
		return cli.Exit(err, 1)
	}
	q := synthesis.NewQuilter(sample, params)
	if c.IsSet("random-seed") {
		q.SetRandomSeed(c.Int64("random-seed"))
	}

	logger.Printf("quilting %dx%d from %dx%d sample, patch %d, overlap %d", c.Int("width"), c.Int("height"), b.Dx(), b.Dy(), patchSize, overlap)
	start := time.Now()
	out, err := q.QuiltImage()
	if err != nil {
		return cli.Exit(err, 1)
	}
	logger.Printf("quilted in %v", time.Since(start))

	if err := imaging.SavePNG(out, c.String("output")); err != nil {
		return cli.Exit(err, 1)
	}
	if path := c.String("grid"); path != "" {
		overlay, err := imaging.PatchGridOverlay(out, params.Step(), "#FF0000")
		if err != nil {
			return cli.Exit(err, 1)
		}
		if err := imaging.SavePNG(overlay, path); err != nil {
			return cli.Exit(err, 1)
		}
	}
	return nil
}

func growAction(c *cli.Context) error {
	logger := newLogger(c)

	sample, err := loadSample(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	seed, err := seedFlag(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	params, err := synthesis.NewPixelSearchParams(image.Pt(c.Int("width"), c.Int("height")), c.Int("window-size"), seed)
	if err != nil {
		return cli.Exit(err, 1)
	}
	ps, err := synthesis.NewPixelSearch(sample, params)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if c.IsSet("random-seed") {
		ps.SetRandomSeed(c.Int64("random-seed"))
	}

	logger.Printf("growing %dx%d, window %d", c.Int("width"), c.Int("height"), params.WindowSize())
	start := time.Now()
	out, err := ps.Synthesize()
	if err != nil {
		return cli.Exit(err, 1)
	}
	logger.Printf("grown in %v", time.Since(start))

	if err := imaging.SavePNG(out, c.String("output")); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func infoAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("missing FILE argument", 1)
	}

	path := c.Args().First()
	cache := imaging.NewImageCache()
	info, err := imaging.LoadImageInfo(cache, path)
	if err != nil {
		return cli.Exit(err, 1)
	}
	// already cached by LoadImageInfo
	img, err := cache.Load(path)
	if err != nil {
		return cli.Exit(err, 1)
	}
	mean := imaging.MeanColor(img)

	fmt.Fprintf(c.App.Writer, "%dx%d %s alpha=%t %d bytes mean=%s\n",
		info.Width, info.Height, info.Format, info.HasAlpha, info.FileSizeBytes, mean.Hex)
	return nil
}
