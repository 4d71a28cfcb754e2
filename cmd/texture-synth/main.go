package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "texture-synth"
	app.Usage = "Grow larger textures from a small sample image"
	app.Version = Version + " (built " + BuildTime + ", commit " + GitCommit + ")"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			EnvVars: []string{"TEXTURE_SYNTH_VERBOSE"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "quilt",
			Usage:     "Synthesize by stitching overlapping patches along minimum-error seams",
			ArgsUsage: "SAMPLE",
			Flags: append(synthesisFlags(),
				&cli.IntFlag{
					Name:    "patch-size",
					EnvVars: []string{"TEXTURE_SYNTH_PATCH_SIZE"},
					Usage:   "patch side in pixels (default: 32, capped to the sample)",
				},
				&cli.IntFlag{
					Name:    "overlap",
					EnvVars: []string{"TEXTURE_SYNTH_OVERLAP"},
					Usage:   "overlap band width in pixels (default: patch-size/4)",
				},
				&cli.Float64Flag{
					Name:  "selection-chance",
					Usage: "probability of skipping each candidate origin, in (0,1); exhaustive search when unset",
				},
				&cli.StringFlag{
					Name:    "distance",
					EnvVars: []string{"TEXTURE_SYNTH_DISTANCE"},
					Value:   "l2",
					Usage:   "pixel distance: l1 or l2",
				},
				&cli.StringFlag{
					Name:  "grid",
					Usage: "also write a copy with the patch grid drawn over it to `FILE`",
				},
			),
			Action: quiltAction,
		},
		{
			Name:      "grow",
			Usage:     "Synthesize pixel by pixel from neighbourhood matches",
			ArgsUsage: "SAMPLE",
			Flags: append(synthesisFlags(),
				&cli.IntFlag{
					Name:    "window-size",
					EnvVars: []string{"TEXTURE_SYNTH_WINDOW_SIZE"},
					Value:   defaultWindowSize,
					Usage:   "odd neighbourhood window side",
				},
			),
			Action: growAction,
		},
		{
			Name:      "info",
			Usage:     "Print the dimensions and format of an image",
			ArgsUsage: "FILE",
			Action:    infoAction,
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
