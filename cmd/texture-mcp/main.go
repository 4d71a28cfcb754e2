package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/texture-synth-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = `texture-mcp - grow large textures from small samples over MCP

Usage: texture-mcp [--version | --help]

Speaks JSON-RPC 2.0 on stdin/stdout; logs go to stderr.

Tools:
  image_load        size, format and alpha of a sample file
  image_dimensions  width and height only
  image_crop        cut a region out of a sample (region, scale)
  texture_quilt     image quilting: patch_size, overlap, selection_chance,
                    distance (l1|l2), show_patch_grid, grid_color
  texture_grow      pixel growth: window_size (odd, >= 3)

Both synthesis tools take path, width, height and optionally region,
seed_x/seed_y, random_seed, scale and output_path.

Environment:
  TEXTURE_MCP_LOG_LEVEL=debug  log each request and synthesis timing
`

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("texture-mcp %s (built %s, commit %s)\n", Version, BuildTime, GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Print(usage)
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown argument %q\n\n%s", os.Args[1], usage)
			os.Exit(2)
		}
	}

	// stdout carries the protocol
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if os.Getenv("TEXTURE_MCP_LOG_LEVEL") == "debug" {
		log.Printf("texture-mcp %s starting (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if err := server.New().Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
