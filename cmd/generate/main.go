package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"dconn.dev/hexboard/internal/codec"
	"dconn.dev/hexboard/internal/config"
	"dconn.dev/hexboard/internal/generation"
	"dconn.dev/hexboard/internal/render"
)

// boardFile is what -format json writes for each board
type boardFile struct {
	Map   string                 `json:"map"`
	Seed  uint64                 `json:"seed"`
	Code  string                 `json:"code"`
	Tiles []generation.TileState `json:"tiles"`
}

func main() {
	configPath := flag.String("config", "", "optional YAML config with custom maps")
	mapName := flag.String("map", "standard", "map to generate")
	seed := flag.Uint64("seed", 0, "first seed (0 picks one at random)")
	count := flag.Int("count", 1, "number of boards")
	format := flag.String("format", "text", "text|json|png")
	outDir := flag.String("out", ".", "output directory for json and png")
	decode := flag.String("decode", "", "print a share code instead of generating")
	legacy := flag.Bool("legacy", false, "read -decode in the legacy format")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid maps: %v\n", err)
		os.Exit(1)
	}

	if *decode != "" {
		if err := printDecoded(catalog, *decode, *legacy); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
		return
	}

	def, ok := catalog.Get(*mapName)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown map %q\n", *mapName)
		os.Exit(1)
	}

	if *format != "text" {
		if err := os.MkdirAll(*outDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
			os.Exit(1)
		}
	}

	first := *seed
	if first == 0 {
		first = generation.RandomSeed()
	}
	renderer := render.NewRenderer(cfg.Render.Width, cfg.Render.Height)

	start := time.Now()
	written := 0
	for i := 0; i < *count; i++ {
		rng := generation.NewRNG(first + uint64(i))
		s := rng.Seed()
		board, err := generation.NewBoardGenerator(def, rng,
			generation.WithMaxAttempts(cfg.Generation.MaxAttempts)).Generate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "  seed %d: ERROR: %v\n", s, err)
			continue
		}
		tiles := board.Snapshot()
		code := codec.EncodeCompact(tiles)

		switch *format {
		case "json":
			path := filepath.Join(*outDir, fmt.Sprintf("%s_%d.json", def.Name, s))
			data, err := json.MarshalIndent(boardFile{Map: def.Name, Seed: s, Code: code, Tiles: tiles}, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "  ERROR marshaling JSON: %v\n", err)
				continue
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "  ERROR writing file: %v\n", err)
				continue
			}
			fmt.Printf("  Created %s (%s bytes)\n", path, humanize.Comma(int64(len(data))))

		case "png":
			path := filepath.Join(*outDir, fmt.Sprintf("%s_%d.png", def.Name, s))
			if err := writePNG(renderer, path, tiles, def.Extent()); err != nil {
				fmt.Fprintf(os.Stderr, "  ERROR: %v\n", err)
				continue
			}
			fmt.Printf("  Created %s\n", path)

		default:
			fmt.Printf("%s board, seed %d\n\n", def.Name, s)
			fmt.Print(render.ASCII(tiles).String())
			fmt.Printf("\ncode: %s\n\n", code)
		}
		written++
	}

	fmt.Printf("Generated %s of %s %s boards in %s\n",
		humanize.Comma(int64(written)), humanize.Comma(int64(*count)), def.Name, time.Since(start).Round(time.Millisecond))
	if written < *count {
		os.Exit(1)
	}
}

func writePNG(renderer *render.Renderer, path string, tiles []generation.TileState, extent generation.Bounds) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := renderer.PNG(f, tiles, extent, 0, 0); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printDecoded(catalog *generation.Catalog, code string, legacy bool) error {
	decodeFn := codec.DecodeCompact
	if legacy {
		decodeFn = codec.DecodeLegacy
	}
	tiles, err := decodeFn(code)
	if err != nil {
		return err
	}
	board, err := generation.BoardFromSnapshot(tiles)
	if err != nil {
		return err
	}

	name := "unknown"
	verdict := "no matching map"
	if def, ok := catalog.ForTileCount(board.Len()); ok {
		name = def.Name
		if err := board.Validate(def); err != nil {
			verdict = "unfair: " + err.Error()
		} else {
			verdict = "fair"
		}
	}

	fmt.Printf("%s board, %d tiles (%s)\n\n", name, board.Len(), verdict)
	fmt.Print(render.ASCII(tiles).String())
	fmt.Printf("\ncode: %s\n", codec.EncodeCompact(tiles))
	return nil
}
