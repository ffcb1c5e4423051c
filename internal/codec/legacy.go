package codec

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"dconn.dev/hexboard/internal/generation"
)

// EncodeLegacy writes the older name-based format. The number field is left
// empty for tiles without a token.
func EncodeLegacy(tiles []generation.TileState) string {
	if len(tiles) == 0 {
		return ""
	}
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		number := ""
		if t.Number != 0 && t.Resource != generation.ResourceDesert {
			number = strconv.Itoa(t.Number)
		}
		parts[i] = fmt.Sprintf("%d,%d:%s:%s", t.X, t.Y, t.Resource, number)
	}
	return wrap(strings.Join(parts, ";"))
}

// DecodeLegacy parses the older format. Blank entries and entries without a
// resource field are skipped, and unknown resource names become desert.
func DecodeLegacy(code string) ([]generation.TileState, error) {
	payload, err := unwrap(code)
	if err != nil {
		return nil, err
	}

	var tiles []generation.TileState
	for i, entry := range strings.Split(payload, ";") {
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 2 {
			slog.Warn("skipping malformed board entry", "index", i, "entry", entry)
			continue
		}

		coords := strings.Split(parts[0], ",")
		if len(coords) != 2 {
			return nil, fmt.Errorf("%w: entry %d %q has no x,y pair", ErrDecode, i, entry)
		}
		x, err := strconv.Atoi(strings.TrimSpace(coords[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrDecode, i, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(coords[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrDecode, i, err)
		}

		resource, ok := generation.ParseResource(parts[1])
		if !ok {
			slog.Warn("unrecognized resource, using desert", "index", i, "resource", parts[1])
		}

		number := 0
		if len(parts) > 2 && parts[2] != "" {
			number, err = strconv.Atoi(strings.TrimSpace(parts[2]))
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d: %w", ErrDecode, i, err)
			}
		}

		tiles = append(tiles, generation.TileState{X: x, Y: y, Resource: resource, Number: number}.Tile().State())
	}
	return finish(tiles)
}
