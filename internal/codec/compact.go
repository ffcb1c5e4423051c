package codec

import (
	"fmt"
	"strconv"
	"strings"

	"dconn.dev/hexboard/internal/generation"
)

// EncodeCompact returns the share code for the tiles, in order
func EncodeCompact(tiles []generation.TileState) string {
	if len(tiles) == 0 {
		return ""
	}
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		number := t.Number
		if t.Resource == generation.ResourceDesert {
			number = 0
		}
		parts[i] = fmt.Sprintf("%d,%d,%d,%d", t.X, t.Y, t.Resource.Code(), number)
	}
	return wrap(strings.Join(parts, "."))
}

// DecodeCompact parses a share code. Unknown resource codes become desert
// and a number of 0 means no token.
func DecodeCompact(code string) ([]generation.TileState, error) {
	payload, err := unwrap(code)
	if err != nil {
		return nil, err
	}

	entries := strings.Split(payload, ".")
	tiles := make([]generation.TileState, 0, len(entries))
	for i, entry := range entries {
		fields := strings.Split(entry, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: entry %d %q has %d fields", ErrDecode, i, entry, len(fields))
		}

		var v [4]int
		for j, f := range fields {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d: %w", ErrDecode, i, err)
			}
			v[j] = n
		}

		tiles = append(tiles, generation.TileState{
			X:        v[0],
			Y:        v[1],
			Resource: generation.ResourceFromCode(v[2]),
			Number:   v[3],
		}.Tile().State())
	}
	return finish(tiles)
}
