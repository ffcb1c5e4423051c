// Package codec converts boards to and from the base64 strings carried in
// share links.
//
// Two formats exist. The compact form is what new links use:
//
//	gx,gy,code,number.gx,gy,code,number...
//
// The legacy form is still accepted from old links:
//
//	gx,gy:resource:number;gx,gy:resource:number...
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"dconn.dev/hexboard/internal/generation"
)

// ErrDecode is returned for any share string that cannot be turned into a
// board. The cause is wrapped.
var ErrDecode = errors.New("invalid board code")

var encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.RawURLEncoding,
}

// unwrap reverses the base64 layer. Query strings turn '+' into ' ', so
// spaces are read back as '+'.
func unwrap(code string) (string, error) {
	code = strings.Trim(code, "\r\n\t")
	if code == "" {
		return "", fmt.Errorf("%w: empty input", ErrDecode)
	}
	code = strings.ReplaceAll(code, " ", "+")

	var lastErr error
	for _, enc := range encodings {
		raw, err := enc.DecodeString(code)
		if err == nil {
			return string(raw), nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("%w: %w", ErrDecode, lastErr)
}

func wrap(payload string) string {
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// finish rejects empty and self-overlapping results
func finish(tiles []generation.TileState) ([]generation.TileState, error) {
	if len(tiles) == 0 {
		return nil, fmt.Errorf("%w: no tiles", ErrDecode)
	}
	seen := make(map[generation.Point]bool, len(tiles))
	for _, t := range tiles {
		p := generation.Point{X: t.X, Y: t.Y}
		if seen[p] {
			return nil, fmt.Errorf("%w: %w: %s", ErrDecode, generation.ErrDuplicateCoordinate, p)
		}
		seen[p] = true
	}
	return tiles, nil
}
