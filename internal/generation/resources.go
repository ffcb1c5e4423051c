package generation

import (
	"fmt"
	"strings"
)

// Resource identifies what a tile produces
type Resource uint8

const (
	ResourceNone Resource = iota // unset placeholder
	ResourceDesert
	ResourceWood
	ResourceClay
	ResourceWool
	ResourceGrain
	ResourceOre
)

// Producing lists the non-desert resources in compact code order
var Producing = []Resource{ResourceWood, ResourceClay, ResourceWool, ResourceGrain, ResourceOre}

var resourceNames = map[Resource]string{
	ResourceNone:   "none",
	ResourceDesert: "desert",
	ResourceWood:   "wood",
	ResourceClay:   "clay",
	ResourceWool:   "wool",
	ResourceGrain:  "grain",
	ResourceOre:    "ore",
}

// String returns the lowercase resource name used by the legacy codec
func (r Resource) String() string {
	if name, ok := resourceNames[r]; ok {
		return name
	}
	return fmt.Sprintf("resource(%d)", uint8(r))
}

// ParseResource maps a resource name to its value. Unknown names report
// ok=false and return desert so the tile stays renderable.
func ParseResource(name string) (Resource, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for r, n := range resourceNames {
		if n == name {
			return r, true
		}
	}
	return ResourceDesert, false
}

// Code returns the compact share code. Unset tiles encode as desert.
func (r Resource) Code() int {
	switch r {
	case ResourceWood:
		return 1
	case ResourceClay:
		return 2
	case ResourceWool:
		return 3
	case ResourceGrain:
		return 4
	case ResourceOre:
		return 5
	}
	return 0
}

// ResourceFromCode is the inverse of Code. Unknown codes map to desert.
func ResourceFromCode(code int) Resource {
	switch code {
	case 1:
		return ResourceWood
	case 2:
		return ResourceClay
	case 3:
		return ResourceWool
	case 4:
		return ResourceGrain
	case 5:
		return ResourceOre
	}
	return ResourceDesert
}

// Color returns the fill color of the resource as a hex string
func (r Resource) Color() string {
	switch r {
	case ResourceOre:
		return "#363636"
	case ResourceClay:
		return "#E83200"
	case ResourceWool:
		return "#98E82E"
	case ResourceWood:
		return "#0A7300"
	case ResourceGrain:
		return "#E0E000"
	case ResourceDesert:
		return "#F2F0A0"
	}
	return "#FFFFFF"
}

// Glyph is the two letter label used by the text renderer
func (r Resource) Glyph() string {
	switch r {
	case ResourceOre:
		return "Or"
	case ResourceClay:
		return "Cl"
	case ResourceWool:
		return "Wo"
	case ResourceWood:
		return "Wd"
	case ResourceGrain:
		return "Gr"
	case ResourceDesert:
		return "De"
	}
	return ".."
}

// MarshalText implements encoding.TextMarshaler so resources serialize by name
func (r Resource) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Resource) UnmarshalText(text []byte) error {
	res, ok := ParseResource(string(text))
	if !ok {
		return fmt.Errorf("unknown resource %q", string(text))
	}
	*r = res
	return nil
}
