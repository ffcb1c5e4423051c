package generation

import (
	"fmt"
	"strings"
)

// Catalog holds the map definitions a session can switch between
type Catalog struct {
	defs  map[string]*MapDefinition
	order []string
}

// NewCatalog returns a catalog with the standard and expanded maps
func NewCatalog() *Catalog {
	c := &Catalog{defs: make(map[string]*MapDefinition)}
	// Built-in definitions are known to be valid
	_ = c.Add(StandardMap())
	_ = c.Add(ExpandedMap())
	return c
}

// Add validates and registers a definition, replacing any with the same name
func (c *Catalog) Add(def *MapDefinition) error {
	if def == nil {
		return ErrNoDefinition
	}
	name := strings.ToLower(strings.TrimSpace(def.Name))
	if name == "" {
		return fmt.Errorf("%w: definition has no name", ErrInvalidDefinition)
	}
	if !def.Validate() {
		return fmt.Errorf("%w: %q quotas do not match its %d coordinates", ErrInvalidDefinition, name, def.TileCount())
	}
	if err := def.CheckLayout(); err != nil {
		return err
	}

	def.Name = name
	if _, exists := c.defs[name]; !exists {
		c.order = append(c.order, name)
	}
	c.defs[name] = def
	return nil
}

// Get returns the definition registered under name
func (c *Catalog) Get(name string) (*MapDefinition, bool) {
	def, ok := c.defs[strings.ToLower(strings.TrimSpace(name))]
	return def, ok
}

// ForTileCount returns the first registered definition with n tiles.
// Shared boards carry no map name, so their size is what picks the map.
func (c *Catalog) ForTileCount(n int) (*MapDefinition, bool) {
	for _, name := range c.order {
		if def := c.defs[name]; def.TileCount() == n {
			return def, true
		}
	}
	return nil, false
}

// All returns the definitions in registration order
func (c *Catalog) All() []*MapDefinition {
	out := make([]*MapDefinition, len(c.order))
	for i, name := range c.order {
		out[i] = c.defs[name]
	}
	return out
}
