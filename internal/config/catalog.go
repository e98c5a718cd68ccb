package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pipecanvas/pkg/block"
)

// catalogFile is the layout of an editor.catalog file:
//
//	[[kind]]
//	palette = "predefined"
//	type = "security"
//	label = "Security Scan"
//	children = [{ type = "sast", label = "SAST" }]
type catalogFile struct {
	Kinds []catalogKind `toml:"kind"`
}

type catalogKind struct {
	Palette string `toml:"palette"`
	block.Kind
}

// Catalog returns the default block catalog extended with the kinds from
// editor.catalog, if set.
func (c *Config) Catalog() (*block.Catalog, error) {
	cat := block.DefaultCatalog()
	if c.Editor.Catalog == "" {
		return cat, nil
	}
	var f catalogFile
	if _, err := toml.DecodeFile(c.Editor.Catalog, &f); err != nil {
		return nil, fmt.Errorf("config: catalog %s: %w", c.Editor.Catalog, err)
	}
	for _, k := range f.Kinds {
		palette := k.Palette
		if palette == "" {
			palette = block.PalettePredefined
		}
		if err := cat.Register(palette, k.Kind); err != nil {
			return nil, fmt.Errorf("config: catalog %s: %w", c.Editor.Catalog, err)
		}
	}
	return cat, nil
}
