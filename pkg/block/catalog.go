package block

import (
	"fmt"
	"slices"
	"strings"
)

// Palette names known to the default catalog.
const (
	PalettePredefined = "predefined"
	PaletteSYAC       = "syac"
)

// Kind describes one block type offered by a palette.
type Kind struct {
	Type        string `json:"type" toml:"type"`
	Label       string `json:"label" toml:"label"`
	Description string `json:"description,omitempty" toml:"description"`

	// Children turns the kind into a group: every created block of this type
	// gets one nested block per template.
	Children []ChildTemplate `json:"children,omitempty" toml:"children"`

	// ContainerOnly groups compile to their children only.
	ContainerOnly bool `json:"container_only,omitempty" toml:"container_only"`

	// MultiColumn marks the type whose drop restructures the surface into
	// the two-column cell grid.
	MultiColumn bool `json:"multi_column,omitempty" toml:"multi_column"`
}

// ChildTemplate describes a nested block created together with its group.
type ChildTemplate struct {
	Type  string `json:"type" toml:"type"`
	Label string `json:"label" toml:"label"`
}

// IsGroup reports whether blocks of this kind own nested children.
func (k Kind) IsGroup() bool { return len(k.Children) > 0 || k.ContainerOnly }

// Catalog is the set of block kinds and the palettes that list them.
// Types missing from the catalog are still valid block types; they simply
// have no label, children or special behaviour.
type Catalog struct {
	kinds    map[string]Kind
	palettes map[string][]string
	order    []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		kinds:    make(map[string]Kind),
		palettes: make(map[string][]string),
	}
}

// Register adds or replaces a kind and lists it on the given palette.
func (c *Catalog) Register(palette string, k Kind) error {
	if k.Type == "" {
		return fmt.Errorf("register kind: empty type")
	}
	if k.Label == "" {
		k.Label = Label(k.Type)
	}
	if _, ok := c.kinds[k.Type]; !ok {
		c.order = append(c.order, k.Type)
	}
	c.kinds[k.Type] = k
	if palette != "" && !slices.Contains(c.palettes[palette], k.Type) {
		c.palettes[palette] = append(c.palettes[palette], k.Type)
	}
	return nil
}

// Lookup returns the kind registered for t.
func (c *Catalog) Lookup(t string) (Kind, bool) {
	if c == nil {
		return Kind{}, false
	}
	k, ok := c.kinds[t]
	return k, ok
}

// IsGroup reports whether t is a registered group type.
func (c *Catalog) IsGroup(t string) bool {
	k, ok := c.Lookup(t)
	return ok && k.IsGroup()
}

// IsContainerOnly reports whether t is a group that is not itself a job.
func (c *Catalog) IsContainerOnly(t string) bool {
	k, ok := c.Lookup(t)
	return ok && k.ContainerOnly
}

// IsMultiColumn reports whether dropping t restructures the surface.
func (c *Catalog) IsMultiColumn(t string) bool {
	k, ok := c.Lookup(t)
	return ok && k.MultiColumn
}

// Palette returns the kinds listed on a palette, in registration order.
func (c *Catalog) Palette(name string) []Kind {
	types := c.palettes[name]
	out := make([]Kind, 0, len(types))
	for _, t := range types {
		out = append(out, c.kinds[t])
	}
	return out
}

// Palettes returns the palette names in sorted order.
func (c *Catalog) Palettes() []string {
	names := make([]string, 0, len(c.palettes))
	for name := range c.palettes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Kinds returns all registered kinds in registration order.
func (c *Catalog) Kinds() []Kind {
	out := make([]Kind, 0, len(c.order))
	for _, t := range c.order {
		out = append(out, c.kinds[t])
	}
	return out
}

// Label returns a display label for a type: its first letter upper-cased.
func Label(t string) string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(t[:1]) + t[1:]
}

// DefaultCatalog returns the catalog behind the stock editor palettes.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	predefined := []Kind{
		{Type: "build", Label: "Build", Description: "Compiles your code"},
		{Type: "test", Label: "Test", Description: "Runs automated tests"},
		{Type: "release", Label: "Release", Description: "Prepares a release"},
		{Type: "deploy", Label: "Deploy", Description: "Deploys the application"},
		{Type: "webhook", Label: "Webhook", Description: "Triggers a webhook"},
		{Type: "scan", Label: "Scan", Description: "Scans the code for vulnerabilities"},
		{
			Type:        "syac",
			Label:       "SYAC",
			Description: "Special job for compliance",
			Children: []ChildTemplate{
				{Type: "pages", Label: "Pages"},
				{Type: "compliance", Label: "Compliance"},
			},
		},
		{Type: "syac-multi", Label: "SYAC Multi", Description: "Multiple SYAC jobs", MultiColumn: true},
	}
	syac := []Kind{
		{Type: "syac-build", Label: "SYAC Build", Description: "SYAC specific build job"},
		{Type: "syac-test", Label: "SYAC Test", Description: "SYAC specific test job"},
		{Type: "syac-deploy", Label: "SYAC Deploy", Description: "SYAC specific deploy job"},
		{Type: "syac-scan", Label: "SYAC Scan", Description: "SYAC specific scan job"},
		{Type: "syac-release", Label: "SYAC Release", Description: "SYAC specific release job"},
	}
	for _, k := range predefined {
		_ = c.Register(PalettePredefined, k)
	}
	for _, k := range syac {
		_ = c.Register(PaletteSYAC, k)
	}
	return c
}
