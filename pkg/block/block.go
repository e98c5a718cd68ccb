package block

import "strings"

// Default attribute values for freshly created blocks.
const (
	DefaultScript    = `echo "Example script"`
	DefaultImage     = "node:14"
	DefaultTags      = "docker"
	DefaultArtifacts = "coverage/"
	DefaultWhen      = WhenOnSuccess
	DefaultOnly      = "master"
)

// Values accepted by the form's "when" selector. The field is free text in
// practice; these are only the ones the palette offers.
const (
	WhenOnSuccess = "on_success"
	WhenOnFailure = "on_failure"
	WhenAlways    = "always"
	WhenManual    = "manual"
)

// Position is a grid-snapped coordinate relative to the block's container.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Block is a placed pipeline step.
type Block struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Name      string   `json:"name"`
	Script    string   `json:"script"`
	Image     string   `json:"image"`
	Tags      string   `json:"tags"`
	Artifacts string   `json:"artifacts"`
	When      string   `json:"when"`
	Only      string   `json:"only"`
	Needs     string   `json:"needs"`
	Variables string   `json:"variables"`
	Position  Position `json:"position"`

	// Slot names the layout container the block lives in. Nested children
	// have no slot of their own.
	Slot string `json:"slot,omitempty"`

	Parent   string   `json:"parent,omitempty"`
	Children []string `json:"children,omitempty"`
}

// IsNested reports whether the block belongs to a group.
func (b Block) IsNested() bool { return b.Parent != "" }

// HasChildren reports whether the block owns nested blocks.
func (b Block) HasChildren() bool { return len(b.Children) > 0 }

func (b Block) clone() Block {
	b.Children = append([]string(nil), b.Children...)
	return b
}

// Patch is a partial update produced by the edit form. Nil fields are left
// untouched.
type Patch struct {
	Name      *string `json:"name,omitempty"`
	Script    *string `json:"script,omitempty"`
	Image     *string `json:"image,omitempty"`
	Tags      *string `json:"tags,omitempty"`
	Artifacts *string `json:"artifacts,omitempty"`
	When      *string `json:"when,omitempty"`
	Only      *string `json:"only,omitempty"`
	Needs     *string `json:"needs,omitempty"`
	Variables *string `json:"variables,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Script == nil && p.Image == nil && p.Tags == nil &&
		p.Artifacts == nil && p.When == nil && p.Only == nil && p.Needs == nil &&
		p.Variables == nil
}

func (p Patch) apply(b *Block) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&b.Name, p.Name)
	set(&b.Script, p.Script)
	set(&b.Image, p.Image)
	set(&b.Tags, p.Tags)
	set(&b.Artifacts, p.Artifacts)
	set(&b.When, p.When)
	set(&b.Only, p.Only)
	set(&b.Needs, p.Needs)
	set(&b.Variables, p.Variables)
}

// String returns a pointer to s, for building patches.
func String(s string) *string { return &s }

// SplitList splits a comma separated attribute into its entries. Entries are
// trimmed and empty ones dropped, so "a, b,," yields ["a", "b"].
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinList is the inverse of [SplitList].
func JoinList(items []string) string {
	return strings.Join(items, ",")
}

// SplitScript splits a script into lines. Carriage returns left behind by
// browsers on Windows are stripped; a trailing newline does not produce an
// empty last line.
func SplitScript(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// JoinScript is the inverse of [SplitScript]. A trailing empty line needs an
// extra newline, since SplitScript drops exactly one.
func JoinScript(lines []string) string {
	s := strings.Join(lines, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		s += "\n"
	}
	return s
}
