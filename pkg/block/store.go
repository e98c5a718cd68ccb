package block

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/matzehuels/pipecanvas/pkg/errors"
)

// Store owns the placed blocks of one editing session.
//
// All accessors hand out copies; mutate through the store's methods only.
// Store is not safe for concurrent use.
type Store struct {
	blocks  map[string]*Block
	order   []string
	next    int
	catalog *Catalog
}

// NewStore creates an empty store. A nil catalog means no group types.
func NewStore(c *Catalog) *Store {
	if c == nil {
		c = NewCatalog()
	}
	return &Store{
		blocks:  make(map[string]*Block),
		catalog: c,
	}
}

// Catalog returns the catalog the store creates blocks from.
func (s *Store) Catalog() *Catalog { return s.catalog }

// Len returns the number of blocks, nested ones included.
func (s *Store) Len() int { return len(s.order) }

func (s *Store) newID() string {
	s.next++
	return "b" + strconv.Itoa(s.next)
}

// Create adds a block of type t with default attributes. If t is a group in
// the catalog its nested children are created too. The default name
// "<type>-job" is suffixed with "-2", "-3", ... when already taken.
func (s *Store) Create(t string) Block {
	b := s.insert(defaults(t, DefaultScript), "", true)
	if k, ok := s.catalog.Lookup(t); ok {
		for _, tpl := range k.Children {
			child := defaults(tpl.Type, fmt.Sprintf("echo \"%s script\"", tpl.Label))
			s.insert(child, b.ID, true)
		}
	}
	return s.mustGet(b.ID)
}

// CreateChild adds a nested block of type t under parent.
func (s *Store) CreateChild(parent, t string) (Block, error) {
	if _, ok := s.blocks[parent]; !ok {
		return Block{}, notFound(parent)
	}
	b := s.insert(defaults(t, DefaultScript), parent, true)
	return b, nil
}

// Insert adds b as a new top-level block, keeping its attributes and
// position but assigning a fresh ID. No nested children are created, even
// for group types, and the name is kept verbatim; this is the path used when
// rebuilding blocks from a compiled document.
func (s *Store) Insert(b Block) Block {
	b.Parent = ""
	b.Children = nil
	return s.insert(b, "", false)
}

// InsertChild adds b as a nested block of parent, keeping its name verbatim.
func (s *Store) InsertChild(parent string, b Block) (Block, error) {
	if _, ok := s.blocks[parent]; !ok {
		return Block{}, notFound(parent)
	}
	b.Children = nil
	return s.insert(b, parent, false), nil
}

func defaults(t, script string) Block {
	return Block{
		Type:      t,
		Name:      t + "-job",
		Script:    script,
		Image:     DefaultImage,
		Tags:      DefaultTags,
		Artifacts: DefaultArtifacts,
		When:      DefaultWhen,
		Only:      DefaultOnly,
	}
}

func (s *Store) insert(b Block, parent string, dedupe bool) Block {
	b.ID = s.newID()
	if dedupe {
		b.Name = s.uniqueName(b.Name)
	}
	if parent != "" {
		b.Parent = parent
		b.Slot = ""
		p := s.blocks[parent]
		p.Children = append(p.Children, b.ID)
	}
	stored := b.clone()
	s.blocks[b.ID] = &stored
	s.order = append(s.order, b.ID)
	return stored.clone()
}

func (s *Store) uniqueName(base string) string {
	if s.FindByName(base) == nil {
		return base
	}
	for i := 2; ; i++ {
		name := base + "-" + strconv.Itoa(i)
		if s.FindByName(name) == nil {
			return name
		}
	}
}

// Get returns a copy of the block with the given ID.
func (s *Store) Get(id string) (Block, bool) {
	b, ok := s.blocks[id]
	if !ok {
		return Block{}, false
	}
	return b.clone(), true
}

func (s *Store) mustGet(id string) Block {
	b, _ := s.Get(id)
	return b
}

// Update applies a patch to a block.
func (s *Store) Update(id string, p Patch) error {
	b, ok := s.blocks[id]
	if !ok {
		return notFound(id)
	}
	p.apply(b)
	return nil
}

// Place moves a top-level block to a container and position.
func (s *Store) Place(id, slot string, pos Position) error {
	b, ok := s.blocks[id]
	if !ok {
		return notFound(id)
	}
	if b.IsNested() {
		return errors.New(errors.ErrCodeInvalidTarget, "block %s is nested in %s and cannot be placed", id, b.Parent)
	}
	b.Slot = slot
	b.Position = pos
	return nil
}

// Delete removes a block and, recursively, its nested children.
func (s *Store) Delete(id string) error {
	b, ok := s.blocks[id]
	if !ok {
		return notFound(id)
	}
	for _, child := range slices.Clone(b.Children) {
		_ = s.Delete(child)
	}
	if p, ok := s.blocks[b.Parent]; ok {
		p.Children = slices.DeleteFunc(p.Children, func(c string) bool { return c == id })
	}
	delete(s.blocks, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
	return nil
}

// List returns every block, nested ones included, in insertion order.
func (s *Store) List() []Block {
	out := make([]Block, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.blocks[id].clone())
	}
	return out
}

// TopLevel returns the blocks that are not nested, in insertion order.
func (s *Store) TopLevel() []Block {
	out := make([]Block, 0, len(s.order))
	for _, id := range s.order {
		if b := s.blocks[id]; !b.IsNested() {
			out = append(out, b.clone())
		}
	}
	return out
}

// Children returns the nested blocks of a group in document order.
func (s *Store) Children(id string) []Block {
	b, ok := s.blocks[id]
	if !ok {
		return nil
	}
	out := make([]Block, 0, len(b.Children))
	for _, c := range b.Children {
		if child, ok := s.blocks[c]; ok {
			out = append(out, child.clone())
		}
	}
	return out
}

// FindByName returns the first block, in insertion order, with the given
// name. With duplicate names the answer is ambiguous by construction.
func (s *Store) FindByName(name string) *Block {
	for _, id := range s.order {
		if b := s.blocks[id]; b.Name == name {
			c := b.clone()
			return &c
		}
	}
	return nil
}

// Names returns the set of block names currently in the store.
func (s *Store) Names() map[string]bool {
	names := make(map[string]bool, len(s.order))
	for _, id := range s.order {
		names[s.blocks[id].Name] = true
	}
	return names
}

// Clone returns a deep copy of the store sharing the catalog.
func (s *Store) Clone() *Store {
	c := &Store{
		blocks:  make(map[string]*Block, len(s.blocks)),
		order:   slices.Clone(s.order),
		next:    s.next,
		catalog: s.catalog,
	}
	for id, b := range s.blocks {
		cp := b.clone()
		c.blocks[id] = &cp
	}
	return c
}

// Reserve makes sure future IDs are numbered after n. It lets a replacement
// store continue the ID sequence of the store it replaces.
func (s *Store) Reserve(n int) {
	if n > s.next {
		s.next = n
	}
}

// Counter returns the last ID number handed out.
func (s *Store) Counter() int { return s.next }

func notFound(id string) error {
	return errors.New(errors.ErrCodeBlockNotFound, "block %s not found", id)
}
