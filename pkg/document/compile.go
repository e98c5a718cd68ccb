package document

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/pipecanvas/pkg/block"
)

// Compile projects a store into a document. It never fails; questionable
// input is reported in the returned [Report].
func Compile(s *block.Store) (*Document, *Report) {
	doc := New()
	rep := &Report{}
	cat := s.Catalog()

	top := s.TopLevel()
	slices.SortStableFunc(top, func(a, b block.Block) int {
		return cmp.Compare(a.Position.Y, b.Position.Y)
	})

	blockOf := make(map[string]string)
	set := func(b block.Block, stage string) {
		if doc.Jobs.Set(b.Name, jobFor(b, stage, cat)) {
			rep.duplicate(b.Name, b.ID)
		}
		blockOf[b.Name] = b.ID
	}

	for _, b := range top {
		if !slices.Contains(doc.Stages, b.Type) {
			doc.Stages = append(doc.Stages, b.Type)
		}
		if !cat.IsContainerOnly(b.Type) {
			set(b, b.Type)
		}
		for _, child := range s.Children(b.ID) {
			set(child, b.Type)
		}
	}

	doc.Jobs.Each(func(name string, job Job) {
		for _, n := range job.Needs {
			if _, ok := doc.Jobs.Get(n); !ok {
				rep.dangling(name, n)
			}
		}
	})
	return doc, rep
}

func jobFor(b block.Block, stage string, cat *block.Catalog) Job {
	script := block.SplitScript(b.Script)
	if strings.TrimSpace(b.Script) == "" {
		label := block.Label(b.Type)
		if k, ok := cat.Lookup(b.Type); ok {
			label = k.Label
		}
		script = []string{"echo " + label}
	}
	return Job{
		Stage:     stage,
		Script:    script,
		Image:     b.Image,
		Tags:      block.SplitList(b.Tags),
		Artifacts: Artifacts{Paths: block.SplitList(b.Artifacts)},
		When:      b.When,
		Only:      block.SplitList(b.Only),
		Needs:     block.SplitList(b.Needs),
		Variables: block.SplitList(b.Variables),
	}
}
