package document

import (
	"github.com/matzehuels/pipecanvas/pkg/block"
	"github.com/matzehuels/pipecanvas/pkg/errors"
	"github.com/matzehuels/pipecanvas/pkg/layout"
)

// Import rebuilds a block store from a document.
//
// For each stage in order, one block per job of that stage is created in
// document order, then the blocks are stacked by e (a single-canvas engine
// when e is nil). Jobs of a container-only group type are nested under one
// recreated group block so that they compile back to the same stage.
//
// The document is validated first; on error no store is returned and nothing
// the caller owns has been modified.
func Import(doc *Document, c *block.Catalog, e *layout.Engine) (*block.Store, error) {
	s := block.NewStore(c)
	if err := ImportInto(s, doc, e); err != nil {
		return nil, err
	}
	return s, nil
}

// ImportInto is [Import] into a caller-provided store, which should be empty.
// It lets the caller continue the ID sequence of a store being replaced.
// On a validation error s is left untouched.
func ImportInto(s *block.Store, doc *Document, e *layout.Engine) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if e == nil {
		e = layout.NewEngine(layout.ModeSingle)
	}

	c := s.Catalog()
	for _, stage := range doc.Stages {
		names := doc.JobsInStage(stage)
		if c.IsContainerOnly(stage) {
			group := s.Insert(block.Block{Type: stage, Name: stage})
			for _, name := range names {
				job, _ := doc.Jobs.Get(name)
				if _, err := s.InsertChild(group.ID, blockFor(name, job)); err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "nest job %s", name)
				}
			}
			continue
		}
		for _, name := range names {
			job, _ := doc.Jobs.Get(name)
			s.Insert(blockFor(name, job))
		}
	}

	if err := e.StackAll(s); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "stack imported blocks")
	}
	return nil
}

func blockFor(name string, job Job) block.Block {
	return block.Block{
		Type:      job.Stage,
		Name:      name,
		Script:    block.JoinScript(job.Script),
		Image:     job.Image,
		Tags:      block.JoinList(job.Tags),
		Artifacts: block.JoinList(job.Artifacts.Paths),
		When:      job.When,
		Only:      block.JoinList(job.Only),
		Needs:     block.JoinList(job.Needs),
		Variables: block.JoinList(job.Variables),
	}
}
