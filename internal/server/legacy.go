package server

import (
	"net/http"

	"github.com/matzehuels/pipecanvas/pkg/document"
	"github.com/matzehuels/pipecanvas/pkg/errors"
	pio "github.com/matzehuels/pipecanvas/pkg/io"
)

// legacyPipeline is the request body of POST /generate-yaml: a flat block
// list plus explicit dependency edges.
type legacyPipeline struct {
	Blocks []legacyBlock `json:"blocks"`
	Edges  []legacyEdge  `json:"edges"`
}

type legacyBlock struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Data     map[string]any `json:"data"`
	Position map[string]any `json:"position"`
}

type legacyEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// legacyDocument builds a document with one job per block, named by block
// ID, staged by block type and scripted as "echo <type>". Each edge adds its
// source to the target's needs.
func legacyDocument(p legacyPipeline) (*document.Document, error) {
	doc := document.New()
	seen := make(map[string]bool)
	for _, b := range p.Blocks {
		if b.ID == "" || b.Type == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "block needs an id and a type")
		}
		if !seen[b.Type] {
			seen[b.Type] = true
			doc.Stages = append(doc.Stages, b.Type)
		}
		doc.Jobs.Set(b.ID, document.Job{Stage: b.Type, Script: []string{"echo " + b.Type}})
	}
	for _, e := range p.Edges {
		job, ok := doc.Jobs.Get(e.Target)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge target %q is not a block", e.Target)
		}
		job.Needs = append(job.Needs, e.Source)
		doc.Jobs.Set(e.Target, job)
	}
	return doc, nil
}

func (s *Server) handleGenerateYAML(w http.ResponseWriter, r *http.Request) {
	var p legacyPipeline
	if err := decode(r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := legacyDocument(p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := pio.Encode(doc, pio.FormatYAML)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode document"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"yaml": string(data)})
}
