package document

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pipecanvas/pkg/block"
)

// at creates a block of type t and places it on the canvas at y.
func at(t *testing.T, s *block.Store, typ string, y int) block.Block {
	t.Helper()
	b := s.Create(typ)
	if err := s.Place(b.ID, "canvas", block.Position{Y: y}); err != nil {
		t.Fatalf("Place(%s): %v", b.ID, err)
	}
	got, _ := s.Get(b.ID)
	return got
}

func containerCatalog(t *testing.T) *block.Catalog {
	t.Helper()
	c := block.DefaultCatalog()
	err := c.Register("custom", block.Kind{
		Type:          "bundle",
		Label:         "Bundle",
		ContainerOnly: true,
		Children: []block.ChildTemplate{
			{Type: "lint", Label: "Lint"},
			{Type: "audit", Label: "Audit"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCompileStageOrder(t *testing.T) {
	s := block.NewStore(block.DefaultCatalog())
	for i, typ := range []string{"test", "build", "test", "deploy"} {
		at(t, s, typ, i*60)
	}

	doc, rep := Compile(s)

	want := []string{"test", "build", "deploy"}
	if !slices.Equal(doc.Stages, want) {
		t.Errorf("Stages = %v, want %v", doc.Stages, want)
	}
	names := doc.Jobs.Names()
	wantNames := []string{"test-job", "build-job", "test-job-2", "deploy-job"}
	if !slices.Equal(names, wantNames) {
		t.Errorf("jobs = %v, want %v", names, wantNames)
	}
	if rep.HasWarnings() {
		t.Errorf("unexpected warnings: %+v", rep.Warnings)
	}
}

func TestCompileSortsByY(t *testing.T) {
	s := block.NewStore(nil)
	at(t, s, "deploy", 120)
	at(t, s, "build", 0)
	at(t, s, "test", 60)

	doc, _ := Compile(s)
	want := []string{"build", "test", "deploy"}
	if !slices.Equal(doc.Stages, want) {
		t.Errorf("Stages = %v, want %v", doc.Stages, want)
	}
}

func TestCompileTiesKeepInsertionOrder(t *testing.T) {
	s := block.NewStore(nil)
	at(t, s, "b", 40)
	at(t, s, "a", 40)

	doc, _ := Compile(s)
	if !slices.Equal(doc.Stages, []string{"b", "a"}) {
		t.Errorf("Stages = %v", doc.Stages)
	}
}

func TestCompileJobAttributes(t *testing.T) {
	s := block.NewStore(nil)
	b := at(t, s, "build", 0)
	err := s.Update(b.ID, block.Patch{
		Script:    block.String("make\nmake test\n"),
		Tags:      block.String("docker, linux"),
		Artifacts: block.String("dist/, coverage/"),
		Needs:     block.String("setup"),
		Variables: block.String("GOFLAGS=-mod=mod"),
		Only:      block.String(""),
	})
	if err != nil {
		t.Fatal(err)
	}

	doc, _ := Compile(s)
	job, ok := doc.Jobs.Get("build-job")
	if !ok {
		t.Fatal("build-job missing")
	}
	want := Job{
		Stage:     "build",
		Script:    []string{"make", "make test"},
		Image:     "node:14",
		Tags:      []string{"docker", "linux"},
		Artifacts: Artifacts{Paths: []string{"dist/", "coverage/"}},
		When:      "on_success",
		Only:      []string{},
		Needs:     []string{"setup"},
		Variables: []string{"GOFLAGS=-mod=mod"},
	}
	if !job.Equal(want) {
		t.Errorf("job = %+v\nwant  %+v", job, want)
	}
}

func TestCompileEmptyScriptFallback(t *testing.T) {
	s := block.NewStore(block.DefaultCatalog())
	b := at(t, s, "deploy", 0)
	if err := s.Update(b.ID, block.Patch{Script: block.String("  ")}); err != nil {
		t.Fatal(err)
	}
	doc, _ := Compile(s)
	job, _ := doc.Jobs.Get("deploy-job")
	if !slices.Equal(job.Script, []string{"echo Deploy"}) {
		t.Errorf("Script = %q", job.Script)
	}
}

func TestCompileGroupExpansion(t *testing.T) {
	tests := []struct {
		name   string
		typ    string
		jobs   []string
		stages []string
	}{
		{"group", "syac", []string{"syac-job", "pages-job", "compliance-job"}, []string{"syac"}},
		{"container only", "bundle", []string{"lint-job", "audit-job"}, []string{"bundle"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := block.NewStore(containerCatalog(t))
			at(t, s, tt.typ, 0)

			doc, _ := Compile(s)
			if got := doc.Jobs.Names(); !slices.Equal(got, tt.jobs) {
				t.Errorf("jobs = %v, want %v", got, tt.jobs)
			}
			if !slices.Equal(doc.Stages, tt.stages) {
				t.Errorf("Stages = %v, want %v", doc.Stages, tt.stages)
			}
			doc.Jobs.Each(func(name string, job Job) {
				if job.Stage != tt.typ {
					t.Errorf("%s stage = %q, want %q", name, job.Stage, tt.typ)
				}
			})
		})
	}
}

func TestCompileDuplicateNames(t *testing.T) {
	s := block.NewStore(nil)
	a := at(t, s, "build", 0)
	b := at(t, s, "test", 60)
	if err := s.Update(b.ID, block.Patch{Name: block.String(a.Name)}); err != nil {
		t.Fatal(err)
	}

	doc, rep := Compile(s)
	if doc.Jobs.Len() != 1 {
		t.Fatalf("jobs = %v, want one", doc.Jobs.Names())
	}
	job, _ := doc.Jobs.Get(a.Name)
	if job.Stage != "test" {
		t.Errorf("later block should win, got stage %q", job.Stage)
	}
	if !slices.Equal(doc.Stages, []string{"build", "test"}) {
		t.Errorf("Stages = %v", doc.Stages)
	}
	if rep.Count(WarnDuplicateJob) != 1 {
		t.Errorf("warnings = %+v", rep.Warnings)
	}
	if w := rep.Warnings[0]; w.BlockID != b.ID || w.Job != a.Name {
		t.Errorf("warning = %+v", w)
	}
}

func TestCompileDanglingNeed(t *testing.T) {
	s := block.NewStore(nil)
	at(t, s, "build", 0)
	b := at(t, s, "deploy", 60)
	if err := s.Update(b.ID, block.Patch{Needs: block.String("build-job, ghost")}); err != nil {
		t.Fatal(err)
	}

	doc, rep := Compile(s)
	job, _ := doc.Jobs.Get("deploy-job")
	if !slices.Equal(job.Needs, []string{"build-job", "ghost"}) {
		t.Errorf("Needs = %v, want passthrough", job.Needs)
	}
	if rep.Count(WarnDanglingNeed) != 1 {
		t.Fatalf("warnings = %+v", rep.Warnings)
	}
	if w := rep.Warnings[0]; w.Job != "deploy-job" || w.Ref != "ghost" {
		t.Errorf("warning = %+v", w)
	}
}

func TestCompileEmptyStore(t *testing.T) {
	doc, rep := Compile(block.NewStore(nil))
	if len(doc.Stages) != 0 || doc.Jobs.Len() != 0 || rep.HasWarnings() {
		t.Errorf("want empty document, got %+v %+v", doc, rep)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"stages":[],"jobs":{}}` {
		t.Errorf("json = %s", data)
	}
}

func TestCompileDeterministic(t *testing.T) {
	build := func() *block.Store {
		s := block.NewStore(block.DefaultCatalog())
		at(t, s, "deploy", 180)
		at(t, s, "syac", 60)
		at(t, s, "build", 0)
		at(t, s, "test", 60)
		return s
	}

	var first []byte
	for i := range 5 {
		doc, _ := Compile(build())
		out, err := yaml.Marshal(doc)
		if err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			first = out
			continue
		}
		if !bytes.Equal(out, first) {
			t.Fatalf("run %d differs:\n%s\nvs\n%s", i, out, first)
		}
	}
	// Jobs follow stage order, and keys keep the job field order.
	text := string(first)
	if !(strings.Index(text, "build-job:") < strings.Index(text, "syac-job:") &&
		strings.Index(text, "syac-job:") < strings.Index(text, "deploy-job:")) {
		t.Errorf("unexpected job order:\n%s", text)
	}
	if strings.Index(text, "stages:") > strings.Index(text, "jobs:") {
		t.Errorf("stages should come before jobs:\n%s", text)
	}
}
