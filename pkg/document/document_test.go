package document

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const sampleYAML = `stages:
  - build
  - test
jobs:
  zeta:
    stage: build
    script:
      - make
    image: golang:1.24
    tags: [docker]
    artifacts:
      paths: [bin/]
    when: on_success
    only: [main]
    needs: []
    variables: []
  alpha:
    stage: test
    script: [make test]
    needs: [zeta]
`

func TestYAMLKeepsJobOrder(t *testing.T) {
	var doc Document
	if err := yaml.Unmarshal([]byte(sampleYAML), &doc); err != nil {
		t.Fatal(err)
	}
	if got := doc.Jobs.Names(); !slices.Equal(got, []string{"zeta", "alpha"}) {
		t.Errorf("Names = %v", got)
	}
	zeta, _ := doc.Jobs.Get("zeta")
	if zeta.Image != "golang:1.24" || !slices.Equal(zeta.Artifacts.Paths, []string{"bin/"}) {
		t.Errorf("zeta = %+v", zeta)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Index(string(out), "zeta:") > strings.Index(string(out), "alpha:") {
		t.Errorf("order lost:\n%s", out)
	}

	var back Document
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(&doc) {
		t.Errorf("yaml round trip differs")
	}
}

func TestYAMLRejectsBadJobs(t *testing.T) {
	for _, in := range []string{
		"stages: [a]\njobs: [x, y]\n",
		"stages: [a]\njobs:\n  x: 3\n",
		"stages: [a]\njobs:\n  ? [k]\n  : {stage: a}\n",
	} {
		var doc Document
		if err := yaml.Unmarshal([]byte(in), &doc); err == nil {
			t.Errorf("Unmarshal(%q) succeeded", in)
		}
	}
}

func TestJSONKeepsJobOrder(t *testing.T) {
	in := `{"stages":["b","a"],"jobs":{"second":{"stage":"b","script":["x"]},"first":{"stage":"a","script":["y"]}}}`
	var doc Document
	if err := json.Unmarshal([]byte(in), &doc); err != nil {
		t.Fatal(err)
	}
	if got := doc.Jobs.Names(); !slices.Equal(got, []string{"second", "first"}) {
		t.Errorf("Names = %v", got)
	}
	out, err := json.Marshal(&doc)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Index(string(out), `"second"`) > strings.Index(string(out), `"first"`) {
		t.Errorf("order lost: %s", out)
	}
	if err := json.Unmarshal([]byte(`{"stages":[],"jobs":[1]}`), &doc); err == nil {
		t.Error("array of jobs accepted")
	}
}

func TestDocumentEqual(t *testing.T) {
	mk := func(order ...string) *Document {
		d := New()
		d.Stages = []string{"s"}
		for _, n := range order {
			d.Jobs.Set(n, Job{Stage: "s", Script: []string{n}})
		}
		return d
	}

	if !mk("a", "b").Equal(mk("b", "a")) {
		t.Error("job order should not matter")
	}
	if mk("a").Equal(mk("a", "b")) {
		t.Error("different job sets compared equal")
	}
	other := mk("a")
	other.Stages = []string{"s", "t"}
	if mk("a").Equal(other) {
		t.Error("different stages compared equal")
	}
	changed := mk("a")
	changed.Jobs.Set("a", Job{Stage: "s", Script: []string{"other"}})
	if mk("a").Equal(changed) {
		t.Error("different job bodies compared equal")
	}
	if !(Job{Tags: nil}).Equal(Job{Tags: []string{}}) {
		t.Error("nil and empty lists should compare equal")
	}
}

func TestJobsSetKeepsPosition(t *testing.T) {
	j := NewJobs()
	j.Set("a", Job{Stage: "1"})
	j.Set("b", Job{Stage: "1"})
	if replaced := j.Set("a", Job{Stage: "2"}); !replaced {
		t.Error("Set should report replacement")
	}
	if got := j.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Names = %v", got)
	}
	if a, _ := j.Get("a"); a.Stage != "2" {
		t.Errorf("a.Stage = %q", a.Stage)
	}
}
