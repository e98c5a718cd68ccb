package document

import (
	"slices"

	"github.com/matzehuels/pipecanvas/pkg/errors"
)

// Artifacts lists the output paths of a job.
type Artifacts struct {
	Paths []string `yaml:"paths" json:"paths"`
}

// Job is one compiled unit of work.
type Job struct {
	Stage     string    `yaml:"stage" json:"stage"`
	Script    []string  `yaml:"script" json:"script"`
	Image     string    `yaml:"image" json:"image"`
	Tags      []string  `yaml:"tags" json:"tags"`
	Artifacts Artifacts `yaml:"artifacts" json:"artifacts"`
	When      string    `yaml:"when" json:"when"`
	Only      []string  `yaml:"only" json:"only"`
	Needs     []string  `yaml:"needs" json:"needs"`
	Variables []string  `yaml:"variables" json:"variables"`
}

// Equal reports whether two jobs carry the same attributes. Nil and empty
// lists compare equal.
func (j Job) Equal(o Job) bool {
	return j.Stage == o.Stage &&
		slices.Equal(j.Script, o.Script) &&
		j.Image == o.Image &&
		slices.Equal(j.Tags, o.Tags) &&
		slices.Equal(j.Artifacts.Paths, o.Artifacts.Paths) &&
		j.When == o.When &&
		slices.Equal(j.Only, o.Only) &&
		slices.Equal(j.Needs, o.Needs) &&
		slices.Equal(j.Variables, o.Variables)
}

// Jobs is a job map that remembers insertion order. Overwriting an existing
// name keeps its original position.
type Jobs struct {
	names  []string
	byName map[string]Job
}

// NewJobs creates an empty job map.
func NewJobs() *Jobs {
	return &Jobs{byName: make(map[string]Job)}
}

// Set inserts or overwrites a job and reports whether it replaced one.
func (j *Jobs) Set(name string, job Job) bool {
	_, replaced := j.byName[name]
	if !replaced {
		j.names = append(j.names, name)
	}
	j.byName[name] = job
	return replaced
}

// Get returns the job with the given name.
func (j *Jobs) Get(name string) (Job, bool) {
	if j == nil {
		return Job{}, false
	}
	job, ok := j.byName[name]
	return job, ok
}

// Names returns the job names in insertion order.
func (j *Jobs) Names() []string {
	if j == nil {
		return nil
	}
	return slices.Clone(j.names)
}

// Len returns the number of jobs.
func (j *Jobs) Len() int {
	if j == nil {
		return 0
	}
	return len(j.names)
}

// Each calls fn for every job in insertion order.
func (j *Jobs) Each(fn func(name string, job Job)) {
	if j == nil {
		return
	}
	for _, n := range j.names {
		fn(n, j.byName[n])
	}
}

// Document is the compiled pipeline description.
type Document struct {
	Stages []string `yaml:"stages" json:"stages"`
	Jobs   *Jobs    `yaml:"jobs" json:"jobs"`
}

// New returns an empty document.
func New() *Document {
	return &Document{Stages: []string{}, Jobs: NewJobs()}
}

// Equal reports whether two documents have the same stages, in order, and
// the same set of jobs. Job order is not significant.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	if !slices.Equal(d.Stages, o.Stages) || d.Jobs.Len() != o.Jobs.Len() {
		return false
	}
	for _, name := range d.Jobs.Names() {
		a, _ := d.Jobs.Get(name)
		b, ok := o.Jobs.Get(name)
		if !ok || !a.Equal(b) {
			return false
		}
	}
	return true
}

// JobsInStage returns the names of the jobs of a stage in document order.
func (d *Document) JobsInStage(stage string) []string {
	var out []string
	d.Jobs.Each(func(name string, job Job) {
		if job.Stage == stage {
			out = append(out, name)
		}
	})
	return out
}

// Validate checks the document shape required for import: a job map must be
// present, stage names must be unique and non-empty, and every job needs a
// stage listed in stages and a non-empty script.
func (d *Document) Validate() error {
	if d == nil {
		return errors.New(errors.ErrCodeInvalidDocument, "empty document")
	}
	if d.Jobs == nil {
		return errors.New(errors.ErrCodeInvalidDocument, "document has no jobs")
	}
	stages := make(map[string]bool, len(d.Stages))
	for _, s := range d.Stages {
		if s == "" {
			return errors.New(errors.ErrCodeInvalidDocument, "empty stage name")
		}
		if stages[s] {
			return errors.New(errors.ErrCodeInvalidDocument, "duplicate stage %q", s)
		}
		stages[s] = true
	}
	for _, name := range d.Jobs.Names() {
		job, _ := d.Jobs.Get(name)
		switch {
		case name == "":
			return errors.New(errors.ErrCodeInvalidDocument, "job with empty name")
		case job.Stage == "":
			return errors.New(errors.ErrCodeInvalidDocument, "job %q has no stage", name)
		case !stages[job.Stage]:
			return errors.New(errors.ErrCodeInvalidDocument, "job %q uses unknown stage %q", name, job.Stage)
		case len(job.Script) == 0:
			return errors.New(errors.ErrCodeInvalidDocument, "job %q has no script", name)
		}
	}
	return nil
}
