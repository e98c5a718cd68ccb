package document

import "fmt"

// WarningKind classifies a non-fatal compile finding.
type WarningKind string

const (
	// WarnDuplicateJob means a later block overwrote an earlier job of the
	// same name.
	WarnDuplicateJob WarningKind = "duplicate_job"

	// WarnDanglingNeed means a job needs a name that is not a job.
	WarnDanglingNeed WarningKind = "dangling_need"
)

// Warning is one non-fatal compile finding.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Job     string      `json:"job"`
	BlockID string      `json:"block_id,omitempty"`
	Ref     string      `json:"ref,omitempty"`
	Message string      `json:"message"`
}

// Report collects the warnings of one compilation.
type Report struct {
	Warnings []Warning `json:"warnings"`
}

// HasWarnings reports whether anything was found.
func (r *Report) HasWarnings() bool { return r != nil && len(r.Warnings) > 0 }

// Count returns the number of warnings of a kind.
func (r *Report) Count(kind WarningKind) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, w := range r.Warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Report) duplicate(job, blockID string) {
	r.Warnings = append(r.Warnings, Warning{
		Kind:    WarnDuplicateJob,
		Job:     job,
		BlockID: blockID,
		Message: fmt.Sprintf("job %q is defined more than once; block %s overwrites the earlier definition", job, blockID),
	})
}

func (r *Report) dangling(job, need string) {
	r.Warnings = append(r.Warnings, Warning{
		Kind:    WarnDanglingNeed,
		Job:     job,
		Ref:     need,
		Message: fmt.Sprintf("job %q needs %q, which is not a job", job, need),
	})
}
