package pipeline

import (
	"time"

	"github.com/snehbhagat/resume-intake/constants"
	"github.com/snehbhagat/resume-intake/internal/entity"
	"github.com/snehbhagat/resume-intake/internal/hashing"
)

// DocResult is the per-document outcome of a batch run.
type DocResult struct {
	DisplayName string
	Status      constants.DocStatus
	Fingerprint hashing.Fingerprint
	Record      *entity.CandidateRecord
	Stage       string // stage that failed, for FAILED results
	Err         string
}

// Report summarizes a batch run. Failed includes documents whose extraction
// produced no record (NO_RECORD) as well as collaborator failures.
type Report struct {
	RunID       string
	Started     time.Time
	Finished    time.Time
	Results     []DocResult
	Uploaded    int
	DupContent  int
	DupIdentity int
	Failed      int
}

func (r *Report) add(res DocResult) {
	r.Results = append(r.Results, res)
	switch res.Status {
	case constants.DocStatusUploaded:
		r.Uploaded++
	case constants.DocStatusDupContent:
		r.DupContent++
	case constants.DocStatusDupIdentity:
		r.DupIdentity++
	default:
		r.Failed++
	}
}
