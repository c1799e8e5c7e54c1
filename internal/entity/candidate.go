package entity

import "github.com/snehbhagat/resume-intake/constants"

// CandidateRecord is one row in the record store. Fields that could not be
// extracted hold the "N/A" sentinel; Email is the identity key used for
// candidate-level deduplication.
type CandidateRecord struct {
	Name        string
	Email       string
	Phone       string
	ArchiveLink string
}

// NewCandidateRecord returns a record with every field set to the sentinel.
func NewCandidateRecord() CandidateRecord {
	return CandidateRecord{
		Name:  constants.NotFound,
		Email: constants.NotFound,
		Phone: constants.NotFound,
	}
}

// HasEmail reports whether the record carries a real (non-sentinel) email.
func (r CandidateRecord) HasEmail() bool {
	return r.Email != "" && r.Email != constants.NotFound
}
