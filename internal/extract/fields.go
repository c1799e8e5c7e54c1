package extract

import (
	"regexp"
	"strings"

	"github.com/snehbhagat/resume-intake/internal/entity"
)

// Patterns mirror the intake policy: loosely-structured, first match wins.
var (
	reEmail = regexp.MustCompile(`[a-zA-Z0-9+_.-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]+`)
	rePhone = regexp.MustCompile(`\+?\d{1,3}[-.\s]?\d{3}[-.\s]?\d{3,4}[-.\s]?\d{3,4}`)
)

// nameScanLines bounds the name search: resumes conventionally put the
// candidate's name near the top.
const nameScanLines = 5

// RegexFieldExtractor derives candidate fields from plain text by pattern
// matching. It never fails; fields that cannot be found hold the "N/A"
// sentinel, so empty input yields an all-sentinel record.
//
// Only the first email and phone match are used even when several appear
// (a template footer may carry a recruiter's address before the
// candidate's). Changing that policy needs product input; do not "fix" it
// here.
type RegexFieldExtractor struct{}

func NewRegexFieldExtractor() *RegexFieldExtractor {
	return &RegexFieldExtractor{}
}

func (RegexFieldExtractor) ExtractFields(text string) entity.CandidateRecord {
	rec := entity.NewCandidateRecord()

	if m := reEmail.FindString(text); m != "" {
		rec.Email = m
	}
	if m := rePhone.FindString(text); m != "" {
		rec.Phone = m
	}
	if name := scanName(text); name != "" {
		rec.Name = name
	}
	return rec
}

// scanName takes the first of the leading lines that has at least two
// whitespace-separated tokens, trimmed. Returns "" when none qualifies.
func scanName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > nameScanLines {
		lines = lines[:nameScanLines]
	}
	for _, line := range lines {
		if len(strings.Fields(line)) >= 2 {
			return strings.TrimSpace(line)
		}
	}
	return ""
}
