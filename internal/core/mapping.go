package core

import (
	"strings"

	"github.com/mikey/recruitflow-ingest/internal/utils"
)

const (
	// MaxProgrammingLanguagesChars is the stored width of Candidate.ProgrammingLanguages
	MaxProgrammingLanguagesChars = 100
	// MaxSpokenLanguagesChars is the stored width of Candidate.Languages
	MaxSpokenLanguagesChars = 255
	// UnnamedCandidate replaces a missing full name when other content exists
	UnnamedCandidate = "Unnamed candidate"

	listSeparator = ", "
)

// SummaryText renders every extracted field as a "key: value" line, in
// schema order. Null contacts render as empty values.
func (i *ExtractedCandidateInfo) SummaryText() string {
	lines := []struct {
		key   string
		value string
	}{
		{"full_name", i.FullName},
		{"programming_languages", i.ProgrammingLanguages},
		{"work_experience", i.WorkExperience},
		{"technologies", i.Technologies},
		{"education", i.Education},
		{"soft_skills", i.SoftSkills},
		{"spoken_languages", i.SpokenLanguages},
		{"email", deref(i.Email)},
		{"phone", deref(i.Phone)},
		{"telegram", deref(i.Telegram)},
	}

	var b strings.Builder
	for n, l := range lines {
		if n > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.key)
		b.WriteString(": ")
		b.WriteString(l.value)
	}
	return b.String()
}

// NewCandidate maps an extraction onto a new candidate for the position
func NewCandidate(info *ExtractedCandidateInfo, positionID int64) *Candidate {
	name := strings.TrimSpace(info.FullName)
	if name == "" {
		name = UnnamedCandidate
	}

	return &Candidate{
		PositionID:           positionID,
		FullName:             name,
		ProgrammingLanguages: utils.TruncateRunes(utils.JoinLines(info.ProgrammingLanguages, listSeparator), MaxProgrammingLanguagesChars),
		Experience:           info.WorkExperience,
		Technologies:         info.Technologies,
		Education:            info.Education,
		SoftSkills:           info.SoftSkills,
		Languages:            utils.TruncateRunes(utils.JoinLines(info.SpokenLanguages, listSeparator), MaxSpokenLanguagesChars),
		Email:                nonEmpty(info.Email),
		Telegram:             deref(info.Telegram),
		Phone:                nonEmpty(info.Phone),
		Status:               StatusNew,
	}
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
