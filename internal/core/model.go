package core

import (
	"strings"
	"time"
)

// LedgerTimeLayout renders message timestamps inside ledger keys. It matches
// the "YYYY-MM-DD HH:MM:SS+HH:MM" form already stored in existing ledgers.
const LedgerTimeLayout = "2006-01-02 15:04:05-07:00"

// Message is one inbound email, normalized by the mailbox reader
type Message struct {
	Sender    string
	Timestamp time.Time
	Subject   string
	Body      string

	// Attachment fields are set only when an attachment yielded text
	AttachmentText     string
	AttachmentFilename string
	AttachmentData     []byte
}

// LedgerKey derives the dedup identity of the message from sender and timestamp.
// Two messages from one sender within the same second share a key.
func (m Message) LedgerKey() string {
	return m.Sender + "_" + m.Timestamp.Format(LedgerTimeLayout)
}

// HasAttachment reports whether the message carries a persistable resume file
func (m Message) HasAttachment() bool {
	return len(m.AttachmentData) > 0 && m.AttachmentFilename != ""
}

// ExtractedCandidateInfo is the structured record produced by the extraction call.
// List-valued fields hold one entry per line.
type ExtractedCandidateInfo struct {
	FullName             string  `json:"full_name"`
	ProgrammingLanguages string  `json:"programming_languages"`
	WorkExperience       string  `json:"work_experience"`
	Technologies         string  `json:"technologies"`
	Education            string  `json:"education"`
	SoftSkills           string  `json:"soft_skills"`
	SpokenLanguages      string  `json:"spoken_languages"`
	Email                *string `json:"email"`
	Phone                *string `json:"phone"`
	Telegram             *string `json:"telegram"`
}

// IsEmpty reports whether the extraction produced no usable content
func (i *ExtractedCandidateInfo) IsEmpty() bool {
	if i == nil {
		return true
	}
	for _, v := range []string{
		i.FullName, i.ProgrammingLanguages, i.WorkExperience, i.Technologies,
		i.Education, i.SoftSkills, i.SpokenLanguages,
		deref(i.Email), deref(i.Phone), deref(i.Telegram),
	} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CandidateStatus is the hiring stage of a candidate
type CandidateStatus string

const (
	StatusNew                CandidateStatus = "new"
	StatusScreening          CandidateStatus = "screening"
	StatusInterviewScheduled CandidateStatus = "interview_scheduled"
	StatusInterviewPassed    CandidateStatus = "interview_passed"
	StatusOffer              CandidateStatus = "offer"
	StatusRejected           CandidateStatus = "rejected"
)

// User owns projects and, optionally, a mailbox the pipeline reads
type User struct {
	ID           int64
	Username     string
	Email        string
	MailPassword string
}

// HasMailCredentials reports whether the mailbox can be read
func (u *User) HasMailCredentials() bool {
	return strings.TrimSpace(u.Email) != "" && strings.TrimSpace(u.MailPassword) != ""
}

// Project groups positions and the users working on them
type Project struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Position is an open job with a free-text requirements blob
type Position struct {
	ID           int64
	ProjectID    int64
	Name         string
	Requirements string
	CreatedAt    time.Time
}

// Candidate is the persisted result of a matched resume
type Candidate struct {
	ID                   int64
	PositionID           int64
	FullName             string
	ProgrammingLanguages string
	Experience           string
	Technologies         string
	Education            string
	SoftSkills           string
	Languages            string
	Email                *string
	Telegram             string
	Phone                *string
	Status               CandidateStatus
	CVFile               string
	AudioFile            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
