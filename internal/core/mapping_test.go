package core

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func strPtr(s string) *string { return &s }

func TestNewCandidateTruncatesLanguages(t *testing.T) {
	info := &ExtractedCandidateInfo{
		FullName:             "Ann Lee",
		ProgrammingLanguages: strings.Repeat("a", 150),
		SpokenLanguages:      strings.Repeat("English C1\n", 40),
	}

	c := NewCandidate(info, 7)

	if len(c.ProgrammingLanguages) != MaxProgrammingLanguagesChars {
		t.Fatalf("expected 100 chars, got %d", len(c.ProgrammingLanguages))
	}
	if n := utf8.RuneCountInString(c.Languages); n != MaxSpokenLanguagesChars {
		t.Fatalf("expected 255 chars, got %d", n)
	}
	if strings.Contains(c.Languages, "\n") {
		t.Fatalf("expected newlines replaced, got %q", c.Languages)
	}
	if c.PositionID != 7 || c.Status != StatusNew {
		t.Fatalf("unexpected candidate %+v", c)
	}
}

func TestNewCandidateJoinsAndCountsCharacters(t *testing.T) {
	info := &ExtractedCandidateInfo{
		FullName:             "Иван",
		ProgrammingLanguages: "Go\nPython\nC++",
		SpokenLanguages:      strings.Repeat("Ж", 300),
	}

	c := NewCandidate(info, 1)
	if c.ProgrammingLanguages != "Go, Python, C++" {
		t.Fatalf("unexpected join %q", c.ProgrammingLanguages)
	}
	if n := utf8.RuneCountInString(c.Languages); n != 255 {
		t.Fatalf("expected 255 characters, got %d", n)
	}
}

func TestNewCandidateContacts(t *testing.T) {
	c := NewCandidate(&ExtractedCandidateInfo{
		ProgrammingLanguages: "Go",
		Email:                strPtr(" ann@example.com "),
		Phone:                strPtr(""),
	}, 1)

	if c.Telegram != "" {
		t.Fatalf("expected empty telegram for null, got %q", c.Telegram)
	}
	if c.Email == nil || *c.Email != "ann@example.com" {
		t.Fatalf("unexpected email %v", c.Email)
	}
	if c.Phone != nil {
		t.Fatalf("expected nil phone for empty value")
	}
	if c.FullName != UnnamedCandidate {
		t.Fatalf("expected placeholder name, got %q", c.FullName)
	}

	c = NewCandidate(&ExtractedCandidateInfo{FullName: "A", Telegram: strPtr("@ann")}, 1)
	if c.Telegram != "@ann" {
		t.Fatalf("unexpected telegram %q", c.Telegram)
	}
}

func TestSummaryText(t *testing.T) {
	info := &ExtractedCandidateInfo{
		FullName:        "Ann",
		Technologies:    "Django",
		Telegram:        strPtr("@ann"),
		SpokenLanguages: "English",
	}

	lines := strings.Split(info.SummaryText(), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "full_name: Ann" || lines[3] != "technologies: Django" || lines[9] != "telegram: @ann" {
		t.Fatalf("unexpected summary lines %q", lines)
	}
	if lines[7] != "email: " {
		t.Fatalf("expected empty email line, got %q", lines[7])
	}
}

func TestIsEmpty(t *testing.T) {
	var nilInfo *ExtractedCandidateInfo
	if !nilInfo.IsEmpty() {
		t.Fatalf("nil info must be empty")
	}
	if !(&ExtractedCandidateInfo{FullName: "  ", Email: strPtr("")}).IsEmpty() {
		t.Fatalf("whitespace info must be empty")
	}
	if (&ExtractedCandidateInfo{Phone: strPtr("+1 555")}).IsEmpty() {
		t.Fatalf("info with a phone is not empty")
	}
}

func TestLedgerKey(t *testing.T) {
	m := message("ann@example.com", 0, "", "")
	if got := m.LedgerKey(); got != "ann@example.com_2024-03-01 09:30:00+00:00" {
		t.Fatalf("unexpected key %q", got)
	}
}
