// Package types provides type definitions for structured data used throughout the skill-validator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ContextType classifies where a skill mention appears in a resume.
type ContextType string

const (
	ContextProject        ContextType = "project"
	ContextResponsibility ContextType = "responsibility"
	ContextCertification  ContextType = "certification"
	ContextSkillsList     ContextType = "skills-list-only"
	ContextEducation      ContextType = "education"
)

// MaxPassageLength bounds the display text of an evidence passage (in runes).
const MaxPassageLength = 300

// EvidencePassage is a span of resume text associated with one skill.
type EvidencePassage struct {
	Text        string         `json:"text"`
	ContextType ContextType    `json:"context_type"`
	ActionVerbs []string       `json:"action_verbs"`
	Anchor      TemporalAnchor `json:"anchor"`
}

// HasActionVerbs reports whether any action verb was detected.
func (p EvidencePassage) HasActionVerbs() bool {
	return len(p.ActionVerbs) > 0
}

// IsListOnly reports whether the passage is a bare skills-list mention.
func (p EvidencePassage) IsListOnly() bool {
	return p.ContextType == ContextSkillsList && !p.HasActionVerbs()
}

// TemporalAnchor locates a passage in time.
type TemporalAnchor struct {
	// Range is the date range of the entry the passage belongs to, if any.
	Range *DateRange `json:"range,omitempty"`
	// Reference is the most recent date found anywhere in the resume.
	Reference *YearMonth `json:"reference,omitempty"`
	// Rank is the ordinal of the passage's entry; 0 is the first listed entry.
	Rank int `json:"rank"`
}

// DateRange is a span of months. Current marks ranges ending in "Present".
type DateRange struct {
	Start   YearMonth `json:"start"`
	End     YearMonth `json:"end"`
	Current bool      `json:"current,omitempty"`
}

// YearMonth is a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// Months returns the number of months since year zero.
func (ym YearMonth) Months() int {
	return ym.Year*12 + int(ym.Month) - 1
}

// Before reports whether ym is earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Months() < other.Months()
}

// String formats the month as YYYY-MM.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// MarshalJSON encodes the month as "YYYY-MM".
func (ym YearMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(ym.String())
}

// UnmarshalJSON decodes a "YYYY-MM" string.
func (ym *YearMonth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return fmt.Errorf("invalid year-month %q: %w", s, err)
	}
	ym.Year = t.Year()
	ym.Month = t.Month()
	return nil
}
