// Package gamification holds the journal's scoring rules: points per
// section, streak evaluation and the milestone ladder.
package gamification

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"gynergy/internal/models/db_models"
	"gynergy/pkg/utils"
)

type Section string

const (
	SectionMorning         Section = "morning"
	SectionEvening         Section = "evening"
	SectionGratitudeAction Section = "gratitude_action"
)

const (
	PointsPerSection = 10

	MaxAffirmations = 5
	MaxGratitude    = 3
	MaxExcitement   = 3
	MinMoodScore    = 1
	MaxMoodScore    = 5
)

func ParseSection(s string) (Section, error) {
	switch sec := Section(s); sec {
	case SectionMorning, SectionEvening, SectionGratitudeAction:
		return sec, nil
	}
	return "", fmt.Errorf("%w: unknown section %q", utils.ErrValidation, s)
}

var sectionPoints = map[Section]int{
	SectionMorning:         PointsPerSection,
	SectionEvening:         PointsPerSection,
	SectionGratitudeAction: PointsPerSection,
}

// Points is the award for completing sec once on a given day; 0 for an
// unknown section.
func Points(sec Section) int {
	return sectionPoints[sec]
}

// MoodFactors is the fixed list users tag their mood with.
var MoodFactors = []string{
	"Good sleep",
	"Poor sleep",
	"Exercise",
	"Healthy food",
	"Social connection",
	"Solitude",
	"Productive work",
	"Work stress",
	"Family time",
	"Personal time",
	"Creative activity",
	"Learning something new",
	"Nature time",
	"Screen time",
	"Meditation",
	"Physical discomfort",
	"Weather",
	"Other",
}

var moodFactorSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(MoodFactors))
	for _, f := range MoodFactors {
		m[f] = struct{}{}
	}
	return m
}()

func IsMoodFactor(f string) bool {
	_, ok := moodFactorSet[f]
	return ok
}

// SectionWrite is a validated save for one section of today's entry.
type SectionWrite struct {
	Section      Section
	MoodScore    *int
	MoodFactors  []string
	Reflection   string
	TomorrowPlan string

	// Items are replaced only when ReplaceItems is set.
	ReplaceItems bool
	Affirmations []string
	Gratitude    []string
	Excitement   []string
}

// Validate enforces the content rules for the write's section.
func (w SectionWrite) Validate() error {
	if _, err := ParseSection(string(w.Section)); err != nil {
		return err
	}

	if w.Section != SectionGratitudeAction && strings.TrimSpace(w.Reflection) == "" {
		return fmt.Errorf("%w: reflection is required", utils.ErrValidation)
	}

	if w.MoodScore != nil && (*w.MoodScore < MinMoodScore || *w.MoodScore > MaxMoodScore) {
		return fmt.Errorf("%w: mood_score must be between %d and %d", utils.ErrValidation, MinMoodScore, MaxMoodScore)
	}

	seen := make(map[string]struct{}, len(w.MoodFactors))
	for _, f := range w.MoodFactors {
		if !IsMoodFactor(f) {
			return fmt.Errorf("%w: unknown mood factor %q", utils.ErrValidation, f)
		}
		if _, dup := seen[f]; dup {
			return fmt.Errorf("%w: duplicate mood factor %q", utils.ErrValidation, f)
		}
		seen[f] = struct{}{}
	}

	switch {
	case len(w.Affirmations) > MaxAffirmations:
		return fmt.Errorf("%w: at most %d affirmations", utils.ErrValidation, MaxAffirmations)
	case len(w.Gratitude) > MaxGratitude:
		return fmt.Errorf("%w: at most %d gratitude items", utils.ErrValidation, MaxGratitude)
	case len(w.Excitement) > MaxExcitement:
		return fmt.Errorf("%w: at most %d excitement items", utils.ErrValidation, MaxExcitement)
	}
	return nil
}

// ApplyWrite merges w into entry and returns the points newly awarded.
// Content always overwrites; points are awarded only the first time a
// section is completed for the day.
func ApplyWrite(entry *db_models.JournalEntry, w SectionWrite) int {
	awarded := 0

	switch w.Section {
	case SectionMorning:
		awarded = completeMood(&entry.Morning, w)
	case SectionEvening:
		awarded = completeMood(&entry.Evening, w)
		entry.TomorrowPlan = strings.TrimSpace(w.TomorrowPlan)
	case SectionGratitudeAction:
		entry.GratitudeAction.Reflection = strings.TrimSpace(w.Reflection)
		if !entry.GratitudeAction.Completed {
			entry.GratitudeAction.Completed = true
			entry.GratitudeAction.Points = Points(w.Section)
			awarded = entry.GratitudeAction.Points
		}
	}

	if w.ReplaceItems {
		entry.Affirmations = buildAffirmations(entry, w.Affirmations)
		entry.GratitudeItems = append(
			buildGratitude(entry, db_models.GratitudeKindGratitude, w.Gratitude),
			buildGratitude(entry, db_models.GratitudeKindExcitement, w.Excitement)...,
		)
	}

	if entry.Morning.MoodFactors == nil {
		entry.Morning.MoodFactors = pq.StringArray{}
	}
	if entry.Evening.MoodFactors == nil {
		entry.Evening.MoodFactors = pq.StringArray{}
	}

	entry.TotalPoints = entry.Morning.Points + entry.Evening.Points + entry.GratitudeAction.Points
	return awarded
}

func completeMood(s *db_models.MoodSection, w SectionWrite) int {
	s.Reflection = strings.TrimSpace(w.Reflection)
	s.MoodScore = w.MoodScore
	s.MoodFactors = append([]string{}, w.MoodFactors...)
	if s.Completed {
		return 0
	}
	s.Completed = true
	s.Points = Points(w.Section)
	return s.Points
}

func buildAffirmations(entry *db_models.JournalEntry, texts []string) []db_models.Affirmation {
	out := make([]db_models.Affirmation, 0, len(texts))
	for _, t := range nonEmpty(texts) {
		out = append(out, db_models.Affirmation{EntryID: entry.ID, Text: t, Position: len(out)})
	}
	return out
}

func buildGratitude(entry *db_models.JournalEntry, kind string, texts []string) []db_models.GratitudeItem {
	out := make([]db_models.GratitudeItem, 0, len(texts))
	for _, t := range nonEmpty(texts) {
		out = append(out, db_models.GratitudeItem{EntryID: entry.ID, Kind: kind, Text: t, Position: len(out)})
	}
	return out
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
