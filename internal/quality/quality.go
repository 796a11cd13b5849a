// Package quality measures data quality before and after the foundation runs,
// per source and as business outcomes.
package quality

import (
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/sells-group/mdf/internal/model"
)

var canonicalPhone = regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)

// Score is the overall data-quality gauge on a 0..100 scale.
type Score struct {
	Before      int `json:"before" yaml:"before"`
	After       int `json:"after" yaml:"after"`
	Improvement int `json:"improvement" yaml:"improvement"`

	// Completeness is the share of email, phone and first-name slots filled
	// in the raw batch, scaled to 0..50.
	Completeness int `json:"completeness" yaml:"completeness"`
	MessyEmails  int `json:"messyEmails" yaml:"messyEmails"`
	MessyPhones  int `json:"messyPhones" yaml:"messyPhones"`
}

// ComputeScore rates the raw batch and, once the run has reached measurement,
// the improvement from hygiene and deduplication.
func ComputeScore(raw []model.RawRecord, profiles []model.UnifiedProfile, stage model.Stage) Score {
	var s Score
	filled := 0
	for _, r := range raw {
		if r.Email != "" {
			filled++
			if strings.Contains(r.Email, " ") || r.Email != strings.ToLower(r.Email) {
				s.MessyEmails++
			}
		}
		if r.Phone != "" {
			filled++
			if !canonicalPhone.MatchString(r.Phone) {
				s.MessyPhones++
			}
		}
		if r.FirstName != "" {
			filled++
		}
	}
	if len(raw) > 0 {
		s.Completeness = round(float64(filled) / float64(len(raw)*3) * 50)
	}

	penalty := round(float64(s.MessyEmails+s.MessyPhones) / float64(max(1, len(raw))) * 30)
	messiness := max(0, s.Completeness-penalty)
	s.Before = clamp(messiness+20, 20, 55)

	s.After = s.Before
	if stage.AtLeast(model.StageMeasurement) {
		dedup := 0
		if len(raw) > 0 && len(profiles) > 0 {
			dedup = round((1 - float64(len(profiles))/float64(len(raw))) * 30)
		}
		s.After = min(98, s.Before+35+dedup)
	}
	s.Improvement = s.After - s.Before
	return s
}

// SourceQuality counts the fields hygiene had to fix for one source.
type SourceQuality struct {
	SourceID    string `json:"sourceId" yaml:"sourceId"`
	Name        string `json:"name" yaml:"name"`
	Total       int    `json:"total" yaml:"total"`
	Issues      int    `json:"issues" yaml:"issues"`
	PhoneIssues int    `json:"phoneIssues" yaml:"phoneIssues"`
	EmailIssues int    `json:"emailIssues" yaml:"emailIssues"`
	NameIssues  int    `json:"nameIssues" yaml:"nameIssues"`
	Quality     int    `json:"quality" yaml:"quality"`
}

// PerSource scores each source by how many of its phone, email and first-name
// values hygiene changed. raw and cleaned must be index-aligned. A record can
// carry several issues, so Quality floors at zero. Results are ordered from
// dirtiest to cleanest; ties keep first-seen order.
func PerSource(raw []model.RawRecord, cleaned []model.CleanedRecord) []SourceQuality {
	byID := make(map[string]*SourceQuality)
	var order []*SourceQuality

	for i, r := range raw {
		c := model.CleanedRecord{RawRecord: r}
		if i < len(cleaned) {
			c = cleaned[i]
		}
		id := r.SourceID
		if id == "" {
			id = "unknown"
		}
		m, ok := byID[id]
		if !ok {
			name := r.Source
			if name == "" {
				name = id
			}
			m = &SourceQuality{SourceID: id, Name: name}
			byID[id] = m
			order = append(order, m)
		}
		m.Total++

		if c.OriginalPhone != "" && c.OriginalPhone != c.Phone {
			m.PhoneIssues++
		}
		if c.OriginalEmail != "" && c.OriginalEmail != c.Email {
			m.EmailIssues++
		}
		if r.FirstName != "" && c.FirstName != "" && r.FirstName != c.FirstName {
			m.NameIssues++
		}
	}

	out := make([]SourceQuality, 0, len(order))
	for _, m := range order {
		m.Issues = m.PhoneIssues + m.EmailIssues + m.NameIssues
		m.Quality = max(0, round(float64(m.Total-m.Issues)/float64(max(m.Total, 1))*100))
		out = append(out, *m)
	}
	slices.SortStableFunc(out, func(a, b SourceQuality) int {
		return a.Quality - b.Quality
	})
	return out
}

// Readiness labels for Outcome.ActivationReadiness.
const (
	ReadinessReady   = "Activation Ready"
	ReadinessPartial = "Partially Ready"
	ReadinessNotYet  = "Not Ready"
)

// Outcome summarizes what unification bought, as whole percentages.
type Outcome struct {
	RawRecords            int    `json:"rawRecords" yaml:"rawRecords"`
	Profiles              int    `json:"profiles" yaml:"profiles"`
	DuplicatesRemoved     int    `json:"duplicatesRemoved" yaml:"duplicatesRemoved"`
	DuplicationRate       int    `json:"duplicationRate" yaml:"duplicationRate"`
	MatchRate             int    `json:"matchRate" yaml:"matchRate"`
	AttributionConfidence int    `json:"attributionConfidence" yaml:"attributionConfidence"`
	ActivationReadiness   int    `json:"activationReadiness" yaml:"activationReadiness"`
	ReadinessLabel        string `json:"readinessLabel" yaml:"readinessLabel"`
}

// ComputeOutcome derives the outcome metrics for rawCount input records
// unified into profiles.
func ComputeOutcome(rawCount int, profiles []model.UnifiedProfile) Outcome {
	o := Outcome{
		RawRecords:        rawCount,
		Profiles:          len(profiles),
		DuplicatesRemoved: rawCount - len(profiles),
	}
	if rawCount > 0 {
		o.DuplicationRate = round(float64(o.DuplicatesRemoved) / float64(rawCount) * 100)
	}

	var matched, high, medium, withEmail int
	for _, p := range profiles {
		if p.RecordCount >= 2 {
			matched++
		}
		switch p.MatchConfidence {
		case model.MatchConfidenceHigh:
			high++
		case model.MatchConfidenceMedium:
			medium++
		}
		if p.Email != "" {
			withEmail++
		}
	}

	if n := float64(len(profiles)); n > 0 {
		o.MatchRate = round(float64(matched) / n * 100)
		o.AttributionConfidence = round((float64(high) + float64(medium)*0.6) / n * 100)
		bonus := 0.0
		if o.MatchRate > 50 {
			bonus = 10
		}
		o.ActivationReadiness = round(float64(withEmail)/n*90 + bonus)
	}

	switch {
	case o.ActivationReadiness >= 80:
		o.ReadinessLabel = ReadinessReady
	case o.ActivationReadiness >= 50:
		o.ReadinessLabel = ReadinessPartial
	default:
		o.ReadinessLabel = ReadinessNotYet
	}
	return o
}

// Report bundles every quality view of one run.
type Report struct {
	Score   Score           `json:"score" yaml:"score"`
	Sources []SourceQuality `json:"sources" yaml:"sources"`
	Outcome Outcome         `json:"outcome" yaml:"outcome"`
}

// Build computes the full report for a run at stage.
func Build(raw []model.RawRecord, cleaned []model.CleanedRecord, profiles []model.UnifiedProfile, stage model.Stage) Report {
	return Report{
		Score:   ComputeScore(raw, profiles, stage),
		Sources: PerSource(raw, cleaned),
		Outcome: ComputeOutcome(len(raw), profiles),
	}
}

func round(f float64) int {
	return int(math.Round(f))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
