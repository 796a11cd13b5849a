package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/mdf/internal/generate"
	"github.com/sells-group/mdf/internal/hygiene"
	"github.com/sells-group/mdf/internal/identity"
	"github.com/sells-group/mdf/internal/model"
	"github.com/sells-group/mdf/internal/quality"
)

// SimulationMode controls how a run pauses between stages.
type SimulationMode string

const (
	// ModeAuto waits a fixed delay between stages.
	ModeAuto SimulationMode = "auto"
	// ModeStep waits for Advance between stages.
	ModeStep SimulationMode = "step"
)

// ParseSimulationMode converts a mode name into a SimulationMode.
func ParseSimulationMode(s string) (SimulationMode, error) {
	switch SimulationMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAuto:
		return ModeAuto, nil
	case ModeStep:
		return ModeStep, nil
	default:
		return "", eris.Errorf("pipeline: unknown simulation mode %q", s)
	}
}

const (
	// DefaultRecordsPerSource is the batch size generated for each source.
	DefaultRecordsPerSource = 8
	// MaxRecordsPerSource caps the batch size a run may request.
	MaxRecordsPerSource = 1000
)

// Request describes one simulation run.
type Request struct {
	Sources []string `json:"sources"`
	Preset  string   `json:"preset,omitempty"`

	Rules     hygiene.Rules      `json:"hygieneRules"`
	Identity  identity.Mode      `json:"identityMode"`
	EdgeCases generate.EdgeCases `json:"edgeCases"`
	Mode      SimulationMode     `json:"simulationMode"`

	// RecordsPerSource defaults to DefaultRecordsPerSource when zero and may
	// not exceed MaxRecordsPerSource.
	RecordsPerSource int `json:"recordsPerSource,omitempty"`
	// Seed fixes the random stream; zero derives one from the clock.
	Seed uint64 `json:"seed,omitempty"`
}

// DefaultRequest returns a request with every hygiene rule on, deterministic
// matching and auto mode.
func DefaultRequest() Request {
	return Request{
		Rules:            hygiene.DefaultRules(),
		Identity:         identity.Deterministic,
		Mode:             ModeAuto,
		RecordsPerSource: DefaultRecordsPerSource,
	}
}

// Message is one narration line emitted when a stage finishes its work.
type Message struct {
	Stage model.Stage `json:"stage" yaml:"stage"`
	Text  string      `json:"text" yaml:"text"`
}

// Counts summarizes how much data each stage has produced so far.
type Counts struct {
	Raw      int `json:"raw" yaml:"raw"`
	Cleaned  int `json:"cleaned" yaml:"cleaned"`
	Clusters int `json:"clusters" yaml:"clusters"`
	Profiles int `json:"profiles" yaml:"profiles"`
}

// Snapshot is an immutable view of a run. Every accessor hands out a fresh
// copy, so callers may keep or modify it freely.
type Snapshot struct {
	RunID       string         `json:"runId" yaml:"runId"`
	Stage       model.Stage    `json:"stage" yaml:"stage"`
	Progress    int            `json:"progress" yaml:"progress"`
	Mode        SimulationMode `json:"simulationMode" yaml:"simulationMode"`
	StepPending bool           `json:"stepPending" yaml:"stepPending"`
	Seed        uint64         `json:"seed" yaml:"seed"`

	Sources   []string           `json:"sources" yaml:"sources"`
	Rules     hygiene.Rules      `json:"hygieneRules" yaml:"hygieneRules"`
	Identity  identity.Mode      `json:"identityMode" yaml:"identityMode"`
	EdgeCases generate.EdgeCases `json:"edgeCases" yaml:"edgeCases"`

	Raw      []model.RawRecord       `json:"raw" yaml:"raw"`
	Cleaned  []model.CleanedRecord   `json:"cleaned" yaml:"cleaned"`
	Clusters []model.IdentityCluster `json:"clusters" yaml:"clusters"`
	Profiles []model.UnifiedProfile  `json:"profiles" yaml:"profiles"`
	Quality  *quality.Report         `json:"quality,omitempty" yaml:"quality,omitempty"`
	Messages []Message               `json:"messages" yaml:"messages"`

	StartedAt   time.Time `json:"startedAt" yaml:"startedAt"`
	CompletedAt time.Time `json:"completedAt,omitzero" yaml:"completedAt,omitempty"`
}

// Counts reports the sizes of each stage's output.
func (s *Snapshot) Counts() Counts {
	return Counts{
		Raw:      len(s.Raw),
		Cleaned:  len(s.Cleaned),
		Clusters: len(s.Clusters),
		Profiles: len(s.Profiles),
	}
}

// clone returns a copy that shares no mutable slice with s. Record payloads
// under Attributes are never mutated after generation and stay shared.
func (s *Snapshot) clone() Snapshot {
	out := *s
	out.Sources = slices.Clone(s.Sources)
	out.Raw = slices.Clone(s.Raw)
	out.Cleaned = slices.Clone(s.Cleaned)
	out.Messages = slices.Clone(s.Messages)

	if s.Clusters != nil {
		out.Clusters = make([]model.IdentityCluster, len(s.Clusters))
		for i, c := range s.Clusters {
			out.Clusters[i] = model.IdentityCluster{ID: c.ID, Records: slices.Clone(c.Records)}
		}
	}
	if s.Profiles != nil {
		out.Profiles = make([]model.UnifiedProfile, len(s.Profiles))
		for i, p := range s.Profiles {
			p.Purchases = slices.Clone(p.Purchases)
			p.Touchpoints = slices.Clone(p.Touchpoints)
			p.Sources = slices.Clone(p.Sources)
			p.IngestionTypes = slices.Clone(p.IngestionTypes)
			p.DataClasses = slices.Clone(p.DataClasses)
			p.HygieneExamples = slices.Clone(p.HygieneExamples)
			p.IdentityLinks = slices.Clone(p.IdentityLinks)
			out.Profiles[i] = p
		}
	}
	if s.Quality != nil {
		q := *s.Quality
		q.Sources = slices.Clone(s.Quality.Sources)
		out.Quality = &q
	}
	return out
}

// Update is pushed on a run's stream each time a stage finishes its work.
type Update struct {
	RunID       string      `json:"runId"`
	Stage       model.Stage `json:"stage"`
	Progress    int         `json:"progress"`
	StepPending bool        `json:"stepPending"`
	Message     string      `json:"message"`
	Counts      Counts      `json:"counts"`

	// Final is set on the last update of a run that reached complete.
	Final *Snapshot `json:"-"`
	// Err is set on the last update of a run that was stopped early.
	Err error `json:"-"`
}
