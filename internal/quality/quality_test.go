package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/mdf/internal/hygiene"
	"github.com/sells-group/mdf/internal/model"
)

func raw(sourceID, first, email, phone string) model.RawRecord {
	var r model.RawRecord
	r.SourceID = sourceID
	r.Source = sourceID + " display"
	r.FirstName = first
	r.Email = email
	r.Phone = phone
	return r
}

func TestComputeScore(t *testing.T) {
	t.Parallel()

	messy := []model.RawRecord{
		raw("crm", "Jane", "Jane@x.com", "(555) 123-4567"),
		raw("pos", "", "", "555.123.4567"),
	}
	tidy := []model.RawRecord{
		raw("crm", "Jane", "jane@x.com", "(555) 123-4567"),
		raw("crm", "Mark", "mark@x.com", "(555) 765-4321"),
	}
	one := []model.UnifiedProfile{{RecordCount: 2}}
	two := []model.UnifiedProfile{{RecordCount: 1}, {RecordCount: 1}}

	tests := []struct {
		name     string
		raw      []model.RawRecord
		profiles []model.UnifiedProfile
		stage    model.Stage
		want     Score
	}{
		{
			name:  "messy before measurement",
			raw:   messy,
			stage: model.StageHygiene,
			want:  Score{Before: 23, After: 23, Completeness: 33, MessyEmails: 1, MessyPhones: 1},
		},
		{
			name:     "messy after dedup",
			raw:      messy,
			profiles: one,
			stage:    model.StageComplete,
			want:     Score{Before: 23, After: 73, Improvement: 50, Completeness: 33, MessyEmails: 1, MessyPhones: 1},
		},
		{
			name:     "tidy caps before score",
			raw:      tidy,
			profiles: two,
			stage:    model.StageMeasurement,
			want:     Score{Before: 55, After: 90, Improvement: 35, Completeness: 50},
		},
		{
			name:  "empty batch",
			stage: model.StageActivating,
			want:  Score{Before: 20, After: 55, Improvement: 35},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ComputeScore(tt.raw, tt.profiles, tt.stage))
		})
	}
}

func TestComputeScore_AfterNeverExceeds98(t *testing.T) {
	t.Parallel()

	tidy := make([]model.RawRecord, 10)
	for i := range tidy {
		tidy[i] = raw("crm", "Jane", "jane@x.com", "(555) 123-4567")
	}
	s := ComputeScore(tidy, []model.UnifiedProfile{{RecordCount: 10}}, model.StageComplete)
	assert.Equal(t, 98, s.After)
}

func TestPerSource(t *testing.T) {
	t.Parallel()

	raws := []model.RawRecord{
		raw("crm", "JANE", " Jane@x.com", "555.123.4567"),
		raw("crm", "Mark", "mark@x.com", "(555) 765-4321"),
		raw("pos", "Liam", "Liam@x.com", ""),
		raw("ga4", "", "", ""),
	}
	cleaned := hygiene.Apply(raws, hygiene.DefaultRules())

	got := PerSource(raws, cleaned)
	require.Len(t, got, 3)

	assert.Equal(t, SourceQuality{
		SourceID: "crm", Name: "crm display", Total: 2, Issues: 3,
		PhoneIssues: 1, EmailIssues: 1, NameIssues: 1, Quality: 0,
	}, got[0])
	assert.Equal(t, "pos", got[1].SourceID)
	assert.Equal(t, 1, got[1].EmailIssues)
	assert.Equal(t, 0, got[1].Quality)
	assert.Equal(t, SourceQuality{SourceID: "ga4", Name: "ga4 display", Total: 1, Quality: 100}, got[2])
}

func TestPerSource_NoRulesMeansNoIssues(t *testing.T) {
	t.Parallel()

	raws := []model.RawRecord{raw("crm", "JANE", " Jane@x.com", "555.123.4567")}
	got := PerSource(raws, hygiene.Apply(raws, hygiene.Rules{}))
	require.Len(t, got, 1)
	assert.Zero(t, got[0].Issues)
	assert.Equal(t, 100, got[0].Quality)
}

func TestPerSource_Sorted(t *testing.T) {
	t.Parallel()

	raws := []model.RawRecord{
		raw("a", "", "clean@x.com", ""),
		raw("b", "", "Dirty@x.com", ""),
		raw("b", "", "ok@x.com", ""),
		raw("c", "", "clean@x.com", ""),
	}
	got := PerSource(raws, hygiene.Apply(raws, hygiene.DefaultRules()))
	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.SourceID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
	assert.Equal(t, 50, got[0].Quality)
}

func TestComputeOutcome(t *testing.T) {
	t.Parallel()

	profiles := []model.UnifiedProfile{
		{RecordCount: 3, MatchConfidence: model.MatchConfidenceHigh, Email: "a@x.com"},
		{RecordCount: 1, MatchConfidence: model.MatchConfidenceMedium, Email: "b@x.com"},
		{RecordCount: 1, MatchConfidence: model.MatchConfidenceLow},
		{RecordCount: 2, MatchConfidence: model.MatchConfidenceMedium, Email: "c@x.com"},
	}
	got := ComputeOutcome(10, profiles)
	assert.Equal(t, Outcome{
		RawRecords:            10,
		Profiles:              4,
		DuplicatesRemoved:     6,
		DuplicationRate:       60,
		MatchRate:             50,
		AttributionConfidence: 55,
		ActivationReadiness:   68,
		ReadinessLabel:        ReadinessPartial,
	}, got)
}

func TestComputeOutcome_Ready(t *testing.T) {
	t.Parallel()

	profiles := []model.UnifiedProfile{
		{RecordCount: 2, MatchConfidence: model.MatchConfidenceHigh, Email: "a@x.com"},
		{RecordCount: 4, MatchConfidence: model.MatchConfidenceHigh, Email: "b@x.com"},
	}
	got := ComputeOutcome(6, profiles)
	assert.Equal(t, 100, got.MatchRate)
	assert.Equal(t, 100, got.AttributionConfidence)
	assert.Equal(t, 100, got.ActivationReadiness)
	assert.Equal(t, ReadinessReady, got.ReadinessLabel)
}

func TestComputeOutcome_Empty(t *testing.T) {
	t.Parallel()

	got := ComputeOutcome(0, nil)
	assert.Equal(t, Outcome{ReadinessLabel: ReadinessNotYet}, got)
}

func TestBuild(t *testing.T) {
	t.Parallel()

	raws := []model.RawRecord{raw("crm", "JANE", " Jane@x.com", "555.123.4567")}
	cleaned := hygiene.Apply(raws, hygiene.DefaultRules())
	profiles := []model.UnifiedProfile{{RecordCount: 1, Email: "jane@x.com"}}

	r := Build(raws, cleaned, profiles, model.StageComplete)
	assert.Equal(t, ComputeScore(raws, profiles, model.StageComplete), r.Score)
	assert.Equal(t, PerSource(raws, cleaned), r.Sources)
	assert.Equal(t, ComputeOutcome(1, profiles), r.Outcome)
}
