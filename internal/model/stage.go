package model

// Stage is a step of the foundation pipeline.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageIngesting   Stage = "ingesting"
	StageHygiene     Stage = "hygiene"
	StageIdentity    Stage = "identity"
	StageProfiling   Stage = "profiling"
	StageMeasurement Stage = "measurement"
	StageActivating  Stage = "activating"
	StageComplete    Stage = "complete"
)

var stageOrder = []Stage{
	StageIdle,
	StageIngesting,
	StageHygiene,
	StageIdentity,
	StageProfiling,
	StageMeasurement,
	StageActivating,
	StageComplete,
}

var stageProgress = map[Stage]int{
	StageIdle:        0,
	StageIngesting:   0,
	StageHygiene:     25,
	StageIdentity:    50,
	StageProfiling:   65,
	StageMeasurement: 80,
	StageActivating:  90,
	StageComplete:    100,
}

// Stages returns the stage sequence in order, starting with idle.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// Progress returns the completion percentage shown on entering the stage.
func (s Stage) Progress() int {
	return stageProgress[s]
}

// Index returns the position of s in the stage sequence, or -1 if unknown.
func (s Stage) Index() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// AtLeast reports whether s is at or past other in the sequence.
func (s Stage) AtLeast(other Stage) bool {
	return s.Index() >= other.Index()
}
