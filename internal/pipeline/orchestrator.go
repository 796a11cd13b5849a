// Package pipeline drives a simulation run through every stage of the
// foundation, from ingestion to activation.
package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/mdf/internal/catalog"
	"github.com/sells-group/mdf/internal/generate"
	"github.com/sells-group/mdf/internal/hygiene"
	"github.com/sells-group/mdf/internal/identity"
	"github.com/sells-group/mdf/internal/model"
	"github.com/sells-group/mdf/internal/profile"
	"github.com/sells-group/mdf/internal/quality"
)

var (
	// ErrNoSources is returned by Start when the request selects no source.
	ErrNoSources = eris.New("pipeline: no sources selected")
	// ErrSuperseded ends a run that was replaced by a newer Start.
	ErrSuperseded = eris.New("pipeline: run superseded")
)

// DefaultStepDelay is the pause between stages in auto mode.
const DefaultStepDelay = 1500 * time.Millisecond

// Options configures an Orchestrator.
type Options struct {
	// Catalog defaults to the embedded source catalog.
	Catalog *catalog.Catalog
	// StepDelay defaults to DefaultStepDelay. Negative means no pause.
	StepDelay time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Orchestrator owns the single active simulation run. Starting a run
// supersedes whatever was running before it. All methods are safe for
// concurrent use.
type Orchestrator struct {
	catalog   *catalog.Catalog
	stepDelay time.Duration
	now       func() time.Time

	mu      sync.Mutex
	state   Snapshot
	cancel  context.CancelCauseFunc
	advance chan struct{}
}

// New creates an Orchestrator in the idle stage.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		catalog:   opts.Catalog,
		stepDelay: opts.StepDelay,
		now:       opts.Now,
	}
	if o.catalog == nil {
		o.catalog = catalog.MustDefault()
	}
	if o.stepDelay == 0 {
		o.stepDelay = DefaultStepDelay
	}
	if o.now == nil {
		o.now = time.Now
	}
	o.state = Snapshot{Stage: model.StageIdle, Mode: ModeAuto}
	return o
}

// Catalog returns the source catalog runs draw from.
func (o *Orchestrator) Catalog() *catalog.Catalog {
	return o.catalog
}

// Snapshot returns a copy of the current run state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// Advance releases a run paused in step mode. It reports false when no run is
// waiting.
func (o *Orchestrator) Advance() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.state.StepPending || o.advance == nil {
		return false
	}
	select {
	case o.advance <- struct{}{}:
	default:
	}
	o.state.StepPending = false
	return true
}

// Start resets all run state and launches req in the background. The
// returned channel receives one Update per stage and is closed when the run
// completes, is superseded or ctx ends.
func (o *Orchestrator) Start(ctx context.Context, req Request) (<-chan Update, error) {
	sources, err := o.catalog.Resolve(req.Preset, req.Sources)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: resolve sources")
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	if req.Mode == "" {
		req.Mode = ModeAuto
	}
	mode, err := ParseSimulationMode(string(req.Mode))
	if err != nil {
		return nil, err
	}
	req.Mode = mode
	if req.Identity == "" {
		req.Identity = identity.Deterministic
	}
	idMode, err := identity.ParseMode(string(req.Identity))
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: identity mode")
	}
	req.Identity = idMode
	if req.RecordsPerSource < 0 || req.RecordsPerSource > MaxRecordsPerSource {
		return nil, eris.Errorf("pipeline: records per source must be between 1 and %d, got %d",
			MaxRecordsPerSource, req.RecordsPerSource)
	}
	if req.RecordsPerSource == 0 {
		req.RecordsPerSource = DefaultRecordsPerSource
	}
	if req.Seed == 0 {
		req.Seed = uint64(o.now().UnixNano())
	}
	req.Sources = sources

	runCtx, cancel := context.WithCancelCause(ctx)
	runID := uuid.New().String()
	advance := make(chan struct{}, 1)

	o.mu.Lock()
	if o.cancel != nil {
		zap.L().Info("pipeline: superseding active run", zap.String("run_id", o.state.RunID))
		o.cancel(ErrSuperseded)
	}
	o.cancel = cancel
	o.advance = advance
	o.state = Snapshot{
		RunID:     runID,
		Stage:     model.StageIdle,
		Mode:      req.Mode,
		Seed:      req.Seed,
		Sources:   sources,
		Rules:     req.Rules,
		Identity:  req.Identity,
		EdgeCases: req.EdgeCases,
		StartedAt: o.now(),
	}
	o.mu.Unlock()

	updates := make(chan Update, len(model.Stages()))
	go o.run(runCtx, runID, req, advance, updates)
	return updates, nil
}

// Run starts req and blocks until it finishes, returning the final state.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Snapshot, error) {
	updates, err := o.Start(ctx, req)
	if err != nil {
		return Snapshot{}, err
	}
	var last Update
	for u := range updates {
		last = u
	}
	if last.Err != nil {
		return Snapshot{}, last.Err
	}
	if last.Final == nil {
		return Snapshot{}, eris.New("pipeline: run ended without completing")
	}
	return *last.Final, nil
}

// work is the state produced by the stages of one run, owned by its goroutine.
type work struct {
	gen      *generate.Generator
	raw      []model.RawRecord
	cleaned  []model.CleanedRecord
	clusters []*model.IdentityCluster
	profiles []model.UnifiedProfile
	report   *quality.Report
}

func (o *Orchestrator) run(ctx context.Context, runID string, req Request, advance <-chan struct{}, updates chan<- Update) {
	defer close(updates)
	log := zap.L().With(zap.String("run_id", runID))
	log.Info("pipeline: starting run",
		zap.Strings("sources", req.Sources),
		zap.String("mode", string(req.Mode)),
		zap.String("identity", string(req.Identity)),
		zap.Uint64("seed", req.Seed),
	)

	w := &work{gen: generate.New(o.catalog, req.Seed, generate.WithClock(o.now))}
	stages := model.Stages()[1:]

	for i, stage := range stages {
		if !o.commit(runID, func(s *Snapshot) {
			s.Stage = stage
			s.Progress = stage.Progress()
		}) {
			return
		}

		start := time.Now()
		o.perform(stage, req, w)
		duration := time.Since(start).Milliseconds()

		last := i == len(stages)-1
		pending := req.Mode == ModeStep && !last

		var u Update
		if !o.commit(runID, func(s *Snapshot) {
			w.publish(s, stage)
			msg := narrate(stage, s)
			s.Messages = append(s.Messages, Message{Stage: stage, Text: msg})
			s.StepPending = pending
			if last {
				s.CompletedAt = o.now()
			}
			u = Update{
				RunID:       runID,
				Stage:       stage,
				Progress:    s.Progress,
				StepPending: pending,
				Message:     msg,
				Counts:      s.Counts(),
			}
			if last {
				final := s.clone()
				u.Final = &final
			}
		}) {
			return
		}

		log.Info("pipeline: stage complete",
			zap.String("stage", string(stage)),
			zap.Int("progress", u.Progress),
			zap.Int64("duration_ms", duration),
		)
		updates <- u

		if last {
			break
		}
		if err := o.wait(ctx, req.Mode, advance); err != nil {
			o.abort(runID, err, log, updates)
			return
		}
	}

	o.finish(runID)
	log.Info("pipeline: run complete", zap.Int("profiles", len(w.profiles)))
}

// perform runs a stage's work. Stages that only narrate do nothing here.
func (o *Orchestrator) perform(stage model.Stage, req Request, w *work) {
	switch stage {
	case model.StageIngesting:
		raw := w.gen.GenerateAll(req.Sources, req.RecordsPerSource)
		if req.EdgeCases.Any() {
			raw = w.gen.ApplyEdgeCases(raw, req.EdgeCases)
		}
		w.raw = raw
	case model.StageHygiene:
		w.cleaned = hygiene.Apply(w.raw, req.Rules)
	case model.StageIdentity:
		w.clusters = identity.Resolve(w.cleaned, req.Identity)
	case model.StageProfiling:
		w.profiles = profile.NewBuilder(w.gen.Rand()).Build(w.clusters, w.raw)
	case model.StageMeasurement:
		r := quality.Build(w.raw, w.cleaned, w.profiles, model.StageMeasurement)
		w.report = &r
	}
}

// publish copies the output of stage into the shared snapshot.
func (w *work) publish(s *Snapshot, stage model.Stage) {
	switch stage {
	case model.StageIngesting:
		s.Raw = w.raw
	case model.StageHygiene:
		s.Cleaned = w.cleaned
	case model.StageIdentity:
		s.Clusters = make([]model.IdentityCluster, len(w.clusters))
		for i, c := range w.clusters {
			s.Clusters[i] = *c
		}
	case model.StageProfiling:
		s.Profiles = w.profiles
	case model.StageMeasurement:
		s.Quality = w.report
	}
}

// wait suspends between stages: a timer in auto mode, an Advance in step mode.
func (o *Orchestrator) wait(ctx context.Context, mode SimulationMode, advance <-chan struct{}) error {
	if mode == ModeStep {
		select {
		case <-advance:
			return nil
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}
	if o.stepDelay < 0 {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		return nil
	}
	timer := time.NewTimer(o.stepDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// commit applies fn to the shared state if runID is still the active run.
func (o *Orchestrator) commit(runID string, fn func(*Snapshot)) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.RunID != runID {
		return false
	}
	fn(&o.state)
	return true
}

func (o *Orchestrator) abort(runID string, err error, log *zap.Logger, updates chan<- Update) {
	if errors.Is(err, ErrSuperseded) {
		log.Info("pipeline: run superseded")
	} else {
		log.Warn("pipeline: run stopped", zap.Error(err))
		o.finish(runID)
		o.commit(runID, func(s *Snapshot) { s.StepPending = false })
	}
	updates <- Update{RunID: runID, Err: err}
}

// finish releases the run's cancel func if it is still the active run.
func (o *Orchestrator) finish(runID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.RunID == runID && o.cancel != nil {
		o.cancel(nil)
		o.cancel = nil
		o.advance = nil
	}
}
