package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/mdf/internal/generate"
	"github.com/sells-group/mdf/internal/identity"
	"github.com/sells-group/mdf/internal/model"
	"github.com/sells-group/mdf/internal/pipeline"
	"github.com/sells-group/mdf/internal/quality"
)

var (
	runSources  []string
	runPreset   string
	runMode     string
	runIdentity string
	runCount    int
	runSeed     uint64
	runEdge     []string
	runOutput   string

	runNoNormalizePhone bool
	runNoLowercaseEmail bool
	runNoTrimWhitespace bool
	runNoProperCase     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation through every pipeline stage",
	Long: "Generates records for the selected sources, then runs hygiene, identity resolution, profiling and measurement. " +
		"In step mode each stage waits for a newline on stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("run"); err != nil {
			return err
		}
		if err := validateOutput(runOutput); err != nil {
			return err
		}

		req, err := applyRunFlags(cfg.Request())
		if err != nil {
			return err
		}

		cat, err := loadCatalog()
		if err != nil {
			return eris.Wrap(err, "run: load catalog")
		}
		orch := pipeline.New(pipeline.Options{
			Catalog:   cat,
			StepDelay: orchestratorDelay(cfg.Simulation.StepDelay),
		})

		if selected, err := cat.Resolve(req.Preset, req.Sources); err == nil {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), pipeline.DescribeSelection(cat, selected))
		}

		snap, err := runSimulation(ctx, orch, req, cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		zap.L().Info("run complete",
			zap.String("run_id", snap.RunID),
			zap.Int("raw", len(snap.Raw)),
			zap.Int("profiles", len(snap.Profiles)),
		)
		return renderResult(cmd.OutOrStdout(), snap, runOutput)
	},
}

// orchestratorDelay converts a configured pause, where zero means none, into
// the orchestrator's convention of a negative delay for no pause.
func orchestratorDelay(d time.Duration) time.Duration {
	if d == 0 {
		return -1
	}
	return d
}

// applyRunFlags layers the run flags over the configured request.
func applyRunFlags(req pipeline.Request) (pipeline.Request, error) {
	if len(runSources) > 0 {
		req.Sources = runSources
	}
	if runPreset != "" {
		req.Preset = runPreset
	}
	if runMode != "" {
		m, err := pipeline.ParseSimulationMode(runMode)
		if err != nil {
			return req, err
		}
		req.Mode = m
	}
	if runIdentity != "" {
		m, err := identity.ParseMode(runIdentity)
		if err != nil {
			return req, err
		}
		req.Identity = m
	}
	if runCount > 0 {
		req.RecordsPerSource = runCount
	}
	if runSeed != 0 {
		req.Seed = runSeed
	}
	if len(runEdge) > 0 {
		ec, err := parseEdgeCases(runEdge)
		if err != nil {
			return req, err
		}
		req.EdgeCases = ec
	}

	if runNoNormalizePhone {
		req.Rules.NormalizePhone = false
	}
	if runNoLowercaseEmail {
		req.Rules.LowercaseEmail = false
	}
	if runNoTrimWhitespace {
		req.Rules.TrimWhitespace = false
	}
	if runNoProperCase {
		req.Rules.ProperCaseNames = false
	}
	return req, nil
}

// parseEdgeCases turns --edge names into an EdgeCases selection.
func parseEdgeCases(names []string) (generate.EdgeCases, error) {
	var ec generate.EdgeCases
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "missing-email":
			ec.MissingEmail = true
		case "duplicate-crm":
			ec.DuplicateCRM = true
		case "mismatched-phones":
			ec.MismatchedPhones = true
		case "":
		default:
			return ec, eris.Errorf("run: unknown edge case %q", n)
		}
	}
	return ec, nil
}

func validateOutput(format string) error {
	switch format {
	case "table", "json", "yaml":
		return nil
	default:
		return eris.Errorf("run: unknown output format %q", format)
	}
}

// runSimulation starts req and prints each update to progress until the run
// finishes. In step mode every pending stage waits for a line on in; once in
// is exhausted the remaining stages advance on their own.
func runSimulation(ctx context.Context, orch *pipeline.Orchestrator, req pipeline.Request, in io.Reader, progress io.Writer) (pipeline.Snapshot, error) {
	updates, err := orch.Start(ctx, req)
	if err != nil {
		return pipeline.Snapshot{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	pending := make(chan struct{}, 1)
	var final *pipeline.Snapshot

	g.Go(func() error {
		defer close(done)
		for u := range updates {
			if u.Err != nil {
				return u.Err
			}
			formatUpdate(progress, u)
			if u.Final != nil {
				final = u.Final
			}
			if u.StepPending {
				_, _ = fmt.Fprintln(progress, "Press Enter to continue...")
				pending <- struct{}{}
			}
		}
		return nil
	})

	if req.Mode == pipeline.ModeStep {
		lines := readLines(in, done)
		g.Go(func() error {
			for {
				select {
				case <-done:
					return nil
				case <-gctx.Done():
					return nil
				case <-pending:
				}

				if lines != nil {
					select {
					case _, ok := <-lines:
						if !ok {
							lines = nil
						}
					case <-done:
						return nil
					case <-gctx.Done():
						return nil
					}
				}
				orch.Advance()
			}
		})
	}

	if err := g.Wait(); err != nil {
		return pipeline.Snapshot{}, err
	}
	if final == nil {
		return pipeline.Snapshot{}, eris.New("run: pipeline ended without completing")
	}
	return *final, nil
}

// readLines signals once per line read from in and closes the channel at
// EOF. The reader goroutine stops early once done is closed.
func readLines(in io.Reader, done <-chan struct{}) <-chan struct{} {
	lines := make(chan struct{})
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- struct{}{}:
			case <-done:
				return
			}
		}
	}()
	return lines
}

func formatUpdate(out io.Writer, u pipeline.Update) {
	_, _ = fmt.Fprintf(out, "[%3d%%] %-12s raw=%d cleaned=%d clusters=%d profiles=%d\n",
		u.Progress, u.Stage, u.Counts.Raw, u.Counts.Cleaned, u.Counts.Clusters, u.Counts.Profiles)
	if u.Message != "" {
		_, _ = fmt.Fprintf(out, "       %s\n", u.Message)
	}
}

// renderResult writes the final snapshot in the requested format.
func renderResult(out io.Writer, snap pipeline.Snapshot, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return eris.Wrap(err, "run: encode json")
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return eris.Wrap(err, "run: encode yaml")
		}
		return eris.Wrap(enc.Close(), "run: flush yaml")
	case "table":
		formatProfiles(out, snap.Profiles)
		if snap.Quality != nil {
			_, _ = fmt.Fprintln(out)
			formatQuality(out, snap.Quality.Score, snap.Quality.Outcome)
		}
		return nil
	default:
		return validateOutput(format)
	}
}

func formatProfiles(out io.Writer, profiles []model.UnifiedProfile) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tRECORDS\tCONFIDENCE\tLTV\tSOURCES")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t-----\t-------\t----------\t---\t-------")

	for _, p := range profiles {
		sources := strings.Join(p.Sources, ", ")
		if len(sources) > 40 {
			sources = sources[:37] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%d\t%s\t$%d\t%s\n",
			truncateID(p.ID),
			p.FirstName, p.LastName,
			orDash(p.Email),
			orDash(p.Phone),
			p.RecordCount,
			p.MatchConfidence,
			p.LTV,
			sources,
		)
	}
	_ = w.Flush()
}

func formatQuality(out io.Writer, s quality.Score, o quality.Outcome) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Data quality\t%d -> %d (+%d)\n", s.Before, s.After, s.Improvement)
	_, _ = fmt.Fprintf(w, "Records\t%d raw -> %d profiles (%d%% duplicates removed)\n", o.RawRecords, o.Profiles, o.DuplicationRate)
	_, _ = fmt.Fprintf(w, "Match rate\t%d%%\n", o.MatchRate)
	_, _ = fmt.Fprintf(w, "Attribution confidence\t%d%%\n", o.AttributionConfidence)
	_, _ = fmt.Fprintf(w, "Activation readiness\t%d%% (%s)\n", o.ActivationReadiness, o.ReadinessLabel)
	_ = w.Flush()
}

// truncateID shortens a UUID to its first 8 characters for display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	f := runCmd.Flags()
	f.StringSliceVar(&runSources, "sources", nil, "source ids to ingest (comma-separated)")
	f.StringVar(&runPreset, "preset", "", "scenario preset (retail, b2bSaas, healthcare, media)")
	f.StringVar(&runMode, "mode", "", "simulation mode: auto or step (default from config)")
	f.StringVar(&runIdentity, "identity", "", "identity mode: deterministic or probabilistic (default from config)")
	f.IntVar(&runCount, "count", 0, "records per source (default from config)")
	f.Uint64Var(&runSeed, "seed", 0, "random seed (default from config, 0 = time-derived)")
	f.StringSliceVar(&runEdge, "edge", nil, "edge cases to inject: missing-email, duplicate-crm, mismatched-phones")
	f.StringVar(&runOutput, "output", "table", "output format: table, json or yaml")
	f.BoolVar(&runNoNormalizePhone, "no-normalize-phone", false, "skip phone normalization")
	f.BoolVar(&runNoLowercaseEmail, "no-lowercase-email", false, "skip email lowercasing")
	f.BoolVar(&runNoTrimWhitespace, "no-trim-whitespace", false, "skip whitespace trimming")
	f.BoolVar(&runNoProperCase, "no-proper-case-names", false, "skip name proper-casing")
	rootCmd.AddCommand(runCmd)
}
