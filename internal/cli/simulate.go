package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/trekload/trek/internal/flow"
	"github.com/trekload/trek/internal/journey"
	"github.com/trekload/trek/internal/profile"
	"github.com/trekload/trek/internal/sim"
	"github.com/trekload/trek/internal/stats"
)

var (
	simProfiles  string
	simResponses string
	simUsers     int
	simSeed      uint64
	simMaxSteps  int
	simShowVars  bool
	simNoColor   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <journey-file>",
	Short: "Dry-run a journey against scripted responses",
	Long: `Simulate runs the full interpreter loop over a journey without issuing any
real requests: each step receives a scripted response (--responses), its
extractions bind variables, and the flow engine picks the next step. The
trail of every simulated user is printed, along with aggregated per-step
latency stats when the script carries response times.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simProfiles, "profiles", "", "Profile configuration for synthetic users")
	simulateCmd.Flags().StringVar(&simResponses, "responses", "", "Response script file (JSON or YAML, keyed by step id)")
	simulateCmd.Flags().IntVar(&simUsers, "users", 1, "Number of simulated users to run")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 0, "Deterministic RNG seed for profile sampling (0 = random)")
	simulateCmd.Flags().IntVar(&simMaxSteps, "max-steps", 0, "Step bound per user (0 = default)")
	simulateCmd.Flags().BoolVar(&simShowVars, "show-vars", false, "Print each user's final variable namespace")
	simulateCmd.Flags().BoolVar(&simNoColor, "no-color", false, "Disable colored output")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	scheme := schemeFor(simNoColor)
	log := logger()

	j, err := journey.Load(args[0])
	if err != nil {
		return err
	}

	engine, err := flow.NewEngine(j)
	if err != nil {
		return err
	}
	if errs := flow.Errors(engine.Validate()); len(errs) > 0 {
		return fmt.Errorf("journey %q has %d structural error(s), run validate first", j.ID, len(errs))
	}

	responses := sim.NewScriptedResponses(nil)
	if simResponses != "" {
		responses, err = sim.LoadScript(simResponses)
		if err != nil {
			return err
		}
	}

	var dist *profile.Distributor
	if simProfiles != "" {
		cfg, err := profile.LoadConfig(simProfiles)
		if err != nil {
			return err
		}
		opts := []profile.Option{profile.WithBaseDir(filepath.Dir(simProfiles))}
		if simSeed != 0 {
			opts = append(opts, profile.WithSeed(simSeed))
		}
		dist, err = profile.NewDistributor(cfg, opts...)
		if err != nil {
			return err
		}
		if err := dist.LoadData(); err != nil {
			return err
		}
	}

	recorder := stats.NewRecorder()
	runner := sim.NewRunner(engine, responses, recorder, simMaxSteps)

	for i := 0; i < simUsers; i++ {
		var user *profile.UserContext
		if dist != nil {
			user, err = dist.NextUser()
			if err != nil {
				return err
			}
		}

		trail, err := runner.Run(user)
		if err != nil {
			return err
		}
		log.Debug("user simulated", "user", i+1, "steps", len(trail.Steps), "completed", trail.Completed)
		printTrail(cmd, scheme, i+1, trail)
	}

	printStepStats(cmd, scheme, recorder)
	return nil
}

func printTrail(cmd *cobra.Command, scheme *ColorScheme, n int, trail *sim.Trail) {
	label := fmt.Sprintf("user %d", n)
	if trail.ProfileName != "" {
		label += " (" + trail.ProfileName + ")"
	}
	outcome := scheme.Success.Sprint("completed")
	if !trail.Completed {
		outcome = scheme.Warning.Sprint("step bound hit")
	}
	scheme.Highlight.Fprintf(cmd.OutOrStdout(), "%s: %d step(s), %s\n", label, len(trail.Steps), outcome)

	for _, ts := range trail.Steps {
		next := ts.NextStepID
		if next == "" {
			next = "(end)"
		}
		cmd.Printf("  %-20s -> %-20s [%d, %s]\n", ts.StepID, next, ts.StatusCode, ts.Reason)
		for _, softErr := range ts.SoftErrors {
			scheme.Muted.Fprintf(cmd.OutOrStdout(), "      skipped: %s\n", softErr)
		}
	}

	if simShowVars && trail.Variables != nil {
		keys := make([]string, 0, len(trail.Variables))
		for k := range trail.Variables {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			val, _ := json.Marshal(trail.Variables[k])
			scheme.Muted.Fprintf(cmd.OutOrStdout(), "    %s = %s\n", k, val)
		}
	}
}

func printStepStats(cmd *cobra.Command, scheme *ColorScheme, recorder *stats.Recorder) {
	snapshot := recorder.Snapshot()
	if len(snapshot) == 0 {
		return
	}
	scheme.Highlight.Fprintln(cmd.OutOrStdout(), "per-step latency:")
	for _, st := range snapshot {
		cmd.Printf("  %-20s count=%d failed=%d p50=%.1fms p95=%.1fms p99=%.1fms max=%.1fms\n",
			st.StepID, st.Count, st.Failures, st.P50Ms, st.P95Ms, st.P99Ms, st.MaxMs)
	}
}
