package cli

import (
	"math"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trekload/trek/internal/profile"
)

var (
	sampleDraws   int
	sampleSeed    uint64
	sampleNoColor bool
)

var sampleCmd = &cobra.Command{
	Use:   "sample <profile-file>",
	Short: "Dry-run the profile distributor and report draw fidelity",
	Long: `Sample draws synthetic users from the weighted profile configuration and
prints the empirical distribution against the configured targets. Use it to
sanity-check weights and data sources before a real run.`,
	Args: cobra.ExactArgs(1),
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().IntVar(&sampleDraws, "draws", 10000, "Number of users to draw")
	sampleCmd.Flags().Uint64Var(&sampleSeed, "seed", 0, "Deterministic RNG seed (0 = random)")
	sampleCmd.Flags().BoolVar(&sampleNoColor, "no-color", false, "Disable colored output")
}

func runSample(cmd *cobra.Command, args []string) error {
	scheme := schemeFor(sampleNoColor)

	cfg, err := profile.LoadConfig(args[0])
	if err != nil {
		return err
	}

	opts := []profile.Option{profile.WithBaseDir(filepath.Dir(args[0]))}
	if sampleSeed != 0 {
		opts = append(opts, profile.WithSeed(sampleSeed))
	}

	dist, err := profile.NewDistributor(cfg, opts...)
	if err != nil {
		return err
	}
	if err := dist.LoadData(); err != nil {
		return err
	}

	for i := 0; i < sampleDraws; i++ {
		if _, err := dist.NextUser(); err != nil {
			return err
		}
	}

	scheme.Highlight.Fprintf(cmd.OutOrStdout(), "%d draw(s) across %d profile(s)\n", sampleDraws, len(cfg.Profiles))
	for _, st := range dist.Stats() {
		delta := math.Abs(st.Percent - st.TargetPercent)
		line := scheme.Success
		if delta > 2.0 {
			line = scheme.Warning
		}
		line.Fprintf(cmd.OutOrStdout(), "  %-20s %8d draws  %6.2f%% (target %6.2f%%)\n",
			st.Name, st.Draws, st.Percent, st.TargetPercent)
	}
	return nil
}
