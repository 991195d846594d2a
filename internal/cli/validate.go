package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trekload/trek/internal/flow"
	"github.com/trekload/trek/internal/journey"
	"github.com/trekload/trek/internal/profile"
)

var (
	validateProfiles string
	validateNoColor  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <journey-file>",
	Short: "Validate a journey document and its flow structure",
	Long: `Validate checks a journey document against the journey schema, then
verifies its flow structure: every branch goto, onSuccess, and onFailure
must reference an existing step, and steps unreachable from the first step
are flagged. With --profiles, the profile configuration is checked too
(weights, generator options, faker methods).`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateProfiles, "profiles", "", "Profile configuration file to validate alongside the journey")
	validateCmd.Flags().BoolVar(&validateNoColor, "no-color", false, "Disable colored output")
}

func runValidate(cmd *cobra.Command, args []string) error {
	scheme := schemeFor(validateNoColor)
	log := logger()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("error reading journey file: %w", err)
	}
	if errs := journey.ValidateDocument(data, args[0]); len(errs) > 0 {
		for _, verr := range errs {
			scheme.Error.Fprintf(cmd.OutOrStdout(), "  %v\n", verr)
		}
		return fmt.Errorf("journey document has %d schema violation(s)", len(errs))
	}

	j, err := journey.Parse(data, args[0])
	if err != nil {
		return err
	}
	log.Debug("journey loaded", "id", j.ID, "steps", len(j.Steps))

	engine, err := flow.NewEngine(j)
	if err != nil {
		return err
	}

	issues := engine.Validate()
	for _, issue := range issues {
		switch issue.Severity {
		case flow.SeverityError:
			scheme.Error.Fprintf(cmd.OutOrStdout(), "  %s\n", issue)
		default:
			scheme.Warning.Fprintf(cmd.OutOrStdout(), "  %s\n", issue)
		}
	}

	if validateProfiles != "" {
		cfg, err := profile.LoadConfig(validateProfiles)
		if err != nil {
			return err
		}
		if _, err := profile.NewDistributor(cfg); err != nil {
			return err
		}
		scheme.Success.Fprintf(cmd.OutOrStdout(), "profiles: %d profile(s) OK\n", len(cfg.Profiles))
	}

	if errs := flow.Errors(issues); len(errs) > 0 {
		return fmt.Errorf("journey %q has %d structural error(s)", j.ID, len(errs))
	}

	scheme.Success.Fprintf(cmd.OutOrStdout(), "journey %q: %d step(s) OK (%d warning(s))\n",
		j.ID, len(j.Steps), len(issues))
	return nil
}
