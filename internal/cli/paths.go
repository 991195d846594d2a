package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/trekload/trek/internal/flow"
	"github.com/trekload/trek/internal/journey"
)

var pathsNoColor bool

var pathsCmd = &cobra.Command{
	Use:   "paths <journey-file>",
	Short: "Enumerate the possible paths through a journey",
	Long: `Paths explores every route a virtual user could take through the journey
graph: branch targets, onSuccess/onFailure edges, and sequential fallthrough.
Cyclic paths are marked and cut at the first repeated step, so the listing is
finite even for journeys with loops.`,
	Args: cobra.ExactArgs(1),
	RunE: runPaths,
}

func init() {
	pathsCmd.Flags().BoolVar(&pathsNoColor, "no-color", false, "Disable colored output")
}

func runPaths(cmd *cobra.Command, args []string) error {
	scheme := schemeFor(pathsNoColor)

	j, err := journey.Load(args[0])
	if err != nil {
		return err
	}

	engine, err := flow.NewEngine(j)
	if err != nil {
		return err
	}

	paths := engine.EnumeratePaths()
	scheme.Highlight.Fprintf(cmd.OutOrStdout(), "journey %q: %d possible path(s)\n", j.ID, len(paths))

	for i, p := range paths {
		marker := ""
		switch {
		case p.HasCycle:
			marker = scheme.Warning.Sprint(" [cycle]")
		case p.IsComplete:
			marker = scheme.Success.Sprint(" [complete]")
		}
		scheme.Muted.Fprintf(cmd.OutOrStdout(), "  %3d. ", i+1)
		cmd.Printf("%s%s\n", strings.Join(p.Steps, " -> "), marker)
	}
	return nil
}
