package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Success   *color.Color
	Error     *color.Color
	Warning   *color.Color
	Highlight *color.Color
	Muted     *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Success:   color.New(color.FgGreen),
		Error:     color.New(color.FgRed, color.Bold),
		Warning:   color.New(color.FgYellow),
		Highlight: color.New(color.FgCyan, color.Bold),
		Muted:     color.New(color.FgHiBlack),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	scheme.Success.DisableColor()
	scheme.Error.DisableColor()
	scheme.Warning.DisableColor()
	scheme.Highlight.DisableColor()
	scheme.Muted.DisableColor()
	return scheme
}

// schemeFor picks a color scheme based on whether stdout is a terminal.
func schemeFor(noColor bool) *ColorScheme {
	if noColor || (!isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())) {
		return NoColorScheme()
	}
	return DefaultColorScheme()
}
