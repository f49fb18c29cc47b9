package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/nepdate/pkg/nepdate"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for error messages.
	StyleError = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCalendar = lipgloss.NewStyle().Foreground(colorGray).Width(3)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printTo(w io.Writer, line string) {
	fmt.Fprintln(w, line)
}

// printSuccess prints a success message.
func (c *CLI) printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	printTo(c.out, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func (c *CLI) printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	printTo(c.out, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func (c *CLI) printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	printTo(c.out, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printDetail prints a detail line (indented).
func (c *CLI) printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	printTo(c.out, "  "+StyleDim.Render(msg))
}

// printLine prints a bare line, e.g. a formatted date meant for scripts.
func (c *CLI) printLine(s string) {
	printTo(c.out, s)
}

// =============================================================================
// Conversion Output
// =============================================================================

// printConversion prints "AD 2024-10-15 → BS 2081/06/29".
func (c *CLI) printConversion(dir nepdate.Direction, in, out nepdate.Date) {
	c.printSuccess("%s %s %s %s %s",
		styleCalendar.Render(dir.Source()), StyleValue.Render(formatFor(dir.Source(), in)),
		StyleDim.Render(iconArrow),
		styleCalendar.Render(dir.Target()), StyleHighlight.Render(formatFor(dir.Target(), out)))
}

// formatFor renders d in the default layout of its calendar.
func formatFor(calendar string, d nepdate.Date) string {
	if calendar == "BS" {
		return nepdate.FormatBS(d, "")
	}
	return nepdate.FormatAD(d, "")
}

// printJSON writes v as indented JSON.
func (c *CLI) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// =============================================================================
// Batch Table
// =============================================================================

// renderOutcomes draws one row per batch item.
func renderOutcomes(dir nepdate.Direction, outcomes []nepdate.Outcome) string {
	rows := make([][]string, 0, len(outcomes))
	for i, o := range outcomes {
		status, output := iconSuccess, ""
		if o.Success {
			output = formatFor(dir.Target(), *o.Output)
		} else {
			status, output = iconError, o.Error
		}
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			formatFor(dir.Source(), o.Input),
			output,
			status,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", dir.Source(), dir.Target(), "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row >= len(outcomes) {
				return base
			}
			switch {
			case col == 0:
				return base.Foreground(colorDim)
			case !outcomes[row].Success && col >= 2:
				return base.Foreground(colorRed)
			case col == 3:
				return base.Foreground(colorGreen)
			}
			return base
		})

	return t.Render()
}
