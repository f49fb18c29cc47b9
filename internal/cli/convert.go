package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/nepdate/pkg/errors"
	"github.com/matzehuels/nepdate/pkg/nepdate"
)

// convertOptions holds flags for the single-date commands.
type convertOptions struct {
	layout string
}

// conversionJSON is the --json shape of a single conversion.
type conversionJSON struct {
	Direction nepdate.Direction `json:"direction"`
	Input     nepdate.Date      `json:"input"`
	Output    nepdate.Date      `json:"output"`
	Formatted string            `json:"formatted"`
}

// convertCommand creates the ad-to-bs or bs-to-ad command.
func (c *CLI) convertCommand(dir nepdate.Direction) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   string(dir) + " <year> <month> <day>",
		Short: fmt.Sprintf("Convert a %s date to %s", dir.Source(), dir.Target()),
		Long: fmt.Sprintf(`Convert a %s date to %s through the conversion API.

The date is checked against the supported %s range first unless
--no-validate is given. Failed requests are retried with exponential backoff.`,
			dir.Source(), dir.Target(), dir.Source()),
		Example: fmt.Sprintf(`  nepdate %s %s
  nepdate %s %s --format DD-MM-YYYY
  nepdate %s %s --json`,
			dir, exampleArgs(dir), dir, exampleArgs(dir), dir, exampleArgs(dir)),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArgs(args)
			if err != nil {
				return err
			}
			return c.runConvert(cmd.Context(), dir, date, opts)
		},
	}

	cmd.Flags().StringVar(&opts.layout, "format", "", "output layout using YYYY, MM and DD")

	return cmd
}

// todayCommand creates the today command.
func (c *CLI) todayCommand() *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Convert today's date to BS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), nepdate.ADToBS, nepdate.FromTime(c.now()), opts)
		},
	}

	cmd.Flags().StringVar(&opts.layout, "format", "", "output layout using YYYY, MM and DD")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, dir nepdate.Direction, date nepdate.Date, opts convertOptions) error {
	logger := loggerFromContext(ctx)
	logger.Debug("converting", "direction", dir, "date", date)

	var (
		got nepdate.Date
		err error
	)
	c.spin(ctx, fmt.Sprintf("Converting %s %s...", dir.Source(), date), func() {
		got, err = nepdate.Convert(ctx, c.doer, dir, date)
	})
	if err != nil {
		return fmt.Errorf("convert %s %s: %w", dir.Source(), date, err)
	}

	formatted := formatFor(dir.Target(), got)
	if opts.layout != "" {
		formatted = nepdate.Format(got, opts.layout)
	}

	switch {
	case c.opts.json:
		return c.printJSON(conversionJSON{Direction: dir, Input: date, Output: got, Formatted: formatted})
	case opts.layout != "":
		c.printLine(formatted)
	default:
		c.printConversion(dir, date, got)
	}
	return nil
}

// =============================================================================
// Argument Parsing
// =============================================================================

// parseDateArgs parses "<year> <month> <day>" positional arguments.
func parseDateArgs(args []string) (nepdate.Date, error) {
	if len(args) != 3 {
		return nepdate.Date{}, errs.New(errs.ErrCodeInvalidInput, "expected <year> <month> <day>, got %d arguments", len(args))
	}
	var parts [3]int
	names := [3]string{"year", "month", "day"}
	for i, a := range args {
		n, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			return nepdate.Date{}, errs.New(errs.ErrCodeInvalidInput, "%s must be a number, got %q", names[i], a)
		}
		parts[i] = n
	}
	return nepdate.Date{Year: parts[0], Month: parts[1], Day: parts[2]}, nil
}

// parseDate parses "2024-10-15" or "2081/06/29".
func parseDate(s string) (nepdate.Date, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '/' })
	if len(fields) != 3 {
		return nepdate.Date{}, errs.New(errs.ErrCodeInvalidInput, "date %q must look like YYYY-MM-DD", s)
	}
	return parseDateArgs(fields)
}

func exampleArgs(dir nepdate.Direction) string {
	if dir == nepdate.BSToAD {
		return "2081 6 29"
	}
	return "2024 10 15"
}
