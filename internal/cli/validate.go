package cli

import (
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/nepdate/pkg/errors"
	"github.com/matzehuels/nepdate/pkg/nepdate"
)

// validationJSON is the --json shape of the validate command.
type validationJSON struct {
	Calendar string       `json:"calendar"`
	Date     nepdate.Date `json:"date"`
	Valid    bool         `json:"valid"`
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <ad|bs> <year> <month> <day>",
		Short: "Check a date against the supported range without a request",
		Long: `Check a date locally against the range the conversion API supports.

AD dates must fall in 1943-2042 and exist in the Gregorian calendar.
BS dates must fall in 2000-2099 with month 1-12 and day 1-32; month
lengths are not checked.`,
		Example: `  nepdate validate ad 2024 2 29
  nepdate validate bs 2081 6 32 --json`,
		Args:      cobra.ExactArgs(4),
		ValidArgs: []string{"ad", "bs"},
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArgs(args[1:])
			if err != nil {
				return err
			}

			calendar := strings.ToUpper(args[0])
			var valid bool
			switch calendar {
			case "AD":
				valid = nepdate.IsValidAD(date.Year, date.Month, date.Day)
			case "BS":
				valid = nepdate.IsValidBS(date.Year, date.Month, date.Day)
			default:
				return errs.New(errs.ErrCodeInvalidInput, "calendar must be ad or bs, got %q", args[0])
			}
			loggerFromContext(cmd.Context()).Debug("validated", "calendar", calendar, "date", date, "valid", valid)

			if c.opts.json {
				return c.printJSON(validationJSON{Calendar: calendar, Date: date, Valid: valid})
			}
			if !valid {
				return errs.New(errs.ErrCodeInvalidInput, "invalid %s date: %d-%d-%d", calendar, date.Year, date.Month, date.Day)
			}
			c.printSuccess("%s %s is a valid date", calendar, formatFor(calendar, date))
			return nil
		},
	}

	return cmd
}
