package cli

import (
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/nepdate/pkg/errors"
	"github.com/matzehuels/nepdate/pkg/nepdate"
)

// formatOptions holds flags for the format command.
type formatOptions struct {
	layout   string
	calendar string
}

// formatCommand creates the format command.
func (c *CLI) formatCommand() *cobra.Command {
	var opts formatOptions

	cmd := &cobra.Command{
		Use:   "format <year> <month> <day>",
		Short: "Render a date with a layout",
		Long: `Render a date with a layout in which YYYY is replaced by the year and
MM and DD by the zero-padded month and day.

Without --layout, BS dates use YYYY/MM/DD and AD dates use YYYY-MM-DD.`,
		Example: `  nepdate format 2081 6 29
  nepdate format 2081 6 29 --layout DD-MM-YYYY
  nepdate format 2024 10 15 --calendar ad`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArgs(args)
			if err != nil {
				return err
			}

			var out string
			switch strings.ToUpper(opts.calendar) {
			case "BS":
				out = nepdate.FormatBS(date, opts.layout)
			case "AD":
				out = nepdate.FormatAD(date, opts.layout)
			default:
				return errs.New(errs.ErrCodeInvalidInput, "calendar must be ad or bs, got %q", opts.calendar)
			}

			if c.opts.json {
				return c.printJSON(map[string]string{"formatted": out})
			}
			c.printLine(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.layout, "layout", "l", "", "layout using YYYY, MM and DD")
	cmd.Flags().StringVar(&opts.calendar, "calendar", "bs", "calendar whose default layout applies: ad or bs")

	return cmd
}
