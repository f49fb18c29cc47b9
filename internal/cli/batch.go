package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/nepdate/pkg/errors"
	"github.com/matzehuels/nepdate/pkg/nepdate"
)

// batchOptions holds flags for the batch command.
type batchOptions struct {
	direction    string
	directionSet bool
	file         string
	delay        time.Duration
}

// batchFile is the TOML input accepted by --file:
//
//	direction = "ad-to-bs"
//
//	[[dates]]
//	year = 2024
//	month = 10
//	day = 15
type batchFile struct {
	Direction string         `toml:"direction"`
	Dates     []nepdate.Date `toml:"dates"`
}

// batchJSON is the --json shape of a batch run.
type batchJSON struct {
	Direction nepdate.Direction `json:"direction"`
	Converted int               `json:"converted"`
	Failed    int               `json:"failed"`
	Results   []nepdate.Outcome `json:"results"`
}

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var opts batchOptions

	cmd := &cobra.Command{
		Use:   "batch [YYYY-MM-DD...]",
		Short: "Convert many dates in one run",
		Long: `Convert a list of dates one at a time, pausing between requests.

Dates come from the arguments, from a TOML file given with --file, or both
(file entries first). A failed date is reported in its row and does not
stop the batch.`,
		Example: `  nepdate batch 2024-01-01 2024-06-15 2024-12-31
  nepdate batch --direction bs-to-ad 2081/01/01 2081/06/29
  nepdate batch --file dates.toml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			delay := time.Duration(c.cfg.BatchDelay)
			if cmd.Flags().Changed("delay") {
				if err := errs.ValidateDelay("batch delay", opts.delay); err != nil {
					return err
				}
				delay = opts.delay
			}
			opts.directionSet = cmd.Flags().Changed("direction")
			return c.runBatch(cmd.Context(), opts, delay, args)
		},
	}

	cmd.Flags().StringVarP(&opts.direction, "direction", "d", string(nepdate.ADToBS), "ad-to-bs or bs-to-ad")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "TOML file with [[dates]] entries")
	cmd.Flags().DurationVar(&opts.delay, "delay", nepdate.DefaultBatchDelay, "pause between requests")

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, opts batchOptions, delay time.Duration, args []string) error {
	logger := loggerFromContext(ctx)

	dirName := opts.direction
	var dates []nepdate.Date
	if opts.file != "" {
		var f batchFile
		if _, err := toml.DecodeFile(opts.file, &f); err != nil {
			return fmt.Errorf("read batch file %s: %w", opts.file, err)
		}
		if f.Direction != "" && !opts.directionSet {
			dirName = f.Direction
		}
		dates = append(dates, f.Dates...)
	}
	for _, a := range args {
		d, err := parseDate(a)
		if err != nil {
			return err
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return errs.New(errs.ErrCodeInvalidInput, "no dates given: pass YYYY-MM-DD arguments or --file")
	}

	dir, err := nepdate.ParseDirection(dirName)
	if err != nil {
		return err
	}

	logger.Debug("batch", "direction", dir, "dates", len(dates), "delay", delay)
	prog := newProgress(logger)

	b := &nepdate.Batcher{Delay: delay, Logger: c.Logger}
	var outcomes []nepdate.Outcome
	c.spin(ctx, fmt.Sprintf("Converting %d dates...", len(dates)), func() {
		outcomes = b.Run(ctx, c.doer, dir, dates)
	})

	failed := 0
	for _, o := range outcomes {
		if !o.Success {
			failed++
		}
	}
	converted := len(outcomes) - failed
	prog.done("Converted %d of %d dates", converted, len(outcomes))

	if err := ctx.Err(); err != nil {
		return err
	}

	if c.opts.json {
		return c.printJSON(batchJSON{Direction: dir, Converted: converted, Failed: failed, Results: outcomes})
	}

	c.printLine(renderOutcomes(dir, outcomes))
	switch {
	case failed == 0:
		c.printSuccess("Converted %d dates", converted)
	case converted == 0:
		c.printError("All %d conversions failed", failed)
	default:
		c.printWarning("%d of %d conversions failed", failed, len(outcomes))
	}
	if c.cache != nil {
		c.printDetail("%d cached results", c.cache.Size())
	}
	return nil
}
