// Command fspl evaluates a free-space link from the terminal.
//
//	fspl -pt 20 -d 1 -f 2400
//	fspl -mode range -fstart 800 -fstop 2600 -fstep 50 -png sweep.png
//
// Output is a table on a terminal and CSV otherwise.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rodaine/table"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/linkcalc/internal/calculator"
	"github.com/RMahshie/linkcalc/internal/chart"
	"github.com/RMahshie/linkcalc/internal/ui"
	"github.com/RMahshie/linkcalc/internal/units"
	"github.com/RMahshie/linkcalc/pkg/models"
)

var errUsage = errors.New("usage")

type options struct {
	mode    models.Mode
	form    models.RawForm
	pngPath string
	verbose bool
}

func main() {
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if err := run(os.Args[1:], os.Stdout, os.Stderr, tty); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer, tty bool) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := zerolog.WarnLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: !tty}).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	calc := calculator.NewCalculatorService(nil)

	switch opts.mode {
	case models.ModeSingle:
		res, err := calc.Single(ctx, calculator.SingleFromForm(opts.form))
		if err != nil {
			return err
		}
		if err := writeSingle(stdout, res, tty); err != nil {
			return err
		}
		if opts.pngPath != "" {
			return writePNG(ctx, opts.pngPath, ui.SingleSeries(res))
		}
	case models.ModeRange:
		res, err := calc.Range(ctx, calculator.RangeFromForm(opts.form))
		if err != nil {
			return err
		}
		if err := writeRange(stdout, res, tty); err != nil {
			return err
		}
		if opts.pngPath != "" {
			return writePNG(ctx, opts.pngPath, ui.SweepSeries(res))
		}
	}
	return nil
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	def := models.DefaultForm()
	fs := flag.NewFlagSet("fspl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	mode := fs.String("mode", string(models.ModeSingle), "calculation mode: single or range")
	fs.StringVar(&opts.form.PtValue, "pt", def.PtValue, "transmit power")
	fs.StringVar(&opts.form.PtUnit, "pt-unit", def.PtUnit, "transmit power unit: dBm, mW or W")
	fs.StringVar(&opts.form.DValue, "d", def.DValue, "distance")
	fs.StringVar(&opts.form.DUnit, "d-unit", def.DUnit, "distance unit: km or m")
	fs.StringVar(&opts.form.FValue, "f", def.FValue, "frequency (single mode)")
	fs.StringVar(&opts.form.FUnit, "f-unit", def.FUnit, "frequency unit: Hz, kHz, MHz or GHz")
	fs.StringVar(&opts.form.FStart, "fstart", def.FStart, "sweep start frequency (range mode)")
	fs.StringVar(&opts.form.FStop, "fstop", def.FStop, "sweep stop frequency (range mode)")
	fs.StringVar(&opts.form.FStep, "fstep", def.FStep, "sweep step (range mode)")
	fs.StringVar(&opts.form.FRangeUnit, "range-unit", def.FRangeUnit, "sweep frequency unit")
	fs.StringVar(&opts.form.Gt, "gt", def.Gt, "transmit antenna gain in dB")
	fs.StringVar(&opts.form.Gr, "gr", def.Gr, "receive antenna gain in dB")
	fs.StringVar(&opts.form.Loss, "loss", def.Loss, "miscellaneous loss in dB")
	fs.StringVar(&opts.pngPath, "png", "", "also write the chart to this PNG file")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return options{}, errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		return options{}, errUsage
	}
	opts.mode = models.Mode(*mode)
	if !opts.mode.Valid() {
		return options{}, fmt.Errorf("unknown mode %q", *mode)
	}
	return opts, nil
}

func writeSingle(w io.Writer, res *calculator.SingleResult, tty bool) error {
	rows := [][]string{
		{"Pt", ui.FormatDBm(res.Params.TransmitDBm)},
		{"d", ui.FormatKm(res.Params.DistanceKm)},
		{"f", ui.FormatMHz(res.Params.FrequencyMHz)},
		{"FSPL", ui.FormatDB(res.Result.FsplDB)},
		{"Pr", ui.FormatDBm(res.Result.PrDBm)},
	}
	if !tty {
		return writeCSV(w, []string{"quantity", "value"}, rows)
	}
	tbl := newTable(w, "QUANTITY", "VALUE")
	for _, r := range rows {
		tbl.AddRow(r[0], r[1])
	}
	tbl.Print()
	return nil
}

func writeRange(w io.Writer, res *calculator.RangeResult, tty bool) error {
	if !tty {
		rows := make([][]string, len(res.Points))
		for i, p := range res.Points {
			rows[i] = []string{
				strconv.FormatFloat(p.FrequencyMHz, 'f', -1, 64),
				strconv.FormatFloat(p.FsplDB, 'f', 4, 64),
				strconv.FormatFloat(p.PrDBm, 'f', 4, 64),
			}
		}
		return writeCSV(w, []string{"frequency_mhz", "fspl_db", "pr_dbm"}, rows)
	}

	tbl := newTable(w, "FREQUENCY ("+string(res.Unit)+")", "FSPL (dB)", "Pr (dBm)")
	for _, p := range res.Points {
		tbl.AddRow(
			strconv.FormatFloat(units.FrequencyFromMHz(p.FrequencyMHz, res.Unit), 'g', 10, 64),
			fmt.Sprintf("%.2f", p.FsplDB),
			fmt.Sprintf("%.2f", p.PrDBm),
		)
	}
	tbl.Print()

	summary := ui.SweepBanner(res)
	_, err := fmt.Fprintln(w, "\n"+summary.Summary())
	return err
}

func newTable(w io.Writer, columns ...string) table.Table {
	cols := make([]interface{}, len(columns))
	for i, c := range columns {
		cols[i] = c
	}
	return table.New(cols...).
		WithWriter(w).
		WithHeaderFormatter(color.New(color.FgHiWhite, color.Bold).SprintfFunc()).
		WithFirstColumnFormatter(color.New(color.FgHiCyan).SprintfFunc())
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writePNG(ctx context.Context, path string, s chart.Series) error {
	c, err := chart.Render(s, chart.Options{})
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	defer c.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := c.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Ctx(ctx).Debug().Str("path", path).Msg("Wrote chart")
	return nil
}
