// Command backtest replays stored history through a market model and prints
// the validation report as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/okian/pickgate/internal/adapters/http/api"
	"github.com/okian/pickgate/internal/adapters/repository"
	app "github.com/okian/pickgate/internal/app"
	"github.com/okian/pickgate/internal/domain/backtest"
	"github.com/okian/pickgate/internal/domain/market"
	"github.com/okian/pickgate/pkg/logger"
)

// options holds parsed command line flags.
type options struct {
	market        string
	from          string
	to            string
	minConfidence int
	minMatches    int
	rows          string
	registry      string
	workers       int
	save          bool
	out           string
	logLevel      string
}

var errUsage = errors.New("usage")

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("backtest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.market, "market", "", "market id to backtest (required)")
	fs.StringVar(&o.from, "from", "", "window start, RFC3339 or YYYY-MM-DD")
	fs.StringVar(&o.to, "to", "", "window end, RFC3339 or YYYY-MM-DD (a date includes the whole day)")
	fs.IntVar(&o.minConfidence, "min-confidence", 0, "only count picks at or above this confidence")
	fs.IntVar(&o.minMatches, "min-matches", backtest.DefaultMinMatches, "minimum historical rows required")
	fs.StringVar(&o.rows, "rows", "", "JSON file of historical rows (required)")
	fs.StringVar(&o.registry, "registry", "", "YAML market registry; built-in markets when empty")
	fs.IntVar(&o.workers, "workers", runtime.NumCPU(), "parallel rows")
	fs.BoolVar(&o.save, "save", false, "persist the report under -out")
	fs.StringVar(&o.out, "out", "backtests", "directory for saved reports")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.market == "" || o.rows == "" {
		fs.Usage()
		return options{}, fmt.Errorf("%w: -market and -rows are required", errUsage)
	}
	return o, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Stderr.WriteString("backtest: " + err.Error() + "\n")
		stop()
		os.Exit(1) //nolint:gocritic // stop is called above
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.WithWriter(stderr)); err != nil {
		return err
	}
	if err := logger.SetLevelString(o.logLevel); err != nil {
		return err
	}

	start, err := api.ParseDate(o.from)
	if err != nil {
		return fmt.Errorf("-from: %w", err)
	}
	end, err := api.ParseEndDate(o.to)
	if err != nil {
		return fmt.Errorf("-to: %w", err)
	}

	registry := market.Default()
	if o.registry != "" {
		if registry, err = market.Load(ctx, o.registry); err != nil {
			return err
		}
	}
	history, err := repository.LoadFileHistory(ctx, o.rows)
	if err != nil {
		return err
	}

	opts := []app.Option{
		app.WithRegistry(registry),
		app.WithHistory(history),
		app.WithWorkerCount(o.workers),
		app.WithLogger(logger.Get().Named("backtest")),
	}
	if o.save {
		store, err := repository.NewResultStore(o.out)
		if err != nil {
			return err
		}
		opts = append(opts, app.WithResultStore(store))
	}
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	res, path, err := svc.RunBacktest(ctx, backtest.Request{
		MarketID:      o.market,
		Start:         start,
		End:           end,
		MinMatches:    o.minMatches,
		MinConfidence: o.minConfidence,
	}, o.save)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintln(stderr, "saved", path)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
