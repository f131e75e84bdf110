// Volatility CLI
// Fetches historical candlestick data for one or more trading symbols and
// reports how volatile each symbol has been over a recent window: price
// minimum, maximum, average, percentage change, and how many times the price
// moved past configurable threshold bands around the window average.
//
// Usage:
//
//	volatility --symbols BTCUSDT --interval 1m --period "2 hour"
//	volatility --symbols BTCUSDT+ETHUSDT --interval 5m --period "1 day" --format json
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/volwatch/go-volatility/internal/analyzer"
	"github.com/volwatch/go-volatility/internal/config"
	"github.com/volwatch/go-volatility/internal/exchange"
	"github.com/volwatch/go-volatility/internal/interval"
	"github.com/volwatch/go-volatility/internal/logger"
	"github.com/volwatch/go-volatility/internal/models"
	"github.com/volwatch/go-volatility/internal/report"
)

// CLI version information
const (
	Version = "1.0.0"
	AppName = "volatility"

	defaultConfigFile      = "volatility.json"
	defaultCredentialsFile = "credentials.env"
)

// Exit codes following standard conventions
const (
	ExitSuccess     = 0
	ExitUsageError  = 1
	ExitConfigError = 2
	ExitDataError   = 4
	ExitInterrupt   = 130
)

// Flags holds the parsed command line arguments.
type Flags struct {
	Symbols     []string
	Interval    string
	Period      string
	Format      string
	ConfigPath  string
	Credentials string
	Help        bool
	Version     bool
}

func main() {
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage()
		os.Exit(ExitUsageError)
	}

	if flags.Help {
		printUsage()
		return
	}
	if flags.Version {
		fmt.Printf("%s version %s\n", AppName, Version)
		return
	}

	if len(flags.Symbols) == 0 {
		fmt.Fprintln(os.Stderr, "Error: --symbols is required")
		printUsage()
		os.Exit(ExitUsageError)
	}
	if flags.Interval == "" {
		fmt.Fprintln(os.Stderr, "Error: --interval is required")
		os.Exit(ExitUsageError)
	}
	if flags.Period == "" {
		fmt.Fprintln(os.Stderr, "Error: --period is required")
		os.Exit(ExitUsageError)
	}

	// Fail fast on unparsable interval/period before touching the network.
	if _, err := interval.ParseInterval(flags.Interval); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitUsageError)
	}
	window, err := interval.ParsePeriod(flags.Period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitUsageError)
	}

	cfg, err := config.Load(flags.ConfigPath, flags.Credentials)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(ExitConfigError)
	}

	logManager, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to setup logging: %v\n", err)
		os.Exit(ExitConfigError)
	}
	defer logManager.Close()

	log := logManager.Logger().With(slog.String("run_id", uuid.NewString()))

	thresholds, err := buildThresholds(cfg.Analyzer.Thresholds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitConfigError)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	adapter := newAdapter(cfg, logManager.Component("exchange"))

	failures := run(ctx, adapter, log, flags, window, thresholds)

	if ctx.Err() != nil {
		os.Exit(ExitInterrupt)
	}
	if failures == len(flags.Symbols) {
		os.Exit(ExitDataError)
	}
}

// run analyzes each symbol in the order given. A failed symbol is reported
// and skipped; the remaining symbols still run. Returns the failure count.
func run(ctx context.Context, fetcher exchange.CandleFetcher, log *slog.Logger, flags *Flags, window time.Duration, thresholds analyzer.ThresholdSet) int {
	failures := 0

	for i, symbol := range flags.Symbols {
		if ctx.Err() != nil {
			return failures + len(flags.Symbols) - i
		}

		if err := analyzeSymbol(ctx, fetcher, log, symbol, flags, window, thresholds); err != nil {
			failures++
			log.Error("analysis failed",
				"symbol", symbol,
				"interval", flags.Interval,
				"period", flags.Period,
				"error", err)
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", symbol, err)
			continue
		}

		if i < len(flags.Symbols)-1 {
			fmt.Println()
		}
	}
	return failures
}

// analyzeSymbol fetches the window for one symbol, runs the analysis, and
// writes the report to stdout.
func analyzeSymbol(ctx context.Context, fetcher exchange.CandleFetcher, log *slog.Logger, symbol string, flags *Flags, window time.Duration, thresholds analyzer.ThresholdSet) error {
	end := time.Now().UTC()
	start := end.Add(-window)

	log.Info("analyzing symbol",
		"symbol", symbol,
		"interval", flags.Interval,
		"window", window)

	resp, err := fetcher.FetchCandles(ctx, exchange.FetchRequest{
		Symbol:   symbol,
		Start:    start,
		End:      end,
		Interval: flags.Interval,
	})
	if err != nil {
		return err
	}

	series, err := models.SeriesFromKlines(symbol, resp.Klines)
	if err != nil {
		return fmt.Errorf("no usable data for %s over the last %s: %w", symbol, flags.Period, err)
	}

	result, err := analyzer.Analyze(series, thresholds)
	if err != nil {
		return err
	}

	switch flags.Format {
	case "json":
		return report.WriteJSON(os.Stdout, result)
	default:
		return report.WriteText(os.Stdout, result)
	}
}

// buildThresholds converts configured threshold strings into a validated set,
// falling back to the default bands when none are configured.
func buildThresholds(configured []string) (analyzer.ThresholdSet, error) {
	if len(configured) == 0 {
		return analyzer.DefaultThresholds(), nil
	}
	return analyzer.NewThresholdSetFromStrings(configured)
}

// newAdapter builds the exchange adapter from configuration.
func newAdapter(cfg *config.Config, log *slog.Logger) *exchange.BinanceAdapter {
	opts := []exchange.BinanceOption{
		exchange.WithLogger(log),
		exchange.WithRateLimit(cfg.Exchange.RateLimit),
	}
	if cfg.Exchange.BaseURL != "" {
		opts = append(opts, exchange.WithBaseURL(cfg.Exchange.BaseURL))
	}

	creds := exchange.Credentials{
		APIKey:    cfg.Exchange.APIKey,
		APISecret: cfg.Exchange.APISecret,
	}
	return exchange.NewBinanceAdapter(creds, opts...)
}

// parseFlags parses the command line arguments.
func parseFlags(args []string) (*Flags, error) {
	flags := &Flags{
		Format:      "text",
		ConfigPath:  defaultConfigFile,
		Credentials: defaultCredentialsFile,
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--symbols", "-s":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--symbols requires a value")
			}
			flags.Symbols = splitSymbols(args[i+1])
			i++
		case "--interval", "-i":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--interval requires a value")
			}
			flags.Interval = args[i+1]
			i++
		case "--period", "-p":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--period requires a value")
			}
			flags.Period = args[i+1]
			i++
		case "--format", "-f":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--format requires a value")
			}
			format := args[i+1]
			if format != "text" && format != "json" {
				return nil, fmt.Errorf("invalid format, must be: text or json")
			}
			flags.Format = format
			i++
		case "--config", "-c":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--config requires a value")
			}
			flags.ConfigPath = args[i+1]
			i++
		case "--credentials":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--credentials requires a value")
			}
			flags.Credentials = args[i+1]
			i++
		case "--help", "-h":
			flags.Help = true
		case "--version", "-v":
			flags.Version = true
		default:
			return nil, fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	return flags, nil
}

// splitSymbols parses the plus-delimited symbol list, dropping empty entries.
func splitSymbols(s string) []string {
	parts := strings.Split(s, "+")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			symbols = append(symbols, trimmed)
		}
	}
	return symbols
}

// printUsage prints the main usage information
func printUsage() {
	fmt.Printf(`%s - Symbol volatility report v%s

USAGE:
    %s --symbols <symbols> --interval <interval> --period <period> [options]

OPTIONS:
    --symbols, -s <symbols>    One or more trading symbols, plus-delimited (required)
                               Examples: BTCUSDT, BTCUSDT+ETHUSDT+BNBUSDT

    --interval, -i <interval>  Candlestick interval (required)
                               Supported: 1m, 3m, 5m, 15m, 30m, 1h, 2h, 4h, 6h, 8h, 12h, 1d, 3d, 1w

    --period, -p <period>      Window up until now to analyze (required)
                               Format: "<count> <unit>", e.g. "2 hour", "1 day", "30 minutes"

    --format, -f <format>      Output format: text or json (default: text)
    --config, -c <path>        Config file path (default: %s)
    --credentials <path>       Credentials file path (default: %s)

    --help, -h                 Show this help message
    --version, -v              Show version information

EXAMPLES:
    # Report BTCUSDT volatility over the last two hours of 1-minute candles
    %s --symbols BTCUSDT --interval 1m --period "2 hour"

    # Compare three symbols over a day of 5-minute candles
    %s --symbols BTCUSDT+ETHUSDT+BNBUSDT --interval 5m --period "1 day"

CONFIGURATION:
    Configuration can be provided via:
    - Config file: %s (JSON format)
    - Credentials file: %s (KEY=value lines; VOLATILITY_API_KEY, VOLATILITY_API_SECRET)
    - Environment variables: VOLATILITY_* (e.g. VOLATILITY_API_KEY)

    Example config file:
    {
        "exchange": {"rate_limit": 10},
        "analyzer": {"thresholds": ["0.02", "0.01", "0.005"]},
        "logging": {"level": "info", "format": "text", "output": "stderr"}
    }
`, AppName, Version, AppName, defaultConfigFile, defaultCredentialsFile, AppName, AppName, defaultConfigFile, defaultCredentialsFile)
}
