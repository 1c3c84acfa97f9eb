package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"github.com/tidwall/mmap"
	"github.com/xgzlucario/atom"
	"github.com/xgzlucario/atom/internal/pkg"
	"github.com/xgzlucario/atom/metrics"
)

var logger = zerolog.Nop()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile, logLevel string

	rootCmd := &cobra.Command{
		Use:          "atom",
		Short:        "atom interns text for the life of the process.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.DateTime}).
				Level(level).
				With().
				Timestamp().
				Logger()
			atom.SetLogger(logger)
			return initTable(configFile)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./"+atom.DefaultConfigFileName+" if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(newBenchCmd(), newInternCmd())
	return rootCmd
}

func initTable(configFile string) error {
	if configFile == "" {
		if _, err := os.Stat(atom.DefaultConfigFileName); err == nil {
			configFile = atom.DefaultConfigFileName
		}
	}
	options, err := atom.LoadOptions(configFile)
	if err != nil {
		return err
	}
	err = atom.Init(options)
	if errors.Is(err, atom.ErrInitialized) {
		logger.Warn().Msg("intern table already initialized, options ignored")
		return nil
	}
	return err
}

type benchOptions struct {
	file    string
	workers int
	batch   int
	rounds  int
	metrics string
}

func newBenchCmd() *cobra.Command {
	var opts benchOptions

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Intern every line of a file and report table statistics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBench(ctx, cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "newline separated words to intern")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "number of interning goroutines")
	cmd.Flags().IntVar(&opts.batch, "batch", 1024, "lines per task")
	cmd.Flags().IntVar(&opts.rounds, "rounds", 1, "times to intern the whole file")
	cmd.Flags().StringVar(&opts.metrics, "metrics", "", "serve /metrics on this address after the run")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runBench(ctx context.Context, cmd *cobra.Command, opts benchOptions) error {
	if opts.workers <= 0 || opts.batch <= 0 || opts.rounds <= 0 {
		return errors.New("workers, batch and rounds must be positive")
	}

	// Read file data by mmap.
	data, err := mmap.Open(opts.file, false)
	if err != nil {
		return fmt.Errorf("open %s: %w", opts.file, err)
	}
	if len(data) > 0 {
		defer mmap.Close(data)
	}
	lines := splitLines(data)
	logger.Info().Msgf("loaded %d lines from %s", len(lines), opts.file)

	q := pkg.NewQuantile(len(lines)/opts.batch*opts.rounds + 1)
	distinct := mapset.NewSet[atom.Atom]()
	p := pool.New().WithMaxGoroutines(opts.workers)

	start := time.Now()
	for r := 0; r < opts.rounds; r++ {
		for i := 0; i < len(lines); i += opts.batch {
			batch := lines[i:min(i+opts.batch, len(lines))]
			p.Go(func() {
				t := time.Now()
				atoms := make([]atom.Atom, len(batch))
				for j, line := range batch {
					atoms[j] = atom.NewBytes(line)
				}
				q.Add(time.Since(t))
				distinct.Append(atoms...)
			})
		}
	}
	p.Wait()
	cost := time.Since(start)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "lines: %d, rounds: %d, distinct: %d, cost: %v\n", len(lines), opts.rounds, distinct.Cardinality(), cost)
	fmt.Fprintln(out, atom.GetStats())
	q.Report(out)

	if opts.metrics != "" {
		return serveMetrics(ctx, opts.metrics)
	}
	return nil
}

// splitLines returns the non-empty lines of data, without line endings.
// The lines alias data.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		var line []byte
		if i < 0 {
			line, data = data, nil
		} else {
			line, data = data[:i], data[i+1:]
		}
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

var shutdownTimeout = 5 * time.Second

func serveMetrics(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return serveMetricsOn(ctx, ln)
}

// serveMetricsOn serves /metrics on ln until ctx is done.
func serveMetricsOn(ctx context.Context, ln net.Listener) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewCollector(""))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Msgf("shutdown metrics server error: %v", err)
		}
	}()

	logger.Info().Msgf("serving metrics on %s", ln.Addr())
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}

func newInternCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intern TEXT...",
		Short: "Intern the arguments and print their ids and hashes.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				_, existed := atom.Lookup(arg)
				a := atom.New(arg)
				fmt.Fprintf(out, "%d\t%016x\t%t\t%#v\n", a.ID(), a.ContentHash(), !existed, a)
			}
			return nil
		},
	}
}
