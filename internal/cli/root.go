package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/r9s-ai/reportingcloud/internal/version"
	"github.com/r9s-ai/reportingcloud/pkg/config"
	"github.com/r9s-ai/reportingcloud/pkg/reportingcloud"
	"github.com/r9s-ai/reportingcloud/pkg/reportingcloud/rctest"
)

// Execute runs the root command with the process arguments and returns the
// exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

type rootOptions struct {
	cfgPath     string
	debug       bool
	test        bool
	mock        bool
	logLevel    string
	metricsAddr string
	output      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{
		cfgPath: "reportingcloud.yaml",
		output:  outputTable,
	}
	cmd := &cobra.Command{
		Use:           "reportingcloud",
		Short:         "ReportingCloud document service client",
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	fs := cmd.PersistentFlags()
	fs.StringVarP(&opts.cfgPath, "config", "c", "reportingcloud.yaml", "config yaml path (missing file means defaults + RC_* env)")
	fs.BoolVar(&opts.debug, "debug", false, "print one request line per call to stderr")
	fs.BoolVar(&opts.test, "test", false, "send merge/convert requests in test mode")
	fs.BoolVar(&opts.mock, "mock", false, "run against an in-memory backend instead of the service")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error (overrides logging.level)")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "expose prometheus /metrics on this address (overrides metrics.listen)")
	fs.StringVarP(&opts.output, "output", "o", outputTable, "output format: table|json")

	cmd.AddCommand(
		newAccountCmd(opts),
		newAPIKeysCmd(opts),
		newTemplatesCmd(opts),
		newDocumentCmd(opts),
		newFontsCmd(opts),
		newCulturesCmd(opts),
		newTUICmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// session is the per-invocation state shared by subcommands.
type session struct {
	cfg    *config.Config
	client *reportingcloud.Client
	logger *slog.Logger
	out    io.Writer
	print  *printer
	mock   *rctest.Server

	closers []func()
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(strings.TrimSpace(o.cfgPath))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.debug {
		cfg.Debug = true
	}
	if o.test {
		cfg.Test = true
	}
	if lvl := strings.TrimSpace(o.logLevel); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if addr := strings.TrimSpace(o.metricsAddr); addr != "" {
		cfg.Metrics.Listen = addr
	}
	return cfg, nil
}

func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	switch o.output {
	case outputTable, outputJSON:
	default:
		return nil, fmt.Errorf("invalid --output %q (want %s or %s)", o.output, outputTable, outputJSON)
	}
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Logging)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:    cfg,
		logger: logger,
		out:    cmd.OutOrStdout(),
		print:  newPrinter(cmd.OutOrStdout(), o.output),
	}
	if o.mock {
		s.mock = rctest.New(rctest.WithVersion(cfg.Version))
		cfg.BaseURI = s.mock.Start()
		cfg.APIKey = s.mock.APIKey()
		cfg.Username, cfg.Password = "", ""
		cfg.Proxy = "direct"
		s.closers = append(s.closers, s.mock.Close)
		logger.Debug("mock backend started", "base_uri", cfg.BaseURI)
	}

	clientOpts := []reportingcloud.Option{
		reportingcloud.WithLogger(logger),
		reportingcloud.WithDebugOut(cmd.ErrOrStderr()),
		reportingcloud.WithUserAgent("reportingcloud-cli/" + version.Get().Version),
	}
	if listen := strings.TrimSpace(cfg.Metrics.Listen); listen != "" {
		m, stop, err := serveMetrics(listen, logger)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, stop)
		clientOpts = append(clientOpts, reportingcloud.WithMetrics(m))
	}

	client, err := reportingcloud.New(cfg, clientOpts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.client = client
	return s, nil
}

// run opens a session, calls fn and releases the session.
func (o *rootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	s, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, s)
}

func serveMetrics(listen string, logger *slog.Logger) (*reportingcloud.Metrics, func(), error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := reportingcloud.NewMetrics(reg)
	if err != nil {
		return nil, nil, fmt.Errorf("register metrics: %w", err)
	}
	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics listen %s: %w", listen, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "err", err)
		}
	}()
	logger.Info("metrics enabled", "listen", ln.Addr().String())
	return m, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
