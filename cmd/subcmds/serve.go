package subcmds

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pysugar/hello/cmd/base"
	"github.com/pysugar/hello/errors"
	"github.com/pysugar/hello/http/extensions"
	"github.com/pysugar/hello/http/server/greeter"
	hnet "github.com/pysugar/hello/net"
)

type ServeConfig struct {
	Port          int
	MetricsPort   int
	Verbose       bool
	ProxyProtocol bool
}

var errMetrics = errors.New("metrics listener")

var DefaultServeConfig = ServeConfig{Port: int(greeter.DefaultPort)}

var serveCmd = &cobra.Command{
	Use:   `serve [-p 3000]`,
	Short: "Start the greeting server",
	Long: `
Start the greeting server. GET / answers with a greeting, everything else is 404.

Start on the default port: hello serve
Start with access logs and metrics: hello serve --port=8080 --verbose --metrics-port=9090
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := DefaultServeConfig
		cfg.Port, _ = cmd.Flags().GetInt("port")
		cfg.MetricsPort, _ = cmd.Flags().GetInt("metrics-port")
		cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
		cfg.ProxyProtocol, _ = cmd.Flags().GetBool("proxy-protocol")
		return RunServe(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", DefaultServeConfig.Port, "listen port, 0 picks a free one")
	serveCmd.Flags().Int("metrics-port", 0, "serve prometheus metrics on this port, 0 disables")
	serveCmd.Flags().BoolP("verbose", "V", false, "Verbose mode")
	serveCmd.Flags().Bool("proxy-protocol", false, "accept PROXY protocol headers from a load balancer")
	base.AddSubCommands(serveCmd)

	base.SetDefaultRun(func(cmd *cobra.Command, args []string) error {
		return RunServe(cmd.Context(), DefaultServeConfig, cmd.OutOrStdout(), cmd.ErrOrStderr())
	})
}

// RunServe binds the greeter, and the metrics listener when enabled, then
// serves until one of them fails or ctx is done. The startup line is written
// only after both are bound.
func RunServe(ctx context.Context, cfg ServeConfig, stdout, stderr io.Writer) error {
	port, err := hnet.PortFromInt(cfg.Port)
	if err != nil {
		return err
	}
	metricsPort, err := hnet.PortFromInt(cfg.MetricsPort)
	if err != nil {
		return err
	}

	logger := base.NewLogger(stderr, cfg.Verbose)

	reg := prometheus.NewRegistry()
	var mws []extensions.Middleware
	if metricsPort != 0 {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		mws = append(mws, extensions.NewMetrics(reg).Middleware())
	}
	if cfg.Verbose {
		mws = append(mws, extensions.LoggingMiddleware(logger, !cfg.ProxyProtocol))
	}

	srv := greeter.New(greeter.Options{
		Port:          port,
		Ephemeral:     port == 0,
		ProxyProtocol: cfg.ProxyProtocol,
		H2C:           true,
		Logger:        &logger,
		Announce:      stdout,
		Middleware:    mws,
	})
	if err := srv.Bind(ctx); err != nil {
		return err
	}

	var metricsSrv *http.Server
	var metricsLis net.Listener
	if metricsPort != 0 {
		lis, err := hnet.Listen(ctx, metricsPort, hnet.ListenOptions{})
		if err != nil {
			srv.Close()
			return errors.Single(errMetrics, err)
		}
		metricsLis = lis
		metricsSrv = &http.Server{
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	// Every listener is bound, startup can no longer fail.
	srv.Announce()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Serve)
	if metricsSrv != nil {
		logger.Info().Stringer("addr", metricsLis.Addr()).Msg("Serving metrics")
		g.Go(func() error {
			if err := metricsSrv.Serve(metricsLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Single(errMetrics, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		if metricsSrv != nil {
			metricsSrv.Close()
		}
		return srv.Close()
	})
	return g.Wait()
}

func metricsMux(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", extensions.MetricsHandler(g))
	return mux
}
