package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"reflect"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/encodeous/tint"
	"github.com/encodeous/weft/perf"
	"github.com/encodeous/weft/state"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogmulti "github.com/samber/slog-multi"
	"go.uber.org/multierr"
)

func ReadNodeConfig(nodePath string) (*state.NodeCfg, error) {
	file, err := os.ReadFile(nodePath)
	if err != nil {
		return nil, err
	}
	return state.ParseNodeConfig(file)
}

// Bootstrap loads the node config and runs the node until it is told to stop.
func Bootstrap(nodePath, logPath string, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	nodeCfg, err := ReadNodeConfig(nodePath)
	if err != nil {
		return err
	}
	if logPath != "" {
		nodeCfg.LogPath = logPath
	}
	if err := state.NodeConfigValidator(nodeCfg); err != nil {
		return err
	}
	return Start(*nodeCfg, level, nil, nil)
}

func newLogger(ncfg state.NodeCfg, logLevel slog.Level) (*slog.Logger, error) {
	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        logLevel,
			AddSource:    false,
			CustomPrefix: fmt.Sprintf("r%d", ncfg.Id),
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))

	if ncfg.LogPath != "" {
		err := os.MkdirAll(path.Dir(ncfg.LogPath), 0700)
		if err != nil {
			return nil, err
		}
		f, err := os.OpenFile(ncfg.LogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel}))
	}
	return slog.New(slogmulti.Fanout(handlers...)), nil
}

// Start runs a node on the calling goroutine until its context is cancelled.
// reg may be nil. If ready is not nil, the state is stored in it once every
// module is initialised, just before the main loop starts.
func Start(ncfg state.NodeCfg, logLevel slog.Level, reg *prometheus.Registry, ready *atomic.Pointer[state.State]) error {
	ncfg.ApplyDefaults()
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	dispatch := make(chan func(env *state.State) error, state.DispatchBuffer)

	logger, err := newLogger(ncfg, logLevel)
	if err != nil {
		return err
	}

	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics, err := perf.NewRouterMetrics(reg)
	if err != nil {
		return err
	}

	s := state.State{
		Modules: make(map[string]state.NyModule),
		Env: &state.Env{
			Context:         ctx,
			Cancel:          cancel,
			DispatchChannel: dispatch,
			NodeCfg:         ncfg,
			Log:             logger,
		},
	}
	s.Log.Info("init modules")
	err = initModules(&s, metrics)
	if err != nil {
		Stop(&s)
		return err
	}
	s.Log.Info("init modules complete")

	if ncfg.MetricsAddr != "" {
		serveMetrics(&s, reg)
	}

	s.Log.Info("Node has been initialized. To gracefully exit, send SIGINT or Ctrl+C.", "router", ncfg.Id)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		select {
		case <-c:
			s.Cancel(errors.New("received shutdown signal"))
		case <-ctx.Done():
			return
		}
	}()

	if ready != nil {
		ready.Store(&s)
	}
	return MainLoop(&s, dispatch)
}

func initModules(s *state.State, metrics *perf.RouterMetrics) error {
	var modules []state.NyModule
	modules = append(modules, &MeshTrace{})
	modules = append(modules, &MeshRouter{Metrics: metrics})

	for _, module := range modules {
		s.Modules[reflect.TypeOf(module).String()] = module
		if err := module.Init(s); err != nil {
			return err
		}
	}
	return nil
}

func serveMetrics(s *state.State, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/debug/rdb", InspectHandler(s.Env))
	// /debug/metrics and /debug/vars
	mux.Handle("/debug/", http.DefaultServeMux)
	srv := &http.Server{
		Addr:              s.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Log.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		<-s.Context.Done()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()
	s.Log.Info("serving metrics", "addr", s.MetricsAddr)
}

func MainLoop(s *state.State, dispatch <-chan func(*state.State) error) error {
	s.Log.Debug("started main loop")
	s.Started.Store(true)
	for {
		select {
		case fun := <-dispatch:
			if fun == nil {
				goto endLoop
			}
			start := time.Now()
			err := fun(s)
			if err != nil {
				s.Log.Error("error occurred during dispatch: ", "error", err)
				s.Cancel(err)
			}
			elapsed := time.Since(start)
			perf.DispatchLatency.Add(float64(elapsed.Microseconds()))
			if elapsed > state.SlowDispatchThreshold {
				s.Log.Warn("dispatch took a long time!", "fun", runtime.FuncForPC(reflect.ValueOf(fun).Pointer()).Name(), "elapsed", elapsed, "len", len(dispatch))
			}
		case <-s.Context.Done():
			goto endLoop
		}
	}
endLoop:
	s.Log.Info("stopped main loop", "reason", context.Cause(s.Context).Error())
	Stop(s)
	return nil
}

func Stop(s *state.State) {
	if s.Stopping.Swap(true) {
		return // don't stop twice
	}
	s.Cancel(context.Canceled)
	s.Log.Info("cleaning up modules")
	var err error
	for moduleName, module := range s.Modules {
		if e := module.Cleanup(s); e != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", moduleName, e))
		}
	}
	if err != nil {
		s.Log.Error("error occurred during Stop: ", "error", err)
	}
	s.Log.Info("stopped")
}
