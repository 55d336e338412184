package touchboost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/evan-idocoding/touchboost/attr"
	"github.com/evan-idocoding/touchboost/attr/attrhttp"
	"github.com/evan-idocoding/touchboost/httpx"
)

var (
	// ErrAlreadyStarted indicates Start/Run was called more than once.
	ErrAlreadyStarted = errors.New("touchboost: service already started")
	// ErrNotStarted indicates Wait was called before Start.
	ErrNotStarted = errors.New("touchboost: service not started")
)

const (
	defaultShutdownTimeout   = 30 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultIdleTimeout       = 60 * time.Second
)

// Service runs the attribute surface and the admin subtree around one
// boost.Store.
type Service struct {
	Gateway      *attr.Gateway
	Registry     *prometheus.Registry
	AttrServer   *http.Server
	AdminServer  *http.Server // nil unless admin runs standalone
	AdminHandler http.Handler
	LogLevelVar  *slog.LevelVar

	log             *slog.Logger
	hooks           ServiceHooks
	signals         SignalSpec
	shutdownTimeout time.Duration
	servers         []managedServer

	mu        sync.Mutex
	started   bool
	stopping  bool
	degraded  bool
	startStop context.CancelFunc
	listeners map[*http.Server]net.Listener // servers that bound successfully
	firstErr  error

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
	shutdownErr  error

	doneCh  chan struct{}
	waitErr error
}

type managedServer struct {
	name     string
	optional bool
	srv      *http.Server
}

// NewDefaultService assembles a Service.
//
// Assembly errors panic. Runtime errors are returned from
// Start/Wait/Run/Shutdown.
func NewDefaultService(spec ServiceSpec) *Service {
	if spec.Store == nil {
		panic("touchboost: ServiceSpec: nil Store")
	}
	if strings.TrimSpace(spec.Attr.Addr) == "" {
		panic("touchboost: ServiceSpec.Attr: empty Addr")
	}
	logger := spec.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := spec.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	reg := spec.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}
	gw := attr.New(spec.Store,
		attr.WithLogger(logger),
		attr.WithMetrics(attr.NewMetrics(reg, spec.Store)),
	)

	s := &Service{
		Gateway:         gw,
		Registry:        reg,
		LogLevelVar:     spec.LogLevelVar,
		log:             logger,
		hooks:           spec.Hooks,
		signals:         spec.Signals,
		shutdownTimeout: timeout,
		listeners:       make(map[*http.Server]net.Listener),
		shutdownCh:      make(chan struct{}),
		doneCh:          make(chan struct{}),
	}

	attrPrefix := spec.Attr.Prefix
	if strings.TrimSpace(attrPrefix) == "" {
		attrPrefix = DefaultAttrPrefix
	}
	attrSubtree := httpx.Chain(
		httpx.Recover(httpx.WithRecoverLogger(logger)),
		httpx.RequestID(),
		httpx.AccessLog(httpx.WithAccessLogger(logger)),
	).Handler(attrhttp.NewHandler(gw, attrhttp.WithMaxBodyBytes(spec.Attr.MaxBodyBytes)))

	var fallback http.Handler = http.NotFoundHandler()
	var standaloneAdmin *http.Server
	if spec.Admin != nil {
		as := spec.Admin.Spec
		if as.Gateway == nil {
			as.Gateway = gw
		}
		if as.LogLevelVar == nil {
			as.LogLevelVar = spec.LogLevelVar
		}
		if as.Gatherer == nil {
			as.Gatherer = reg
		}
		if as.Logger == nil {
			as.Logger = logger
		}
		s.AdminHandler = NewDefaultAdmin(as)

		adminPrefix := spec.Admin.Prefix
		if strings.TrimSpace(adminPrefix) == "" {
			adminPrefix = DefaultAdminPrefix
		}
		if addr := strings.TrimSpace(spec.Admin.Addr); addr != "" {
			standaloneAdmin = newHTTPServer(addr, mountPrefix(adminPrefix, s.AdminHandler, nil))
		} else {
			if normalizeMountPrefixOrPanic(adminPrefix) == normalizeMountPrefixOrPanic(attrPrefix) {
				panic("touchboost: admin prefix collides with attribute prefix: " + adminPrefix)
			}
			fallback = mountPrefix(adminPrefix, s.AdminHandler, nil)
		}
	}

	if spec.Attr.Optional && standaloneAdmin == nil {
		panic("touchboost: ServiceSpec.Attr.Optional requires a standalone admin (Admin.Addr), otherwise nothing stays bound")
	}

	s.AttrServer = newHTTPServer(spec.Attr.Addr, mountPrefix(attrPrefix, attrSubtree, fallback))
	s.servers = append(s.servers, managedServer{name: "attr", optional: spec.Attr.Optional, srv: s.AttrServer})
	if standaloneAdmin != nil {
		s.AdminServer = standaloneAdmin
		s.servers = append(s.servers, managedServer{name: "admin", srv: standaloneAdmin})
	}
	return s
}

// Degraded reports whether an optional server failed to bind at Start.
func (s *Service) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Run starts the service, waits for ctx, a signal or a fatal server error,
// then shuts down and returns the result of Wait.
//
// It returns ErrAlreadyStarted if the service was started before.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.Start(ctx); err != nil {
		return err
	}

	sigCh, stopSignals := s.watchSignals()
	defer stopSignals()

	select {
	case <-s.doneCh:
	case <-ctx.Done():
		s.recordErr(ctx.Err())
		_ = s.Shutdown(context.Background())
	case sig := <-sigCh:
		s.log.Info("touchboost: signal received, shutting down", "signal", sig.String())
		_ = s.Shutdown(context.Background())
	}
	return s.Wait()
}

// Start runs the OnStart hooks and binds every server. It is not idempotent.
func (s *Service) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	var startCtx context.Context
	startCtx, s.startStop = context.WithCancel(ctx)
	s.mu.Unlock()

	for i, h := range s.hooks.OnStart {
		if h == nil {
			continue
		}
		if err := safeCallHook(startCtx, h); err != nil {
			err = fmt.Errorf("touchboost: OnStart[%d]: %w", i, err)
			s.recordErr(err)
			s.initiateShutdown()
			return err
		}
	}

	for _, ms := range s.servers {
		err := s.serve(ms)
		if err == nil {
			continue
		}
		if ms.optional {
			s.log.Error("touchboost: optional server failed to bind, running degraded", "server", ms.name, "err", err)
			s.mu.Lock()
			s.degraded = true
			s.mu.Unlock()
			continue
		}
		s.recordErr(err)
		s.initiateShutdown()
		return err
	}
	s.log.Info("touchboost: service started", "servers", len(s.servers), "degraded", s.Degraded())
	return nil
}

// Wait blocks until the service has fully stopped and returns the first
// fatal error joined with any shutdown errors. It is idempotent.
func (s *Service) Wait() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.mu.Unlock()

	<-s.doneCh

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waitErr
}

// Shutdown triggers shutdown and waits for it or for ctx. It is idempotent
// and returns nil if the service was never started.
func (s *Service) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return nil
	}

	s.initiateShutdown()
	select {
	case <-s.shutdownCh:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.shutdownErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) serve(ms managedServer) error {
	ln, err := net.Listen("tcp", ms.srv.Addr)
	if err != nil {
		return fmt.Errorf("touchboost: server %q listen %q: %w", ms.name, ms.srv.Addr, err)
	}
	s.mu.Lock()
	s.listeners[ms.srv] = ln
	s.mu.Unlock()
	s.log.Info("touchboost: server listening", "server", ms.name, "addr", ln.Addr().String())

	go func() {
		err := ms.srv.Serve(ln)
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return
		}
		s.mu.Lock()
		stopping := s.stopping
		s.mu.Unlock()
		if stopping {
			return
		}
		if s.hooks.OnServeError != nil {
			s.hooks.OnServeError(ms.name, err)
		}
		s.recordErr(fmt.Errorf("touchboost: server %q: %w", ms.name, err))
		s.initiateShutdown()
	}()
	return nil
}

// boundAddr returns the address srv listens on, or "" if it never bound.
func (s *Service) boundAddr(srv *http.Server) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ln, ok := s.listeners[srv]; ok {
		return ln.Addr().String()
	}
	return ""
}

func (s *Service) recordErr(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	if s.firstErr == nil {
		s.firstErr = err
	}
	s.mu.Unlock()
}

func (s *Service) initiateShutdown() {
	s.shutdownOnce.Do(func() { go s.doShutdown() })
}

func (s *Service) doShutdown() {
	s.mu.Lock()
	s.stopping = true
	stop := s.startStop
	listeners := make(map[*http.Server]net.Listener, len(s.listeners))
	for srv, ln := range s.listeners {
		listeners[srv] = ln
	}
	s.mu.Unlock()
	if stop != nil {
		stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	var errs []error
	stopServer := func(ms managedServer) {
		ln, ok := listeners[ms.srv]
		if !ok {
			return
		}
		if err := ms.srv.Shutdown(ctx); err != nil {
			_ = ms.srv.Close()
			errs = append(errs, fmt.Errorf("server %q shutdown: %w", ms.name, err))
		}
		_ = ln.Close()
	}

	// The attribute surface goes first so no write lands during teardown;
	// a standalone admin stays reachable until the end.
	for _, ms := range s.servers {
		if ms.srv != s.AdminServer {
			stopServer(ms)
		}
	}
	for i, h := range s.hooks.OnShutdown {
		if h == nil {
			continue
		}
		if err := safeCallHook(ctx, h); err != nil {
			errs = append(errs, fmt.Errorf("OnShutdown[%d]: %w", i, err))
		}
	}
	for _, ms := range s.servers {
		if ms.srv == s.AdminServer {
			stopServer(ms)
		}
	}

	shutdownErr := errors.Join(errs...)
	s.mu.Lock()
	s.shutdownErr = shutdownErr
	s.waitErr = errors.Join(s.firstErr, shutdownErr)
	s.mu.Unlock()
	s.log.Info("touchboost: service stopped")

	close(s.shutdownCh)
	close(s.doneCh)
}

func (s *Service) watchSignals() (<-chan os.Signal, func()) {
	if s.signals.Disable {
		return nil, func() {}
	}
	sigs := s.signals.Signals
	if len(sigs) == 0 {
		sigs = defaultSignals()
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	return ch, func() { signal.Stop(ch) }
}

func safeCallHook(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx)
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}
}
