package serverrun

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	cfgpkg "github.com/vanzaam/LibreOOPWeb/internal/config"
	"github.com/vanzaam/LibreOOPWeb/internal/gate"
	"github.com/vanzaam/LibreOOPWeb/internal/heartbeat"
	"github.com/vanzaam/LibreOOPWeb/internal/queue"
	"github.com/vanzaam/LibreOOPWeb/internal/reading"
	"github.com/vanzaam/LibreOOPWeb/internal/runtime"
	httpserver "github.com/vanzaam/LibreOOPWeb/internal/server/http"
	readingsvc "github.com/vanzaam/LibreOOPWeb/internal/services/readings"
	pebblestore "github.com/vanzaam/LibreOOPWeb/internal/storage/pebble"
	logpkg "github.com/vanzaam/LibreOOPWeb/pkg/log"
)

type Options struct {
	DataDir       string
	HTTPAddr      string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	// Layer a local signal context over the provided one so callers that
	// don't pass a signal-aware context still get clean shutdown.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := opts.Config.Validate(); err != nil {
		return err
	}
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	storeDir := filepath.Join(opts.DataDir, "store")

	procLogger, err := logpkg.ApplyConfig(&logpkg.Config{
		Level:  opts.Config.Log.Level,
		Format: opts.Config.Log.Format,
	})
	if err != nil {
		procLogger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}

	// Redirect stdlib logs (e.g., Pebble) to our logger
	logpkg.RedirectStdLog(procLogger)

	rt, err := runtime.Open(runtime.Options{
		DataDir:       storeDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		Config:        opts.Config,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	procLogger.Info("Starting LibreOOPWeb server",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Str("gate_mode", opts.Config.Gate.Mode),
		logpkg.Str("level", opts.Config.Log.Level),
		logpkg.Str("format", opts.Config.Log.Format),
	)

	authority := buildAuthority(opts.Config.Gate)
	g := gate.New(authority)

	store := rt.Store()
	mgr := reading.NewManager(store)
	hb := heartbeat.NewTracker(store)
	q := queue.New(mgr, hb, procLogger, opts.Config.MaxFetchPerAttempt)
	svc := readingsvc.New(mgr, q, hb, g, procLogger)

	hsrv := httpserver.New(rt, svc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, opts.HTTPAddr); err != nil && sctx.Err() == nil {
			procLogger.Error("http server error", logpkg.Err(err))
		}
	}()

	<-sctx.Done()
	// Shut the server down before closing the runtime/DB to avoid races.
	hsrv.Close()
	wg.Wait()
	return nil
}

func buildAuthority(cfg cfgpkg.GateConfig) gate.Authority {
	if cfg.Mode == "remote" {
		return gate.NewRemoteAuthority(cfg.AuthorityURL, nil)
	}
	return gate.NewStaticAuthority(cfg.UploadTokens, cfg.ProcessTokens)
}
