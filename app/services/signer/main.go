package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"go.uber.org/zap"

	"github.com/adamwoolhether/htdfsign/app/services/signer/handlers"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/node"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/wallet"
	"github.com/adamwoolhether/htdfsign/foundation/events"
	"github.com/adamwoolhether/htdfsign/foundation/logger"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("SIGNER")
	if err != nil {
		fmt.Fprint(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// /////////////////////////////////////////////////////////////////////////////////////////////////////////////////
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
		}
		Signer struct {
			KeyPath     string `conf:"default:zblock/accounts/signer.ecdsa"`
			GenerateKey bool   `conf:"default:false"`
		}
		Node struct {
			URL     string
			Timeout time.Duration `conf:"default:10s"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "htdf transfer signer",
		},
	}

	const prefix = "SIGNER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// /////////////////////////////////////////////////////////////////////////////////////////////////////////////////
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// /////////////////////////////////////////////////////////////////////////////////////////////////////////////////
	// Wallet Support

	w, err := loadWallet(cfg.Signer.KeyPath, cfg.Signer.GenerateKey)
	if err != nil {
		return err
	}
	log.Infow("startup", "status", "wallet loaded", "address", w.Address(), "pubkey", w.PublicKeyHex())

	var nc *node.Client
	if cfg.Node.URL != "" {
		nc = node.New(cfg.Node.URL, cfg.Node.Timeout)
		log.Infow("startup", "status", "node client", "url", cfg.Node.URL)
	}

	// The events system for the websocket subscribers.
	evts := events.New()

	// /////////////////////////////////////////////////////////////////////////////////////////////////////////////////
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// /////////////////////////////////////////////////////////////////////////////////////////////////////////////////
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	// Construct the mux for the public API calls.
	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		Wallet:   w,
		Node:     nc,
		Evts:     evts,
	})

	// Construct a server to service the requests against the mux.
	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// /////////////////////////////////////////////////////////////////////////////////////////////////////////////////
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancelPub := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPub()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}

// loadWallet reads the signing key, creating it first when asked to and no
// key exists yet.
func loadWallet(path string, generate bool) (*wallet.Wallet, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return wallet.Load(path)

	case errors.Is(err, os.ErrNotExist) && generate:
		w, err := wallet.Generate()
		if err != nil {
			return nil, fmt.Errorf("generating key: %w", err)
		}
		if err := w.Save(path); err != nil {
			return nil, fmt.Errorf("saving key: %w", err)
		}
		return w, nil
	}

	return nil, fmt.Errorf("unable to load private key for signer: %w", err)
}
