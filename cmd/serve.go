package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/api"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/config"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/identity"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/log"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/storage"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the tenant website API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address to listen on (overrides server.listen)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if l := c.String("listen"); l != "" {
				cfg.Server.Listen = l
			}
			return serve(ctx, c.String("config"), c.Bool("debug"), cfg)
		},
	}
}

func serve(ctx context.Context, configPath string, debugFlag bool, cfg *config.Config) error {
	logger := log.ForService("serve")

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	var verifier identity.Verifier
	if cfg.Server.JWTSecret != "" {
		issuer, err := identity.NewIssuer(cfg.Server.JWTSecret, 0)
		if err != nil {
			return err
		}
		verifier = issuer
	} else {
		logger.Warnf("server.jwt_secret is empty, save tokens are not verified")
	}

	srv := api.NewServer(st, verifier, api.WithAllowedOrigins(cfg.Server.AllowedOrigins))
	httpServer := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go runMaintenance(serveCtx, st, cfg.Server.OptimizeInterval.Duration)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", cfg.Server.Listen)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warnf("failed to create config file watcher: %v", err)
	} else {
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Warnf("failed to close config file watcher: %v", err)
			}
		}()
		if err := watcher.Add(configPath); err != nil {
			logger.Warnf("failed to watch config file %s: %v", configPath, err)
		} else {
			logger.Infof("watching config file for changes: %s", configPath)
		}
	}

	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	if watcher != nil {
		events = watcher.Events
		watchErrs = watcher.Errors
	}

	for {
		select {
		case err, ok := <-errCh:
			if ok && err != nil {
				return fmt.Errorf("serving: %w", err)
			}
			return nil
		case <-ctx.Done():
			return shutdown(httpServer)
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				logger.Infof("received SIGHUP, reloading log settings")
				reloadLogConfig(configPath, debugFlag)
				continue
			}
			fmt.Println("\nShutting down...")
			return shutdown(httpServer)
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			logger.Infof("config file changed: %s (%s)", event.Name, event.Op)
			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				// Editors replace the file on save; wait for the new one.
				time.Sleep(200 * time.Millisecond)
				if _, err := os.Stat(configPath); os.IsNotExist(err) {
					logger.Warnf("config file was removed, keeping current settings")
					continue
				}
				if err := watcher.Add(configPath); err != nil {
					logger.Warnf("failed to re-watch config file: %v", err)
				}
			} else {
				time.Sleep(100 * time.Millisecond)
			}
			reloadLogConfig(configPath, debugFlag)
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			logger.Warnf("config file watcher error: %v", err)
		}
	}
}

// reloadLogConfig re-reads the log section. Listener, secret and storage
// changes need a restart.
func reloadLogConfig(configPath string, debugFlag bool) {
	logger := log.ForService("serve")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Errorf("failed to reload configuration: %v", err)
		return
	}
	applyLogConfig(cfg.Log, debugFlag)
	logger.Infof("log settings reloaded (debug=%v, services=%v)", cfg.Log.Debug || debugFlag, cfg.Log.DebugServices)
}

func shutdown(s *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// runMaintenance optimizes the store every interval until ctx ends.
func runMaintenance(ctx context.Context, st *storage.Store, interval time.Duration) {
	if interval <= 0 {
		return
	}
	logger := log.ForService("serve")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			if err := st.Optimize(ctx); err != nil {
				logger.Warnf("store maintenance failed: %v", err)
				continue
			}
			logger.Debugf("store maintenance done in %s", time.Since(start).Round(time.Millisecond))
		}
	}
}
