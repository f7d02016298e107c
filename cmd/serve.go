package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tubelens/tubelens/pkg/api"
	"github.com/tubelens/tubelens/pkg/config"
	"github.com/tubelens/tubelens/pkg/log"
	"github.com/tubelens/tubelens/pkg/storage"
	"github.com/tubelens/tubelens/pkg/youtube"
	"github.com/urfave/cli/v3"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the search API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (overrides config)",
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}
			return serve(ctx, c.String("config"), c.String("host"), c.String("port"))
		},
	}
}

// reloadableFinder swaps the search pipeline when the configuration changes,
// so in-flight requests keep the finder they started with.
type reloadableFinder struct {
	mu     sync.RWMutex
	finder *youtube.Finder
}

func (r *reloadableFinder) Search(ctx context.Context, keyword string, maxResults int, pageToken string, filters youtube.Filters) (*youtube.Result, error) {
	r.mu.RLock()
	finder := r.finder
	r.mu.RUnlock()
	return finder.Search(ctx, keyword, maxResults, pageToken, filters)
}

func (r *reloadableFinder) swap(finder *youtube.Finder) {
	r.mu.Lock()
	r.finder = finder
	r.mu.Unlock()
}

func buildFinder(cfg *config.Config, store *storage.TranscriptStore) *youtube.Finder {
	ytClient := youtube.NewClient(youtube.Config{
		APIKey:       cfg.YouTubeAPIKey,
		GoogleAPIKey: cfg.GoogleAPIKey,
		CSEID:        cfg.GoogleCSEID,
		Timeout:      cfg.RequestTimeout.Duration,
	})
	return youtube.NewFinder(ytClient, store)
}

// serve runs the API server until interrupted. SIGHUP and config file changes
// reload the upstream credentials without dropping the listener.
func serve(ctx context.Context, configPath, host, port string) error {
	logger := log.For("serve")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if port != "" {
		cfg.Server.Port = port
	}

	if cfg.YouTubeAPIKey == "" {
		return fmt.Errorf("youtube_api_key is not set; run 'tubelens init' and edit %s", configPath)
	}

	store, err := storage.NewTranscriptStore(cfg.TranscriptCachePath(), cfg.Transcripts.CacheTTL.Duration)
	if err != nil {
		return fmt.Errorf("opening transcript cache: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close transcript cache: %v\n", err)
		}
	}()

	finder := &reloadableFinder{finder: buildFinder(cfg, store)}
	apiServer := api.NewServer(finder, cfg.MaxResults)

	mux := http.NewServeMux()
	apiServer.RegisterRoutes(mux)

	server := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: api.CorsMiddleware(mux),
	}

	go func() {
		logger.Infof("Starting API server on http://%s", server.Addr)
		logger.Infof("  GET /api/search - Search videos mentioning a keyword")
		logger.Infof("  GET /api/health - Health check")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Server failed: %v", err)
			os.Exit(1)
		}
	}()

	// Signal handling - includes SIGHUP for reload
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Set up filesystem watcher for config file
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
			logger.Infof("Watching config file for changes: %s", configPath)
		}
	}

	reload := func() {
		newCfg, err := config.LoadConfig(configPath)
		if err != nil {
			logger.Errorf("Failed to reload configuration: %v", err)
			return
		}
		finder.swap(buildFinder(newCfg, store))
		logger.Infof("Configuration reloaded")
	}

	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				logger.Infof("Received SIGHUP, reloading configuration...")
				reload()
			case syscall.SIGINT, syscall.SIGTERM:
				fmt.Println("\nShutting down...")
				shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		case event, ok := <-watcher.Events:
			if !ok {
				continue
			}
			// React to write, create, rename, and remove events (editors often use atomic writes)
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				logger.Infof("Config file changed: %s (event: %s), reloading...", event.Name, event.Op.String())

				// For rename/remove events the file was replaced; re-add it to
				// the watcher after the new file settles.
				if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					time.Sleep(200 * time.Millisecond)
					if _, err := os.Stat(configPath); os.IsNotExist(err) {
						logger.Infof("Config file was removed and not replaced, skipping reload")
						continue
					}
					if err := watcher.Add(configPath); err != nil {
						logger.Warnf("failed to re-add config file to watcher: %v", err)
					}
				} else {
					time.Sleep(100 * time.Millisecond)
				}

				reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				continue
			}
			logger.Errorf("Config file watcher error: %v", err)
		}
	}
}
