package cmd

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/tubelens/tubelens/pkg/api"
	"github.com/tubelens/tubelens/pkg/config"
	"github.com/tubelens/tubelens/pkg/log"
	"github.com/tubelens/tubelens/pkg/match"
	"github.com/tubelens/tubelens/pkg/storage"
	"github.com/tubelens/tubelens/pkg/version"
	"github.com/tubelens/tubelens/pkg/youtube"
	"github.com/urfave/cli/v3"
)

//go:embed web/static/*
var staticFS embed.FS

//go:embed web/templates/*
var templateFS embed.FS

// WebCommand creates the web command with both API and UI
func WebCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start web server with both API endpoints and HTML interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides config)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (overrides config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}
			return startWebServer(ctx, c.String("config"), c.String("host"), c.String("port"))
		},
	}
}

// WebServer holds the server configuration and dependencies
type WebServer struct {
	finder   *youtube.Finder
	config   *config.Config
	template *template.Template
	logger   *log.Logger
}

// searchPage is the data rendered by the search template.
type searchPage struct {
	Title        string
	Keyword      string
	Filters      youtube.Filters
	FiltersSet   bool
	Searched     bool
	Videos       []youtube.Video
	TotalResults int
	NextPageURL  string
	Error        string
	Version      string
}

// templateFuncs are the text helpers the template uses to decorate results.
var templateFuncs = template.FuncMap{
	"highlight": highlightHTML,
	"label":     match.Label,
	"views":     match.FormatViewCount,
	"date":      match.FormatDate,
	"truncate":  match.Truncate,
}

// highlightHTML renders text with keyword occurrences wrapped in <mark>.
// Every segment is escaped individually, so the only markup in the output is
// ours.
func highlightHTML(text, keyword string) template.HTML {
	var out strings.Builder
	for _, segment := range match.Highlight(text, keyword) {
		if segment.Highlighted {
			out.WriteString("<mark>")
			out.WriteString(template.HTMLEscapeString(segment.Text))
			out.WriteString("</mark>")
		} else {
			out.WriteString(template.HTMLEscapeString(segment.Text))
		}
	}
	return template.HTML(out.String())
}

// startWebServer starts the web server with both API and UI
func startWebServer(ctx context.Context, configPath, host, port string) error {
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

	tmpl, err := template.New("search.html").Funcs(templateFuncs).ParseFS(templateFS, "web/templates/*.html")
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	webServer := &WebServer{
		finder:   buildFinder(cfg, store),
		config:   cfg,
		template: tmpl,
		logger:   log.For("web"),
	}

	apiServer := api.NewServer(webServer.finder, cfg.MaxResults)

	mux := http.NewServeMux()

	// API routes
	apiServer.RegisterRoutes(mux)

	// Web UI routes
	mux.HandleFunc("/", webServer.handleSearch)

	// Static assets
	mux.HandleFunc("/static/", webServer.handleStatic)

	handler := api.CorsMiddleware(mux)

	server := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: handler,
	}

	go func() {
		webServer.logger.Infof("Starting web server on http://%s", server.Addr)
		webServer.logger.Infof("  Web UI:")
		webServer.logger.Infof("    GET / - Search page")
		webServer.logger.Infof("  API:")
		webServer.logger.Infof("    GET /api/search - Search videos mentioning a keyword")
		webServer.logger.Infof("    GET /api/health - Health check")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			webServer.logger.Errorf("Server failed: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	webServer.logger.Infof("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// handleSearch renders the search page. Without a query it shows the empty
// form; with one it runs the search pipeline directly.
func (s *WebServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	query := r.URL.Query()
	keyword := strings.TrimSpace(query.Get("q"))
	filters := youtube.Filters{
		MinDate:     query.Get("min_date"),
		MaxDate:     query.Get("max_date"),
		ChannelName: query.Get("channel_name"),
	}
	if raw := query.Get("min_views"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			filters.MinViews = parsed
		}
	}

	data := searchPage{
		Title:      "tubelens - Brand Mention Search",
		Keyword:    keyword,
		Filters:    filters,
		FiltersSet: filters != (youtube.Filters{}),
		Version:    version.APIVersion(),
	}

	if keyword != "" {
		data.Searched = true
		data.Title = fmt.Sprintf("%s - tubelens", keyword)

		result, err := s.finder.Search(r.Context(), keyword, s.config.MaxResults, query.Get("page_token"), filters)
		if err != nil {
			s.logger.Errorf("search for %q: %v", keyword, err)
			data.Error = "Search failed. Please try again in a moment."
		} else {
			data.Videos = result.Videos
			data.TotalResults = result.TotalResults
			data.NextPageURL = nextPageURL(query, result.NextPageToken)
		}
	}

	if err := s.template.ExecuteTemplate(w, "search.html", data); err != nil {
		http.Error(w, fmt.Sprintf("Template error: %v", err), http.StatusInternalServerError)
	}
}

// nextPageURL rebuilds the current query with the next page's cursor, so the
// "Load more" link keeps the keyword and filters.
func nextPageURL(query url.Values, token string) string {
	if token == "" {
		return ""
	}
	next := url.Values{}
	for key, values := range query {
		next[key] = values
	}
	next.Set("page_token", token)
	return "/?" + next.Encode()
}

// handleStatic serves static assets from embedded files
func (s *WebServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// Remove /static/ prefix and add web/static/ prefix for embedded filesystem
	filePath := "web/static/" + strings.TrimPrefix(path, "/static/")

	content, err := staticFS.ReadFile(filePath)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if strings.HasSuffix(path, ".css") {
		w.Header().Set("Content-Type", "text/css")
	} else if strings.HasSuffix(path, ".js") {
		w.Header().Set("Content-Type", "application/javascript")
	} else if strings.HasSuffix(path, ".ico") {
		w.Header().Set("Content-Type", "image/x-icon")
	} else if strings.HasSuffix(path, ".png") {
		w.Header().Set("Content-Type", "image/png")
	}

	// Set cache headers for static assets
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := w.Write(content); err != nil {
		s.logger.Errorf("writing static content: %v", err)
	}
}
