// Package main implements the flapwatch web server: a JSON API that turns
// uploaded or fetched cat-flap datasets into behavior reports.
package main

import (
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/flapwatch/flapwatch/pkg/flapcache"
	"github.com/flapwatch/flapwatch/pkg/flapwatch"
	"github.com/flapwatch/flapwatch/pkg/session"
)

var (
	port         = flag.String("port", "8080", "Port for web server")
	geminiAPIKey = flag.String("gemini-key", "", "Gemini API key for narratives (or set GEMINI_API_KEY)")
	geminiModel  = flag.String("gemini-model", "", "Gemini model to use (or set GEMINI_MODEL)")
	gcpProject   = flag.String("gcp-project", "", "GCP project ID (or set GCP_PROJECT)")
	reportURL    = flag.String("report-url", "", "Upstream vendor report page for narrative context")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	version      = flag.Bool("version", false, "Show version")
)

const maxBodyBytes = 16 << 20 // dataset uploads top out well below this

type rateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{requests: make(map[string][]time.Time)}
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-time.Minute)

	var valid []time.Time
	for _, t := range rl.requests[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	// 15 requests per minute per IP
	if len(valid) >= 15 {
		rl.requests[ip] = valid
		return false
	}

	rl.requests[ip] = append(valid, now)
	return true
}

type server struct {
	analyzer *flapwatch.Analyzer
	cache    *flapcache.Cache
	limiter  *rateLimiter
	logger   *slog.Logger
}

func main() {
	flag.Parse()

	if *version {
		fmt.Println("flapwatch Server v1.2.0")
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *geminiAPIKey == "" {
		*geminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if *geminiModel == "" {
		*geminiModel = os.Getenv("GEMINI_MODEL")
	}
	if *gcpProject == "" {
		*gcpProject = os.Getenv("GCP_PROJECT")
	}

	analyzer := flapwatch.NewWithLogger(logger,
		flapwatch.WithGeminiAPIKey(*geminiAPIKey),
		flapwatch.WithGeminiModel(*geminiModel),
		flapwatch.WithGCPProject(*gcpProject),
		flapwatch.WithReportURL(*reportURL),
		flapwatch.WithMemoryCache(),
	)

	srv := &server{
		analyzer: analyzer,
		cache:    flapcache.NewMemory(10*time.Minute, logger),
		limiter:  newRateLimiter(),
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", srv.handleHealth)
	mux.HandleFunc("POST /api/v1/analyze", srv.handleAnalyze)
	mux.HandleFunc("GET /api/v1/analyze", srv.handleAnalyzeURL)

	httpServer := &http.Server{
		Addr:              ":" + *port,
		Handler:           srv.wrap(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", *port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	if err := analyzer.Close(); err != nil {
		logger.Error("closing analyzer", "error", err)
	}
}

// wrap applies rate limiting and access logging around every handler.
func (s *server) wrap(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !s.limiter.allow(ip) {
			s.logger.Warn("rate limit exceeded", "ip", ip)
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		start := time.Now()
		handler.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "ip", ip, "duration", time.Since(start))
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, ok := strings.Cut(forwarded, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (*server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleAnalyze accepts a dataset document in the request body, optionally
// gzip-compressed.
func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	reader := io.Reader(r.Body)
	if r.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			http.Error(w, "invalid gzip body", http.StatusBadRequest)
			return
		}
		defer func() {
			if err := gz.Close(); err != nil {
				s.logger.Debug("closing gzip reader", "error", err)
			}
		}()
		reader = gz
	}

	body, err := io.ReadAll(io.LimitReader(reader, maxBodyBytes))
	if err != nil {
		http.Error(w, "reading request body", http.StatusBadRequest)
		return
	}

	key := "report:" + hashBytes(body)
	if cached, found := s.cache.Get(key); found {
		s.logger.Debug("report cache hit")
		writeJSONBytes(w, cached)
		return
	}

	records, err := session.DecodeDataset(body)
	if err != nil {
		s.logger.Debug("bad dataset upload", "error", err)
		http.Error(w, fmt.Sprintf("invalid dataset: %v", err), http.StatusBadRequest)
		return
	}

	report := s.analyzer.Analyze(r.Context(), records)
	s.respond(w, key, report)
}

// handleAnalyzeURL fetches the dataset named by the dataset query param.
func (s *server) handleAnalyzeURL(w http.ResponseWriter, r *http.Request) {
	datasetURL := r.URL.Query().Get("dataset")
	if datasetURL == "" {
		http.Error(w, "missing dataset parameter", http.StatusBadRequest)
		return
	}
	if !strings.HasPrefix(datasetURL, "https://") && !strings.HasPrefix(datasetURL, "http://") {
		http.Error(w, "dataset must be an http(s) URL", http.StatusBadRequest)
		return
	}

	key := "report:" + hashBytes([]byte(datasetURL))
	if cached, found := s.cache.Get(key); found {
		s.logger.Debug("report cache hit", "dataset", datasetURL)
		writeJSONBytes(w, cached)
		return
	}

	report, err := s.analyzer.AnalyzeSource(r.Context(), datasetURL)
	if err != nil {
		s.logger.Warn("dataset fetch failed", "dataset", datasetURL, "error", err)
		http.Error(w, "could not fetch dataset", http.StatusBadGateway)
		return
	}
	s.respond(w, key, report)
}

func (s *server) respond(w http.ResponseWriter, cacheKey string, report *flapwatch.Report) {
	data, err := json.Marshal(report)
	if err != nil {
		s.logger.Error("encoding report", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.cache.Set(cacheKey, data)
	writeJSONBytes(w, data)
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func writeJSONBytes(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
