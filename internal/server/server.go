// Package server publishes the congratulations calendar over HTTP.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
)

const (
	RouteFeed    = "/congratulations.ics"
	RouteHealthz = "/healthz"
)

// feed is one rendered calendar plus its cache validators.
type feed struct {
	data         []byte
	etag         string
	lastModified string // RFC1123, as required by HTTP headers
	modTime      time.Time
	today        int
}

// FeedServer serves the latest rendered calendar. Reads are lock-free:
// Update swaps the whole feed through an atomic pointer.
type FeedServer struct {
	Port string

	current atomic.Pointer[feed]
	addr    atomic.Value // string, set once listening
}

// NewFeedServer creates a server bound to 127.0.0.1:port once started.
func NewFeedServer(port string) *FeedServer {
	return &FeedServer{Port: port}
}

// Handler returns the routes: the feed on "/" and RouteFeed, and a JSON
// health probe on RouteHealthz.
func (s *FeedServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.handleFeed)
	mux.HandleFunc(RouteFeed, s.handleFeed)
	mux.HandleFunc(RouteHealthz, s.handleHealthz)
	return mux
}

// Addr reports the bound address, or "" before Start has bound.
func (s *FeedServer) Addr() string {
	a, _ := s.addr.Load().(string)
	return a
}

// Start listens and blocks until ctx is cancelled or serving fails.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(config.LocalhostBindAddr, s.Port))
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
	s.addr.Store(ln.Addr().String())

	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serveErr := make(chan error, config.ChannelBufferSize)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, ln.Addr().String(),
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil
	case err := <-serveErr:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update publishes a new calendar. Identical content keeps the previous
// validators so clients are not told the feed changed.
func (s *FeedServer) Update(data []byte, today int) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	if prev := s.current.Load(); prev != nil && prev.etag == etag {
		if prev.today != today {
			next := *prev
			next.today = today
			s.current.Store(&next)
		}
		return
	}

	now := time.Now().UTC().Truncate(time.Second)
	s.current.Store(&feed{
		data:         data,
		etag:         etag,
		lastModified: now.Format(http.TimeFormat),
		modTime:      now,
		today:        today,
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

func (s *FeedServer) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != config.RouteRoot && r.URL.Path != RouteFeed {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	f := s.current.Load()
	if f == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	h := w.Header()
	h.Set(config.HeaderContentType, config.MimeTextCalendar)
	h.Set(config.HeaderXContentType, config.MimeNoSniff)
	h.Set(config.HeaderCacheControl, config.CacheControlPrivate)
	h.Set(config.HeaderETag, f.etag)
	h.Set(config.HeaderLastModified, f.lastModified)

	if notModified(r, f) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(f.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// notModified applies If-None-Match, then If-Modified-Since.
func notModified(r *http.Request, f *feed) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == f.etag
	}
	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	clientTime, err := http.ParseTime(since)
	if err != nil {
		return false
	}
	return !f.modTime.After(clientTime)
}

type health struct {
	Status string `json:"status"`
	Ready  bool   `json:"ready"`
	Today  int    `json:"congratulations_today"`
}

func (s *FeedServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	body := health{Status: "ok"}
	if f := s.current.Load(); f != nil {
		body.Ready = true
		body.Today = f.today
	}
	w.Header().Set(config.HeaderContentType, "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}
