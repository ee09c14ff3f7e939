// Package web provides a localhost HTTP server exposing the balance
// forecast as a JSON API. It serves projection time series over a query
// window, reloads the plan file when it changes on disk, and notifies
// connected clients over server-sent events.
//
// SECURITY WARNING: this server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted
// networks.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/andrew-rosca/cashflow/plan"
	"github.com/andrew-rosca/cashflow/telemetry"
)

// DefaultWindowDays is the projection span used when a request does not
// specify its own window.
const DefaultWindowDays = 90

type Server struct {
	Port         int
	Host         string
	Version      string
	WatchEnabled bool

	mu       sync.RWMutex
	plan     *plan.Plan
	planFile string

	// SSE clients for broadcasting reload events.
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

// New creates a server for the given plan file bound to localhost.
func New(port int, planFile string) *Server {
	return &Server{
		Port:     port,
		Host:     "127.0.0.1",
		planFile: planFile,
	}
}

// Start loads the plan, optionally starts the file watcher, and serves
// until the listener fails.
func (s *Server) Start(ctx context.Context) error {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("web.start %s:%d", s.Host, s.Port))
	defer timer.End()

	if s.planFile == "" {
		return fmt.Errorf("plan file is required")
	}

	s.sseClients = make(map[chan string]struct{})

	loadTimer := timer.Child(fmt.Sprintf("web.load_plan %s", filepath.Base(s.planFile)))
	err := s.reloadPlan()
	loadTimer.End()
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}

	if s.WatchEnabled {
		if err := s.startWatcher(ctx); err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	return http.ListenAndServe(addr, s.router())
}

func (s *Server) router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/plan", s.handleGetPlan)
	mux.HandleFunc("GET /api/projection", s.handleGetProjection)
	mux.HandleFunc("GET /api/events", s.handleSSE)
	return mux
}

// reloadPlan re-reads the plan file and swaps the snapshot under lock.
// A plan that fails validation leaves the previous snapshot serving.
func (s *Server) reloadPlan() error {
	p, err := plan.Load(s.planFile)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.plan = p
	s.mu.Unlock()
	return nil
}

// startWatcher watches the plan file's directory so atomic save-by-rename
// from editors is still observed.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(s.planFile)); err != nil {
		watcher.Close()
		return err
	}

	go s.runWatcher(ctx, watcher)
	return nil
}

func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.planFile) {
				continue
			}
			if err := s.reloadPlan(); err != nil {
				log.Printf("plan reload failed: %v", err)
				continue
			}
			s.broadcast("reload")

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// broadcast sends a message to every connected SSE client, dropping
// clients that are too slow to keep up.
func (s *Server) broadcast(message string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for ch := range s.sseClients {
		select {
		case ch <- message:
		default:
		}
	}
}

// handleSSE streams reload notifications to the client until it
// disconnects.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 4)
	s.sseMu.Lock()
	s.sseClients[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, ch)
		s.sseMu.Unlock()
	}()

	_, _ = fmt.Fprintf(w, "event: connected\ndata: %s\n\n", s.Version)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case message := <-ch:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", message)
			flusher.Flush()
		}
	}
}
