// Package server provides the HTTP server for the kakapo daemon.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grovetools/kakapo/errors"
	"github.com/grovetools/kakapo/pkg/actions"
	"github.com/grovetools/kakapo/pkg/daemon"
	"github.com/grovetools/kakapo/pkg/view"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server manages the daemon's HTTP server over a Unix socket, and optionally
// a TCP address.
type Server struct {
	logger        *logrus.Entry
	dispatcher    *actions.Dispatcher
	runningConfig *daemon.RunningConfig
	metrics       *metrics
	upgrader      websocket.Upgrader

	mu      sync.Mutex
	servers []*http.Server

	// Config reload events are not store updates, so they get their own fan-out.
	subMu sync.Mutex
	subs  map[chan daemon.Event]struct{}
}

// New creates a new Server serving d.
func New(logger *logrus.Entry, d *actions.Dispatcher) *Server {
	s := &Server{
		logger:     logger,
		dispatcher: d,
		metrics:    newMetrics(d),
		subs:       make(map[chan daemon.Event]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API is local; the socket is 0600 and TCP is opt-in.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	d.Observe(s.metrics.observe)
	return s
}

// SetRunningConfig sets the running configuration for the server.
func (s *Server) SetRunningConfig(cfg *daemon.RunningConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runningConfig = cfg
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/sounds", s.handleGetSounds)
	mux.HandleFunc("GET /api/sounds/{id}", s.handleGetSound)
	mux.HandleFunc("POST /api/actions", s.handleAction)
	mux.HandleFunc("GET /api/views/downloads", s.handleView(func(a *Server) *view.Node {
		return view.DownloadList(a.dispatcher.Store().Snapshot())
	}))
	mux.HandleFunc("GET /api/views/mixer", s.handleView(func(a *Server) *view.Node {
		return view.Mixer(a.dispatcher.Store().Snapshot())
	}))
	mux.HandleFunc("GET /api/stream", s.handleStream)
	mux.HandleFunc("GET /api/ws", s.handleWebSocket)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.Handle("GET /metrics", s.metrics.handler())

	return h2c.NewHandler(mux, &http2.Server{})
}

// ListenAndServe starts the daemon on the given unix socket path.
// It blocks until the server stops or fails.
func (s *Server) ListenAndServe(socketPath string) error {
	// Cleanup stale socket
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}

	// Set restrictive permissions on socket
	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.WithField("socket", socketPath).Info("Daemon listening")
	return s.serve(listener)
}

// ListenTCP serves the same API on addr. It blocks like ListenAndServe.
func (s *Server) ListenTCP(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.logger.WithField("addr", listener.Addr().String()).Info("Daemon listening")
	return s.serve(listener)
}

func (s *Server) serve(l net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	s.mu.Lock()
	s.servers = append(s.servers, srv)
	s.mu.Unlock()

	if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops every listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	s.mu.Lock()
	servers := s.servers
	s.servers = nil
	s.mu.Unlock()

	var firstErr error
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NotifyConfigReload tells stream subscribers that file changed.
func (s *Server) NotifyConfigReload(file string) {
	s.mu.Lock()
	if s.runningConfig != nil {
		s.runningConfig.ConfigReloaded = time.Now()
	}
	s.mu.Unlock()

	ev := daemon.Event{Type: daemon.EventConfigReload, ConfigFile: file, Count: s.dispatcher.Store().Len()}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Server) handleGetSounds(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.dispatcher.Store().Snapshot())
}

func (s *Server) handleGetSound(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snd, ok := s.dispatcher.Store().Get(id)
	if !ok {
		s.writeError(w, errors.SoundNotFound(id))
		return
	}
	s.writeJSON(w, http.StatusOK, snd)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actions.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(err, errors.ErrCodeInvalidInput, "malformed action request"))
		return
	}
	action, err := s.dispatch(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, action)
}

func (s *Server) dispatch(ctx context.Context, req actions.Request) (actions.Action, error) {
	cmd, err := req.Command()
	if err != nil {
		return actions.Action{}, err
	}
	return s.dispatcher.Dispatch(ctx, cmd)
}

func (s *Server) handleView(build func(*Server) *view.Node) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		markup, err := build(s).HTML()
		if err != nil {
			s.writeError(w, errors.Wrap(err, errors.ErrCodeInternal, "failed to render view"))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write([]byte(markup)); err != nil {
			s.logger.WithError(err).Warn("Failed to write view")
		}
	}
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.runningConfig == nil {
		s.mu.Unlock()
		http.Error(w, "config not available", http.StatusServiceUnavailable)
		return
	}
	cfg := *s.runningConfig
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, cfg)
}

// events merges store updates and config reloads for one subscriber,
// starting with the whole collection. It returns when ctx is done.
func (s *Server) events(ctx context.Context, emit func(daemon.Event) error) {
	store := s.dispatcher.Store()
	updates := store.Subscribe()
	defer store.Unsubscribe(updates)

	reloads := make(chan daemon.Event, 4)
	s.subMu.Lock()
	s.subs[reloads] = struct{}{}
	s.subMu.Unlock()
	defer func() {
		s.subMu.Lock()
		delete(s.subs, reloads)
		s.subMu.Unlock()
	}()

	snap := store.Snapshot()
	if err := emit(daemon.Event{Type: daemon.EventInitial, Count: snap.Len(), Sounds: snap.Sounds}); err != nil {
		return
	}

	for {
		var ev daemon.Event
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			ev = daemon.EventFromUpdate(u, store.Snapshot)
		case ev = <-reloads:
		}
		if err := emit(ev); err != nil {
			s.logger.WithError(err).Debug("Dropping stream client")
			return
		}
	}
}

// handleStream provides Server-Sent Events (SSE) for collection updates.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Send initial ping to confirm connection
	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()
	s.logger.Debug("SSE client connected")

	s.events(r.Context(), func(ev daemon.Event) error {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		// SSE format: "data: {json}\n\n"
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	s.logger.Debug("SSE client disconnected")
}

// wsReply answers one command received over the websocket.
type wsReply struct {
	Reply  bool                `json:"reply"`
	Action *actions.Action     `json:"action,omitempty"`
	Error  *errors.KakapoError `json:"error,omitempty"`
}

// handleWebSocket pushes the same events as /api/stream and accepts
// actions.Request messages, answering each with a wsReply.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var writeMu sync.Mutex
	write := func(v interface{}) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(v)
	}

	go func() {
		defer cancel()
		for {
			var req actions.Request
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			action, err := s.dispatch(ctx, req)
			reply := wsReply{Reply: true}
			if err != nil {
				reply.Error = asKakapoError(err)
			} else {
				reply.Action = &action
			}
			if err := write(reply); err != nil {
				return
			}
		}
	}()

	s.events(ctx, func(ev daemon.Event) error { return write(ev) })
}

func asKakapoError(err error) *errors.KakapoError {
	if kerr, ok := errors.AsKakapo(err); ok {
		return kerr
	}
	return errors.Wrap(err, errors.ErrCodeInternal, "action failed")
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeSoundNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInitPending:
		return http.StatusConflict
	case errors.ErrCodeFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	kerr := asKakapoError(err)
	s.writeJSON(w, statusFor(kerr.Code), kerr)
}

// writeJSON encodes v before committing status, so an unencodable value
// becomes a 500 instead of a truncated body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.WithError(err).WithField("status", status).Error("Failed to encode response")
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errors.Wrap(err, errors.ErrCodeInternal, "failed to encode response"))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.WithError(err).Warn("Failed to write response")
	}
}
