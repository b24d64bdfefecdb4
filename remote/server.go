// Package remote exposes the timer over a minimal HTTP protocol so that
// another process (or a phone on the same network) can control it.
package remote

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ultratimer/timer"
)

//go:embed web/*
var web embed.FS

var errPortBind = errors.New("unable to bind remote control port")

var minutesRe = regexp.MustCompile(`^(\d+)min$`)

// StatusResponse is the body of a /status reply.
type StatusResponse struct {
	Time string `json:"time"`
}

type errorHandler func(w http.ResponseWriter, r *http.Request) error

func (h errorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h(w, r)
	if err != nil {
		slog.Error("remote handler failed", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Server is the remote control listener. It runs on its own goroutine
// and serialises against the update loop through the engine's own lock,
// so commands may arrive at any time.
type Server struct {
	engine *timer.Engine
	ln     net.Listener
	srv    *http.Server
}

// New binds the listener on the loopback interface. Port 0 picks an
// ephemeral port. A bind failure is returned wrapped in errPortBind so
// the caller can degrade gracefully instead of crashing.
func New(engine *timer.Engine, port uint) (*Server, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errPortBind, err)
	}

	s := &Server{engine: engine, ln: ln}

	s.srv = &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s, nil
}

// Addr returns the address the server is reachable on.
func (s *Server) Addr() string {
	return "http://" + s.ln.Addr().String()
}

// Start serves requests until Shutdown is called. It never blocks the
// caller.
func (s *Server) Start() {
	go func() {
		err := s.srv.Serve(s.ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("remote server stopped", slog.Any("error", err))
		}
	}()

	slog.Info("remote control listening", slog.String("addr", s.Addr()))
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/", errorHandler(s.index))
	mux.Handle("/status", errorHandler(s.status))
	mux.Handle("/command/", errorHandler(s.command))

	return mux
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) error {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return nil
	}

	b, err := web.ReadFile("web/index.html")
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	_, err = w.Write(b)

	return err
}

// status reports the current display time. The snapshot is computed
// synchronously so a poll always reflects the latest wall-clock state,
// even between scheduled ticks.
func (s *Server) status(w http.ResponseWriter, _ *http.Request) error {
	snap := s.engine.Snapshot()

	w.Header().Set("Content-Type", "application/json")

	return json.NewEncoder(w).Encode(StatusResponse{Time: snap.Display})
}

// command dispatches /command/{name} to the matching engine operation.
// Each command maps 1:1 to an engine call; "5min" style shortcuts set the
// duration in minutes.
func (s *Server) command(w http.ResponseWriter, r *http.Request) error {
	name := strings.TrimPrefix(r.URL.Path, "/command/")

	switch name {
	case "start":
		s.engine.Toggle()
	case "pause":
		s.engine.Pause()
	case "reset":
		s.engine.Reset()
	default:
		m := minutesRe.FindStringSubmatch(name)
		if m == nil {
			http.NotFound(w, r)
			return nil
		}

		mins, err := strconv.Atoi(m[1])
		if err != nil {
			http.NotFound(w, r)
			return nil
		}

		err = s.engine.SetDuration(time.Duration(mins) * time.Minute)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil
		}
	}

	w.WriteHeader(http.StatusOK)

	return nil
}
