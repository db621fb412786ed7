// Package simulator is an in-memory printer backend for `lui simulate`. It
// serves the same device API routes and push websocket as the real printer
// plugin, so the panel can be driven without hardware.
package simulator

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/rileyhilliard/lui/internal/device"
	"github.com/rileyhilliard/lui/internal/errors"
	"github.com/rileyhilliard/lui/internal/logger"
	"github.com/rileyhilliard/lui/internal/push"
)

// Options configures the simulated printer.
type Options struct {
	// APIKey, when set, is required as X-Api-Key on every route.
	APIKey      string
	LockCode    string
	LockEnabled bool

	// Cooldown is the server-side lockout after invalid_unlock.
	Cooldown time.Duration
	// Tick is the countdown step. Tests shrink it.
	Tick time.Duration
}

// State is a snapshot of the simulated printer.
type State struct {
	LockEnabled  bool   `json:"lockEnabled"`
	LockCode     string `json:"lockCode"`
	Locked       bool   `json:"locked"`
	AutoLock     bool   `json:"autoLock"`
	Printing     bool   `json:"printing"`
	AutoShutdown bool   `json:"autoShutdown"`
	Cooldown     int    `json:"cooldown"`
	PushClients  int    `json:"pushClients"`
}

// Server is the simulated printer.
type Server struct {
	opts   Options
	log    logger.Logger
	hub    *Hub
	router *mux.Router

	mu       sync.Mutex
	state    State
	calls    []string
	stopTick chan struct{}
}

// New creates a simulator. The lock starts engaged when LockEnabled is set.
func New(opts Options, log logger.Logger) *Server {
	if opts.Cooldown <= 0 {
		opts.Cooldown = 30 * time.Second
	}
	if opts.Tick <= 0 {
		opts.Tick = time.Second
	}
	log = logger.OrNoop(log)
	s := &Server{
		opts: opts,
		log:  log,
		hub:  NewHub(log),
		state: State{
			LockEnabled: opts.LockEnabled,
			LockCode:    opts.LockCode,
			Locked:      opts.LockEnabled,
		},
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving the device API, the push
// websocket and the /sim control routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("simulated printer listening on %s", addr)

	select {
	case err := <-errc:
		return errors.WrapWithCode(err, errors.ErrSim,
			"Simulator couldn't listen on "+addr,
			"Pick another address with --addr or simulator.addr")
	case <-ctx.Done():
	}

	s.stopCountdown()
	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Snapshot returns the current state.
func (s *Server) Snapshot() State {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()
	st.PushClients = s.hub.Clients()
	return st
}

// Calls returns the device commands received so far, in order.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// Clients returns how many panels hold a push connection.
func (s *Server) Clients() int {
	return s.hub.Clients()
}

// SetPrinting starts or stops the simulated print job.
func (s *Server) SetPrinting(printing bool) {
	s.mu.Lock()
	s.state.Printing = printing
	s.mu.Unlock()
	s.log.Info("printing: %v", printing)
}

// PressPowerButton pushes powerbutton_pressed to every panel.
func (s *Server) PressPowerButton() {
	s.broadcast(push.TypePowerButtonPressed, nil)
}

// Lock engages the local lock on every panel, as the printer's auto-lock does.
func (s *Server) Lock() {
	s.mu.Lock()
	s.state.Locked = true
	s.mu.Unlock()
	s.broadcast(push.TypeLocalLockLocked, nil)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requireKey)

	handlers := map[string]func(http.ResponseWriter, *http.Request){
		device.CmdLockStatus:      s.handleLockStatus,
		device.CmdUnlock:          s.handleUnlock,
		device.CmdImmediateLock:   s.handleImmediateLock,
		device.CmdAutoLockOn:      s.handleAutoLock(true),
		device.CmdAutoLockOff:     s.handleAutoLock(false),
		device.CmdInvalidUnlock:   s.handleInvalidUnlock,
		device.CmdRestartService:  s.handleAck,
		device.CmdReboot:          s.handleAck,
		device.CmdShutdown:        s.handleShutdown,
		device.CmdPrinterState:    s.handlePrinterState,
		device.CmdSettings:        s.handleSettings,
		device.CmdSaveSettings:    s.handleSaveSettings,
		device.CmdAutoShutdownOn:  s.handleAutoShutdown(true),
		device.CmdAutoShutdownOff: s.handleAutoShutdown(false),
	}
	for cmd, route := range device.Routes {
		h, ok := handlers[cmd]
		if !ok {
			continue
		}
		r.HandleFunc(route.Path, s.record(cmd, h)).Methods(route.Method)
	}

	r.Handle(device.PushPath, s.hub).Methods(http.MethodGet)

	sim := r.PathPrefix("/sim").Subrouter()
	sim.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	sim.HandleFunc("/printing/{state:on|off}", s.handleSimPrinting).Methods(http.MethodPost)
	sim.HandleFunc("/powerbutton", s.handleSimPowerButton).Methods(http.MethodPost)
	sim.HandleFunc("/lock", s.handleSimLock).Methods(http.MethodPost)
	return r
}

func (s *Server) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.APIKey != "" && r.Header.Get(device.APIKeyHeader) != s.opts.APIKey {
			s.log.Debug("rejecting %s %s: bad API key", r.Method, r.URL.Path)
			http.Error(w, "invalid API key", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) record(cmd string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, cmd)
		s.mu.Unlock()
		s.log.Debug("device command %s", cmd)
		h(w, r)
	}
}

func (s *Server) handleLockStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := device.LockStatus{
		LockEnabled: s.state.LockEnabled,
		LockCode:    s.state.LockCode,
		Cooldown:    s.state.Cooldown,
	}
	s.mu.Unlock()
	writeJSON(w, st)
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	s.stopCountdown()
	s.mu.Lock()
	s.state.Locked = false
	s.state.Cooldown = 0
	s.mu.Unlock()
	s.broadcast(push.TypeLocalLockUnlocked, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImmediateLock(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAutoLock(enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.state.AutoLock = enabled
		s.mu.Unlock()
		s.broadcast(push.TypeAutoLocalLockToggle, push.TogglePayload{Data: enabled})
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleInvalidUnlock(w http.ResponseWriter, r *http.Request) {
	s.startCountdown()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	printing := s.state.Printing
	s.mu.Unlock()
	if printing {
		http.Error(w, "printer is busy", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePrinterState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	printing := s.state.Printing
	s.mu.Unlock()

	text := "Operational"
	if printing {
		text = "Printing"
	}
	var resp struct {
		State struct {
			Text  string `json:"text"`
			Flags struct {
				Printing bool `json:"printing"`
			} `json:"flags"`
		} `json:"state"`
	}
	resp.State.Text = text
	resp.State.Flags.Printing = printing
	writeJSON(w, resp)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	settings := device.Settings{AutoShutdown: s.state.AutoShutdown}
	s.mu.Unlock()
	writeJSON(w, settings)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings device.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, "malformed settings", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.state.AutoShutdown = settings.AutoShutdown
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAutoShutdown(enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.state.AutoShutdown = enabled
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Snapshot())
}

func (s *Server) handleSimPrinting(w http.ResponseWriter, r *http.Request) {
	s.SetPrinting(mux.Vars(r)["state"] == "on")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSimPowerButton(w http.ResponseWriter, r *http.Request) {
	s.PressPowerButton()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSimLock(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	w.WriteHeader(http.StatusNoContent)
}

// startCountdown pushes the remaining lockout seconds every tick and a
// reset when it runs out. A second call restarts the countdown.
func (s *Server) startCountdown() {
	s.stopCountdown()

	remaining := int((s.opts.Cooldown + time.Second - 1) / time.Second)
	stop := make(chan struct{})
	s.mu.Lock()
	s.stopTick = stop
	s.state.Cooldown = remaining
	s.broadcast(push.TypeInvalidUnlockTimer, push.TimerPayload{Timer: remaining})
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.opts.Tick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
			remaining--
			if !s.countdownTick(stop, remaining) {
				return
			}
		}
	}()
}

// countdownTick publishes one tick of the countdown owned by stop. The
// broadcast happens under s.mu so a concurrent stopCountdown either sees it
// first or suppresses it. It reports whether the countdown continues.
func (s *Server) countdownTick(stop chan struct{}, remaining int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopTick != stop {
		return false
	}
	s.state.Cooldown = remaining
	if remaining <= 0 {
		s.stopTick = nil
		s.broadcast(push.TypeInvalidUnlockReset, nil)
		return false
	}
	s.broadcast(push.TypeInvalidUnlockTimer, push.TimerPayload{Timer: remaining})
	return true
}

func (s *Server) stopCountdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
}

func (s *Server) broadcast(eventType string, payload interface{}) {
	if err := s.hub.Broadcast(eventType, payload); err != nil {
		s.log.Warn("push %s failed: %v", eventType, err)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
