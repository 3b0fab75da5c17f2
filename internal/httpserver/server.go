// internal/httpserver/server.go
//
// HTTP server wiring for the Defuse mission engine.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Mission endpoints: create, snapshot, start, module actions, reset, delete.
//   - Daily endpoints: mounted under /daily (see routes_daily.go).
//   - Driving each active mission's countdown from the shared scheduler.
//
// Notes:
//   - Missions live only in the store; a restart drops them.
//   - The countdown tick retires its own timer when the mission ends. Handlers
//     stop it explicitly when an action or reset ends or replaces a mission.
//   - Finished missions are appended to the results log when one is configured.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/robalobadob/defuse/internal/countdown"
	"github.com/robalobadob/defuse/internal/daily"
	"github.com/robalobadob/defuse/internal/mission"
	"github.com/robalobadob/defuse/internal/modules"
	"github.com/robalobadob/defuse/internal/store"
)

// Server bundles router, mission store, countdown scheduler and the optional
// results log.
type Server struct {
	r         *chi.Mux
	store     store.Store
	countdown *countdown.Countdown
	results   *daily.Store
	rules     modules.Rules
	clock     clockwork.Clock
	log       zerolog.Logger
	salt      string
	reg       *prometheus.Registry
	metrics   *metrics
	validate  *validator.Validate
}

// Option configures a Server.
type Option func(*Server)

// WithResults enables the results log.
func WithResults(rs *daily.Store) Option { return func(s *Server) { s.results = rs } }

// WithRules sets the module rule policies for new missions.
func WithRules(r modules.Rules) Option { return func(s *Server) { s.rules = r } }

// WithClock sets the clock for mission timestamps and the daily date.
func WithClock(c clockwork.Clock) Option { return func(s *Server) { s.clock = c } }

// WithLogger sets the request and mission logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Server) { s.log = l } }

// WithDailySalt sets the secret mixed into daily seeds.
func WithDailySalt(salt string) Option { return func(s *Server) { s.salt = salt } }

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, cd *countdown.Countdown, opts ...Option) *Server {
	s := &Server{
		r:         chi.NewRouter(),
		store:     st,
		countdown: cd,
		rules:     modules.DefaultRules,
		clock:     clockwork.NewRealClock(),
		log:       zerolog.Nop(),
		salt:      "local_dev_salt",
		reg:       prometheus.NewRegistry(),
		validate:  newValidator(),
	}
	for _, o := range opts {
		o(s)
	}
	s.metrics = newMetrics(s.reg, func() float64 { return float64(s.store.Len()) })

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger(s.log)...)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"defuse-go","endpoints":["/health","/metrics","POST /missions","/missions/{id}","/daily"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))

	s.r.Route("/missions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/start", s.handleStart)
			r.Post("/reset", s.handleReset)
			r.Post("/modules/{moduleId}/actions", s.handleAction)
		})
	})

	s.mountDaily(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("actiontype", func(fl validator.FieldLevel) bool {
		return modules.ActionType(fl.Field().String()).Valid()
	})
	return v
}

// ----------------------------- missions ------------------------------------

type createReq struct {
	Mode       string `json:"mode" validate:"required,oneof=quick full"`
	Difficulty string `json:"difficulty" validate:"required,oneof=novice pro expert"`
	Seed       string `json:"seed" validate:"omitempty,max=64,printascii"`
}

type missionRes struct {
	MissionID string        `json:"missionId"`
	Seed      string        `json:"seed"`
	State     mission.State `json:"state"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	req.Mode = strings.ToLower(strings.TrimSpace(req.Mode))
	req.Difficulty = strings.ToLower(strings.TrimSpace(req.Difficulty))
	req.Seed = strings.TrimSpace(req.Seed)
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := uuid.NewString()
	sess, err := mission.New(mission.Mode(req.Mode), mission.Difficulty(req.Difficulty), req.Seed,
		mission.WithClock(s.clock),
		mission.WithRules(s.rules),
		mission.WithLogger(s.log.With().Str("mission", id).Logger()),
		mission.WithFinishHook(func(st mission.State) { s.finished(id, st) }),
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.Save(r.Context(), id, sess); err != nil {
		s.log.Error().Err(err).Msg("save mission")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	s.metrics.created.Inc()

	st := sess.Snapshot()
	writeJSON(w, http.StatusCreated, missionRes{MissionID: id, Seed: st.Seed, State: st})
}

// session loads the {id} mission or writes a 404.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, *mission.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"mission_not_found"}`, http.StatusNotFound)
		return id, nil, false
	}
	return id, sess, true
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	st := sess.Snapshot()
	writeJSON(w, http.StatusOK, missionRes{MissionID: id, Seed: st.Seed, State: st})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if !sess.Start() {
		http.Error(w, `{"error":"not_in_intro"}`, http.StatusConflict)
		return
	}
	s.metrics.started.Inc()
	if err := s.countdown.Start(id, func() bool {
		return sess.Tick() == mission.StatusActive
	}); err != nil {
		s.log.Error().Err(err).Str("mission", id).Msg("start countdown")
		http.Error(w, `{"error":"countdown_failed"}`, http.StatusInternalServerError)
		return
	}
	st := sess.Snapshot()
	writeJSON(w, http.StatusOK, missionRes{MissionID: id, Seed: st.Seed, State: st})
}

type actionRes struct {
	Valid  bool          `json:"valid"`
	Strike bool          `json:"strike"`
	Solved bool          `json:"solved"`
	Module modules.Data  `json:"module,omitempty"`
	State  mission.State `json:"state"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var a modules.Action
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if err := s.validate.Var(string(a.Type), "required,actiontype"); err != nil {
		http.Error(w, `{"error":"unknown_action_type"}`, http.StatusBadRequest)
		return
	}

	moduleID := chi.URLParam(r, "moduleId")
	res, err := sess.ModuleAction(moduleID, a)
	if errors.Is(err, mission.ErrModuleNotFound) {
		http.Error(w, `{"error":"module_not_found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	st := sess.Snapshot()
	if st.Status.Terminal() {
		s.countdown.Stop(id)
	}
	if res.State != nil {
		kind := string(res.State.Kind())
		s.metrics.actions.WithLabelValues(kind, outcome(res)).Inc()
		if res.Strike {
			s.metrics.strikes.WithLabelValues(kind).Inc()
		}
	}
	writeJSON(w, http.StatusOK, actionRes{
		Valid:  res.Valid,
		Strike: res.Strike,
		Solved: res.Solved,
		Module: res.State,
		State:  st,
	})
}

func outcome(res modules.Result) string {
	switch {
	case !res.Valid:
		return "invalid"
	case res.Strike:
		return "strike"
	case res.Solved:
		return "solved"
	}
	return "ok"
}

type resetReq struct {
	Seed string `json:"seed" validate:"omitempty,max=64,printascii"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req resetReq
	// An empty body means "fresh seed".
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	req.Seed = strings.TrimSpace(req.Seed)
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.countdown.Stop(id)
	if err := sess.Reset(req.Seed); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.created.Inc()
	st := sess.Snapshot()
	writeJSON(w, http.StatusOK, missionRes{MissionID: id, Seed: st.Seed, State: st})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.countdown.Stop(id)
	if err := s.store.Delete(r.Context(), id); errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"mission_not_found"}`, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// finished runs once per terminal transition, outside the session lock. It
// may run on the scheduler goroutine, so it must not stop the countdown.
func (s *Server) finished(id string, st mission.State) {
	s.metrics.finished.WithLabelValues(string(st.Status)).Inc()
	if s.results == nil {
		return
	}
	end := s.clock.Now()
	if st.EndTime != nil {
		end = *st.EndTime
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.results.InsertResult(ctx, daily.Result{
		MissionID:     id,
		Seed:          st.Seed,
		Mode:          string(st.Mode),
		Difficulty:    string(st.Difficulty),
		Status:        string(st.Status),
		Strikes:       st.Strikes,
		TimeRemaining: st.TimerSeconds,
		ElapsedMs:     st.Elapsed(end).Milliseconds(),
		Date:          daily.DateKey(end),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("mission", id).Msg("record result")
	}
}
