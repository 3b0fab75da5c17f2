package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/defuse/assets"
	"github.com/robalobadob/defuse/internal/countdown"
	"github.com/robalobadob/defuse/internal/daily"
	"github.com/robalobadob/defuse/internal/modules"
	"github.com/robalobadob/defuse/internal/store"
)

var testNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	srv *Server
	cd  *countdown.Countdown
	clk *clockwork.FakeClock
}

func newResultsStore(t *testing.T) *daily.Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	migs, err := assets.Migrations()
	require.NoError(t, err)
	for _, m := range migs {
		_, err := db.Exec(m.SQL)
		require.NoError(t, err, m.Name)
	}
	return daily.NewStore(db)
}

// newTestEnv builds a server whose countdown never fires during a test.
func newTestEnv(t *testing.T, opts ...Option) testEnv {
	t.Helper()
	cd, err := countdown.New(time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cd.Shutdown() })
	clk := clockwork.NewFakeClockAt(testNow)
	srv := New(store.NewMemoryStore(), cd, append([]Option{WithClock(clk), WithDailySalt("test_salt")}, opts...)...)
	return testEnv{srv: srv, cd: cd, clk: clk}
}

func (e testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.srv.Router().ServeHTTP(rec, req)
	return rec
}

type moduleDTO struct {
	ID     string          `json:"id"`
	Type   modules.Kind    `json:"type"`
	Data   json.RawMessage `json:"data"`
	Solved bool            `json:"solved"`
}

type stateDTO struct {
	Seed         string      `json:"seed"`
	Status       string      `json:"status"`
	Strikes      int         `json:"strikes"`
	TimerSeconds int         `json:"timerSeconds"`
	Modules      []moduleDTO `json:"modules"`
}

type missionDTO struct {
	MissionID string   `json:"missionId"`
	Seed      string   `json:"seed"`
	State     stateDTO `json:"state"`
	Valid     bool     `json:"valid"`
	Strike    bool     `json:"strike"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) missionDTO {
	t.Helper()
	var out missionDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (e testEnv) create(t *testing.T, mode, difficulty, seed string) missionDTO {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/missions", map[string]string{"mode": mode, "difficulty": difficulty, "seed": seed})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)
}

// wrongAction returns a mistake for a baseline module. attempt 1 and 2 give
// distinct mistakes for the same module.
func wrongAction(t *testing.T, m moduleDTO, attempt int) modules.Action {
	t.Helper()
	switch m.Type {
	case modules.KindWires:
		var d modules.WiresData
		require.NoError(t, json.Unmarshal(m.Data, &d))
		return modules.Action{Type: modules.ActionCut, Wire: (d.CorrectWire + attempt) % len(d.Wires)}
	case modules.KindButton:
		var d modules.ButtonData
		require.NoError(t, json.Unmarshal(m.Data, &d))
		if d.ShouldHold {
			return modules.Action{Type: modules.ActionPress}
		}
		return modules.Action{Type: modules.ActionHold}
	case modules.KindSymbols:
		var d modules.SymbolsData
		require.NoError(t, json.Unmarshal(m.Data, &d))
		return modules.Action{Type: modules.ActionPress, Symbol: d.Order[1]}
	}
	t.Fatalf("first module %s is not a baseline type", m.Type)
	return modules.Action{}
}

func TestDiagnostics(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "defuse-go")

	rec = e.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestCreate_SameSeedSameMission(t *testing.T) {
	e := newTestEnv(t)
	a := e.create(t, "quick", "novice", "ABC123")
	b := e.create(t, "QUICK", "Novice", "ABC123")

	assert.NotEqual(t, a.MissionID, b.MissionID)
	assert.Equal(t, "ABC123", a.Seed)
	assert.Equal(t, "intro", a.State.Status)
	require.Len(t, a.State.Modules, 3)
	assert.Equal(t, a.State.Modules, b.State.Modules)
}

func TestCreate_FreshSeed(t *testing.T) {
	e := newTestEnv(t)
	m := e.create(t, "full", "expert", "")
	assert.Len(t, m.Seed, 6)
	assert.Len(t, m.State.Modules, 5)
}

func TestCreate_Rejects(t *testing.T) {
	e := newTestEnv(t)
	tests := []struct {
		name string
		body any
	}{
		{"unknown mode", map[string]string{"mode": "marathon", "difficulty": "pro"}},
		{"missing difficulty", map[string]string{"mode": "quick"}},
		{"not an object", "quick"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/missions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestGet(t *testing.T) {
	e := newTestEnv(t)
	m := e.create(t, "quick", "pro", "SEED01")

	rec := e.do(t, http.MethodGet, "/missions/"+m.MissionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, m.State, decode(t, rec).State)

	rec = e.do(t, http.MethodGet, "/missions/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStart(t *testing.T) {
	e := newTestEnv(t)
	m := e.create(t, "quick", "pro", "SEED01")

	rec := e.do(t, http.MethodPost, "/missions/"+m.MissionID+"/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "active", decode(t, rec).State.Status)
	assert.True(t, e.cd.Running(m.MissionID))

	rec = e.do(t, http.MethodPost, "/missions/"+m.MissionID+"/start", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAction_IgnoredBeforeStart(t *testing.T) {
	e := newTestEnv(t)
	m := e.create(t, "quick", "pro", "SEED01")
	first := m.State.Modules[0]

	rec := e.do(t, http.MethodPost, "/missions/"+m.MissionID+"/modules/"+first.ID+"/actions", wrongAction(t, first, 1))
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.False(t, got.Valid)
	assert.False(t, got.Strike)
	assert.Equal(t, m.State, got.State)
}

func TestAction_Rejects(t *testing.T) {
	e := newTestEnv(t)
	m := e.create(t, "quick", "pro", "SEED01")
	e.do(t, http.MethodPost, "/missions/"+m.MissionID+"/start", nil)

	rec := e.do(t, http.MethodPost, "/missions/"+m.MissionID+"/modules/nope_9/actions", modules.Action{Type: modules.ActionCut})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(t, http.MethodPost, "/missions/"+m.MissionID+"/modules/"+m.State.Modules[0].ID+"/actions", map[string]string{"type": "juggle"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/missions/missing/modules/x/actions", modules.Action{Type: modules.ActionCut})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAction_StrikesExplodeAndRecord(t *testing.T) {
	e := newTestEnv(t, WithResults(newResultsStore(t)))
	m := e.create(t, "quick", "pro", "SEED01")
	e.do(t, http.MethodPost, "/missions/"+m.MissionID+"/start", nil)
	first := m.State.Modules[0]
	path := "/missions/" + m.MissionID + "/modules/" + first.ID + "/actions"

	rec := e.do(t, http.MethodPost, path, wrongAction(t, first, 1))
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.True(t, got.Strike)
	assert.Equal(t, 1, got.State.Strikes)
	assert.Equal(t, 290, got.State.TimerSeconds)
	assert.Equal(t, "active", got.State.Status)

	rec = e.do(t, http.MethodPost, path, wrongAction(t, first, 2))
	got = decode(t, rec)
	assert.True(t, got.Strike)
	assert.Equal(t, 2, got.State.Strikes)
	assert.Equal(t, "exploded", got.State.Status)
	assert.False(t, e.cd.Running(m.MissionID))

	rec = e.do(t, http.MethodGet, "/daily/results", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res dailyResultsRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "2026-10-18", res.Date)
	require.Len(t, res.Results, 1)
	assert.Equal(t, daily.Result{
		MissionID:     m.MissionID,
		Seed:          "SEED01",
		Mode:          "quick",
		Difficulty:    "pro",
		Status:        "exploded",
		Strikes:       2,
		TimeRemaining: 280,
		ElapsedMs:     0,
		Date:          "2026-10-18",
	}, res.Results[0])

	rec = e.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `defuse_missions_finished_total{status="exploded"} 1`)
	assert.Contains(t, body, `defuse_strikes_total{module="`+string(first.Type)+`"} 2`)
	assert.Contains(t, body, "defuse_missions_started_total 1")
	assert.Contains(t, body, "defuse_missions_live 1")
}

func TestReset(t *testing.T) {
	e := newTestEnv(t)
	m := e.create(t, "full", "novice", "SEED01")
	e.do(t, http.MethodPost, "/missions/"+m.MissionID+"/start", nil)

	rec := e.do(t, http.MethodPost, "/missions/"+m.MissionID+"/reset", map[string]string{"seed": "OTHER1"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, m.MissionID, got.MissionID)
	assert.Equal(t, "OTHER1", got.Seed)
	assert.Equal(t, "intro", got.State.Status)
	assert.Len(t, got.State.Modules, 5)
	assert.False(t, e.cd.Running(m.MissionID))

	rec = e.do(t, http.MethodPost, "/missions/"+m.MissionID+"/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec).Seed, 6)
}

func TestDelete(t *testing.T) {
	e := newTestEnv(t)
	m := e.create(t, "quick", "novice", "SEED01")
	e.do(t, http.MethodPost, "/missions/"+m.MissionID+"/start", nil)

	rec := e.do(t, http.MethodDelete, "/missions/"+m.MissionID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, e.cd.Running(m.MissionID))

	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/missions/"+m.MissionID, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodDelete, "/missions/"+m.MissionID, nil).Code)
}
