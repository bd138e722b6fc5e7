package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgbarn/chessd/internal/config"
	"github.com/lgbarn/chessd/internal/errors"
	"github.com/lgbarn/chessd/internal/match"
	"github.com/lgbarn/chessd/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mgr := match.NewManager(store.NewMemoryStore(), zerolog.Nop())
	srv := httptest.NewServer(NewRouter(zerolog.Nop(), mgr, time.Second))
	t.Cleanup(srv.Close)
	return srv
}

func createGame(t *testing.T, srv *httptest.Server) CreatedGame {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/games", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created CreatedGame
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	return created
}

func postMove(t *testing.T, srv *httptest.Server, id, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/games/"+id+"/moves", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(PlayerTokenHeader, token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp, payload
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", buf.String())
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestCreateAndGetGame(t *testing.T) {
	srv := newTestServer(t)
	created := createGame(t, srv)

	assert.NotEmpty(t, created.WhiteToken)
	assert.NotEmpty(t, created.BlackToken)
	assert.Equal(t, "ACTIVE", created.Status)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", created.FEN)
	assert.Len(t, created.State.Pieces, 32)
	assert.Empty(t, created.Moves)

	var got map[string]any
	resp := getJSON(t, srv.URL+"/api/games/"+created.ID.String(), &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID.String(), got["id"])
	assert.NotContains(t, got, "whiteToken", "tokens are only returned on create")

	var list struct {
		Games []GameView `json:"games"`
	}
	getJSON(t, srv.URL+"/api/games", &list)
	require.Len(t, list.Games, 1)
	assert.Equal(t, created.ID, list.Games[0].ID)
}

func TestGetGame_Errors(t *testing.T) {
	srv := newTestServer(t)

	resp := getJSON(t, srv.URL+"/api/games/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = getJSON(t, srv.URL+"/api/games/6f1c2a4e-0000-4000-8000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidMoves(t *testing.T) {
	srv := newTestServer(t)
	created := createGame(t, srv)
	base := srv.URL + "/api/games/" + created.ID.String() + "/moves?square="

	var got ValidMovesResponse
	resp := getJSON(t, base+"e2", &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "e2", got.Square)
	require.Len(t, got.Moves, 2)
	assert.Equal(t, 3, got.Moves[0].End.Row)
	assert.True(t, got.Moves[1].DoublePawnPush)

	tests := []struct {
		square string
		want   int
	}{
		{"e4", http.StatusNotFound},
		{"z9", http.StatusBadRequest},
		{"", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run("square "+tt.square, func(t *testing.T) {
			resp := getJSON(t, base+tt.square, nil)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestMakeMove(t *testing.T) {
	srv := newTestServer(t)
	created := createGame(t, srv)
	id := created.ID.String()

	resp, payload := postMove(t, srv, id, created.WhiteToken, `{"from":"e2","to":"e4"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, payload)
	assert.Equal(t, []any{"e2e4"}, payload["moves"])
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", payload["fen"])

	tests := []struct {
		name  string
		token string
		body  string
		want  int
	}{
		{"missing token", "", `{"from":"e7","to":"e5"}`, http.StatusForbidden},
		{"other side's token", created.WhiteToken, `{"from":"e7","to":"e5"}`, http.StatusForbidden},
		{"illegal move", created.BlackToken, `{"from":"e7","to":"e4"}`, http.StatusUnprocessableEntity},
		{"own piece of the other side", created.BlackToken, `{"from":"d2","to":"d4"}`, http.StatusUnprocessableEntity},
		{"empty square", created.BlackToken, `{"from":"e5","to":"e4"}`, http.StatusNotFound},
		{"off-board square", created.BlackToken, `{"from":"e9","to":"e5"}`, http.StatusBadRequest},
		{"bad promotion", created.BlackToken, `{"from":"e7","to":"e5","promotion":"king"}`, http.StatusBadRequest},
		{"malformed json", created.BlackToken, `{"from":`, http.StatusBadRequest},
		{"unknown field", created.BlackToken, `{"from":"e7","to":"e5","dir":"x"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, payload := postMove(t, srv, id, tt.token, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode, payload)
			assert.NotEmpty(t, payload["error"])
		})
	}
}

func TestMakeMove_GameOver(t *testing.T) {
	srv := newTestServer(t)
	created := createGame(t, srv)
	id := created.ID.String()

	plays := []struct{ token, body string }{
		{created.WhiteToken, `{"from":"f2","to":"f3"}`},
		{created.BlackToken, `{"from":"e7","to":"e5"}`},
		{created.WhiteToken, `{"from":"g2","to":"g4"}`},
		{created.BlackToken, `{"from":"d8","to":"h4"}`},
	}
	var payload map[string]any
	for _, p := range plays {
		var resp *http.Response
		resp, payload = postMove(t, srv, id, p.token, p.body)
		require.Equal(t, http.StatusOK, resp.StatusCode, payload)
	}
	assert.Equal(t, "CHECKMATE", payload["status"])

	resp, _ := postMove(t, srv, id, created.WhiteToken, `{"from":"a2","to":"a3"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/games", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), PlayerTokenHeader)
}

func TestRequestID_Propagated(t *testing.T) {
	srv := newTestServer(t)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	h := RequestID(AccessLog(zerolog.New(&buf), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pot", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/pot", line["path"])
	assert.EqualValues(t, http.StatusTeapot, line["status"])
	assert.EqualValues(t, len("short and stout"), line["bytes"])
	assert.Equal(t, rr.Header().Get(RequestIDHeader), line["request_id"])
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", errBadRequest), http.StatusBadRequest},
		{errors.ErrOutOfRange, http.StatusBadRequest},
		{errors.ErrInvalidState, http.StatusBadRequest},
		{errors.ErrUnauthorized, http.StatusForbidden},
		{errors.ErrGameNotFound, http.StatusNotFound},
		{&errors.MoveError{Reason: errors.ErrNoPiece}, http.StatusNotFound},
		{&errors.MoveError{Reason: errors.ErrWrongTurn}, http.StatusUnprocessableEntity},
		{&errors.MoveError{Reason: errors.ErrNotLegal}, http.StatusUnprocessableEntity},
		{errors.ErrGameOver, http.StatusConflict},
		{&http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWatch(t *testing.T) {
	srv := newTestServer(t)
	created := createGame(t, srv)
	id := created.ID.String()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/games/" + id + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var snap Message
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, MessageSnapshot, snap.Type)
	require.NotNil(t, snap.Game)
	assert.Equal(t, created.ID, snap.Game.ID)

	r, payload := postMove(t, srv, id, created.WhiteToken, `{"from":"g1","to":"f3"}`)
	require.Equal(t, http.StatusOK, r.StatusCode, payload)

	var update Message
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, MessageMove, update.Type)
	require.NotNil(t, update.Event)
	assert.Equal(t, "g1f3", update.Event.LastMove)
	assert.Equal(t, "ACTIVE", update.Event.Status)
	assert.Equal(t, "BLACK", update.Event.State.Turn)
}

func dialGame(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/games/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var snap Message
	require.NoError(t, conn.ReadJSON(&snap))
	require.Equal(t, MessageSnapshot, snap.Type)
	return conn
}

func TestWatch_PlaysMoves(t *testing.T) {
	srv := newTestServer(t)
	created := createGame(t, srv)
	id := created.ID.String()
	conn := dialGame(t, srv, id)

	require.NoError(t, conn.WriteJSON(Command{Type: "move", Token: created.WhiteToken, From: "e2", To: "e4"}))
	var update Message
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, MessageMove, update.Type)
	require.NotNil(t, update.Event)
	assert.Equal(t, "e2e4", update.Event.LastMove)
	assert.Equal(t, "BLACK", update.Event.State.Turn)

	resp, err := http.Get(srv.URL + "/api/games/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	var view GameView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, []string{"e2e4"}, view.Moves)
	assert.Equal(t, "BLACK", view.State.Turn)
}

func TestWatch_RejectedCommands(t *testing.T) {
	srv := newTestServer(t)
	created := createGame(t, srv)
	conn := dialGame(t, srv, created.ID.String())

	tests := []struct {
		name  string
		frame string
		code  int
	}{
		{"not json", `{`, http.StatusBadRequest},
		{"unknown type", `{"type":"resign"}`, http.StatusBadRequest},
		{"bad square", fmt.Sprintf(`{"type":"move","token":%q,"from":"e9","to":"e4"}`, created.WhiteToken), http.StatusBadRequest},
		{"wrong side", fmt.Sprintf(`{"type":"move","token":%q,"from":"e7","to":"e5"}`, created.BlackToken), http.StatusForbidden},
		{"empty square", fmt.Sprintf(`{"type":"move","token":%q,"from":"e4","to":"e5"}`, created.WhiteToken), http.StatusNotFound},
		{"illegal", fmt.Sprintf(`{"type":"move","token":%q,"from":"e2","to":"e5"}`, created.WhiteToken), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.frame)))
			var reply Message
			require.NoError(t, conn.ReadJSON(&reply))
			assert.Equal(t, MessageError, reply.Type)
			require.NotNil(t, reply.Error)
			assert.Equal(t, tt.code, reply.Error.Code)
			assert.NotEmpty(t, reply.Error.Message)
		})
	}
}

func TestWatch_UnknownGame(t *testing.T) {
	srv := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/games/6f1c2a4e-0000-4000-8000-000000000000/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := config.NewServerConfig()
	cfg.ShutdownTimeout = time.Second
	mgr := match.NewManager(store.NewMemoryStore(), zerolog.Nop())
	s := NewServer(cfg, NewRouter(zerolog.Nop(), mgr, time.Second), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, l) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
