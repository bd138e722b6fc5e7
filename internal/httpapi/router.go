// Package httpapi exposes games over HTTP and streams updates over
// WebSocket.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lgbarn/chessd/internal/match"
)

// PlayerTokenHeader identifies the player making a move.
const PlayerTokenHeader = "X-Player-Token"

const maxJSONBodyBytes int64 = 1 << 16

// Handler serves the game API.
type Handler struct {
	games    *match.Manager
	log      zerolog.Logger
	upgrader websocket.Upgrader
	ping     time.Duration
}

// NewRouter creates the HTTP router. ping is the interval between
// WebSocket keep-alive pings.
func NewRouter(log zerolog.Logger, games *match.Manager, ping time.Duration) http.Handler {
	h := &Handler{
		games: games,
		log:   log.With().Str("component", "httpapi").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		ping: ping,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("POST /api/games", h.withJSON(h.createGame))
	mux.HandleFunc("GET /api/games", h.withJSON(h.listGames))
	mux.HandleFunc("GET /api/games/{id}", h.withJSON(h.getGame))
	mux.HandleFunc("GET /api/games/{id}/moves", h.withJSON(h.validMoves))
	mux.HandleFunc("POST /api/games/{id}/moves", h.withJSON(h.makeMove))
	mux.HandleFunc("GET /api/games/{id}/ws", h.watch)

	return CORS(RequestID(AccessLog(h.log, mux)))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) withJSON(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		next(w, r)
	}
}
