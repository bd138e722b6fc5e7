package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lgbarn/chessd/internal/chess"
	"github.com/lgbarn/chessd/internal/codec"
	"github.com/lgbarn/chessd/internal/errors"
	"github.com/lgbarn/chessd/internal/store"
)

// errBadRequest marks malformed input that is not a chess error.
var errBadRequest = errors.New("bad request")

// GameView is the public form of a game. Player tokens are never included.
type GameView struct {
	ID        uuid.UUID       `json:"id"`
	State     codec.GameState `json:"state"`
	Status    string          `json:"status"`
	Moves     []string        `json:"moves"`
	FEN       string          `json:"fen"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CreatedGame is returned once, to the creator, with both player tokens.
type CreatedGame struct {
	GameView
	WhiteToken string `json:"whiteToken"`
	BlackToken string `json:"blackToken"`
}

// MoveRequest is the body of POST /api/games/{id}/moves.
type MoveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// ValidMovesResponse lists the legal moves of one piece.
type ValidMovesResponse struct {
	Square string           `json:"square"`
	Moves  []codec.MoveJSON `json:"moves"`
}

func newGameView(rec *store.Record) (GameView, error) {
	g, err := codec.Decode(rec.State)
	if err != nil {
		return GameView{}, err
	}
	moves := rec.Moves
	if moves == nil {
		moves = []string{}
	}
	return GameView{
		ID:        rec.ID,
		State:     rec.State,
		Status:    rec.Status,
		Moves:     moves,
		FEN:       codec.FEN(g),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func (h *Handler) createGame(w http.ResponseWriter, r *http.Request) {
	rec, err := h.games.Create(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := newGameView(rec)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, CreatedGame{GameView: view, WhiteToken: rec.WhiteToken, BlackToken: rec.BlackToken})
}

func (h *Handler) listGames(w http.ResponseWriter, r *http.Request) {
	recs, err := h.games.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	views := make([]GameView, 0, len(recs))
	for _, rec := range recs {
		view, err := newGameView(rec)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		views = append(views, view)
	}
	writeJSON(w, map[string]any{"games": views})
}

func (h *Handler) getGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rec, err := h.games.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := newGameView(rec)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, view)
}

func (h *Handler) validMoves(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sq, err := chess.ParseSquare(r.URL.Query().Get("square"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	moves, err := h.games.ValidMoves(r.Context(), id, sq)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, ValidMovesResponse{Square: sq.String(), Moves: codec.EncodeMoves(moves)})
}

func (h *Handler) makeMove(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req MoveRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.writeError(w, r, fmt.Errorf("move body: %v: %w", err, errBadRequest))
		return
	}
	move, err := req.move()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rec, err := h.games.Move(r.Context(), id, r.Header.Get(PlayerTokenHeader), move)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := newGameView(rec)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, view)
}

func (req MoveRequest) move() (chess.Move, error) {
	from, err := chess.ParseSquare(req.From)
	if err != nil {
		return chess.Move{}, err
	}
	to, err := chess.ParseSquare(req.To)
	if err != nil {
		return chess.Move{}, err
	}
	m := chess.NewMove(from, to)
	if req.Promotion != "" {
		if m.Promotion, err = codec.ParsePromotion(req.Promotion); err != nil {
			return chess.Move{}, err
		}
	}
	return m, nil
}

func gameID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("game id %q: %w", raw, errBadRequest)
	}
	return id, nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, errors.ErrOutOfRange),
		errors.Is(err, errors.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, errors.ErrGameNotFound),
		errors.Is(err, errors.ErrNoPiece):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, errors.ErrIllegalMove):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Msg("request failed")
		msg = http.StatusText(status)
	}
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
