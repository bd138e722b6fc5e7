package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lgbarn/chessd/internal/chess"
	"github.com/lgbarn/chessd/internal/codec"
	"github.com/lgbarn/chessd/internal/engine"
	"github.com/lgbarn/chessd/internal/errors"
	"github.com/lgbarn/chessd/internal/httpapi"
)

// Client talks to a chessd server.
type Client struct {
	base   string
	http   *http.Client
	dialer *websocket.Dialer
}

// NewClient creates a client for the server at baseURL, e.g.
// "http://localhost:8080". A nil hc uses http.DefaultClient.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   hc,
		dialer: websocket.DefaultDialer,
	}
}

// Create starts a new game on the server. The returned session holds both
// player tokens and can move for either side.
func (c *Client) Create(ctx context.Context) (*RemoteSession, error) {
	var created httpapi.CreatedGame
	if err := c.do(ctx, http.MethodPost, "/api/games", "", nil, &created); err != nil {
		return nil, err
	}
	s := &RemoteSession{client: c, id: created.ID, tokens: map[chess.Colour]string{
		chess.White: created.WhiteToken,
		chess.Black: created.BlackToken,
	}}
	if err := s.apply(created.GameView.State, lastOf(created.Moves)); err != nil {
		return nil, err
	}
	return s, nil
}

// Join attaches to an existing game with one player token. Moves for the
// other side are rejected by the server.
func (c *Client) Join(ctx context.Context, id uuid.UUID, token string) (*RemoteSession, error) {
	var view httpapi.GameView
	if err := c.do(ctx, http.MethodGet, "/api/games/"+id.String(), "", nil, &view); err != nil {
		return nil, err
	}
	s := &RemoteSession{client: c, id: id, tokens: map[chess.Colour]string{
		chess.White: token,
		chess.Black: token,
	}}
	if err := s.apply(view.State, lastOf(view.Moves)); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(httpapi.PlayerTokenHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return responseError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// responseError turns an error response back into the matching sentinel.
func responseError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		sentinel = errors.ErrInvalidState
	case http.StatusForbidden:
		sentinel = errors.ErrUnauthorized
	case http.StatusNotFound:
		sentinel = errors.ErrGameNotFound
	case http.StatusConflict:
		sentinel = errors.ErrGameOver
	case http.StatusUnprocessableEntity:
		sentinel = errors.ErrIllegalMove
	default:
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("%s: %w", body.Error, sentinel)
}

// RemoteSession mirrors a server-side game. Moves are sent to the server;
// the mirror is replaced by whatever state the server returns.
type RemoteSession struct {
	client *Client
	id     uuid.UUID
	tokens map[chess.Colour]string

	mu   sync.Mutex
	game *engine.Game
	last string
}

// ID returns the server's game id.
func (s *RemoteSession) ID() uuid.UUID { return s.id }

// Token returns the token used to move for colour.
func (s *RemoteSession) Token(colour chess.Colour) string { return s.tokens[colour] }

func (s *RemoteSession) Game() *engine.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Clone()
}

func (s *RemoteSession) LastMove() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *RemoteSession) Move(ctx context.Context, move chess.Move) error {
	s.mu.Lock()
	token := s.tokens[s.game.Turn()]
	s.mu.Unlock()

	req := httpapi.MoveRequest{From: move.Start.String(), To: move.End.String()}
	if move.IsPromotion() {
		req.Promotion = move.Promotion.String()
	}
	var view httpapi.GameView
	if err := s.client.do(ctx, http.MethodPost, "/api/games/"+s.id.String()+"/moves", token, req, &view); err != nil {
		return err
	}
	return s.apply(view.State, lastOf(view.Moves))
}

// Watch follows the game's event stream and calls onChange after every
// update until ctx ends or the connection drops.
func (s *RemoteSession) Watch(ctx context.Context, onChange func()) error {
	url := "ws" + strings.TrimPrefix(s.client.base, "http") + "/api/games/" + s.id.String() + "/ws"
	conn, _, err := s.client.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return errors.Wrap(err, "watch")
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var msg httpapi.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "watch")
		}
		switch {
		case msg.Type == httpapi.MessageSnapshot && msg.Game != nil:
			err = s.apply(msg.Game.State, lastOf(msg.Game.Moves))
		case msg.Type == httpapi.MessageMove && msg.Event != nil:
			err = s.apply(msg.Event.State, msg.Event.LastMove)
		default:
			continue
		}
		if err != nil {
			return err
		}
		if onChange != nil {
			onChange()
		}
	}
}

func (s *RemoteSession) apply(state codec.GameState, last string) error {
	g, err := codec.Decode(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.game, s.last = g, last
	s.mu.Unlock()
	return nil
}

func lastOf(moves []string) string {
	if len(moves) == 0 {
		return ""
	}
	return moves[len(moves)-1]
}
