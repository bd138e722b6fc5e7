package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lgbarn/chessd/internal/codec"
	"github.com/lgbarn/chessd/internal/match"
)

const writeWait = 10 * time.Second

// watch upgrades to a WebSocket, sends the current game as the first
// message and then one message per applied move. A peer may play moves by
// sending Command frames; a rejected command is answered with an error
// frame, and an accepted one reaches the peer as a move message like any
// other. The connection ends when the peer goes away.
func (h *Handler) watch(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	// Subscribe before reading the snapshot so no move in between is lost.
	events, cancel := h.games.Subscribe(id)
	defer cancel()

	rec, err := h.games.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	snapshot, err := newGameView(rec)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.log.Debug().Err(err).Str("game", id.String()).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	logger := h.log.With().Str("game", id.String()).Str("request_id", RequestIDFrom(r.Context())).Logger()
	logger.Info().Int("watchers", h.games.Watchers(id)).Msg("watcher connected")
	defer logger.Info().Msg("watcher disconnected")

	gone := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)
	commands := make(chan inbound)
	go readCommands(conn, h.ping, commands, stop, gone)

	if err := writeMessage(conn, Message{Type: MessageSnapshot, Game: &snapshot}); err != nil {
		return
	}

	ticker := time.NewTicker(h.ping)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeMessage(conn, eventMessage(ev)); err != nil {
				logger.Debug().Err(err).Msg("websocket write failed")
				return
			}
		case in := <-commands:
			err := in.err
			if err == nil {
				err = h.execute(r.Context(), id, in.cmd)
			}
			if err != nil {
				logger.Debug().Err(err).Str("command", in.cmd.Type).Msg("websocket command rejected")
				if err := writeMessage(conn, errorMessage(err)); err != nil {
					return
				}
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// Message is one WebSocket frame sent to watchers.
type Message struct {
	Type  string    `json:"type"`
	Game  *GameView `json:"game,omitempty"`
	Event *Update   `json:"event,omitempty"`
	Error *Failure  `json:"error,omitempty"`
}

// Failure describes a rejected command. Code is the HTTP status the same
// request would have received.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Command is one WebSocket frame sent by a player.
type Command struct {
	Type      string `json:"type"`
	Token     string `json:"token"`
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// Update is the payload of a move message.
type Update struct {
	State    codec.GameState `json:"state"`
	Status   string          `json:"status"`
	LastMove string          `json:"lastMove"`
}

// Message types.
const (
	MessageSnapshot = "snapshot"
	MessageMove     = "move"
	MessageError    = "error"
)

func (h *Handler) execute(ctx context.Context, id uuid.UUID, cmd Command) error {
	if cmd.Type != MessageMove {
		return fmt.Errorf("unknown command %q: %w", cmd.Type, errBadRequest)
	}
	move, err := MoveRequest{From: cmd.From, To: cmd.To, Promotion: cmd.Promotion}.move()
	if err != nil {
		return err
	}
	_, err = h.games.Move(ctx, id, cmd.Token, move)
	return err
}

func errorMessage(err error) Message {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = http.StatusText(code)
	}
	return Message{Type: MessageError, Error: &Failure{Code: code, Message: msg}}
}

func eventMessage(ev match.Event) Message {
	return Message{Type: MessageMove, Event: &Update{State: ev.State, Status: ev.Status, LastMove: ev.LastMove}}
}

func writeMessage(conn *websocket.Conn, msg Message) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

type inbound struct {
	cmd Command
	err error
}

// readCommands decodes frames from the peer and hands them to the writer
// loop until stop is closed. Control frames are processed as a side effect
// of reading. gone is closed when the connection fails or the peer stops
// answering pings.
func readCommands(conn *websocket.Conn, ping time.Duration, commands chan<- inbound, stop <-chan struct{}, gone chan<- struct{}) {
	defer close(gone)
	wait := 2 * ping
	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(wait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wait))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var in inbound
		if err := json.Unmarshal(data, &in.cmd); err != nil {
			in.err = fmt.Errorf("command: %v: %w", err, errBadRequest)
		}
		select {
		case commands <- in:
		case <-stop:
			return
		}
	}
}
