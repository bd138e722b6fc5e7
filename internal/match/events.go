package match

import (
	"sync"

	"github.com/google/uuid"

	"github.com/lgbarn/chessd/internal/codec"
)

// eventBuffer is how many events a slow subscriber may fall behind
// before new events are dropped for it.
const eventBuffer = 16

// Event announces a move applied to a game.
type Event struct {
	GameID   uuid.UUID       `json:"gameId"`
	State    codec.GameState `json:"state"`
	Status   string          `json:"status"`
	LastMove string          `json:"lastMove"`
}

// hub fans events out to the subscribers of each game.
type hub struct {
	mu   sync.Mutex
	next int
	subs map[uuid.UUID]map[int]chan Event
}

func newHub() *hub {
	return &hub{subs: make(map[uuid.UUID]map[int]chan Event)}
}

func (h *hub) subscribe(id uuid.UUID) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, eventBuffer)
	key := h.next
	h.next++
	if h.subs[id] == nil {
		h.subs[id] = make(map[int]chan Event)
	}
	h.subs[id][key] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[id], key)
			if len(h.subs[id]) == 0 {
				delete(h.subs, id)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// publish never blocks; a full subscriber misses the event.
func (h *hub) publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[ev.GameID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *hub) count(id uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[id])
}
