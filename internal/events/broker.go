package events

import (
	"sync"
)

// VoteEvent announces an applied vote toggle: the suggestion's
// post-update counter, addressed to its board's subscribers.
type VoteEvent struct {
	BoardID      string `json:"-"`
	SuggestionID string `json:"suggestion_id"`
	VoteCount    int    `json:"vote_count"`
	Voted        bool   `json:"voted"`
}

// subscriberBuffer bounds each subscriber channel. A subscriber that
// falls this far behind starts losing events rather than blocking the
// vote path.
const subscriberBuffer = 16

// Broker fans vote events out to per-board subscribers. Publishing
// never blocks: slow subscribers drop events.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan VoteEvent]struct{}
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan VoteEvent]struct{}),
	}
}

// Subscribe registers a listener for one board's vote events. The
// returned cancel function unregisters the listener and closes the
// channel; it is safe to call more than once.
func (b *Broker) Subscribe(boardID string) (<-chan VoteEvent, func()) {
	ch := make(chan VoteEvent, subscriberBuffer)

	b.mu.Lock()
	if b.subs[boardID] == nil {
		b.subs[boardID] = make(map[chan VoteEvent]struct{})
	}
	b.subs[boardID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[boardID], ch)
			if len(b.subs[boardID]) == 0 {
				delete(b.subs, boardID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel
}

// Publish delivers an event to the board's current subscribers without
// blocking the caller.
func (b *Broker) Publish(event VoteEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[event.BoardID] {
		select {
		case ch <- event:
		default:
			// Subscriber buffer full: drop rather than stall the vote path.
		}
	}
}
