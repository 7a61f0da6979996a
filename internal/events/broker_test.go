package events

import (
	"testing"
	"time"
)

func TestBrokerDeliversToBoardSubscribers(t *testing.T) {
	broker := NewBroker()

	ch, cancel := broker.Subscribe("board-1")
	defer cancel()
	otherCh, otherCancel := broker.Subscribe("board-2")
	defer otherCancel()

	broker.Publish(VoteEvent{BoardID: "board-1", SuggestionID: "sugg-1", VoteCount: 3, Voted: true})

	select {
	case event := <-ch:
		if event.SuggestionID != "sugg-1" || event.VoteCount != 3 || !event.Voted {
			t.Errorf("received %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive event")
	}

	select {
	case event := <-otherCh:
		t.Fatalf("board-2 subscriber received board-1 event %+v", event)
	default:
	}
}

func TestBrokerCancelClosesChannel(t *testing.T) {
	broker := NewBroker()

	ch, cancel := broker.Subscribe("board-1")
	cancel()
	cancel() // safe to repeat

	if _, open := <-ch; open {
		t.Fatal("channel still open after cancel")
	}

	// Publishing to a board with no subscribers is a no-op.
	broker.Publish(VoteEvent{BoardID: "board-1", SuggestionID: "sugg-1"})
}

// A subscriber that stops draining loses events instead of blocking
// the publisher.
func TestBrokerDropsWhenSubscriberFull(t *testing.T) {
	broker := NewBroker()

	_, cancel := broker.Subscribe("board-1")
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*3; i++ {
			broker.Publish(VoteEvent{BoardID: "board-1", SuggestionID: "sugg-1", VoteCount: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
}
