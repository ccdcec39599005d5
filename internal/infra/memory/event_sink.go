package memory

import (
	"log"

	"adaptive-quiz-service/internal/domain"
)

// EventSink buffers engine events on a channel for an out-of-band consumer.
// Publish never blocks; when the buffer is full the oldest event is dropped
// so a slow consumer cannot stall a submission.
type EventSink struct {
	ch chan domain.Event
}

func NewEventSink(buffer int) *EventSink {
	if buffer <= 0 {
		buffer = 64
	}
	return &EventSink{ch: make(chan domain.Event, buffer)}
}

func (s *EventSink) Publish(events ...domain.Event) {
	for _, ev := range events {
		select {
		case s.ch <- ev:
		default:
			select {
			case dropped := <-s.ch:
				log.Printf("event sink full, dropping %s", dropped.Kind())
			default:
			}
			select {
			case s.ch <- ev:
			default:
			}
		}
	}
}

// Events exposes the consumer side of the buffer.
func (s *EventSink) Events() <-chan domain.Event {
	return s.ch
}

// DiscardSink throws events away; handy where no consumer exists.
type DiscardSink struct{}

func (DiscardSink) Publish(...domain.Event) {}
