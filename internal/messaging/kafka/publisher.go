package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/solerma/slotreserve/internal/domain"
)

const topicPrefix = "delivery.events."

// messageWriter is the slice of the instrumented kafka writer the publisher
// needs. The production value is an otel-wrapped *kafka.Writer with no fixed
// topic, so each message carries its own.
type messageWriter interface {
	WriteMessage(ctx context.Context, msg kafka.Message) error
	Close() error
}

// Publisher serializes domain events and writes each to the topic derived
// from its event type, keyed by event id so replays land on the same
// partition.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(writer messageWriter) *Publisher {
	return &Publisher{writer: writer}
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: TopicFor(event),
		Key:   []byte(event.EventID().String()),
		Value: payload,
	}
	if err := p.writer.WriteMessage(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.EventType(), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// TopicFor maps an event to its topic, one topic per event type.
func TopicFor(event domain.Event) string {
	return topicPrefix + strings.ToLower(event.EventType())
}

type eventEnvelope struct {
	EventID    string    `json:"eventId"`
	OccurredOn time.Time `json:"occurredOn"`
	EventType  string    `json:"eventType"`
}

func newEnvelope(event domain.Event) eventEnvelope {
	return eventEnvelope{
		EventID:    event.EventID().String(),
		OccurredOn: event.OccurredOn(),
		EventType:  event.EventType(),
	}
}

func encodeEvent(event domain.Event) ([]byte, error) {
	switch e := event.(type) {
	case domain.SlotCapacityChanged:
		return json.Marshal(struct {
			eventEnvelope
			SlotID               int64               `json:"slotId"`
			DeliveryMode         domain.DeliveryMode `json:"deliveryMode"`
			PreviousReservations int                 `json:"previousReservations"`
			CurrentReservations  int                 `json:"currentReservations"`
			Capacity             int                 `json:"capacity"`
			FullyBooked          bool                `json:"fullyBooked"`
		}{
			eventEnvelope:        newEnvelope(e),
			SlotID:               e.SlotID,
			DeliveryMode:         e.Mode,
			PreviousReservations: e.PreviousReservations,
			CurrentReservations:  e.CurrentReservations,
			Capacity:             e.Capacity,
			FullyBooked:          e.FullyBooked,
		})
	case domain.ReservationCreated:
		return json.Marshal(struct {
			eventEnvelope
			CustomerName  string              `json:"customerName"`
			CustomerEmail string              `json:"customerEmail"`
			SlotID        int64               `json:"slotId"`
			DeliveryMode  domain.DeliveryMode `json:"deliveryMode"`
			Date          string              `json:"date"`
			StartTime     time.Time           `json:"startTime"`
			EndTime       time.Time           `json:"endTime"`
		}{
			eventEnvelope: newEnvelope(e),
			CustomerName:  e.CustomerName,
			CustomerEmail: e.CustomerEmail,
			SlotID:        e.SlotID,
			DeliveryMode:  e.Mode,
			Date:          e.Date.Format("2006-01-02"),
			StartTime:     e.StartTime,
			EndTime:       e.EndTime,
		})
	case domain.ReservationCancelled:
		return json.Marshal(struct {
			eventEnvelope
			ReservationID int64  `json:"reservationId"`
			CustomerEmail string `json:"customerEmail"`
			SlotID        int64  `json:"slotId"`
			Reason        string `json:"reason"`
		}{
			eventEnvelope: newEnvelope(e),
			ReservationID: e.ReservationID,
			CustomerEmail: e.CustomerEmail,
			SlotID:        e.SlotID,
			Reason:        e.Reason,
		})
	default:
		return nil, fmt.Errorf("unknown event type %T", event)
	}
}
