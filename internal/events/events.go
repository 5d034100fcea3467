package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	GAMES_CHANNEL Channel = "games.events"
)

type MessageType string

const (
	GAME_CREATED MessageType = "game.created"
	GAME_UPDATED MessageType = "game.updated"
	GAME_DELETED MessageType = "game.deleted"
)

const publishTimeout = 5 * time.Second

type Event struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Channel   Channel        `json:"channel"`
	GameID    int            `json:"gameId"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

// Publisher is the write side of the bus used by controllers.
type Publisher interface {
	PublishGameEvent(ctx context.Context, eventType MessageType, gameID int, data map[string]any) error
}

type EventBus struct {
	client   valkey.Client
	logger   logger.Logger
	handlers map[Channel][]EventHandler
	mutex    sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
}

// New returns a bus backed by client. A nil client yields a bus that only
// notifies in-process handlers.
func New(client valkey.Client) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:   client,
		logger:   logger.New("EventBus"),
		handlers: make(map[Channel][]EventHandler),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (eb *EventBus) Enabled() bool {
	return eb != nil && eb.client != nil
}

func NewEvent(eventType MessageType, gameID int, data map[string]any) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Channel:   GAMES_CHANNEL,
		GameID:    gameID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func (eb *EventBus) PublishGameEvent(
	ctx context.Context,
	eventType MessageType,
	gameID int,
	data map[string]any,
) error {
	return eb.Publish(ctx, GAMES_CHANNEL, NewEvent(eventType, gameID, data))
}

func (eb *EventBus) Publish(ctx context.Context, channel Channel, event Event) error {
	log := eb.logger.TraceFromContext(ctx).Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if event.Channel == "" {
		event.Channel = channel
	}

	if eb.client != nil {
		eventData, err := json.Marshal(event)
		if err != nil {
			return log.Err("failed to marshal event", err, "eventID", event.ID)
		}

		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()

		err = eb.client.Do(
			pubCtx,
			eb.client.B().Publish().Channel(channel.String()).Message(string(eventData)).Build(),
		).Error()
		if err != nil {
			return log.Err(
				"failed to publish event to valkey",
				err,
				"channel", channel,
				"eventID", event.ID,
			)
		}

		log.Info("Event published", "channel", channel, "eventID", event.ID, "eventType", event.Type)
	}

	eb.notifyLocalHandlers(channel, event)

	return nil
}

// Subscribe registers an in-process handler for events published on channel.
func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) {
	eb.mutex.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	eb.mutex.Unlock()

	eb.logger.Function("Subscribe").Info("Handler subscribed to channel", "channel", channel)
}

// Listen blocks delivering remote events on channel to handler until ctx ends.
func (eb *EventBus) Listen(ctx context.Context, channel Channel, handler EventHandler) error {
	log := eb.logger.Function("Listen")

	if eb.client == nil {
		return log.ErrMsg("event bus has no valkey client")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(eb.ctx, cancel)
	defer stop()

	err := eb.client.Receive(
		ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			event, err := DecodeEvent(msg.Message)
			if err != nil {
				log.Er("failed to unmarshal event", err, "channel", channel)
				return
			}
			if err := handler(event); err != nil {
				log.Er("handler failed", err, "channel", channel, "eventID", event.ID)
			}
		},
	)
	if err != nil && ctx.Err() == nil {
		return log.Err("failed to listen to channel", err, "channel", channel)
	}

	return nil
}

func DecodeEvent(message string) (Event, error) {
	var event Event
	err := json.Unmarshal([]byte(message), &event)
	return event, err
}

func (eb *EventBus) notifyLocalHandlers(channel Channel, event Event) {
	log := eb.logger.Function("notifyLocalHandlers")

	eb.mutex.RLock()
	handlers := append([]EventHandler(nil), eb.handlers[channel]...)
	eb.mutex.RUnlock()

	for i, handler := range handlers {
		go func(h EventHandler, handlerIndex int) {
			if err := h(event); err != nil {
				log.Er(
					"handler failed",
					err,
					"channel", channel,
					"eventID", event.ID,
					"handlerIndex", handlerIndex,
				)
			}
		}(handler, i)
	}
}

func (eb *EventBus) Close() error {
	log := eb.logger.Function("Close")

	eb.cancel()

	log.Info("EventBus closed")
	return nil
}
