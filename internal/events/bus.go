// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/shopai-recommender/internal/config"
	"github.com/tomtom215/shopai-recommender/internal/metrics"
)

// Supported backends.
const (
	BackendChannel = "channel"
	BackendNATS    = "nats"
)

const (
	natsMaxReconnects   = -1 // forever
	natsReconnectWait   = 2 * time.Second
	natsCloseTimeout    = 10 * time.Second
	natsAckWaitTimeout  = 30 * time.Second
	channelOutputBuffer = 16
)

// ErrBusClosed is returned by operations on a closed bus.
var ErrBusClosed = errors.New("event bus is closed")

// Handler processes one model event. A returned error is logged; the
// event is not redelivered.
type Handler func(ctx context.Context, ev ModelPublished) error

// Bus publishes and consumes model events on one topic.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	closers    []func() error
	topic      string
	backend    string
	logger     watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

// New creates a bus for cfg.Backend. Watermill logs go to logger, or are
// discarded when logger is nil.
func New(cfg config.EventsConfig, logger *slog.Logger) (*Bus, error) {
	var wmLogger watermill.LoggerAdapter = watermill.NopLogger{}
	if logger != nil {
		wmLogger = watermill.NewSlogLogger(logger)
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("events topic is required")
	}

	b := &Bus{topic: cfg.Topic, backend: cfg.Backend, logger: wmLogger}
	switch cfg.Backend {
	case BackendChannel, "":
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: channelOutputBuffer,
		}, wmLogger)
		b.backend = BackendChannel
		b.publisher = ch
		b.subscriber = ch
		b.closers = []func() error{ch.Close}
	case BackendNATS:
		if err := b.openNATS(cfg.NATSURL); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
	return b, nil
}

func (b *Bus) openNATS(url string) error {
	logger := b.logger
	natsOpts := []natsgo.Option{
		natsgo.Name("shopai-recommender"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(natsMaxReconnects),
		natsgo.ReconnectWait(natsReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	// Core NATS subjects: every instance sees every event.
	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return fmt.Errorf("create watermill publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		CloseTimeout:     natsCloseTimeout,
		AckWaitTimeout:   natsAckWaitTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return fmt.Errorf("create watermill subscriber: %w", err)
	}

	b.publisher = pub
	b.subscriber = sub
	b.closers = []func() error{pub.Close, sub.Close}
	return nil
}

// Backend returns the active backend name.
func (b *Bus) Backend() string {
	return b.backend
}

// Topic returns the event topic.
func (b *Bus) Topic() string {
	return b.topic
}

// PublishModel sends ev to every subscriber.
//
//nolint:gocritic // ModelPublished is a small value type
func (b *Bus) PublishModel(ctx context.Context, ev ModelPublished) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	payload, err := encodeEvent(&ev)
	if err != nil {
		return fmt.Errorf("encode model event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("model_id", ev.ModelID)
	msg.Metadata.Set("version", strconv.FormatInt(ev.Version, 10))

	err = b.publisher.Publish(b.topic, msg)
	metrics.RecordEventPublish(err)
	if err != nil {
		return fmt.Errorf("publish model event: %w", err)
	}
	return nil
}

// Consume subscribes to the topic and runs handler for each event until
// ctx is canceled or the bus is closed. Malformed payloads are logged and
// acknowledged so they are never redelivered.
func (b *Bus) Consume(ctx context.Context, handler Handler) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	msgs, err := b.subscriber.Subscribe(ctx, b.topic)
	b.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", b.topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrBusClosed
			}
			b.dispatch(ctx, msg, handler)
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, msg *message.Message, handler Handler) {
	defer msg.Ack()
	metrics.EventsConsumed.Inc()

	ev, err := decodeEvent(msg.Payload)
	if err != nil {
		b.logger.Error("Dropping malformed model event", err, watermill.LogFields{"message_uuid": msg.UUID})
		return
	}
	if err := handler(ctx, ev); err != nil {
		b.logger.Error("Model event handler failed", err, watermill.LogFields{
			"model_id": ev.ModelID,
			"version":  ev.Version,
		})
	}
}

// Close shuts down the publisher and subscriber. Calling Close twice is safe.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	for _, c := range b.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
