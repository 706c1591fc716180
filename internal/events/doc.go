// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

/*
Package events carries model lifecycle notifications between recommender
processes over Watermill.

When a training run publishes a model and saves its artifact, the trainer
emits a ModelPublished event. Every serving instance subscribed to the
topic reloads the artifact, so a fleet converges on the same model version
without restarts.

# Backends

Two Watermill backends are supported, selected by events.backend:

  - channel: gochannel pub/sub inside one process. Used by single-node
    deployments and by tests.
  - nats: NATS core subjects via watermill-nats. Every subscriber receives
    every event (no queue group), which is what fan-out reloads need.

JetStream is not used: a missed event only delays a reload until the next
publish or an explicit refresh, so at-most-once delivery is enough.

# Usage

	bus, err := events.New(cfg.Events, logging.NewSlogLogger())
	if err != nil {
	    return err
	}
	defer bus.Close()

	// Trainer side
	err = bus.PublishModel(ctx, events.NewModelPublished(report, store.Location()))

	// Serving side, blocks until ctx is canceled
	err = bus.Consume(ctx, func(ctx context.Context, ev events.ModelPublished) error {
	    _, err := engine.Reload(ctx, store)
	    return err
	})
*/
package events
