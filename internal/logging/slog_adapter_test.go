// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newBufferedSlog(level zerolog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf).Level(level))), &buf
}

func TestSlogHandler_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		log   func(l *slog.Logger)
		level string
	}{
		{"info", func(l *slog.Logger) { l.Info("m") }, `"level":"info"`},
		{"warn", func(l *slog.Logger) { l.Warn("m") }, `"level":"warn"`},
		{"error", func(l *slog.Logger) { l.Error("m") }, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l, buf := newBufferedSlog(zerolog.TraceLevel)
			tt.log(l)
			if !strings.Contains(buf.String(), tt.level) {
				t.Errorf("output %s does not contain %s", buf.String(), tt.level)
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandlerWithLogger(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Enabled(info) = true for warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("Enabled(error) = false for warn logger")
	}
}

func TestSlogHandler_AttrKinds(t *testing.T) {
	t.Parallel()

	l, buf := newBufferedSlog(zerolog.TraceLevel)
	l.Info("event",
		slog.String("service", "api-layer"),
		slog.Int("restarts", 3),
		slog.Uint64("bytes", 10),
		slog.Float64("backoff", 1.5),
		slog.Bool("terminated", false),
		slog.Duration("elapsed", time.Second),
		slog.Any("err", errors.New("boom")),
	)

	output := buf.String()
	for _, want := range []string{
		`"service":"api-layer"`,
		`"restarts":3`,
		`"bytes":10`,
		`"backoff":1.5`,
		`"terminated":false`,
		`"err":"boom"`,
		`"message":"event"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
}

func TestSlogHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	l, buf := newBufferedSlog(zerolog.TraceLevel)
	l.With("supervisor", "root").WithGroup("svc").Info("restart", "name", "reload")

	output := buf.String()
	if !strings.Contains(output, `"supervisor":"root"`) {
		t.Errorf("missing pre-set attr: %s", output)
	}
	if !strings.Contains(output, `"svc.name":"reload"`) {
		t.Errorf("missing grouped attr: %s", output)
	}
}

func TestSlogHandler_NestedGroupAttr(t *testing.T) {
	t.Parallel()

	l, buf := newBufferedSlog(zerolog.TraceLevel)
	l.Info("nested", slog.Group("model", slog.Int("users", 10), slog.Int("items", 4)))

	output := buf.String()
	if !strings.Contains(output, `"model.users":10`) || !strings.Contains(output, `"model.items":4`) {
		t.Errorf("group attrs not flattened: %s", output)
	}
}

func TestNewSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	t.Cleanup(func() { Init(DefaultConfig()) })

	NewSlogLogger().Warn("from slog")

	if !strings.Contains(buf.String(), "from slog") {
		t.Errorf("slog output not routed to global logger: %s", buf.String())
	}
}
