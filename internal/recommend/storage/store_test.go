// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package storage

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shopai-recommender/internal/recommend"
)

func testModel(t *testing.T) *recommend.Model {
	t.Helper()

	var interactions []recommend.Interaction
	for u := 0; u < 12; u++ {
		for i := 0; i < 8; i++ {
			if (u+i)%3 == 0 {
				continue
			}
			interactions = append(interactions, recommend.Interaction{
				UserID: recommend.Numeric(int64(u)),
				ItemID: recommend.Text("sku-" + string(rune('a'+i))),
				Rating: float64(1 + (u*i)%5),
			})
		}
	}
	items := []recommend.Item{
		{ID: recommend.Text("sku-a"), Name: "Wireless headphones", Description: "Noise cancelling over ear headphones"},
		{ID: recommend.Text("sku-b"), Name: "Mechanical keyboard", Description: "Tactile switches and backlight"},
		{ID: recommend.Text("sku-c"), Name: "Bluetooth speaker", Description: "Portable speaker with deep bass"},
	}

	cfg := recommend.DefaultConfig()
	cfg.Factors.Count = 4
	m, _, err := recommend.Fit(interactions, items, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	return m
}

func assertSameModel(t *testing.T, want, got *recommend.Model) {
	t.Helper()

	if !reflect.DeepEqual(want.Stats(), got.Stats()) {
		t.Fatalf("Stats() = %+v, want %+v", got.Stats(), want.Stats())
	}
	for _, u := range want.Users().IDs() {
		a := want.RecommendForUser(u, 5, true)
		b := got.RecommendForUser(u, 5, true)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("RecommendForUser(%s) differs after round trip: %v vs %v", u, a, b)
		}
	}
	for _, i := range want.Items().IDs() {
		a := want.RecommendSimilarItem(i, 3)
		b := got.RecommendSimilarItem(i, 3)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("RecommendSimilarItem(%s) differs after round trip: %v vs %v", i, a, b)
		}
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	store := NewFileStore(filepath.Join(t.TempDir(), "models", "model.gob.gz"))

	if err := store.Save(context.Background(), m); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertSameModel(t, m, loaded)

	meta, err := store.Metadata()
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if meta.Format != FormatMarker || meta.SchemaVersion != SchemaVersion {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.Factors != 4 || meta.ModelVersion != m.Version() {
		t.Errorf("metadata factors/version = %d/%d", meta.Factors, meta.ModelVersion)
	}
}

func TestFileStore_SaveReplacesAtomically(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "model.gob.gz"))
	m := testModel(t)

	for i := 0; i < 2; i++ {
		if err := store.Save(context.Background(), m); err != nil {
			t.Fatalf("Save() #%d error = %v", i, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the artifact", len(entries))
	}
}

func TestFileStore_LoadErrors(t *testing.T) {
	t.Parallel()

	m := testModel(t)
	valid, _, err := Encode(m)
	if err != nil {
		t.Fatal(err)
	}

	corruptChecksum := func() []byte {
		var env envelope
		if err := gob.NewDecoder(bytes.NewReader(valid)).Decode(&env); err != nil {
			t.Fatal(err)
		}
		env.Metadata.Checksum = "deadbeef"
		return encodeEnvelope(t, env)
	}
	wrongFormat := func() []byte {
		var env envelope
		if err := gob.NewDecoder(bytes.NewReader(valid)).Decode(&env); err != nil {
			t.Fatal(err)
		}
		env.Metadata.Format = "someone-else/model"
		return encodeEnvelope(t, env)
	}
	futureSchema := func() []byte {
		var env envelope
		if err := gob.NewDecoder(bytes.NewReader(valid)).Decode(&env); err != nil {
			t.Fatal(err)
		}
		env.Metadata.SchemaVersion = SchemaVersion + 1
		return encodeEnvelope(t, env)
	}

	tests := []struct {
		name     string
		content  []byte
		notFound bool
	}{
		{name: "missing", notFound: true},
		{name: "garbage", content: []byte("not a model")},
		{name: "truncated", content: valid[:len(valid)/2]},
		{name: "checksum mismatch", content: corruptChecksum()},
		{name: "format mismatch", content: wrongFormat()},
		{name: "schema mismatch", content: futureSchema()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "model.gob.gz")
			if tt.content != nil {
				if err := os.WriteFile(path, tt.content, 0o600); err != nil {
					t.Fatal(err)
				}
			}

			_, err := NewFileStore(path).Load(context.Background())
			if err == nil {
				t.Fatal("Load() = nil error")
			}
			if !errors.Is(err, recommend.ErrArtifact) {
				t.Errorf("Load() error %v is not an artifact error", err)
			}
			var ae *recommend.ArtifactError
			if !errors.As(err, &ae) || ae.Path != path {
				t.Errorf("Load() error %v does not name %s", err, path)
			}
			if got := errors.Is(err, recommend.ErrArtifactNotFound); got != tt.notFound {
				t.Errorf("errors.Is(ErrArtifactNotFound) = %v, want %v", got, tt.notFound)
			}
		})
	}
}

func encodeEnvelope(t *testing.T, env envelope) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecode_DegenerateModel(t *testing.T) {
	t.Parallel()

	m, report, err := recommend.Fit([]recommend.Interaction{
		{UserID: recommend.Text("solo"), ItemID: recommend.Text("p1"), Rating: 4},
		{UserID: recommend.Text("solo"), ItemID: recommend.Text("p2"), Implicit: true},
	}, nil, recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if !report.Degenerate {
		t.Fatal("expected degenerate training")
	}

	data, _, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	loaded, _, err := Decode(data, "mem")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	assertSameModel(t, m, loaded)
}

func TestBadgerStore_RoundTripAndHistory(t *testing.T) {
	t.Parallel()

	store, err := OpenBadgerStore(BadgerOptions{InMemory: true, History: 2})
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if _, err := store.Load(ctx); !errors.Is(err, recommend.ErrArtifactNotFound) {
		t.Fatalf("Load() on empty registry = %v, want not found", err)
	}

	// Publishing through an engine gives strictly increasing versions.
	engine, err := recommend.NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	base := testModel(t)
	var saved []*recommend.Model
	for i := 0; i < 5; i++ {
		m := engine.Publish(base)
		saved = append(saved, m)
		if err := store.Save(ctx, m); err != nil {
			t.Fatalf("Save() #%d error = %v", i, err)
		}
	}

	current, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertSameModel(t, saved[len(saved)-1], current)

	versions, err := store.Versions(ctx)
	if err != nil {
		t.Fatalf("Versions() error = %v", err)
	}
	if len(versions) != 3 {
		t.Fatalf("Versions() returned %d entries, want current plus 2", len(versions))
	}
	for i := 1; i < len(versions); i++ {
		if versions[i-1].ModelVersion <= versions[i].ModelVersion {
			t.Errorf("versions not newest first: %d then %d", versions[i-1].ModelVersion, versions[i].ModelVersion)
		}
	}

	if _, err := store.LoadVersion(ctx, saved[0].Version()); !errors.Is(err, recommend.ErrArtifactNotFound) {
		t.Errorf("pruned version still loadable: %v", err)
	}
	old, err := store.LoadVersion(ctx, saved[3].Version())
	if err != nil {
		t.Fatalf("LoadVersion() error = %v", err)
	}
	if old.Version() != saved[3].Version() {
		t.Errorf("LoadVersion() version = %d, want %d", old.Version(), saved[3].Version())
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"file", Options{Backend: BackendFile, Path: filepath.Join(dir, "m.gob.gz")}, false},
		{"default is file", Options{Path: filepath.Join(dir, "d.gob.gz")}, false},
		{"badger", Options{Backend: BackendBadger, Path: filepath.Join(dir, "registry")}, false},
		{"unknown", Options{Backend: "s3"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := New(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				_ = s.Close()
			}
		})
	}
}
