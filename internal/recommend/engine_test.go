// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

package recommend

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shopai-recommender/internal/metrics"
)

// memStore keeps a model state in memory.
type memStore struct {
	mu    sync.Mutex
	state *State
	err   error
}

func (s *memStore) Save(_ context.Context, m *Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.state = m.State()
	return nil
}

func (s *memStore) Load(_ context.Context) (*Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.state == nil {
		return nil, NewArtifactError("load", s.Location(), ErrArtifactNotFound)
	}
	return FromState(s.state)
}

func (s *memStore) Location() string { return "memory" }

// blockingProvider holds GetInteractions until release is closed.
type blockingProvider struct {
	inner   DataProvider
	entered chan struct{}
	release chan struct{}
}

func (p *blockingProvider) GetInteractions(ctx context.Context) ([]Interaction, error) {
	close(p.entered)
	select {
	case <-p.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return p.inner.GetInteractions(ctx)
}

func (p *blockingProvider) GetItems(ctx context.Context) ([]Item, error) {
	return p.inner.GetItems(ctx)
}

// failingProvider returns errors from both methods.
type failingProvider struct {
	interactionsErr error
	itemsErr        error
	inner           DataProvider
}

func (p *failingProvider) GetInteractions(ctx context.Context) ([]Interaction, error) {
	if p.interactionsErr != nil {
		return nil, p.interactionsErr
	}
	return p.inner.GetInteractions(ctx)
}

func (p *failingProvider) GetItems(ctx context.Context) ([]Item, error) {
	if p.itemsErr != nil {
		return nil, p.itemsErr
	}
	return p.inner.GetItems(ctx)
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Factors.Count = 8
	e, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Factors.Count = 0
	if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
		t.Error("NewEngine() accepted zero factors")
	}
	if _, err := NewEngine(nil, zerolog.Nop()); err != nil {
		t.Errorf("NewEngine(nil) error = %v", err)
	}
}

func TestEngine_Untrained(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	if e.IsTrained() || e.Model() != nil {
		t.Error("new engine reports a model")
	}
	if _, err := e.RecommendForUser(Numeric(1), 5, true); !errors.Is(err, ErrNotTrained) {
		t.Errorf("RecommendForUser err = %v", err)
	}
	if _, err := e.RecommendSimilarItem(Numeric(1), 5); !errors.Is(err, ErrNotTrained) {
		t.Errorf("RecommendSimilarItem err = %v", err)
	}
	if _, err := e.PopularFallback(5); !errors.Is(err, ErrNotTrained) {
		t.Errorf("PopularFallback err = %v", err)
	}
	if _, ok := e.GetEmbedding(EntityUser, Numeric(1)); ok {
		t.Error("GetEmbedding before training reported ok")
	}
	if err := e.Save(context.Background(), &memStore{}); !errors.Is(err, ErrNotTrained) {
		t.Errorf("Save err = %v", err)
	}
	if _, ok := e.LastTrainReport(); ok {
		t.Error("LastTrainReport before training reported ok")
	}

	want := Stats{Factors: 8}
	if got := e.GetStats(); !reflect.DeepEqual(got, want) {
		t.Errorf("GetStats() = %+v, want %+v", got, want)
	}
}

func TestEngine_TrainAndServe(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	s := syntheticTest(t)

	report, err := e.Train(context.Background(), s)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if !e.IsTrained() || e.IsTraining() {
		t.Fatal("engine state wrong after training")
	}
	last, ok := e.LastTrainReport()
	if !ok || last.Version != report.Version || report.Version != e.Model().Version() {
		t.Errorf("report version %d, last %d, model %d", report.Version, last.Version, e.Model().Version())
	}

	stats := e.GetStats()
	if !stats.Trained || stats.Users != report.Users || !stats.HasContent {
		t.Errorf("GetStats() = %+v", stats)
	}

	user := e.Model().Users().IDs()[0]
	recs, err := e.RecommendForUser(user, 5, true)
	if err != nil {
		t.Fatal(err)
	}
	if want := e.Model().RecommendForUser(user, 5, true); !reflect.DeepEqual(recs, want) {
		t.Errorf("engine and model disagree: %v vs %v", recs, want)
	}

	item := e.Model().Items().IDs()[0]
	similar, err := e.RecommendSimilarItem(item, 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range similar {
		if r.ItemID == item {
			t.Error("similar items include the query product")
		}
	}

	popular, err := e.PopularFallback(4)
	if err != nil || len(popular) != 4 {
		t.Errorf("PopularFallback(4) = %v, %v", popular, err)
	}

	vec, ok := e.GetEmbedding(EntityItem, item)
	if !ok || len(vec) != stats.LatentDim {
		t.Errorf("GetEmbedding() = %d values, %v", len(vec), ok)
	}

	if got, _ := e.RecommendForUser(user, 0, true); len(got) != 0 {
		t.Errorf("n=0 returned %v", got)
	}
}

func TestEngine_UnknownUserFallback(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	if _, err := e.Train(context.Background(), syntheticTest(t)); err != nil {
		t.Fatal(err)
	}

	counter := metrics.RecommendFallbacks.WithLabelValues(opUser, failureUnknownEntity.String())
	before := testutil.ToFloat64(counter)

	got, err := e.RecommendForUser(Text("never_seen"), 5, true)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := e.PopularFallback(5)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unknown user got %v, want %v", got, want)
	}
	if after := testutil.ToFloat64(counter); after < before+1 {
		t.Errorf("fallback counter %v -> %v", before, after)
	}
}

func TestEngine_TrainInProgress(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	p := &blockingProvider{
		inner:   syntheticTest(t),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}

	done := make(chan error, 1)
	go func() {
		_, err := e.Train(context.Background(), p)
		done <- err
	}()

	<-p.entered
	if !e.IsTraining() {
		t.Error("IsTraining() = false during a run")
	}
	if _, err := e.Train(context.Background(), syntheticTest(t)); !errors.Is(err, ErrTrainingInProgress) {
		t.Errorf("concurrent Train() err = %v, want ErrTrainingInProgress", err)
	}
	close(p.release)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("first Train() error = %v", err)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("training did not finish")
	}
	if e.IsTraining() {
		t.Error("IsTraining() = true after the run")
	}
}

func TestEngine_TrainFailureKeepsModel(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	s := syntheticTest(t)
	if _, err := e.Train(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	before := e.Model()

	boom := errors.New("database unavailable")
	if _, err := e.Train(context.Background(), &failingProvider{interactionsErr: boom, inner: s}); !errors.Is(err, boom) {
		t.Errorf("Train() err = %v, want %v", err, boom)
	}
	if e.Model() != before {
		t.Error("failed training replaced the published model")
	}

	if _, err := e.Train(context.Background(), nil); err == nil {
		t.Error("Train(nil) should fail")
	}
}

func TestEngine_TrainWithoutMetadata(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	p := &failingProvider{itemsErr: errors.New("products table missing"), inner: syntheticTest(t)}

	report, err := e.Train(context.Background(), p)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if report.HasContent || e.GetStats().HasContent {
		t.Error("content features built without metadata")
	}
}

func TestEngine_TrainCanceled(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	p := &blockingProvider{
		inner:   syntheticTest(t),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Train(ctx, p); !errors.Is(err, context.Canceled) {
		t.Errorf("Train() err = %v, want context.Canceled", err)
	}
	if e.IsTrained() {
		t.Error("canceled training published a model")
	}
}

func TestEngine_PublishVersionsIncrease(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	s := syntheticTest(t)
	m, _ := fitTest(t, s.Interactions(), nil, 8)

	first := e.Publish(m)
	second := e.Publish(m)
	older := e.Publish(m.withVersion(1))

	if first.Version() != m.Version() {
		t.Errorf("first publish changed version %d -> %d", m.Version(), first.Version())
	}
	if second.Version() <= first.Version() || older.Version() <= second.Version() {
		t.Errorf("versions not increasing: %d, %d, %d", first.Version(), second.Version(), older.Version())
	}
	if m.Version() != first.Version() {
		t.Error("Publish modified its argument")
	}
	if e.Model() != older {
		t.Error("Model() is not the last published instance")
	}
}

func TestEngine_ConcurrentPublishDistinctVersions(t *testing.T) {
	t.Parallel()

	const (
		workers = 16
		rounds  = 25
	)

	e := newTestEngine(t)
	s := syntheticTest(t)
	m, _ := fitTest(t, s.Interactions(), nil, 8)
	base := m.withVersion(1)

	got := make([][]int64, workers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			<-start
			for i := 0; i < rounds; i++ {
				got[w] = append(got[w], e.Publish(base).Version())
			}
		}(w)
	}
	close(start)
	wg.Wait()

	var all []int64
	for w, versions := range got {
		if !slices.IsSorted(versions) || len(slices.Compact(slices.Clone(versions))) != len(versions) {
			t.Errorf("worker %d saw versions out of order: %v", w, versions)
		}
		all = append(all, versions...)
	}
	slices.Sort(all)
	for i, v := range all {
		if want := int64(i + 1); v != want {
			t.Fatalf("published versions %v, want 1..%d with no duplicates", all, workers*rounds)
		}
	}
	if cur := e.Model().Version(); cur != int64(workers*rounds) {
		t.Errorf("current version %d, want %d", cur, workers*rounds)
	}
}

func TestEngine_TrainModelSavesTrainedModel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t)
	trained, report, err := e.TrainModel(ctx, syntheticTest(t))
	if err != nil {
		t.Fatalf("TrainModel() error = %v", err)
	}
	if trained != e.Model() || report.Version != trained.Version() {
		t.Fatalf("TrainModel() returned version %d, report %d, published %d",
			trained.Version(), report.Version, e.Model().Version())
	}

	// A reload landing after training replaces the published model.
	other, _ := fitTest(t, syntheticTest(t).Interactions(), nil, 4)
	reloaded := e.Publish(other)

	store := &memStore{}
	if err := e.SaveModel(ctx, store, trained); err != nil {
		t.Fatalf("SaveModel() error = %v", err)
	}
	if store.state.Version != trained.Version() || store.state.Factors != 8 {
		t.Errorf("saved version %d with %d factors, want trained version %d with 8",
			store.state.Version, store.state.Factors, trained.Version())
	}
	if reloaded.Version() <= trained.Version() {
		t.Errorf("reload version %d not after trained %d", reloaded.Version(), trained.Version())
	}
	if err := e.SaveModel(ctx, store, nil); !errors.Is(err, ErrNotTrained) {
		t.Errorf("SaveModel(nil) err = %v, want ErrNotTrained", err)
	}
}

func TestEngine_RecommendWithCapturedModel(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	if _, err := e.Train(context.Background(), syntheticTest(t)); err != nil {
		t.Fatal(err)
	}
	captured := e.Model()

	next, err := GenerateSynthetic(SyntheticConfig{Users: 30, Products: 12, Interactions: 300, Seed: 11})
	if err != nil {
		t.Fatal(err)
	}
	m, _ := fitTest(t, next.Interactions(), nil, 4)
	if e.Publish(m) == captured || e.Model() == captured {
		t.Fatal("publish did not replace the captured model")
	}

	user := captured.Users().IDs()[2]
	recs, err := e.RecommendForUserWith(captured, user, 5, true)
	if err != nil {
		t.Fatalf("RecommendForUserWith() error = %v", err)
	}
	if want := captured.RecommendForUser(user, 5, true); !reflect.DeepEqual(recs, want) {
		t.Errorf("RecommendForUserWith() = %v, want captured model's %v", recs, want)
	}

	item := captured.Items().IDs()[1]
	similar, err := e.RecommendSimilarItemWith(captured, item, 3)
	if err != nil {
		t.Fatalf("RecommendSimilarItemWith() error = %v", err)
	}
	if want := captured.RecommendSimilarItem(item, 3); !reflect.DeepEqual(similar, want) {
		t.Errorf("RecommendSimilarItemWith() = %v, want %v", similar, want)
	}

	popular, err := e.PopularFallbackWith(captured, 4)
	if err != nil {
		t.Fatalf("PopularFallbackWith() error = %v", err)
	}
	if want := captured.PopularFallback(4); !reflect.DeepEqual(popular, want) {
		t.Errorf("PopularFallbackWith() = %v, want %v", popular, want)
	}

	if _, err := e.RecommendForUserWith(nil, user, 5, true); !errors.Is(err, ErrNotTrained) {
		t.Errorf("RecommendForUserWith(nil) err = %v, want ErrNotTrained", err)
	}
	if _, err := e.RecommendSimilarItemWith(nil, item, 3); !errors.Is(err, ErrNotTrained) {
		t.Errorf("RecommendSimilarItemWith(nil) err = %v, want ErrNotTrained", err)
	}
	if _, err := e.PopularFallbackWith(nil, 3); !errors.Is(err, ErrNotTrained) {
		t.Errorf("PopularFallbackWith(nil) err = %v, want ErrNotTrained", err)
	}
}

func TestEngine_SaveAndReload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	trained := newTestEngine(t)
	if _, err := trained.Train(ctx, syntheticTest(t)); err != nil {
		t.Fatal(err)
	}
	store := &memStore{}
	if err := trained.Save(ctx, store); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	fresh := newTestEngine(t)
	m, err := fresh.Reload(ctx, store)
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if m.Version() != trained.Model().Version() {
		t.Errorf("reloaded version %d, want %d", m.Version(), trained.Model().Version())
	}

	user := trained.Model().Users().IDs()[3]
	want, _ := trained.RecommendForUser(user, 5, true)
	got, _ := fresh.RecommendForUser(user, 5, true)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reloaded recommendations %v, want %v", got, want)
	}
}

func TestEngine_ReloadErrorKeepsModel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newTestEngine(t)

	if _, err := e.Reload(ctx, &memStore{}); !errors.Is(err, ErrArtifactNotFound) || !errors.Is(err, ErrArtifact) {
		t.Errorf("Reload(empty) err = %v", err)
	}
	if e.IsTrained() {
		t.Error("failed reload published a model")
	}

	if _, err := e.Train(ctx, syntheticTest(t)); err != nil {
		t.Fatal(err)
	}
	before := e.Model()
	broken := &memStore{err: NewArtifactError("verify", "memory", errors.New("checksum mismatch"))}
	if _, err := e.Reload(ctx, broken); !errors.Is(err, ErrArtifact) {
		t.Errorf("Reload(broken) err = %v", err)
	}
	if e.Model() != before {
		t.Error("failed reload replaced the model")
	}
}

func TestEngine_ConcurrentServeDuringPublish(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	s := syntheticTest(t)
	if _, err := e.Train(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	m, _ := fitTest(t, s.Interactions(), s.Items(), 8)
	users := m.Users().IDs()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				recs, err := e.RecommendForUser(users[(w*50+i)%len(users)], 5, true)
				if err != nil || len(recs) == 0 {
					t.Errorf("RecommendForUser() = %v, %v", recs, err)
					return
				}
			}
		}(w)
	}
	for i := 0; i < 10; i++ {
		e.Publish(m)
	}
	wg.Wait()
}

func TestEngine_Config(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	cfg := e.Config()
	cfg.Factors.Count = 999
	if e.Config().Factors.Count != 8 {
		t.Error("Config() returned a shared instance")
	}
}
