// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package advisory

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/krishiuday/kisan-tui/internal/connectivity"
	"github.com/krishiuday/kisan-tui/internal/model"
	"github.com/krishiuday/kisan-tui/internal/storage"
)

// fakeGenerator counts calls and returns a canned result or error.
type fakeGenerator struct {
	mu     sync.Mutex
	calls  int
	result *model.AdvisoryResult
	err    error

	// block, when non-nil, is closed by the test to release the call.
	block chan struct{}
}

func (f *fakeGenerator) GenerateAdvisory(ctx context.Context, input model.AdvisoryInput, language string) (*model.AdvisoryResult, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	return &r, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "kisan.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testInput() model.AdvisoryInput {
	return model.AdvisoryInput{
		Crop:           "Wheat",
		SoilType:       "Black Soil",
		SowingDate:     "2025-11-15",
		LandArea:       "3",
		IrrigationType: "Rainfed",
	}
}

func testResult() *model.AdvisoryResult {
	return &model.AdvisoryResult{
		Summary:      "Favorable season for wheat.",
		SowingAdvice: "Sow by mid November.",
		PestManagement: []model.PestAlert{
			{AlertLevel: model.AlertGreen, PestName: "Termite", Action: "Monitor field edges."},
		},
		SustainabilityTip: "Mulch to retain moisture.",
	}
}

func TestRequestAdvisoryOfflineFailsFast(t *testing.T) {
	gen := &fakeGenerator{result: testResult()}
	m := NewManager(testStore(t), gen, connectivity.NewMonitor(false))

	_, err := m.RequestAdvisory(context.Background(), testInput(), "English")
	if !errors.Is(err, ErrOffline) {
		t.Fatalf("expected ErrOffline, got %v", err)
	}
	if gen.callCount() != 0 {
		t.Error("offline request must not reach the generator")
	}
}

func TestRequestAdvisoryPersists(t *testing.T) {
	store := testStore(t)
	gen := &fakeGenerator{result: testResult()}
	m := NewManager(store, gen, connectivity.NewMonitor(true))

	stamp := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return stamp }

	result, err := m.RequestAdvisory(context.Background(), testInput(), "English")
	if err != nil {
		t.Fatalf("RequestAdvisory failed: %v", err)
	}
	if !result.GeneratedAt.Equal(stamp) {
		t.Errorf("GeneratedAt not stamped: %v", result.GeneratedAt)
	}

	cached, err := m.LoadCached()
	if err != nil {
		t.Fatalf("LoadCached failed: %v", err)
	}
	if cached.Summary != result.Summary {
		t.Errorf("cached advisory differs: %q", cached.Summary)
	}
}

func TestRequestAdvisoryInvalidInput(t *testing.T) {
	gen := &fakeGenerator{result: testResult()}
	m := NewManager(testStore(t), gen, connectivity.NewMonitor(true))

	bad := testInput()
	bad.SowingDate = "soon"
	if _, err := m.RequestAdvisory(context.Background(), bad, "English"); err == nil {
		t.Error("expected validation error")
	}
	if gen.callCount() != 0 {
		t.Error("invalid input must not reach the generator")
	}
}

func TestFailedRequestKeepsCache(t *testing.T) {
	store := testStore(t)
	gen := &fakeGenerator{result: testResult()}
	m := NewManager(store, gen, connectivity.NewMonitor(true))

	if _, err := m.RequestAdvisory(context.Background(), testInput(), "English"); err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	gen.err = errors.New("backend exploded")
	if _, err := m.RequestAdvisory(context.Background(), testInput(), "English"); err == nil {
		t.Fatal("expected generation error")
	}

	cached, err := m.LoadCached()
	if err != nil {
		t.Fatalf("cache lost after failed request: %v", err)
	}
	if cached.Summary != "Favorable season for wheat." {
		t.Errorf("cache overwritten by failed request: %q", cached.Summary)
	}
}

func TestLoadCachedEmpty(t *testing.T) {
	m := NewManager(testStore(t), &fakeGenerator{result: testResult()}, connectivity.NewMonitor(true))

	if _, err := m.LoadCached(); !errors.Is(err, ErrNoCached) {
		t.Errorf("expected ErrNoCached, got %v", err)
	}
}

func TestCacheSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kisan.db")

	store, err := storage.Open(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	m := NewManager(store, &fakeGenerator{result: testResult()}, connectivity.NewMonitor(true))
	if _, err := m.RequestAdvisory(context.Background(), testInput(), "English"); err != nil {
		t.Fatalf("RequestAdvisory failed: %v", err)
	}
	store.Close()

	store2, err := storage.Open(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer store2.Close()

	// Offline restart: the cached advisory is still served.
	m2 := NewManager(store2, &fakeGenerator{result: testResult()}, connectivity.NewMonitor(false))
	cached, err := m2.LoadCached()
	if err != nil {
		t.Fatalf("LoadCached after restart failed: %v", err)
	}
	if cached.Summary == "" {
		t.Error("empty cached advisory after restart")
	}
}

func TestMalformedCacheReportsNoCached(t *testing.T) {
	store := testStore(t)
	if err := store.Put(storage.KeyLastAdvisory, []byte("{broken")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	m := NewManager(store, &fakeGenerator{result: testResult()}, connectivity.NewMonitor(true))
	if _, err := m.LoadCached(); !errors.Is(err, ErrNoCached) {
		t.Errorf("malformed cache should read as absent, got %v", err)
	}
}

func TestConcurrentRequestsRejected(t *testing.T) {
	gen := &fakeGenerator{result: testResult(), block: make(chan struct{})}
	m := NewManager(testStore(t), gen, connectivity.NewMonitor(true))

	done := make(chan error, 1)
	go func() {
		_, err := m.RequestAdvisory(context.Background(), testInput(), "English")
		done <- err
	}()

	// Wait until the first request is inside the generator.
	for i := 0; i < 100 && gen.callCount() == 0; i++ {
		time.Sleep(5 * time.Millisecond)
	}
	if gen.callCount() == 0 {
		t.Fatal("first request never started")
	}

	if _, err := m.RequestAdvisory(context.Background(), testInput(), "English"); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(gen.block)
	if err := <-done; err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if m.Generating() {
		t.Error("generating flag must clear after completion")
	}
}
