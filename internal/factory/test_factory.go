package factory

import (
	"time"

	"github.com/coder/quartz"

	"github.com/mcoot/flip7/internal/dependencies/mocks"
	"github.com/mcoot/flip7/internal/registry"
	"github.com/mcoot/flip7/internal/services/auth"
	"github.com/mcoot/flip7/internal/storage/memory"
	"github.com/mcoot/flip7/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App with a hand-driven clock and queued randomness.
// Background loops use the real clock; tests call Reaper.Reap directly.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(
		store,
		mockClock,
		quartz.NewReal(),
		mockRandom,
		auth.DefaultConfig(),
		registry.DefaultConfig(),
		testutil.NopLogger(),
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// QueueDraws queues deck draws; the deck maps each card c to Intn result c-1
func (t *TestApp) QueueDraws(cards ...int) {
	t.MockRandom.QueueCards(cards...)
}
