package registry

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/flip7/internal/dependencies/mocks"
	"github.com/mcoot/flip7/internal/model"
)

type RegistryTestSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	registry *Registry
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	s.registry = New(s.clock, DefaultConfig())
}

func (s *RegistryTestSuite) newLobby(code string) *model.Lobby {
	return &model.Lobby{
		Code:    model.LobbyCode(code),
		Creator: "alice",
		Roster:  []model.PlayerID{"alice"},
		State:   model.LobbyStateWaiting,
	}
}

func (s *RegistryTestSuite) TestCreateRejectsDuplicateCode() {
	s.Require().NoError(s.registry.Create(s.newLobby("ABC123")))
	err := s.registry.Create(s.newLobby("ABC123"))
	s.ErrorIs(err, ErrCodeInUse)
	s.Equal(1, s.registry.Len())
}

func (s *RegistryTestSuite) TestDoUnknownCode() {
	err := s.registry.Do("NOPE", func(*Session) error { return nil })
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

func (s *RegistryTestSuite) TestDoBumpsVersionOnSuccessOnly() {
	s.Require().NoError(s.registry.Create(s.newLobby("ABC123")))

	s.Require().NoError(s.registry.Do("ABC123", func(*Session) error { return nil }))

	boom := errors.New("boom")
	err := s.registry.Do("ABC123", func(*Session) error { return boom })
	s.ErrorIs(err, boom)

	var version int
	s.Require().NoError(s.registry.View("ABC123", func(sess *Session) error {
		version = sess.Version
		return nil
	}))
	s.Equal(2, version)
}

func (s *RegistryTestSuite) TestSweepExpiresIdleLobby() {
	s.Require().NoError(s.registry.Create(s.newLobby("ABC123")))

	s.clock.Advance(59 * time.Second)
	s.Empty(s.registry.Sweep())

	s.clock.Advance(time.Second)
	s.Equal([]model.LobbyCode{"ABC123"}, s.registry.Sweep())
	s.False(s.registry.Exists("ABC123"))

	err := s.registry.View("ABC123", func(*Session) error { return nil })
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

func (s *RegistryTestSuite) TestActivityResetsIdleTimer() {
	s.Require().NoError(s.registry.Create(s.newLobby("ABC123")))

	s.clock.Advance(50 * time.Second)
	s.Require().NoError(s.registry.Do("ABC123", func(*Session) error { return nil }))

	s.clock.Advance(50 * time.Second)
	s.Empty(s.registry.Sweep())
	s.True(s.registry.Exists("ABC123"))
}

func (s *RegistryTestSuite) TestViewDoesNotResetIdleTimer() {
	s.Require().NoError(s.registry.Create(s.newLobby("ABC123")))

	s.clock.Advance(50 * time.Second)
	s.Require().NoError(s.registry.View("ABC123", func(*Session) error { return nil }))

	s.clock.Advance(10 * time.Second)
	s.Len(s.registry.Sweep(), 1)
}

func (s *RegistryTestSuite) TestGamesUseLongerTimeout() {
	s.Require().NoError(s.registry.Create(s.newLobby("ABC123")))
	s.Require().NoError(s.registry.Do("ABC123", func(sess *Session) error {
		sess.Game = &model.Game{State: model.GameStatePlaying}
		return nil
	}))

	s.clock.Advance(90 * time.Second)
	s.Empty(s.registry.Sweep())

	s.clock.Advance(30 * time.Second)
	s.Len(s.registry.Sweep(), 1)
}

func (s *RegistryTestSuite) TestRemove() {
	s.Require().NoError(s.registry.Create(s.newLobby("ABC123")))
	s.registry.Remove("ABC123")
	s.False(s.registry.Exists("ABC123"))
	s.Require().NoError(s.registry.Create(s.newLobby("ABC123")))
}

func (s *RegistryTestSuite) TestConcurrentDoIsSerialised() {
	s.Require().NoError(s.registry.Create(s.newLobby("ABC123")))

	counter := 0
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.registry.Do("ABC123", func(*Session) error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	s.Equal(50, counter)
	s.Require().NoError(s.registry.View("ABC123", func(sess *Session) error {
		s.Equal(51, sess.Version)
		return nil
	}))
}

func (s *RegistryTestSuite) TestPhase() {
	sess := &Session{Lobby: s.newLobby("ABC123")}
	s.Equal(model.PhaseLobby, sess.Phase())

	sess.Game = &model.Game{State: model.GameStatePlaying}
	s.Equal(model.PhasePlaying, sess.Phase())

	sess.Game.State = model.GameStateFinished
	s.Equal(model.PhaseFinished, sess.Phase())
}
