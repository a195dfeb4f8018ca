package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/flip7/internal/dependencies/mocks"
	"github.com/mcoot/flip7/internal/dependencies/random"
	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/storage/memory"
	"github.com/mcoot/flip7/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, random.New(), DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestGuestSessionResolvesToStoredPlayer() {
	session, err := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)
	s.True(session.Player.IsGuest)
	s.True(strings.HasPrefix(session.Token, "sess_"))
	s.True(strings.HasPrefix(string(session.PlayerID), "p_"))

	stored, err := s.storage.GetPlayer(s.ctx, session.PlayerID)
	s.Require().NoError(err)
	s.Equal("Alice", stored.DisplayName)

	player, err := s.service.GetPlayer(session.Token)
	s.Require().NoError(err)
	s.Equal(session.PlayerID, player.ID)
}

func (s *ServiceSuite) TestRegisterStoresHashNotPassword() {
	session, err := s.service.RegisterPlayer(s.ctx, "alice", "password123", "Alice")
	s.Require().NoError(err)
	s.False(session.Player.IsGuest)

	rp, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(session.PlayerID, rp.PlayerID)
	s.NotEmpty(rp.PasswordHash)
	s.NotEqual("password123", rp.PasswordHash)

	_, err = s.service.RegisterPlayer(s.ctx, "alice", "another-password", "Someone Else")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestLogin() {
	registered, err := s.service.RegisterPlayer(s.ctx, "alice", "password123", "Alice")
	s.Require().NoError(err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "correct credentials", username: "alice", password: "password123"},
		{name: "wrong password", username: "alice", password: "password124", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "bob", password: "password123", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			session, err := s.service.Login(s.ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				s.ErrorIs(err, tt.wantErr)
				return
			}
			s.Require().NoError(err)
			s.Equal(registered.PlayerID, session.PlayerID)
			s.NotEqual(registered.Token, session.Token)
		})
	}
}

func (s *ServiceSuite) TestSessionLifecycle() {
	session, _ := s.service.CreateGuestPlayer(s.ctx, "Alice")

	_, err := s.service.ValidateSession("sess_unknown")
	s.ErrorIs(err, ErrInvalidSession)

	s.clock.Advance(23 * time.Hour)
	_, err = s.service.ValidateSession(session.Token)
	s.NoError(err)

	s.clock.Advance(2 * time.Hour)
	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.GetPlayer(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSession() {
	session, _ := s.service.CreateGuestPlayer(s.ctx, "Alice")

	s.service.InvalidateSession(session.Token)
	s.service.InvalidateSession("sess_unknown")

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

// CleanExpiredSessions tests

func (s *ServiceSuite) TestCleanExpiredSessionsRemovesExpired() {
	session1, _ := s.service.CreateGuestPlayer(s.ctx, "Alice")

	// Advance time so session1 expires
	s.clock.Advance(25 * time.Hour)

	// Create a new session (not expired)
	session2, _ := s.service.CreateGuestPlayer(s.ctx, "Bob")

	s.Equal(1, s.service.CleanExpiredSessions())

	// session1 should be gone
	_, err := s.service.ValidateSession(session1.Token)
	s.ErrorIs(err, ErrInvalidSession)

	// session2 should still be valid
	_, err = s.service.ValidateSession(session2.Token)
	s.NoError(err)
}

// Validation tests

func (s *ServiceSuite) TestCreateGuestPlayerTrimsDisplayName() {
	session, err := s.service.CreateGuestPlayer(s.ctx, "  Alice  ")
	s.Require().NoError(err)
	s.Equal("Alice", session.Player.DisplayName)
}

func (s *ServiceSuite) TestCreateGuestPlayerRejectsBadDisplayName() {
	_, err := s.service.CreateGuestPlayer(s.ctx, "   ")
	s.ErrorIs(err, ErrInvalidDisplayName)

	_, err = s.service.CreateGuestPlayer(s.ctx, strings.Repeat("x", 33))
	s.ErrorIs(err, ErrInvalidDisplayName)
}

func (s *ServiceSuite) TestRegisterPlayerRejectsShortUsername() {
	_, err := s.service.RegisterPlayer(s.ctx, "al", "password123", "Alice")
	s.ErrorIs(err, ErrInvalidUsername)
}

func (s *ServiceSuite) TestRegisterPlayerRejectsShortPassword() {
	_, err := s.service.RegisterPlayer(s.ctx, "alice", "short", "Alice")
	s.ErrorIs(err, ErrPasswordTooShort)

	_, err = s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestIDsComeFromRandomSource() {
	rnd := mocks.NewMockRandom()
	rnd.QueueString("aaaaaaaaaaaaaaaa", "tokentokentokentokentokentoken12")
	svc := New(s.storage, s.clock, rnd, DefaultConfig(), testutil.NopLogger())

	session, err := svc.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p_aaaaaaaaaaaaaaaa"), session.PlayerID)
	s.Equal("sess_tokentokentokentokentokentoken12", session.Token)
}

func (s *ServiceSuite) TestGetPlayerReturnsCopy() {
	session, _ := s.service.CreateGuestPlayer(s.ctx, "Alice")

	player, _ := s.service.GetPlayer(session.Token)
	player.DisplayName = "Mallory"

	again, err := s.service.GetPlayer(session.Token)
	s.Require().NoError(err)
	s.Equal("Alice", again.DisplayName)
}

func (s *ServiceSuite) TestRunCleanupStopsOnCancel() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	s.NoError(s.service.RunCleanup(ctx, quartz.NewMock(s.T())))
}
