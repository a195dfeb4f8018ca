package factory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/flip7/internal/api/response"
	"github.com/mcoot/flip7/internal/events"
	"github.com/mcoot/flip7/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.app.HubManager.CloseAll()
}

func (s *IntegrationSuite) subscribe(code model.LobbyCode) *events.Client {
	client := events.NewClient("watcher", "test", s.app.MockClock.Now())
	s.Require().True(s.app.HubManager.GetOrCreateHub(code).Register(client))
	return client
}

func (s *IntegrationSuite) next(client *events.Client) (string, response.Event) {
	select {
	case msg, ok := <-client.Messages():
		s.Require().True(ok, "stream closed")
		var ev response.Event
		if len(msg.Data) > 0 {
			s.Require().NoError(json.Unmarshal(msg.Data, &ev))
		}
		return msg.Event, ev
	case <-time.After(time.Second):
		s.FailNow("no stream message")
		return "", response.Event{}
	}
}

// Two players: the first banks 3, the second banks 5 and wins
func (s *IntegrationSuite) TestTwoPlayerGameToCompletion() {
	s.app.MockRandom.QueueString("LOBBY1", "GAME01")
	s.app.QueueDraws(3, 5)

	snap, err := s.app.LobbyController.CreateLobby(s.ctx, "A")
	s.Require().NoError(err)
	code := snap.LobbyCode
	s.Equal(model.LobbyCode("LOBBY1"), code)

	_, err = s.app.LobbyController.Join(s.ctx, code, "B")
	s.Require().NoError(err)

	snap, err = s.app.LobbyController.Start(s.ctx, code, "A")
	s.Require().NoError(err)
	s.Equal(model.PhasePlaying, snap.Phase)
	s.Equal(model.PlayerID("A"), snap.CurrentPlayer)

	draw, _, err := s.app.GameController.Draw(s.ctx, code, "A")
	s.Require().NoError(err)
	s.Equal(3, draw.Card)
	s.Equal(model.PlayerID("A"), draw.NextPlayer)

	_, _, err = s.app.GameController.Draw(s.ctx, code, "B")
	s.ErrorIs(err, model.ErrNotYourTurn)

	stay, _, err := s.app.GameController.Stay(s.ctx, code, "A")
	s.Require().NoError(err)
	s.Equal(3, stay.Score)
	s.Equal(model.PlayerID("B"), stay.NextPlayer)

	draw, _, err = s.app.GameController.Draw(s.ctx, code, "B")
	s.Require().NoError(err)
	s.Equal(5, draw.Card)

	stay, snap, err = s.app.GameController.Stay(s.ctx, code, "B")
	s.Require().NoError(err)
	s.True(stay.GameOver)
	s.True(snap.IsFinished())
	s.Equal([]model.PlayerID{"B"}, snap.Winners)
	s.Equal(model.PlayerID("B"), snap.Standings[0].PlayerID)

	result, err := s.app.Storage.GetGameResult(s.ctx, "GAME01")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"B"}, result.Winners)
	s.Equal(code, result.LobbyCode)
}

// A solo player busts on a repeated card and the game ends at once
func (s *IntegrationSuite) TestSoloBustEndsGame() {
	s.app.MockRandom.QueueString("SOLO01", "GAME02")
	s.app.QueueDraws(4, 9, 4)

	snap, err := s.app.LobbyController.CreateLobby(s.ctx, "A")
	s.Require().NoError(err)
	code := snap.LobbyCode

	_, err = s.app.LobbyController.Start(s.ctx, code, "A")
	s.Require().NoError(err)

	for range 2 {
		_, _, err = s.app.GameController.Draw(s.ctx, code, "A")
		s.Require().NoError(err)
	}
	draw, snap, err := s.app.GameController.Draw(s.ctx, code, "A")
	s.Require().NoError(err)

	s.True(draw.Busted)
	s.True(draw.GameOver)
	s.Equal(0, draw.Score)
	s.True(snap.IsFinished())
	s.Equal(model.StatusBusted, snap.Standings[0].Status)
	s.Equal([]model.PlayerID{"A"}, snap.Winners)

	_, _, err = s.app.GameController.Draw(s.ctx, code, "A")
	s.ErrorIs(err, model.ErrGameComplete)
}

func (s *IntegrationSuite) TestLobbyRulesLeaveStateUnchanged() {
	s.app.MockRandom.QueueString("RULES1")

	snap, err := s.app.LobbyController.CreateLobby(s.ctx, "A")
	s.Require().NoError(err)
	code := snap.LobbyCode

	_, err = s.app.LobbyController.Join(s.ctx, code, "B")
	s.Require().NoError(err)
	_, err = s.app.LobbyController.Join(s.ctx, code, "B")
	s.ErrorIs(err, model.ErrAlreadyJoined)

	_, err = s.app.LobbyController.Start(s.ctx, code, "B")
	s.ErrorIs(err, model.ErrNotCreator)

	snap, err = s.app.LobbyController.Get(s.ctx, code)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"A", "B"}, snap.Roster)
	s.Equal(model.PhaseLobby, snap.Phase)
	s.Empty(snap.GameID)
}

func (s *IntegrationSuite) TestBotsPlayAfterHumanStays() {
	s.app.MockRandom.QueueString("BOTS01", "alpha", "bravo", "GAME03")

	snap, err := s.app.LobbyController.CreateLobby(s.ctx, "human")
	s.Require().NoError(err)
	code := snap.LobbyCode

	bot1, _, err := s.app.BotService.AddBot(s.ctx, code, "human", model.BotStrategyCautious, "")
	s.Require().NoError(err)
	bot2, _, err := s.app.BotService.AddBot(s.ctx, code, "human", model.BotStrategyCautious, "")
	s.Require().NoError(err)
	s.Equal("Bot 1", bot1.DisplayName)
	s.Equal("Bot 2", bot2.DisplayName)

	_, err = s.app.LobbyController.Start(s.ctx, code, "human")
	s.Require().NoError(err)

	// Human draws 10 and stays; bot 1 reaches 20 and stays; bot 2 busts on 12
	s.app.QueueDraws(10, 11, 9, 12, 12)
	_, _, err = s.app.GameController.Draw(s.ctx, code, "human")
	s.Require().NoError(err)
	_, _, err = s.app.GameController.Stay(s.ctx, code, "human")
	s.Require().NoError(err)

	actions, err := s.app.BotService.PlayTurns(s.ctx, code)
	s.Require().NoError(err)
	s.Len(actions, 5)

	final := actions[len(actions)-1].Snapshot
	s.True(final.IsFinished())
	s.Equal([]model.PlayerID{bot1.ID}, final.Winners)

	results, err := s.app.Storage.ListRecentResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(model.GameID("GAME03"), results[0].GameID)
}

func (s *IntegrationSuite) TestBroadcasterStreamsEveryAction() {
	s.app.MockRandom.QueueString("STREAM", "GAME04")
	s.app.QueueDraws(7)

	snap, err := s.app.LobbyController.CreateLobby(s.ctx, "A")
	s.Require().NoError(err)
	code := snap.LobbyCode
	client := s.subscribe(code)

	snap, err = s.app.LobbyController.Start(s.ctx, code, "A")
	s.Require().NoError(err)
	s.app.Broadcaster.GameStarted("A", snap)

	draw, snap, err := s.app.GameController.Draw(s.ctx, code, "A")
	s.Require().NoError(err)
	s.app.Broadcaster.CardDrawn(draw, snap)

	stay, snap, err := s.app.GameController.Stay(s.ctx, code, "A")
	s.Require().NoError(err)
	s.app.Broadcaster.PlayerStayed(stay, snap)

	name, ev := s.next(client)
	s.Equal(events.StreamGameUpdate, name)
	s.Equal(string(model.EventGameStarted), ev.Type)

	name, ev = s.next(client)
	s.Equal(events.StreamGameUpdate, name)
	s.Require().NotNil(ev.Draw)
	s.Equal(7, ev.Draw.Card)

	_, ev = s.next(client)
	s.Equal(string(model.EventPlayerStayed), ev.Type)

	name, ev = s.next(client)
	s.Equal(events.StreamGameComplete, name)
	s.Require().NotNil(ev.Result)
	s.Equal([]string{"A"}, ev.Result.Winners)

	// The completion event carries the final snapshot
	s.Require().NotNil(ev.Snapshot)
	s.Equal(snap.Version, ev.Snapshot.Version)
}

func (s *IntegrationSuite) TestReaperExpiresIdleLobbyAndClosesStreams() {
	s.app.MockRandom.QueueString("IDLE01")

	snap, err := s.app.LobbyController.CreateLobby(s.ctx, "A")
	s.Require().NoError(err)
	code := snap.LobbyCode
	client := s.subscribe(code)

	s.app.MockClock.Advance(30 * time.Second)
	s.Empty(s.app.Reaper.Reap())

	s.app.MockClock.Advance(31 * time.Second)
	s.Equal([]model.LobbyCode{code}, s.app.Reaper.Reap())

	name, ev := s.next(client)
	s.Equal(events.StreamSessionExpired, name)
	s.Equal(string(code), ev.LobbyCode)

	_, ok := <-client.Messages()
	s.False(ok)
	s.Nil(s.app.HubManager.GetHub(code))

	_, err = s.app.LobbyController.Get(s.ctx, code)
	s.ErrorIs(err, model.ErrLobbyNotFound)
	_, _, err = s.app.GameController.Draw(s.ctx, code, "A")
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

func (s *IntegrationSuite) TestActivityKeepsGameAlive() {
	s.app.MockRandom.QueueString("BUSY01", "GAME05")
	s.app.QueueDraws(1, 2, 3)

	snap, err := s.app.LobbyController.CreateLobby(s.ctx, "A")
	s.Require().NoError(err)
	code := snap.LobbyCode
	_, err = s.app.LobbyController.Start(s.ctx, code, "A")
	s.Require().NoError(err)

	for range 3 {
		s.app.MockClock.Advance(100 * time.Second)
		_, _, err = s.app.GameController.Draw(s.ctx, code, "A")
		s.Require().NoError(err)
		s.Empty(s.app.Reaper.Reap())
	}

	s.app.MockClock.Advance(121 * time.Second)
	s.Equal([]model.LobbyCode{code}, s.app.Reaper.Reap())
}
