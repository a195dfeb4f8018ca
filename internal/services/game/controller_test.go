package game

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/flip7/internal/dependencies/mocks"
	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/registry"
	"github.com/mcoot/flip7/internal/services/deck"
	"github.com/mcoot/flip7/internal/services/scoring"
	"github.com/mcoot/flip7/internal/storage/memory"
	"github.com/mcoot/flip7/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	registry   *registry.Registry
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.registry = registry.New(s.clock, registry.DefaultConfig())
	s.controller = NewController(
		s.registry,
		s.storage,
		deck.New(s.random),
		scoring.New(),
		s.clock,
		s.random,
		testutil.NopLogger(),
	)
	s.ctx = context.Background()
}

// startGame registers a started session for the roster
func (s *ControllerSuite) startGame(code model.LobbyCode, roster ...model.PlayerID) *model.Snapshot {
	lob := &model.Lobby{
		Code:    code,
		Creator: roster[0],
		Roster:  roster,
		State:   model.LobbyStateWaiting,
	}
	s.Require().NoError(s.registry.Create(lob))

	s.random.QueueString("GAME" + string(code))
	var snap *model.Snapshot
	s.Require().NoError(s.registry.Do(code, func(sess *registry.Session) error {
		sess.Game = s.controller.NewGame(sess.Lobby)
		sess.Lobby.State = model.LobbyStateStarted
		sess.Lobby.GameID = sess.Game.ID
		snap = s.controller.BuildSnapshot(sess)
		return nil
	}))
	return snap
}

func (s *ControllerSuite) game(code model.LobbyCode) *model.Game {
	var g *model.Game
	s.Require().NoError(s.registry.View(code, func(sess *registry.Session) error {
		g = sess.Game
		return nil
	}))
	return g
}

// NewGame tests

func (s *ControllerSuite) TestNewGameStartsWithEmptyHands() {
	snap := s.startGame("LOBBY1", "alice", "bob")

	s.Equal(model.PhasePlaying, snap.Phase)
	s.Equal(model.PlayerID("alice"), snap.CurrentPlayer)
	s.Equal(model.GameID("GAMELOBBY1"), snap.GameID)
	s.Require().Len(snap.Players, 2)
	for _, p := range snap.Players {
		s.Empty(p.Hand)
		s.Equal(model.StatusActive, p.Status)
		s.Equal(0, p.Score)
	}

	g := s.game("LOBBY1")
	s.Equal(0, g.TurnIdx)
	s.Empty(g.FinalScores)
}

func (s *ControllerSuite) TestNewGameCopiesRoster() {
	lob := &model.Lobby{Code: "LOBBY1", Creator: "alice", Roster: []model.PlayerID{"alice", "bob"}}
	g := s.controller.NewGame(lob)

	lob.Roster[1] = "mallory"
	s.Equal([]model.PlayerID{"alice", "bob"}, g.Roster)
}

// Draw tests

func (s *ControllerSuite) TestDrawAppendsCardAndKeepsTurn() {
	s.startGame("LOBBY1", "alice", "bob")
	s.random.QueueCards(3, 7)

	outcome, snap, err := s.controller.Draw(s.ctx, "LOBBY1", "alice")
	s.Require().NoError(err)
	s.Equal(3, outcome.Card)
	s.False(outcome.Busted)
	s.Equal(3, outcome.Score)
	s.Equal(model.PlayerID("alice"), outcome.NextPlayer)
	s.Equal(model.PlayerID("alice"), snap.CurrentPlayer)

	_, snap, err = s.controller.Draw(s.ctx, "LOBBY1", "alice")
	s.Require().NoError(err)
	s.Equal([]int{3, 7}, snap.Players[0].Hand)
	s.Equal(10, snap.Players[0].Score)
	s.Equal(model.PlayerID("alice"), snap.CurrentPlayer)
}

func (s *ControllerSuite) TestDrawNotYourTurn() {
	s.startGame("LOBBY1", "alice", "bob")
	s.random.QueueCards(5)

	_, _, err := s.controller.Draw(s.ctx, "LOBBY1", "bob")
	s.ErrorIs(err, model.ErrNotYourTurn)

	// Rejected action consumes no card and changes nothing
	g := s.game("LOBBY1")
	s.Empty(g.Hands["bob"])
	s.Equal(0, g.TurnIdx)

	outcome, _, err := s.controller.Draw(s.ctx, "LOBBY1", "alice")
	s.Require().NoError(err)
	s.Equal(5, outcome.Card)
}

func (s *ControllerSuite) TestDrawByStrangerIsNotYourTurn() {
	s.startGame("LOBBY1", "alice")

	_, _, err := s.controller.Draw(s.ctx, "LOBBY1", "mallory")
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *ControllerSuite) TestDuplicateBustsAndAdvances() {
	s.startGame("LOBBY1", "alice", "bob")
	s.random.QueueCards(6, 6)

	_, _, err := s.controller.Draw(s.ctx, "LOBBY1", "alice")
	s.Require().NoError(err)

	outcome, snap, err := s.controller.Draw(s.ctx, "LOBBY1", "alice")
	s.Require().NoError(err)
	s.True(outcome.Busted)
	s.Equal(0, outcome.Score)
	s.False(outcome.GameOver)
	s.Equal(model.PlayerID("bob"), outcome.NextPlayer)

	s.Equal(model.StatusBusted, snap.Players[0].Status)
	s.Equal(0, snap.Players[0].Score)
	s.Equal(model.PlayerID("bob"), snap.CurrentPlayer)

	g := s.game("LOBBY1")
	s.Equal(0, g.FinalScores["alice"])
	s.True(g.Busted["alice"])
}

func (s *ControllerSuite) TestDrawBeforeStart() {
	s.Require().NoError(s.registry.Create(&model.Lobby{
		Code: "LOBBY1", Creator: "alice", Roster: []model.PlayerID{"alice"},
	}))

	_, _, err := s.controller.Draw(s.ctx, "LOBBY1", "alice")
	s.ErrorIs(err, model.ErrNoGameInProgress)
}

func (s *ControllerSuite) TestDrawUnknownLobby() {
	_, _, err := s.controller.Draw(s.ctx, "NOPE", "alice")
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

// Stay tests

func (s *ControllerSuite) TestStayBanksHandSum() {
	s.startGame("LOBBY1", "alice", "bob")
	s.random.QueueCards(4, 8)

	_, _, _ = s.controller.Draw(s.ctx, "LOBBY1", "alice")
	_, _, _ = s.controller.Draw(s.ctx, "LOBBY1", "alice")

	outcome, snap, err := s.controller.Stay(s.ctx, "LOBBY1", "alice")
	s.Require().NoError(err)
	s.Equal(12, outcome.Score)
	s.Equal(model.PlayerID("bob"), outcome.NextPlayer)
	s.Equal(model.StatusBanked, snap.Players[0].Status)
	s.Equal(12, snap.Players[0].Score)
}

func (s *ControllerSuite) TestStayWithEmptyHandBanksZero() {
	s.startGame("LOBBY1", "alice", "bob")

	outcome, snap, err := s.controller.Stay(s.ctx, "LOBBY1", "alice")
	s.Require().NoError(err)
	s.Equal(0, outcome.Score)
	s.Equal(model.StatusBanked, snap.Players[0].Status)
}

func (s *ControllerSuite) TestStayNotYourTurn() {
	s.startGame("LOBBY1", "alice", "bob")

	_, _, err := s.controller.Stay(s.ctx, "LOBBY1", "bob")
	s.ErrorIs(err, model.ErrNotYourTurn)
	s.False(s.game("LOBBY1").HasFinalScore("bob"))
}

// Turn advancement tests

func (s *ControllerSuite) TestTurnSkipsPlayersWithFinalScores() {
	s.startGame("LOBBY1", "a", "b", "c")

	_, _, err := s.controller.Stay(s.ctx, "LOBBY1", "a")
	s.Require().NoError(err)
	_, _, err = s.controller.Stay(s.ctx, "LOBBY1", "b")
	s.Require().NoError(err)

	// c is the only active player: stays on turn after a safe draw
	s.random.QueueCards(2)
	outcome, _, err := s.controller.Draw(s.ctx, "LOBBY1", "c")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("c"), outcome.NextPlayer)
}

func (s *ControllerSuite) TestTurnWrapsPastBankedPlayers() {
	s.startGame("LOBBY1", "a", "b", "c")

	// After c stays the scan wraps past a and b, finding nobody active
	_, _, _ = s.controller.Stay(s.ctx, "LOBBY1", "a")

	s.random.QueueCards(9)
	_, _, err := s.controller.Draw(s.ctx, "LOBBY1", "b")
	s.Require().NoError(err)
	outcome, _, err := s.controller.Stay(s.ctx, "LOBBY1", "b")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("c"), outcome.NextPlayer)

	stay, snap, err := s.controller.Stay(s.ctx, "LOBBY1", "c")
	s.Require().NoError(err)
	s.True(stay.GameOver)
	s.Empty(stay.NextPlayer)
	s.Equal(model.PhaseFinished, snap.Phase)
	s.Equal([]model.PlayerID{"b"}, snap.Winners)
}

// Scenario tests

func (s *ControllerSuite) TestTwoPlayerGameHigherScoreWins() {
	s.startGame("LOBBY1", "A", "B")
	s.random.QueueCards(3, 5)

	outcome, snap, err := s.controller.Draw(s.ctx, "LOBBY1", "A")
	s.Require().NoError(err)
	s.Equal(3, outcome.Card)
	s.Equal([]int{3}, snap.Players[0].Hand)
	s.Equal(model.StatusActive, snap.Players[0].Status)

	// Only bust or stay moves the turn, so B cannot act yet
	_, _, err = s.controller.Draw(s.ctx, "LOBBY1", "B")
	s.ErrorIs(err, model.ErrNotYourTurn)

	stay, _, err := s.controller.Stay(s.ctx, "LOBBY1", "A")
	s.Require().NoError(err)
	s.Equal(3, stay.Score)
	s.Equal(model.PlayerID("B"), stay.NextPlayer)

	outcome, _, err = s.controller.Draw(s.ctx, "LOBBY1", "B")
	s.Require().NoError(err)
	s.Equal(5, outcome.Card)

	stay, snap, err = s.controller.Stay(s.ctx, "LOBBY1", "B")
	s.Require().NoError(err)
	s.True(stay.GameOver)

	s.True(snap.IsFinished())
	s.Empty(snap.CurrentPlayer)
	s.Equal([]model.PlayerID{"B"}, snap.Winners)
	s.Equal(model.Standing{PlayerID: "B", Score: 5, Status: model.StatusBanked}, snap.Standings[0])
	s.Equal(model.Standing{PlayerID: "A", Score: 3, Status: model.StatusBanked}, snap.Standings[1])

	g := s.game("LOBBY1")
	s.Equal(map[model.PlayerID]int{"A": 3, "B": 5}, g.FinalScores)
	s.True(g.IsTerminal())
}

func (s *ControllerSuite) TestSoloBustEndsGameImmediately() {
	s.startGame("LOBBY1", "A")
	s.random.QueueCards(4, 9, 4)

	_, _, err := s.controller.Draw(s.ctx, "LOBBY1", "A")
	s.Require().NoError(err)
	_, _, err = s.controller.Draw(s.ctx, "LOBBY1", "A")
	s.Require().NoError(err)

	outcome, snap, err := s.controller.Draw(s.ctx, "LOBBY1", "A")
	s.Require().NoError(err)
	s.True(outcome.Busted)
	s.True(outcome.GameOver)
	s.Equal(model.PhaseFinished, snap.Phase)
	s.Equal(map[model.PlayerID]int{"A": 0}, s.game("LOBBY1").FinalScores)

	// The finished game accepts no further actions
	_, _, err = s.controller.Draw(s.ctx, "LOBBY1", "A")
	s.ErrorIs(err, model.ErrGameComplete)
	_, _, err = s.controller.Stay(s.ctx, "LOBBY1", "A")
	s.ErrorIs(err, model.ErrGameComplete)
}

func (s *ControllerSuite) TestTiedWinnersAreAllReported() {
	s.startGame("LOBBY1", "A", "B")
	s.random.QueueCards(7, 7)

	_, _, _ = s.controller.Draw(s.ctx, "LOBBY1", "A")
	_, _, _ = s.controller.Stay(s.ctx, "LOBBY1", "A")
	_, _, _ = s.controller.Draw(s.ctx, "LOBBY1", "B")
	_, snap, err := s.controller.Stay(s.ctx, "LOBBY1", "B")
	s.Require().NoError(err)

	s.Equal([]model.PlayerID{"A", "B"}, snap.Winners)
}

// turnAction is one scripted request from a player
type turnAction struct {
	player model.PlayerID
	stay   bool
}

// deliver sends actions in order; an out-of-turn action is retried after the rest
func (s *ControllerSuite) deliver(code model.LobbyCode, pending ...turnAction) *model.Snapshot {
	var snap *model.Snapshot
	for attempts := 0; len(pending) > 0; attempts++ {
		s.Require().Less(attempts, 100)
		a := pending[0]
		pending = pending[1:]

		var err error
		if a.stay {
			_, snap, err = s.controller.Stay(s.ctx, code, a.player)
		} else {
			_, snap, err = s.controller.Draw(s.ctx, code, a.player)
		}
		if errors.Is(err, model.ErrNotYourTurn) {
			pending = append(pending, a)
			continue
		}
		s.Require().NoError(err)
	}
	return snap
}

func (s *ControllerSuite) TestStandingsIndependentOfDeliveryOrder() {
	draw := func(p model.PlayerID) turnAction { return turnAction{player: p} }
	stay := func(p model.PlayerID) turnAction { return turnAction{player: p, stay: true} }

	s.startGame("LOBBY1", "A", "B")
	s.random.QueueCards(3, 5, 8, 8)
	inTurn := s.deliver("LOBBY1", draw("A"), draw("A"), stay("A"), draw("B"), draw("B"))

	s.startGame("LOBBY2", "A", "B")
	s.random.QueueCards(3, 5, 8, 8)
	interleaved := s.deliver("LOBBY2", draw("B"), draw("A"), draw("B"), draw("A"), stay("A"))

	s.Require().True(inTurn.IsFinished())
	s.Require().True(interleaved.IsFinished())
	s.Equal(inTurn.Standings, interleaved.Standings)

	total := func(snap *model.Snapshot) int {
		sum := 0
		for _, st := range snap.Standings {
			sum += st.Score
		}
		return sum
	}
	s.Equal(8, total(inTurn))
	s.Equal(total(inTurn), total(interleaved))
	s.Equal(model.Standing{PlayerID: "B", Score: 0, Status: model.StatusBusted}, interleaved.Standings[1])
}

// Result persistence tests

func (s *ControllerSuite) TestFinishedGameResultIsSaved() {
	s.startGame("LOBBY1", "A")
	s.random.QueueCards(10)

	_, _, _ = s.controller.Draw(s.ctx, "LOBBY1", "A")
	_, _, err := s.controller.Stay(s.ctx, "LOBBY1", "A")
	s.Require().NoError(err)

	result, err := s.storage.GetGameResult(s.ctx, "GAMELOBBY1")
	s.Require().NoError(err)
	s.Equal(model.LobbyCode("LOBBY1"), result.LobbyCode)
	s.Equal([]model.PlayerID{"A"}, result.Winners)
	s.Equal(10, result.Standings[0].Score)
}

func (s *ControllerSuite) TestUnfinishedGameSavesNoResult() {
	s.startGame("LOBBY1", "A", "B")
	_, _, _ = s.controller.Stay(s.ctx, "LOBBY1", "A")

	_, err := s.storage.GetGameResult(s.ctx, "GAMELOBBY1")
	s.ErrorIs(err, model.ErrResultNotFound)
}

// Snapshot tests

func (s *ControllerSuite) TestSnapshotVersionIncreasesPerAction() {
	start := s.startGame("LOBBY1", "A", "B")
	s.random.QueueCards(2)

	_, snap, err := s.controller.Draw(s.ctx, "LOBBY1", "A")
	s.Require().NoError(err)
	s.Equal(start.Version+1, snap.Version)

	_, _, err = s.controller.Draw(s.ctx, "LOBBY1", "B")
	s.Require().Error(err)

	current, err := s.controller.Snapshot(s.ctx, "LOBBY1")
	s.Require().NoError(err)
	s.Equal(snap.Version, current.Version)
}

func (s *ControllerSuite) TestSnapshotIsACopy() {
	s.startGame("LOBBY1", "A")
	s.random.QueueCards(2)
	_, snap, err := s.controller.Draw(s.ctx, "LOBBY1", "A")
	s.Require().NoError(err)

	snap.Players[0].Hand[0] = 11
	snap.Roster[0] = "mallory"

	g := s.game("LOBBY1")
	s.Equal([]int{2}, g.Hands["A"])
	s.Equal(model.PlayerID("A"), g.Roster[0])
}

func (s *ControllerSuite) TestCurrentPlayer() {
	s.startGame("LOBBY1", "A", "B")

	current, err := s.controller.CurrentPlayer(s.ctx, "LOBBY1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("A"), current)

	_, _, _ = s.controller.Stay(s.ctx, "LOBBY1", "A")
	_, _, _ = s.controller.Stay(s.ctx, "LOBBY1", "B")

	_, err = s.controller.CurrentPlayer(s.ctx, "LOBBY1")
	s.ErrorIs(err, model.ErrGameComplete)
}

// Concurrency tests

func (s *ControllerSuite) TestConcurrentActionsAreSerialised() {
	s.startGame("LOBBY1", "A", "B")

	// Every goroutine retries until its stay lands or the game is over;
	// exactly one stay per player may succeed
	var wg sync.WaitGroup
	var landed atomic.Int32
	for range 20 {
		for _, p := range []model.PlayerID{"A", "B"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					_, _, err := s.controller.Stay(s.ctx, "LOBBY1", p)
					if err == nil {
						landed.Add(1)
						return
					}
					if errors.Is(err, model.ErrGameComplete) {
						return
					}
				}
			}()
		}
	}
	wg.Wait()

	s.Equal(int32(2), landed.Load())
	g := s.game("LOBBY1")
	s.True(g.IsTerminal())
	s.Equal(map[model.PlayerID]int{"A": 0, "B": 0}, g.FinalScores)
}

func (s *ControllerSuite) TestIndependentSessionsDoNotInterfere() {
	s.startGame("LOBBY1", "A")
	s.startGame("LOBBY2", "B")

	_, _, err := s.controller.Stay(s.ctx, "LOBBY1", "A")
	s.Require().NoError(err)

	g := s.game("LOBBY2")
	s.Equal(model.GameStatePlaying, g.State)
	s.Equal(model.PlayerID("B"), g.CurrentPlayer())
}
