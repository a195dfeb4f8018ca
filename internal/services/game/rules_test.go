package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/flip7/internal/model"
)

func newRulesGame(roster ...model.PlayerID) *model.Game {
	return &model.Game{
		State:       model.GameStatePlaying,
		Roster:      roster,
		Hands:       map[model.PlayerID][]int{},
		FinalScores: map[model.PlayerID]int{},
		Busted:      map[model.PlayerID]bool{},
	}
}

func TestAdvanceTurnWrapsToEarlierActivePlayer(t *testing.T) {
	g := newRulesGame("a", "b", "c")
	g.TurnIdx = 2
	g.FinalScores["b"] = 4
	g.FinalScores["c"] = 0

	advanceTurn(g)

	assert.Equal(t, 0, g.TurnIdx)
	assert.Equal(t, model.GameStatePlaying, g.State)
}

func TestAdvanceTurnSkipsFinishedPlayers(t *testing.T) {
	g := newRulesGame("a", "b", "c", "d")
	g.FinalScores["a"] = 3
	g.FinalScores["b"] = 0
	g.FinalScores["c"] = 9

	advanceTurn(g)

	assert.Equal(t, model.PlayerID("d"), g.CurrentPlayer())
}

func TestAdvanceTurnEndsGameWhenNobodyIsActive(t *testing.T) {
	g := newRulesGame("a", "b")
	g.TurnIdx = 1
	g.FinalScores["a"] = 3
	g.FinalScores["b"] = 5

	advanceTurn(g)

	assert.Equal(t, model.GameStateFinished, g.State)
	assert.Equal(t, 1, g.TurnIdx)
}

func TestAdvanceTurnNeverPicksAFinishedPlayer(t *testing.T) {
	roster := []model.PlayerID{"a", "b", "c", "d", "e"}
	for start := range roster {
		for active := range roster {
			g := newRulesGame(roster...)
			g.TurnIdx = start
			for i, id := range roster {
				if i != active {
					g.FinalScores[id] = i
				}
			}

			advanceTurn(g)

			assert.Equal(t, roster[active], g.CurrentPlayer(), "start=%d active=%d", start, active)
			assert.False(t, g.HasFinalScore(g.CurrentPlayer()))
		}
	}
}

func TestApplyDrawHandGrowsByOne(t *testing.T) {
	g := newRulesGame("a", "b")

	for i, card := range []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12} {
		outcome := applyDraw(g, "a", card)
		assert.False(t, outcome.Busted)
		assert.Len(t, g.Hands["a"], i+1)
		assert.Equal(t, 0, g.TurnIdx)
	}
	assert.Equal(t, 78, g.HandSum("a"))
}

func TestApplyStayRecordsHandSum(t *testing.T) {
	g := newRulesGame("a", "b")
	g.Hands["a"] = []int{2, 11}

	outcome := applyStay(g, "a")

	assert.Equal(t, 13, outcome.Score)
	assert.Equal(t, 13, g.FinalScores["a"])
	assert.Equal(t, model.PlayerID("b"), outcome.NextPlayer)
	assert.False(t, g.Busted["a"])
}

func TestCheckTurn(t *testing.T) {
	g := newRulesGame("a", "b")

	assert.NoError(t, checkTurn(g, "a"))
	assert.ErrorIs(t, checkTurn(g, "b"), model.ErrNotYourTurn)

	g.State = model.GameStateFinished
	assert.ErrorIs(t, checkTurn(g, "a"), model.ErrGameComplete)
}
