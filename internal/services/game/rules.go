package game

import (
	"github.com/mcoot/flip7/internal/model"
)

// checkTurn validates that the player may act on the game right now
func checkTurn(g *model.Game, player model.PlayerID) error {
	if g.State == model.GameStateFinished {
		return model.ErrGameComplete
	}
	if g.CurrentPlayer() != player {
		return model.ErrNotYourTurn
	}
	return nil
}

// applyDraw adds card to the current player's hand.
// A duplicate busts the player: their final score is 0 and the turn moves on.
// Otherwise the card is kept and the same player remains on turn.
func applyDraw(g *model.Game, player model.PlayerID, card int) model.DrawOutcome {
	outcome := model.DrawOutcome{
		PlayerID: player,
		Card:     card,
	}

	if g.HandContains(player, card) {
		g.FinalScores[player] = 0
		g.Busted[player] = true
		advanceTurn(g)

		outcome.Busted = true
		outcome.Score = 0
	} else {
		g.Hands[player] = append(g.Hands[player], card)
		outcome.Score = g.HandSum(player)
	}

	outcome.GameOver = g.State == model.GameStateFinished
	if !outcome.GameOver {
		outcome.NextPlayer = g.CurrentPlayer()
	}
	return outcome
}

// applyStay banks the current player's hand sum and moves the turn on
func applyStay(g *model.Game, player model.PlayerID) model.StayOutcome {
	score := g.HandSum(player)
	g.FinalScores[player] = score
	advanceTurn(g)

	outcome := model.StayOutcome{
		PlayerID: player,
		Score:    score,
		GameOver: g.State == model.GameStateFinished,
	}
	if !outcome.GameOver {
		outcome.NextPlayer = g.CurrentPlayer()
	}
	return outcome
}

// advanceTurn finishes the game if every player has a final score, otherwise
// moves TurnIdx forward (wrapping) to the next player without one
func advanceTurn(g *model.Game) {
	if g.IsTerminal() {
		g.State = model.GameStateFinished
		return
	}

	n := len(g.Roster)
	for range n {
		g.TurnIdx = (g.TurnIdx + 1) % n
		if !g.HasFinalScore(g.Roster[g.TurnIdx]) {
			return
		}
	}
}
