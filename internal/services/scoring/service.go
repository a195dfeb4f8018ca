package scoring

import (
	"sort"

	"github.com/mcoot/flip7/internal/model"
)

// Service builds scoreboards for games
type Service struct{}

// New creates a new ScoringService
func New() *Service {
	return &Service{}
}

// Standings returns every roster member's score and status, highest first.
// Active players are scored on their live hand sum. Equal scores keep roster
// order.
func (s *Service) Standings(game *model.Game) []model.Standing {
	standings := make([]model.Standing, 0, len(game.Roster))
	for _, id := range game.Roster {
		standings = append(standings, model.Standing{
			PlayerID: id,
			Score:    game.Score(id),
			Status:   game.Status(id),
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})

	return standings
}

// Winners returns every player holding the top score.
// A tie is reported as multiple winners; nothing breaks it.
func (s *Service) Winners(standings []model.Standing) []model.PlayerID {
	if len(standings) == 0 {
		return nil
	}

	best := standings[0].Score
	for _, st := range standings[1:] {
		if st.Score > best {
			best = st.Score
		}
	}

	var winners []model.PlayerID
	for _, st := range standings {
		if st.Score == best {
			winners = append(winners, st.PlayerID)
		}
	}
	return winners
}

// Result builds the durable record for a finished game
func (s *Service) Result(game *model.Game) *model.GameResult {
	standings := s.Standings(game)
	return &model.GameResult{
		GameID:      game.ID,
		LobbyCode:   game.LobbyCode,
		Standings:   standings,
		Winners:     s.Winners(standings),
		CompletedAt: game.UpdatedAt,
	}
}
