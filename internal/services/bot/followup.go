package bot

import (
	"context"
	"log/slog"

	"github.com/mcoot/flip7/internal/model"
)

// Announcer streams each bot move as it is applied
type Announcer interface {
	CardDrawn(outcome *model.DrawOutcome, snap *model.Snapshot)
	PlayerStayed(outcome *model.StayOutcome, snap *model.Snapshot)
}

// FollowUp plays any bot turns that follow a human action and announces them.
// It returns the latest snapshot, or snap if no bot was on turn. Bot failures
// are logged and never undo the human action.
func (s *Service) FollowUp(ctx context.Context, code model.LobbyCode, snap *model.Snapshot, announce Announcer) *model.Snapshot {
	if snap.Phase != model.PhasePlaying {
		return snap
	}

	actions, err := s.PlayTurns(ctx, code)
	if err != nil {
		s.logger.Error("bot turns failed",
			slog.String("lobby_code", string(code)),
			slog.Any("error", err))
	}

	for _, action := range actions {
		switch action.Type {
		case ActionDraw:
			announce.CardDrawn(action.Draw, action.Snapshot)
		case ActionStay:
			announce.PlayerStayed(action.Stay, action.Snapshot)
		}
		snap = action.Snapshot
	}
	return snap
}
