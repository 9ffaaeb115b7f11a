package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medimatch/api/model"
	"github.com/medimatch/api/store"
)

// Lifecycle drives match creation and chat appends on top of a Store.
type Lifecycle struct {
	Store store.Store
}

// Accept records a mutual-interest match between the user and the facility.
// A repeat accept of the same facility returns the existing match unchanged;
// the caller cannot tell the difference and does not need to. A left-swipe
// persists nothing, so there is no Reject counterpart here.
func (l *Lifecycle) Accept(ctx context.Context, userEmail string, hospital model.HospitalProfile) (model.Match, error) {
	match := model.Match{
		ID:        uuid.NewString(),
		UserEmail: model.NormalizeEmail(userEmail),
	}
	if err := match.SetHospitalSnapshot(hospital); err != nil {
		return model.Match{}, fmt.Errorf("accept: %w", err)
	}
	stored, err := l.Store.SaveMatch(ctx, match)
	if err != nil {
		return model.Match{}, fmt.Errorf("accept: %w", err)
	}
	return stored, nil
}

// AppendMessage adds one immutable chat message to a match thread and bumps
// the global message counter. Valid senders are model.SenderUser and
// model.SenderHospital. The returned match is the persisted state; on a store
// failure nothing is appended and the error surfaces to the caller.
func (l *Lifecycle) AppendMessage(ctx context.Context, matchID, sender, text string) (model.Match, error) {
	if sender != model.SenderUser && sender != model.SenderHospital {
		return model.Match{}, fmt.Errorf("append message: invalid sender %q", sender)
	}
	match, err := l.Store.GetMatch(ctx, matchID)
	if err != nil {
		return model.Match{}, fmt.Errorf("append message: %w", err)
	}
	match.Messages = append(match.Messages, model.ChatMessage{
		ID:        uuid.NewString(),
		MatchID:   match.ID,
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	})
	match.LastMessage = text
	if err := l.Store.UpdateMatch(ctx, match); err != nil {
		return model.Match{}, fmt.Errorf("append message: %w", err)
	}
	if err := l.Store.IncrementStat(ctx, store.StatMessage, ""); err != nil {
		return model.Match{}, fmt.Errorf("append message: %w", err)
	}
	return match, nil
}
