package booking

import (
	"context"

	"go.uber.org/zap"

	"expertbook/internal/client"
)

// Backend is the pair of calls the booking flow makes.
type Backend interface {
	FindMatch(ctx context.Context, req client.MatchRequest) (*client.Match, error)
	ConfirmBooking(ctx context.Context, m *client.Match) (*client.ConfirmResponse, error)
}

// Message ids for the two confirmation outcomes.
const (
	MsgConfirmed = "confirm.success"
	MsgRecorded  = "confirm.recorded"
)

// Outcome is the result of a best-effort call. Err is kept for
// inspection but callers proceed the same way whether or not it is set.
type Outcome struct {
	Err error
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// MessageID is the reassuring text to show before the session resets.
func (o Outcome) MessageID() string {
	if o.Succeeded() {
		return MsgConfirmed
	}
	return MsgRecorded
}

// BestEffort runs op and swallows its error after logging it.
func BestEffort(ctx context.Context, logger *zap.Logger, name string, op func(context.Context) error) Outcome {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := op(ctx); err != nil {
		logger.Warn("best-effort call failed", zap.String("op", name), zap.Error(err))
		return Outcome{Err: err}
	}
	return Outcome{}
}

// ConfirmBooking reports a confirmed match to the backend, best-effort.
func ConfirmBooking(ctx context.Context, b Backend, logger *zap.Logger, m *client.Match) Outcome {
	return BestEffort(ctx, logger, "confirm_booking", func(ctx context.Context) error {
		_, err := b.ConfirmBooking(ctx, m)
		return err
	})
}
