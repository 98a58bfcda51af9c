package points

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/NestcoinCo/bren/bren/tipping"
)

var (
	ErrUnknownEvent    = errors.New("invalid event")
	ErrUnknownPlatform = errors.New("invalid platform")
	ErrAmountForbidden = errors.New("amount should not be provided for this event")
	ErrAmountRequired  = errors.New("a positive amount is required for this event")
)

// Input is one declared business event for a wallet.
type Input struct {
	WalletAddress  string
	Event          Kind
	Platform       Platform
	Amount         *int64
	AdditionalData json.RawMessage
	Name           string
	Email          string
}

// Receipt reports the credited points and the wallet's lifetime total.
type Receipt struct {
	UserID       int64
	Wallet       string
	PointsEarned int64
	TotalPoints  int64
}

// Record is everything the store persists for one accepted event, in one
// transaction: lazy user create, immutable point-event insert, weekly and
// ranking increments, lifetime-total readback.
type Record struct {
	WalletAddress  string
	Name           string
	Email          string
	Event          Kind
	Platform       Platform
	Amount         *int64
	Points         int64
	AdditionalData json.RawMessage
	WeekStart      time.Time
}

type Store interface {
	Apply(ctx context.Context, rec Record) (Receipt, error)
}

// Processor validates declared events against the point table and applies
// them atomically.
type Processor struct {
	store Store
	week  tipping.WeekFunc
	now   func() time.Time
}

func NewProcessor(store Store, week tipping.WeekFunc) *Processor {
	return &Processor{store: store, week: week, now: time.Now}
}

// Apply validates in and credits points. Validation failures are client
// errors; only store failures come back wrapped as internal errors.
func (p *Processor) Apply(ctx context.Context, in Input) (Receipt, error) {
	if !ValidKind(in.Event) {
		return Receipt{}, ErrUnknownEvent
	}
	if !ValidPlatform(in.Platform) {
		return Receipt{}, ErrUnknownPlatform
	}

	if RequiresAmount(in.Event) {
		if in.Amount == nil || *in.Amount <= 0 {
			return Receipt{}, fmt.Errorf("%w: %s", ErrAmountRequired, in.Event)
		}
	} else if in.Amount != nil {
		return Receipt{}, fmt.Errorf("%w: %s", ErrAmountForbidden, in.Event)
	}

	var amount int64
	if in.Amount != nil {
		amount = *in.Amount
	}
	earned, err := Points(in.Event, amount)
	if err != nil {
		return Receipt{}, ErrUnknownEvent
	}

	receipt, err := p.store.Apply(ctx, Record{
		WalletAddress:  in.WalletAddress,
		Name:           in.Name,
		Email:          in.Email,
		Event:          in.Event,
		Platform:       in.Platform,
		Amount:         in.Amount,
		Points:         earned,
		AdditionalData: in.AdditionalData,
		WeekStart:      p.week(p.now()),
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to record point event: %w", err)
	}

	slog.Info("Point event recorded",
		slog.String("wallet", receipt.Wallet),
		slog.String("event", string(in.Event)),
		slog.String("platform", string(in.Platform)),
		slog.Int64("points", receipt.PointsEarned))

	return receipt, nil
}
