package tipping

import (
	"context"
	"time"
)

// DefaultWeeklyAllowance is the point volume a sender may tip out per week.
const DefaultWeeklyAllowance int64 = 500

// SpendStore reports accepted tip volume for a sender since a point in time.
type SpendStore interface {
	WeeklySpend(ctx context.Context, senderKey string, since time.Time) (int64, error)
}

// Ledger computes remaining weekly allowance for a sender. The value it
// returns is advisory: the authoritative check is re-run inside the commit
// transaction, so two concurrent tips from one sender cannot both pass.
type Ledger struct {
	Cap   int64
	Week  WeekFunc
	Store SpendStore
}

func NewLedger(cap int64, week WeekFunc, store SpendStore) *Ledger {
	if cap <= 0 {
		cap = DefaultWeeklyAllowance
	}
	return &Ledger{Cap: cap, Week: week, Store: store}
}

// Remaining returns the sender's unspent allowance for the week containing now.
func (l *Ledger) Remaining(ctx context.Context, senderKey string, now time.Time) (int64, error) {
	spent, err := l.Store.WeeklySpend(ctx, senderKey, l.Week(now))
	if err != nil {
		return 0, err
	}
	remaining, _ := CheckSpend(l.Cap, spent, 0)
	return remaining, nil
}

// CheckSpend applies the weekly cap to a proposed tip given the volume the
// sender has already spent this week. remaining is the unspent allowance
// before the tip, clamped at zero; ok reports whether the tip fits. Commit
// transactions run this against the in-transaction weekly sum, so a tip of
// exactly the remaining allowance passes and one point more does not.
func CheckSpend(cap, spent, amount int64) (remaining int64, ok bool) {
	remaining = cap - spent
	if remaining < 0 {
		remaining = 0
	}
	return remaining, amount <= remaining
}
