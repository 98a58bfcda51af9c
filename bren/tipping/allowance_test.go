package tipping

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSpendStore struct {
	spent int64
	since time.Time
	err   error
}

func (f *fakeSpendStore) WeeklySpend(_ context.Context, _ string, since time.Time) (int64, error) {
	f.since = since
	return f.spent, f.err
}

func Test_Ledger_Remaining(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) // Wednesday

	tests := []struct {
		name    string
		cap     int64
		spent   int64
		want    int64
		wantErr bool
	}{
		{name: "nothing spent", cap: 500, spent: 0, want: 500},
		{name: "partial spend", cap: 500, spent: 120, want: 380},
		{name: "fully spent", cap: 500, spent: 500, want: 0},
		{name: "overspent clamps to zero", cap: 500, spent: 600, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeSpendStore{spent: tt.spent}
			l := NewLedger(tt.cap, SundayLocal, store)

			got, err := l.Remaining(context.Background(), "alice", now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Remaining() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Remaining() = %d, want %d", got, tt.want)
			}

			wantSince := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
			if !store.since.Equal(wantSince) {
				t.Errorf("week start passed to store = %v, want %v", store.since, wantSince)
			}
		})
	}
}

func Test_Ledger_Remaining_storeError(t *testing.T) {
	store := &fakeSpendStore{err: errors.New("boom")}
	l := NewLedger(500, SundayLocal, store)
	if _, err := l.Remaining(context.Background(), "alice", time.Now()); err == nil {
		t.Error("expected store error to propagate")
	}
}

func Test_CheckSpend(t *testing.T) {
	tests := []struct {
		name          string
		cap           int64
		spent         int64
		amount        int64
		wantRemaining int64
		wantOK        bool
	}{
		{name: "first tip fits", cap: 500, spent: 0, amount: 50, wantRemaining: 500, wantOK: true},
		{name: "exactly the cap fits", cap: 500, spent: 0, amount: 500, wantRemaining: 500, wantOK: true},
		{name: "one over the cap rejected", cap: 500, spent: 0, amount: 501, wantRemaining: 500, wantOK: false},
		{name: "exactly the leftover fits", cap: 500, spent: 499, amount: 1, wantRemaining: 1, wantOK: true},
		{name: "cap spent, one more rejected at zero", cap: 500, spent: 500, amount: 1, wantRemaining: 0, wantOK: false},
		{name: "overspent clamps to zero", cap: 500, spent: 600, amount: 1, wantRemaining: 0, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remaining, ok := CheckSpend(tt.cap, tt.spent, tt.amount)
			if remaining != tt.wantRemaining {
				t.Errorf("remaining = %d, want %d", remaining, tt.wantRemaining)
			}
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func Test_NewLedger_defaultCap(t *testing.T) {
	l := NewLedger(0, SundayLocal, &fakeSpendStore{})
	if l.Cap != DefaultWeeklyAllowance {
		t.Errorf("Cap = %d, want %d", l.Cap, DefaultWeeklyAllowance)
	}
}
