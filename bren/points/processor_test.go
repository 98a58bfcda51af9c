package points

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NestcoinCo/bren/bren/tipping"
)

type fakePointsStore struct {
	got Record
	err error
}

func (f *fakePointsStore) Apply(_ context.Context, rec Record) (Receipt, error) {
	f.got = rec
	if f.err != nil {
		return Receipt{}, f.err
	}
	return Receipt{
		UserID:       7,
		Wallet:       rec.WalletAddress,
		PointsEarned: rec.Points,
		TotalPoints:  rec.Points + 100,
	}, nil
}

func amt(v int64) *int64 { return &v }

func Test_Processor_Apply(t *testing.T) {
	tests := []struct {
		name       string
		in         Input
		wantPoints int64
		wantErr    error
	}{
		{
			name:       "fixed event",
			in:         Input{WalletAddress: "0xabc", Event: CreatedAccount, Platform: PlatformOnboard},
			wantPoints: 25,
		},
		{
			name:       "multiplier event",
			in:         Input{WalletAddress: "0xabc", Event: CardTrx, Platform: PlatformOnboard, Amount: amt(10)},
			wantPoints: 100,
		},
		{
			name:       "blocasset platform accepted",
			in:         Input{WalletAddress: "0xabc", Event: SwapCrossChain, Platform: PlatformBlocasset, Amount: amt(3)},
			wantPoints: 60,
		},
		{
			name:    "unknown event",
			in:      Input{WalletAddress: "0xabc", Event: "LOGGED_IN", Platform: PlatformOnboard},
			wantErr: ErrUnknownEvent,
		},
		{
			name:    "unknown platform",
			in:      Input{WalletAddress: "0xabc", Event: CreatedAccount, Platform: "WEB"},
			wantErr: ErrUnknownPlatform,
		},
		{
			name:    "multiplier event missing amount",
			in:      Input{WalletAddress: "0xabc", Event: CardTrx, Platform: PlatformOnboard},
			wantErr: ErrAmountRequired,
		},
		{
			name:    "multiplier event zero amount",
			in:      Input{WalletAddress: "0xabc", Event: CardTrx, Platform: PlatformOnboard, Amount: amt(0)},
			wantErr: ErrAmountRequired,
		},
		{
			name:    "fixed event with amount",
			in:      Input{WalletAddress: "0xabc", Event: CreatedAccount, Platform: PlatformOnboard, Amount: amt(5)},
			wantErr: ErrAmountForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakePointsStore{}
			p := NewProcessor(store, tipping.MondayUTC)
			p.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }

			got, err := p.Apply(context.Background(), tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
				}
				if store.got.WalletAddress != "" {
					t.Error("rejected event must not reach the store")
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if got.PointsEarned != tt.wantPoints {
				t.Errorf("PointsEarned = %d, want %d", got.PointsEarned, tt.wantPoints)
			}

			wantWeek := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
			if !store.got.WeekStart.Equal(wantWeek) {
				t.Errorf("WeekStart = %v, want %v", store.got.WeekStart, wantWeek)
			}
		})
	}
}

func Test_Processor_Apply_storeError(t *testing.T) {
	store := &fakePointsStore{err: errors.New("insert failed")}
	p := NewProcessor(store, tipping.MondayUTC)

	_, err := p.Apply(context.Background(), Input{
		WalletAddress: "0xabc",
		Event:         CreatedAccount,
		Platform:      PlatformOnboard,
	})
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
	if errors.Is(err, ErrUnknownEvent) || errors.Is(err, ErrUnknownPlatform) {
		t.Errorf("store failure misclassified as validation error: %v", err)
	}
}
