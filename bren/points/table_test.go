package points

import "testing"

func Test_Points_fixedValues(t *testing.T) {
	tests := []struct {
		kind Kind
		want int64
	}{
		{CreatedAccount, 25},
		{CompletedKYC, 50},
		{CreatedCard, 50},
		{FirstFinancialTrx, 100},
		{CompletedUserReferral, 50},
		{CompletedMerchantReferral, 50},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := Points(tt.kind, 0)
			if err != nil {
				t.Fatalf("Points(%s) error = %v", tt.kind, err)
			}
			if got != tt.want {
				t.Errorf("Points(%s) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func Test_Points_multipliers(t *testing.T) {
	tests := []struct {
		kind       Kind
		multiplier int64
	}{
		{CardTrx, 10},
		{P2PTrx, 10},
		{MerchantRegularP2P, 10},
		{P2PTrxIP, 15},
		{CardFunding, 15},
		{MerchantInstantPay, 15},
		{MerchantOPNOrder, 15},
		{CardFundingVA, 15},
		{SwapSameChain, 20},
		{SwapCrossChain, 20},
		{OnboardDirectTrx, 20},
		{SwitchTrx, 20},
		{OnboardPayTrx, 20},
		{VAFunding, 20},
		{VAWithdrawal, 20},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := Points(tt.kind, 7)
			if err != nil {
				t.Fatalf("Points(%s) error = %v", tt.kind, err)
			}
			if want := 7 * tt.multiplier; got != want {
				t.Errorf("Points(%s, 7) = %d, want %d", tt.kind, got, want)
			}
			if !RequiresAmount(tt.kind) {
				t.Errorf("RequiresAmount(%s) = false, want true", tt.kind)
			}
		})
	}
}

func Test_Points_unknownKind(t *testing.T) {
	if _, err := Points("NOT_A_THING", 1); err == nil {
		t.Error("expected error for unknown kind")
	}
	if ValidKind("NOT_A_THING") {
		t.Error("ValidKind must reject unknown kinds")
	}
}

func Test_ValidPlatform(t *testing.T) {
	for _, p := range []Platform{PlatformOnboard, PlatformBlocasset} {
		if !ValidPlatform(p) {
			t.Errorf("ValidPlatform(%s) = false", p)
		}
	}
	if ValidPlatform("SLACK") {
		t.Error("ValidPlatform must reject unlisted platforms")
	}
}
