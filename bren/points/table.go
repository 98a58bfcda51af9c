package points

import "fmt"

// Kind enumerates the business events that credit points.
type Kind string

const (
	CreatedAccount            Kind = "CREATED_ACCOUNT"
	CompletedKYC              Kind = "COMPLETED_KYC"
	CreatedCard               Kind = "CREATED_CARD"
	CardTrx                   Kind = "CARD_TRX"
	P2PTrx                    Kind = "P2P_TRX"
	P2PTrxIP                  Kind = "P2P_TRX_IP"
	SwapSameChain             Kind = "SWAP_SAME_CHAIN"
	SwapCrossChain            Kind = "SWAP_CROSS_CHAIN"
	CardFunding               Kind = "CARD_FUNDING"
	FirstFinancialTrx         Kind = "FIRST_FINANCIAL_TRX"
	CompletedUserReferral     Kind = "COMPLETED_USER_REFERRAL"
	CompletedMerchantReferral Kind = "COMPLETED_MERCHANT_REFERRAL"
	OnboardDirectTrx          Kind = "ONBOARD_DIRECT_TRX"
	SwitchTrx                 Kind = "SWITCH_TRX"
	MerchantRegularP2P        Kind = "MERCHANT_REGULAR_P2P"
	MerchantInstantPay        Kind = "MERCHANT_INSTANT_PAY"
	OnboardPayTrx             Kind = "ONBOARD_PAY_TRX"
	MerchantOPNOrder          Kind = "MERCHANT_OPN_ORDER"
	VAFunding                 Kind = "VA_FUNDING"
	VAWithdrawal              Kind = "VA_WITHDRAWAL"
	CardFundingVA             Kind = "CARD_FUNDING_VA"
)

// Platform enumerates the clients allowed to report events.
type Platform string

const (
	PlatformOnboard   Platform = "ONBOARD"
	PlatformBlocasset Platform = "BLOCASSET"
)

// formula is either a fixed point value or an amount multiplier. Exactly one
// of the two is set; multiplier formulas require an amount on the event.
type formula struct {
	fixed      int64
	multiplier int64
}

// pointTable is the business-policy contract. Values must not drift.
var pointTable = map[Kind]formula{
	CreatedAccount:            {fixed: 25},
	CompletedKYC:              {fixed: 50},
	CreatedCard:               {fixed: 50},
	FirstFinancialTrx:         {fixed: 100},
	CompletedUserReferral:     {fixed: 50},
	CompletedMerchantReferral: {fixed: 50},
	CardTrx:                   {multiplier: 10},
	P2PTrx:                    {multiplier: 10},
	MerchantRegularP2P:        {multiplier: 10},
	P2PTrxIP:                  {multiplier: 15},
	CardFunding:               {multiplier: 15},
	MerchantInstantPay:        {multiplier: 15},
	MerchantOPNOrder:          {multiplier: 15},
	CardFundingVA:             {multiplier: 15},
	SwapSameChain:             {multiplier: 20},
	SwapCrossChain:            {multiplier: 20},
	OnboardDirectTrx:          {multiplier: 20},
	SwitchTrx:                 {multiplier: 20},
	OnboardPayTrx:             {multiplier: 20},
	VAFunding:                 {multiplier: 20},
	VAWithdrawal:              {multiplier: 20},
}

// ValidKind reports whether k is a known event kind.
func ValidKind(k Kind) bool {
	_, ok := pointTable[k]
	return ok
}

// ValidPlatform reports whether p is a known reporting platform.
func ValidPlatform(p Platform) bool {
	return p == PlatformOnboard || p == PlatformBlocasset
}

// RequiresAmount reports whether events of kind k must carry an amount.
// Kinds that do not require an amount must not carry one.
func RequiresAmount(k Kind) bool {
	return pointTable[k].multiplier > 0
}

// Points computes the point value for one event. amount is ignored for
// fixed-value kinds.
func Points(k Kind, amount int64) (int64, error) {
	f, ok := pointTable[k]
	if !ok {
		return 0, fmt.Errorf("unknown event kind %q", k)
	}
	if f.multiplier > 0 {
		return amount * f.multiplier, nil
	}
	return f.fixed, nil
}
