package engine

import (
	"github.com/shopspring/decimal"
)

// Direction is a tradeable currency pair, carrying the feed-authoritative
// rate and amount bounds. Directions are produced fresh on every resolution
// call and owned by the caller
type Direction struct {
	ID       string          `json:"direction_id"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	FromLogo string          `json:"from_logo,omitempty"`
	ToLogo   string          `json:"to_logo,omitempty"`
	Rate     decimal.Decimal `json:"rate"`
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
	Reserve  decimal.Decimal `json:"reserve"`
}

// RateEntry is a cached rate feed data point for a currency pair
type RateEntry struct {
	Rate    decimal.Decimal
	Min     decimal.Decimal
	Max     decimal.Decimal
	Reserve decimal.Decimal
}

// defaultRateEntry is what pair lookups resolve to when the rate feed has
// no coverage for the pair. Resolution never fails over feed coverage
func defaultRateEntry() RateEntry {
	return RateEntry{
		Rate:    decimal.NewFromInt(1),
		Min:     decimal.NewFromInt(10),
		Max:     decimal.NewFromInt(10000),
		Reserve: decimal.Zero,
	}
}

// VerificationStatus is the caller's identity verification state
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
	VerificationRejected   VerificationStatus = "rejected"
)

// Identity is the authenticated caller, as established by an external
// collaborator. A nil *Identity means no authenticated caller
type Identity struct {
	UserID string
	Status VerificationStatus
}

// SettlementDescriptor selects the settlement rail for a bid.
// Exactly one variant is used per request, and the choice determines
// the provider payload shape
type SettlementDescriptor interface {
	settlement()
}

// SettlementWallet settles to a crypto wallet address
type SettlementWallet struct {
	Address string
}

func (SettlementWallet) settlement() {}

// SettlementCardBank settles to a card or bank account
type SettlementCardBank struct {
	CardNumber    string
	FullName      string
	ContactHandle string
}

func (SettlementCardBank) settlement() {}

// BidRequest is a request to open an exchange bid against a direction
type BidRequest struct {
	DirectionID string
	Amount      decimal.Decimal
	Email       string
	Settlement  SettlementDescriptor
}

// SubmitResult is the outcome of a bid submission.
// Business-level rejections land here; transport and parse failures
// surface as errors instead
type SubmitResult struct {
	Success      bool          `json:"success"`
	Category     ErrorCategory `json:"category,omitempty"`
	Message      string        `json:"message"`
	BidID        string        `json:"bid_id,omitempty"`
	Verification GateState     `json:"verification,omitempty"`
}

// BidStatus is a provider bid status mapped to display text
type BidStatus struct {
	ID      string `json:"bid_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
