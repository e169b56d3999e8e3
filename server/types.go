package server

import (
	"github.com/swaplane/swaplane/engine"
)

type DirectionsResponse struct {
	Results []engine.Direction `json:"results"`
}

type CurrenciesResponse struct {
	Results []string `json:"results"`
}

type AvailableToResponse struct {
	From    string   `json:"from"`
	Results []string `json:"results"`
}

// CardDetails carries the card-rail settlement details
type CardDetails struct {
	Number   string `json:"number"`
	FullName string `json:"full_name"`
	Contact  string `json:"contact,omitempty"`
}

// CreateExchangeRequest is the bid submission payload.
// Exactly one of Wallet and Card must be set
type CreateExchangeRequest struct {
	DirectionID string       `json:"direction_id"`
	Amount      string       `json:"amount"`
	Email       string       `json:"email,omitempty"`
	Wallet      string       `json:"wallet,omitempty"`
	Card        *CardDetails `json:"card,omitempty"`
}

// CreateExchangeResponse wraps the submission outcome with the local
// exchange identifier, when one was created
type CreateExchangeResponse struct {
	*engine.SubmitResult

	ExchangeID string `json:"exchange_id,omitempty"`
}

type VerificationResponse struct {
	State   engine.GateState `json:"state"`
	Blocks  bool             `json:"blocks"`
	Message string           `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
