package engine

import (
	"net/url"
	"strings"
)

// Provider form field names for create_bid.
// The cfN fields are the provider's custom-field slots; their assignments
// were established against the live API and must not be reshuffled
const (
	fieldDirectionID = "direction_id"
	fieldAmountGive  = "sum1" // give-side amount; the amount always refers to this side
	fieldAmountGet   = "sum2" // left empty so the provider computes the receive side
	fieldAccountFrom = "account1"
	fieldAccountTo   = "account2"
	fieldSurname     = "cf1"
	fieldFirstName   = "cf2"
	fieldPatronymic  = "cf3"
	fieldFullName    = "cf4"
	fieldFullNameAlt = "cf5"
	fieldEmail       = "cf6"
	fieldContact     = "cf7"
)

// defaultBidEmail is substituted when the caller provides no email.
// The provider rejects bids without one; this placeholder behavior is a
// long-standing quirk callers rely on
const defaultBidEmail = "noreply@swaplane.exchange"

// BuildBidPayload flattens a bid request into the provider's form payload.
// Pure and deterministic; malformed input degrades to empty fields rather
// than failing. Amount bound validation is the caller's job
func BuildBidPayload(req *BidRequest) url.Values {
	email := req.Email
	if email == "" {
		email = defaultBidEmail
	}

	payload := url.Values{
		fieldDirectionID: {req.DirectionID},
		fieldAmountGive:  {req.Amount.String()},
		fieldAmountGet:   {""},
		fieldEmail:       {email},
	}

	switch settlement := req.Settlement.(type) {
	case SettlementWallet:
		payload.Set(fieldAccountTo, settlement.Address)
	case SettlementCardBank:
		payload.Set(fieldAccountTo, settlement.CardNumber)

		// The provider wants the card number in both the source and
		// target account fields for card payouts
		payload.Set(fieldAccountFrom, settlement.CardNumber)

		surname, firstName, patronymic := splitFullName(settlement.FullName)
		payload.Set(fieldSurname, surname)
		payload.Set(fieldFirstName, firstName)
		payload.Set(fieldPatronymic, patronymic)

		// Two more custom fields expect the undivided recipient name
		payload.Set(fieldFullName, settlement.FullName)
		payload.Set(fieldFullNameAlt, settlement.FullName)

		if settlement.ContactHandle != "" {
			payload.Set(fieldContact, settlement.ContactHandle)
		}
	}

	return payload
}

// splitFullName derives the three recipient name components from a single
// free-text full name. Three or more tokens map in order; two tokens leave
// the patronymic empty; a single token is treated as the first name
func splitFullName(full string) (surname, firstName, patronymic string) {
	tokens := strings.Fields(full)

	switch {
	case len(tokens) >= 3:
		return tokens[0], tokens[1], tokens[2]
	case len(tokens) == 2:
		return tokens[0], tokens[1], ""
	case len(tokens) == 1:
		return "", tokens[0], ""
	default:
		return "", "", ""
	}
}
