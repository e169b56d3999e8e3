package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/swaplane/swaplane/provider/wirebit"
)

// ErrorCategory is the closed set of actionable provider error categories
type ErrorCategory string

const (
	CategoryInvalidSettlementTarget ErrorCategory = "invalid_settlement_target"
	CategoryAmountOutOfRange        ErrorCategory = "amount_out_of_range"
	CategoryInvalidEmail            ErrorCategory = "invalid_email"
	CategoryInvalidPersonalData     ErrorCategory = "invalid_personal_data"
	CategoryInvalidPhone            ErrorCategory = "invalid_phone"
	CategoryUnknownDirection        ErrorCategory = "unknown_direction"
	CategoryNetworkError            ErrorCategory = "network_error"
	CategoryMalformedResponse       ErrorCategory = "malformed_response"
	CategoryUnclassified            ErrorCategory = "unclassified"
)

// unknownDirectionPhrase is the provider's free-text marker for a bid
// against a direction that no longer exists
const unknownDirectionPhrase = "Направление не существует"

// fieldClassification maps a provider field name to its category.
// Entries are checked in order; the first field present in the error
// map decides the category
var fieldClassification = []struct {
	field    string
	category ErrorCategory
	message  string
}{
	{fieldAccountTo, CategoryInvalidSettlementTarget, "Invalid settlement account"},
	{fieldAccountFrom, CategoryInvalidSettlementTarget, "Invalid settlement account"},
	{fieldAmountGive, CategoryAmountOutOfRange, "Amount outside direction limits"},
	{fieldAmountGet, CategoryAmountOutOfRange, "Amount outside direction limits"},
	{fieldEmail, CategoryInvalidEmail, "Invalid email"},
	{fieldSurname, CategoryInvalidPersonalData, "Invalid recipient details"},
	{fieldFirstName, CategoryInvalidPersonalData, "Invalid recipient details"},
	{fieldPatronymic, CategoryInvalidPersonalData, "Invalid recipient details"},
	{fieldFullName, CategoryInvalidPersonalData, "Invalid recipient details"},
	{fieldFullNameAlt, CategoryInvalidPersonalData, "Invalid recipient details"},
	{fieldContact, CategoryInvalidPhone, "Invalid phone number"},
}

// Classify maps a raw provider failure onto an error category and a
// user-facing message. Unrecognized failures keep the provider's original
// text verbatim, never a generic substitute
func Classify(err error) (ErrorCategory, string) {
	var apiErr *wirebit.APIError
	if errors.As(err, &apiErr) {
		return classifyAPIError(apiErr)
	}

	if errors.Is(err, wirebit.ErrNetwork) {
		return CategoryNetworkError, err.Error()
	}

	if errors.Is(err, wirebit.ErrMalformed) {
		return CategoryMalformedResponse, err.Error()
	}

	return CategoryUnclassified, err.Error()
}

// classifyAPIError inspects the field-level error map first, then falls
// back to substring matching against the free-text message
func classifyAPIError(apiErr *wirebit.APIError) (ErrorCategory, string) {
	if len(apiErr.Fields) > 0 {
		for _, entry := range fieldClassification {
			detail, ok := apiErr.Fields[entry.field]
			if !ok {
				continue
			}

			return entry.category, fmt.Sprintf("%s: %s", entry.message, detail)
		}
	}

	if strings.Contains(apiErr.Message, unknownDirectionPhrase) {
		return CategoryUnknownDirection, "Invalid exchange direction"
	}

	return CategoryUnclassified, apiErr.Message
}
