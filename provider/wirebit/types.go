package wirebit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNetwork indicates the outbound provider call failed at the transport level
	ErrNetwork = errors.New("provider request failed")

	// ErrMalformed indicates the provider response did not parse as expected
	ErrMalformed = errors.New("malformed provider response")
)

// Direction is a single tradeable direction from the directions listing
type Direction struct {
	ID        FlexString `json:"direction_id"`
	FromTitle string     `json:"currency_give_title"`
	ToTitle   string     `json:"currency_get_title"`
	FromLogo  string     `json:"currency_give_logo"`
	ToLogo    string     `json:"currency_get_logo"`
}

// BidInfo is the provider acknowledgment for a created bid
type BidInfo struct {
	ID     FlexString `json:"bid_id"`
	Status string     `json:"status"`
}

// StatusInfo is the provider-reported state of an existing bid
type StatusInfo struct {
	ID     FlexString `json:"bid_id"`
	Status string     `json:"status"`
}

// APIError is a business-level rejection from the provider.
// Fields holds per-field error strings, keyed by provider field name
type APIError struct {
	Fields  map[string]string
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error %s: %s", e.Code, e.Message)
	}

	return fmt.Sprintf("provider error %s", e.Code)
}

// envelope is the raw provider response wrapper.
// Success is signaled by a zero-valued error field, which the provider
// emits either as a number or a string
type envelope struct {
	Error       json.RawMessage   `json:"error"`
	ErrorText   string            `json:"error_text"`
	ErrorFields map[string]string `json:"error_fields"`
	Data        json.RawMessage   `json:"data"`
}

// ok reports whether the envelope signals success
func (e *envelope) ok() bool {
	code := e.code()

	return code == "" || code == "0"
}

// code returns the envelope error code, stripped of JSON quoting
func (e *envelope) code() string {
	raw := bytes.TrimSpace(e.Error)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	return string(bytes.Trim(raw, `"`))
}

// err converts a failed envelope into a typed API error
func (e *envelope) err() *APIError {
	return &APIError{
		Code:    e.code(),
		Message: e.ErrorText,
		Fields:  e.ErrorFields,
	}
}

// FlexString is a string that also accepts a JSON number.
// The provider is not consistent about identifier types
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		*f = ""

		return nil
	}

	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}

		*f = FlexString(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return err
	}

	*f = FlexString(n.String())

	return nil
}

func (f FlexString) String() string {
	return string(f)
}
