package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"regexp"

	"github.com/swaplane/swaplane/provider/wirebit"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ProviderAPI is the upstream exchange provider surface the engine drives
type ProviderAPI interface {
	// Directions fetches the provider's direction listing
	Directions(context.Context) ([]wirebit.Direction, error)

	// CreateBid submits a form-encoded bid payload
	CreateBid(context.Context, url.Values) (*wirebit.BidInfo, error)

	// BidStatus fetches the status of an existing bid
	BidStatus(context.Context, string) (*wirebit.StatusInfo, error)
}

// Engine is the exchange orchestration engine: it resolves tradeable
// directions against the rate feed, gates verification-required pairs,
// and builds and submits provider bids
type Engine struct {
	api    ProviderAPI
	cache  *RateCache
	gate   *Gate
	logger *slog.Logger
}

// New creates a new engine over the provider API and rate cache
func New(api ProviderAPI, cache *RateCache, opts ...Option) *Engine {
	e := &Engine{
		api:    api,
		cache:  cache,
		gate:   DefaultGate(),
		logger: noopLogger,
	}

	// Apply the options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ResolveAll produces the unified direction list, each entry carrying the
// feed-authoritative rate and bounds. The rate cache is refreshed first so
// callers always trade against fresh figures; a refresh failure degrades
// to the previous snapshot (or defaults) instead of failing the call
func (e *Engine) ResolveAll(ctx context.Context) ([]Direction, error) {
	if err := e.cache.Refresh(ctx); err != nil {
		e.logger.Warn(
			"unable to refresh rate feed",
			"err", err,
		)
	}

	listed, err := e.api.Directions(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch directions: %w", err)
	}

	directions := make([]Direction, 0, len(listed))

	for _, d := range listed {
		var (
			fromID = NormalizeCurrency(d.FromTitle)
			toID   = NormalizeCurrency(d.ToTitle)
		)

		entry, ok := e.cache.Lookup(fromID, toID)
		if !ok {
			// No feed coverage for the pair; the direction still
			// resolves, with default figures
			entry = defaultRateEntry()
		}

		directions = append(directions, Direction{
			ID:       d.ID.String(),
			From:     d.FromTitle,
			To:       d.ToTitle,
			FromLogo: d.FromLogo,
			ToLogo:   d.ToLogo,
			Rate:     entry.Rate,
			Min:      entry.Min,
			Max:      entry.Max,
			Reserve:  entry.Reserve,
		})
	}

	return directions, nil
}

// CheckVerification runs the verification gate for the currency pair
func (e *Engine) CheckVerification(from, to string, caller *Identity) GateState {
	return e.gate.Check(from, to, caller)
}

// SubmitBid runs the full bid flow: verification gate, direction
// resolution, bound validation, payload construction and provider
// submission. Business rejections come back in the result; transport
// and envelope parse failures return as errors
func (e *Engine) SubmitBid(
	ctx context.Context,
	req *BidRequest,
	caller *Identity,
) (*SubmitResult, error) {
	directions, err := e.ResolveAll(ctx)
	if err != nil {
		return nil, err
	}

	direction := findDirection(directions, req.DirectionID)
	if direction == nil {
		return &SubmitResult{
			Success:  false,
			Category: CategoryUnknownDirection,
			Message:  "Invalid exchange direction",
		}, nil
	}

	// The gate decides before any payload is built or any provider
	// call is made
	if state := e.gate.Check(direction.From, direction.To, caller); state.Blocks() {
		return &SubmitResult{
			Success:      false,
			Message:      state.Message(),
			Verification: state,
		}, nil
	}

	if reject := validateBid(req, direction); reject != nil {
		return reject, nil
	}

	info, err := e.api.CreateBid(ctx, BuildBidPayload(req))
	if err != nil {
		var apiErr *wirebit.APIError
		if errors.As(err, &apiErr) {
			category, message := Classify(apiErr)

			return &SubmitResult{
				Success:  false,
				Category: category,
				Message:  message,
			}, nil
		}

		return nil, err
	}

	return &SubmitResult{
		Success: true,
		Message: "Заявка успешно создана",
		BidID:   info.ID.String(),
	}, nil
}

// Status fetches and maps the provider status of an existing bid
func (e *Engine) Status(ctx context.Context, bidID string) (*BidStatus, error) {
	info, err := e.api.BidStatus(ctx, bidID)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch bid status: %w", err)
	}

	return &BidStatus{
		ID:      info.ID.String(),
		Status:  info.Status,
		Message: statusMessage(info.Status),
	}, nil
}

// validateBid checks the request against the resolved direction, before
// the provider is involved at all
func validateBid(req *BidRequest, direction *Direction) *SubmitResult {
	if !req.Amount.IsPositive() {
		return &SubmitResult{
			Success:  false,
			Category: CategoryAmountOutOfRange,
			Message:  "Amount must be positive",
		}
	}

	if req.Amount.LessThan(direction.Min) || req.Amount.GreaterThan(direction.Max) {
		return &SubmitResult{
			Success:  false,
			Category: CategoryAmountOutOfRange,
			Message: fmt.Sprintf(
				"Amount outside direction limits: min %s, max %s",
				direction.Min, direction.Max,
			),
		}
	}

	// An absent email is substituted with a placeholder by the payload
	// builder; only a present, malformed one is rejected
	if req.Email != "" && !emailRegex.MatchString(req.Email) {
		return &SubmitResult{
			Success:  false,
			Category: CategoryInvalidEmail,
			Message:  "Invalid email: " + req.Email,
		}
	}

	if req.Settlement == nil {
		return &SubmitResult{
			Success:  false,
			Category: CategoryInvalidSettlementTarget,
			Message:  "Missing settlement details",
		}
	}

	return nil
}

// findDirection locates a resolved direction by its provider identifier
func findDirection(directions []Direction, id string) *Direction {
	for i := range directions {
		if directions[i].ID == id {
			return &directions[i]
		}
	}

	return nil
}

// Rate returns the cached rate entry for a currency pair in the
// directions-API taxonomy, falling back to the default entry
func (e *Engine) Rate(fromTitle, toTitle string) RateEntry {
	entry, ok := e.cache.Lookup(
		NormalizeCurrency(fromTitle),
		NormalizeCurrency(toTitle),
	)
	if !ok {
		return defaultRateEntry()
	}

	return entry
}
