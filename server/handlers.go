package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"
	"github.com/shopspring/decimal"

	"github.com/swaplane/swaplane/engine"
	"github.com/swaplane/swaplane/storage/types"
)

const (
	defaultLimit = int32(100)
	maxLimit     = int32(500)
)

var (
	errUnableToResolve       = errors.New("unable to resolve directions")
	errUnableToSubmit        = errors.New("unable to submit exchange")
	errUnableToFetchHistory  = errors.New("unable to fetch exchange history")
	errUnableToFetchExchange = errors.New("unable to fetch exchange")
	errUnableToFetchStatus   = errors.New("unable to fetch bid status")

	errExchangeNotFound = errors.New("exchange not found")

	errInvalidBody       = errors.New("invalid request body")
	errInvalidAmount     = errors.New("invalid amount")
	errInvalidSettlement = errors.New("exactly one of wallet and card is required")
	errInvalidLimit      = errors.New("invalid limit")
	errInvalidOffset     = errors.New("invalid offset")
	errInvalidStatus     = errors.New("invalid status")

	errMissingFrom  = errors.New("missing from currency")
	errMissingPair  = errors.New("missing currency pair")
	errMissingBidID = errors.New("missing bid_id")
)

func (s *Server) Directions(w http.ResponseWriter, r *http.Request) {
	directions, err := s.exchanger.ResolveAll(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to resolve directions",
			"err", err,
		)

		writeError(w, http.StatusBadGateway, errUnableToResolve)

		return
	}

	resp := &DirectionsResponse{
		Results: directions,
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) Currencies(w http.ResponseWriter, r *http.Request) {
	directions, err := s.exchanger.ResolveAll(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to resolve directions",
			"err", err,
		)

		writeError(w, http.StatusBadGateway, errUnableToResolve)

		return
	}

	resp := &CurrenciesResponse{
		Results: uniqueSorted(directions, func(d engine.Direction) string {
			return d.From
		}),
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) AvailableTo(w http.ResponseWriter, r *http.Request) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	if from == "" {
		writeError(w, http.StatusBadRequest, errMissingFrom)

		return
	}

	directions, err := s.exchanger.ResolveAll(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to resolve directions",
			"err", err,
		)

		writeError(w, http.StatusBadGateway, errUnableToResolve)

		return
	}

	matching := make([]engine.Direction, 0, len(directions))

	for _, d := range directions {
		if d.From == from {
			matching = append(matching, d)
		}
	}

	resp := &AvailableToResponse{
		From: from,
		Results: uniqueSorted(matching, func(d engine.Direction) string {
			return d.To
		}),
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) CreateExchange(w http.ResponseWriter, r *http.Request) {
	var body CreateExchangeRequest

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)

		return
	}

	req, err := parseBidRequest(&body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	caller := s.identity.Resolve(r)

	// Resolve the direction up front for the persisted record metadata
	directions, err := s.exchanger.ResolveAll(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to resolve directions",
			"err", err,
		)

		writeError(w, http.StatusBadGateway, errUnableToResolve)

		return
	}

	var direction *engine.Direction

	for i := range directions {
		if directions[i].ID == req.DirectionID {
			direction = &directions[i]

			break
		}
	}

	result, err := s.exchanger.SubmitBid(r.Context(), req, caller)
	if err != nil {
		s.logger.Error(
			"unable to submit exchange",
			"direction_id", req.DirectionID,
			"err", err,
		)

		writeError(w, http.StatusBadGateway, errUnableToSubmit)

		return
	}

	resp := &CreateExchangeResponse{
		SubmitResult: result,
	}

	if !result.Success {
		writeJSON(w, http.StatusUnprocessableEntity, resp)

		return
	}

	// Persist the accepted exchange and follow it until it settles
	record := buildRecord(req, result, caller, direction)

	if err := s.storage.SaveExchange(r.Context(), record); err != nil {
		// The bid exists on the provider regardless
		s.logger.Error(
			"unable to save exchange",
			"id", record.ID,
			"bid_id", record.BidID,
			"err", err,
		)
	}

	if s.tracker != nil {
		if err := s.tracker.Track(record); err != nil {
			s.logger.Error(
				"unable to track exchange",
				"id", record.ID,
				"err", err,
			)
		}
	}

	resp.ExchangeID = record.ID

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) ListExchanges(w http.ResponseWriter, r *http.Request) {
	var (
		limitParam  = r.URL.Query().Get("limit")
		offsetParam = r.URL.Query().Get("offset")
		statusParam = r.URL.Query().Get("status")
	)

	// Parse the pagination settings
	limit, offset, err := parseLimitOffset(limitParam, offsetParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	// Parse the status filter (optional)
	status, err := parseStatus(statusParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	q := &types.HistoryQuery{
		Status: status,
		Limit:  limit,
		Offset: offset,
	}

	// Authenticated callers only see their own history
	if caller := s.identity.Resolve(r); caller != nil {
		q.UserID = caller.UserID
	}

	page, err := s.storage.ListExchanges(r.Context(), q)
	if err != nil {
		s.logger.Debug(
			"unable to fetch exchange history",
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToFetchHistory)

		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) GetExchange(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := s.storage.GetExchange(r.Context(), id)
	if err != nil {
		s.logger.Debug(
			"unable to fetch exchange",
			"id", id,
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToFetchExchange)

		return
	}

	if record == nil {
		writeError(w, http.StatusNotFound, errExchangeNotFound)

		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (s *Server) BidStatus(w http.ResponseWriter, r *http.Request) {
	bidID := strings.TrimSpace(r.URL.Query().Get("bid_id"))
	if bidID == "" {
		writeError(w, http.StatusBadRequest, errMissingBidID)

		return
	}

	status, err := s.exchanger.Status(r.Context(), bidID)
	if err != nil {
		s.logger.Debug(
			"unable to fetch bid status",
			"bid_id", bidID,
			"err", err,
		)

		writeError(w, http.StatusBadGateway, errUnableToFetchStatus)

		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (s *Server) VerificationCheck(w http.ResponseWriter, r *http.Request) {
	var (
		from = strings.TrimSpace(r.URL.Query().Get("from"))
		to   = strings.TrimSpace(r.URL.Query().Get("to"))
	)

	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, errMissingPair)

		return
	}

	state := s.exchanger.CheckVerification(from, to, s.identity.Resolve(r))

	resp := &VerificationResponse{
		State:   state,
		Blocks:  state.Blocks(),
		Message: state.Message(),
	}

	writeJSON(w, http.StatusOK, resp)
}

// parseBidRequest converts the transport payload into a bid request
func parseBidRequest(body *CreateExchangeRequest) (*engine.BidRequest, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(body.Amount))
	if err != nil {
		return nil, errInvalidAmount
	}

	var settlement engine.SettlementDescriptor

	switch {
	case body.Wallet != "" && body.Card == nil:
		settlement = engine.SettlementWallet{
			Address: body.Wallet,
		}
	case body.Wallet == "" && body.Card != nil:
		settlement = engine.SettlementCardBank{
			CardNumber:    body.Card.Number,
			FullName:      body.Card.FullName,
			ContactHandle: body.Card.Contact,
		}
	default:
		return nil, errInvalidSettlement
	}

	return &engine.BidRequest{
		DirectionID: body.DirectionID,
		Amount:      amount,
		Email:       body.Email,
		Settlement:  settlement,
	}, nil
}

// buildRecord assembles the persisted exchange for an accepted bid
func buildRecord(
	req *engine.BidRequest,
	result *engine.SubmitResult,
	caller *engine.Identity,
	direction *engine.Direction,
) *types.ExchangeRecord {
	now := time.Now().UTC()

	record := &types.ExchangeRecord{
		ID:          xid.New().String(),
		BidID:       result.BidID,
		DirectionID: req.DirectionID,
		Amount:      req.Amount,
		Status:      types.StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if direction != nil {
		record.From = direction.From
		record.To = direction.To
		record.Rate = direction.Rate
	}

	if caller != nil {
		record.UserID = caller.UserID
	}

	return record
}

func parseLimitOffset(limitRaw, offsetRaw string) (int32, int64, error) {
	limit := defaultLimit

	if v := strings.TrimSpace(limitRaw); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, 0, errInvalidLimit
		}

		limit = int32(n) //nolint:gosec // Fine to clamp
	}

	if limit == 0 {
		limit = defaultLimit
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	var offset int64

	if v := strings.TrimSpace(offsetRaw); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, 0, errInvalidOffset
		}

		offset = n
	}

	return limit, offset, nil
}

func parseStatus(raw string) (*types.ExchangeStatus, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil, nil //nolint:nilnil // valid case
	}

	status := types.ExchangeStatus(strings.ToLower(v))

	switch status {
	case types.StatusNew,
		types.StatusPending,
		types.StatusProcessing,
		types.StatusCompleted,
		types.StatusCancelled,
		types.StatusRejected:
		return &status, nil
	default:
		return nil, errInvalidStatus
	}
}

// uniqueSorted collects the distinct values of key over the directions
func uniqueSorted(directions []engine.Direction, key func(engine.Direction) string) []string {
	seen := make(map[string]struct{}, len(directions))

	for _, d := range directions {
		seen[key(d)] = struct{}{}
	}

	out := make([]string, 0, len(seen))

	for v := range seen {
		out = append(out, v)
	}

	sort.Strings(out)

	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}
