package server

import (
	"context"
	"net/http"

	"github.com/swaplane/swaplane/engine"
	"github.com/swaplane/swaplane/storage/types"
)

type (
	resolveAllDelegate func(context.Context) ([]engine.Direction, error)
	submitBidDelegate  func(context.Context, *engine.BidRequest, *engine.Identity) (*engine.SubmitResult, error)
	statusDelegate     func(context.Context, string) (*engine.BidStatus, error)
	checkDelegate      func(string, string, *engine.Identity) engine.GateState
)

type mockExchanger struct {
	resolveAllFn resolveAllDelegate
	submitBidFn  submitBidDelegate
	statusFn     statusDelegate
	checkFn      checkDelegate
}

func (m *mockExchanger) ResolveAll(ctx context.Context) ([]engine.Direction, error) {
	if m.resolveAllFn != nil {
		return m.resolveAllFn(ctx)
	}

	return nil, nil
}

func (m *mockExchanger) SubmitBid(
	ctx context.Context,
	req *engine.BidRequest,
	caller *engine.Identity,
) (*engine.SubmitResult, error) {
	if m.submitBidFn != nil {
		return m.submitBidFn(ctx, req, caller)
	}

	return nil, nil
}

func (m *mockExchanger) Status(ctx context.Context, bidID string) (*engine.BidStatus, error) {
	if m.statusFn != nil {
		return m.statusFn(ctx, bidID)
	}

	return nil, nil
}

func (m *mockExchanger) CheckVerification(
	from, to string,
	caller *engine.Identity,
) engine.GateState {
	if m.checkFn != nil {
		return m.checkFn(from, to, caller)
	}

	return engine.GateNotRequired
}

type mockTracker struct {
	trackFn func(*types.ExchangeRecord) error
}

func (m *mockTracker) Track(record *types.ExchangeRecord) error {
	if m.trackFn != nil {
		return m.trackFn(record)
	}

	return nil
}

// staticIdentity resolves every request to the same caller
type staticIdentity struct {
	caller *engine.Identity
}

func (s staticIdentity) Resolve(_ *http.Request) *engine.Identity {
	return s.caller
}
