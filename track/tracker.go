package track

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/sig-0/iq"

	"github.com/swaplane/swaplane/engine"
	"github.com/swaplane/swaplane/storage"
	"github.com/swaplane/swaplane/storage/types"
)

var (
	errInvalidExchange = errors.New("invalid exchange record")
	errAlreadyTerminal = errors.New("exchange already in a terminal status")
)

// StatusFetcher fetches the provider-side status of a bid
type StatusFetcher interface {
	Status(ctx context.Context, bidID string) (*engine.BidStatus, error)
}

// Tracker is the background poller that follows open exchanges until the
// provider reports a terminal status, persisting every transition
type Tracker struct {
	storage storage.Storage
	fetcher StatusFetcher
	logger  *slog.Logger

	tracked sync.Map // exchange ID -> *types.ExchangeRecord

	q             iq.Queue[scheduledPoll]
	queryInterval time.Duration
	pollInterval  time.Duration
	retryInterval time.Duration
	qMux          sync.Mutex
}

// New creates a new Tracker instance
func New(storage storage.Storage, fetcher StatusFetcher, opts ...Option) *Tracker {
	t := &Tracker{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		storage:       storage,
		fetcher:       fetcher,
		q:             iq.NewQueue[scheduledPoll](),
		queryInterval: time.Second,      // every second
		pollInterval:  time.Second * 30, // every 30s
		retryInterval: time.Second * 10,
	}

	// Apply the options
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Track registers an exchange with the tracker.
// The exchange is immediately queued up for a status poll
func (t *Tracker) Track(record *types.ExchangeRecord) error {
	if record == nil || record.ID == "" || record.BidID == "" {
		return errInvalidExchange
	}

	if record.Status.Terminal() {
		return errAlreadyTerminal
	}

	// Register the exchange
	cp := *record
	t.tracked.Store(cp.ID, &cp)

	t.logger.Info(
		"tracking exchange",
		"id", cp.ID,
		"bid_id", cp.BidID,
	)

	// Schedule the first poll
	t.schedulePoll(time.Now().UTC(), cp.ID)

	return nil
}

// Resume re-registers all open exchanges from storage.
// Called on boot so restarts do not orphan in-flight exchanges
func (t *Tracker) Resume(ctx context.Context) error {
	open, err := t.storage.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("unable to list open exchanges: %w", err)
	}

	for _, record := range open {
		if err := t.Track(record); err != nil {
			return fmt.Errorf("unable to track exchange %s: %w", record.ID, err)
		}
	}

	return nil
}

// Start starts the status tracking service loop [BLOCKING]
func (t *Tracker) Start(ctx context.Context) error {
	collectorCh := make(chan *workerResponse, 100)

	// Start a listener for monitoring polls
	ticker := time.NewTicker(t.queryInterval)
	defer ticker.Stop()

	// handlePolls initializes all polls that are due
	handlePolls := func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				next := t.nextPoll()
				if next == nil {
					return // nothing to poll anymore
				}

				recordRaw, ok := t.tracked.Load(next.exchangeID)
				if !ok {
					continue // untracked in the meantime
				}

				record, _ := recordRaw.(*types.ExchangeRecord)

				t.logger.Info(
					"polling exchange status",
					"id", record.ID,
					"bid_id", record.BidID,
				)

				// Spawn worker
				info := &workerInfo{
					fetcher:    t.fetcher,
					bidID:      record.BidID,
					exchangeID: record.ID,
					resCh:      collectorCh,
				}

				go handleJob(ctx, info)
			}
		}
	}

	// Initialize the first set of due polls (on boot)
	handlePolls()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("status tracker shut down")
			close(collectorCh)

			return nil
		case <-ticker.C:
			handlePolls()
		case response := <-collectorCh:
			t.handleResponse(ctx, response)
		}
	}
}

// handleResponse applies a single poll result
func (t *Tracker) handleResponse(ctx context.Context, response *workerResponse) {
	now := time.Now().UTC()

	recordRaw, ok := t.tracked.Load(response.exchangeID)
	if !ok {
		t.logger.Error(
			"unable to load tracked exchange",
			"id", response.exchangeID,
		)

		return
	}

	record, _ := recordRaw.(*types.ExchangeRecord)

	if response.error != nil {
		t.logger.Error(
			"error encountered during status poll",
			"id", record.ID,
			"err", response.error.Error(),
		)

		// Retry the poll soon
		t.schedulePoll(now.Add(t.retryInterval), record.ID)

		return
	}

	status := types.ExchangeStatus(response.status.Status)

	// Persist the transition
	if status != record.Status {
		saveCtx, cancelFn := context.WithTimeout(ctx, time.Second*10)

		if err := t.storage.UpdateExchangeStatus(saveCtx, record.ID, status); err != nil {
			t.logger.Error(
				"unable to update exchange status",
				"id", record.ID,
				"status", status,
				"err", err,
			)
		}

		cancelFn()

		t.logger.Info(
			"exchange status updated",
			"id", record.ID,
			"bid_id", record.BidID,
			"status", status,
		)

		record.Status = status
		t.tracked.Store(record.ID, record)
	}

	if status.Terminal() {
		// Nothing left to follow
		t.tracked.Delete(record.ID)

		return
	}

	// Schedule a new poll for this exchange
	t.schedulePoll(now.Add(t.pollInterval), record.ID)
}

// schedulePoll schedules a new status poll
func (t *Tracker) schedulePoll(at time.Time, exchangeID string) {
	t.qMux.Lock()
	defer t.qMux.Unlock()

	t.q.Push(scheduledPoll{
		at:         at,
		exchangeID: exchangeID,
	})
}

// nextPoll fetches the next due poll, as of the moment of calling
func (t *Tracker) nextPoll() *scheduledPoll {
	t.qMux.Lock()
	defer t.qMux.Unlock()

	now := time.Now().UTC()

	// Check if anything needs to be polled
	if t.q.Len() == 0 {
		return nil // nothing to poll, all exchanges are in flight
	}

	// Check if the top element is due
	if t.q.Index(0).at.After(now) {
		return nil // nothing to poll, next poll is in the future
	}

	// Grab the next poll
	next := t.q.PopFront()

	return next
}
