package track

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swaplane/swaplane/engine"
	"github.com/swaplane/swaplane/storage/mock"
	"github.com/swaplane/swaplane/storage/types"
)

func testRecord(id string, status types.ExchangeStatus) *types.ExchangeRecord {
	return &types.ExchangeRecord{
		ID:          id,
		BidID:       "bid-" + id,
		DirectionID: "5",
		From:        "Bitcoin BTC",
		To:          "Tether TRC20 USDT",
		Amount:      decimal.NewFromInt(1),
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestTracker_New(t *testing.T) {
	t.Parallel()

	t.Run("default tracker", func(t *testing.T) {
		t.Parallel()

		tr := New(&mock.Storage{}, &mockFetcher{})

		require.NotNil(t, tr)

		assert.NotNil(t, tr.storage)
		assert.NotNil(t, tr.fetcher)
		assert.NotNil(t, tr.logger)
		assert.Equal(t, time.Second, tr.queryInterval)
		assert.Equal(t, time.Second*30, tr.pollInterval)
	})

	t.Run("custom intervals", func(t *testing.T) {
		t.Parallel()

		tr := New(
			&mock.Storage{},
			&mockFetcher{},
			WithQueryInterval(time.Minute),
			WithPollInterval(time.Minute*5),
			WithRetryInterval(time.Minute),
		)

		require.NotNil(t, tr)
		assert.Equal(t, time.Minute, tr.queryInterval)
		assert.Equal(t, time.Minute*5, tr.pollInterval)
		assert.Equal(t, time.Minute, tr.retryInterval)
	})
}

func TestTracker_Track(t *testing.T) {
	t.Parallel()

	t.Run("nil record", func(t *testing.T) {
		t.Parallel()

		tr := New(&mock.Storage{}, &mockFetcher{})

		assert.ErrorIs(t, tr.Track(nil), errInvalidExchange)
	})

	t.Run("missing bid ID", func(t *testing.T) {
		t.Parallel()

		tr := New(&mock.Storage{}, &mockFetcher{})

		record := testRecord("ex-1", types.StatusNew)
		record.BidID = ""

		assert.ErrorIs(t, tr.Track(record), errInvalidExchange)
	})

	t.Run("terminal record", func(t *testing.T) {
		t.Parallel()

		tr := New(&mock.Storage{}, &mockFetcher{})

		assert.ErrorIs(
			t,
			tr.Track(testRecord("ex-1", types.StatusCompleted)),
			errAlreadyTerminal,
		)
	})

	t.Run("valid record", func(t *testing.T) {
		t.Parallel()

		tr := New(&mock.Storage{}, &mockFetcher{})

		require.NoError(t, tr.Track(testRecord("ex-1", types.StatusNew)))

		// Verify the exchange was registered
		var count int

		tr.tracked.Range(
			func(_, _ any) bool {
				count++

				return true
			},
		)

		assert.Equal(t, 1, count)

		// The scheduled poll should be immediate
		require.Equal(t, 1, tr.q.Len())
		assert.True(t, tr.q.Index(0).at.Before(time.Now().Add(time.Second)))
	})
}

func TestTracker_Resume(t *testing.T) {
	t.Parallel()

	t.Run("open exchanges re-registered", func(t *testing.T) {
		t.Parallel()

		storage := &mock.Storage{
			ListOpenFn: func(context.Context) ([]*types.ExchangeRecord, error) {
				return []*types.ExchangeRecord{
					testRecord("ex-1", types.StatusNew),
					testRecord("ex-2", types.StatusProcessing),
				}, nil
			},
		}

		tr := New(storage, &mockFetcher{})

		require.NoError(t, tr.Resume(context.Background()))
		assert.Equal(t, 2, tr.q.Len())
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("storage unavailable")

		storage := &mock.Storage{
			ListOpenFn: func(context.Context) ([]*types.ExchangeRecord, error) {
				return nil, expectedErr
			},
		}

		tr := New(storage, &mockFetcher{})

		assert.ErrorIs(t, tr.Resume(context.Background()), expectedErr)
	})
}

func TestTracker_Start(t *testing.T) {
	t.Parallel()

	t.Run("ctx canceled", func(t *testing.T) {
		t.Parallel()

		var (
			tr    = New(&mock.Storage{}, &mockFetcher{}, WithQueryInterval(time.Millisecond*10))
			errCh = make(chan error, 1)
		)

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- tr.Start(ctx)
		}()

		cancel()

		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("tracker did not shut down in time")
		}
	})

	t.Run("terminal status persisted and untracked", func(t *testing.T) {
		t.Parallel()

		var (
			savedStatus types.ExchangeStatus
			savedID     string
			saveDone    = make(chan struct{})

			storage = &mock.Storage{
				UpdateExchangeStatusFn: func(_ context.Context, id string, status types.ExchangeStatus) error {
					savedID = id
					savedStatus = status

					close(saveDone)

					return nil
				},
			}

			fetcher = &mockFetcher{
				statusFn: func(_ context.Context, bidID string) (*engine.BidStatus, error) {
					return &engine.BidStatus{
						ID:     bidID,
						Status: "completed",
					}, nil
				},
			}
		)

		var (
			tr    = New(storage, fetcher, WithQueryInterval(time.Millisecond*10))
			errCh = make(chan error, 1)
		)

		require.NoError(t, tr.Track(testRecord("ex-1", types.StatusProcessing)))

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- tr.Start(ctx)
		}()

		select {
		case <-saveDone:
			// Success
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for status update")
		}

		cancel()
		require.NoError(t, <-errCh)

		assert.Equal(t, "ex-1", savedID)
		assert.Equal(t, types.StatusCompleted, savedStatus)

		// Terminal exchanges leave the tracked set
		_, ok := tr.tracked.Load("ex-1")
		assert.False(t, ok)
	})

	t.Run("open status reschedules the poll", func(t *testing.T) {
		t.Parallel()

		var (
			pollCount atomic.Int32
			pollsDone = make(chan struct{})

			fetcher = &mockFetcher{
				statusFn: func(_ context.Context, bidID string) (*engine.BidStatus, error) {
					if pollCount.Add(1) == 2 {
						close(pollsDone)
					}

					return &engine.BidStatus{
						ID:     bidID,
						Status: "processing",
					}, nil
				},
			}
		)

		var (
			tr = New(
				&mock.Storage{},
				fetcher,
				WithQueryInterval(time.Millisecond*10),
				WithPollInterval(time.Millisecond*50),
			)
			errCh = make(chan error, 1)
		)

		require.NoError(t, tr.Track(testRecord("ex-1", types.StatusProcessing)))

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- tr.Start(ctx)
		}()

		select {
		case <-pollsDone:
			// Success
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for reschedule")
		}

		cancel()
		require.NoError(t, <-errCh)

		assert.GreaterOrEqual(t, pollCount.Load(), int32(2))
	})

	t.Run("retries on poll error", func(t *testing.T) {
		t.Parallel()

		var (
			pollCount atomic.Int32
			retryDone = make(chan struct{})

			fetcher = &mockFetcher{
				statusFn: func(context.Context, string) (*engine.BidStatus, error) {
					if pollCount.Add(1) == 2 {
						close(retryDone)
					}

					return nil, errors.New("poll error")
				},
			}
		)

		var (
			tr = New(
				&mock.Storage{},
				fetcher,
				WithQueryInterval(time.Millisecond*10),
				WithRetryInterval(time.Millisecond*50),
			)
			errCh = make(chan error, 1)
		)

		require.NoError(t, tr.Track(testRecord("ex-1", types.StatusNew)))

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- tr.Start(ctx)
		}()

		select {
		case <-retryDone:
			// Success
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for retry")
		}

		cancel()
		require.NoError(t, <-errCh)

		assert.GreaterOrEqual(t, pollCount.Load(), int32(2))

		// The exchange stays tracked across failed polls
		_, ok := tr.tracked.Load("ex-1")
		assert.True(t, ok)
	})

	t.Run("unchanged status skips the write", func(t *testing.T) {
		t.Parallel()

		var (
			updateCount atomic.Int32
			pollCount   atomic.Int32
			pollsDone   = make(chan struct{})

			storage = &mock.Storage{
				UpdateExchangeStatusFn: func(context.Context, string, types.ExchangeStatus) error {
					updateCount.Add(1)

					return nil
				},
			}

			fetcher = &mockFetcher{
				statusFn: func(_ context.Context, bidID string) (*engine.BidStatus, error) {
					if pollCount.Add(1) == 2 {
						close(pollsDone)
					}

					return &engine.BidStatus{
						ID:     bidID,
						Status: "processing",
					}, nil
				},
			}
		)

		var (
			tr = New(
				storage,
				fetcher,
				WithQueryInterval(time.Millisecond*10),
				WithPollInterval(time.Millisecond*50),
			)
			errCh = make(chan error, 1)
		)

		require.NoError(t, tr.Track(testRecord("ex-1", types.StatusProcessing)))

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			errCh <- tr.Start(ctx)
		}()

		select {
		case <-pollsDone:
			// Success
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for polls")
		}

		cancel()
		require.NoError(t, <-errCh)

		assert.EqualValues(t, 0, updateCount.Load())
	})
}
