package track

import (
	"context"
	"time"

	"github.com/swaplane/swaplane/engine"
)

// scheduledPoll is a single scheduled exchange status poll
type scheduledPoll struct {
	at         time.Time
	exchangeID string
}

// Less is utilized to sort scheduled polls by their due-time (latest == first)
func (a scheduledPoll) Less(b scheduledPoll) bool {
	return a.at.Before(b.at)
}

// workerInfo is the work context for the poll routine
type workerInfo struct {
	fetcher    StatusFetcher
	resCh      chan<- *workerResponse
	bidID      string
	exchangeID string
}

// workerResponse is the poll routine response
type workerResponse struct {
	error      error             // encountered error, if any
	status     *engine.BidStatus // the fetched bid status
	exchangeID string            // the local exchange ID
}

// handleJob fetches the bid status using the fetcher
func handleJob(
	ctx context.Context,
	info *workerInfo,
) {
	status, err := info.fetcher.Status(ctx, info.bidID)

	response := &workerResponse{
		error:      err,
		status:     status,
		exchangeID: info.exchangeID,
	}

	select {
	case <-ctx.Done():
	case info.resCh <- response:
	}
}
