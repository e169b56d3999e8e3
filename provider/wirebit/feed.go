package wirebit

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
)

// FeedItem is a single entry of the XML rate export feed.
// Amount fields are kept as raw feed text: minamount and maxamount carry
// trailing unit suffixes ("0.001 BTC") that the consumer strips
type FeedItem struct {
	From      string `xml:"from"`
	To        string `xml:"to"`
	In        string `xml:"in"`
	Out       string `xml:"out"`
	MinAmount string `xml:"minamount"`
	MaxAmount string `xml:"maxamount"`
	Reserve   string `xml:"amount"`
}

// feedDocument matches the export feed root, whatever its element name
type feedDocument struct {
	Items []FeedItem `xml:"item"`
}

// Feed fetches and parses the provider's XML rate export
func (c *Client) Feed(ctx context.Context) ([]FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create feed request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to execute feed request: %s", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: invalid status code received: %d", ErrNetwork, resp.StatusCode)
	}

	var doc feedDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: unable to decode rate feed: %s", ErrMalformed, err)
	}

	return doc.Items, nil
}
