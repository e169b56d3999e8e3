package wirebit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		BaseURL:  srv.URL + "/",
		FeedURL:  srv.URL + "/export.xml",
		APIKey:   "test-key",
		APILogin: "test-login",
		Timeout:  time.Second * 5,
	})
}

func TestClient_Directions(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		var capturedHeaders http.Header

		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			capturedHeaders = r.Header.Clone()

			assert.Equal(t, "/get_directions", r.URL.Path)

			// direction_id arrives as a number for some directions,
			// as a string for others
			_, _ = w.Write([]byte(`{
				"error": 0,
				"data": [
					{
						"direction_id": 5,
						"currency_give_title": "Bitcoin BTC",
						"currency_get_title": "Tether TRC20 USDT",
						"currency_give_logo": "https://cdn/btc.svg",
						"currency_get_logo": "https://cdn/usdt.svg"
					},
					{
						"direction_id": "17",
						"currency_give_title": "Zelle USD",
						"currency_get_title": "Сбербанк RUB"
					}
				]
			}`))
		})

		directions, err := c.Directions(context.Background())
		require.NoError(t, err)
		require.Len(t, directions, 2)

		assert.Equal(t, "5", directions[0].ID.String())
		assert.Equal(t, "Bitcoin BTC", directions[0].FromTitle)
		assert.Equal(t, "Tether TRC20 USDT", directions[0].ToTitle)
		assert.Equal(t, "https://cdn/btc.svg", directions[0].FromLogo)

		assert.Equal(t, "17", directions[1].ID.String())
		assert.Equal(t, "Сбербанк RUB", directions[1].ToTitle)

		assert.Equal(t, "test-key", capturedHeaders.Get(headerAPIKey))
		assert.Equal(t, "test-login", capturedHeaders.Get(headerAPILogin))
	})

	t.Run("envelope error", func(t *testing.T) {
		t.Parallel()

		c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"error": 14, "error_text": "access denied"}`))
		})

		_, err := c.Directions(context.Background())

		var apiErr *APIError

		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "14", apiErr.Code)
		assert.Equal(t, "access denied", apiErr.Message)
	})

	t.Run("string zero error code", func(t *testing.T) {
		t.Parallel()

		c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"error": "0", "data": []}`))
		})

		directions, err := c.Directions(context.Background())

		require.NoError(t, err)
		assert.Empty(t, directions)
	})

	t.Run("malformed envelope", func(t *testing.T) {
		t.Parallel()

		c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>maintenance</html>`))
		})

		_, err := c.Directions(context.Background())

		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("invalid status code", func(t *testing.T) {
		t.Parallel()

		c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := c.Directions(context.Background())

		assert.ErrorIs(t, err, ErrNetwork)
	})
}

func TestClient_CreateBid(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/create_bid", r.URL.Path)
			assert.Equal(t, contentTypeForm, r.Header.Get("Content-Type"))

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "5", r.PostForm.Get("direction_id"))
			assert.Equal(t, "0.5", r.PostForm.Get("sum1"))

			_, _ = w.Write([]byte(`{"error": "0", "data": {"bid_id": 99311, "status": "new"}}`))
		})

		form := map[string][]string{
			"direction_id": {"5"},
			"sum1":         {"0.5"},
		}

		info, err := c.CreateBid(context.Background(), form)

		require.NoError(t, err)
		assert.Equal(t, "99311", info.ID.String())
		assert.Equal(t, "new", info.Status)
	})

	t.Run("field errors preserved", func(t *testing.T) {
		t.Parallel()

		c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{
				"error": 2,
				"error_text": "validation failed",
				"error_fields": {"account2": "invalid wallet address"}
			}`))
		})

		_, err := c.CreateBid(context.Background(), map[string][]string{})

		var apiErr *APIError

		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "invalid wallet address", apiErr.Fields["account2"])
		assert.Equal(t, "validation failed", apiErr.Message)
	})
}

func TestClient_BidStatus(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_status", r.URL.Path)
		assert.Equal(t, "99311", r.URL.Query().Get("bid_id"))

		_, _ = w.Write([]byte(`{"error": 0, "data": {"bid_id": "99311", "status": "processing"}}`))
	})

	info, err := c.BidStatus(context.Background(), "99311")

	require.NoError(t, err)
	assert.Equal(t, "processing", info.Status)
}

func TestClient_Feed(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/export.xml", r.URL.Path)

			_, _ = w.Write([]byte(`<rates>
				<item>
					<from>BTC</from>
					<to>USDTTRC20</to>
					<in>1</in>
					<out>101520.4</out>
					<minamount>0.001 BTC</minamount>
					<maxamount>2 BTC</maxamount>
					<amount>524000.11</amount>
				</item>
				<item>
					<from>ZELLEUSD</from>
					<to>SBERRUB</to>
					<in>1</in>
					<out>79.1</out>
					<minamount>100 USD</minamount>
					<maxamount>10000 USD</maxamount>
					<amount>2000000</amount>
				</item>
			</rates>`))
		})

		items, err := c.Feed(context.Background())

		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, "BTC", items[0].From)
		assert.Equal(t, "USDTTRC20", items[0].To)
		assert.Equal(t, "1", items[0].In)
		assert.Equal(t, "101520.4", items[0].Out)
		assert.Equal(t, "0.001 BTC", items[0].MinAmount)
		assert.Equal(t, "2 BTC", items[0].MaxAmount)
		assert.Equal(t, "524000.11", items[0].Reserve)
	})

	t.Run("malformed feed", func(t *testing.T) {
		t.Parallel()

		c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"not": "xml"}`))
		})

		_, err := c.Feed(context.Background())

		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("invalid status code", func(t *testing.T) {
		t.Parallel()

		c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := c.Feed(context.Background())

		assert.ErrorIs(t, err, ErrNetwork)
	})
}
