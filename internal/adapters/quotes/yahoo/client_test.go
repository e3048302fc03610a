package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quoteFixture = `{
	"quoteResponse": {
		"result": [{
			"symbol": "GME",
			"shortName": "GameStop Corp.",
			"regularMarketPrice": 25.42,
			"regularMarketChange": -1.08,
			"regularMarketChangePercent": -4.07,
			"marketCap": 7800000000
		}],
		"error": null
	}
}`

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
	)
}

func TestFetchQuoteMapsResult(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(quoteFixture))
	}))
	defer srv.Close()

	client := newTestClient(srv)

	quote, err := client.FetchQuote(context.Background(), "GME")

	require.NoError(t, err)
	assert.Equal(t, "symbols=GME", gotQuery)
	assert.Equal(t, "GME", quote.Ticker)
	assert.Equal(t, "GameStop Corp.", quote.DisplayName)
	require.NotNil(t, quote.Price)
	assert.Equal(t, 25.42, *quote.Price)
	require.NotNil(t, quote.Change)
	assert.Equal(t, -1.08, *quote.Change)
	require.NotNil(t, quote.MarketCap)
	assert.Equal(t, 7.8e9, *quote.MarketCap)
}

func TestFetchQuoteOptionalFieldsStayNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"PRIV","longName":"Private Holdings"}],"error":null}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)

	quote, err := client.FetchQuote(context.Background(), "PRIV")

	require.NoError(t, err)
	assert.Equal(t, "Private Holdings", quote.DisplayName, "longName used when shortName missing")
	assert.Nil(t, quote.Price)
	assert.Nil(t, quote.Change)
	assert.Nil(t, quote.ChangePercent)
	assert.Nil(t, quote.MarketCap)
}

func TestFetchQuoteNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)

	_, err := client.FetchQuote(context.Background(), "NOPE")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no quote data")
}

func TestFetchQuoteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[],"error":{"code":"Bad Request","description":"invalid symbol"}}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)

	_, err := client.FetchQuote(context.Background(), "???")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid symbol")
}

func TestFetchQuoteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv)

	_, err := client.FetchQuote(context.Background(), "GME")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
