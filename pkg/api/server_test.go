package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradesim/venue-sim/pkg/logging"
	"github.com/tradesim/venue-sim/pkg/venue"
)

func newTestServer(t *testing.T) (*httptest.Server, *venue.Venue) {
	t.Helper()

	v := venue.NewVenue(&venue.Config{Logger: logging.NewNopLogger()}, venue.NopGateway{})
	require.NoError(t, v.Start(context.Background()))
	t.Cleanup(v.Stop)

	s := NewServer(v, logging.NewNopLogger())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	return ts, v
}

func postOrder(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/v1/orders", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func TestSubmitOrderAccepted(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postOrder(t, ts, `{"clOrdId":"C1","account":"ACC1","symbol":"AAPL","side":"BUY","price":100,"quantity":10}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out SubmitOrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "C1", out.ClOrdID)
	assert.Equal(t, "accepted", out.Status)
}

func TestSubmitOrderDuplicate(t *testing.T) {
	ts, _ := newTestServer(t)

	first := postOrder(t, ts, `{"clOrdId":"C1","account":"ACC1","symbol":"AAPL","side":"BUY","price":100,"quantity":10}`)
	first.Body.Close()
	require.Equal(t, http.StatusOK, first.StatusCode)

	second := postOrder(t, ts, `{"clOrdId":"C1","account":"ACC1","symbol":"AAPL","side":"BUY","price":100,"quantity":10}`)
	defer second.Body.Close()
	assert.Equal(t, http.StatusConflict, second.StatusCode)
}

func TestSubmitOrderRejected(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postOrder(t, ts, `{"clOrdId":"C1","account":"ACC1","symbol":"AAPL","side":"BUY","price":100,"quantity":0}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSubmitOrderBadSide(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postOrder(t, ts, `{"clOrdId":"C1","symbol":"AAPL","side":"SHORT","price":100,"quantity":10}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetBookAndTrades(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, body := range []string{
		`{"clOrdId":"B1","account":"A","symbol":"AAPL","side":"BUY","price":100,"quantity":10}`,
		`{"clOrdId":"S1","account":"A","symbol":"AAPL","side":"SELL","price":99,"quantity":5}`,
	} {
		resp := postOrder(t, ts, body)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/api/v1/markets/AAPL/book")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var book BookSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&book))
	require.Len(t, book.Bids, 1)
	assert.Equal(t, 100.0, book.Bids[0].Price)
	assert.Equal(t, int64(5), book.Bids[0].Qty)
	assert.Empty(t, book.Asks)

	tradesResp, err := http.Get(ts.URL + "/api/v1/markets/AAPL/trades")
	require.NoError(t, err)
	defer tradesResp.Body.Close()

	var trades []TradeInfo
	require.NoError(t, json.NewDecoder(tradesResp.Body).Decode(&trades))
	require.Len(t, trades, 1)
	assert.Equal(t, 100.0, trades[0].Price)
	assert.Equal(t, int64(5), trades[0].Qty)
}

func TestGetBookUnknownSymbol(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/markets/NOPE/book")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
