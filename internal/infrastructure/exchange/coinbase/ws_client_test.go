package coinbase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"xprem/internal/application/port"
	"xprem/internal/infrastructure/exchange"
)

func TestSubscribeMessages(t *testing.T) {
	a := New(exchange.Config{}, nil)
	msgs, err := a.SubscribeMessages("USDC", []string{"BTC", "ETH"}, "")
	if err != nil {
		t.Fatalf("SubscribeMessages failed: %v", err)
	}
	want := `{"type":"subscribe","product_ids":["BTC-USD","ETH-USD"],"channel":"ticker_batch"}`
	if string(msgs[0]) != want {
		t.Fatalf("got %s, want %s", msgs[0], want)
	}
}

func TestParseReportsUSDC(t *testing.T) {
	a := New(exchange.Config{}, nil)
	raw := `{"channel":"ticker_batch","events":[{"type":"snapshot","tickers":[{"product_id":"BTC-USD","price":"65010.01"}]}]}`
	tick, ok := <-a.Parse(port.Frame{Data: []byte(raw)})
	if !ok || tick.Ticker != "BTC" || tick.Quote != "USDC" || tick.Price != 65010.01 {
		t.Fatalf("unexpected tick %+v %v", tick, ok)
	}
	for _, raw := range []string{
		`{"channel":"subscriptions","events":[]}`,
		`{"channel":"ticker_batch","events":[{"tickers":[]}]}`,
		`{"channel":"ticker_batch","events":[{"tickers":[{"product_id":"BTC-USD","price":"x"}]}]}`,
	} {
		if _, ok := <-a.Parse(port.Frame{Data: []byte(raw)}); ok {
			t.Errorf("%s should be dropped", raw)
		}
	}
}

func TestParseSkipsMalformedBatchEntries(t *testing.T) {
	a := New(exchange.Config{}, nil)
	raw := `{"channel":"ticker_batch","events":[` +
		`{"tickers":[{"product_id":"BAD","price":"1"},{"product_id":"SOL-USD","price":"0"}]},` +
		`{"tickers":[{"product_id":"eth-usd","price":"3100.5"},{"product_id":"BTC-USD","price":"65000"}]}]}`
	tick, ok := <-a.Parse(port.Frame{Data: []byte(raw)})
	if !ok || tick.Ticker != "ETH" || tick.Symbol != "ETH-USD" || tick.Price != 3100.5 {
		t.Fatalf("want first valid entry ETH, got %+v %v", tick, ok)
	}
}

func TestFetchAvailableTickers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":"BTC-USD","base_currency":"BTC","quote_currency":"USD","status":"online"},
			{"id":"BTC-EUR","base_currency":"BTC","quote_currency":"EUR","status":"online"},
			{"id":"OLD-USD","base_currency":"OLD","quote_currency":"USD","status":"delisted"}]`))
	}))
	defer srv.Close()

	a := New(exchange.Config{RestURL: srv.URL}, nil)
	if got := a.FetchAvailableTickers(context.Background(), "USDC"); !slices.Equal(got, []string{"BTC"}) {
		t.Fatalf("FetchAvailableTickers = %v", got)
	}
}
