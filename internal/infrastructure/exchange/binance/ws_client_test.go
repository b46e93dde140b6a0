package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"xprem/internal/application/port"
	"xprem/internal/infrastructure/exchange"
)

func TestSubscribeMessagesUsesAliases(t *testing.T) {
	a := New(exchange.Config{}, nil)
	msgs, err := a.SubscribeMessages("USDT", []string{"BTC", "BEAM"}, "")
	if err != nil {
		t.Fatalf("SubscribeMessages failed: %v", err)
	}
	want := `{"method":"SUBSCRIBE","params":["btcusdt@trade","beamxusdt@trade"],"id":1}`
	if len(msgs) != 1 || string(msgs[0]) != want {
		t.Fatalf("got %s, want %s", msgs, want)
	}
}

func TestParse(t *testing.T) {
	a := New(exchange.Config{}, nil)
	cases := []struct {
		raw    string
		ticker string
		quote  string
		price  float64
	}{
		{`{"e":"trade","s":"BTCUSDT","p":"65000.10"}`, "BTC", "USDT", 65000.10},
		{`{"stream":"ethusdc@trade","data":{"e":"trade","s":"ETHUSDC","p":"3000"}}`, "ETH", "USDC", 3000},
		{`{"e":"trade","s":"BEAMXUSDT","p":"0.02"}`, "BEAM", "USDT", 0.02},
	}
	for _, tc := range cases {
		tick, ok := <-a.Parse(port.Frame{Data: []byte(tc.raw)})
		if !ok {
			t.Errorf("%s: expected tick", tc.raw)
			continue
		}
		if tick.Ticker != tc.ticker || tick.Quote != tc.quote || tick.Price != tc.price {
			t.Errorf("%s: got %+v", tc.raw, tick)
		}
	}

	for _, raw := range []string{
		`{"result":null,"id":1}`,
		`{"e":"trade","s":"BTCEUR","p":"1"}`,
		`{"e":"trade","s":"BTCUSDT","p":"0"}`,
		`{"e":"trade","s":"BTCUSDT","p":"abc"}`,
	} {
		if _, ok := <-a.Parse(port.Frame{Data: []byte(raw)}); ok {
			t.Errorf("%s should be dropped", raw)
		}
	}
}

func TestFallbackAndFetch(t *testing.T) {
	a := New(exchange.Config{RestURL: "http://127.0.0.1:1"}, nil)
	if got := a.AvailableTickers("USDC"); !slices.Equal(got, usdcFallback) {
		t.Fatalf("cold USDC list should be the fallback, got %v", got)
	}
	if got := a.FetchAvailableTickers(context.Background(), "USDT"); !slices.Equal(got, usdtFallback) {
		t.Fatalf("unreachable REST should return fallback, got %v", got)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/exchangeInfo":
			_, _ = w.Write([]byte(`{"symbols":[
				{"symbol":"BTCUSDT","baseAsset":"BTC","quoteAsset":"USDT","status":"TRADING"},
				{"symbol":"BEAMXUSDT","baseAsset":"BEAMX","quoteAsset":"USDT","status":"TRADING"},
				{"symbol":"LUNAUSDT","baseAsset":"LUNA","quoteAsset":"USDT","status":"BREAK"},
				{"symbol":"ETHUSDC","baseAsset":"ETH","quoteAsset":"USDC","status":"TRADING"}]}`))
		case "/api/v3/ticker/price":
			_, _ = w.Write([]byte(`[{"symbol":"BTCUSDT","price":"65000"},{"symbol":"BEAMXUSDT","price":"0"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	b := New(exchange.Config{RestURL: srv.URL}, nil)
	got := b.FetchAvailableTickers(context.Background(), "USDT")
	if !slices.Equal(got, []string{"BTC", "BEAM"}) {
		t.Fatalf("FetchAvailableTickers = %v", got)
	}
	prices := b.CachedPrices("USDT")
	if prices["BTC"] != 65000 {
		t.Fatalf("BTC price not cached: %v", prices)
	}
	if _, ok := prices["BEAM"]; ok {
		t.Fatal("zero price must be discarded")
	}
}
