package bybit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"xprem/internal/application/port"
	"xprem/internal/infrastructure/exchange"
)

func TestSubscribeMessagesChunksByTen(t *testing.T) {
	a := New(exchange.Config{}, nil)
	tickers := make([]string, 25)
	for i := range tickers {
		tickers[i] = "C" + strings.Repeat("X", i)
	}
	msgs, err := a.SubscribeMessages("USDT", tickers, "")
	if err != nil {
		t.Fatalf("SubscribeMessages failed: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("want 3 frames, got %d", len(msgs))
	}
	if !strings.HasPrefix(string(msgs[0]), `{"op":"subscribe","args":["tickers.CUSDT","tickers.CXUSDT"`) {
		t.Fatalf("unexpected frame %s", msgs[0])
	}
	if n := strings.Count(string(msgs[2]), "tickers."); n != 5 {
		t.Fatalf("last frame has %d topics, want 5", n)
	}
}

func TestHeartbeat(t *testing.T) {
	hb := New(exchange.Config{}, nil).Heartbeat()
	if string(hb.Message) != `{"op":"ping"}` || hb.Interval != heartbeatInterval {
		t.Fatalf("unexpected heartbeat %+v", hb)
	}
}

func TestParse(t *testing.T) {
	a := New(exchange.Config{}, nil)
	tick, ok := <-a.Parse(port.Frame{Data: []byte(`{"topic":"tickers.SOLUSDC","type":"snapshot","data":{"symbol":"SOLUSDC","lastPrice":"150.25"}}`)})
	if !ok || tick.Ticker != "SOL" || tick.Quote != "USDC" || tick.Price != 150.25 {
		t.Fatalf("unexpected tick %+v %v", tick, ok)
	}
	tick, ok = <-a.Parse(port.Frame{Data: []byte(`{"topic":"tickers.BTCUSDT","data":[{"symbol":"BTCUSDT","lastPrice":"65000"}]}`)})
	if !ok || tick.Ticker != "BTC" {
		t.Fatalf("array data should parse: %+v %v", tick, ok)
	}
	for _, raw := range []string{
		`{"success":true,"ret_msg":"pong","op":"ping"}`,
		`{"success":true,"ret_msg":"","op":"subscribe"}`,
		`{"topic":"orderbook.1.BTCUSDT","data":{"symbol":"BTCUSDT"}}`,
		`{"topic":"tickers.BTCUSDT","data":{"symbol":"BTCUSDT","lastPrice":""}}`,
	} {
		if _, ok := <-a.Parse(port.Frame{Data: []byte(raw)}); ok {
			t.Errorf("%s should be dropped", raw)
		}
	}
}

func TestFetchAvailableTickersWithPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"category":"spot","list":[
			{"symbol":"BTCUSDT","lastPrice":"65000"},
			{"symbol":"ETHUSDC","lastPrice":"3000"},
			{"symbol":"DEADUSDT","lastPrice":"0"},
			{"symbol":"XRPUSDT","lastPrice":"0.5"}]}}`))
	}))
	defer srv.Close()

	a := New(exchange.Config{RestURL: srv.URL}, nil)
	got := a.FetchAvailableTickers(context.Background(), "USDT")
	if !slices.Equal(got, []string{"BTC", "XRP"}) {
		t.Fatalf("FetchAvailableTickers = %v", got)
	}
	if p := a.CachedPrices("USDT"); p["XRP"] != 0.5 || len(p) != 2 {
		t.Fatalf("CachedPrices = %v", p)
	}
}
