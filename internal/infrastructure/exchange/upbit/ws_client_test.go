package upbit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"xprem/internal/application/port"
	"xprem/internal/domain"
	"xprem/internal/infrastructure/exchange"

	"github.com/gorilla/websocket"
)

func await(p port.Pending) (domain.Tick, bool) {
	t, ok := <-p
	return t, ok
}

func TestSubscribeMessagesAppendsCrossRateCode(t *testing.T) {
	a := New(exchange.Config{}, nil)
	msgs, err := a.SubscribeMessages("KRW", []string{"BTC", "ETH"}, "KRW-USDT")
	if err != nil {
		t.Fatalf("SubscribeMessages failed: %v", err)
	}
	want := `[{"ticket":"premium-table"},{"type":"ticker","codes":["KRW-BTC","KRW-ETH","KRW-USDT"]},{"format":"SIMPLE"}]`
	if len(msgs) != 1 || string(msgs[0]) != want {
		t.Fatalf("got %s\nwant %s", msgs, want)
	}

	msgs, _ = a.SubscribeMessages("KRW", []string{"USDT"}, "KRW-USDT")
	want = `[{"ticket":"premium-table"},{"type":"ticker","codes":["KRW-USDT"]},{"format":"SIMPLE"}]`
	if string(msgs[0]) != want {
		t.Fatalf("aux code must not be duplicated: %s", msgs[0])
	}
}

func TestParseBinarySimpleFrame(t *testing.T) {
	a := New(exchange.Config{}, nil)
	tick, ok := await(a.Parse(port.Frame{
		Type: websocket.BinaryMessage,
		Data: []byte(`{"ty":"ticker","cd":"KRW-BTC","tp":145000000.0,"tv":0.01}`),
	}))
	if !ok {
		t.Fatal("expected a tick")
	}
	if tick.Ticker != "BTC" || tick.Symbol != "KRW-BTC" || tick.Quote != "KRW" || tick.Price != 145000000 {
		t.Fatalf("unexpected tick %+v", tick)
	}

	for _, raw := range []string{
		`{"status":"UP"}`,
		`{"ty":"ticker","cd":"KRW-BTC","tp":0}`,
		`{"ty":"ticker","cd":"KRW-BTC","tp":-3}`,
		`{"ty":"ticker","cd":"BTC","tp":1}`,
		`not json`,
	} {
		if _, ok := await(a.Parse(port.Frame{Type: websocket.BinaryMessage, Data: []byte(raw)})); ok {
			t.Errorf("frame %s should be dropped", raw)
		}
	}
}

func TestFetchAvailableTickers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/market/all" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[{"market":"KRW-BTC"},{"market":"BTC-ETH"},{"market":"KRW-XRP"},{"market":"USDT-SOL"}]`))
	}))
	defer srv.Close()

	cache := exchange.NewCache()
	a := New(exchange.Config{RestURL: srv.URL}, cache)
	if got := a.AvailableTickers("KRW"); len(got) != 0 {
		t.Fatalf("cold cache should be empty, got %v", got)
	}
	got := a.FetchAvailableTickers(context.Background(), "KRW")
	if !slices.Equal(got, []string{"BTC", "XRP"}) {
		t.Fatalf("FetchAvailableTickers = %v", got)
	}
	// a second adapter sharing the cache sees the result synchronously
	b := New(exchange.Config{}, cache)
	if !slices.Equal(b.AvailableTickers("KRW"), []string{"BTC", "XRP"}) {
		t.Fatal("injected cache should be shared")
	}
	if a.FetchAvailableTickers(context.Background(), "USDT") != nil {
		t.Fatal("unsupported quote should return nil")
	}
}
