package exchange

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
)

func TestCacheIsolation(t *testing.T) {
	c := NewCache()
	src := []string{"BTC", "ETH"}
	c.SetTickers("USDT", src)
	src[0] = "XXX"

	got, ok := c.Tickers("USDT")
	if !ok || got[0] != "BTC" {
		t.Fatalf("cache must copy input, got %v", got)
	}
	got[1] = "YYY"
	again, _ := c.Tickers("USDT")
	if again[1] != "ETH" {
		t.Fatal("cache must copy output")
	}
	if _, ok := c.Tickers("USDC"); ok {
		t.Fatal("unknown quote should report not cached")
	}
}

func TestCachesSharedPerExchange(t *testing.T) {
	cs := NewCaches()
	if cs.For("binance") != cs.For("binance") {
		t.Fatal("same exchange must share a cache")
	}
	if cs.For("binance") == cs.For("bybit") {
		t.Fatal("different exchanges must not share a cache")
	}
}

func TestBaseRefreshFallsBack(t *testing.T) {
	b := NewBase("test", "Test", []string{"USDT"}, Config{}, nil)
	b.Fallback = func(string) []string { return []string{"BTC"} }

	fail := func(context.Context, string) ([]string, map[string]float64, error) {
		return nil, nil, errors.New("boom")
	}
	if got := b.Refresh(context.Background(), "USDT", fail); !slices.Equal(got, []string{"BTC"}) {
		t.Fatalf("failed fetch without cache should use fallback, got %v", got)
	}

	ok := func(context.Context, string) ([]string, map[string]float64, error) {
		return []string{"ETH", "SOL", "ETH"}, map[string]float64{"ETH": 3000}, nil
	}
	if got := b.Refresh(context.Background(), "USDT", ok); !slices.Equal(got, []string{"ETH", "SOL"}) {
		t.Fatalf("Refresh = %v", got)
	}
	if b.CachedPrices("USDT")["ETH"] != 3000 {
		t.Fatal("prices should be cached")
	}

	// cache beats fallback once populated
	if got := b.Refresh(context.Background(), "USDT", fail); !slices.Equal(got, []string{"ETH", "SOL"}) {
		t.Fatalf("failed fetch should return cached list, got %v", got)
	}
	if got := b.AvailableTickers("KRW"); got != nil {
		t.Fatalf("unsupported quote should yield nil, got %v", got)
	}
}

func TestRESTClientGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			http.Error(w, "nope", http.StatusTeapot)
			return
		}
		if r.URL.Query().Get("category") != "spot" {
			t.Errorf("missing query, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"value":42}`))
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL+"/", 100, 0)
	var v struct {
		Value int `json:"value"`
	}
	if err := c.GetJSON(context.Background(), "/ok", map[string][]string{"category": {"spot"}}, &v); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if v.Value != 42 {
		t.Fatalf("decoded %d, want 42", v.Value)
	}
	if err := c.GetJSON(context.Background(), "/bad", nil, &v); err == nil {
		t.Fatal("non-200 must fail")
	}
}
