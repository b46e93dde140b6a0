package exchange

import (
	"testing"
)

func TestNormalizerDefaultAliases(t *testing.T) {
	n := NewNormalizer("binance", nil)
	if got := n.ToCanonical("BEAMX"); got != "BEAM" {
		t.Fatalf("ToCanonical(BEAMX) = %q, want BEAM", got)
	}
	if got := n.ToExchange("BEAM"); got != "BEAMX" {
		t.Fatalf("ToExchange(BEAM) = %q, want BEAMX", got)
	}
	if got := n.ToCanonical("btc"); got != "BTC" {
		t.Fatalf("unmapped symbol should pass through upper-cased, got %q", got)
	}
}

func TestNormalizerIsBijective(t *testing.T) {
	n := NewNormalizer("okx", map[string]string{"AAA": "X", "BBB": "X", "ccc": "zzz"})
	// AAA wins (sorted first); BBB passes through
	if n.ToCanonical("AAA") != "X" || n.ToCanonical("BBB") != "BBB" {
		t.Fatalf("duplicate canonical target must keep a single mapping")
	}
	if n.ToExchange("X") != "AAA" {
		t.Fatalf("ToExchange(X) = %q", n.ToExchange("X"))
	}
	if n.ToCanonical("CCC") != "ZZZ" || n.ToExchange("ZZZ") != "CCC" {
		t.Fatal("config aliases should be normalized to upper case")
	}
}

func TestConverters(t *testing.T) {
	s := SuffixConverter{Quote: "USDT"}
	if coin, ok := s.Symbol2Coin("BTCUSDT"); !ok || coin != "BTC" {
		t.Fatalf("Symbol2Coin(BTCUSDT) = %q, %v", coin, ok)
	}
	if _, ok := s.Symbol2Coin("BTCUSDC"); ok {
		t.Fatal("wrong quote should not convert")
	}
	if _, ok := s.Symbol2Coin("USDT"); ok {
		t.Fatal("bare quote should not convert")
	}

	d := DashConverter{Quote: "KRW", QuoteFirst: true}
	if d.Coin2Symbol("btc") != "KRW-BTC" {
		t.Fatalf("Coin2Symbol = %q", d.Coin2Symbol("btc"))
	}
	if coin, ok := d.Symbol2Coin("KRW-ETH"); !ok || coin != "ETH" {
		t.Fatalf("Symbol2Coin(KRW-ETH) = %q, %v", coin, ok)
	}

	o := DashConverter{Quote: "USDC"}
	if _, ok := o.Symbol2Coin("BTC-USDT"); ok {
		t.Fatal("dash converter must check quote")
	}
}

func TestParsePrice(t *testing.T) {
	good := map[string]float64{"1": 1, "0.00001234": 0.00001234, " 65000.5 ": 65000.5}
	for in, want := range good {
		got, err := ParsePrice(in)
		if err != nil || got != want {
			t.Errorf("ParsePrice(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, in := range []string{"", "0", "-1", "abc", "1.2.3"} {
		if _, err := ParsePrice(in); err == nil {
			t.Errorf("ParsePrice(%q) should fail", in)
		}
	}
}

func TestChunkStrings(t *testing.T) {
	in := make([]string, 23)
	for i := range in {
		in[i] = string(rune('A' + i))
	}
	chunks := ChunkStrings(in, 10)
	if len(chunks) != 3 || len(chunks[0]) != 10 || len(chunks[2]) != 3 {
		t.Fatalf("unexpected chunking: %d chunks", len(chunks))
	}
	if ChunkStrings(nil, 10) != nil {
		t.Fatal("empty input yields no chunks")
	}
	if len(ChunkStrings(in[:5], 10)) != 1 {
		t.Fatal("short input yields a single chunk")
	}
}
