package domain

import (
	"math"
	"testing"
)

func TestPremium(t *testing.T) {
	cases := []struct {
		name       string
		a, b, rate float64
		want       float64
	}{
		{"positive", 1400, 1, 1300, 1400.0/1300.0 - 1},
		{"parity", 100, 100, 1, 0},
		{"negative", 95, 100, 1, -0.05},
		{"missing A", 0, 100, 1, 0},
		{"missing B", 100, 0, 1, 0},
		{"unknown rate", 100, 100, 0, 0},
		{"negative rate", 100, 100, -1, 0},
		{"negative price", -5, 100, 1, 0},
	}
	for _, tc := range cases {
		got := Premium(tc.a, tc.b, tc.rate)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("%s: Premium(%v, %v, %v) = %v, want %v", tc.name, tc.a, tc.b, tc.rate, got, tc.want)
		}
	}
}

func TestArbitrageable(t *testing.T) {
	bWithdrawADeposit := WalletStatus{
		Network: "ERC20",
		MarketA: NetworkStatus{Deposit: true},
		MarketB: NetworkStatus{Withdraw: true},
	}
	aWithdrawBDeposit := WalletStatus{
		Network: "TRC20",
		MarketA: NetworkStatus{Withdraw: true},
		MarketB: NetworkStatus{Deposit: true},
	}

	if !Arbitrageable(0.03, []WalletStatus{bWithdrawADeposit}) {
		t.Error("positive premium with B->A route should be eligible")
	}
	if Arbitrageable(0.03, []WalletStatus{aWithdrawBDeposit}) {
		t.Error("positive premium with only A->B route should not be eligible")
	}
	if !Arbitrageable(-0.02, []WalletStatus{bWithdrawADeposit, aWithdrawBDeposit}) {
		t.Error("negative premium with A->B route on any network should be eligible")
	}
	if Arbitrageable(0, []WalletStatus{bWithdrawADeposit, aWithdrawBDeposit}) {
		t.Error("zero premium is never eligible")
	}
	if Arbitrageable(0.5, nil) {
		t.Error("no networks means not eligible")
	}
}

func TestMarketRowPremiumUsesCrossRate(t *testing.T) {
	row := MarketRow{Ticker: "BTC", PriceA: 140_000_000, PriceB: 100_000}
	if got := row.Premium(0); got != 0 {
		t.Fatalf("unknown cross-rate: got %v, want 0", got)
	}
	got := row.Premium(1350)
	want := 140_000_000.0/(100_000.0*1350.0) - 1
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPremiumBand(t *testing.T) {
	if PremiumBand(0.02, 0.01) != +1 || PremiumBand(-0.02, 0.01) != -1 || PremiumBand(0.005, 0.01) != 0 {
		t.Fatal("unexpected band classification")
	}
	if PremiumBand(0.5, 0) != 0 {
		t.Fatal("non-positive threshold disables banding")
	}
}

func TestMarketIDKey(t *testing.T) {
	m := NewMarketID(" Upbit ", "krw")
	if m.Key() != "upbit:KRW" {
		t.Fatalf("Key() = %q", m.Key())
	}
	back, ok := ParseMarketID("binance:usdt")
	if !ok || back != NewMarketID("binance", "USDT") {
		t.Fatalf("ParseMarketID = %v, %v", back, ok)
	}
	if _, ok := ParseMarketID("binance"); ok {
		t.Fatal("missing quote should not parse")
	}
}
