package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ``))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pair.ExchangeA != "upbit" || cfg.Pair.QuoteA != "KRW" || cfg.Pair.ExchangeB != "binance" || cfg.Pair.QuoteB != "USDT" {
		t.Errorf("default pair = %+v", cfg.Pair)
	}
	if cfg.Pair.Reference != "BTC" {
		t.Errorf("reference = %q", cfg.Pair.Reference)
	}
	if cfg.Stream.MaxRetries != 10 || cfg.RetryDelay().Seconds() != 3 {
		t.Errorf("stream defaults = %+v", cfg.Stream)
	}
	if cfg.App.PublishIntervalMs != 16 || cfg.App.RenderEveryMs != 250 {
		t.Errorf("app defaults = %+v", cfg.App)
	}
	if !cfg.ExchangeEnabled("okx") {
		t.Error("unlisted exchange should be enabled")
	}
}

func TestLoadFull(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[app]
log_level = "debug"

[pair]
exchange_a = " Bithumb "
quote_a = "krw"
exchange_b = "OKX"
quote_b = "usdc"
reference = "eth"

[stream]
max_retries = 3

[exchange.binance]
enabled = false

[exchange.okx]
rest_rps = 5
aliases = { "BEAMX" = "BEAM" }

[storage.redis]
enabled = true
addr = "127.0.0.1:6379"

[[wallet]]
ticker = "xrp"
network = "XRP"
a_deposit = true
b_withdraw = true
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pair.ExchangeA != "bithumb" || cfg.Pair.QuoteB != "USDC" || cfg.Pair.Reference != "ETH" {
		t.Errorf("pair = %+v", cfg.Pair)
	}
	if cfg.Stream.MaxRetries != 3 {
		t.Errorf("max_retries = %d", cfg.Stream.MaxRetries)
	}
	if cfg.ExchangeEnabled("binance") {
		t.Error("binance should be disabled")
	}
	if ex := cfg.Exchange("OKX"); ex.RestRPS != 5 || ex.Aliases["BEAMX"] != "BEAM" {
		t.Errorf("okx = %+v", ex)
	}
	if cfg.Storage.Redis.Prefix != "xprem" {
		t.Errorf("redis prefix = %q", cfg.Storage.Redis.Prefix)
	}
	if len(cfg.Wallets) != 1 || cfg.Wallets[0].Ticker != "XRP" || !cfg.Wallets[0].ADeposit {
		t.Errorf("wallets = %+v", cfg.Wallets)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{"identical", "[pair]\nexchange_a='binance'\nquote_a='USDT'\nexchange_b='binance'\nquote_b='usdt'", ErrPairIdentical},
		{"incomplete", "[pair]\nexchange_a='binance'", ErrPairIncomplete},
		{"disabled", "[exchange.upbit]\nenabled=false", ErrExchangeOff},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	if _, err := Load(writeConfig(t, "[storage.postgres]\nenabled=true")); err == nil {
		t.Error("expected error for postgres without dsn")
	}
}
