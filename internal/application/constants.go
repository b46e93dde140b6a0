package application

// Exchange identifiers
const (
	ExchangeUpbit    = "upbit"
	ExchangeBithumb  = "bithumb"
	ExchangeBinance  = "binance"
	ExchangeBybit    = "bybit"
	ExchangeOKX      = "okx"
	ExchangeCoinbase = "coinbase"
	ExchangeBitget   = "bitget"
)

// Quote currencies
const (
	QuoteKRW  = "KRW"
	QuoteUSDT = "USDT"
	QuoteUSDC = "USDC"
)

// PrefsKeyPrefix namespaces persisted preferences per market pair.
const PrefsKeyPrefix = "xprem:prefs:"
