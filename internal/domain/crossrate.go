package domain

import "fmt"

type CrossRateKind int

const (
	CrossRateFixed CrossRateKind = iota
	CrossRateTicker
	CrossRateDerived
)

// DefaultReference is the instrument used by derived cross-rates.
const DefaultReference = "BTC"

// CrossRateConfig selects how the conversion factor between the two quote
// currencies is obtained. It is fixed for the lifetime of a market pair.
type CrossRateConfig struct {
	Kind CrossRateKind
	// Exchange and Code identify the streamed instrument in ticker mode, e.g. ("upbit", "KRW-USDT").
	Exchange string
	Code     string
	// Reference is the shared instrument in derived mode.
	Reference string
}

func FixedCrossRate() CrossRateConfig {
	return CrossRateConfig{Kind: CrossRateFixed}
}

func TickerCrossRate(exchange, code string) CrossRateConfig {
	return CrossRateConfig{Kind: CrossRateTicker, Exchange: exchange, Code: code}
}

func DerivedCrossRate(reference string) CrossRateConfig {
	if reference == "" {
		reference = DefaultReference
	}
	return CrossRateConfig{Kind: CrossRateDerived, Reference: reference}
}

func (c CrossRateConfig) String() string {
	switch c.Kind {
	case CrossRateFixed:
		return "fixed(1)"
	case CrossRateTicker:
		return fmt.Sprintf("ticker(%s,%s)", c.Exchange, c.Code)
	case CrossRateDerived:
		return fmt.Sprintf("derived(%s)", c.Reference)
	default:
		return "unknown"
	}
}
