package domain

// Premium is priceA / (priceB * crossRate) - 1, or 0 unless all inputs are positive.
func Premium(priceA, priceB, crossRate float64) float64 {
	if priceA <= 0 || priceB <= 0 || crossRate <= 0 {
		return 0
	}
	return priceA/(priceB*crossRate) - 1
}

// Arbitrageable is true when some network lets the cheap side's coins reach the
// expensive side: for a positive premium B withdraws and A deposits, for a
// negative premium A withdraws and B deposits. A zero premium never qualifies.
func Arbitrageable(premium float64, wallets []WalletStatus) bool {
	if premium == 0 {
		return false
	}
	for _, ws := range wallets {
		if premium > 0 {
			if ws.MarketB.Withdraw && ws.MarketA.Deposit {
				return true
			}
			continue
		}
		if ws.MarketA.Withdraw && ws.MarketB.Deposit {
			return true
		}
	}
	return false
}

// PremiumBand classifies a premium against a threshold: +1 above, -1 below the
// negated threshold, 0 otherwise.
func PremiumBand(premium, threshold float64) int {
	if threshold <= 0 {
		return 0
	}
	if premium >= threshold {
		return +1
	}
	if premium <= -threshold {
		return -1
	}
	return 0
}
