package wallet

import "swapp/models"

// coinPackages are the purchasable coin bundles shown on the wallet page.
var coinPackages = []models.CoinPackage{
	{ID: "starter", Name: "Starter Pack", Coins: 100, PriceCents: 499, Currency: "usd"},
	{ID: "popular", Name: "Popular Pack", Coins: 250, PriceCents: 999, Currency: "usd"},
	{ID: "pro", Name: "Pro Pack", Coins: 500, PriceCents: 1799, Currency: "usd"},
	{ID: "ultimate", Name: "Ultimate Pack", Coins: 1000, PriceCents: 2999, Currency: "usd"},
}

// ListPackages returns the available coin packages.
func (s *DefaultWalletService) ListPackages() []models.CoinPackage {
	out := make([]models.CoinPackage, len(coinPackages))
	copy(out, coinPackages)
	return out
}

func findPackage(id string) (models.CoinPackage, bool) {
	for _, p := range coinPackages {
		if p.ID == id {
			return p, true
		}
	}
	return models.CoinPackage{}, false
}
