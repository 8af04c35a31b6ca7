package cart

import "tiffinbox/internal/domain"

// FlatExtraPrice is the fallback per-extra increment used when the
// catalog has no price for a selected extra.
const FlatExtraPrice = 20.0

// ExtraPricer resolves the price of a selected extra for a menu item.
// The second result reports whether the extra is known to the catalog.
type ExtraPricer interface {
	ExtraPrice(menuItemID, extraID string) (float64, bool)
}

// UnitPrice derives the per-unit price of a line: base menu price plus
// the price of every selected extra. Unknown extras fall back to the
// flat increment.
func UnitPrice(pricer ExtraPricer, item domain.MenuItem, cust *domain.Customization) float64 {
	price := item.Price
	if cust == nil {
		return price
	}
	for _, extra := range cust.NormalizedExtras() {
		if pricer != nil {
			if p, ok := pricer.ExtraPrice(item.ID, extra); ok {
				price += p
				continue
			}
		}
		price += FlatExtraPrice
	}
	return price
}
