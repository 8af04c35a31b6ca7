package domain

import (
	"sort"
	"strings"
)

// Customization modifies a single cart line: spice level, selected
// extras and free-text notes. Two customizations are equal iff their
// canonical keys are equal.
type Customization struct {
	SpiceLevel SpiceLevel `json:"spice_level,omitempty"`
	Extras     []string   `json:"extras,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// NormalizedExtras returns the selected extras trimmed, de-duplicated
// and sorted. Order of selection never matters.
func (c *Customization) NormalizedExtras() []string {
	if c == nil {
		return nil
	}
	extras := make([]string, 0, len(c.Extras))
	seen := make(map[string]struct{}, len(c.Extras))
	for _, e := range c.Extras {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		extras = append(extras, e)
	}
	sort.Strings(extras)
	return extras
}

// CanonicalKey serializes a customization into a comparable form:
// upper-cased spice level, sorted de-duplicated extras, trimmed notes.
// A nil customization canonicalizes to the empty string, so "no
// customization" only ever matches "no customization".
func (c *Customization) CanonicalKey() string {
	if c == nil {
		return ""
	}
	extras := c.NormalizedExtras()

	var b strings.Builder
	b.WriteString(strings.ToUpper(string(c.SpiceLevel)))
	b.WriteByte('|')
	b.WriteString(strings.Join(extras, ","))
	b.WriteByte('|')
	b.WriteString(strings.TrimSpace(c.Notes))
	return b.String()
}

// CartLineItem is one cart entry: a menu item plus quantity and an
// optional customization. TotalPrice is derived, never set directly.
type CartLineItem struct {
	MenuItem      MenuItem       `json:"menu_item"`
	Quantity      int            `json:"quantity"`
	Customization *Customization `json:"customization,omitempty"`
	TotalPrice    float64        `json:"total_price"`
}

// Matches reports whether the line belongs to the same (menu item,
// customization) bucket.
func (li *CartLineItem) Matches(menuItemID string, cust *Customization) bool {
	return li.MenuItem.ID == menuItemID && li.Customization.CanonicalKey() == cust.CanonicalKey()
}

// CartSnapshot is the full cart state at a point in time. Items keep
// insertion order for display; totals are derived from the items.
type CartSnapshot struct {
	Items          []CartLineItem `json:"items"`
	TotalItems     int            `json:"total_items"`
	Subtotal       float64        `json:"subtotal"`
	DeliveryFee    float64        `json:"delivery_fee"`
	PromoCode      string         `json:"promo_code,omitempty"`
	DiscountAmount float64        `json:"discount_amount"`
}

// FinalAmount is subtotal + delivery fee - discount. The discount is
// capped at the subtotal when applied, so this never goes negative
// through the discount alone.
func (s *CartSnapshot) FinalAmount() float64 {
	return s.Subtotal + s.DeliveryFee - s.DiscountAmount
}

func (s *CartSnapshot) IsEmpty() bool { return len(s.Items) == 0 }
