package pricing

import "strings"

// PromoKind distinguishes percentage discounts from flat deductions.
type PromoKind int

const (
	PromoPercent PromoKind = iota
	PromoFlat
)

// Promo is one promocode definition. Value is a percentage for
// PromoPercent and a rupee amount for PromoFlat.
type Promo struct {
	Code  string
	Kind  PromoKind
	Value int64
}

// PromoTable is the enumerated promocode configuration.
type PromoTable map[string]Promo

// DefaultPromos mirrors the production promocode set.
var DefaultPromos = PromoTable{
	"freefirst": {Code: "freefirst", Kind: PromoPercent, Value: 100},
	"save50":    {Code: "save50", Kind: PromoPercent, Value: 50},
	"ride10":    {Code: "ride10", Kind: PromoPercent, Value: 10},
	"car20":     {Code: "car20", Kind: PromoPercent, Value: 20},
	"freeride":  {Code: "freeride", Kind: PromoFlat, Value: 50},
}

// Lookup normalizes a code and returns its definition, if any.
func (t PromoTable) Lookup(code string) (Promo, bool) {
	p, ok := t[normalizeCode(code)]
	return p, ok
}

// Apply discounts a price with a promocode. It returns the new price,
// the rupee amount deducted, and whether the code was recognized.
//
// A code must never be applied twice to the same amount: callers that
// received an already-discounted price pass alreadyDiscounted=true and
// get the price back unchanged.
func (t PromoTable) Apply(price int64, code string, alreadyDiscounted bool) (newPrice, discount int64, valid bool) {
	if alreadyDiscounted || price < 0 {
		return price, 0, false
	}
	promo, ok := t.Lookup(code)
	if !ok {
		return price, 0, false
	}
	switch promo.Kind {
	case PromoFlat:
		discount = flatDiscount(price, promo.Value)
	default:
		// Round half up on the discounted amount, matching the quote path.
		discounted := (price*(100-promo.Value) + 50) / 100
		discount = price - discounted
	}
	return price - discount, discount, true
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
