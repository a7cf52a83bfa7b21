package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrMalformedPromoValue = errors.New("malformed promo value")

const TypeDiscount = "discount"

// Promo is a provider-owned, time-boxed percentage discount on one menu item.
type Promo struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	ItemID      string    `bson:"item_id" json:"itemId"`
	ProviderID  string    `bson:"user_id" json:"providerId"`
	Type        string    `bson:"type" json:"type"`
	Value       string    `bson:"value" json:"value"` // percentage, e.g. "20%"
	Description string    `bson:"description" json:"description"`
	StartDate   time.Time `bson:"start_date" json:"startDate"`
	EndDate     time.Time `bson:"end_date" json:"endDate"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

// Snapshot is the promo state captured into a cart line. Immutable once
// captured; only its validity window is re-checked afterwards.
type Snapshot struct {
	PromoID     string    `bson:"promo_id" json:"promoId"`
	Value       string    `bson:"value" json:"value"`
	Description string    `bson:"description" json:"description"`
	ValidFrom   time.Time `bson:"valid_from" json:"validFrom"`
	ValidTo     time.Time `bson:"valid_to" json:"validTo"`
}

// Capture freezes a promo into the form carried by cart lines.
func Capture(p *Promo) *Snapshot {
	return &Snapshot{
		PromoID:     p.ID,
		Value:       p.Value,
		Description: p.Description,
		ValidFrom:   p.StartDate,
		ValidTo:     p.EndDate,
	}
}

// Active reports whether the promo's validity window contains now.
// Only discount promos participate in pricing.
func (p *Promo) Active(now time.Time) bool {
	if p.Type != TypeDiscount {
		return false
	}
	return !p.StartDate.After(now) && !p.EndDate.Before(now)
}

// ParsePercentage parses a percentage descriptor such as "20%" or "20".
// A trailing "%" is stripped before parsing.
func ParsePercentage(value string) (float64, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "%"))
	if trimmed == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedPromoValue, value)
	}
	pct, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedPromoValue, value)
	}
	if math.IsNaN(pct) || math.IsInf(pct, 0) || pct < 0 || pct > 100 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedPromoValue, value)
	}
	return pct, nil
}

// Evaluate computes the discounted price for a captured promo. An absent or
// expired snapshot leaves the price untouched and drops the promo.
func Evaluate(basePrice float64, promo *Snapshot, now time.Time) (float64, *Snapshot, error) {
	if promo == nil || now.After(promo.ValidTo) {
		return basePrice, nil, nil
	}
	pct, err := ParsePercentage(promo.Value)
	if err != nil {
		return 0, nil, err
	}
	return Round2(basePrice - basePrice*pct/100), promo, nil
}

// Round2 rounds half-up to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
