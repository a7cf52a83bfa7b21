package domain

import (
	"time"

	promodomain "github.com/Symbiotnev/PITIA-pitia/internal/promo/domain"
)

// Line is one (item, provider) pairing in the cart. FinalPrice is derived:
// it reflects PromoApplied only while the promo's validity window contains
// the time of the last read.
type Line struct {
	ItemID        string                `json:"itemId"`
	ProviderID    string                `json:"providerId"`
	Name          string                `json:"name"`
	ImageURL      string                `json:"imageUrl,omitempty"`
	Quantity      int                   `json:"quantity"`
	OriginalPrice float64               `json:"originalPrice"`
	FinalPrice    float64               `json:"finalPrice"`
	PromoApplied  *promodomain.Snapshot `json:"promoApplied,omitempty"`
}

// Cart is the per-session cart. Version is an optimistic concurrency token:
// every persisted write increments it, and a write against a stale version
// is rejected instead of silently overwriting another writer.
type Cart struct {
	SessionID string    `json:"sessionId"`
	Lines     []Line    `json:"lines"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Find returns the index of the line matching (itemID, providerID), or -1.
func (c *Cart) Find(itemID, providerID string) int {
	for i, line := range c.Lines {
		if line.ItemID == itemID && line.ProviderID == providerID {
			return i
		}
	}
	return -1
}

// Total sums finalPrice * quantity over all lines. The delivery fee is not
// included; the order workflow adds it.
func (c *Cart) Total() float64 {
	var sum float64
	for _, line := range c.Lines {
		sum += line.FinalPrice * float64(line.Quantity)
	}
	return promodomain.Round2(sum)
}
