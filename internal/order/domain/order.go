package domain

import "time"

type Status string

const (
	// StatusPlaced is the initial state. The only legal transition is
	// placed -> delivered.
	StatusPlaced    Status = "placed"
	StatusDelivered Status = "delivered"
)

type PaymentStatus string

const (
	// Orders are pay-on-delivery; payment state is informational only.
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// Line captures name, price and quantity at order time. It is a snapshot,
// not a live reference to a menu item.
type Line struct {
	ItemID     string  `bson:"item_id" json:"itemId"`
	Name       string  `bson:"name" json:"name"`
	Price      float64 `bson:"price" json:"price"`
	Quantity   int     `bson:"quantity" json:"quantity"`
	ProviderID string  `bson:"provider_id,omitempty" json:"providerId,omitempty"`

	// ProviderName is resolved at read time and never persisted.
	ProviderName string `bson:"-" json:"providerName,omitempty"`
}

// Order is an immutable snapshot of a submitted cart. Total is computed at
// submission time and frozen; only Status may change afterwards.
type Order struct {
	ID            string        `bson:"_id" json:"id"`
	UserID        string        `bson:"user_id" json:"userId"`
	Items         []Line        `bson:"items" json:"items"`
	Total         float64       `bson:"total" json:"total"`
	Status        Status        `bson:"status" json:"status"`
	PaymentStatus PaymentStatus `bson:"payment_status" json:"paymentStatus"`
	CreatedAt     time.Time     `bson:"created_at" json:"createdAt"`
}

// ProviderIDs returns the distinct provider ids across all lines, in first
// appearance order. Lines without a provider are skipped.
func (o *Order) ProviderIDs() []string {
	seen := make(map[string]struct{}, len(o.Items))
	var ids []string
	for _, line := range o.Items {
		if line.ProviderID == "" {
			continue
		}
		if _, ok := seen[line.ProviderID]; ok {
			continue
		}
		seen[line.ProviderID] = struct{}{}
		ids = append(ids, line.ProviderID)
	}
	return ids
}
