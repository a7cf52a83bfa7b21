package domain

import "time"

type Section struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	ProviderID string    `bson:"user_id" json:"providerId"`
	Name       string    `bson:"name" json:"name"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

type Item struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	SectionID  string    `bson:"section_id" json:"sectionId"`
	ProviderID string    `bson:"user_id" json:"providerId"`
	Name       string    `bson:"name" json:"name"`
	Price      float64   `bson:"price" json:"price"`
	Currency   string    `bson:"currency" json:"currency"`
	ImageURL   string    `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	ImageKey   string    `bson:"image_key,omitempty" json:"-"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// MenuSection is a section with its items, as served to customers.
type MenuSection struct {
	Section Section `json:"section"`
	Items   []*Item `json:"items"`
}
