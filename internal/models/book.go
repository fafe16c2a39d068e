package models

import "time"

// GenreUnspecified is stored when a listing is created without a genre.
const GenreUnspecified = "Not specified"

// Book represents a single listing offered for exchange. OwnerName is a
// denormalized copy of the owner's name at creation time and is not kept
// in sync with later profile changes.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	Location      string    `json:"location"`
	ContactInfo   string    `json:"contactInfo"`
	OwnerID       string    `json:"ownerId"`
	OwnerName     string    `json:"ownerName"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	IsAvailable   bool      `json:"isAvailable"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
