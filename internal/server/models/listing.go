package models

import "time"

// ListingType is a closed set of values for the listings.type column.
type ListingType string

const (
	ListingHouse     ListingType = "HOUSE"
	ListingApartment ListingType = "APARTMENT"
)

// ValidListingType reports whether t is one of the known listing types.
func ValidListingType(t ListingType) bool {
	return t == ListingHouse || t == ListingApartment
}

// Listing is a property advertised by a user.
type Listing struct {
	ID           string
	Type         ListingType
	AvailableNow bool
	OwnerID      string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListingPhoto is a photo attached to a listing. StorageKey is the object key
// in the S3-compatible backend; the bytes themselves never pass through the
// API server.
type ListingPhoto struct {
	ID         string
	ListingID  string
	StorageKey string
	CreatedAt  time.Time
}
