package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PropertyType enumerates the kinds of property that can be listed.
type PropertyType string

const (
	PropertyHouse      PropertyType = "house"
	PropertyApartment  PropertyType = "apartment"
	PropertyVilla      PropertyType = "villa"
	PropertyCommercial PropertyType = "commercial"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyHouse, PropertyApartment, PropertyVilla, PropertyCommercial:
		return true
	}
	return false
}

// ListingStatus is the market status of a listing.
type ListingStatus string

const (
	ListingAvailable ListingStatus = "available"
	ListingSold      ListingStatus = "sold"
	ListingRented    ListingStatus = "rented"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case ListingAvailable, ListingSold, ListingRented:
		return true
	}
	return false
}

const (
	MinListingImages = 1
	MaxListingImages = 10
)

// Listing represents a property listing owned by one agent.
type Listing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"` // PKR
	Location    string             `bson:"location" json:"location"`
	Type        PropertyType       `bson:"type" json:"type"`
	Bedrooms    int                `bson:"bedrooms" json:"bedrooms"`
	Bathrooms   int                `bson:"bathrooms" json:"bathrooms"`
	Area        string             `bson:"area" json:"area"`
	Images      []string           `bson:"images" json:"images"` // media host URLs, in display order
	Agent       primitive.ObjectID `bson:"agent" json:"agent"`
	Status      ListingStatus      `bson:"status" json:"status"`
	Features    []string           `bson:"features" json:"features"`
	Featured    bool               `bson:"featured" json:"featured"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ListingView is a listing with its owning agent's public fields attached.
type ListingView struct {
	Listing
	Agent *PublicUser `json:"agent"`
}

// ListingFilter narrows ListListings. A nil AgentID matches every listing.
type ListingFilter struct {
	AgentID *primitive.ObjectID
}

// ListingInput is the payload accepted when creating a listing. There is no
// owner field: the owner is always the authenticated caller.
type ListingInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Location    string        `json:"location"`
	Type        PropertyType  `json:"type"`
	Bedrooms    int           `json:"bedrooms"`
	Bathrooms   int           `json:"bathrooms"`
	Area        string        `json:"area"`
	Images      []string      `json:"images"`
	Status      ListingStatus `json:"status"`
	Features    []string      `json:"features"`
	Featured    bool          `json:"featured"`
}

// ListingPatch is a partial update; only non-nil fields are written.
type ListingPatch struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Price       *float64       `json:"price"`
	Location    *string        `json:"location"`
	Type        *PropertyType  `json:"type"`
	Bedrooms    *int           `json:"bedrooms"`
	Bathrooms   *int           `json:"bathrooms"`
	Area        *string        `json:"area"`
	Images      *[]string      `json:"images"`
	Status      *ListingStatus `json:"status"`
	Features    *[]string      `json:"features"`
	Featured    *bool          `json:"featured"`
}
