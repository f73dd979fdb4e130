package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageStatus tracks whether the agent has opened an inquiry.
// The only transition is unread -> read.
type MessageStatus string

const (
	MessageUnread MessageStatus = "unread"
	MessageRead   MessageStatus = "read"
)

// ListingSnapshot records the listing's title and owner as they were when the
// inquiry was made. It is written once and never refreshed from the listing.
type ListingSnapshot struct {
	PropertyTitle string             `bson:"propertyTitle" json:"propertyTitle"`
	AgentID       primitive.ObjectID `bson:"agentId" json:"agentId"`
}

// Message is a visitor inquiry about a listing.
type Message struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PropertyID      primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	ListingSnapshot `bson:",inline"`
	SenderName      string             `bson:"senderName" json:"senderName"`
	SenderEmail     string             `bson:"senderEmail" json:"senderEmail"`
	SenderPhone     string             `bson:"senderPhone" json:"senderPhone"`
	Message         string             `bson:"message" json:"message"`
	Status          MessageStatus      `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MessageInput is the anonymous inquiry payload.
type MessageInput struct {
	PropertyID  string `json:"propertyId"`
	SenderName  string `json:"senderName"`
	SenderEmail string `json:"senderEmail"`
	SenderPhone string `json:"senderPhone"`
	Message     string `json:"message"`
}

// VisitRequestInput asks the agent for a viewing. It is stored as an ordinary
// inquiry whose text carries the requested date, time and notes.
type VisitRequestInput struct {
	PropertyID string `json:"propertyId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Date       string `json:"date"` // YYYY-MM-DD
	Time       string `json:"time"`
	Notes      string `json:"notes"`
}

// ContactInput is the site-wide contact form; it is mailed, never stored.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
