package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/apperrors"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/config"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/db"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/logger"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
)

// InquiryNotifier is told about every stored inquiry so the agent can be
// emailed out of band.
type InquiryNotifier interface {
	NotifyNewInquiry(ctx context.Context, msg *models.Message) error
}

// IMessageService defines the interface for visitor inquiries.
type IMessageService interface {
	CreateMessage(ctx context.Context, in models.MessageInput) (*models.Message, error)
	CreateVisitRequest(ctx context.Context, in models.VisitRequestInput) (*models.Message, error)
	ListForAgent(ctx context.Context, agentID string, callerID primitive.ObjectID) ([]*models.Message, error)
	UnreadCount(ctx context.Context, agentID string, callerID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, messageID string, callerID primitive.ObjectID) (*models.Message, error)
}

// VisitDateLayout is the accepted format of VisitRequestInput.Date.
const VisitDateLayout = "2006-01-02"

type messageService struct {
	db       *mongo.Database
	cfg      *config.Config
	listings IListingService
	notifier InquiryNotifier
}

// NewMessageService creates a new MessageService. notifier may be nil.
func NewMessageService(database *mongo.Database, cfg *config.Config, listings IListingService, notifier InquiryNotifier) IMessageService {
	return &messageService{db: database, cfg: cfg, listings: listings, notifier: notifier}
}

func (s *messageService) messages() *mongo.Collection {
	return s.db.Collection(db.MessagesCollection)
}

func trimMessageInput(in *models.MessageInput) {
	in.PropertyID = strings.TrimSpace(in.PropertyID)
	in.SenderName = strings.TrimSpace(in.SenderName)
	in.SenderEmail = strings.TrimSpace(in.SenderEmail)
	in.SenderPhone = strings.TrimSpace(in.SenderPhone)
	in.Message = strings.TrimSpace(in.Message)
}

// CreateMessage stores an inquiry against a listing, capturing the listing's
// current title and owner.
func (s *messageService) CreateMessage(ctx context.Context, in models.MessageInput) (*models.Message, error) {
	trimMessageInput(&in)
	if in.PropertyID == "" || in.SenderName == "" || in.SenderEmail == "" || in.SenderPhone == "" || in.Message == "" {
		return nil, apperrors.New(apperrors.ErrValidation, "All fields are required")
	}

	propertyID, err := primitive.ObjectIDFromHex(in.PropertyID)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrNotFound, "Property not found")
	}
	listing, err := s.listings.FindListingByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := &models.Message{
		ID:         primitive.NewObjectID(),
		PropertyID: listing.ID,
		ListingSnapshot: models.ListingSnapshot{
			PropertyTitle: listing.Title,
			AgentID:       listing.Agent,
		},
		SenderName:  in.SenderName,
		SenderEmail: in.SenderEmail,
		SenderPhone: in.SenderPhone,
		Message:     in.Message,
		Status:      models.MessageUnread,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.messages().InsertOne(ctx, msg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrServer, "Error sending message", err)
	}
	logger.FromContext(ctx).Info("inquiry stored",
		zap.String("message_id", msg.ID.Hex()),
		zap.String("property_id", msg.PropertyID.Hex()),
		zap.String("agent_id", msg.AgentID.Hex()),
	)

	if s.notifier != nil {
		if err := s.notifier.NotifyNewInquiry(ctx, msg); err != nil {
			logger.FromContext(ctx).Warn("failed to queue inquiry notification", zap.String("message_id", msg.ID.Hex()), zap.Error(err))
		}
	}
	return msg, nil
}

// VisitRequestText renders a viewing request as inquiry text.
func VisitRequestText(date time.Time, at, notes string) string {
	return fmt.Sprintf("Schedule Visit Request:\nDate: %s\nTime: %s\nNotes: %s",
		date.Format("January 2, 2006"), at, notes)
}

// CreateVisitRequest stores a viewing request as an ordinary inquiry.
func (s *messageService) CreateVisitRequest(ctx context.Context, in models.VisitRequestInput) (*models.Message, error) {
	if strings.TrimSpace(in.Date) == "" || strings.TrimSpace(in.Time) == "" {
		return nil, apperrors.New(apperrors.ErrValidation, "Date and time are required")
	}
	date, err := time.Parse(VisitDateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "Date must be in YYYY-MM-DD format", err)
	}

	return s.CreateMessage(ctx, models.MessageInput{
		PropertyID:  in.PropertyID,
		SenderName:  in.Name,
		SenderEmail: in.Email,
		SenderPhone: in.Phone,
		Message:     VisitRequestText(date, strings.TrimSpace(in.Time), strings.TrimSpace(in.Notes)),
	})
}

// agentFilter only lets agents see their own inquiries.
func agentFilter(agentID string, callerID primitive.ObjectID) (primitive.ObjectID, error) {
	if agentID != callerID.Hex() {
		return primitive.NilObjectID, apperrors.New(apperrors.ErrForbidden, "Not authorized to view these messages")
	}
	return callerID, nil
}

// ListForAgent returns the agent's inquiries, newest first.
func (s *messageService) ListForAgent(ctx context.Context, agentID string, callerID primitive.ObjectID) ([]*models.Message, error) {
	id, err := agentFilter(agentID, callerID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.messages().Find(ctx, bson.M{"agentId": id}, opts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrServer, "Error fetching messages", err)
	}
	defer cursor.Close(ctx)

	msgs := []*models.Message{}
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrServer, "Error fetching messages", err)
	}
	return msgs, nil
}

func (s *messageService) UnreadCount(ctx context.Context, agentID string, callerID primitive.ObjectID) (int64, error) {
	id, err := agentFilter(agentID, callerID)
	if err != nil {
		return 0, err
	}

	count, err := s.messages().CountDocuments(ctx, bson.M{"agentId": id, "status": models.MessageUnread})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrServer, "Error getting unread count", err)
	}
	return count, nil
}

// MarkRead moves an inquiry owned by the caller to read. Already-read
// inquiries are returned unchanged.
func (s *messageService) MarkRead(ctx context.Context, messageID string, callerID primitive.ObjectID) (*models.Message, error) {
	id, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrNotFound, "Message not found")
	}

	var msg models.Message
	if err := s.messages().FindOne(ctx, bson.M{"_id": id}).Decode(&msg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "Message not found", err)
		}
		return nil, apperrors.Wrap(apperrors.ErrServer, "Error updating message status", err)
	}
	if msg.AgentID != callerID {
		return nil, apperrors.New(apperrors.ErrForbidden, "Not authorized to update this message")
	}
	if msg.Status == models.MessageRead {
		return &msg, nil
	}

	var updated models.Message
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.messages().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": models.MessageRead, "updatedAt": time.Now().UTC()}},
		opts,
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "Message not found", err)
		}
		return nil, apperrors.Wrap(apperrors.ErrServer, "Error updating message status", err)
	}
	return &updated, nil
}
