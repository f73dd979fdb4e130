package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/apperrors"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyNewInquiry(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func inquiry(propertyID string) models.MessageInput {
	return models.MessageInput{
		PropertyID:  propertyID,
		SenderName:  "Visitor",
		SenderEmail: "visitor@example.com",
		SenderPhone: "03001234567",
		Message:     "Is this still available?",
	}
}

func TestMessageService_CreateMessage(t *testing.T) {
	database := setupTestDB(t, "testdb_message_service_create")
	cfg := testConfig()
	users := NewUserService(database, cfg)
	listings := NewListingService(database, cfg)
	notifier := new(mockNotifier)
	svc := NewMessageService(database, cfg, listings, notifier)
	ctx := context.Background()

	agent := createTestUser(t, users, "agent@example.com", models.RoleAgent)
	listing, err := listings.CreateListing(ctx, agent.ID, sampleListingInput("Villa"))
	require.NoError(t, err)

	notifier.On("NotifyNewInquiry", mock.Anything, mock.AnythingOfType("*models.Message")).Return(errors.New("redis down")).Once()

	msg, err := svc.CreateMessage(ctx, inquiry(listing.ID.Hex()))
	require.NoError(t, err, "notification failure must not fail the inquiry")
	assert.Equal(t, models.MessageUnread, msg.Status)
	assert.Equal(t, agent.ID, msg.AgentID)
	assert.Equal(t, "Villa", msg.PropertyTitle)
	notifier.AssertExpectations(t)

	_, err = svc.CreateMessage(ctx, inquiry(primitive.NewObjectID().Hex()))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	in := inquiry(listing.ID.Hex())
	in.Message = "  "
	_, err = svc.CreateMessage(ctx, in)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMessageService_SnapshotSurvivesRename(t *testing.T) {
	database := setupTestDB(t, "testdb_message_service_snapshot")
	cfg := testConfig()
	users := NewUserService(database, cfg)
	listings := NewListingService(database, cfg)
	svc := NewMessageService(database, cfg, listings, nil)
	ctx := context.Background()

	agent := createTestUser(t, users, "agent@example.com", models.RoleAgent)
	listing, err := listings.CreateListing(ctx, agent.ID, sampleListingInput("Original Title"))
	require.NoError(t, err)

	_, err = svc.CreateMessage(ctx, inquiry(listing.ID.Hex()))
	require.NoError(t, err)

	renamed := "New Title"
	_, err = listings.UpdateListing(ctx, listing.ID.Hex(), agent.ID, models.ListingPatch{Title: &renamed})
	require.NoError(t, err)

	msgs, err := svc.ListForAgent(ctx, agent.ID.Hex(), agent.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Original Title", msgs[0].PropertyTitle)
	assert.Equal(t, models.MessageUnread, msgs[0].Status)
}

func TestMessageService_AgentAccess(t *testing.T) {
	database := setupTestDB(t, "testdb_message_service_access")
	cfg := testConfig()
	users := NewUserService(database, cfg)
	listings := NewListingService(database, cfg)
	svc := NewMessageService(database, cfg, listings, nil)
	ctx := context.Background()

	agent := createTestUser(t, users, "agent@example.com", models.RoleAgent)
	rival := createTestUser(t, users, "rival@example.com", models.RoleAgent)
	listing, err := listings.CreateListing(ctx, agent.ID, sampleListingInput("Flat"))
	require.NoError(t, err)

	first, err := svc.CreateMessage(ctx, inquiry(listing.ID.Hex()))
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, inquiry(listing.ID.Hex()))
	require.NoError(t, err)

	_, err = svc.ListForAgent(ctx, agent.ID.Hex(), rival.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.UnreadCount(ctx, agent.ID.Hex(), rival.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = svc.MarkRead(ctx, first.ID.Hex(), rival.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	count, err := svc.UnreadCount(ctx, agent.ID.Hex(), agent.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	read, err := svc.MarkRead(ctx, first.ID.Hex(), agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageRead, read.Status)

	again, err := svc.MarkRead(ctx, first.ID.Hex(), agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageRead, again.Status)

	count, err = svc.UnreadCount(ctx, agent.ID.Hex(), agent.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = svc.MarkRead(ctx, primitive.NewObjectID().Hex(), agent.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMessageService_CreateVisitRequest(t *testing.T) {
	database := setupTestDB(t, "testdb_message_service_visit")
	cfg := testConfig()
	users := NewUserService(database, cfg)
	listings := NewListingService(database, cfg)
	svc := NewMessageService(database, cfg, listings, nil)
	ctx := context.Background()

	agent := createTestUser(t, users, "agent@example.com", models.RoleAgent)
	listing, err := listings.CreateListing(ctx, agent.ID, sampleListingInput("Flat"))
	require.NoError(t, err)

	msg, err := svc.CreateVisitRequest(ctx, models.VisitRequestInput{
		PropertyID: listing.ID.Hex(),
		Name:       "Visitor",
		Email:      "visitor@example.com",
		Phone:      "0300",
		Date:       "2026-11-03",
		Time:       "10:30",
		Notes:      "Bring keys",
	})
	require.NoError(t, err)
	assert.Equal(t, "Schedule Visit Request:\nDate: November 3, 2026\nTime: 10:30\nNotes: Bring keys", msg.Message)

	_, err = svc.CreateVisitRequest(ctx, models.VisitRequestInput{PropertyID: listing.ID.Hex(), Name: "V", Email: "v@x", Phone: "1", Date: "03/11/2026", Time: "10:30"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestVisitRequestText(t *testing.T) {
	date := time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Schedule Visit Request:\nDate: January 9, 2026\nTime: 4pm\nNotes: ", VisitRequestText(date, "4pm", ""))
}
