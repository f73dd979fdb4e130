package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/apperrors"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/config"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/tasks"
)

// --- Mocks ---

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	args := m.Called(ctx, to, subject, rawMessage)
	return args.Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserService) ListAgents(ctx context.Context) ([]*models.PublicUser, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.PublicUser), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, patch models.ProfilePatch) (*models.User, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) SetProfileImage(ctx context.Context, id primitive.ObjectID, imageURL string) (*models.User, error) {
	args := m.Called(ctx, id, imageURL)
	return args.Get(0).(*models.User), args.Error(1)
}

type MockAsynqClient struct {
	mock.Mock
}

func (m *MockAsynqClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

func sampleMessage() *models.Message {
	return &models.Message{
		ID:         primitive.NewObjectID(),
		PropertyID: primitive.NewObjectID(),
		ListingSnapshot: models.ListingSnapshot{
			PropertyTitle: "Villa in Bahria Town",
			AgentID:       primitive.NewObjectID(),
		},
		SenderName:  "Sara",
		SenderEmail: "sara@example.com",
		SenderPhone: "0300",
		Message:     "Is it available?",
		Status:      models.MessageUnread,
	}
}

// --- Tests ---

func TestInquiryNotifier_Enqueues(t *testing.T) {
	client := new(MockAsynqClient)
	msg := sampleMessage()

	client.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		var p tasks.InquiryNotifyPayload
		return task.Type() == tasks.TypeInquiryNotify &&
			json.Unmarshal(task.Payload(), &p) == nil &&
			p.AgentID == msg.AgentID.Hex() &&
			p.PropertyTitle == "Villa in Bahria Town"
	})).Return(&asynq.TaskInfo{ID: "t1"}, nil)

	err := tasks.NewInquiryNotifier(client).NotifyNewInquiry(context.Background(), msg)
	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestInquiryNotifier_EnqueueError(t *testing.T) {
	client := new(MockAsynqClient)
	client.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))

	err := tasks.NewInquiryNotifier(client).NotifyNewInquiry(context.Background(), sampleMessage())
	assert.ErrorContains(t, err, "redis down")
}

func TestHandleInquiryNotifyTask_Success(t *testing.T) {
	sender := new(MockEmailSender)
	users := new(MockUserService)
	cfg := &config.Config{SmtpFromAddress: "noreply@example.com", AppName: "Zameen Homes"}
	p := tasks.NewTaskProcessor(cfg, sender, users)

	msg := sampleMessage()
	task, err := tasks.NewInquiryNotifyTask(msg)
	require.NoError(t, err)

	users.On("FindByID", mock.Anything, msg.AgentID).Return(&models.User{ID: msg.AgentID, Name: "Ali", Email: "ali@example.com"}, nil)
	sender.On("Send", mock.Anything, []string{"ali@example.com"}, "New inquiry for Villa in Bahria Town",
		mock.MatchedBy(func(raw []byte) bool {
			s := string(raw)
			return assert.Contains(t, s, `From: "Zameen Homes" <noreply@example.com>`) &&
				assert.Contains(t, s, "Reply-To: sara@example.com") &&
				assert.Contains(t, s, "Is it available?")
		}),
	).Return(nil)

	assert.NoError(t, p.HandleInquiryNotifyTask(context.Background(), task))
	users.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestHandleInquiryNotifyTask_AgentGone(t *testing.T) {
	sender := new(MockEmailSender)
	users := new(MockUserService)
	p := tasks.NewTaskProcessor(&config.Config{}, sender, users)

	msg := sampleMessage()
	task, err := tasks.NewInquiryNotifyTask(msg)
	require.NoError(t, err)
	users.On("FindByID", mock.Anything, msg.AgentID).Return(nil, apperrors.New(apperrors.ErrNotFound, "User not found"))

	err = p.HandleInquiryNotifyTask(context.Background(), task)
	assert.True(t, errors.Is(err, asynq.SkipRetry), "missing agent should not be retried")
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleInquiryNotifyTask_BadPayload(t *testing.T) {
	p := tasks.NewTaskProcessor(&config.Config{}, new(MockEmailSender), new(MockUserService))

	err := p.HandleInquiryNotifyTask(context.Background(), asynq.NewTask(tasks.TypeInquiryNotify, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleInquiryNotifyTask_SendError(t *testing.T) {
	sender := new(MockEmailSender)
	users := new(MockUserService)
	p := tasks.NewTaskProcessor(&config.Config{}, sender, users)

	msg := sampleMessage()
	task, err := tasks.NewInquiryNotifyTask(msg)
	require.NoError(t, err)
	users.On("FindByID", mock.Anything, msg.AgentID).Return(&models.User{Email: "ali@example.com"}, nil)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp timeout"))

	err = p.HandleInquiryNotifyTask(context.Background(), task)
	assert.ErrorContains(t, err, "smtp timeout")
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}
