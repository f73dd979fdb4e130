package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/auth"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/services"
)

// MockAuthService is a mock implementation of IAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, token string) (*models.PublicUser, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PublicUser), args.Error(1)
}

func (m *MockAuthService) ResolveToken(ctx context.Context, token string) (*auth.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

// MockListingService is a mock implementation of IListingService
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) ListListings(ctx context.Context, filter models.ListingFilter) ([]*models.ListingView, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ListingView), args.Error(1)
}

func (m *MockListingService) GetListing(ctx context.Context, id string) (*models.ListingView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ListingView), args.Error(1)
}

func (m *MockListingService) FindListingByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) CreateListing(ctx context.Context, agentID primitive.ObjectID, in models.ListingInput) (*models.ListingView, error) {
	args := m.Called(ctx, agentID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ListingView), args.Error(1)
}

func (m *MockListingService) UpdateListing(ctx context.Context, id string, callerID primitive.ObjectID, patch models.ListingPatch) (*models.ListingView, error) {
	args := m.Called(ctx, id, callerID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ListingView), args.Error(1)
}

func (m *MockListingService) DeleteListing(ctx context.Context, id string, callerID primitive.ObjectID) error {
	args := m.Called(ctx, id, callerID)
	return args.Error(0)
}

// MockUserService is a mock implementation of IUserService
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
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserService) ListAgents(ctx context.Context) ([]*models.PublicUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PublicUser), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, patch models.ProfilePatch) (*models.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) SetProfileImage(ctx context.Context, id primitive.ObjectID, imageURL string) (*models.User, error) {
	args := m.Called(ctx, id, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockMessageService is a mock implementation of IMessageService
type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) CreateMessage(ctx context.Context, in models.MessageInput) (*models.Message, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageService) CreateVisitRequest(ctx context.Context, in models.VisitRequestInput) (*models.Message, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageService) ListForAgent(ctx context.Context, agentID string, callerID primitive.ObjectID) ([]*models.Message, error) {
	args := m.Called(ctx, agentID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Message), args.Error(1)
}

func (m *MockMessageService) UnreadCount(ctx context.Context, agentID string, callerID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, agentID, callerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageService) MarkRead(ctx context.Context, messageID string, callerID primitive.ObjectID) (*models.Message, error) {
	args := m.Called(ctx, messageID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// MockContactService is a mock implementation of IContactService
type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) SendContactForm(ctx context.Context, in models.ContactInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

// MockMediaService is a mock implementation of IMediaService
type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) UploadImages(ctx context.Context, ownerID primitive.ObjectID, files []services.ImageUpload) ([]string, error) {
	args := m.Called(ctx, ownerID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
