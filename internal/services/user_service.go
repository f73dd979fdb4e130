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

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/apperrors"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/config"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/db"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
)

// IUserService defines the interface for identity storage and profile operations.
type IUserService interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	ListAgents(ctx context.Context) ([]*models.PublicUser, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, patch models.ProfilePatch) (*models.User, error)
	SetProfileImage(ctx context.Context, id primitive.ObjectID, imageURL string) (*models.User, error)
}

// userService implements IUserService.
type userService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewUserService creates a new UserService.
func NewUserService(database *mongo.Database, cfg *config.Config) IUserService {
	return &userService{db: database, cfg: cfg}
}

func (s *userService) users() *mongo.Collection {
	return s.db.Collection(db.UsersCollection)
}

// NormalizeEmail is the canonical stored form of an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByID returns ErrNotFound when no identity has the id.
func (s *userService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "User not found", err)
		}
		return nil, apperrors.Wrap(apperrors.ErrServer, "Error fetching user", err)
	}
	return &user, nil
}

// FindByEmail looks an identity up by its normalised email.
func (s *userService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "User not found", err)
		}
		return nil, apperrors.Wrap(apperrors.ErrServer, "Error fetching user", err)
	}
	return &user, nil
}

// CreateUser inserts user, assigning an id and timestamps. A duplicate email
// surfaces as ErrConflict.
func (s *userService) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = NormalizeEmail(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := s.users().InsertOne(ctx, user); err != nil {
		if db.IsDuplicateKeyOn(err, db.EmailIndex) {
			return apperrors.Wrap(apperrors.ErrConflict, "User already exists", err)
		}
		return apperrors.Wrap(apperrors.ErrServer, "Error creating user", fmt.Errorf("insert user %s: %w", user.Email, err))
	}
	return nil
}

// ListAgents returns every agent, newest first.
func (s *userService) ListAgents(ctx context.Context) ([]*models.PublicUser, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.users().Find(ctx, bson.M{"role": models.RoleAgent}, opts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrServer, "Failed to fetch agents", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrServer, "Failed to fetch agents", err)
	}

	agents := make([]*models.PublicUser, 0, len(users))
	for i := range users {
		agents = append(agents, users[i].Public())
	}
	return agents, nil
}

// UpdateProfile applies the non-empty fields of patch to the identity.
func (s *userService) UpdateProfile(ctx context.Context, id primitive.ObjectID, patch models.ProfilePatch) (*models.User, error) {
	set := bson.M{}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		set["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Phone != nil && strings.TrimSpace(*patch.Phone) != "" {
		set["phone"] = strings.TrimSpace(*patch.Phone)
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}
	return s.updateUser(ctx, id, set)
}

// SetProfileImage stores the media host reference for the identity's picture.
func (s *userService) SetProfileImage(ctx context.Context, id primitive.ObjectID, imageURL string) (*models.User, error) {
	if imageURL == "" {
		return nil, apperrors.New(apperrors.ErrValidation, "No image uploaded")
	}
	return s.updateUser(ctx, id, bson.M{"profileImage": imageURL})
}

func (s *userService) updateUser(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	set["updatedAt"] = time.Now().UTC()

	var updated models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.users().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "User not found", err)
		}
		return nil, apperrors.Wrap(apperrors.ErrServer, "Error updating user", err)
	}
	return &updated, nil
}
