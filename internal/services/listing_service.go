package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/apperrors"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/config"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/db"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/logger"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
)

// IListingService defines the interface for listing-related operations.
type IListingService interface {
	ListListings(ctx context.Context, filter models.ListingFilter) ([]*models.ListingView, error)
	GetListing(ctx context.Context, id string) (*models.ListingView, error)
	FindListingByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error)
	CreateListing(ctx context.Context, agentID primitive.ObjectID, in models.ListingInput) (*models.ListingView, error)
	UpdateListing(ctx context.Context, id string, callerID primitive.ObjectID, patch models.ListingPatch) (*models.ListingView, error)
	DeleteListing(ctx context.Context, id string, callerID primitive.ObjectID) error
}

// listingService implements IListingService.
type listingService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewListingService creates a new ListingService.
func NewListingService(database *mongo.Database, cfg *config.Config) IListingService {
	return &listingService{db: database, cfg: cfg}
}

func (s *listingService) properties() *mongo.Collection {
	return s.db.Collection(db.PropertiesCollection)
}

// listingWithAgent is the shape produced by the owner $lookup.
type listingWithAgent struct {
	models.Listing `bson:",inline"`
	AgentDocs      []models.User `bson:"agentDocs"`
}

func (l *listingWithAgent) view() *models.ListingView {
	v := &models.ListingView{Listing: l.Listing}
	if len(l.AgentDocs) > 0 {
		v.Agent = l.AgentDocs[0].Public()
	}
	return v
}

// withAgentPipeline matches, sorts newest first and attaches the owner.
func withAgentPipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: db.UsersCollection},
			{Key: "localField", Value: "agent"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "agentDocs"},
		}}},
	}
}

func (s *listingService) aggregate(ctx context.Context, match bson.M) ([]*models.ListingView, error) {
	cursor, err := s.properties().Aggregate(ctx, withAgentPipeline(match))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrServer, "Server error", err)
	}
	defer cursor.Close(ctx)

	var rows []listingWithAgent
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrServer, "Server error", err)
	}

	views := make([]*models.ListingView, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].view())
	}
	return views, nil
}

// ListListings returns all listings matching filter, newest first.
func (s *listingService) ListListings(ctx context.Context, filter models.ListingFilter) ([]*models.ListingView, error) {
	match := bson.M{}
	if filter.AgentID != nil {
		match["agent"] = *filter.AgentID
	}
	return s.aggregate(ctx, match)
}

// GetListing returns one listing with its owner. Malformed ids are reported
// as not found.
func (s *listingService) GetListing(ctx context.Context, id string) (*models.ListingView, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrNotFound, "Property not found")
	}
	return s.getView(ctx, oid)
}

func (s *listingService) getView(ctx context.Context, id primitive.ObjectID) (*models.ListingView, error) {
	views, err := s.aggregate(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, apperrors.New(apperrors.ErrNotFound, "Property not found")
	}
	return views[0], nil
}

// FindListingByID returns the raw listing document.
func (s *listingService) FindListingByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	var listing models.Listing
	err := s.properties().FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "Property not found", err)
		}
		return nil, apperrors.Wrap(apperrors.ErrServer, "Server error", err)
	}
	return &listing, nil
}

func validateImages(images []string) error {
	if len(images) < models.MinListingImages {
		return apperrors.New(apperrors.ErrValidation, "At least one image is required")
	}
	if len(images) > models.MaxListingImages {
		return apperrors.Newf(apperrors.ErrValidation, "A listing can have at most %d images", models.MaxListingImages)
	}
	return nil
}

func validateListingInput(in *models.ListingInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)

	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Description == "" {
		missing = append(missing, "description")
	}
	if in.Location == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return apperrors.Newf(apperrors.ErrValidation, "Missing required fields: %s", strings.Join(missing, ", "))
	}
	if !in.Type.Valid() {
		return apperrors.Newf(apperrors.ErrValidation, "Invalid property type %q", in.Type)
	}
	if in.Status == "" {
		in.Status = models.ListingAvailable
	}
	if !in.Status.Valid() {
		return apperrors.Newf(apperrors.ErrValidation, "Invalid status %q", in.Status)
	}
	return validateImages(in.Images)
}

// CreateListing persists a listing owned by agentID.
func (s *listingService) CreateListing(ctx context.Context, agentID primitive.ObjectID, in models.ListingInput) (*models.ListingView, error) {
	if err := validateListingInput(&in); err != nil {
		return nil, err
	}

	features := in.Features
	if features == nil {
		features = []string{}
	}

	now := time.Now().UTC()
	listing := &models.Listing{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Location:    in.Location,
		Type:        in.Type,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		Area:        in.Area,
		Images:      in.Images,
		Agent:       agentID,
		Status:      in.Status,
		Features:    features,
		Featured:    in.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.properties().InsertOne(ctx, listing); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrServer, "Server error", err)
	}

	logger.FromContext(ctx).Info("listing created", zap.String("listing_id", listing.ID.Hex()), zap.String("agent_id", agentID.Hex()))
	return s.getView(ctx, listing.ID)
}

// loadOwned resolves id and checks the caller owns the listing.
func (s *listingService) loadOwned(ctx context.Context, id string, callerID primitive.ObjectID) (*models.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrNotFound, "Property not found")
	}
	listing, err := s.FindListingByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if listing.Agent != callerID {
		return nil, apperrors.New(apperrors.ErrForbidden, "Not authorized")
	}
	return listing, nil
}

func patchSet(patch *models.ListingPatch) (bson.M, error) {
	set := bson.M{}

	requiredText := func(field string, v *string) error {
		if v == nil {
			return nil
		}
		trimmed := strings.TrimSpace(*v)
		if trimmed == "" {
			return apperrors.Newf(apperrors.ErrValidation, "%s cannot be empty", field)
		}
		set[field] = trimmed
		return nil
	}
	if err := requiredText("title", patch.Title); err != nil {
		return nil, err
	}
	if err := requiredText("description", patch.Description); err != nil {
		return nil, err
	}
	if err := requiredText("location", patch.Location); err != nil {
		return nil, err
	}

	if patch.Type != nil {
		if !patch.Type.Valid() {
			return nil, apperrors.Newf(apperrors.ErrValidation, "Invalid property type %q", *patch.Type)
		}
		set["type"] = *patch.Type
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, apperrors.Newf(apperrors.ErrValidation, "Invalid status %q", *patch.Status)
		}
		set["status"] = *patch.Status
	}
	if patch.Images != nil {
		if err := validateImages(*patch.Images); err != nil {
			return nil, err
		}
		set["images"] = *patch.Images
	}
	if patch.Features != nil {
		features := *patch.Features
		if features == nil {
			features = []string{}
		}
		set["features"] = features
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Bedrooms != nil {
		set["bedrooms"] = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		set["bathrooms"] = *patch.Bathrooms
	}
	if patch.Area != nil {
		set["area"] = *patch.Area
	}
	if patch.Featured != nil {
		set["featured"] = *patch.Featured
	}
	return set, nil
}

// UpdateListing merges the provided fields into a listing the caller owns.
func (s *listingService) UpdateListing(ctx context.Context, id string, callerID primitive.ObjectID, patch models.ListingPatch) (*models.ListingView, error) {
	listing, err := s.loadOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	set, err := patchSet(&patch)
	if err != nil {
		return nil, err
	}
	set["updatedAt"] = time.Now().UTC()

	res, err := s.properties().UpdateOne(ctx, bson.M{"_id": listing.ID}, bson.M{"$set": set})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrServer, "Server error", err)
	}
	if res.MatchedCount == 0 {
		return nil, apperrors.New(apperrors.ErrNotFound, "Property not found")
	}
	return s.getView(ctx, listing.ID)
}

// DeleteListing removes a listing the caller owns. Inquiries about it are kept.
func (s *listingService) DeleteListing(ctx context.Context, id string, callerID primitive.ObjectID) error {
	listing, err := s.loadOwned(ctx, id, callerID)
	if err != nil {
		return err
	}

	res, err := s.properties().DeleteOne(ctx, bson.M{"_id": listing.ID})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrServer, "Server error", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.New(apperrors.ErrNotFound, "Property not found")
	}

	logger.FromContext(ctx).Info("listing deleted", zap.String("listing_id", listing.ID.Hex()))
	return nil
}
