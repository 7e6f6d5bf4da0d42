package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/therabridge/therabridge-backend/internal/database"
	"github.com/therabridge/therabridge-backend/internal/models"
)

// ErrProfileExists is returned when a user already has a therapist profile.
var ErrProfileExists = errors.New("therapist profile already exists for this user")

// TherapistFilter narrows directory listings.
type TherapistFilter struct {
	State          string
	Specialization models.Specialization
	MinRating      float64
	VerifiedOnly   bool
	Limit          int64
	Skip           int64
}

func (f TherapistFilter) query() bson.M {
	filter := bson.M{}
	if f.State != "" {
		filter["license_states"] = f.State
	}
	if f.Specialization != "" {
		filter["specializations"] = f.Specialization
	}
	if f.MinRating > 0 {
		filter["rating"] = bson.M{"$gte": f.MinRating}
	}
	if f.VerifiedOnly {
		filter["is_verified"] = true
	}
	return filter
}

// CreateTherapist validates and persists a new US therapist profile.
// The unique index on user_id guarantees one profile per user.
func CreateTherapist(ctx context.Context, t *models.Therapist) error {
	if err := models.Validate(t); err != nil {
		return err
	}

	t.ID = primitive.NewObjectID()
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt

	_, err := database.DB.Collection(CollectionTherapists).InsertOne(ctx, t)
	if mongo.IsDuplicateKeyError(err) {
		return ErrProfileExists
	}
	return err
}

// GetTherapistByID fetches a profile by its document ID, serving repeat reads
// from the Redis profile cache. Every write path invalidates the entry.
func GetTherapistByID(ctx context.Context, id primitive.ObjectID) (*models.Therapist, error) {
	if t, ok := cachedTherapist(id); ok {
		return t, nil
	}

	var t models.Therapist
	err := database.DB.Collection(CollectionTherapists).
		FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	cacheTherapist(&t)
	return &t, nil
}

// GetTherapistByUser fetches a profile by its owning user.
func GetTherapistByUser(ctx context.Context, userID primitive.ObjectID) (*models.Therapist, error) {
	var t models.Therapist
	err := database.DB.Collection(CollectionTherapists).
		FindOne(ctx, bson.M{"user_id": userID}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTherapist replaces the mutable profile fields of an existing record.
// Identity, aggregates and the client list are managed by their own
// operations and are not touched here.
func UpdateTherapist(ctx context.Context, id primitive.ObjectID, updated *models.Therapist) (*models.Therapist, error) {
	current, err := GetTherapistByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Merge onto the stored record so validation sees the full document
	current.LicenseNumber = updated.LicenseNumber
	current.LicenseStates = updated.LicenseStates
	current.Specializations = updated.Specializations
	current.CredentialType = updated.CredentialType
	current.Languages = updated.Languages
	current.OffersBilingualTherapy = updated.OffersBilingualTherapy
	current.Bio = updated.Bio
	current.Location = updated.Location
	current.Education = updated.Education
	current.Certifications = updated.Certifications
	current.WorkExperience = updated.WorkExperience
	current.YearsOfExperience = updated.YearsOfExperience
	current.HourlyRate = updated.HourlyRate
	current.Availability = updated.Availability
	current.StripeAccountID = updated.StripeAccountID

	if err := models.Validate(current); err != nil {
		return nil, err
	}

	current.UpdatedAt = time.Now().UTC()
	_, err = database.DB.Collection(CollectionTherapists).
		ReplaceOne(ctx, bson.M{"_id": id}, current)
	if err != nil {
		return nil, err
	}

	invalidateTherapistCache(id)
	return current, nil
}

// AddActiveClient adds a client reference to the therapist's active list.
// $addToSet keeps the list duplicate-free; the count is always derived from
// the list on read.
func AddActiveClient(ctx context.Context, id, clientID primitive.ObjectID) (*models.Therapist, error) {
	return mutateActiveClients(ctx, id, bson.M{
		"$addToSet": bson.M{"active_clients": clientID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
}

// RemoveActiveClient removes a client reference from the active list.
func RemoveActiveClient(ctx context.Context, id, clientID primitive.ObjectID) (*models.Therapist, error) {
	return mutateActiveClients(ctx, id, bson.M{
		"$pull": bson.M{"active_clients": clientID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func mutateActiveClients(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Therapist, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.Therapist
	err := database.DB.Collection(CollectionTherapists).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	invalidateTherapistCache(id)
	return &t, nil
}

// ListTherapists returns directory results ordered by rating descending.
func ListTherapists(ctx context.Context, filter TherapistFilter) ([]models.Therapist, int64, error) {
	col := database.DB.Collection(CollectionTherapists)
	query := filter.query()

	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(filter.Limit).
		SetSkip(filter.Skip)
	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	therapists := []models.Therapist{}
	if err := cursor.All(ctx, &therapists); err != nil {
		return nil, 0, err
	}
	return therapists, total, nil
}

func cachedTherapist(id primitive.ObjectID) (*models.Therapist, bool) {
	var t models.Therapist
	hit, err := Cache.Get(CacheKey("therapist", id.Hex()), &t)
	if err != nil || !hit {
		return nil, false
	}
	return &t, true
}

func cacheTherapist(t *models.Therapist) {
	_ = Cache.Set(CacheKey("therapist", t.ID.Hex()), t, ProfileCacheTTL)
}

func invalidateTherapistCache(id primitive.ObjectID) {
	_ = Cache.Delete(CacheKey("therapist", id.Hex()))
}
