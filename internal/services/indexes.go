package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/therabridge/therabridge-backend/internal/database"
)

// Collection names for the three record types.
const (
	CollectionNotifications = "notifications"
	CollectionTherapists    = "therapists"
	CollectionTherapistsAU  = "therapists_au"
)

// EnsureIndexes configures secondary indexes for all collections.
// Called on startup from main after Mongo has connected.
func EnsureIndexes(ctx context.Context) error {
	notificationIndexes := []mongo.IndexModel{
		// Unread feed: (user, read-state, recency)
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_read", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_user_read_created"),
		},
		{
			Keys:    bson.D{{Key: "type", Value: 1}},
			Options: options.Index().SetName("idx_type"),
		},
		// Retention sweeps scan by recency
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created"),
		},
	}

	// Directory filters shared by both therapist variants
	therapistIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_user_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "license_states", Value: 1}},
			Options: options.Index().SetName("idx_license_states"),
		},
		{
			Keys:    bson.D{{Key: "specializations", Value: 1}},
			Options: options.Index().SetName("idx_specializations"),
		},
		{
			Keys:    bson.D{{Key: "rating", Value: -1}},
			Options: options.Index().SetName("idx_rating"),
		},
		{
			Keys:    bson.D{{Key: "is_verified", Value: 1}},
			Options: options.Index().SetName("idx_verified"),
		},
	}

	therapistAUIndexes := append(therapistIndexes,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_status"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "credential_type", Value: 1}},
			Options: options.Index().SetName("idx_credential_type"),
		},
	)

	for col, indexes := range map[string][]mongo.IndexModel{
		CollectionNotifications: notificationIndexes,
		CollectionTherapists:    therapistIndexes,
		CollectionTherapistsAU:  therapistAUIndexes,
	} {
		if _, err := database.DB.Collection(col).Indexes().CreateMany(ctx, indexes); err != nil {
			return err
		}
	}
	return nil
}
