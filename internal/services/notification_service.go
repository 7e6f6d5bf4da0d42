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

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// CreateNotification validates and persists a new notification. The caller is
// the dispatch collaborator; read state must be coherent (unread → no read_at).
func CreateNotification(ctx context.Context, n *models.Notification) error {
	n.Normalize()
	if err := models.Validate(n); err != nil {
		return err
	}

	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now().UTC()
	n.UpdatedAt = n.CreatedAt

	if _, err := database.DB.Collection(CollectionNotifications).InsertOne(ctx, n); err != nil {
		return err
	}

	invalidateUnreadCount(n.UserID)
	return nil
}

// MarkNotificationRead flips a notification to read, stamping read_at in the
// same update so the pair can never diverge. Marking an already-read
// notification is a no-op.
func MarkNotificationRead(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"is_read":    true,
		"read_at":    now,
		"updated_at": now,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var n models.Notification
	err := database.DB.Collection(CollectionNotifications).
		FindOneAndUpdate(ctx, bson.M{"_id": id, "is_read": false}, update, opts).
		Decode(&n)
	if err == mongo.ErrNoDocuments {
		// Either missing or already read; distinguish for the caller
		err = database.DB.Collection(CollectionNotifications).
			FindOne(ctx, bson.M{"_id": id}).
			Decode(&n)
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return &n, nil
	}
	if err != nil {
		return nil, err
	}

	invalidateUnreadCount(n.UserID)
	return &n, nil
}

// MarkAllNotificationsRead marks every unread notification for a user.
// Returns the number of notifications flipped.
func MarkAllNotificationsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	now := time.Now().UTC()
	res, err := database.DB.Collection(CollectionNotifications).UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": now, "updated_at": now}},
	)
	if err != nil {
		return 0, err
	}

	invalidateUnreadCount(userID)
	return res.ModifiedCount, nil
}

// ListNotifications returns a user's notifications newest-first, optionally
// unread only, with the total matching count for pagination.
func ListNotifications(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, limit, skip int64) ([]models.Notification, int64, error) {
	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["is_read"] = false
	}

	col := database.DB.Collection(CollectionNotifications)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// UnreadNotificationCount returns the user's unread count, served from Redis
// when possible. The cache entry is dropped on every write for the user.
func UnreadNotificationCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	key := CacheKey("unread_count", userID.Hex())
	if count, ok := Cache.GetInt64(key); ok {
		return count, nil
	}

	count, err := database.DB.Collection(CollectionNotifications).
		CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
	if err != nil {
		return 0, err
	}

	// Best effort; a failed cache write only costs the next read a count query
	_ = Cache.SetInt64(key, count, CountCacheTTL)
	return count, nil
}

func invalidateUnreadCount(userID primitive.ObjectID) {
	_ = Cache.Delete(CacheKey("unread_count", userID.Hex()))
}
