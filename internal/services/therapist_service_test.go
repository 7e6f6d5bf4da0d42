package services

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/therabridge/therabridge-backend/internal/database"
	"github.com/therabridge/therabridge-backend/internal/models"
)

func withTestRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestTherapistProfileCacheRoundTrip(t *testing.T) {
	withTestRedis(t)

	profile := &models.Therapist{
		ID:              primitive.NewObjectID(),
		UserID:          primitive.NewObjectID(),
		LicenseNumber:   "LPC-100",
		LicenseStates:   []string{"CA"},
		Specializations: []models.Specialization{models.SpecializationAnxiety},
		Rating:          4.5,
		ActiveClients:   []primitive.ObjectID{primitive.NewObjectID()},
	}

	_, hit := cachedTherapist(profile.ID)
	assert.False(t, hit, "empty cache should miss")

	cacheTherapist(profile)

	got, hit := cachedTherapist(profile.ID)
	require.True(t, hit)
	assert.Equal(t, profile.ID, got.ID)
	assert.Equal(t, profile.LicenseNumber, got.LicenseNumber)
	assert.Equal(t, profile.ActiveClients, got.ActiveClients)
	assert.Equal(t, 1, got.ActiveClientCount())
}

func TestTherapistCacheInvalidation(t *testing.T) {
	withTestRedis(t)

	profile := &models.Therapist{ID: primitive.NewObjectID(), LicenseNumber: "LPC-200"}
	cacheTherapist(profile)

	_, hit := cachedTherapist(profile.ID)
	require.True(t, hit)

	invalidateTherapistCache(profile.ID)

	_, hit = cachedTherapist(profile.ID)
	assert.False(t, hit, "invalidated entry should miss")
}
