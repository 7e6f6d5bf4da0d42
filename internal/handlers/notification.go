package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/therabridge/therabridge-backend/internal/models"
	"github.com/therabridge/therabridge-backend/internal/services"
)

// CreateNotificationRequest is the dispatch payload for a new notification.
type CreateNotificationRequest struct {
	UserID   string                  `json:"user_id"`
	Type     models.NotificationType `json:"type"`
	Title    string                  `json:"title"`
	Message  string                  `json:"message"`
	Link     string                  `json:"link,omitempty"`
	Metadata bson.M                  `json:"metadata,omitempty"`
}

// CreateNotification handles dispatching a new notification to a user
func CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user_id format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	notification := models.Notification{
		UserID:   userID,
		Type:     req.Type,
		Title:    req.Title,
		Message:  req.Message,
		Link:     req.Link,
		Metadata: req.Metadata,
	}

	if err := services.CreateNotification(ctx, &notification); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":      true,
		"message":      "Notification created",
		"notification": notification,
	})
}

// GetNotifications returns a user's notifications, newest first
func GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user_id format")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	limit, skip := parsePagination(r, 20)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	notifications, total, err := services.ListNotifications(ctx, userID, unreadOnly, limit, skip)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"notifications": notifications,
		"total":         total,
		"has_more":      skip+int64(len(notifications)) < total,
	})
}

// GetUnreadCount returns the user's unread notification count (Redis-cached)
func GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user_id format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := services.UnreadNotificationCount(ctx, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   count,
	})
}

// MarkNotificationRead flips one notification to read
func MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	notification, err := services.MarkNotificationRead(ctx, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"notification": notification,
	})
}

// MarkAllNotificationsRead flips every unread notification for a user
func MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user_id format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	updated, err := services.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"updated": updated,
	})
}

// parsePagination reads limit/skip query params with a default page size.
// Limit is capped at 100.
func parsePagination(r *http.Request, defaultLimit int64) (limit, skip int64) {
	limit = defaultLimit
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64); err == nil && v > 0 {
		skip = v
	}
	return limit, skip
}
