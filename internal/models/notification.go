package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType is the fixed category vocabulary for notifications.
type NotificationType string

const (
	NotificationSessionBooked    NotificationType = "session_booked"
	NotificationSessionReminder  NotificationType = "session_reminder"
	NotificationSessionCancelled NotificationType = "session_cancelled"
	NotificationPayment          NotificationType = "payment"
	NotificationMessage          NotificationType = "message"
	NotificationReview           NotificationType = "review"
	NotificationClientAssigned   NotificationType = "client_assigned"
	NotificationGoalCompleted    NotificationType = "goal_completed"
	NotificationForumReply       NotificationType = "forum_reply"
	NotificationGeneral          NotificationType = "general"
)

// Notification is an in-app notification delivered to a user. Created by the
// dispatch collaborator; after creation the only mutation is flipping the read
// state. Retention cleanup is handled externally.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	// Owning user
	UserID primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`

	Type    NotificationType `bson:"type" json:"type" validate:"required,oneof=session_booked session_reminder session_cancelled payment message review client_assigned goal_completed forum_reply general"`
	Title   string           `bson:"title" json:"title" validate:"required"`
	Message string           `bson:"message" json:"message" validate:"required"`

	// Optional deep link into the frontend (e.g. /sessions/<id>)
	Link string `bson:"link,omitempty" json:"link,omitempty"`

	// Read state. ReadAt is set if and only if IsRead is true; MarkRead stamps
	// both in the same update.
	IsRead bool       `bson:"is_read" json:"is_read"`
	ReadAt *time.Time `bson:"read_at,omitempty" json:"read_at,omitempty"`

	// Metadata is an opaque per-category document owned by the dispatcher.
	// Known shapes: session_* carry {"session_id"}, payment carries
	// {"payment_id","amount"}, message carries {"conversation_id"},
	// review carries {"review_id"}, forum_reply carries {"thread_id","post_id"}.
	Metadata bson.M `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// Normalize trims display fields before validation.
func (n *Notification) Normalize() {
	n.Title = strings.TrimSpace(n.Title)
	n.Message = strings.TrimSpace(n.Message)
	n.Link = strings.TrimSpace(n.Link)
}
