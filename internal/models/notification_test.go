package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validNotification() Notification {
	return Notification{
		UserID:  primitive.NewObjectID(),
		Type:    NotificationPayment,
		Title:   "Payment received",
		Message: "Your payment of $120 was processed.",
	}
}

func TestNotificationValidation(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		mutate  func(*Notification)
		wantErr bool
	}{
		{"valid payment notification", func(n *Notification) {}, false},
		{"missing user", func(n *Notification) { n.UserID = primitive.ObjectID{} }, true},
		{"missing title", func(n *Notification) { n.Title = "" }, true},
		{"missing message", func(n *Notification) { n.Message = "" }, true},
		{"type outside vocabulary", func(n *Notification) { n.Type = "promo_blast" }, true},
		{"missing type", func(n *Notification) { n.Type = "" }, true},
		{"read with read_at", func(n *Notification) { n.IsRead = true; n.ReadAt = &now }, false},
		{"read without read_at", func(n *Notification) { n.IsRead = true }, true},
		{"unread with read_at", func(n *Notification) { n.ReadAt = &now }, true},
		{"metadata allowed", func(n *Notification) { n.Metadata = bson.M{"payment_id": "py_123", "amount": 120} }, false},
		{"deep link allowed", func(n *Notification) { n.Link = "/payments/py_123" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNotification()
			tt.mutate(&n)
			err := Validate(&n)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotificationNormalizeTrims(t *testing.T) {
	n := validNotification()
	n.Title = "  Payment received\n"
	n.Message = "\tdone  "
	n.Link = " /payments/py_123 "

	n.Normalize()

	assert.Equal(t, "Payment received", n.Title)
	assert.Equal(t, "done", n.Message)
	assert.Equal(t, "/payments/py_123", n.Link)
}

func TestNotificationWhitespaceOnlyTitleRejected(t *testing.T) {
	n := validNotification()
	n.Title = "   "
	n.Normalize()

	err := Validate(&n)
	require.Error(t, err)
	assert.Contains(t, FormatValidationErrors(err), "Title")
}
