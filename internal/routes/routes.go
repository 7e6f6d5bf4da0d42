package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/therabridge/therabridge-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Notification routes (dispatch + read state)
	r.Post("/api/notifications", handlers.CreateNotification)
	r.Get("/api/notifications", handlers.GetNotifications)
	r.Get("/api/notifications/unread-count", handlers.GetUnreadCount)
	r.Put("/api/notifications/read", handlers.MarkNotificationRead)
	r.Put("/api/notifications/read-all", handlers.MarkAllNotificationsRead)

	// US therapist routes
	r.Post("/api/therapists", handlers.CreateTherapist)
	r.Get("/api/therapists", handlers.GetTherapist)
	r.Get("/api/therapists/by-user", handlers.GetTherapistByUser)
	r.Put("/api/therapists", handlers.UpdateTherapist)
	r.Get("/api/therapists/directory", handlers.ListTherapists)
	r.Post("/api/therapists/clients", handlers.AddActiveClient)
	r.Delete("/api/therapists/clients", handlers.RemoveActiveClient)

	// AU therapist routes
	r.Post("/api/au/therapists", handlers.CreateAUTherapist)
	r.Get("/api/au/therapists", handlers.GetAUTherapist)
	r.Get("/api/au/therapists/by-user", handlers.GetAUTherapistByUser)
	r.Put("/api/au/therapists", handlers.UpdateAUTherapist)
	r.Get("/api/au/therapists/directory", handlers.ListAUTherapists)

	// Admin routes (AU lifecycle, compliance review, audit trail)
	r.Get("/api/admin/au/therapists", handlers.AdminGetAUTherapists)
	r.Put("/api/admin/au/therapists/status", handlers.ChangeAUTherapistStatus)
	r.Put("/api/admin/au/therapists/documents/verify", handlers.VerifyComplianceDocument)
	r.Put("/api/admin/au/therapists/documents/revoke", handlers.RevokeComplianceVerification)
	r.Post("/api/admin/au/therapists/notes", handlers.AddAdminNote)
	r.Get("/api/admin/au/therapists/expiring-documents", handlers.GetExpiringDocuments)
	r.Get("/api/admin/audit", handlers.GetAuditEvents)
	r.Put("/api/admin/unblock-ip", handlers.UnblockIP)
}
