package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/therabridge/therabridge-backend/internal/middleware"
	"github.com/therabridge/therabridge-backend/internal/models"
	"github.com/therabridge/therabridge-backend/internal/services"
)

// AdminGetAUTherapists lists AU profiles for the admin console, filtered by
// status (e.g. the pending approval queue) and credential type.
func AdminGetAUTherapists(w http.ResponseWriter, r *http.Request) {
	filter := services.AUTherapistFilter{
		TherapistFilter: parseTherapistFilter(r),
		Status:          models.TherapistStatus(r.URL.Query().Get("status")),
		CredentialType:  models.CredentialType(r.URL.Query().Get("credential_type")),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	therapists, total, err := services.ListAUTherapists(ctx, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"therapists": therapists,
		"total":      total,
	})
}

// StatusChangeRequest moves an AU profile through the lifecycle. Reason is
// required when the target status is paused.
type StatusChangeRequest struct {
	TherapistID string                 `json:"therapist_id"`
	Status      models.TherapistStatus `json:"status"`
	AdminID     string                 `json:"admin_id"`
	Reason      string                 `json:"reason,omitempty"`
}

// ChangeAUTherapistStatus applies a lifecycle transition
func ChangeAUTherapistStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	therapistID, err := primitive.ObjectIDFromHex(req.TherapistID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid therapist_id format")
		return
	}
	adminID, err := primitive.ObjectIDFromHex(req.AdminID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid admin_id format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	therapist, err := services.ChangeAUTherapistStatus(ctx, therapistID, req.Status, adminID, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, therapistAUResponse(therapist))
}

// VerifyDocumentRequest identifies one compliance document. Index applies to
// the list documents (qualifications, additional_credentials) only.
type VerifyDocumentRequest struct {
	TherapistID string `json:"therapist_id"`
	Document    string `json:"document"`
	Index       int    `json:"index,omitempty"`
	AdminID     string `json:"admin_id"`
}

func (req *VerifyDocumentRequest) parse() (therapistID, adminID primitive.ObjectID, err error) {
	therapistID, err = primitive.ObjectIDFromHex(req.TherapistID)
	if err != nil {
		return
	}
	adminID, err = primitive.ObjectIDFromHex(req.AdminID)
	return
}

// VerifyComplianceDocument stamps a compliance document as verified
func VerifyComplianceDocument(w http.ResponseWriter, r *http.Request) {
	mutateVerification(w, r, services.VerifyComplianceDocument)
}

// RevokeComplianceVerification returns a document to the unverified state
func RevokeComplianceVerification(w http.ResponseWriter, r *http.Request) {
	mutateVerification(w, r, services.RevokeComplianceVerification)
}

func mutateVerification(w http.ResponseWriter, r *http.Request, op func(context.Context, primitive.ObjectID, string, int, primitive.ObjectID) (*models.TherapistAU, error)) {
	var req VerifyDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	therapistID, adminID, err := req.parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	therapist, err := op(ctx, therapistID, req.Document, req.Index, adminID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, therapistAUResponse(therapist))
}

// AdminNoteRequest appends a note to an AU profile's administrative trail.
type AdminNoteRequest struct {
	TherapistID string `json:"therapist_id"`
	Note        string `json:"note"`
	AdminID     string `json:"admin_id"`
}

// AddAdminNote appends an admin note
func AddAdminNote(w http.ResponseWriter, r *http.Request) {
	var req AdminNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	therapistID, err := primitive.ObjectIDFromHex(req.TherapistID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid therapist_id format")
		return
	}
	adminID, err := primitive.ObjectIDFromHex(req.AdminID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid admin_id format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	therapist, err := services.AppendAdminNote(ctx, therapistID, req.Note, adminID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, therapistAUResponse(therapist))
}

// GetExpiringDocuments reports compliance paperwork that is expired or
// expiring within N days (default 30)
func GetExpiringDocuments(w http.ResponseWriter, r *http.Request) {
	withinDays := 30
	if v, err := strconv.Atoi(r.URL.Query().Get("within_days")); err == nil && v > 0 {
		withinDays = v
	}

	// Full-collection scan; give it more room than a point lookup
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	report, err := services.ExpiringDocumentsReport(ctx, withinDays)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"documents": report,
	})
}

// GetAuditEvents returns recent admin audit events from Postgres
func GetAuditEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}

	events, err := services.ListAuditEvents(
		r.URL.Query().Get("action"),
		r.URL.Query().Get("subject_id"),
		limit,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"events":  events,
	})
}

// UnblockIP lifts a rate-limit block on an IP address
func UnblockIP(w http.ResponseWriter, r *http.Request) {
	ipAddress := r.URL.Query().Get("ip")
	if ipAddress == "" {
		writeError(w, http.StatusBadRequest, "IP address is required")
		return
	}

	blocked, err := middleware.IsIPBlocked(ipAddress)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check block status")
		return
	}
	if !blocked {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "IP address is not currently blocked",
		})
		return
	}

	if err := middleware.UnblockIP(ipAddress); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to unblock IP")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "IP address unblocked",
	})
}
