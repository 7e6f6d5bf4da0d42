package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/therabridge/therabridge-backend/internal/models"
	"github.com/therabridge/therabridge-backend/internal/services"
)

// TherapistAUPayload is the writable field set for an AU therapist profile.
// Status, admin notes and the pause trail are admin operations; compliance
// verification stamps are preserved or dropped server-side on update.
type TherapistAUPayload struct {
	TherapistPayload
	PracticeState models.AUState          `json:"practice_state"`
	PracticeCity  string                  `json:"practice_city"`
	Postcode      string                  `json:"postcode"`
	CanSupervise  bool                    `json:"can_supervise"`
	Compliance    models.ComplianceBundle `json:"compliance"`
}

func (p *TherapistAUPayload) toModel() (*models.TherapistAU, error) {
	base, err := p.TherapistPayload.toModel()
	if err != nil {
		return nil, err
	}
	return &models.TherapistAU{
		Therapist:     *base,
		PracticeState: p.PracticeState,
		PracticeCity:  p.PracticeCity,
		Postcode:      p.Postcode,
		CanSupervise:  p.CanSupervise,
		Compliance:    p.Compliance,
	}, nil
}

// therapistAUResponse augments the stored record with the derived client count.
func therapistAUResponse(t *models.TherapistAU) map[string]interface{} {
	return map[string]interface{}{
		"therapist":           t,
		"active_client_count": t.ActiveClientCount(),
	}
}

// CreateAUTherapist handles creating an AU therapist profile (enters pending)
func CreateAUTherapist(w http.ResponseWriter, r *http.Request) {
	var req TherapistAUPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	therapist, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user_id format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := services.CreateAUTherapist(ctx, therapist); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"message":   "Therapist profile created and pending review",
		"therapist": therapist,
	})
}

// GetAUTherapist gets an AU therapist profile by ID
func GetAUTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	therapist, err := services.GetAUTherapistByID(ctx, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, therapistAUResponse(therapist))
}

// GetAUTherapistByUser gets an AU therapist profile by its owning user
func GetAUTherapistByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user_id format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	therapist, err := services.GetAUTherapistByUser(ctx, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, therapistAUResponse(therapist))
}

// UpdateAUTherapist replaces the therapist-editable fields of an AU profile
func UpdateAUTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id format")
		return
	}

	var req TherapistAUPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user_id format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	therapist, err := services.UpdateAUTherapist(ctx, id, updated)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, therapistAUResponse(therapist))
}

// ListAUTherapists returns the public AU directory. Only active profiles are
// listed publicly; admin listings use the admin endpoint.
func ListAUTherapists(w http.ResponseWriter, r *http.Request) {
	filter := services.AUTherapistFilter{
		TherapistFilter: parseTherapistFilter(r),
		Status:          models.StatusActive,
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
