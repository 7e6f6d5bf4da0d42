package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/therabridge/therabridge-backend/internal/models"
	"github.com/therabridge/therabridge-backend/internal/services"
)

// TherapistPayload is the writable field set for a US therapist profile.
// Aggregates (rating, reviews, sessions) and the client list are maintained
// by their own collaborators and are not writable here.
type TherapistPayload struct {
	UserID                 string                       `json:"user_id"`
	LicenseNumber          string                       `json:"license_number"`
	LicenseStates          []string                     `json:"license_states"`
	Specializations        []models.Specialization      `json:"specializations"`
	CredentialType         models.CredentialType        `json:"credential_type"`
	Languages              []models.Language            `json:"languages"`
	OffersBilingualTherapy bool                         `json:"offers_bilingual_therapy"`
	Bio                    string                       `json:"bio"`
	Location               string                       `json:"location"`
	Education              []models.EducationEntry      `json:"education"`
	Certifications         []models.CertificationEntry  `json:"certifications"`
	WorkExperience         []models.WorkExperienceEntry `json:"work_experience"`
	YearsOfExperience      int                          `json:"years_of_experience"`
	HourlyRate             float64                      `json:"hourly_rate"`
	Availability           []models.AvailabilityWindow  `json:"availability"`
	StripeAccountID        string                       `json:"stripe_account_id"`
}

func (p *TherapistPayload) toModel() (*models.Therapist, error) {
	t := &models.Therapist{
		LicenseNumber:          p.LicenseNumber,
		LicenseStates:          p.LicenseStates,
		Specializations:        p.Specializations,
		CredentialType:         p.CredentialType,
		Languages:              p.Languages,
		OffersBilingualTherapy: p.OffersBilingualTherapy,
		Bio:                    p.Bio,
		Location:               p.Location,
		Education:              p.Education,
		Certifications:         p.Certifications,
		WorkExperience:         p.WorkExperience,
		YearsOfExperience:      p.YearsOfExperience,
		HourlyRate:             p.HourlyRate,
		Availability:           p.Availability,
		StripeAccountID:        p.StripeAccountID,
	}
	if p.UserID != "" {
		userID, err := primitive.ObjectIDFromHex(p.UserID)
		if err != nil {
			return nil, err
		}
		t.UserID = userID
	}
	return t, nil
}

// therapistResponse augments the stored record with the derived client count.
func therapistResponse(t *models.Therapist) map[string]interface{} {
	return map[string]interface{}{
		"therapist":           t,
		"active_client_count": t.ActiveClientCount(),
	}
}

// CreateTherapist handles creating a US therapist profile
func CreateTherapist(w http.ResponseWriter, r *http.Request) {
	var req TherapistPayload
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

	if err := services.CreateTherapist(ctx, therapist); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"message":   "Therapist profile created",
		"therapist": therapist,
	})
}

// GetTherapist gets a therapist profile by ID
func GetTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	therapist, err := services.GetTherapistByID(ctx, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, therapistResponse(therapist))
}

// GetTherapistByUser gets a therapist profile by its owning user
func GetTherapistByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user_id format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	therapist, err := services.GetTherapistByUser(ctx, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, therapistResponse(therapist))
}

// UpdateTherapist replaces the writable fields of a therapist profile
func UpdateTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id format")
		return
	}

	var req TherapistPayload
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

	therapist, err := services.UpdateTherapist(ctx, id, updated)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, therapistResponse(therapist))
}

// ActiveClientRequest identifies a therapist and a client reference.
type ActiveClientRequest struct {
	TherapistID string `json:"therapist_id"`
	ClientID    string `json:"client_id"`
}

func (req *ActiveClientRequest) parse() (therapistID, clientID primitive.ObjectID, err error) {
	therapistID, err = primitive.ObjectIDFromHex(req.TherapistID)
	if err != nil {
		return
	}
	clientID, err = primitive.ObjectIDFromHex(req.ClientID)
	return
}

// AddActiveClient adds a client reference to a therapist's active list
func AddActiveClient(w http.ResponseWriter, r *http.Request) {
	mutateActiveClients(w, r, services.AddActiveClient)
}

// RemoveActiveClient removes a client reference from a therapist's active list
func RemoveActiveClient(w http.ResponseWriter, r *http.Request) {
	mutateActiveClients(w, r, services.RemoveActiveClient)
}

func mutateActiveClients(w http.ResponseWriter, r *http.Request, op func(context.Context, primitive.ObjectID, primitive.ObjectID) (*models.Therapist, error)) {
	var req ActiveClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	therapistID, clientID, err := req.parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	therapist, err := op(ctx, therapistID, clientID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, therapistResponse(therapist))
}

// ListTherapists returns the public therapist directory with filters
func ListTherapists(w http.ResponseWriter, r *http.Request) {
	filter := parseTherapistFilter(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	therapists, total, err := services.ListTherapists(ctx, filter)
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

func parseTherapistFilter(r *http.Request) services.TherapistFilter {
	limit, skip := parsePagination(r, 20)
	filter := services.TherapistFilter{
		State:          r.URL.Query().Get("state"),
		Specialization: models.Specialization(r.URL.Query().Get("specialization")),
		VerifiedOnly:   r.URL.Query().Get("verified") == "true",
		Limit:          limit,
		Skip:           skip,
	}
	if v, err := strconv.ParseFloat(r.URL.Query().Get("min_rating"), 64); err == nil {
		filter.MinRating = v
	}
	return filter
}
