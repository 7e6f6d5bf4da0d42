package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/therabridge/therabridge-backend/internal/database"
	"github.com/therabridge/therabridge-backend/internal/models"
)

// ErrIllegalTransition is returned when a status change is not in the
// configured transition table.
var ErrIllegalTransition = errors.New("status transition not allowed")

// AUTherapistFilter narrows AU directory and admin listings.
type AUTherapistFilter struct {
	TherapistFilter
	Status         models.TherapistStatus
	CredentialType models.CredentialType
}

func (f AUTherapistFilter) query() bson.M {
	filter := f.TherapistFilter.query()
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CredentialType != "" {
		filter["credential_type"] = f.CredentialType
	}
	return filter
}

// CreateAUTherapist validates and persists a new AU therapist profile.
// New profiles always enter the lifecycle as pending, with every compliance
// document unverified regardless of what the request carried.
func CreateAUTherapist(ctx context.Context, t *models.TherapistAU) error {
	t.Status = models.StatusPending
	t.PausedAt = nil
	t.PausedBy = nil
	t.PauseReason = ""
	scrubComplianceVerification(&t.Compliance)
	if err := models.Validate(t); err != nil {
		return err
	}

	t.ID = primitive.NewObjectID()
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt

	_, err := database.DB.Collection(CollectionTherapistsAU).InsertOne(ctx, t)
	if mongo.IsDuplicateKeyError(err) {
		return ErrProfileExists
	}
	return err
}

// GetAUTherapistByID fetches an AU profile by its document ID.
func GetAUTherapistByID(ctx context.Context, id primitive.ObjectID) (*models.TherapistAU, error) {
	var t models.TherapistAU
	err := database.DB.Collection(CollectionTherapistsAU).
		FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAUTherapistByUser fetches an AU profile by its owning user.
func GetAUTherapistByUser(ctx context.Context, userID primitive.ObjectID) (*models.TherapistAU, error) {
	var t models.TherapistAU
	err := database.DB.Collection(CollectionTherapistsAU).
		FindOne(ctx, bson.M{"user_id": userID}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateAUTherapist replaces the therapist-editable fields of an AU profile.
// Status, compliance verification, notes and the pause trail are admin
// operations with their own entry points.
func UpdateAUTherapist(ctx context.Context, id primitive.ObjectID, updated *models.TherapistAU) (*models.TherapistAU, error) {
	current, err := GetAUTherapistByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current.LicenseNumber = updated.LicenseNumber
	current.LicenseStates = updated.LicenseStates
	current.Specializations = updated.Specializations
	current.CredentialType = updated.CredentialType
	current.Languages = updated.Languages
	current.OffersBilingualTherapy = updated.OffersBilingualTherapy
	current.Bio = updated.Bio
	current.Location = updated.Location
	current.Education = updated.Education
	current.Certifications = updated.Certifications
	current.WorkExperience = updated.WorkExperience
	current.YearsOfExperience = updated.YearsOfExperience
	current.HourlyRate = updated.HourlyRate
	current.Availability = updated.Availability
	current.StripeAccountID = updated.StripeAccountID
	current.PracticeState = updated.PracticeState
	current.PracticeCity = updated.PracticeCity
	current.Postcode = updated.Postcode
	current.CanSupervise = updated.CanSupervise

	// Therapists may update their own paperwork, but verification stamps on
	// the stored documents survive only through the admin flow, so keep the
	// existing verification state when the identifying fields are unchanged.
	mergeComplianceBundle(&current.Compliance, &updated.Compliance)

	if err := models.Validate(current); err != nil {
		return nil, err
	}

	current.UpdatedAt = time.Now().UTC()
	_, err = database.DB.Collection(CollectionTherapistsAU).
		ReplaceOne(ctx, bson.M{"_id": id}, current)
	if err != nil {
		return nil, err
	}
	return current, nil
}

// ChangeAUTherapistStatus moves a profile through the lifecycle. Transitions
// are checked against the configured table; moving to paused requires an
// admin and a reason, and leaving paused clears the pause trail.
func ChangeAUTherapistStatus(ctx context.Context, id primitive.ObjectID, to models.TherapistStatus, adminID primitive.ObjectID, reason string) (*models.TherapistAU, error) {
	current, err := GetAUTherapistByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == to {
		return current, nil
	}
	if !statusTransitions.Allowed(current.Status, to) {
		return nil, fmt.Errorf("%w: %s → %s", ErrIllegalTransition, current.Status, to)
	}

	now := time.Now().UTC()
	set := bson.M{"status": to, "updated_at": now}
	unset := bson.M{}

	if to == models.StatusPaused {
		if reason == "" {
			return nil, errors.New("a pause reason is required")
		}
		set["paused_at"] = now
		set["paused_by"] = adminID
		set["pause_reason"] = reason
	} else if current.Status == models.StatusPaused {
		unset["paused_at"] = ""
		unset["paused_by"] = ""
		unset["pause_reason"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.TherapistAU
	err = database.DB.Collection(CollectionTherapistsAU).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&t)
	if err != nil {
		return nil, err
	}

	RecordAuditEvent(adminID.Hex(), AuditStatusChange, SubjectTherapistAU, id.Hex(),
		fmt.Sprintf("%s → %s (%s)", current.Status, to, reason))
	return &t, nil
}

// AppendAdminNote adds an entry to the profile's administrative trail.
func AppendAdminNote(ctx context.Context, id primitive.ObjectID, note string, adminID primitive.ObjectID) (*models.TherapistAU, error) {
	if note == "" {
		return nil, errors.New("note text is required")
	}

	entry := models.AdminNote{
		Note:    note,
		AddedBy: adminID,
		AddedAt: time.Now().UTC(),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.TherapistAU
	err := database.DB.Collection(CollectionTherapistsAU).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
			"$push": bson.M{"admin_notes": entry},
			"$set":  bson.M{"updated_at": entry.AddedAt},
		}, opts).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	RecordAuditEvent(adminID.Hex(), AuditNoteAdded, SubjectTherapistAU, id.Hex(), note)
	return &t, nil
}

// ListAUTherapists returns AU profiles ordered by rating descending.
// Admin listings filter by status (e.g. the pending approval queue).
func ListAUTherapists(ctx context.Context, filter AUTherapistFilter) ([]models.TherapistAU, int64, error) {
	col := database.DB.Collection(CollectionTherapistsAU)
	query := filter.query()

	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(filter.Limit).
		SetSkip(filter.Skip)
	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	therapists := []models.TherapistAU{}
	if err := cursor.All(ctx, &therapists); err != nil {
		return nil, 0, err
	}
	return therapists, total, nil
}

// mergeComplianceBundle overlays therapist-submitted paperwork onto the stored
// bundle. Verification stamps never come from the request: a submitted document
// keeps the stored stamp only when its identifying fields are unchanged, and
// starts unverified otherwise.
func mergeComplianceBundle(stored, updated *models.ComplianceBundle) {
	stored.ProfessionalBodyMembership = mergeMembership(stored.ProfessionalBodyMembership, updated.ProfessionalBodyMembership)
	stored.StateRegistration = mergeRegistration(stored.StateRegistration, updated.StateRegistration)
	stored.IndemnityInsurance = mergeInsurance(stored.IndemnityInsurance, updated.IndemnityInsurance)
	stored.WorkingWithChildrenCheck = mergeChildrenCheck(stored.WorkingWithChildrenCheck, updated.WorkingWithChildrenCheck)
	stored.PoliceCheck = mergePoliceCheck(stored.PoliceCheck, updated.PoliceCheck)
	stored.Qualifications = mergeQualifications(stored.Qualifications, updated.Qualifications)
	stored.AdditionalCredentials = mergeCredentials(stored.AdditionalCredentials, updated.AdditionalCredentials)
	stored.LicenseDocument = mergeLegacy(stored.LicenseDocument, updated.LicenseDocument)
	stored.LiabilityInsurance = mergeLegacy(stored.LiabilityInsurance, updated.LiabilityInsurance)
}

// scrubComplianceVerification strips verification stamps from every document
// in the bundle.
func scrubComplianceVerification(b *models.ComplianceBundle) {
	if b.ProfessionalBodyMembership != nil {
		b.ProfessionalBodyMembership.Verification = nil
	}
	if b.StateRegistration != nil {
		b.StateRegistration.Verification = nil
	}
	if b.IndemnityInsurance != nil {
		b.IndemnityInsurance.Verification = nil
	}
	if b.WorkingWithChildrenCheck != nil {
		b.WorkingWithChildrenCheck.Verification = nil
	}
	if b.PoliceCheck != nil {
		b.PoliceCheck.Verification = nil
	}
	for i := range b.Qualifications {
		b.Qualifications[i].Verification = nil
	}
	for i := range b.AdditionalCredentials {
		b.AdditionalCredentials[i].Verification = nil
	}
	if b.LicenseDocument != nil {
		b.LicenseDocument.Verification = nil
	}
	if b.LiabilityInsurance != nil {
		b.LiabilityInsurance.Verification = nil
	}
}

func mergeMembership(old, incoming *models.MembershipDocument) *models.MembershipDocument {
	if incoming == nil {
		return nil
	}
	if old != nil && old.Body == incoming.Body && old.MemberNumber == incoming.MemberNumber {
		incoming.Verification = old.Verification
	} else {
		incoming.Verification = nil
	}
	return incoming
}

func mergeRegistration(old, incoming *models.RegistrationDocument) *models.RegistrationDocument {
	if incoming == nil {
		return nil
	}
	if old != nil && old.RegistrationNumber == incoming.RegistrationNumber && old.RegistrationState == incoming.RegistrationState {
		incoming.Verification = old.Verification
	} else {
		incoming.Verification = nil
	}
	return incoming
}

func mergeInsurance(old, incoming *models.InsuranceDocument) *models.InsuranceDocument {
	if incoming == nil {
		return nil
	}
	if old != nil && old.Provider == incoming.Provider && old.PolicyNumber == incoming.PolicyNumber {
		incoming.Verification = old.Verification
	} else {
		incoming.Verification = nil
	}
	return incoming
}

func mergeChildrenCheck(old, incoming *models.ChildrenCheckDocument) *models.ChildrenCheckDocument {
	if incoming == nil {
		return nil
	}
	if old != nil && old.CardNumber == incoming.CardNumber && old.IssuingState == incoming.IssuingState {
		incoming.Verification = old.Verification
	} else {
		incoming.Verification = nil
	}
	return incoming
}

func mergePoliceCheck(old, incoming *models.PoliceCheckDocument) *models.PoliceCheckDocument {
	if incoming == nil {
		return nil
	}
	if old != nil && old.ReferenceNumber == incoming.ReferenceNumber {
		incoming.Verification = old.Verification
	} else {
		incoming.Verification = nil
	}
	return incoming
}

func mergeQualifications(old, incoming []models.QualificationDocument) []models.QualificationDocument {
	for i := range incoming {
		incoming[i].Verification = nil
		for j := range old {
			if old[j].Title == incoming[i].Title && old[j].Institution == incoming[i].Institution && old[j].Year == incoming[i].Year {
				incoming[i].Verification = old[j].Verification
				break
			}
		}
	}
	return incoming
}

func mergeCredentials(old, incoming []models.CredentialDocument) []models.CredentialDocument {
	for i := range incoming {
		incoming[i].Verification = nil
		for j := range old {
			if old[j].Name == incoming[i].Name && old[j].IssuedBy == incoming[i].IssuedBy {
				incoming[i].Verification = old[j].Verification
				break
			}
		}
	}
	return incoming
}

func mergeLegacy(old, incoming *models.LegacyDocument) *models.LegacyDocument {
	if incoming == nil {
		return nil
	}
	if old != nil && old.Number == incoming.Number && old.State == incoming.State {
		incoming.Verification = old.Verification
	} else {
		incoming.Verification = nil
	}
	return incoming
}
