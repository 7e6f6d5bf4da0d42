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

var (
	// ErrUnknownDocument is returned for a document name outside the bundle.
	ErrUnknownDocument = errors.New("unknown compliance document")
	// ErrDocumentMissing is returned when verifying a document the therapist
	// has not submitted.
	ErrDocumentMissing = errors.New("compliance document not submitted")
)

// Named sub-documents of the compliance bundle. The two list documents take
// an index; the rest are singletons.
const (
	DocProfessionalBodyMembership = "professional_body_membership"
	DocStateRegistration          = "state_registration"
	DocIndemnityInsurance         = "indemnity_insurance"
	DocWorkingWithChildrenCheck   = "working_with_children_check"
	DocPoliceCheck                = "police_check"
	DocQualifications             = "qualifications"
	DocAdditionalCredentials      = "additional_credentials"
	DocLicenseDocument            = "license_document"
	DocLiabilityInsurance         = "liability_insurance"
)

var singletonDocuments = map[string]bool{
	DocProfessionalBodyMembership: true,
	DocStateRegistration:          true,
	DocIndemnityInsurance:         true,
	DocWorkingWithChildrenCheck:   true,
	DocPoliceCheck:                true,
	DocLicenseDocument:            true,
	DocLiabilityInsurance:         true,
}

var listDocuments = map[string]bool{
	DocQualifications:        true,
	DocAdditionalCredentials: true,
}

// complianceDocPath builds the Mongo field path of a document's verification
// sub-document, checking against the profile that the target exists.
func complianceDocPath(t *models.TherapistAU, name string, index int) (string, error) {
	if singletonDocuments[name] {
		present := false
		switch name {
		case DocProfessionalBodyMembership:
			present = t.Compliance.ProfessionalBodyMembership != nil
		case DocStateRegistration:
			present = t.Compliance.StateRegistration != nil
		case DocIndemnityInsurance:
			present = t.Compliance.IndemnityInsurance != nil
		case DocWorkingWithChildrenCheck:
			present = t.Compliance.WorkingWithChildrenCheck != nil
		case DocPoliceCheck:
			present = t.Compliance.PoliceCheck != nil
		case DocLicenseDocument:
			present = t.Compliance.LicenseDocument != nil
		case DocLiabilityInsurance:
			present = t.Compliance.LiabilityInsurance != nil
		}
		if !present {
			return "", ErrDocumentMissing
		}
		return fmt.Sprintf("compliance.%s.verification", name), nil
	}

	if listDocuments[name] {
		length := 0
		switch name {
		case DocQualifications:
			length = len(t.Compliance.Qualifications)
		case DocAdditionalCredentials:
			length = len(t.Compliance.AdditionalCredentials)
		}
		if index < 0 || index >= length {
			return "", ErrDocumentMissing
		}
		return fmt.Sprintf("compliance.%s.%d.verification", name, index), nil
	}

	return "", ErrUnknownDocument
}

// VerifyComplianceDocument stamps a document as verified by an admin. The
// timestamp and admin reference live in one sub-document, so they can never
// be set apart. Index is ignored for singleton documents.
func VerifyComplianceDocument(ctx context.Context, id primitive.ObjectID, name string, index int, adminID primitive.ObjectID) (*models.TherapistAU, error) {
	current, err := GetAUTherapistByID(ctx, id)
	if err != nil {
		return nil, err
	}

	path, err := complianceDocPath(current, name, index)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		path:         models.Verification{VerifiedAt: now, VerifiedBy: adminID},
		"updated_at": now,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.TherapistAU
	err = database.DB.Collection(CollectionTherapistsAU).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	RecordAuditEvent(adminID.Hex(), AuditDocumentVerified, SubjectTherapistAU, id.Hex(), documentRef(name, index))
	return &t, nil
}

// RevokeComplianceVerification clears a document's verification entirely,
// returning it to the unverified state.
func RevokeComplianceVerification(ctx context.Context, id primitive.ObjectID, name string, index int, adminID primitive.ObjectID) (*models.TherapistAU, error) {
	current, err := GetAUTherapistByID(ctx, id)
	if err != nil {
		return nil, err
	}

	path, err := complianceDocPath(current, name, index)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$unset": bson.M{path: ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.TherapistAU
	err = database.DB.Collection(CollectionTherapistsAU).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	RecordAuditEvent(adminID.Hex(), AuditVerificationRevoked, SubjectTherapistAU, id.Hex(), documentRef(name, index))
	return &t, nil
}

func documentRef(name string, index int) string {
	if listDocuments[name] {
		return fmt.Sprintf("%s[%d]", name, index)
	}
	return name
}

// ExpiringDocument is one row of the expiring-paperwork report.
type ExpiringDocument struct {
	TherapistID primitive.ObjectID `json:"therapist_id"`
	Document    string             `json:"document"`
	ExpiresAt   time.Time          `json:"expires_at"`
	Expired     bool               `json:"expired"`
}

// ExpiringComplianceDocuments walks one profile's bundle and reports every
// document already expired or expiring within the window.
func ExpiringComplianceDocuments(t *models.TherapistAU, now time.Time, window time.Duration) []ExpiringDocument {
	var out []ExpiringDocument

	check := func(name string, index int, doc *models.ComplianceDocument) {
		if doc == nil || doc.ExpiresAt == nil {
			return
		}
		if doc.ExpiresAt.After(now.Add(window)) {
			return
		}
		out = append(out, ExpiringDocument{
			TherapistID: t.ID,
			Document:    documentRef(name, index),
			ExpiresAt:   *doc.ExpiresAt,
			Expired:     doc.ExpiresAt.Before(now),
		})
	}

	if d := t.Compliance.ProfessionalBodyMembership; d != nil {
		check(DocProfessionalBodyMembership, 0, &d.ComplianceDocument)
	}
	if d := t.Compliance.StateRegistration; d != nil {
		check(DocStateRegistration, 0, &d.ComplianceDocument)
	}
	if d := t.Compliance.IndemnityInsurance; d != nil {
		check(DocIndemnityInsurance, 0, &d.ComplianceDocument)
	}
	if d := t.Compliance.WorkingWithChildrenCheck; d != nil {
		check(DocWorkingWithChildrenCheck, 0, &d.ComplianceDocument)
	}
	if d := t.Compliance.PoliceCheck; d != nil {
		check(DocPoliceCheck, 0, &d.ComplianceDocument)
	}
	for i := range t.Compliance.Qualifications {
		check(DocQualifications, i, &t.Compliance.Qualifications[i].ComplianceDocument)
	}
	for i := range t.Compliance.AdditionalCredentials {
		check(DocAdditionalCredentials, i, &t.Compliance.AdditionalCredentials[i].ComplianceDocument)
	}
	if d := t.Compliance.LicenseDocument; d != nil {
		check(DocLicenseDocument, 0, &d.ComplianceDocument)
	}
	if d := t.Compliance.LiabilityInsurance; d != nil {
		check(DocLiabilityInsurance, 0, &d.ComplianceDocument)
	}

	return out
}

// ExpiringDocumentsReport scans non-inactive AU profiles for paperwork that
// is expired or expiring within the given number of days.
func ExpiringDocumentsReport(ctx context.Context, withinDays int) ([]ExpiringDocument, error) {
	cursor, err := database.DB.Collection(CollectionTherapistsAU).
		Find(ctx, bson.M{"status": bson.M{"$ne": models.StatusInactive}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	now := time.Now().UTC()
	window := time.Duration(withinDays) * 24 * time.Hour

	report := []ExpiringDocument{}
	for cursor.Next(ctx) {
		var t models.TherapistAU
		if err := cursor.Decode(&t); err != nil {
			return nil, err
		}
		report = append(report, ExpiringComplianceDocuments(&t, now, window)...)
	}
	return report, cursor.Err()
}
