package services

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/therabridge/therabridge-backend/internal/database"
)

// Audit actions recorded for admin mutations.
const (
	AuditStatusChange        = "status_change"
	AuditDocumentVerified    = "document_verified"
	AuditVerificationRevoked = "verification_revoked"
	AuditNoteAdded           = "note_added"
)

// Audit subject types.
const (
	SubjectTherapistAU = "therapist_au"
)

// AuditEvent is one row of the Postgres admin audit trail.
type AuditEvent struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Actor       string    `json:"actor"`
	Action      string    `json:"action"`
	SubjectType string    `json:"subject_type"`
	SubjectID   string    `json:"subject_id"`
	Detail      string    `json:"detail,omitempty"`
}

// RecordAuditEvent writes an admin action to the audit trail. The trail is
// ops-side visibility, not the system of record, so failures are logged and
// do not fail the mutation that triggered them.
func RecordAuditEvent(actor, action, subjectType, subjectID, detail string) {
	_, err := database.PostgresDB.Exec(
		`INSERT INTO audit_events (id, created_at, actor, action, subject_type, subject_id, detail)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(), time.Now().UTC(), actor, action, subjectType, subjectID, detail,
	)
	if err != nil {
		log.Printf("⚠️  Failed to record audit event (%s %s/%s): %v", action, subjectType, subjectID, err)
	}
}

// ListAuditEvents returns recent audit events, newest first, optionally
// filtered by action or subject.
func ListAuditEvents(action, subjectID string, limit int) ([]AuditEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `SELECT id, created_at, actor, action, subject_type, subject_id, COALESCE(detail, '')
		FROM audit_events WHERE 1=1`
	args := []interface{}{}

	if action != "" {
		args = append(args, action)
		query += fmt.Sprintf(` AND action = $%d`, len(args))
	}
	if subjectID != "" {
		args = append(args, subjectID)
		query += fmt.Sprintf(` AND subject_id = $%d`, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := database.PostgresDB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []AuditEvent{}
	for rows.Next() {
		var e AuditEvent
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Actor, &e.Action, &e.SubjectType, &e.SubjectID, &e.Detail); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
