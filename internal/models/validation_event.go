package models

import "time"

// ValidationEvent is the append-only audit record of a validate action. The
// only permitted mutation is the one-shot rollback block (Rollback flag plus
// the three rollback fields), applied at most once per event.
type ValidationEvent struct {
	ID            string `db:"id" json:"id"`
	CandidateCode string `db:"candidate_code" json:"candidateCode"`
	ValidatorID   string `db:"validator_id" json:"validatorId"`
	ValidatorName string `db:"validator_name" json:"validatorName"`

	StatusBefore    string  `db:"status_before" json:"statusBefore"`
	StatusAfter     string  `db:"status_after" json:"statusAfter"`
	ProgressBefore  int     `db:"progress_before" json:"progressBefore"`
	ProgressAfter   int     `db:"progress_after" json:"progressAfter"`
	ValidatedBefore *string `db:"validated_before" json:"validatedBefore,omitempty"`
	ValidatedAfter  *string `db:"validated_after" json:"validatedAfter,omitempty"`

	FirstViewAt     time.Time `db:"first_view_at" json:"firstViewAt"`
	ValidatedAt     time.Time `db:"validated_at" json:"validatedAt"`
	DurationSeconds int64     `db:"duration_seconds" json:"durationSeconds"`
	Reason          string    `db:"reason" json:"reason"`

	Rollback       bool       `db:"rollback" json:"rollback"`
	RollbackAt     *time.Time `db:"rollback_at" json:"rollbackAt,omitempty"`
	RollbackByID   *string    `db:"rollback_by_id" json:"rollbackById,omitempty"`
	RollbackByName *string    `db:"rollback_by_name" json:"rollbackByName,omitempty"`
	RollbackReason *string    `db:"rollback_reason" json:"rollbackReason,omitempty"`
}

// ValidatorIdentity pairs the stable user ID with the display name recorded
// on audit events. Events keep the name as written at validation time, not
// the live session identity.
type ValidatorIdentity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
