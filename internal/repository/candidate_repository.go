package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hiresync/validation-queue-api/internal/models"
)

const candidateColumns = `id, code, name, cpf, status, progress, responsible, admission_date, evolution, validated`

const eventColumns = `id, candidate_code, validator_id, validator_name,
       status_before, status_after, progress_before, progress_after, validated_before, validated_after,
       first_view_at, validated_at, duration_seconds, reason,
       rollback, rollback_at, rollback_by_id, rollback_by_name, rollback_reason`

// CandidateRepository reads the candidate base and applies the two atomic
// write operations (validate, rollback). Each write runs in one transaction:
// the event write and the candidate-marker write land together or not at all.
type CandidateRepository struct {
	db *sqlx.DB
}

// NewCandidateRepository constructs the repository.
func NewCandidateRepository(db *sqlx.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

// ListActive bulk-reads every active production candidate row.
func (r *CandidateRepository) ListActive(ctx context.Context) ([]models.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE active = TRUE ORDER BY code`, candidateColumns)
	var candidates []models.Candidate
	if err := r.db.SelectContext(ctx, &candidates, query); err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return candidates, nil
}

// GetByCode fetches one candidate by its queue key.
func (r *CandidateRepository) GetByCode(ctx context.Context, code string) (*models.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE code = $1`, candidateColumns)
	var candidate models.Candidate
	if err := r.db.GetContext(ctx, &candidate, query, code); err != nil {
		return nil, err
	}
	return &candidate, nil
}

// EventsByCandidate returns the audit log for one candidate, most recent
// validation first.
func (r *CandidateRepository) EventsByCandidate(ctx context.Context, code string) ([]models.ValidationEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM validation_events WHERE candidate_code = $1 ORDER BY validated_at DESC`, eventColumns)
	var events []models.ValidationEvent
	if err := r.db.SelectContext(ctx, &events, query, code); err != nil {
		return nil, fmt.Errorf("list validation events: %w", err)
	}
	return events, nil
}

// ValidateParams carries everything the validate transaction writes.
type ValidateParams struct {
	Candidate   *models.Candidate
	Validator   models.ValidatorIdentity
	FirstViewAt time.Time
	ValidatedAt time.Time
	Reason      string
}

// Validate inserts the validation event and flips the candidate marker to
// yes inside a single transaction. Returns the created event.
func (r *CandidateRepository) Validate(ctx context.Context, params ValidateParams) (*models.ValidationEvent, error) {
	marker := models.ValidatedYes
	event := &models.ValidationEvent{
		ID:              uuid.NewString(),
		CandidateCode:   params.Candidate.Code,
		ValidatorID:     params.Validator.ID,
		ValidatorName:   params.Validator.Name,
		StatusBefore:    params.Candidate.Status,
		StatusAfter:     params.Candidate.Status,
		ProgressBefore:  params.Candidate.Progress,
		ProgressAfter:   params.Candidate.Progress,
		ValidatedBefore: params.Candidate.Validated,
		ValidatedAfter:  &marker,
		FirstViewAt:     params.FirstViewAt,
		ValidatedAt:     params.ValidatedAt,
		DurationSeconds: int64(params.ValidatedAt.Sub(params.FirstViewAt).Seconds()),
		Reason:          params.Reason,
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin validate tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insert = `INSERT INTO validation_events
	(id, candidate_code, validator_id, validator_name,
	 status_before, status_after, progress_before, progress_after, validated_before, validated_after,
	 first_view_at, validated_at, duration_seconds, reason, rollback)
	VALUES (:id, :candidate_code, :validator_id, :validator_name,
	 :status_before, :status_after, :progress_before, :progress_after, :validated_before, :validated_after,
	 :first_view_at, :validated_at, :duration_seconds, :reason, FALSE)`
	if _, err := tx.NamedExecContext(ctx, insert, event); err != nil {
		return nil, fmt.Errorf("insert validation event: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE candidates SET validated = $1 WHERE code = $2`, marker, event.CandidateCode); err != nil {
		return nil, fmt.Errorf("mark candidate validated: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit validate tx: %w", err)
	}
	return event, nil
}

// RollbackParams carries the rollback transaction inputs. RestoreMarker is
// the candidate's pre-validation marker value taken from the event snapshot.
type RollbackParams struct {
	EventID       string
	CandidateCode string
	Performer     models.ValidatorIdentity
	Reason        string
	RolledBackAt  time.Time
	RestoreMarker *string
}

// Rollback closes the event and restores the candidate marker in a single
// transaction. The guarded UPDATE enforces single reversal: a second attempt
// matches zero rows and surfaces as sql.ErrNoRows with nothing written.
func (r *CandidateRepository) Rollback(ctx context.Context, params RollbackParams) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rollback tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const update = `UPDATE validation_events
	SET rollback = TRUE, rollback_at = $1, rollback_by_id = $2, rollback_by_name = $3, rollback_reason = $4
	WHERE id = $5 AND rollback = FALSE`
	result, err := tx.ExecContext(ctx, update,
		params.RolledBackAt, params.Performer.ID, params.Performer.Name, params.Reason, params.EventID)
	if err != nil {
		return fmt.Errorf("close validation event: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rollback rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.ExecContext(ctx, `UPDATE candidates SET validated = $1 WHERE code = $2`,
		params.RestoreMarker, params.CandidateCode); err != nil {
		return fmt.Errorf("restore candidate marker: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rollback tx: %w", err)
	}
	return nil
}

// GetEvent fetches a single validation event.
func (r *CandidateRepository) GetEvent(ctx context.Context, id string) (*models.ValidationEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM validation_events WHERE id = $1`, eventColumns)
	var event models.ValidationEvent
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}
