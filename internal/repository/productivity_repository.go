package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hiresync/validation-queue-api/internal/models"
)

// ProductivityRepository derives per-analyst counters from the audit trail.
// AggregateByAnalyst is the precomputed path; EventsByAnalyst feeds the
// client-side fallback aggregation.
type ProductivityRepository struct {
	db *sqlx.DB
}

// NewProductivityRepository constructs the repository.
func NewProductivityRepository(db *sqlx.DB) *ProductivityRepository {
	return &ProductivityRepository{db: db}
}

// Validations are attributed by the recorded validator name; rollbacks by
// the recorded performer name, regardless of who validated originally.
const aggregateQuery = `SELECT analyst,
       COALESCE(SUM(validated), 0)  AS total_validated,
       COALESCE(AVG(duration) FILTER (WHERE duration IS NOT NULL), 0) AS avg_duration_seconds,
       COALESCE(SUM(rollbacks), 0)  AS total_rollbacks
FROM (
    SELECT validator_name AS analyst,
           CASE WHEN rollback THEN 0 ELSE 1 END AS validated,
           CASE WHEN rollback THEN NULL ELSE duration_seconds END AS duration,
           0 AS rollbacks
    FROM validation_events
    UNION ALL
    SELECT rollback_by_name AS analyst, 0, NULL, 1
    FROM validation_events
    WHERE rollback = TRUE AND rollback_by_name IS NOT NULL
) activity
GROUP BY analyst`

// AggregateByAnalyst returns productivity counters for every analyst.
func (r *ProductivityRepository) AggregateByAnalyst(ctx context.Context) ([]models.AnalystProductivity, error) {
	var aggregates []models.AnalystProductivity
	if err := r.db.SelectContext(ctx, &aggregates, aggregateQuery); err != nil {
		return nil, fmt.Errorf("aggregate productivity: %w", err)
	}
	return aggregates, nil
}

// EventsByAnalyst returns the raw events attributable to one analyst, by
// validator identity or display name: audit events retain the validator name
// as written, not the live session identity.
func (r *ProductivityRepository) EventsByAnalyst(ctx context.Context, analyst string) ([]models.ValidationEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM validation_events
	WHERE validator_id = $1 OR validator_name = $1 OR rollback_by_id = $1 OR rollback_by_name = $1
	ORDER BY validated_at DESC`, eventColumns)
	var events []models.ValidationEvent
	if err := r.db.SelectContext(ctx, &events, query, analyst); err != nil {
		return nil, fmt.Errorf("list analyst events: %w", err)
	}
	return events, nil
}
