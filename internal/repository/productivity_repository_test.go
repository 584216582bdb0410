package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductivityRepositoryAggregateByAnalyst(t *testing.T) {
	db, mock, cleanup := newCandidateMock(t)
	defer cleanup()
	repo := NewProductivityRepository(db)

	rows := sqlmock.NewRows([]string{"analyst", "total_validated", "avg_duration_seconds", "total_rollbacks"}).
		AddRow("Ana Lima", 12, 84.5, 1).
		AddRow("Beto Costa", 3, 120.0, 2)
	mock.ExpectQuery("GROUP BY analyst").WillReturnRows(rows)

	aggregates, err := repo.AggregateByAnalyst(context.Background())
	require.NoError(t, err)
	require.Len(t, aggregates, 2)
	assert.Equal(t, "Ana Lima", aggregates[0].Analyst)
	assert.Equal(t, 12, aggregates[0].TotalValidated)
	assert.InDelta(t, 84.5, aggregates[0].AvgDurationSeconds, 0.001)
	assert.Equal(t, 2, aggregates[1].TotalRollbacks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductivityRepositoryEventsByAnalyst(t *testing.T) {
	db, mock, cleanup := newCandidateMock(t)
	defer cleanup()
	repo := NewProductivityRepository(db)

	rows := sqlmock.NewRows([]string{"id", "candidate_code", "validator_id", "validator_name",
		"status_before", "status_after", "progress_before", "progress_after", "validated_before", "validated_after",
		"first_view_at", "validated_at", "duration_seconds", "reason",
		"rollback", "rollback_at", "rollback_by_id", "rollback_by_name", "rollback_reason"}).
		AddRow("evt-1", "REQ-1", "user-7", "Ana Lima", "EM PROGRESSO", "EM PROGRESSO", 70, 70, nil, "SIM",
			time.Now(), time.Now(), 90, "ok", false, nil, nil, nil, nil)
	mock.ExpectQuery("FROM validation_events").
		WithArgs("Ana Lima").
		WillReturnRows(rows)

	events, err := repo.EventsByAnalyst(context.Background(), "Ana Lima")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "user-7", events[0].ValidatorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
