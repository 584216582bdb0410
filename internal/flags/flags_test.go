package flags

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hiresync/validation-queue-api/internal/models"
)

var today = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func candidate(status string, progress int, admission *time.Time) *models.Candidate {
	return &models.Candidate{Code: "C-1", Status: status, Progress: progress, AdmissionDate: admission}
}

func dateIn(days int) *time.Time {
	d := today.AddDate(0, 0, days)
	return &d
}

func TestComputeStatusFlag(t *testing.T) {
	f := Compute(candidate("VALIDAÇÃO", 0, nil), today, 5)
	assert.True(t, f.Status)
	assert.False(t, f.Progress)
	assert.False(t, f.Admission)

	// case and diacritics must not matter
	f = Compute(candidate("validacao", 0, nil), today, 5)
	assert.True(t, f.Status)
}

func TestComputeProgressFlag(t *testing.T) {
	assert.True(t, Compute(candidate("EM PROGRESSO", 60, nil), today, 5).Progress)
	assert.True(t, Compute(candidate("Em Progresso", 95, nil), today, 5).Progress)
	assert.False(t, Compute(candidate("EM PROGRESSO", 59, nil), today, 5).Progress)
	assert.False(t, Compute(candidate("VALIDAÇÃO", 100, nil), today, 5).Progress)
}

func TestComputeAdmissionFlag(t *testing.T) {
	assert.True(t, Compute(candidate("EM PROGRESSO", 0, dateIn(0)), today, 5).Admission)
	assert.True(t, Compute(candidate("EM PROGRESSO", 0, dateIn(5)), today, 5).Admission)
	assert.False(t, Compute(candidate("EM PROGRESSO", 0, dateIn(6)), today, 5).Admission)
	assert.False(t, Compute(candidate("EM PROGRESSO", 0, dateIn(-1)), today, 5).Admission)
	assert.False(t, Compute(candidate("EM PROGRESSO", 0, nil), today, 5).Admission)

	// terminal stages suppress the flag even when the date is close
	for _, status := range []string{"ADMITIDO", "CANCELADO", "REPROVADO", "FINALIZADO"} {
		assert.False(t, Compute(candidate(status, 0, dateIn(2)), today, 5).Admission, status)
	}
}

func TestComputeScenarioStatusAndAdmission(t *testing.T) {
	f := Compute(candidate("VALIDAÇÃO", 10, dateIn(3)), today, 5)
	assert.Equal(t, models.PriorityFlags{Status: true, Progress: false, Admission: true}, f)
	assert.Equal(t, 1, f.Rank())
}

func TestComputeIsDeterministic(t *testing.T) {
	c := candidate("EM PROGRESSO", 75, dateIn(2))
	first := Compute(c, today, 5)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compute(c, today, 5))
	}
}

func TestRank(t *testing.T) {
	assert.Equal(t, 1, models.PriorityFlags{Status: true, Progress: true, Admission: true}.Rank())
	assert.Equal(t, 2, models.PriorityFlags{Progress: true, Admission: true}.Rank())
	assert.Equal(t, 3, models.PriorityFlags{Admission: true}.Rank())
	assert.Equal(t, 4, models.PriorityFlags{}.Rank())
}
