package models

import "time"

// Canonical hiring-status labels (upper-case, diacritics stripped). Raw rows
// must be folded through normalize.Status before comparing against these.
const (
	StatusValidacao   = "VALIDACAO"
	StatusEmProgresso = "EM PROGRESSO"
	StatusAdmitido    = "ADMITIDO"
	StatusCancelado   = "CANCELADO"
	StatusReprovado   = "REPROVADO"
	StatusFinalizado  = "FINALIZADO"
	StatusArquivado   = "ARQUIVADO"
	StatusConcluido   = "CONCLUIDO"
	StatusValidado    = "VALIDADO"
	StatusIniciado    = "INICIADO"
)

// TerminalStatuses are stages past which an upcoming admission date no longer
// makes a candidate urgent.
var TerminalStatuses = map[string]struct{}{
	StatusAdmitido:   {},
	StatusCancelado:  {},
	StatusReprovado:  {},
	StatusFinalizado: {},
}

// ClosedStatuses are excluded from the pending work scope.
var ClosedStatuses = map[string]struct{}{
	StatusFinalizado: {},
	StatusCancelado:  {},
	StatusArquivado:  {},
	StatusConcluido:  {},
	StatusValidado:   {},
	StatusIniciado:   {},
}

// Validated-marker values. The marker is tri-state: nil (never reviewed),
// yes, or no (reviewed and reopened).
const (
	ValidatedYes = "SIM"
	ValidatedNo  = "NAO"
)

// PriorityFlags are derived from candidate attributes on every snapshot load
// and are never persisted.
type PriorityFlags struct {
	Status    bool `json:"statusFlag"`
	Progress  bool `json:"progressFlag"`
	Admission bool `json:"admissionFlag"`
}

// Rank maps flags to the default-sort priority class.
func (f PriorityFlags) Rank() int {
	switch {
	case f.Status:
		return 1
	case f.Progress:
		return 2
	case f.Admission:
		return 3
	default:
		return 4
	}
}

// Candidate is a hiring-process record in the validation queue. Everything
// except the validated marker is read-only to this service.
type Candidate struct {
	ID            string     `db:"id" json:"id"`
	Code          string     `db:"code" json:"code"`
	Name          string     `db:"name" json:"name"`
	CPF           string     `db:"cpf" json:"cpf"`
	Status        string     `db:"status" json:"status"`
	Progress      int        `db:"progress" json:"progress"`
	Responsible   string     `db:"responsible" json:"responsible"`
	AdmissionDate *time.Time `db:"admission_date" json:"admissionDate,omitempty"`
	Evolution     *string    `db:"evolution" json:"evolution,omitempty"`
	Validated     *string    `db:"validated" json:"validated,omitempty"`

	Flags PriorityFlags `db:"-" json:"flags"`
}

// IsValidated reports whether the marker is set to yes.
func (c *Candidate) IsValidated() bool {
	return c.Validated != nil && *c.Validated == ValidatedYes
}

// HasEvolution reports whether the evolution marker carries a value.
func (c *Candidate) HasEvolution() bool {
	return c.Evolution != nil && *c.Evolution != ""
}
