package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hiresync/validation-queue-api/internal/bus"
	"github.com/hiresync/validation-queue-api/internal/dto"
	"github.com/hiresync/validation-queue-api/internal/models"
	"github.com/hiresync/validation-queue-api/internal/repository"
	appErrors "github.com/hiresync/validation-queue-api/pkg/errors"
)

type validationStore interface {
	GetByCode(ctx context.Context, code string) (*models.Candidate, error)
	GetEvent(ctx context.Context, id string) (*models.ValidationEvent, error)
	EventsByCandidate(ctx context.Context, code string) ([]models.ValidationEvent, error)
	Validate(ctx context.Context, params repository.ValidateParams) (*models.ValidationEvent, error)
	Rollback(ctx context.Context, params repository.RollbackParams) error
}

type validationNotifier interface {
	NotifyValidated(candidate models.Candidate)
}

type snapshotReloader interface {
	Load(ctx context.Context, trigger string) error
}

// ValidationService runs the validate/rollback workflow. Every state change
// is delegated to one atomic repository transaction; the webhook, the bus
// notification and the snapshot reload that follow are best-effort and never
// fail the operation.
type ValidationService struct {
	repo      validationStore
	notifier  validationNotifier
	events    bus.Bus
	queue     snapshotReloader
	metrics   *MetricsService
	logger    *zap.Logger
	validator *validator.Validate
	now       func() time.Time
}

// NewValidationService constructs the service.
func NewValidationService(repo validationStore, notifier validationNotifier, events bus.Bus, queue snapshotReloader, metrics *MetricsService, logger *zap.Logger) *ValidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValidationService{
		repo:      repo,
		notifier:  notifier,
		events:    events,
		queue:     queue,
		metrics:   metrics,
		logger:    logger,
		validator: validator.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Validate converts a pending candidate into a validated one, writing the
// audit event and flipping the candidate marker atomically.
func (s *ValidationService) Validate(ctx context.Context, code string, req dto.ValidateRequest, actor *models.JWTClaims) (*models.ValidationEvent, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "validation reason is required")
	}
	if req.FirstViewAt == nil || req.FirstViewAt.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrMissingSessionTimestamp, "")
	}

	validatedAt := s.now()
	if req.FirstViewAt.After(validatedAt) {
		// a negative duration means the session clock is broken; surface it
		// instead of clamping
		return nil, appErrors.Clone(appErrors.ErrValidation, "first-view timestamp is later than the validation time")
	}

	candidate, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "candidate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate")
	}

	event, err := s.repo.Validate(ctx, repository.ValidateParams{
		Candidate:   candidate,
		Validator:   actor.Identity(),
		FirstViewAt: req.FirstViewAt.UTC(),
		ValidatedAt: validatedAt,
		Reason:      req.Reason,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record validation")
	}

	s.metrics.RecordValidation()
	s.logger.Info("candidate validated",
		zap.String("candidate", candidate.Code),
		zap.String("validator", actor.UserID),
		zap.Int64("duration_seconds", event.DurationSeconds))

	s.afterWrite(ctx, bus.Event{
		Kind:          bus.KindValidated,
		CandidateCode: candidate.Code,
		Analyst:       actor.FullName,
		At:            validatedAt,
	})
	if s.notifier != nil {
		notified := *candidate
		marker := models.ValidatedYes
		notified.Validated = &marker
		s.notifier.NotifyValidated(notified)
	}

	return event, nil
}

// Rollback reverses a validation: the event gains its one-shot rollback
// block and the candidate marker returns to its pre-validation value. A
// second rollback of the same event is rejected with nothing written.
func (s *ValidationService) Rollback(ctx context.Context, eventID string, req dto.RollbackRequest, actor *models.JWTClaims) (*models.ValidationEvent, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "rollback reason is required")
	}

	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "validation event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load validation event")
	}
	if event.Rollback {
		return nil, appErrors.Clone(appErrors.ErrAlreadyRolledBack, "")
	}

	rolledBackAt := s.now()
	err = s.repo.Rollback(ctx, repository.RollbackParams{
		EventID:       event.ID,
		CandidateCode: event.CandidateCode,
		Performer:     actor.Identity(),
		Reason:        req.Reason,
		RolledBackAt:  rolledBackAt,
		RestoreMarker: event.ValidatedBefore,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// lost the race against a concurrent rollback of the same event
			return nil, appErrors.Clone(appErrors.ErrAlreadyRolledBack, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to roll back validation")
	}

	identity := actor.Identity()
	event.Rollback = true
	event.RollbackAt = &rolledBackAt
	event.RollbackByID = &identity.ID
	event.RollbackByName = &identity.Name
	event.RollbackReason = &req.Reason

	s.metrics.RecordRollback()
	s.logger.Info("validation rolled back",
		zap.String("event", event.ID),
		zap.String("candidate", event.CandidateCode),
		zap.String("performed_by", actor.UserID))

	s.afterWrite(ctx, bus.Event{
		Kind:          bus.KindRolledBack,
		CandidateCode: event.CandidateCode,
		Analyst:       actor.FullName,
		At:            rolledBackAt,
	})

	return event, nil
}

// AuditLog lists a candidate's validation events, latest validation first.
func (s *ValidationService) AuditLog(ctx context.Context, code string) ([]models.ValidationEvent, error) {
	events, err := s.repo.EventsByCandidate(ctx, code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit log")
	}
	return events, nil
}

func (s *ValidationService) afterWrite(ctx context.Context, event bus.Event) {
	if s.events != nil {
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish validation notification", zap.Error(err))
		}
	}
	if s.queue != nil {
		if err := s.queue.Load(ctx, RefreshTriggerReload); err != nil {
			s.logger.Warn("post-action queue reload failed", zap.Error(err))
		}
	}
}
