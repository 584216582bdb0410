package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hiresync/validation-queue-api/internal/dto"
	"github.com/hiresync/validation-queue-api/internal/flags"
	"github.com/hiresync/validation-queue-api/internal/models"
	"github.com/hiresync/validation-queue-api/internal/normalize"
	appErrors "github.com/hiresync/validation-queue-api/pkg/errors"
)

// Snapshot refresh triggers, recorded in metrics.
const (
	RefreshTriggerPoll   = "poll"
	RefreshTriggerManual = "manual"
	RefreshTriggerReload = "reload"
)

type candidateLister interface {
	ListActive(ctx context.Context) ([]models.Candidate, error)
}

// QueueServiceConfig tunes snapshot behaviour.
type QueueServiceConfig struct {
	PollInterval        time.Duration
	AdmissionWindowDays int
}

// QueueService holds the in-memory candidate snapshot and runs the
// filter/sort pipeline over it. Flags are recomputed on every load, never
// carried over between snapshots. A failed refresh keeps the previous
// snapshot intact.
type QueueService struct {
	repo    candidateLister
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
	cfg     QueueServiceConfig

	mu       sync.RWMutex
	snapshot []models.Candidate
	loadedAt time.Time
}

// NewQueueService constructs the service.
func NewQueueService(repo candidateLister, metrics *MetricsService, logger *zap.Logger, cfg QueueServiceConfig) *QueueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Hour
	}
	if cfg.AdmissionWindowDays <= 0 {
		cfg.AdmissionWindowDays = flags.DefaultAdmissionWindowDays
	}
	return &QueueService{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		cfg:     cfg,
	}
}

// Load fetches all active candidates, recomputes their priority flags and
// swaps the snapshot. The poller, the manual refresh endpoint and the
// post-action reload all funnel through this one idempotent call.
func (s *QueueService) Load(ctx context.Context, trigger string) error {
	candidates, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.Warn("snapshot refresh failed, keeping previous snapshot",
			zap.String("trigger", trigger), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrDataLoad.Code, appErrors.ErrDataLoad.Status, appErrors.ErrDataLoad.Message)
	}

	today := s.now()
	for i := range candidates {
		candidates[i].Flags = flags.Compute(&candidates[i], today, s.cfg.AdmissionWindowDays)
	}

	s.mu.Lock()
	s.snapshot = candidates
	s.loadedAt = today
	s.mu.Unlock()

	s.metrics.RecordQueueRefresh(trigger, len(candidates))
	s.logger.Info("queue snapshot refreshed",
		zap.String("trigger", trigger), zap.Int("candidates", len(candidates)))
	return nil
}

// Refresh is the user-initiated variant of Load.
func (s *QueueService) Refresh(ctx context.Context) error {
	return s.Load(ctx, RefreshTriggerManual)
}

// StartPolling refreshes the snapshot on the configured interval until the
// context is cancelled.
func (s *QueueService) StartPolling(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Load(ctx, RefreshTriggerPoll); err != nil {
					s.logger.Warn("scheduled queue refresh failed", zap.Error(err))
				}
			}
		}
	}()
}

// List applies the filter pipeline and sort engine to the current snapshot.
func (s *QueueService) List(ctx context.Context, query dto.QueueQuery) (*dto.QueueResponse, error) {
	s.mu.RLock()
	loadedAt := s.loadedAt
	s.mu.RUnlock()

	if loadedAt.IsZero() {
		if err := s.Load(ctx, RefreshTriggerReload); err != nil {
			return nil, appErrors.Clone(appErrors.ErrQueueUnavailable, "")
		}
	}

	s.mu.RLock()
	working := make([]models.Candidate, len(s.snapshot))
	copy(working, s.snapshot)
	loadedAt = s.loadedAt
	s.mu.RUnlock()

	filtered := filterCandidates(working, query)
	sortCandidates(filtered, query)

	return &dto.QueueResponse{
		Candidates: filtered,
		Total:      len(filtered),
		LoadedAt:   loadedAt,
	}, nil
}

// filterCandidates applies the AND-composed predicates. Predicate order does
// not change the result; cheap checks go first.
func filterCandidates(candidates []models.Candidate, query dto.QueueQuery) []models.Candidate {
	search := strings.ToLower(strings.TrimSpace(query.Search))
	status := strings.TrimSpace(query.Status)
	statusActive := status != "" && !strings.EqualFold(status, dto.StatusFilterAll)

	responsible := make(map[string]struct{}, len(query.Responsible))
	for _, name := range query.Responsible {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			responsible[trimmed] = struct{}{}
		}
	}

	result := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !inScope(&c, query.Scope) {
			continue
		}
		if search != "" && !matchesSearch(&c, search) {
			continue
		}
		if statusActive && !normalize.EqualStatus(c.Status, status) {
			continue
		}
		if !inAdmissionRange(&c, query.AdmittedFrom, query.AdmittedTo) {
			continue
		}
		if len(responsible) > 0 {
			if _, ok := responsible[c.Responsible]; !ok {
				continue
			}
		}
		result = append(result, c)
	}
	return result
}

func inScope(c *models.Candidate, scope dto.QueueScope) bool {
	switch scope {
	case dto.ScopeHistory:
		return c.IsValidated()
	default:
		// pending: status still workable, and either never confirmed as
		// validated or reopened by an evolution
		if normalize.StatusIn(c.Status, models.ClosedStatuses) {
			return false
		}
		return !c.IsValidated() || c.HasEvolution()
	}
}

func matchesSearch(c *models.Candidate, loweredTerm string) bool {
	return strings.Contains(strings.ToLower(c.Name), loweredTerm) ||
		strings.Contains(strings.ToLower(c.CPF), loweredTerm) ||
		strings.Contains(strings.ToLower(c.Code), loweredTerm)
}

func inAdmissionRange(c *models.Candidate, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	if c.AdmissionDate == nil {
		return false
	}
	admission := flags.DateOnly(*c.AdmissionDate)
	if from != nil && admission.Before(flags.DateOnly(*from)) {
		return false
	}
	if to != nil && admission.After(flags.DateOnly(*to)) {
		return false
	}
	return true
}

// sortCandidates orders the slice in place: an explicit column sort when a
// key is active, otherwise the default rank ordering. Both are stable.
func sortCandidates(candidates []models.Candidate, query dto.QueueQuery) {
	if query.SortBy == "" {
		sort.SliceStable(candidates, func(i, j int) bool {
			return rankLess(&candidates[i], &candidates[j])
		})
		return
	}

	desc := query.SortDirection == dto.SortDesc
	sort.SliceStable(candidates, func(i, j int) bool {
		less := columnLess(&candidates[i], &candidates[j], query.SortBy)
		if desc {
			return columnLess(&candidates[j], &candidates[i], query.SortBy)
		}
		return less
	})
}

func rankLess(a, b *models.Candidate) bool {
	ra, rb := a.Flags.Rank(), b.Flags.Rank()
	if ra != rb {
		return ra < rb
	}
	return admissionSentinel(a).Before(admissionSentinel(b))
}

// admissionSentinel treats a missing admission date as maximal so that
// undated candidates sort after dated ones.
func admissionSentinel(c *models.Candidate) time.Time {
	if c.AdmissionDate == nil {
		return time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	return flags.DateOnly(*c.AdmissionDate)
}

func columnLess(a, b *models.Candidate, key string) bool {
	switch key {
	case dto.SortByProgress:
		return a.Progress < b.Progress
	case dto.SortByAdmission:
		return admissionSentinel(a).Before(admissionSentinel(b))
	case dto.SortByCode:
		return a.Code < b.Code
	case dto.SortByStatus:
		return normalize.Status(a.Status) < normalize.Status(b.Status)
	case dto.SortByResponsible:
		return strings.ToLower(a.Responsible) < strings.ToLower(b.Responsible)
	default:
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
}

// LoadedAt exposes the current snapshot timestamp (zero before first load).
func (s *QueueService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
