package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-service/internal/domain"
	"github.com/spec-kit/orgchart-service/internal/events"
	"github.com/spec-kit/orgchart-service/internal/orgtree"
	"github.com/spec-kit/orgchart-service/internal/repository"
	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

// TreeCache stores a built forest between mutations.
type TreeCache interface {
	Get(ctx context.Context) ([]*domain.OrganizationNode, bool, error)
	Set(ctx context.Context, forest []*domain.OrganizationNode) error
	Invalidate(ctx context.Context) error
}

// AssetRemover deletes portrait assets that are no longer referenced.
type AssetRemover interface {
	Remove(ref string) error
}

// EmployeeService keeps the employee set consistent and derives the organization tree.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	cache      TreeCache
	assets     AssetRemover
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time

	// cacheGen advances on every mutation; a forest built under an older
	// generation is never written to the cache. cacheDirty is set when an
	// invalidation failed and the cached forest may be stale.
	cacheGen   atomic.Uint64
	cacheDirty atomic.Bool
}

// EmployeeDependencies bundles collaborators for the employee service.
// Only EmployeeRepo is required.
type EmployeeDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	TreeCache    TreeCache
	Assets       AssetRemover
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewEmployeeService constructs the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employees:  deps.EmployeeRepo,
		cache:      deps.TreeCache,
		assets:     deps.Assets,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// ListEmployees returns all employees in insertion order.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError("list", err)
	}
	return employees, nil
}

// GetEmployee fetches one employee.
func (s *EmployeeService) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError("get", id, err)
	}
	return emp, nil
}

// CreateEmployee validates input and stores a new employee. The manager
// reference is accepted as given; a dangling one renders as a root.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input domain.EmployeeInput) (*domain.Employee, error) {
	name, err := requiredField("name", input.Name)
	if err != nil {
		return nil, err
	}
	designation, err := requiredField("designation", input.Designation)
	if err != nil {
		return nil, err
	}
	dob, err := dateField(input.DateOfBirth)
	if err != nil {
		return nil, err
	}
	if err := experienceField(input.YearsOfExperience); err != nil {
		return nil, err
	}

	emp := &domain.Employee{
		Name:               name,
		Designation:        designation,
		DateOfBirth:        dob,
		YearsOfExperience:  input.YearsOfExperience,
		ReportingManagerID: domain.NormalizeManagerID(input.ReportingManagerID),
		ImagePath:          normalizeRef(input.ImagePath),
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, apperrors.NewStoreError("create", err)
	}

	s.invalidateTree(ctx)
	s.publish(ctx, events.EventEmployeeCreated, emp.ID, emp)
	s.logger.Info("employee created", zap.String("employee_id", emp.ID), zap.Stringp("reporting_manager_id", emp.ReportingManagerID))
	return emp, nil
}

// UpdateEmployee applies patch to the addressed employee. A manager change
// that would make the employee report to itself, directly or through its
// reports, is rejected.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id string, patch domain.EmployeePatch) (*domain.Employee, error) {
	var (
		updated  domain.Employee
		oldImage *string
		payload  events.EmployeeUpdatedPayload
	)

	err := s.employees.WithinTx(ctx, func(tx repository.EmployeeRepository) error {
		current, err := tx.GetByID(ctx, id)
		if err != nil {
			return mapStoreError("get", id, err)
		}
		next := *current

		if patch.Name != nil {
			if next.Name, err = requiredField("name", *patch.Name); err != nil {
				return err
			}
		}
		if patch.Designation != nil {
			if next.Designation, err = requiredField("designation", *patch.Designation); err != nil {
				return err
			}
		}
		if patch.DateOfBirth != nil {
			if next.DateOfBirth, err = dateField(*patch.DateOfBirth); err != nil {
				return err
			}
		}
		if patch.YearsOfExperience != nil {
			if err := experienceField(*patch.YearsOfExperience); err != nil {
				return err
			}
			next.YearsOfExperience = *patch.YearsOfExperience
		}
		if patch.ReportingManagerSet {
			managerID := domain.NormalizeManagerID(patch.ReportingManagerID)
			if managerID != nil && *managerID != current.ManagerID() {
				all, err := tx.List(ctx)
				if err != nil {
					return mapStoreError("list", id, err)
				}
				if orgtree.WouldCycle(all, id, *managerID) {
					return apperrors.NewValidationError("reporting manager would create a cycle", map[string]any{
						"field":                "reportingManagerId",
						"reporting_manager_id": *managerID,
					})
				}
			}
			payload.ManagerChanged = !sameRef(managerID, current.ReportingManagerID)
			payload.OldManagerID = current.ReportingManagerID
			payload.NewManagerID = managerID
			next.ReportingManagerID = managerID
		}
		if patch.ImagePath != nil {
			ref := normalizeRef(patch.ImagePath)
			if !sameRef(ref, current.ImagePath) {
				oldImage = current.ImagePath
				payload.PortraitChanged = true
			}
			next.ImagePath = ref
		}

		if err := tx.Update(ctx, &next); err != nil {
			return mapStoreError("update", id, err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, mapStoreError("update", id, err)
	}

	if oldImage != nil {
		s.removeAsset(id, *oldImage)
	}
	s.invalidateTree(ctx)
	s.publish(ctx, events.EventEmployeeUpdated, id, payload)
	s.logger.Info("employee updated", zap.String("employee_id", id), zap.Bool("manager_changed", payload.ManagerChanged))
	return &updated, nil
}

// DeleteEmployee removes the employee; its direct reports become roots.
// Removal and reparenting commit together.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id string) error {
	var (
		removed  *domain.Employee
		detached []string
	)

	err := s.employees.WithinTx(ctx, func(tx repository.EmployeeRepository) error {
		emp, err := tx.GetByID(ctx, id)
		if err != nil {
			return mapStoreError("get", id, err)
		}
		if err := tx.Delete(ctx, id); err != nil {
			return mapStoreError("delete", id, err)
		}
		if detached, err = tx.DetachReports(ctx, id); err != nil {
			return mapStoreError("detach reports", id, err)
		}
		removed = emp
		return nil
	})
	if err != nil {
		return mapStoreError("delete", id, err)
	}

	if removed.ImagePath != nil {
		s.removeAsset(id, *removed.ImagePath)
	}
	s.invalidateTree(ctx)
	s.publish(ctx, events.EventEmployeeDeleted, id, events.EmployeeDeletedPayload{DetachedReportIDs: detached})
	s.logger.Info("employee deleted", zap.String("employee_id", id), zap.Strings("detached_report_ids", detached))
	return nil
}

// BuildOrganizationTree returns the forest derived from the current employee set.
func (s *EmployeeService) BuildOrganizationTree(ctx context.Context) ([]*domain.OrganizationNode, error) {
	useCache := s.cacheUsable(ctx)
	gen := s.cacheGen.Load()

	if useCache {
		forest, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("tree cache read failed", zap.Error(err))
		} else if ok {
			return forest, nil
		}
	}

	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError("list", err)
	}
	forest := orgtree.Build(employees)

	if useCache && s.cacheGen.Load() == gen {
		if err := s.cache.Set(ctx, forest); err != nil {
			s.logger.Warn("tree cache write failed", zap.Error(err))
		}
	}
	return forest, nil
}

// GetSubtree returns the part of the forest rooted at id.
func (s *EmployeeService) GetSubtree(ctx context.Context, id string) (*domain.OrganizationNode, error) {
	forest, err := s.BuildOrganizationTree(ctx)
	if err != nil {
		return nil, err
	}
	node := orgtree.Find(forest, id)
	if node == nil {
		return nil, apperrors.NewNotFound("employee", map[string]any{"id": id})
	}
	return node, nil
}

func (s *EmployeeService) invalidateTree(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cacheGen.Add(1)
	if err := s.cache.Invalidate(ctx); err != nil {
		s.cacheDirty.Store(true)
		s.logger.Warn("tree cache invalidation failed; bypassing cache until it succeeds", zap.Error(err))
		return
	}
	s.cacheDirty.Store(false)
}

// cacheUsable reports whether the cache may be read and written. After a
// failed invalidation it retries the drop and stays bypassed until one succeeds.
func (s *EmployeeService) cacheUsable(ctx context.Context) bool {
	if s.cache == nil {
		return false
	}
	if !s.cacheDirty.Load() {
		return true
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("tree cache still unavailable for invalidation", zap.Error(err))
		return false
	}
	s.cacheDirty.Store(false)
	return true
}

func (s *EmployeeService) removeAsset(employeeID, ref string) {
	if s.assets == nil {
		return
	}
	if err := s.assets.Remove(ref); err != nil {
		s.logger.Warn("portrait cleanup failed",
			zap.String("employee_id", employeeID),
			zap.String("image_path", ref),
			zap.Error(err))
	}
}

func (s *EmployeeService) publish(ctx context.Context, eventType events.EventType, employeeID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EmployeeID: employeeID,
		Timestamp:  s.now().UTC(),
		Payload:    payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

// mapStoreError keeps domain errors, turns a missing record into NotFound and
// wraps everything else as a store failure.
func mapStoreError(op, id string, err error) error {
	var domainErr *apperrors.DomainError
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("employee", map[string]any{"id": id})
	default:
		return apperrors.NewStoreError(op, err)
	}
}

func requiredField(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", apperrors.NewValidationError(field+" is required", map[string]any{"field": field})
	}
	return trimmed, nil
}

func dateField(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if _, err := time.Parse(domain.DateLayout, trimmed); err != nil {
		return "", apperrors.NewValidationError("dateOfBirth must be formatted as YYYY-MM-DD", map[string]any{"field": "dateOfBirth"})
	}
	return trimmed, nil
}

func experienceField(years int) error {
	if years < 0 {
		return apperrors.NewValidationError("yearsOfExperience must not be negative", map[string]any{"field": "yearsOfExperience"})
	}
	return nil
}

func normalizeRef(ref *string) *string {
	if ref == nil || strings.TrimSpace(*ref) == "" {
		return nil
	}
	value := strings.TrimSpace(*ref)
	return &value
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
