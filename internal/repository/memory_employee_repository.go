package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/orgchart-service/internal/domain"
)

// flushFunc persists a committed record set.
type flushFunc func(ctx context.Context, records []domain.Employee) error

// MemoryEmployeeRepository keeps the record set in process memory, ordered by
// insertion. When a flush function is configured every committed mutation
// writes the full record set through it; a failed flush rolls the mutation back.
type MemoryEmployeeRepository struct {
	mu    sync.Mutex
	set   recordSet
	flush flushFunc
	ping  func(ctx context.Context) error
}

// NewMemoryEmployeeRepository builds a repository seeded with the given records.
func NewMemoryEmployeeRepository(seed ...domain.Employee) *MemoryEmployeeRepository {
	set := recordSet{newID: uuid.NewString}
	for _, emp := range seed {
		set.records = append(set.records, cloneEmployee(emp))
	}
	return &MemoryEmployeeRepository{set: set}
}

func (r *MemoryEmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.set.list(), nil
}

func (r *MemoryEmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.set.get(id)
}

func (r *MemoryEmployeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	return r.mutate(ctx, func(s *recordSet) error { return s.create(emp) })
}

func (r *MemoryEmployeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	return r.mutate(ctx, func(s *recordSet) error { return s.update(emp) })
}

func (r *MemoryEmployeeRepository) Delete(ctx context.Context, id string) error {
	return r.mutate(ctx, func(s *recordSet) error { return s.delete(id) })
}

func (r *MemoryEmployeeRepository) DetachReports(ctx context.Context, managerID string) ([]string, error) {
	var detached []string
	err := r.mutate(ctx, func(s *recordSet) error {
		detached = s.detachReports(managerID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detached, nil
}

// WithinTx holds the repository lock for the whole of fn.
func (r *MemoryEmployeeRepository) WithinTx(ctx context.Context, fn func(EmployeeRepository) error) error {
	return r.mutate(ctx, func(s *recordSet) error {
		return fn(&recordSetTx{set: s})
	})
}

func (r *MemoryEmployeeRepository) Ping(ctx context.Context) error {
	if r.ping == nil {
		return nil
	}
	return r.ping(ctx)
}

func (r *MemoryEmployeeRepository) mutate(ctx context.Context, op func(*recordSet) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.set.clone()
	if err := op(&r.set); err != nil {
		r.set = snapshot
		return err
	}
	if r.flush != nil {
		if err := r.flush(ctx, r.set.records); err != nil {
			r.set = snapshot
			return err
		}
	}
	return nil
}

// recordSetTx exposes an already locked record set inside WithinTx.
type recordSetTx struct {
	set *recordSet
}

func (t *recordSetTx) List(ctx context.Context) ([]domain.Employee, error) {
	return t.set.list(), nil
}

func (t *recordSetTx) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	return t.set.get(id)
}

func (t *recordSetTx) Create(ctx context.Context, emp *domain.Employee) error {
	return t.set.create(emp)
}

func (t *recordSetTx) Update(ctx context.Context, emp *domain.Employee) error {
	return t.set.update(emp)
}

func (t *recordSetTx) Delete(ctx context.Context, id string) error {
	return t.set.delete(id)
}

func (t *recordSetTx) DetachReports(ctx context.Context, managerID string) ([]string, error) {
	return t.set.detachReports(managerID), nil
}

func (t *recordSetTx) WithinTx(ctx context.Context, fn func(EmployeeRepository) error) error {
	return fn(t)
}

func (t *recordSetTx) Ping(ctx context.Context) error {
	return nil
}

type recordSet struct {
	records []domain.Employee
	newID   func() string
}

func (s *recordSet) clone() recordSet {
	out := recordSet{newID: s.newID, records: make([]domain.Employee, 0, len(s.records))}
	for _, emp := range s.records {
		out.records = append(out.records, cloneEmployee(emp))
	}
	return out
}

func (s *recordSet) list() []domain.Employee {
	return s.clone().records
}

func (s *recordSet) indexOf(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *recordSet) get(id string) (*domain.Employee, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	emp := cloneEmployee(s.records[idx])
	return &emp, nil
}

func (s *recordSet) create(emp *domain.Employee) error {
	emp.ID = s.newID()
	s.records = append(s.records, cloneEmployee(*emp))
	return nil
}

func (s *recordSet) update(emp *domain.Employee) error {
	idx := s.indexOf(emp.ID)
	if idx < 0 {
		return ErrNotFound
	}
	s.records[idx] = cloneEmployee(*emp)
	return nil
}

func (s *recordSet) delete(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	return nil
}

func (s *recordSet) detachReports(managerID string) []string {
	var detached []string
	if managerID == "" {
		return detached
	}
	for i := range s.records {
		if s.records[i].ManagerID() == managerID {
			s.records[i].ReportingManagerID = nil
			detached = append(detached, s.records[i].ID)
		}
	}
	return detached
}
