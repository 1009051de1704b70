package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// Repos en memoria para los tests de casos de uso. Copian las entidades al
// entrar y salir para que el caso de uso no comparta punteros con el "storage",
// igual que los repos reales de PostgreSQL.

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*entity.WorkOrder

	// beforeWrite simula un escritor concurrente: se invoca una sola vez con
	// el estado interno justo antes de evaluar el UPDATE condicional, cuando
	// el caso de uso ya leyó su instantánea.
	beforeWrite func(map[string]*entity.WorkOrder)
}

func newFakeOrderRepo(seed ...*entity.WorkOrder) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[string]*entity.WorkOrder)}
	for _, o := range seed {
		cp := *o
		r.orders[o.ID] = &cp
	}
	return r
}

func (r *fakeOrderRepo) Create(_ context.Context, o *entity.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, o *entity.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) UpdateTransition(_ context.Context, o *entity.WorkOrder, from entity.OrderState) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.beforeWrite != nil {
		r.beforeWrite(r.orders)
		r.beforeWrite = nil
	}
	current, ok := r.orders[o.ID]
	if !ok {
		return false, nil
	}
	if current.State != from {
		return false, nil
	}
	cp := *o
	r.orders[o.ID] = &cp
	return true, nil
}

func (r *fakeOrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.WorkOrder
	for _, o := range r.orders {
		if f.State != nil && o.State != *f.State {
			continue
		}
		if f.Priority != nil && o.Priority != *f.Priority {
			continue
		}
		if f.AssignedTo != nil && (o.AssignedTo == nil || *o.AssignedTo != *f.AssignedTo) {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) AppendEvidence(_ context.Context, orderID string, f entity.EvidenceFile, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Evidence = append(o.Evidence, f)
	o.UpdatedAt = now
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(seed ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range seed {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.LoginName == u.LoginName {
			return domain.ErrLoginTaken
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByLoginName(_ context.Context, loginName string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.LoginName == loginName {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, onlyActive bool, limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.users {
		if onlyActive && !u.Active {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) FindActiveByLoginName(_ context.Context, loginName string, role entity.Role) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Active && u.Role == role && u.LoginName == loginName {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindActiveByDisplayName(_ context.Context, displayName string, role entity.Role) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Active && u.Role == role && u.DisplayName == displayName {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports map[string]*entity.Report // clave: order_id
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*entity.Report)}
}

func (r *fakeReportRepo) Create(_ context.Context, rep *entity.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[rep.OrderID]; ok {
		return domain.ErrDuplicate
	}
	cp := *rep
	r.reports[rep.OrderID] = &cp
	return nil
}

func (r *fakeReportRepo) GetByOrderID(_ context.Context, orderID string) (*entity.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[orderID]
	if !ok {
		return nil, nil
	}
	cp := *rep
	return &cp, nil
}

func (r *fakeReportRepo) DeleteByOrderID(_ context.Context, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reports, orderID)
	return nil
}

// fakeStorage cuenta llamadas y puede fallar para el test de resultado por archivo.
type fakeStorage struct {
	mu      sync.Mutex
	stored  []string
	removed []string
	failOn  string // OriginalName que debe fallar
}

func (s *fakeStorage) Store(_ context.Context, orderID string, _ []byte, originalName, mimeType string) (entity.EvidenceFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if originalName == s.failOn {
		return entity.EvidenceFile{}, context.DeadlineExceeded
	}
	path := orderID + "/" + originalName
	s.stored = append(s.stored, path)
	return entity.EvidenceFile{Path: path, OriginalName: originalName, MimeType: mimeType}, nil
}

func (s *fakeStorage) RemoveAll(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, orderID)
	return nil
}

// fakeTxRunner ejecuta el callback directo contra los repos (sin transacción).
type fakeTxRunner struct {
	orders  repository.WorkOrderRepository
	reports repository.ReportRepository
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(repository.WorkOrderRepository, repository.ReportRepository) error) error {
	return fn(t.orders, t.reports)
}

// fakeNotifier registra asignaciones notificadas.
type fakeNotifier struct {
	mu       sync.Mutex
	notified []string // login del técnico
}

func (n *fakeNotifier) NotifyAssignment(_ context.Context, technician *entity.User, _ *entity.WorkOrder) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, technician.LoginName)
	return nil
}
