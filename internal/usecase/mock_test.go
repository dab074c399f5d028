//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"coaching-subscription/internal/domain"
	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/domain/ports/repository"
	"coaching-subscription/internal/usecase"
)

// =============================
// In-memory ledger
// =============================

type quitPlanRecord struct {
	ID         string
	UserID     string
	Status     model.QuitPlanStatus
	CreatedAt  time.Time
	ArchivedAt *time.Time
}

// memStore holds every table. Repositories copy records in and out so that
// callers never share memory with the store.
type memStore struct {
	mu sync.Mutex

	users         map[string]model.User
	plans         map[string]model.Plan
	payments      map[string]model.Payment
	confirmations []model.PaymentConfirmation
	memberships   map[string]model.Membership
	cancellations map[string]model.CancellationRequest
	notifications []model.Notification
	quitPlans     map[string]quitPlanRecord

	// userLocks stand in for the per-user advisory locks.
	userLocks map[string]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		userLocks:     map[string]*sync.Mutex{},
		users:         map[string]model.User{},
		plans:         map[string]model.Plan{},
		payments:      map[string]model.Payment{},
		memberships:   map[string]model.Membership{},
		cancellations: map[string]model.CancellationRequest{},
		quitPlans:     map[string]quitPlanRecord{},
	}
}

type snapshot struct {
	users         map[string]model.User
	plans         map[string]model.Plan
	payments      map[string]model.Payment
	confirmations []model.PaymentConfirmation
	memberships   map[string]model.Membership
	cancellations map[string]model.CancellationRequest
	notifications []model.Notification
	quitPlans     map[string]quitPlanRecord
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		users:         copyMap(s.users),
		plans:         copyMap(s.plans),
		payments:      copyMap(s.payments),
		confirmations: append([]model.PaymentConfirmation(nil), s.confirmations...),
		memberships:   copyMap(s.memberships),
		cancellations: copyMap(s.cancellations),
		notifications: append([]model.Notification(nil), s.notifications...),
		quitPlans:     copyMap(s.quitPlans),
	}
}

func (s *memStore) restore(sn snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = sn.users
	s.plans = sn.plans
	s.payments = sn.payments
	s.confirmations = sn.confirmations
	s.memberships = sn.memberships
	s.cancellations = sn.cancellations
	s.notifications = sn.notifications
	s.quitPlans = sn.quitPlans
}

func (s *memStore) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.userLocks[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.userLocks[userID] = mu
	}
	return mu
}

// openCountLocked mirrors the partial unique index on open memberships.
func (s *memStore) openCountLocked(userID, exceptID string) int {
	n := 0
	for id, m := range s.memberships {
		if id != exceptID && m.UserID == userID && m.IsOpen() {
			n++
		}
	}
	return n
}

// ---- test helpers ----

func (s *memStore) addUser(id string, role model.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.users[id] = model.User{ID: id, DisplayName: id, Role: role, CreatedAt: now, UpdatedAt: now}
}

func (s *memStore) addPlan(p *model.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[p.ID] = *p
}

func (s *memStore) addQuitPlan(id, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quitPlans[id] = quitPlanRecord{ID: id, UserID: userID, Status: model.QuitPlanStatusActive, CreatedAt: time.Now()}
}

func (s *memStore) user(id string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *memStore) payment(id string) model.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments[id]
}

func (s *memStore) membership(id string) model.Membership {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memberships[id]
}

func (s *memStore) putMembership(m model.Membership) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships[m.ID] = m
}

func (s *memStore) putPayment(p model.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = p
}

func (s *memStore) cancellation(id string) model.CancellationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancellations[id]
}

func (s *memStore) putCancellation(c model.CancellationRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancellations[c.ID] = c
}

func (s *memStore) quitPlan(id string) quitPlanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quitPlans[id]
}

func (s *memStore) openMemberships(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openCountLocked(userID, "")
}

func (s *memStore) notificationsFor(userID string) []model.NotificationKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.NotificationKind
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n.Kind)
		}
	}
	return out
}

func (s *memStore) confirmationCount(paymentID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.confirmations {
		if c.PaymentID == paymentID {
			n++
		}
	}
	return n
}

// =============================
// Transaction manager
// =============================

// memTx holds the user locks taken inside it until the transaction ends.
type memTx struct {
	id   int64
	held map[string]*sync.Mutex
}

func (t *memTx) lockUser(s *memStore, userID string) {
	if _, ok := t.held[userID]; ok {
		return
	}
	mu := s.userLock(userID)
	mu.Lock()
	t.held[userID] = mu
}

func (t *memTx) release() {
	for _, mu := range t.held {
		mu.Unlock()
	}
}

// MockTxManager serialises transactions and rolls the store back when fn fails.
// With Concurrent set, transactions interleave and only the user locks order
// them; rollback is not modelled in that mode.
type MockTxManager struct {
	store *memStore
	txMu  sync.Mutex
	seq   atomic.Int64

	Concurrent bool

	WithTxFunc        func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
	WithSavepointFunc func(ctx context.Context, tx repository.Tx, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager(store *memStore) *MockTxManager {
	return &MockTxManager{store: store}
}

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	tx := &memTx{id: m.seq.Add(1), held: map[string]*sync.Mutex{}}
	defer tx.release()
	if m.Concurrent {
		return fn(ctx, tx)
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()
	sn := m.store.snapshot()
	if err := fn(ctx, tx); err != nil {
		m.store.restore(sn)
		return err
	}
	return nil
}

func (m *MockTxManager) WithSavepoint(ctx context.Context, tx repository.Tx, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithSavepointFunc != nil {
		return m.WithSavepointFunc(ctx, tx, fn)
	}
	if _, ok := tx.(*memTx); !ok {
		return domain.ErrInvalidExecContext
	}
	sn := m.store.snapshot()
	if err := fn(ctx, tx); err != nil {
		m.store.restore(sn)
		return err
	}
	return nil
}

// =============================
// Repositories
// =============================

// ---- Users ----

type MockUserRepo struct {
	s *memStore

	LockFunc func(ctx context.Context, tx repository.Tx, userID string) error
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func (r *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = *u
	return nil
}

func (r *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.NotFound("user")
	}
	return &u, nil
}

func (r *MockUserRepo) Lock(ctx context.Context, tx repository.Tx, userID string) error {
	if r.LockFunc != nil {
		return r.LockFunc(ctx, tx, userID)
	}
	mt, ok := tx.(*memTx)
	if !ok {
		return domain.ErrInvalidExecContext
	}
	mt.lockUser(r.s, userID)
	return nil
}

func (r *MockUserRepo) UpdateRole(ctx context.Context, tx repository.Tx, userID string, role model.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.NotFound("user")
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	r.s.users[userID] = u
	return nil
}

func (r *MockUserRepo) ListAdminIDs(ctx context.Context, tx repository.Tx) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for id, u := range r.s.users {
		if u.Role == model.RoleAdmin {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ---- Plans ----

type MockPlanRepo struct {
	s *memStore
}

var _ repository.PlanRepository = (*MockPlanRepo)(nil)

func (r *MockPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.Plan) error {
	r.s.addPlan(p)
	return nil
}

func (r *MockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.plans[id]
	if !ok {
		return nil, domain.NotFound("plan")
	}
	return &p, nil
}

func (r *MockPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.Plan, 0, len(r.s.plans))
	for _, p := range r.s.plans {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

// ---- Payments ----

type MockPaymentRepo struct {
	s *memStore
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func (r *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[p.ID]; ok {
		return domain.Conflict(domain.ReasonNone, "duplicate payment %s", p.ID)
	}
	r.s.payments[p.ID] = *p
	return nil
}

func (r *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, domain.NotFound("payment")
	}
	return &p, nil
}

func (r *MockPaymentRepo) MarkConfirmed(ctx context.Context, tx repository.Tx, id string, start, end time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok || p.Status != model.PaymentStatusPending {
		return domain.Conflict(domain.ReasonStaleState, "payment changed concurrently")
	}
	p.Status = model.PaymentStatusConfirmed
	p.StartDate, p.EndDate = start, end
	p.UpdatedAt = time.Now()
	r.s.payments[id] = p
	return nil
}

func (r *MockPaymentRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, from, to model.PaymentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok || p.Status != from {
		return domain.Conflict(domain.ReasonStaleState, "payment changed concurrently")
	}
	p.Status = to
	p.UpdatedAt = time.Now()
	r.s.payments[id] = p
	return nil
}

func (r *MockPaymentRepo) SaveConfirmation(ctx context.Context, tx repository.Tx, c *model.PaymentConfirmation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.confirmations = append(r.s.confirmations, *c)
	return nil
}

// ---- Memberships ----

type MockMembershipRepo struct {
	s *memStore

	FindByIDFunc            func(ctx context.Context, tx repository.Tx, id string) (*model.Membership, error)
	ListOpenByUserFunc      func(ctx context.Context, tx repository.Tx, userID string) ([]*model.Membership, error)
	CompleteOtherActiveFunc func(ctx context.Context, tx repository.Tx, userID, keepID string) (int64, error)
}

var _ repository.MembershipRepository = (*MockMembershipRepo)(nil)

func (r *MockMembershipRepo) Save(ctx context.Context, tx repository.Tx, m *model.Membership) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.IsOpen() && r.s.openCountLocked(m.UserID, m.ID) > 0 {
		return domain.Conflict(domain.ReasonStaleState, "memberships_one_open_per_user")
	}
	r.s.memberships[m.ID] = *m
	return nil
}

func (r *MockMembershipRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Membership, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	return r.find(func(m model.Membership) bool { return m.ID == id })
}

func (r *MockMembershipRepo) FindByPaymentID(ctx context.Context, tx repository.Tx, paymentID string) (*model.Membership, error) {
	return r.find(func(m model.Membership) bool { return m.PaymentID == paymentID })
}

func (r *MockMembershipRepo) find(match func(model.Membership) bool) (*model.Membership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.memberships {
		if match(m) {
			m := m
			return &m, nil
		}
	}
	return nil, domain.NotFound("membership")
}

func (r *MockMembershipRepo) filter(match func(model.Membership) bool, less func(a, b *model.Membership) bool, limit int) []*model.Membership {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Membership
	for _, m := range r.s.memberships {
		if match(m) {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func byCreated(a, b *model.Membership) bool { return a.CreatedAt.Before(b.CreatedAt) }

func (r *MockMembershipRepo) ListOpenByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Membership, error) {
	if r.ListOpenByUserFunc != nil {
		return r.ListOpenByUserFunc(ctx, tx, userID)
	}
	return r.listOpen(userID), nil
}

func (r *MockMembershipRepo) listOpen(userID string) []*model.Membership {
	return r.filter(func(m model.Membership) bool { return m.UserID == userID && m.IsOpen() }, byCreated, 0)
}

func (r *MockMembershipRepo) CountOpenByUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	return r.s.openMemberships(userID), nil
}

func (r *MockMembershipRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, from, to model.MembershipStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.memberships[id]
	if !ok || m.Status != from {
		return domain.Conflict(domain.ReasonStaleState, "membership changed concurrently")
	}
	m.Status = to
	if m.IsOpen() && r.s.openCountLocked(m.UserID, m.ID) > 0 {
		return domain.Conflict(domain.ReasonStaleState, "memberships_one_open_per_user")
	}
	m.UpdatedAt = time.Now()
	r.s.memberships[id] = m
	return nil
}

func (r *MockMembershipRepo) Activate(ctx context.Context, tx repository.Tx, id string, start, end time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.memberships[id]
	if !ok || m.Status != model.MembershipStatusPending {
		return domain.Conflict(domain.ReasonStaleState, "membership changed concurrently")
	}
	m.Status = model.MembershipStatusActive
	m.StartDate, m.EndDate = start, end
	m.UpdatedAt = time.Now()
	r.s.memberships[id] = m
	return nil
}

func (r *MockMembershipRepo) CompleteOtherActive(ctx context.Context, tx repository.Tx, userID, keepID string) (int64, error) {
	if r.CompleteOtherActiveFunc != nil {
		return r.CompleteOtherActiveFunc(ctx, tx, userID, keepID)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, m := range r.s.memberships {
		if m.UserID == userID && id != keepID && m.Status == model.MembershipStatusActive {
			m.Status = model.MembershipStatusCompleted
			r.s.memberships[id] = m
			n++
		}
	}
	return n, nil
}

func (r *MockMembershipRepo) ListExpired(ctx context.Context, tx repository.Tx, now time.Time, limit int) ([]*model.Membership, error) {
	return r.filter(func(m model.Membership) bool { return m.IsLapsed(now) },
		func(a, b *model.Membership) bool { return a.EndDate.Before(b.EndDate) }, limit), nil
}

func (r *MockMembershipRepo) ListStalePending(ctx context.Context, tx repository.Tx, createdBefore time.Time, limit int) ([]*model.Membership, error) {
	return r.filter(func(m model.Membership) bool {
		return m.Status == model.MembershipStatusPending && m.CreatedAt.Before(createdBefore)
	}, byCreated, limit), nil
}

func (r *MockMembershipRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.MembershipStatus]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[model.MembershipStatus]int{}
	for _, m := range r.s.memberships {
		out[m.Status]++
	}
	return out, nil
}

// ---- Cancellations ----

type MockCancellationRepo struct {
	s *memStore
}

var _ repository.CancellationRepository = (*MockCancellationRepo)(nil)

func (r *MockCancellationRepo) Insert(ctx context.Context, tx repository.Tx, c *model.CancellationRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.cancellations {
		if existing.MembershipID == c.MembershipID && existing.Status == model.CancellationStatusPending {
			return domain.Conflict(domain.ReasonCancellationInProgress, "cancellation_requests_one_pending")
		}
	}
	r.s.cancellations[c.ID] = *c
	return nil
}

func (r *MockCancellationRepo) Update(ctx context.Context, tx repository.Tx, c *model.CancellationRequest, from model.CancellationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.cancellations[c.ID]
	if !ok || cur.Status != from {
		return domain.Conflict(domain.ReasonStaleState, "cancellation request changed concurrently")
	}
	r.s.cancellations[c.ID] = *c
	return nil
}

func (r *MockCancellationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.CancellationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cancellations[id]
	if !ok {
		return nil, domain.NotFound("cancellation request")
	}
	return &c, nil
}

func (r *MockCancellationRepo) FindPendingByMembership(ctx context.Context, tx repository.Tx, membershipID string) (*model.CancellationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.cancellations {
		if c.MembershipID == membershipID && c.Status == model.CancellationStatusPending {
			c := c
			return &c, nil
		}
	}
	return nil, domain.NotFound("cancellation request")
}

// ---- Notifications ----

type MockNotificationRepo struct {
	s *memStore

	SaveFunc func(ctx context.Context, tx repository.Tx, n *model.Notification) error
}

var _ repository.NotificationRepository = (*MockNotificationRepo)(nil)

func (r *MockNotificationRepo) Save(ctx context.Context, tx repository.Tx, n *model.Notification) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, n)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

// ---- Quit plans ----

type MockQuitPlanRepo struct {
	s *memStore

	ArchiveActiveByUserFunc func(ctx context.Context, tx repository.Tx, userID string, at time.Time) (int64, error)
}

var _ repository.QuitPlanRepository = (*MockQuitPlanRepo)(nil)

func (r *MockQuitPlanRepo) ArchiveActiveByUser(ctx context.Context, tx repository.Tx, userID string, at time.Time) (int64, error) {
	if r.ArchiveActiveByUserFunc != nil {
		return r.ArchiveActiveByUserFunc(ctx, tx, userID, at)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, q := range r.s.quitPlans {
		if q.UserID == userID && q.Status == model.QuitPlanStatusActive {
			q.Status = model.QuitPlanStatusArchived
			at := at
			q.ArchivedAt = &at
			r.s.quitPlans[id] = q
			n++
		}
	}
	return n, nil
}

// =============================
// Harness
// =============================

const (
	adminID  = "admin-1"
	memberID = "user-1"
	planID   = "plan-30"
)

type harness struct {
	store         *memStore
	tm            *MockTxManager
	users         *MockUserRepo
	memberships   *MockMembershipRepo
	notifications *MockNotificationRepo
	quitPlans     *MockQuitPlanRepo
	ledger        usecase.Ledger
}

// newHarness seeds one admin, one guest and a 30-day plan priced 200000.
func newHarness() *harness {
	s := newMemStore()
	h := &harness{
		store:         s,
		tm:            NewMockTxManager(s),
		users:         &MockUserRepo{s: s},
		memberships:   &MockMembershipRepo{s: s},
		notifications: &MockNotificationRepo{s: s},
		quitPlans:     &MockQuitPlanRepo{s: s},
	}
	h.ledger = usecase.Ledger{
		Users:         h.users,
		Plans:         &MockPlanRepo{s: s},
		Payments:      &MockPaymentRepo{s: s},
		Memberships:   h.memberships,
		Cancellations: &MockCancellationRepo{s: s},
		Notifications: h.notifications,
		QuitPlans:     h.quitPlans,
	}

	s.addUser(adminID, model.RoleAdmin)
	s.addUser(memberID, model.RoleGuest)
	plan, _ := model.NewPlan(planID, "Monthly coaching", 200000, 30, []string{"coach chat"})
	s.addPlan(plan)
	return h
}

func (h *harness) subscriptions() usecase.SubscriptionUseCase {
	return usecase.NewSubscriptionUseCase(h.ledger, h.tm, newTestLogger())
}

func (h *harness) cancellations() usecase.CancellationUseCase {
	return usecase.NewCancellationUseCase(h.ledger, h.tm, newTestLogger())
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
// It writes to io.Discard to prevent logs from cluttering test output.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
