package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-funding-api/internal/models"
	appErrors "github.com/noah-isme/campus-funding-api/pkg/errors"
)

// SnapshotStore is the persistence collaborator. The engine overwrites the
// whole blob after every mutating operation and reads it back once at
// startup.
type SnapshotStore interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Save(ctx context.Context, snap models.Snapshot) error
}

// Overview is the display-oriented read model of the current state.
// NextReview is the live top of the urgency queue without consuming it.
type Overview struct {
	Users            []models.User           `json:"users"`
	Students         []models.User           `json:"students"`
	Approved         []models.FundingRequest `json:"approved"`
	RequestsByAmount []models.FundingRequest `json:"requests_by_amount"`
	NextReview       *models.FundingRequest  `json:"next_review,omitempty"`
}

// Engine owns the in-memory request-management state: the user registry,
// the request store, and the three request views (amount index, urgency
// queue, approved queue). The request store is the single source of truth
// for status; the views hold the same record pointers, so a status change
// is visible through every structure immediately.
//
// A single mutex guards each operation end to end, snapshot write
// included; the four structures are updated as a group and must never be
// observed half-updated.
type Engine struct {
	mu sync.Mutex

	users    *UserRegistry
	requests map[string]*models.FundingRequest
	amounts  *AmountIndex
	urgency  *UrgencyQueue
	approved *ApprovedQueue
	nextSeq  int

	store  SnapshotStore
	logger *zap.Logger
}

// New creates an empty engine with the injected snapshot store.
func New(store SnapshotStore, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		users:    NewUserRegistry(),
		requests: make(map[string]*models.FundingRequest),
		amounts:  NewAmountIndex(),
		urgency:  NewUrgencyQueue(),
		approved: NewApprovedQueue(),
		nextSeq:  1,
		store:    store,
		logger:   logger,
	}
}

// Load reads the persisted snapshot and rebuilds all in-memory structures
// from it. A missing or unreadable snapshot starts the engine empty; that
// is not an error.
func (e *Engine) Load(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.store.Load(ctx)
	if err != nil {
		e.logger.Warn("snapshot load failed, starting empty", zap.Error(err))
		return
	}

	for _, u := range snap.Users {
		if _, err := e.users.Register(u.ID, u.Name, u.Role); err != nil {
			e.logger.Warn("skipping persisted user", zap.String("user_id", u.ID), zap.Error(err))
		}
	}

	// Creation order reproduces the amount index's tie order and keeps the
	// rebuilt queues deterministic.
	requests := append([]models.FundingRequest(nil), snap.Requests...)
	sort.Slice(requests, func(i, j int) bool {
		si, _ := requestSeq(requests[i].ID)
		sj, _ := requestSeq(requests[j].ID)
		if si != sj {
			return si < sj
		}
		return requests[i].ID < requests[j].ID
	})

	maxSeq := 0
	for i := range requests {
		req := requests[i]
		if req.ID == "" {
			continue
		}
		if _, dup := e.requests[req.ID]; dup {
			e.logger.Warn("skipping duplicate persisted request", zap.String("request_id", req.ID))
			continue
		}
		rec := req
		e.requests[rec.ID] = &rec
		e.amounts.Insert(&rec)
		switch rec.Status {
		case models.StatusSubmitted:
			e.urgency.Push(&rec)
		case models.StatusApproved:
			e.approved.Enqueue(&rec)
		}
		if seq, ok := requestSeq(rec.ID); ok && seq > maxSeq {
			maxSeq = seq
		}
	}
	e.nextSeq = maxSeq + 1

	e.logger.Info("state loaded",
		zap.Int("users", e.users.Len()),
		zap.Int("requests", len(e.requests)),
		zap.Int("pending", e.urgency.Len()),
		zap.Int("approved", e.approved.Len()),
		zap.Int("next_request_seq", e.nextSeq),
	)
}

// RegisterUser adds a user to the registry and persists on success.
func (e *Engine) RegisterUser(ctx context.Context, id, name string, role models.UserRole) (*models.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, err := e.users.Register(id, name, role)
	if err != nil {
		return nil, err
	}
	e.persist(ctx)
	return user, nil
}

// SubmitRequest creates a funding request for the student, inserts it into
// the request store, the amount index, and the urgency queue, then
// persists. Returns the created request.
func (e *Engine) SubmitRequest(ctx context.Context, studentID string, amount float64, urgency int) (*models.FundingRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.users.HasRole(studentID, models.RoleStudent) {
		return nil, appErrors.Clone(appErrors.ErrRole, "student not found or not a student")
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "amount must be a non-negative number")
	}

	req := &models.FundingRequest{
		ID:        fmt.Sprintf("R%d", e.nextSeq),
		StudentID: studentID,
		Amount:    amount,
		Urgency:   urgency,
		Status:    models.StatusSubmitted,
	}
	e.nextSeq++

	e.requests[req.ID] = req
	e.amounts.Insert(req)
	e.urgency.Push(req)
	e.persist(ctx)

	e.logger.Info("request submitted",
		zap.String("request_id", req.ID),
		zap.String("student_id", studentID),
		zap.Float64("amount", amount),
		zap.Int("urgency", urgency),
	)
	return req, nil
}

// ReviewNext pops the highest-urgency pending request for the admin to
// decide. Entries whose status changed since they were queued are skipped
// and discarded, so the caller always receives a live submitted request or
// the empty-queue error.
func (e *Engine) ReviewNext(ctx context.Context, adminID string) (*models.FundingRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.users.HasRole(adminID, models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrRole, "admin not found or not an admin")
	}

	for {
		req, ok := e.urgency.Pop()
		if !ok {
			return nil, appErrors.ErrEmptyQueue
		}
		cur, exists := e.requests[req.ID]
		if !exists || cur.Status != models.StatusSubmitted {
			// Stale entry, already decided through another path.
			continue
		}
		return cur, nil
	}
}

// Decide records the admin's decision on a submitted request. Approval
// moves it into the approved queue; rejection is terminal. The amount
// index keeps the record either way.
func (e *Engine) Decide(ctx context.Context, requestID string, approve bool) (*models.FundingRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	req, ok := e.requests[requestID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	if req.Status != models.StatusSubmitted {
		return nil, appErrors.Clone(appErrors.ErrConflict, "request already decided")
	}

	if approve {
		req.Status = models.StatusApproved
		e.approved.Enqueue(req)
	} else {
		req.Status = models.StatusRejected
	}
	e.persist(ctx)

	e.logger.Info("request decided",
		zap.String("request_id", req.ID),
		zap.Bool("approved", approve),
	)
	return req, nil
}

// Donate funds an approved request. The donation is all-or-nothing: an
// amount below the requested one changes no state and partial credit is
// never accumulated across attempts.
func (e *Engine) Donate(ctx context.Context, donorID, requestID string, amount float64) (*models.FundingRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.users.HasRole(donorID, models.RoleDonor) {
		return nil, appErrors.Clone(appErrors.ErrRole, "donor not found or not a donor")
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "donation amount must be a non-negative number")
	}

	req, ok := e.requests[requestID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	if req.Status != models.StatusApproved {
		return nil, appErrors.Clone(appErrors.ErrConflict, "request is not approved for funding")
	}
	if amount < req.Amount {
		return nil, appErrors.ErrInsufficientFunds
	}

	req.Status = models.StatusFunded
	e.approved.RemoveByID(req.ID)
	e.persist(ctx)

	e.logger.Info("request funded",
		zap.String("request_id", req.ID),
		zap.String("donor_id", donorID),
		zap.Float64("amount", amount),
	)
	return req, nil
}

// Overview assembles the display read model in one critical section.
func (e *Engine) Overview() Overview {
	e.mu.Lock()
	defer e.mu.Unlock()

	ov := Overview{
		Users:            e.users.All(),
		Students:         e.users.WithRole(models.RoleStudent),
		Approved:         copyRequests(e.approved.Snapshot()),
		RequestsByAmount: copyRequests(e.amounts.InOrder()),
	}
	if top, ok := e.peekLive(); ok {
		next := *top
		ov.NextReview = &next
	}
	return ov
}

// PendingByUrgency lists submitted requests ordered by urgency descending,
// ties in creation order. Non-destructive; built from the request store.
func (e *Engine) PendingByUrgency() []models.FundingRequest {
	e.mu.Lock()
	defer e.mu.Unlock()

	pending := make([]models.FundingRequest, 0)
	for _, req := range e.requests {
		if req.Status == models.StatusSubmitted {
			pending = append(pending, *req)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].Urgency != pending[j].Urgency {
			return pending[i].Urgency > pending[j].Urgency
		}
		si, _ := requestSeq(pending[i].ID)
		sj, _ := requestSeq(pending[j].ID)
		return si < sj
	})
	return pending
}

// Users returns all registered users.
func (e *Engine) Users() []models.User {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.users.All()
}

// Request returns a copy of the request record.
func (e *Engine) Request(id string) (models.FundingRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	req, ok := e.requests[id]
	if !ok {
		return models.FundingRequest{}, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	return *req, nil
}

// Snapshot captures the full persistable state.
func (e *Engine) Snapshot() models.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// peekLive returns the urgency-queue top after discarding stale entries.
// Discarding is safe: ReviewNext would skip them anyway.
func (e *Engine) peekLive() (*models.FundingRequest, bool) {
	for {
		top, ok := e.urgency.Peek()
		if !ok {
			return nil, false
		}
		cur, exists := e.requests[top.ID]
		if exists && cur.Status == models.StatusSubmitted {
			return cur, true
		}
		e.urgency.Pop()
	}
}

func (e *Engine) snapshotLocked() models.Snapshot {
	snap := models.Snapshot{
		Users:    e.users.All(),
		Requests: make([]models.FundingRequest, 0, len(e.requests)),
	}
	for _, req := range e.requests {
		snap.Requests = append(snap.Requests, *req)
	}
	sort.Slice(snap.Requests, func(i, j int) bool {
		si, _ := requestSeq(snap.Requests[i].ID)
		sj, _ := requestSeq(snap.Requests[j].ID)
		if si != sj {
			return si < sj
		}
		return snap.Requests[i].ID < snap.Requests[j].ID
	})
	return snap
}

// persist overwrites the snapshot blob. A write failure is surfaced as a
// warning only: the in-memory state stays authoritative for the running
// process.
func (e *Engine) persist(ctx context.Context) {
	if e.store == nil {
		return
	}
	if err := e.store.Save(ctx, e.snapshotLocked()); err != nil {
		e.logger.Warn("snapshot save failed, in-memory state remains authoritative", zap.Error(err))
	}
}

func copyRequests(in []*models.FundingRequest) []models.FundingRequest {
	out := make([]models.FundingRequest, 0, len(in))
	for _, req := range in {
		out = append(out, *req)
	}
	return out
}
