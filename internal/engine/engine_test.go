package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-funding-api/internal/models"
	appErrors "github.com/noah-isme/campus-funding-api/pkg/errors"
)

type memStore struct {
	snap    models.Snapshot
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(_ context.Context) (models.Snapshot, error) {
	if m.loadErr != nil {
		return models.Snapshot{}, m.loadErr
	}
	return m.snap, nil
}

func (m *memStore) Save(_ context.Context, snap models.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = snap
	m.saves++
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *memStore) {
	t.Helper()
	st := &memStore{}
	return New(st, nil), st
}

func registerTrio(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	_, err := e.RegisterUser(ctx, "s1", "Ana", models.RoleStudent)
	require.NoError(t, err)
	_, err = e.RegisterUser(ctx, "a1", "Bo", models.RoleAdmin)
	require.NoError(t, err)
	_, err = e.RegisterUser(ctx, "d1", "Cy", models.RoleDonor)
	require.NoError(t, err)
}

func TestEngineFullLifecycle(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	registerTrio(t, e)

	r1, err := e.SubmitRequest(ctx, "s1", 100, 5)
	require.NoError(t, err)
	assert.Equal(t, "R1", r1.ID)

	r2, err := e.SubmitRequest(ctx, "s1", 50, 9)
	require.NoError(t, err)
	assert.Equal(t, "R2", r2.ID)

	next, err := e.ReviewNext(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "R2", next.ID)

	approved, err := e.Decide(ctx, "R2", true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)

	funded, err := e.Donate(ctx, "d1", "R2", 50)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFunded, funded.Status)

	ov := e.Overview()
	assert.Empty(t, ov.Approved)

	next, err = e.ReviewNext(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "R1", next.ID)

	rejected, err := e.Decide(ctx, "R1", false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)

	ov = e.Overview()
	require.Len(t, ov.RequestsByAmount, 2)
	assert.Equal(t, "R2", ov.RequestsByAmount[0].ID)
	assert.InDelta(t, 50, ov.RequestsByAmount[0].Amount, 1e-9)
	assert.Equal(t, "R1", ov.RequestsByAmount[1].ID)
	assert.InDelta(t, 100, ov.RequestsByAmount[1].Amount, 1e-9)
	assert.Nil(t, ov.NextReview)
}

func TestSubmitRequiresStudent(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	registerTrio(t, e)

	_, err := e.SubmitRequest(ctx, "a1", 100, 5)
	assert.True(t, appErrors.Is(err, appErrors.ErrRole))

	_, err = e.SubmitRequest(ctx, "ghost", 100, 5)
	assert.True(t, appErrors.Is(err, appErrors.ErrRole))
}

func TestSubmitRejectsNegativeAmount(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	registerTrio(t, e)

	_, err := e.SubmitRequest(ctx, "s1", -1, 5)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, e.PendingByUrgency())
}

func TestSubmitAllowsZeroAmount(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	registerTrio(t, e)

	r, err := e.SubmitRequest(ctx, "s1", 0, 3)
	require.NoError(t, err)
	assert.Zero(t, r.Amount)
}

func TestReviewNextRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	registerTrio(t, e)

	_, err := e.ReviewNext(ctx, "s1")
	assert.True(t, appErrors.Is(err, appErrors.ErrRole))
}

func TestReviewNextEmptyQueue(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	registerTrio(t, e)

	_, err := e.ReviewNext(ctx, "a1")
	assert.True(t, appErrors.Is(err, appErrors.ErrEmptyQueue))
}

func TestReviewNextSkipsDecidedEntries(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	registerTrio(t, e)

	_, err := e.SubmitRequest(ctx, "s1", 100, 5) // R1
	require.NoError(t, err)
	_, err = e.SubmitRequest(ctx, "s1", 50, 9) // R2
	require.NoError(t, err)

	// R2 is decided directly while still sitting in the urgency queue.
	_, err = e.Decide(ctx, "R2", true)
	require.NoError(t, err)

	next, err := e.ReviewNext(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "R1", next.ID)

	_, err = e.Decide(ctx, "R1", false)
	require.NoError(t, err)

	_, err = e.ReviewNext(ctx, "a1")
	assert.True(t, appErrors.Is(err, appErrors.ErrEmptyQueue))
}

func TestDecideMissingRequest(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	registerTrio(t, e)

	_, err := e.Decide(ctx, "R404", true)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestDecideTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	registerTrio(t, e)

	_, err := e.SubmitRequest(ctx, "s1", 100, 5)
	require.NoError(t, err)
	_, err = e.Decide(ctx, "R1", true)
	require.NoError(t, err)

	_, err = e.Decide(ctx, "R1", false)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))

	got, err := e.Request("R1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
}

func TestDonateInsufficientChangesNothing(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	registerTrio(t, e)

	_, err := e.SubmitRequest(ctx, "s1", 100, 5)
	require.NoError(t, err)
	_, err = e.Decide(ctx, "R1", true)
	require.NoError(t, err)

	_, err = e.Donate(ctx, "d1", "R1", 99.99)
	assert.True(t, appErrors.Is(err, appErrors.ErrInsufficientFunds))

	got, err := e.Request("R1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)

	ov := e.Overview()
	require.Len(t, ov.Approved, 1)
	assert.Equal(t, "R1", ov.Approved[0].ID)

	// Attempts never accumulate: the same shortfall fails again.
	_, err = e.Donate(ctx, "d1", "R1", 0.01)
	assert.True(t, appErrors.Is(err, appErrors.ErrInsufficientFunds))
}

func TestDonateExactAmountFunds(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	registerTrio(t, e)

	_, err := e.SubmitRequest(ctx, "s1", 100, 5)
	require.NoError(t, err)
	_, err = e.Decide(ctx, "R1", true)
	require.NoError(t, err)

	funded, err := e.Donate(ctx, "d1", "R1", 100)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFunded, funded.Status)
	assert.Empty(t, e.Overview().Approved)
}

func TestDonateRequiresApprovedStatus(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	registerTrio(t, e)

	_, err := e.SubmitRequest(ctx, "s1", 100, 5)
	require.NoError(t, err)

	_, err = e.Donate(ctx, "d1", "R1", 100)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestDonateRequiresDonor(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	registerTrio(t, e)

	_, err := e.SubmitRequest(ctx, "s1", 100, 5)
	require.NoError(t, err)
	_, err = e.Decide(ctx, "R1", true)
	require.NoError(t, err)

	_, err = e.Donate(ctx, "s1", "R1", 100)
	assert.True(t, appErrors.Is(err, appErrors.ErrRole))
}

func TestPendingByUrgencyOrdering(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	registerTrio(t, e)

	_, err := e.SubmitRequest(ctx, "s1", 10, 3) // R1
	require.NoError(t, err)
	_, err = e.SubmitRequest(ctx, "s1", 20, 7) // R2
	require.NoError(t, err)
	_, err = e.SubmitRequest(ctx, "s1", 30, 7) // R3
	require.NoError(t, err)

	pending := e.PendingByUrgency()
	require.Len(t, pending, 3)
	assert.Equal(t, "R2", pending[0].ID)
	assert.Equal(t, "R3", pending[1].ID)
	assert.Equal(t, "R1", pending[2].ID)

	// Listing must not consume the review queue.
	next, err := e.ReviewNext(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "R2", next.ID)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)
	registerTrio(t, e)

	_, err := e.SubmitRequest(ctx, "s1", 100, 5) // R1
	require.NoError(t, err)
	_, err = e.SubmitRequest(ctx, "s1", 50, 9) // R2
	require.NoError(t, err)
	_, err = e.Decide(ctx, "R2", true)
	require.NoError(t, err)

	restored := New(st, nil)
	restored.Load(ctx)

	ov := restored.Overview()
	assert.Len(t, ov.Users, 3)
	require.Len(t, ov.RequestsByAmount, 2)
	assert.Equal(t, "R2", ov.RequestsByAmount[0].ID)
	require.Len(t, ov.Approved, 1)
	assert.Equal(t, "R2", ov.Approved[0].ID)
	require.NotNil(t, ov.NextReview)
	assert.Equal(t, "R1", ov.NextReview.ID)

	// The id counter resumes past the highest persisted suffix.
	r3, err := restored.SubmitRequest(ctx, "s1", 25, 1)
	require.NoError(t, err)
	assert.Equal(t, "R3", r3.ID)
}

func TestLoadResumesCounterAcrossGaps(t *testing.T) {
	ctx := context.Background()
	st := &memStore{snap: models.Snapshot{
		Users: []models.User{{ID: "s1", Name: "Ana", Role: models.RoleStudent}},
		Requests: []models.FundingRequest{
			{ID: "R2", StudentID: "s1", Amount: 10, Urgency: 1, Status: models.StatusSubmitted},
			{ID: "R7", StudentID: "s1", Amount: 20, Urgency: 2, Status: models.StatusFunded},
		},
	}}

	e := New(st, nil)
	e.Load(ctx)

	r, err := e.SubmitRequest(ctx, "s1", 5, 1)
	require.NoError(t, err)
	assert.Equal(t, "R8", r.ID)
}

func TestLoadSkipsMalformedRecords(t *testing.T) {
	ctx := context.Background()
	st := &memStore{snap: models.Snapshot{
		Users: []models.User{
			{ID: "s1", Name: "Ana", Role: models.RoleStudent},
			{ID: "s1", Name: "Dup", Role: models.RoleStudent},
			{ID: "", Name: "Nameless", Role: models.RoleStudent},
		},
		Requests: []models.FundingRequest{
			{ID: "R1", StudentID: "s1", Amount: 10, Urgency: 1, Status: models.StatusSubmitted},
			{ID: "R1", StudentID: "s1", Amount: 99, Urgency: 9, Status: models.StatusSubmitted},
			{ID: "", StudentID: "s1", Amount: 5, Urgency: 1, Status: models.StatusSubmitted},
		},
	}}

	e := New(st, nil)
	e.Load(ctx)

	ov := e.Overview()
	assert.Len(t, ov.Users, 1)
	require.Len(t, ov.RequestsByAmount, 1)
	assert.InDelta(t, 10, ov.RequestsByAmount[0].Amount, 1e-9)
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	ctx := context.Background()
	st := &memStore{loadErr: errors.New("backend down")}

	e := New(st, nil)
	e.Load(ctx)

	registerTrio(t, e)
	r, err := e.SubmitRequest(ctx, "s1", 10, 1)
	require.NoError(t, err)
	assert.Equal(t, "R1", r.ID)
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	st := &memStore{saveErr: errors.New("disk full")}
	e := New(st, nil)

	_, err := e.RegisterUser(ctx, "s1", "Ana", models.RoleStudent)
	require.NoError(t, err)

	r, err := e.SubmitRequest(ctx, "s1", 10, 1)
	require.NoError(t, err)

	got, err := e.Request(r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, got.Status)
}

func TestMutationsPersistSnapshot(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)
	registerTrio(t, e)
	require.Equal(t, 3, st.saves)

	_, err := e.SubmitRequest(ctx, "s1", 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, st.saves)
	require.Len(t, st.snap.Requests, 1)
	assert.Equal(t, "R1", st.snap.Requests[0].ID)
}
