package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

func testLogger() *logger.Logger {
	log, _ := logger.New("test")
	return log
}

// fakeTxRunner runs the function directly; rollback semantics are covered by
// the repo integration tests.
type fakeTxRunner struct{}

func (fakeTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// ---- intervention repo ----

type fakeInterventionRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*types.Intervention
}

func newFakeInterventionRepo(rows ...*types.Intervention) *fakeInterventionRepo {
	r := &fakeInterventionRepo{rows: map[uuid.UUID]*types.Intervention{}}
	for _, row := range rows {
		r.rows[row.ID] = row
	}
	return r
}

func (r *fakeInterventionRepo) Create(_ dbctx.Context, rows []*types.Intervention) ([]*types.Intervention, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		r.rows[row.ID] = row
	}
	return rows, nil
}

func (r *fakeInterventionRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Intervention, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeInterventionRepo) ListByLot(_ dbctx.Context, lotID uuid.UUID, statuses []string) ([]*types.Intervention, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.Intervention
	for _, row := range r.rows {
		if row.LotID == nil || *row.LotID != lotID {
			continue
		}
		if len(statuses) > 0 && !contains(statuses, string(row.Status)) {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeInterventionRepo) ListByParent(_ dbctx.Context, parentID uuid.UUID) ([]*types.Intervention, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.Intervention
	for _, row := range r.rows {
		if row.ParentInterventionID != nil && *row.ParentInterventionID == parentID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInterventionRepo) UpdateStatusGuarded(_ dbctx.Context, id uuid.UUID, next types.InterventionStatus, expected []string, extra map[string]any) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || !contains(expected, string(row.Status)) {
		return false, nil
	}
	row.Status = next
	if v, ok := extra["scheduled_date"]; ok {
		if t, ok := v.(time.Time); ok {
			row.ScheduledDate = &t
		}
	}
	return true, nil
}

// ---- quote repo ----

type fakeQuoteRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*types.Quote
}

func newFakeQuoteRepo(rows ...*types.Quote) *fakeQuoteRepo {
	r := &fakeQuoteRepo{rows: map[uuid.UUID]*types.Quote{}}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		r.rows[row.ID] = row
	}
	return r
}

func (r *fakeQuoteRepo) Create(_ dbctx.Context, rows []*types.Quote) ([]*types.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		r.rows[row.ID] = row
	}
	return rows, nil
}

func (r *fakeQuoteRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeQuoteRepo) ListByIntervention(_ dbctx.Context, interventionID uuid.UUID) ([]*types.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.Quote
	for _, row := range r.rows {
		if row.InterventionID == interventionID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeQuoteRepo) UpdateStatusGuarded(_ dbctx.Context, id uuid.UUID, next types.QuoteStatus, expected []string, extra map[string]any) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || !contains(expected, string(row.Status)) {
		return false, nil
	}
	row.Status = next
	if v, ok := extra["rejection_reason"].(string); ok {
		row.RejectionReason = v
	}
	if v, ok := extra["validated_by"].(uuid.UUID); ok {
		row.ValidatedBy = &v
	}
	if v, ok := extra["validated_at"].(time.Time); ok {
		row.ValidatedAt = &v
	}
	return true, nil
}

func (r *fakeQuoteRepo) BulkRejectOthers(_ dbctx.Context, interventionID, excludeID uuid.UUID, expected []string, reason string, rejectedBy uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := time.Now().UTC()
	for _, row := range r.rows {
		if row.InterventionID != interventionID || row.ID == excludeID {
			continue
		}
		if !contains(expected, string(row.Status)) {
			continue
		}
		row.Status = types.QuoteRejected
		row.RejectionReason = reason
		by := rejectedBy
		row.ValidatedBy = &by
		row.ValidatedAt = &now
		n++
	}
	return n, nil
}

func (r *fakeQuoteRepo) ReassignProviderQuotes(_ dbctx.Context, fromInterventionID, providerID, toInterventionID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.InterventionID == fromInterventionID && row.ProviderID == providerID {
			row.InterventionID = toInterventionID
			n++
		}
	}
	return n, nil
}

// ---- assignment repo ----

type fakeAssignmentRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*types.Assignment
}

func newFakeAssignmentRepo(rows ...*types.Assignment) *fakeAssignmentRepo {
	r := &fakeAssignmentRepo{rows: map[uuid.UUID]*types.Assignment{}}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		r.rows[row.ID] = row
	}
	return r
}

func (r *fakeAssignmentRepo) Create(_ dbctx.Context, rows []*types.Assignment) ([]*types.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		r.rows[row.ID] = row
	}
	return rows, nil
}

func (r *fakeAssignmentRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeAssignmentRepo) ListByIntervention(_ dbctx.Context, interventionID uuid.UUID) ([]*types.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.Assignment
	for _, row := range r.rows {
		if row.InterventionID == interventionID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) GetForUser(_ dbctx.Context, interventionID, userID uuid.UUID) (*types.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.InterventionID == interventionID && row.UserID == userID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAssignmentRepo) UpdateConfirmationGuarded(_ dbctx.Context, id uuid.UUID, next types.ConfirmationStatus, expected []string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || !contains(expected, string(row.ConfirmationStatus)) {
		return false, nil
	}
	row.ConfirmationStatus = next
	return true, nil
}

// ---- comment repo ----

type fakeCommentRepo struct {
	mu   sync.Mutex
	rows []*types.InterventionComment
}

func (r *fakeCommentRepo) Create(_ dbctx.Context, rows []*types.InterventionComment) ([]*types.InterventionComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		r.rows = append(r.rows, row)
	}
	return rows, nil
}

func (r *fakeCommentRepo) ListByIntervention(_ dbctx.Context, interventionID uuid.UUID, includeInternal bool) ([]*types.InterventionComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.InterventionComment
	for _, row := range r.rows {
		if row.InterventionID != interventionID {
			continue
		}
		if row.Internal && !includeInternal {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeCommentRepo) ReassignProviderComments(_ dbctx.Context, fromInterventionID, providerID, toInterventionID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.InterventionID == fromInterventionID && row.RecipientID != nil && *row.RecipientID == providerID {
			row.InterventionID = toInterventionID
			n++
		}
	}
	return n, nil
}

// ---- time slot repo ----

type fakeTimeSlotRepo struct {
	mu   sync.Mutex
	rows []*types.TimeSlot
}

func (r *fakeTimeSlotRepo) Create(_ dbctx.Context, rows []*types.TimeSlot) ([]*types.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		r.rows = append(r.rows, row)
	}
	return rows, nil
}

func (r *fakeTimeSlotRepo) ListByIntervention(_ dbctx.Context, interventionID uuid.UUID) ([]*types.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.TimeSlot
	for _, row := range r.rows {
		if row.InterventionID == interventionID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeTimeSlotRepo) ReassignProviderSlots(_ dbctx.Context, fromInterventionID, providerID, toInterventionID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.InterventionID == fromInterventionID && row.ProviderID != nil && *row.ProviderID == providerID {
			row.InterventionID = toInterventionID
			n++
		}
	}
	return n, nil
}

// ---- lot repo ----

type fakeLotRepo struct {
	lots     map[uuid.UUID]*types.Lot
	managers map[uuid.UUID][]uuid.UUID
}

func (r *fakeLotRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Lot, error) {
	if r.lots == nil {
		return nil, nil
	}
	return r.lots[id], nil
}

func (r *fakeLotRepo) ListManagerIDs(_ dbctx.Context, lotID uuid.UUID) ([]uuid.UUID, error) {
	if r.managers == nil {
		return nil, nil
	}
	return r.managers[lotID], nil
}

// ---- activity log repo ----

type fakeActivityLogRepo struct {
	mu   sync.Mutex
	rows []*types.ActivityLogEntry
}

func (r *fakeActivityLogRepo) Insert(_ dbctx.Context, rows []*types.ActivityLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, rows...)
	return nil
}

func (r *fakeActivityLogRepo) ListByEntity(_ dbctx.Context, entityType string, entityID uuid.UUID, limit int) ([]*types.ActivityLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.ActivityLogEntry
	for _, row := range r.rows {
		if row.EntityType != entityType || row.EntityID != entityID {
			continue
		}
		out = append(out, row)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// ---- notifier / recorder ----

type notifierCall struct {
	Kind       string
	Recipients []uuid.UUID
}

type fakeNotifier struct {
	mu            sync.Mutex
	calls         []notifierCall
	statusChanges []notifierCall
	rejected      []uuid.UUID
}

func (n *fakeNotifier) NotifyUsers(_ context.Context, userIDs []uuid.UUID, kind, _, _ string, _ map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifierCall{Kind: kind, Recipients: userIDs})
}

func (n *fakeNotifier) StatusChanged(_ context.Context, _ *types.Intervention, _, to types.InterventionStatus, recipients []uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statusChanges = append(n.statusChanges, notifierCall{Kind: string(to), Recipients: recipients})
}

func (n *fakeNotifier) QuoteRejected(_ context.Context, q *types.Quote, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejected = append(n.rejected, q.ProviderID)
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []ActivityEntry
}

func (r *fakeRecorder) Record(_ context.Context, entry ActivityEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}
