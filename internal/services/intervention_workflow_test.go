package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/domain/workflow"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/ctxutil"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
)

func actorCtx(userID uuid.UUID, role string) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID, Role: role})
}

func newInterventionService(
	interventions *fakeInterventionRepo,
	assignments *fakeAssignmentRepo,
	comments *fakeCommentRepo,
	slots *fakeTimeSlotRepo,
	notifier *fakeNotifier,
	recorder *fakeRecorder,
) InterventionWorkflowService {
	return NewInterventionWorkflowService(testLogger(), fakeTxRunner{}, interventions, assignments, comments, slots, notifier, recorder, nil)
}

func TestInterventionRejectHappyPath(t *testing.T) {
	manager := uuid.New()
	tenant := uuid.New()
	iv := &types.Intervention{ID: uuid.New(), Status: types.InterventionPending, CreatedBy: tenant, Title: "leak"}

	interventions := newFakeInterventionRepo(iv)
	comments := &fakeCommentRepo{}
	notifier := &fakeNotifier{}
	recorder := &fakeRecorder{}
	svc := newInterventionService(interventions, newFakeAssignmentRepo(), comments, &fakeTimeSlotRepo{}, notifier, recorder)

	out, err := svc.Reject(actorCtx(manager, "manager"), RejectInterventionInput{
		InterventionID:  iv.ID,
		Reason:          "duplicate request",
		InternalComment: "see ticket from last week",
	})
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if out.Status != types.InterventionRejected {
		t.Fatalf("status: got %s", out.Status)
	}

	stored, _ := interventions.GetByID(dbctx.Context{}, iv.ID)
	if stored.Status != types.InterventionRejected {
		t.Fatalf("stored status: got %s", stored.Status)
	}

	all, _ := comments.ListByIntervention(dbctx.Context{}, iv.ID, true)
	if len(all) != 2 {
		t.Fatalf("comments: want 2 got %d", len(all))
	}
	public, _ := comments.ListByIntervention(dbctx.Context{}, iv.ID, false)
	if len(public) != 1 || public[0].Body != "duplicate request" {
		t.Fatalf("public comment: %+v", public)
	}

	if len(notifier.statusChanges) != 1 || notifier.statusChanges[0].Recipients[0] != tenant {
		t.Fatalf("tenant was not notified: %+v", notifier.statusChanges)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != "rejected" {
		t.Fatalf("activity trail: %+v", recorder.entries)
	}
}

func TestInterventionRejectRequiresPendingStatus(t *testing.T) {
	iv := &types.Intervention{ID: uuid.New(), Status: types.InterventionApproved, CreatedBy: uuid.New()}
	svc := newInterventionService(newFakeInterventionRepo(iv), newFakeAssignmentRepo(), &fakeCommentRepo{}, &fakeTimeSlotRepo{}, &fakeNotifier{}, &fakeRecorder{})

	_, err := svc.Reject(actorCtx(uuid.New(), "manager"), RejectInterventionInput{InterventionID: iv.ID, Reason: "nope"})
	if !workflow.IsCode(err, workflow.CodeInvalidState) {
		t.Fatalf("want invalid_state, got %v", err)
	}
}

func TestInterventionRejectValidation(t *testing.T) {
	iv := &types.Intervention{ID: uuid.New(), Status: types.InterventionPending, CreatedBy: uuid.New()}
	svc := newInterventionService(newFakeInterventionRepo(iv), newFakeAssignmentRepo(), &fakeCommentRepo{}, &fakeTimeSlotRepo{}, &fakeNotifier{}, &fakeRecorder{})

	if _, err := svc.Reject(actorCtx(uuid.New(), "manager"), RejectInterventionInput{InterventionID: iv.ID}); !workflow.IsCode(err, workflow.CodeValidation) {
		t.Fatalf("empty reason: want validation, got %v", err)
	}
	if _, err := svc.Reject(context.Background(), RejectInterventionInput{InterventionID: iv.ID, Reason: "x"}); !workflow.IsCode(err, workflow.CodeUnauthorized) {
		t.Fatalf("no actor: want unauthorized, got %v", err)
	}
	if _, err := svc.Reject(actorCtx(uuid.New(), "manager"), RejectInterventionInput{InterventionID: uuid.New(), Reason: "x"}); !workflow.IsCode(err, workflow.CodeNotFound) {
		t.Fatalf("missing row: want not_found, got %v", err)
	}
}

func TestInterventionCancelKeepsPreviousStatusInTrail(t *testing.T) {
	creator := uuid.New()
	provider := uuid.New()
	iv := &types.Intervention{ID: uuid.New(), Status: types.InterventionScheduled, CreatedBy: creator}

	assignments := newFakeAssignmentRepo(&types.Assignment{InterventionID: iv.ID, UserID: provider, Role: types.RoleProvider})
	notifier := &fakeNotifier{}
	recorder := &fakeRecorder{}
	svc := newInterventionService(newFakeInterventionRepo(iv), assignments, &fakeCommentRepo{}, &fakeTimeSlotRepo{}, notifier, recorder)

	out, err := svc.Cancel(actorCtx(creator, "manager"), CancelInterventionInput{InterventionID: iv.ID, Reason: "tenant moved out"})
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if out.Status != types.InterventionCancelled {
		t.Fatalf("status: got %s", out.Status)
	}

	if len(recorder.entries) != 1 {
		t.Fatalf("activity trail: %+v", recorder.entries)
	}
	entry := recorder.entries[0]
	if entry.FromStatus != string(types.InterventionScheduled) || entry.ToStatus != string(types.InterventionCancelled) {
		t.Fatalf("trail statuses: %+v", entry)
	}

	if len(notifier.statusChanges) != 1 || len(notifier.statusChanges[0].Recipients) != 2 {
		t.Fatalf("participants not notified: %+v", notifier.statusChanges)
	}

	// Terminal: cancelling again must fail.
	if _, err := svc.Cancel(actorCtx(creator, "manager"), CancelInterventionInput{InterventionID: iv.ID, Reason: "again"}); !workflow.IsCode(err, workflow.CodeInvalidState) {
		t.Fatalf("double cancel: want invalid_state, got %v", err)
	}
}

func TestInterventionCancelFromPendingRefused(t *testing.T) {
	iv := &types.Intervention{ID: uuid.New(), Status: types.InterventionPending, CreatedBy: uuid.New()}
	svc := newInterventionService(newFakeInterventionRepo(iv), newFakeAssignmentRepo(), &fakeCommentRepo{}, &fakeTimeSlotRepo{}, &fakeNotifier{}, &fakeRecorder{})

	if _, err := svc.Cancel(actorCtx(uuid.New(), "manager"), CancelInterventionInput{InterventionID: iv.ID, Reason: "x"}); !workflow.IsCode(err, workflow.CodeInvalidState) {
		t.Fatalf("pending cancel: want invalid_state, got %v", err)
	}
}

func TestAcceptSchedule(t *testing.T) {
	provider := uuid.New()
	manager := uuid.New()
	iv := &types.Intervention{ID: uuid.New(), Status: types.InterventionScheduling, CreatedBy: uuid.New()}

	assignments := newFakeAssignmentRepo(
		&types.Assignment{InterventionID: iv.ID, UserID: provider, Role: types.RoleProvider, IsPrimary: true},
		&types.Assignment{InterventionID: iv.ID, UserID: manager, Role: types.RoleManager},
	)
	slots := &fakeTimeSlotRepo{}
	start := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	_, _ = slots.Create(dbctx.Context{}, []*types.TimeSlot{
		{InterventionID: iv.ID, StartsAt: start.Add(-time.Hour), EndsAt: start, Selected: false},
		{InterventionID: iv.ID, StartsAt: start, EndsAt: start.Add(2 * time.Hour), Selected: true},
	})
	interventions := newFakeInterventionRepo(iv)
	notifier := &fakeNotifier{}
	svc := newInterventionService(interventions, assignments, &fakeCommentRepo{}, slots, notifier, &fakeRecorder{})

	// A non-primary participant cannot accept.
	if _, err := svc.AcceptSchedule(actorCtx(manager, "manager"), iv.ID); !workflow.IsCode(err, workflow.CodeForbidden) {
		t.Fatalf("manager accept: want forbidden, got %v", err)
	}

	out, err := svc.AcceptSchedule(actorCtx(provider, "provider"), iv.ID)
	if err != nil {
		t.Fatalf("AcceptSchedule: %v", err)
	}
	if out.Status != types.InterventionScheduled {
		t.Fatalf("status: got %s", out.Status)
	}
	if out.ScheduledDate == nil || !out.ScheduledDate.Equal(start) {
		t.Fatalf("scheduled date: got %v want %v", out.ScheduledDate, start)
	}

	stored, _ := interventions.GetByID(dbctx.Context{}, iv.ID)
	if stored.ScheduledDate == nil || !stored.ScheduledDate.Equal(start) {
		t.Fatalf("stored scheduled date: got %v", stored.ScheduledDate)
	}

	if len(notifier.statusChanges) != 1 || notifier.statusChanges[0].Recipients[0] != manager {
		t.Fatalf("manager not notified: %+v", notifier.statusChanges)
	}
}

func TestAcceptScheduleNeedsSelectedSlot(t *testing.T) {
	provider := uuid.New()
	iv := &types.Intervention{ID: uuid.New(), Status: types.InterventionScheduling, CreatedBy: uuid.New()}
	assignments := newFakeAssignmentRepo(&types.Assignment{InterventionID: iv.ID, UserID: provider, Role: types.RoleProvider, IsPrimary: true})
	svc := newInterventionService(newFakeInterventionRepo(iv), assignments, &fakeCommentRepo{}, &fakeTimeSlotRepo{}, &fakeNotifier{}, &fakeRecorder{})

	if _, err := svc.AcceptSchedule(actorCtx(provider, "provider"), iv.ID); !workflow.IsCode(err, workflow.CodeNotFound) {
		t.Fatalf("no slot: want not_found, got %v", err)
	}
}
