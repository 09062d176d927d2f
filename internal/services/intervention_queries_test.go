package services

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/domain/workflow"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
)

func newQueryFixture(t *testing.T) (InterventionQueryService, *types.Intervention, uuid.UUID, uuid.UUID) {
	t.Helper()

	manager := uuid.New()
	provider := uuid.New()
	lotID := uuid.New()
	iv := &types.Intervention{
		ID:        uuid.New(),
		LotID:     &lotID,
		Title:     "Leaking radiator",
		Status:    types.InterventionQuoteRequested,
		CreatedBy: uuid.New(),
	}

	interventions := newFakeInterventionRepo(iv)
	assignments := newFakeAssignmentRepo(
		&types.Assignment{InterventionID: iv.ID, UserID: manager, Role: types.RoleManager, ConfirmationStatus: types.ConfirmationNotRequired},
		&types.Assignment{InterventionID: iv.ID, UserID: provider, Role: types.RoleProvider, IsPrimary: true, ConfirmationStatus: types.ConfirmationNotRequired},
	)
	quotes := newFakeQuoteRepo(
		&types.Quote{InterventionID: iv.ID, ProviderID: provider, AmountCents: 12000, Status: types.QuotePending},
		&types.Quote{InterventionID: iv.ID, ProviderID: uuid.New(), AmountCents: 9000, Status: types.QuotePending},
	)
	comments := &fakeCommentRepo{}
	if _, err := comments.Create(dbctx.Context{}, []*types.InterventionComment{
		{InterventionID: iv.ID, AuthorID: manager, Body: "tenant is home after 17h"},
		{InterventionID: iv.ID, AuthorID: manager, Body: "owner disputes liability", Internal: true},
	}); err != nil {
		t.Fatalf("seed comments: %v", err)
	}
	activity := &fakeActivityLogRepo{}
	if err := activity.Insert(dbctx.Context{}, []*types.ActivityLogEntry{
		{EntityType: "intervention", EntityID: iv.ID, Action: "approved"},
	}); err != nil {
		t.Fatalf("seed activity: %v", err)
	}

	svc := NewInterventionQueryService(testLogger(), interventions, assignments, quotes, &fakeTimeSlotRepo{}, comments, activity)
	return svc, iv, manager, provider
}

func TestQueryGetManagerView(t *testing.T) {
	svc, iv, manager, _ := newQueryFixture(t)

	detail, err := svc.Get(actorCtx(manager, "manager"), iv.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !detail.Permissions.CanManageQuotes {
		t.Fatalf("permissions: %+v", detail.Permissions)
	}
	if len(detail.Quotes) != 2 {
		t.Fatalf("manager should see every quote, got %d", len(detail.Quotes))
	}
	if len(detail.Comments) != 2 {
		t.Fatalf("manager should see internal comments, got %d", len(detail.Comments))
	}
}

func TestQueryGetProviderView(t *testing.T) {
	svc, iv, _, provider := newQueryFixture(t)

	detail, err := svc.Get(actorCtx(provider, "provider"), iv.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(detail.Quotes) != 1 || detail.Quotes[0].ProviderID != provider {
		t.Fatalf("provider should only see their own quotes: %+v", detail.Quotes)
	}
	for _, cm := range detail.Comments {
		if cm.Internal {
			t.Fatalf("internal comment leaked to provider: %+v", cm)
		}
	}
}

func TestQueryGetStrangerForbidden(t *testing.T) {
	svc, iv, _, _ := newQueryFixture(t)

	if _, err := svc.Get(actorCtx(uuid.New(), "provider"), iv.ID); !workflow.IsCode(err, workflow.CodeForbidden) {
		t.Fatalf("stranger: want forbidden, got %v", err)
	}
}

func TestQueryActivityManagerOnly(t *testing.T) {
	svc, iv, manager, provider := newQueryFixture(t)

	rows, err := svc.Activity(actorCtx(manager, "manager"), iv.ID, 0)
	if err != nil {
		t.Fatalf("Activity: %v", err)
	}
	if len(rows) != 1 || rows[0].Action != "approved" {
		t.Fatalf("activity rows: %+v", rows)
	}

	if _, err := svc.Activity(actorCtx(provider, "provider"), iv.ID, 10); !workflow.IsCode(err, workflow.CodeForbidden) {
		t.Fatalf("provider: want forbidden, got %v", err)
	}
}

func TestQueryListByLotRequiresLot(t *testing.T) {
	svc, iv, manager, _ := newQueryFixture(t)

	rows, err := svc.ListByLot(actorCtx(manager, "manager"), *iv.LotID, nil)
	if err != nil {
		t.Fatalf("ListByLot: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows: %d", len(rows))
	}

	if _, err := svc.ListByLot(actorCtx(manager, "manager"), uuid.Nil, nil); !workflow.IsCode(err, workflow.CodeValidation) {
		t.Fatalf("nil lot: want validation, got %v", err)
	}
}
