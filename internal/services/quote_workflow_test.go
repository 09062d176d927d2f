package services

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/domain/workflow"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
)

func newQuoteService(
	quotes *fakeQuoteRepo,
	interventions *fakeInterventionRepo,
	assignments *fakeAssignmentRepo,
	lots *fakeLotRepo,
	notifier *fakeNotifier,
	recorder *fakeRecorder,
) QuoteWorkflowService {
	if lots == nil {
		lots = &fakeLotRepo{}
	}
	return NewQuoteWorkflowService(testLogger(), fakeTxRunner{}, quotes, interventions, assignments, lots, notifier, recorder, nil)
}

func TestQuoteSubmit(t *testing.T) {
	provider := uuid.New()
	iv := &types.Intervention{ID: uuid.New(), Status: types.InterventionQuoteRequested, CreatedBy: uuid.New()}
	assignments := newFakeAssignmentRepo(&types.Assignment{InterventionID: iv.ID, UserID: provider, Role: types.RoleProvider})
	quotes := newFakeQuoteRepo()
	svc := newQuoteService(quotes, newFakeInterventionRepo(iv), assignments, nil, &fakeNotifier{}, &fakeRecorder{})

	q, err := svc.Submit(actorCtx(provider, "provider"), SubmitQuoteInput{
		InterventionID: iv.ID,
		AmountCents:    25000,
		Description:    "replace the valve",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if q.Status != types.QuotePending || q.Currency != "EUR" || q.ProviderID != provider {
		t.Fatalf("quote: %+v", q)
	}

	// Unassigned users cannot bid.
	if _, err := svc.Submit(actorCtx(uuid.New(), "provider"), SubmitQuoteInput{InterventionID: iv.ID, AmountCents: 100}); !workflow.IsCode(err, workflow.CodeForbidden) {
		t.Fatalf("stranger submit: want forbidden, got %v", err)
	}
	if _, err := svc.Submit(actorCtx(provider, "provider"), SubmitQuoteInput{InterventionID: iv.ID, AmountCents: 0}); !workflow.IsCode(err, workflow.CodeValidation) {
		t.Fatalf("zero amount: want validation, got %v", err)
	}
}

func TestQuoteSubmitOutsideCollectionWindow(t *testing.T) {
	provider := uuid.New()
	iv := &types.Intervention{ID: uuid.New(), Status: types.InterventionScheduling, CreatedBy: uuid.New()}
	assignments := newFakeAssignmentRepo(&types.Assignment{InterventionID: iv.ID, UserID: provider, Role: types.RoleProvider})
	svc := newQuoteService(newFakeQuoteRepo(), newFakeInterventionRepo(iv), assignments, nil, &fakeNotifier{}, &fakeRecorder{})

	if _, err := svc.Submit(actorCtx(provider, "provider"), SubmitQuoteInput{InterventionID: iv.ID, AmountCents: 100}); !workflow.IsCode(err, workflow.CodeInvalidState) {
		t.Fatalf("want invalid_state, got %v", err)
	}
}

func TestQuoteApproveSettlesCompetition(t *testing.T) {
	manager := uuid.New()
	iv := &types.Intervention{ID: uuid.New(), Status: types.InterventionQuoteRequested, CreatedBy: uuid.New()}

	winner := &types.Quote{ID: uuid.New(), InterventionID: iv.ID, ProviderID: uuid.New(), Status: types.QuotePending}
	loser1 := &types.Quote{ID: uuid.New(), InterventionID: iv.ID, ProviderID: uuid.New(), Status: types.QuoteSent}
	loser2 := &types.Quote{ID: uuid.New(), InterventionID: iv.ID, ProviderID: uuid.New(), Status: types.QuoteStatus("en_attente")}
	alreadyCancelled := &types.Quote{ID: uuid.New(), InterventionID: iv.ID, ProviderID: uuid.New(), Status: types.QuoteCancelled}

	quotes := newFakeQuoteRepo(winner, loser1, loser2, alreadyCancelled)
	interventions := newFakeInterventionRepo(iv)
	assignments := newFakeAssignmentRepo(&types.Assignment{InterventionID: iv.ID, UserID: manager, Role: types.RoleManager})
	notifier := &fakeNotifier{}
	recorder := &fakeRecorder{}
	svc := newQuoteService(quotes, interventions, assignments, nil, notifier, recorder)

	out, err := svc.Approve(actorCtx(manager, "manager"), winner.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if out.Status != types.QuoteAccepted || out.ValidatedBy == nil || *out.ValidatedBy != manager {
		t.Fatalf("winner: %+v", out)
	}

	storedIv, _ := interventions.GetByID(dbctx.Context{}, iv.ID)
	if storedIv.Status != types.InterventionScheduling {
		t.Fatalf("intervention status: got %s", storedIv.Status)
	}

	all, _ := quotes.ListByIntervention(dbctx.Context{}, iv.ID)
	for _, q := range all {
		switch q.ID {
		case winner.ID:
			if q.Status != types.QuoteAccepted {
				t.Fatalf("winner stored status: %s", q.Status)
			}
		case alreadyCancelled.ID:
			if q.Status != types.QuoteCancelled {
				t.Fatalf("cancelled quote must stay cancelled: %s", q.Status)
			}
		default:
			if q.Status != types.QuoteRejected || q.RejectionReason != RejectionReasonOutbid {
				t.Fatalf("loser %s: %+v", q.ID, q)
			}
		}
	}

	if len(notifier.rejected) != 2 {
		t.Fatalf("rejected providers notified: %v", notifier.rejected)
	}
}

func TestQuoteApproveGuards(t *testing.T) {
	manager := uuid.New()
	iv := &types.Intervention{ID: uuid.New(), Status: types.InterventionQuoteRequested, CreatedBy: uuid.New()}
	resolved := &types.Quote{ID: uuid.New(), InterventionID: iv.ID, ProviderID: uuid.New(), Status: types.QuoteRejected}
	assignments := newFakeAssignmentRepo(&types.Assignment{InterventionID: iv.ID, UserID: manager, Role: types.RoleManager})
	svc := newQuoteService(newFakeQuoteRepo(resolved), newFakeInterventionRepo(iv), assignments, nil, &fakeNotifier{}, &fakeRecorder{})

	if _, err := svc.Approve(actorCtx(manager, "manager"), resolved.ID); !workflow.IsCode(err, workflow.CodeInvalidState) {
		t.Fatalf("resolved quote: want invalid_state, got %v", err)
	}
	if _, err := svc.Approve(actorCtx(uuid.New(), "tenant"), resolved.ID); !workflow.IsCode(err, workflow.CodeForbidden) {
		t.Fatalf("non manager: want forbidden, got %v", err)
	}
	if _, err := svc.Approve(actorCtx(manager, "manager"), uuid.New()); !workflow.IsCode(err, workflow.CodeNotFound) {
		t.Fatalf("missing quote: want not_found, got %v", err)
	}
}

func TestQuoteApproveLotManagerAllowed(t *testing.T) {
	lotID := uuid.New()
	lotManager := uuid.New()
	iv := &types.Intervention{ID: uuid.New(), Status: types.InterventionQuoteRequested, LotID: &lotID, CreatedBy: uuid.New()}
	quote := &types.Quote{ID: uuid.New(), InterventionID: iv.ID, ProviderID: uuid.New(), Status: types.QuotePending}

	lots := &fakeLotRepo{managers: map[uuid.UUID][]uuid.UUID{lotID: {lotManager}}}
	svc := newQuoteService(newFakeQuoteRepo(quote), newFakeInterventionRepo(iv), newFakeAssignmentRepo(), lots, &fakeNotifier{}, &fakeRecorder{})

	if _, err := svc.Approve(actorCtx(lotManager, "manager"), quote.ID); err != nil {
		t.Fatalf("lot manager approve: %v", err)
	}
}

func TestQuoteRejectSingle(t *testing.T) {
	manager := uuid.New()
	iv := &types.Intervention{ID: uuid.New(), Status: types.InterventionQuoteRequested, CreatedBy: uuid.New()}
	quote := &types.Quote{ID: uuid.New(), InterventionID: iv.ID, ProviderID: uuid.New(), Status: types.QuotePending}
	other := &types.Quote{ID: uuid.New(), InterventionID: iv.ID, ProviderID: uuid.New(), Status: types.QuotePending}

	quotes := newFakeQuoteRepo(quote, other)
	assignments := newFakeAssignmentRepo(&types.Assignment{InterventionID: iv.ID, UserID: manager, Role: types.RoleManager})
	notifier := &fakeNotifier{}
	svc := newQuoteService(quotes, newFakeInterventionRepo(iv), assignments, nil, notifier, &fakeRecorder{})

	out, err := svc.Reject(actorCtx(manager, "manager"), RejectQuoteInput{QuoteID: quote.ID, Reason: "too expensive"})
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if out.Status != types.QuoteRejected || out.RejectionReason != "too expensive" {
		t.Fatalf("quote: %+v", out)
	}

	// Competitors are untouched by a single rejection.
	stored, _ := quotes.GetByID(dbctx.Context{}, other.ID)
	if stored.Status != types.QuotePending {
		t.Fatalf("competitor status: %s", stored.Status)
	}

	if len(notifier.rejected) != 1 || notifier.rejected[0] != quote.ProviderID {
		t.Fatalf("provider not notified: %v", notifier.rejected)
	}

	if _, err := svc.Reject(actorCtx(manager, "manager"), RejectQuoteInput{QuoteID: quote.ID, Reason: "again"}); !workflow.IsCode(err, workflow.CodeInvalidState) {
		t.Fatalf("double reject: want invalid_state, got %v", err)
	}
}

func TestQuoteCancelOwnerOnly(t *testing.T) {
	lotID := uuid.New()
	provider := uuid.New()
	assignedManager := uuid.New()
	lotManager := uuid.New()
	iv := &types.Intervention{ID: uuid.New(), Status: types.InterventionQuoteRequested, LotID: &lotID, CreatedBy: uuid.New()}
	quote := &types.Quote{ID: uuid.New(), InterventionID: iv.ID, ProviderID: provider, Status: types.QuotePending}

	assignments := newFakeAssignmentRepo(
		&types.Assignment{InterventionID: iv.ID, UserID: assignedManager, Role: types.RoleManager},
		&types.Assignment{InterventionID: iv.ID, UserID: provider, Role: types.RoleProvider},
	)
	// The assigned manager also manages the lot: the union must not notify
	// them twice.
	lots := &fakeLotRepo{managers: map[uuid.UUID][]uuid.UUID{lotID: {lotManager, assignedManager}}}
	notifier := &fakeNotifier{}
	svc := newQuoteService(newFakeQuoteRepo(quote), newFakeInterventionRepo(iv), assignments, lots, notifier, &fakeRecorder{})

	if _, err := svc.Cancel(actorCtx(uuid.New(), "provider"), quote.ID); !workflow.IsCode(err, workflow.CodeForbidden) {
		t.Fatalf("non owner cancel: want forbidden, got %v", err)
	}

	out, err := svc.Cancel(actorCtx(provider, "provider"), quote.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if out.Status != types.QuoteCancelled {
		t.Fatalf("quote: %+v", out)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("manager notification: %+v", notifier.calls)
	}
	got := notifier.calls[0]
	if got.Kind != "quote.cancelled" || len(got.Recipients) != 2 {
		t.Fatalf("manager union: %+v", got)
	}
}
