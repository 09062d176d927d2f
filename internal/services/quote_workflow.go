package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aumugisha-umu/seido-backend/internal/data/repos"
	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/domain/property"
	"github.com/aumugisha-umu/seido-backend/internal/domain/workflow"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/ctxutil"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

// QuoteWorkflowService runs the competing-bid lifecycle. Approval is the
// critical section: the winning quote, the intervention transition, and the
// batch rejection of every competitor commit atomically, so no reader ever
// observes two accepted quotes on one intervention.
type QuoteWorkflowService interface {
	Submit(ctx context.Context, in SubmitQuoteInput) (*types.Quote, error)
	Approve(ctx context.Context, quoteID uuid.UUID) (*types.Quote, error)
	Reject(ctx context.Context, in RejectQuoteInput) (*types.Quote, error)
	Cancel(ctx context.Context, quoteID uuid.UUID) (*types.Quote, error)
}

type SubmitQuoteInput struct {
	InterventionID uuid.UUID
	AmountCents    int64
	Currency       string
	Description    string
}

type RejectQuoteInput struct {
	QuoteID uuid.UUID
	Reason  string
}

// RejectionReasonOutbid is stamped on competitors when another quote wins.
const RejectionReasonOutbid = "another quote was selected"

type quoteWorkflowService struct {
	log           *logger.Logger
	txr           repos.TxRunner
	quotes        repos.QuoteRepo
	interventions repos.InterventionRepo
	assignments   repos.AssignmentRepo
	lots          repos.LotRepo
	notifier      Notifier
	recorder      ActivityRecorder
	effects       *SideEffectQueue
}

func NewQuoteWorkflowService(
	baseLog *logger.Logger,
	txr repos.TxRunner,
	quotes repos.QuoteRepo,
	interventions repos.InterventionRepo,
	assignments repos.AssignmentRepo,
	lots repos.LotRepo,
	notifier Notifier,
	recorder ActivityRecorder,
	effects *SideEffectQueue,
) QuoteWorkflowService {
	return &quoteWorkflowService{
		log:           baseLog.With("service", "QuoteWorkflowService"),
		txr:           txr,
		quotes:        quotes,
		interventions: interventions,
		assignments:   assignments,
		lots:          lots,
		notifier:      notifier,
		recorder:      recorder,
		effects:       effects,
	}
}

// Submit registers a provider's bid while the intervention is collecting
// quotes.
func (s *quoteWorkflowService) Submit(ctx context.Context, in SubmitQuoteInput) (*types.Quote, error) {
	const op = "quote.submit"

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "missing authenticated actor", nil)
	}
	if in.AmountCents <= 0 {
		return nil, workflow.NewError(workflow.CodeValidation, op, "amount must be positive", nil)
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "EUR"
	}

	iv, err := s.interventions.GetByID(dbctx.Context{Ctx: ctx}, in.InterventionID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, workflow.NewError(workflow.CodeNotFound, op, "intervention not found", nil)
	}
	if iv.Status != types.InterventionQuoteRequested {
		return nil, workflow.NewError(workflow.CodeInvalidState, op, "intervention is not collecting quotes", nil)
	}

	assignment, err := s.assignments.GetForUser(dbctx.Context{Ctx: ctx}, iv.ID, rd.UserID)
	if err != nil {
		return nil, err
	}
	if assignment == nil || assignment.Role != types.RoleProvider {
		return nil, workflow.NewError(workflow.CodeForbidden, op, "only an assigned provider can submit a quote", nil)
	}

	quote := &types.Quote{
		InterventionID: iv.ID,
		ProviderID:     rd.UserID,
		AmountCents:    in.AmountCents,
		Currency:       currency,
		Description:    strings.TrimSpace(in.Description),
		Status:         types.QuotePending,
	}
	if _, err := s.quotes.Create(dbctx.Context{Ctx: ctx}, []*types.Quote{quote}); err != nil {
		return nil, err
	}

	actorID := rd.UserID
	runAfterCommit(s.effects, op, func(ctx context.Context) {
		s.recorder.Record(ctx, ActivityEntry{
			EntityType: "quote",
			EntityID:   quote.ID,
			Action:     "submitted",
			ToStatus:   string(types.QuotePending),
			ActorID:    actorID,
			Metadata:   map[string]any{"intervention_id": iv.ID.String(), "amount_cents": in.AmountCents},
		})
	})

	return quote, nil
}

// Approve accepts one quote and settles the whole competition in a single
// transaction: accept the winner, advance the intervention, reject everyone
// else. If the intervention moved on concurrently the transaction rolls back
// and the quote stays untouched.
func (s *quoteWorkflowService) Approve(ctx context.Context, quoteID uuid.UUID) (*types.Quote, error) {
	const op = "quote.approve"

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "missing authenticated actor", nil)
	}

	quote, err := s.quotes.GetByID(dbctx.Context{Ctx: ctx}, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, workflow.NewError(workflow.CodeNotFound, op, "quote not found", nil)
	}

	iv, err := s.interventions.GetByID(dbctx.Context{Ctx: ctx}, quote.InterventionID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, workflow.NewError(workflow.CodeNotFound, op, "intervention not found", nil)
	}

	if err := s.requireManager(ctx, iv, rd.UserID); err != nil {
		return nil, err
	}

	// Snapshot competitors before the batch update so the rejected providers
	// can be notified afterwards.
	competitors, err := s.quotes.ListByIntervention(dbctx.Context{Ctx: ctx}, iv.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var rejectedCount int64
	err = s.txr.InTx(ctx, func(dbc dbctx.Context) error {
		ok, err := s.quotes.UpdateStatusGuarded(dbc, quote.ID, types.QuoteAccepted,
			property.QuoteApprovableSet(),
			map[string]any{"validated_by": rd.UserID, "validated_at": now})
		if err != nil {
			return err
		}
		if !ok {
			return workflow.NewError(workflow.CodeInvalidState, op, "quote is already resolved", nil)
		}

		ok, err = s.interventions.UpdateStatusGuarded(dbc, iv.ID, types.InterventionScheduling,
			[]string{string(types.InterventionQuoteRequested)}, nil)
		if err != nil {
			return err
		}
		if !ok {
			return workflow.NewError(workflow.CodeInvalidState, op, "intervention is no longer collecting quotes", nil)
		}

		rejectedCount, err = s.quotes.BulkRejectOthers(dbc, iv.ID, quote.ID,
			property.QuoteApprovableSet(), RejectionReasonOutbid, rd.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	quote.Status = types.QuoteAccepted
	quote.ValidatedBy = &rd.UserID
	quote.ValidatedAt = &now

	prev := iv.Status
	iv.Status = types.InterventionScheduling
	actorID := rd.UserID
	runAfterCommit(s.effects, op, func(ctx context.Context) {
		s.recorder.Record(ctx, ActivityEntry{
			EntityType: "quote",
			EntityID:   quote.ID,
			Action:     "approved",
			ToStatus:   string(types.QuoteAccepted),
			ActorID:    actorID,
			Metadata: map[string]any{
				"intervention_id": iv.ID.String(),
				"rejected_count":  rejectedCount,
			},
		})
		s.notifier.NotifyUsers(ctx, []uuid.UUID{quote.ProviderID},
			"quote.accepted", "Your quote was accepted", "",
			map[string]any{"quote_id": quote.ID.String(), "intervention_id": iv.ID.String()})
		for _, other := range competitors {
			if other.ID == quote.ID || other.Status.IsResolved() {
				continue
			}
			s.notifier.QuoteRejected(ctx, other, RejectionReasonOutbid)
		}
		s.notifier.StatusChanged(ctx, iv, prev, types.InterventionScheduling, []uuid.UUID{iv.CreatedBy})
	})

	return quote, nil
}

// Reject declines a single quote without touching its competitors.
func (s *quoteWorkflowService) Reject(ctx context.Context, in RejectQuoteInput) (*types.Quote, error) {
	const op = "quote.reject"

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "missing authenticated actor", nil)
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, workflow.NewError(workflow.CodeValidation, op, "rejection reason is required", nil)
	}

	quote, err := s.quotes.GetByID(dbctx.Context{Ctx: ctx}, in.QuoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, workflow.NewError(workflow.CodeNotFound, op, "quote not found", nil)
	}

	iv, err := s.interventions.GetByID(dbctx.Context{Ctx: ctx}, quote.InterventionID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, workflow.NewError(workflow.CodeNotFound, op, "intervention not found", nil)
	}
	if err := s.requireManager(ctx, iv, rd.UserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ok, err := s.quotes.UpdateStatusGuarded(dbctx.Context{Ctx: ctx}, quote.ID, types.QuoteRejected,
		property.QuotePendingSet(),
		map[string]any{"rejection_reason": reason, "validated_by": rd.UserID, "validated_at": now})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, workflow.NewError(workflow.CodeInvalidState, op, "quote is already resolved", nil)
	}

	quote.Status = types.QuoteRejected
	quote.RejectionReason = reason
	actorID := rd.UserID
	runAfterCommit(s.effects, op, func(ctx context.Context) {
		s.recorder.Record(ctx, ActivityEntry{
			EntityType: "quote",
			EntityID:   quote.ID,
			Action:     "rejected",
			ToStatus:   string(types.QuoteRejected),
			ActorID:    actorID,
			Metadata:   map[string]any{"reason": reason},
		})
		s.notifier.QuoteRejected(ctx, quote, reason)
	})

	return quote, nil
}

// Cancel withdraws the provider's own pending quote and tells the managers of
// the intervention, whether they follow it through an assignment or through
// the lot.
func (s *quoteWorkflowService) Cancel(ctx context.Context, quoteID uuid.UUID) (*types.Quote, error) {
	const op = "quote.cancel"

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "missing authenticated actor", nil)
	}

	quote, err := s.quotes.GetByID(dbctx.Context{Ctx: ctx}, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, workflow.NewError(workflow.CodeNotFound, op, "quote not found", nil)
	}
	if quote.ProviderID != rd.UserID {
		return nil, workflow.NewError(workflow.CodeForbidden, op, "only the provider who submitted the quote can cancel it", nil)
	}

	ok, err := s.quotes.UpdateStatusGuarded(dbctx.Context{Ctx: ctx}, quote.ID, types.QuoteCancelled,
		property.QuotePendingSet(), nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, workflow.NewError(workflow.CodeInvalidState, op, "only a pending quote can be cancelled", nil)
	}

	managers, err := s.interventionManagerIDs(ctx, quote.InterventionID)
	if err != nil {
		s.log.Warn("quote cancel recipients lookup failed", "quote_id", quote.ID, "error", err)
	}

	quote.Status = types.QuoteCancelled
	actorID := rd.UserID
	runAfterCommit(s.effects, op, func(ctx context.Context) {
		s.recorder.Record(ctx, ActivityEntry{
			EntityType: "quote",
			EntityID:   quote.ID,
			Action:     "cancelled",
			ToStatus:   string(types.QuoteCancelled),
			ActorID:    actorID,
			Metadata:   map[string]any{"intervention_id": quote.InterventionID.String()},
		})
		s.notifier.NotifyUsers(ctx, managers,
			"quote.cancelled", "A quote was withdrawn", "",
			map[string]any{"quote_id": quote.ID.String(), "intervention_id": quote.InterventionID.String()})
	})

	return quote, nil
}

// requireManager accepts either an explicit manager assignment on the
// intervention or management of the intervention's lot.
func (s *quoteWorkflowService) requireManager(ctx context.Context, iv *types.Intervention, userID uuid.UUID) error {
	assignment, err := s.assignments.GetForUser(dbctx.Context{Ctx: ctx}, iv.ID, userID)
	if err != nil {
		return err
	}
	if assignment != nil && assignment.Role == types.RoleManager {
		return nil
	}
	if iv.LotID != nil {
		managerIDs, err := s.lots.ListManagerIDs(dbctx.Context{Ctx: ctx}, *iv.LotID)
		if err != nil {
			return err
		}
		for _, id := range managerIDs {
			if id == userID {
				return nil
			}
		}
	}
	return workflow.NewError(workflow.CodeForbidden, "quote.require_manager", "managing the intervention is required", nil)
}

// interventionManagerIDs is the union of assignment managers and lot managers.
func (s *quoteWorkflowService) interventionManagerIDs(ctx context.Context, interventionID uuid.UUID) ([]uuid.UUID, error) {
	iv, err := s.interventions.GetByID(dbctx.Context{Ctx: ctx}, interventionID)
	if err != nil || iv == nil {
		return nil, err
	}

	var out []uuid.UUID
	assignments, err := s.assignments.ListByIntervention(dbctx.Context{Ctx: ctx}, iv.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		if a.Role == types.RoleManager {
			out = append(out, a.UserID)
		}
	}
	if iv.LotID != nil {
		lotManagers, err := s.lots.ListManagerIDs(dbctx.Context{Ctx: ctx}, *iv.LotID)
		if err != nil {
			return dedupIDs(out), err
		}
		out = append(out, lotManagers...)
	}
	return dedupIDs(out), nil
}
