package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/aumugisha-umu/seido-backend/internal/data/repos"
	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/domain/workflow"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/ctxutil"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

// InterventionSplitService turns one intervention with several providers into
// one child intervention per provider. Children link back through
// parent_intervention_id; a child is never split again.
type InterventionSplitService interface {
	Split(ctx context.Context, interventionID uuid.UUID) (*SplitResult, error)
}

type SplitResult struct {
	Count    int         `json:"count"`
	ChildIDs []uuid.UUID `json:"child_ids"`
}

type interventionSplitService struct {
	log           *logger.Logger
	txr           repos.TxRunner
	interventions repos.InterventionRepo
	assignments   repos.AssignmentRepo
	quotes        repos.QuoteRepo
	timeSlots     repos.TimeSlotRepo
	comments      repos.CommentRepo
	notifier      Notifier
	recorder      ActivityRecorder
	effects       *SideEffectQueue
}

func NewInterventionSplitService(
	baseLog *logger.Logger,
	txr repos.TxRunner,
	interventions repos.InterventionRepo,
	assignments repos.AssignmentRepo,
	quotes repos.QuoteRepo,
	timeSlots repos.TimeSlotRepo,
	comments repos.CommentRepo,
	notifier Notifier,
	recorder ActivityRecorder,
	effects *SideEffectQueue,
) InterventionSplitService {
	return &interventionSplitService{
		log:           baseLog.With("service", "InterventionSplitService"),
		txr:           txr,
		interventions: interventions,
		assignments:   assignments,
		quotes:        quotes,
		timeSlots:     timeSlots,
		comments:      comments,
		notifier:      notifier,
		recorder:      recorder,
		effects:       effects,
	}
}

// Split creates one child per distinct provider and moves each provider's
// quotes, time slots, and addressed instructions onto their child. Managers
// and tenants are copied onto every child. The parent stays active as the
// coordination record.
func (s *interventionSplitService) Split(ctx context.Context, interventionID uuid.UUID) (*SplitResult, error) {
	const op = "intervention.split"

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "missing authenticated actor", nil)
	}

	iv, err := s.interventions.GetByID(dbctx.Context{Ctx: ctx}, interventionID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, workflow.NewError(workflow.CodeNotFound, op, "intervention not found", nil)
	}
	if iv.IsChild() {
		return nil, workflow.NewError(workflow.CodeInvalidState, op, "a split child cannot be split again", nil)
	}
	if iv.Status.IsTerminal() {
		return nil, workflow.NewError(workflow.CodeInvalidState, op, "a closed intervention cannot be split", nil)
	}

	assignments, err := s.assignments.ListByIntervention(dbctx.Context{Ctx: ctx}, iv.ID)
	if err != nil {
		return nil, err
	}

	providers := make([]*types.Assignment, 0, len(assignments))
	shared := make([]*types.Assignment, 0, len(assignments))
	seenProviders := make(map[uuid.UUID]bool)
	for _, a := range assignments {
		if a.Role == types.RoleProvider {
			if !seenProviders[a.UserID] {
				seenProviders[a.UserID] = true
				providers = append(providers, a)
			}
			continue
		}
		shared = append(shared, a)
	}
	if len(providers) < 2 {
		return nil, workflow.NewError(workflow.CodeInvalidState, op, "splitting requires at least two distinct providers", nil)
	}

	childIDs := make([]uuid.UUID, 0, len(providers))
	err = s.txr.InTx(ctx, func(dbc dbctx.Context) error {
		for _, providerAssignment := range providers {
			parentID := iv.ID
			child := &types.Intervention{
				ID:                              uuid.New(),
				TeamID:                          iv.TeamID,
				LotID:                           iv.LotID,
				BuildingID:                      iv.BuildingID,
				Title:                           iv.Title,
				Description:                     iv.Description,
				Urgency:                         iv.Urgency,
				Status:                          iv.Status,
				RequiresParticipantConfirmation: iv.RequiresParticipantConfirmation,
				ParentInterventionID:            &parentID,
				CreatedBy:                       iv.CreatedBy,
				Metadata:                        iv.Metadata,
			}
			if _, err := s.interventions.Create(dbc, []*types.Intervention{child}); err != nil {
				return err
			}
			childIDs = append(childIDs, child.ID)

			rows := make([]*types.Assignment, 0, len(shared)+1)
			for _, a := range shared {
				rows = append(rows, &types.Assignment{
					InterventionID:       child.ID,
					UserID:               a.UserID,
					Role:                 a.Role,
					IsPrimary:            a.IsPrimary,
					RequiresConfirmation: a.RequiresConfirmation,
					ConfirmationStatus:   a.ConfirmationStatus,
				})
			}
			rows = append(rows, &types.Assignment{
				InterventionID:       child.ID,
				UserID:               providerAssignment.UserID,
				Role:                 types.RoleProvider,
				IsPrimary:            true,
				RequiresConfirmation: providerAssignment.RequiresConfirmation,
				ConfirmationStatus:   providerAssignment.ConfirmationStatus,
			})
			if _, err := s.assignments.Create(dbc, rows); err != nil {
				return err
			}

			if _, err := s.quotes.ReassignProviderQuotes(dbc, iv.ID, providerAssignment.UserID, child.ID); err != nil {
				return err
			}
			if _, err := s.timeSlots.ReassignProviderSlots(dbc, iv.ID, providerAssignment.UserID, child.ID); err != nil {
				return err
			}
			if _, err := s.comments.ReassignProviderComments(dbc, iv.ID, providerAssignment.UserID, child.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &SplitResult{Count: len(childIDs), ChildIDs: childIDs}
	actorID := rd.UserID
	recipients := make([]uuid.UUID, 0, len(providers)+1)
	recipients = append(recipients, iv.CreatedBy)
	for _, p := range providers {
		recipients = append(recipients, p.UserID)
	}
	childStrings := make([]string, 0, len(childIDs))
	for _, id := range childIDs {
		childStrings = append(childStrings, id.String())
	}
	runAfterCommit(s.effects, op, func(ctx context.Context) {
		s.recorder.Record(ctx, ActivityEntry{
			EntityType: "intervention",
			EntityID:   iv.ID,
			Action:     "split",
			ActorID:    actorID,
			Metadata:   map[string]any{"child_ids": childStrings},
		})
		s.notifier.NotifyUsers(ctx, dedupIDs(recipients),
			"intervention.split", "Intervention was split per provider", "",
			map[string]any{"intervention_id": iv.ID.String(), "child_ids": childStrings})
	})

	return result, nil
}
