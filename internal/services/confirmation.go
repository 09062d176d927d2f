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

// ConfirmationService records a participant's answer to their own
// participation request. Both answers are terminal; re-inviting a participant
// means creating a new assignment.
type ConfirmationService interface {
	Respond(ctx context.Context, in ConfirmationInput) (*types.Assignment, error)
}

type ConfirmationInput struct {
	InterventionID uuid.UUID
	Accept         bool
}

type confirmationService struct {
	log         *logger.Logger
	assignments repos.AssignmentRepo
	notifier    Notifier
	recorder    ActivityRecorder
	effects     *SideEffectQueue
}

func NewConfirmationService(
	baseLog *logger.Logger,
	assignments repos.AssignmentRepo,
	notifier Notifier,
	recorder ActivityRecorder,
	effects *SideEffectQueue,
) ConfirmationService {
	return &confirmationService{
		log:         baseLog.With("service", "ConfirmationService"),
		assignments: assignments,
		notifier:    notifier,
		recorder:    recorder,
		effects:     effects,
	}
}

func (s *confirmationService) Respond(ctx context.Context, in ConfirmationInput) (*types.Assignment, error) {
	const op = "confirmation.respond"

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "missing authenticated actor", nil)
	}

	assignment, err := s.assignments.GetForUser(dbctx.Context{Ctx: ctx}, in.InterventionID, rd.UserID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, workflow.NewError(workflow.CodeNotFound, op, "no assignment for this user on the intervention", nil)
	}
	if !assignment.RequiresConfirmation {
		return nil, workflow.NewError(workflow.CodeInvalidState, op, "assignment does not require confirmation", nil)
	}

	next := types.ConfirmationConfirmed
	action := "participation_confirmed"
	if !in.Accept {
		next = types.ConfirmationRejected
		action = "participation_declined"
	}

	ok, err := s.assignments.UpdateConfirmationGuarded(dbctx.Context{Ctx: ctx}, assignment.ID, next,
		[]string{string(types.ConfirmationPending)})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, workflow.NewError(workflow.CodeInvalidState, op, "confirmation is already settled", nil)
	}

	managers, err := s.managerIDs(ctx, assignment.InterventionID)
	if err != nil {
		s.log.Warn("confirmation recipients lookup failed", "intervention_id", assignment.InterventionID, "error", err)
	}

	prev := assignment.ConfirmationStatus
	assignment.ConfirmationStatus = next
	actorID := rd.UserID
	interventionID := assignment.InterventionID
	runAfterCommit(s.effects, op, func(ctx context.Context) {
		s.recorder.Record(ctx, ActivityEntry{
			EntityType: "intervention",
			EntityID:   interventionID,
			Action:     action,
			FromStatus: string(prev),
			ToStatus:   string(next),
			ActorID:    actorID,
		})
		title := "Participation confirmed"
		if next == types.ConfirmationRejected {
			title = "Participation declined"
		}
		s.notifier.NotifyUsers(ctx, managers, "intervention.confirmation", title,
			"A participant responded to their participation request.",
			map[string]any{"intervention_id": interventionID, "confirmation_status": string(next)})
	})

	return assignment, nil
}

func (s *confirmationService) managerIDs(ctx context.Context, interventionID uuid.UUID) ([]uuid.UUID, error) {
	assignments, err := s.assignments.ListByIntervention(dbctx.Context{Ctx: ctx}, interventionID)
	if err != nil {
		return nil, err
	}
	var out []uuid.UUID
	for _, a := range assignments {
		if a.Role == types.RoleManager {
			out = append(out, a.UserID)
		}
	}
	return dedupIDs(out), nil
}
