package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/aumugisha-umu/seido-backend/internal/data/repos"
	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/domain/property"
	"github.com/aumugisha-umu/seido-backend/internal/domain/workflow"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/ctxutil"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

// InterventionWorkflowService drives the intervention status lifecycle. Every
// transition is a guarded conditional write: the row moves only if it is still
// in the expected status, so two racing requests cannot both win.
type InterventionWorkflowService interface {
	Reject(ctx context.Context, in RejectInterventionInput) (*types.Intervention, error)
	Cancel(ctx context.Context, in CancelInterventionInput) (*types.Intervention, error)
	AcceptSchedule(ctx context.Context, interventionID uuid.UUID) (*types.Intervention, error)
}

type RejectInterventionInput struct {
	InterventionID  uuid.UUID
	Reason          string
	InternalComment string
}

type CancelInterventionInput struct {
	InterventionID uuid.UUID
	Reason         string
}

type interventionWorkflowService struct {
	log           *logger.Logger
	txr           repos.TxRunner
	interventions repos.InterventionRepo
	assignments   repos.AssignmentRepo
	comments      repos.CommentRepo
	timeSlots     repos.TimeSlotRepo
	notifier      Notifier
	recorder      ActivityRecorder
	effects       *SideEffectQueue
}

func NewInterventionWorkflowService(
	baseLog *logger.Logger,
	txr repos.TxRunner,
	interventions repos.InterventionRepo,
	assignments repos.AssignmentRepo,
	comments repos.CommentRepo,
	timeSlots repos.TimeSlotRepo,
	notifier Notifier,
	recorder ActivityRecorder,
	effects *SideEffectQueue,
) InterventionWorkflowService {
	return &interventionWorkflowService{
		log:           baseLog.With("service", "InterventionWorkflowService"),
		txr:           txr,
		interventions: interventions,
		assignments:   assignments,
		comments:      comments,
		timeSlots:     timeSlots,
		notifier:      notifier,
		recorder:      recorder,
		effects:       effects,
	}
}

// Reject moves a pending intervention to rejected and records the manager's
// reason as a comment visible to the requester. An optional internal comment
// stays manager-only.
func (s *interventionWorkflowService) Reject(ctx context.Context, in RejectInterventionInput) (*types.Intervention, error) {
	const op = "intervention.reject"

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "missing authenticated actor", nil)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, workflow.NewError(workflow.CodeValidation, op, "rejection reason is required", nil)
	}

	iv, err := s.interventions.GetByID(dbctx.Context{Ctx: ctx}, in.InterventionID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, workflow.NewError(workflow.CodeNotFound, op, "intervention not found", nil)
	}

	err = s.txr.InTx(ctx, func(dbc dbctx.Context) error {
		ok, err := s.interventions.UpdateStatusGuarded(dbc, iv.ID, types.InterventionRejected,
			[]string{string(types.InterventionPending)}, nil)
		if err != nil {
			return err
		}
		if !ok {
			return workflow.NewError(workflow.CodeInvalidState, op, "only a pending intervention can be rejected", nil)
		}

		rows := []*types.InterventionComment{{
			InterventionID: iv.ID,
			AuthorID:       rd.UserID,
			Body:           strings.TrimSpace(in.Reason),
		}}
		if internal := strings.TrimSpace(in.InternalComment); internal != "" {
			rows = append(rows, &types.InterventionComment{
				InterventionID: iv.ID,
				AuthorID:       rd.UserID,
				Body:           internal,
				Internal:       true,
			})
		}
		_, err = s.comments.Create(dbc, rows)
		return err
	})
	if err != nil {
		return nil, err
	}

	prev := iv.Status
	iv.Status = types.InterventionRejected
	actorID := rd.UserID
	runAfterCommit(s.effects, op, func(ctx context.Context) {
		s.recorder.Record(ctx, ActivityEntry{
			EntityType: "intervention",
			EntityID:   iv.ID,
			Action:     "rejected",
			FromStatus: string(prev),
			ToStatus:   string(types.InterventionRejected),
			ActorID:    actorID,
			Metadata:   map[string]any{"reason": strings.TrimSpace(in.Reason)},
		})
		s.notifier.StatusChanged(ctx, iv, prev, types.InterventionRejected, []uuid.UUID{iv.CreatedBy})
	})

	return iv, nil
}

// Cancel is allowed from any active status after approval; the previous status
// is preserved in the activity trail since cancelled is terminal.
func (s *interventionWorkflowService) Cancel(ctx context.Context, in CancelInterventionInput) (*types.Intervention, error) {
	const op = "intervention.cancel"

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "missing authenticated actor", nil)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, workflow.NewError(workflow.CodeValidation, op, "cancellation reason is required", nil)
	}

	iv, err := s.interventions.GetByID(dbctx.Context{Ctx: ctx}, in.InterventionID)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, workflow.NewError(workflow.CodeNotFound, op, "intervention not found", nil)
	}
	prev := iv.Status

	err = s.txr.InTx(ctx, func(dbc dbctx.Context) error {
		ok, err := s.interventions.UpdateStatusGuarded(dbc, iv.ID, types.InterventionCancelled,
			property.StatusStrings(property.CancellableStatuses()), nil)
		if err != nil {
			return err
		}
		if !ok {
			return workflow.NewError(workflow.CodeInvalidState, op, "intervention cannot be cancelled from its current status", nil)
		}

		_, err = s.comments.Create(dbc, []*types.InterventionComment{{
			InterventionID: iv.ID,
			AuthorID:       rd.UserID,
			Body:           strings.TrimSpace(in.Reason),
		}})
		return err
	})
	if err != nil {
		return nil, err
	}

	recipients, err := s.participantIDs(ctx, iv)
	if err != nil {
		s.log.Warn("cancel recipients lookup failed", "intervention_id", iv.ID, "error", err)
	}

	iv.Status = types.InterventionCancelled
	actorID := rd.UserID
	runAfterCommit(s.effects, op, func(ctx context.Context) {
		s.recorder.Record(ctx, ActivityEntry{
			EntityType: "intervention",
			EntityID:   iv.ID,
			Action:     "cancelled",
			FromStatus: string(prev),
			ToStatus:   string(types.InterventionCancelled),
			ActorID:    actorID,
			Metadata:   map[string]any{"reason": strings.TrimSpace(in.Reason)},
		})
		s.notifier.StatusChanged(ctx, iv, prev, types.InterventionCancelled, recipients)
	})

	return iv, nil
}

// AcceptSchedule lets the primary provider lock in the selected time slot,
// moving scheduling -> scheduled and stamping scheduled_date.
func (s *interventionWorkflowService) AcceptSchedule(ctx context.Context, interventionID uuid.UUID) (*types.Intervention, error) {
	const op = "intervention.accept_schedule"

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

	assignment, err := s.assignments.GetForUser(dbctx.Context{Ctx: ctx}, iv.ID, rd.UserID)
	if err != nil {
		return nil, err
	}
	if assignment == nil || assignment.Role != types.RoleProvider || !assignment.IsPrimary {
		return nil, workflow.NewError(workflow.CodeForbidden, op, "only the primary provider can accept the schedule", nil)
	}

	slots, err := s.timeSlots.ListByIntervention(dbctx.Context{Ctx: ctx}, iv.ID)
	if err != nil {
		return nil, err
	}
	var selected *types.TimeSlot
	for _, slot := range slots {
		if slot.Selected {
			selected = slot
			break
		}
	}
	if selected == nil {
		return nil, workflow.NewError(workflow.CodeNotFound, op, "no selected time slot to accept", nil)
	}

	prev := iv.Status
	err = s.txr.InTx(ctx, func(dbc dbctx.Context) error {
		ok, err := s.interventions.UpdateStatusGuarded(dbc, iv.ID, types.InterventionScheduled,
			[]string{string(types.InterventionScheduling)},
			map[string]any{"scheduled_date": selected.StartsAt})
		if err != nil {
			return err
		}
		if !ok {
			return workflow.NewError(workflow.CodeInvalidState, op, "intervention is not in scheduling", nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	managers, err := s.managerIDs(ctx, iv)
	if err != nil {
		s.log.Warn("schedule recipients lookup failed", "intervention_id", iv.ID, "error", err)
	}

	iv.Status = types.InterventionScheduled
	start := selected.StartsAt
	iv.ScheduledDate = &start
	actorID := rd.UserID
	runAfterCommit(s.effects, op, func(ctx context.Context) {
		s.recorder.Record(ctx, ActivityEntry{
			EntityType: "intervention",
			EntityID:   iv.ID,
			Action:     "schedule_accepted",
			FromStatus: string(prev),
			ToStatus:   string(types.InterventionScheduled),
			ActorID:    actorID,
			Metadata:   map[string]any{"scheduled_date": start},
		})
		s.notifier.StatusChanged(ctx, iv, prev, types.InterventionScheduled, managers)
	})

	return iv, nil
}

// participantIDs is everyone attached to the intervention plus its creator.
func (s *interventionWorkflowService) participantIDs(ctx context.Context, iv *types.Intervention) ([]uuid.UUID, error) {
	assignments, err := s.assignments.ListByIntervention(dbctx.Context{Ctx: ctx}, iv.ID)
	if err != nil {
		return []uuid.UUID{iv.CreatedBy}, err
	}
	out := make([]uuid.UUID, 0, len(assignments)+1)
	out = append(out, iv.CreatedBy)
	for _, a := range assignments {
		out = append(out, a.UserID)
	}
	return dedupIDs(out), nil
}

func (s *interventionWorkflowService) managerIDs(ctx context.Context, iv *types.Intervention) ([]uuid.UUID, error) {
	assignments, err := s.assignments.ListByIntervention(dbctx.Context{Ctx: ctx}, iv.ID)
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
