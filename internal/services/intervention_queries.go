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

// InterventionQueryService is the read surface. Get resolves the caller's
// permissions alongside the intervention so clients render buttons and data
// from one response.
type InterventionQueryService interface {
	Get(ctx context.Context, id uuid.UUID) (*InterventionDetail, error)
	ListByLot(ctx context.Context, lotID uuid.UUID, statuses []string) ([]*types.Intervention, error)
	Activity(ctx context.Context, id uuid.UUID, limit int) ([]*types.ActivityLogEntry, error)
}

type InterventionDetail struct {
	Intervention *types.Intervention          `json:"intervention"`
	Permissions  PermissionSet                `json:"permissions"`
	Assignments  []*types.Assignment          `json:"assignments"`
	Quotes       []*types.Quote               `json:"quotes,omitempty"`
	TimeSlots    []*types.TimeSlot            `json:"time_slots"`
	Comments     []*types.InterventionComment `json:"comments"`
	Children     []*types.Intervention        `json:"children,omitempty"`
}

type interventionQueryService struct {
	log           *logger.Logger
	interventions repos.InterventionRepo
	assignments   repos.AssignmentRepo
	quotes        repos.QuoteRepo
	timeSlots     repos.TimeSlotRepo
	comments      repos.CommentRepo
	activity      repos.ActivityLogRepo
}

func NewInterventionQueryService(
	baseLog *logger.Logger,
	interventions repos.InterventionRepo,
	assignments repos.AssignmentRepo,
	quotes repos.QuoteRepo,
	timeSlots repos.TimeSlotRepo,
	comments repos.CommentRepo,
	activity repos.ActivityLogRepo,
) InterventionQueryService {
	return &interventionQueryService{
		log:           baseLog.With("service", "InterventionQueryService"),
		interventions: interventions,
		assignments:   assignments,
		quotes:        quotes,
		timeSlots:     timeSlots,
		comments:      comments,
		activity:      activity,
	}
}

func (s *interventionQueryService) Get(ctx context.Context, id uuid.UUID) (*InterventionDetail, error) {
	const op = "intervention.get"

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "missing authenticated actor", nil)
	}

	dbc := dbctx.Context{Ctx: ctx}
	iv, err := s.interventions.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if iv == nil {
		return nil, workflow.NewError(workflow.CodeNotFound, op, "intervention not found", nil)
	}

	assignment, err := s.assignments.GetForUser(dbc, iv.ID, rd.UserID)
	if err != nil {
		return nil, err
	}
	isCreator := iv.CreatedBy == rd.UserID
	if assignment == nil && !isCreator {
		return nil, workflow.NewError(workflow.CodeForbidden, op, "not a participant of this intervention", nil)
	}
	perms := ResolveParticipantPermissions(iv, assignment, isCreator)

	detail := &InterventionDetail{Intervention: iv, Permissions: perms}

	if detail.Assignments, err = s.assignments.ListByIntervention(dbc, iv.ID); err != nil {
		return nil, err
	}
	if detail.TimeSlots, err = s.timeSlots.ListByIntervention(dbc, iv.ID); err != nil {
		return nil, err
	}
	isManager := assignment != nil && assignment.Role == types.RoleManager
	if detail.Comments, err = s.comments.ListByIntervention(dbc, iv.ID, isManager); err != nil {
		return nil, err
	}

	allQuotes, err := s.quotes.ListByIntervention(dbc, iv.ID)
	if err != nil {
		return nil, err
	}
	if isManager || isCreator {
		detail.Quotes = allQuotes
	} else {
		// Providers only see their own bids.
		for _, q := range allQuotes {
			if q.ProviderID == rd.UserID {
				detail.Quotes = append(detail.Quotes, q)
			}
		}
	}

	if !iv.IsChild() {
		if detail.Children, err = s.interventions.ListByParent(dbc, iv.ID); err != nil {
			return nil, err
		}
	}

	return detail, nil
}

func (s *interventionQueryService) ListByLot(ctx context.Context, lotID uuid.UUID, statuses []string) ([]*types.Intervention, error) {
	const op = "intervention.list_by_lot"

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "missing authenticated actor", nil)
	}
	if lotID == uuid.Nil {
		return nil, workflow.NewError(workflow.CodeValidation, op, "lot id is required", nil)
	}
	return s.interventions.ListByLot(dbctx.Context{Ctx: ctx}, lotID, statuses)
}

func (s *interventionQueryService) Activity(ctx context.Context, id uuid.UUID, limit int) ([]*types.ActivityLogEntry, error) {
	const op = "intervention.activity"

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "missing authenticated actor", nil)
	}

	dbc := dbctx.Context{Ctx: ctx}
	assignment, err := s.assignments.GetForUser(dbc, id, rd.UserID)
	if err != nil {
		return nil, err
	}
	if assignment == nil || assignment.Role != types.RoleManager {
		return nil, workflow.NewError(workflow.CodeForbidden, op, "only managers can read the activity trail", nil)
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.activity.ListByEntity(dbc, "intervention", id, limit)
}
