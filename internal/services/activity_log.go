package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aumugisha-umu/seido-backend/internal/data/repos"
	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

// ActivityRecorder appends to the activity trail. Recording is best effort:
// failures are logged and never fail the operation that triggered them.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry)
}

type ActivityEntry struct {
	EntityType string
	EntityID   uuid.UUID
	Action     string
	FromStatus string
	ToStatus   string
	ActorID    uuid.UUID
	Metadata   map[string]any
}

type activityRecorder struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.ActivityLogRepo
}

func NewActivityRecorder(db *gorm.DB, baseLog *logger.Logger, repo repos.ActivityLogRepo) ActivityRecorder {
	return &activityRecorder{
		db:   db,
		log:  baseLog.With("service", "ActivityRecorder"),
		repo: repo,
	}
}

func (r *activityRecorder) Record(ctx context.Context, entry ActivityEntry) {
	if r == nil || r.repo == nil || entry.EntityID == uuid.Nil {
		return
	}

	var meta datatypes.JSON
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			r.log.Warn("activity metadata not serializable", "action", entry.Action, "error", err)
		} else {
			meta = datatypes.JSON(raw)
		}
	}

	row := &types.ActivityLogEntry{
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		FromStatus: entry.FromStatus,
		ToStatus:   entry.ToStatus,
		ActorID:    entry.ActorID,
		Metadata:   meta,
	}
	if err := r.repo.Insert(dbctx.Context{Ctx: ctx}, []*types.ActivityLogEntry{row}); err != nil {
		r.log.Warn("activity trail write failed",
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
			"action", entry.Action,
			"error", err,
		)
	}
}
