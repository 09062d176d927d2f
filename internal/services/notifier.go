package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/aumugisha-umu/seido-backend/internal/data/repos"
	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
	"github.com/aumugisha-umu/seido-backend/internal/platform/sendgrid"
	"github.com/aumugisha-umu/seido-backend/internal/realtime"
)

// Notifier fans one workflow event out over the three channels: in-app rows,
// realtime push, and email. Channel failures are logged and swallowed; the
// state change that triggered the notification already committed.
type Notifier interface {
	NotifyUsers(ctx context.Context, userIDs []uuid.UUID, kind, title, message string, meta map[string]any)
	StatusChanged(ctx context.Context, iv *types.Intervention, from, to types.InterventionStatus, recipients []uuid.UUID)
	QuoteRejected(ctx context.Context, q *types.Quote, reason string)
}

type notifier struct {
	log   *logger.Logger
	repo  repos.NotificationRepo
	users repos.UserRepo
	push  realtime.Publisher
	email sendgrid.Client
}

// NewNotifier accepts a nil push publisher and a nil email client; the
// corresponding channels are skipped.
func NewNotifier(baseLog *logger.Logger, repo repos.NotificationRepo, users repos.UserRepo, push realtime.Publisher, email sendgrid.Client) Notifier {
	return &notifier{
		log:   baseLog.With("service", "Notifier"),
		repo:  repo,
		users: users,
		push:  push,
		email: email,
	}
}

func (n *notifier) NotifyUsers(ctx context.Context, userIDs []uuid.UUID, kind, title, message string, meta map[string]any) {
	if n == nil || len(userIDs) == 0 {
		return
	}
	userIDs = dedupIDs(userIDs)

	var metaJSON datatypes.JSON
	if len(meta) > 0 {
		if raw, err := json.Marshal(meta); err == nil {
			metaJSON = datatypes.JSON(raw)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows := make([]*types.Notification, 0, len(userIDs))
		for _, id := range userIDs {
			rows = append(rows, &types.Notification{
				UserID:  id,
				Kind:    kind,
				Title:   title,
				Message: message,
				Meta:    metaJSON,
			})
		}
		if err := n.repo.Insert(dbctx.Context{Ctx: gctx}, rows); err != nil {
			n.log.Warn("in-app notification insert failed", "kind", kind, "error", err)
		}
		return nil
	})

	if n.push != nil {
		g.Go(func() error {
			for _, id := range userIDs {
				err := n.push.Publish(gctx, realtime.Message{
					Channel: id.String(),
					Event:   realtime.EventNotificationCreated,
					Data:    map[string]any{"kind": kind, "title": title, "message": message, "meta": meta},
				})
				if err != nil {
					n.log.Warn("push notification failed", "kind", kind, "user_id", id, "error", err)
				}
			}
			return nil
		})
	}

	if n.email != nil {
		g.Go(func() error {
			n.sendEmails(gctx, userIDs, title, message)
			return nil
		})
	}

	_ = g.Wait()
}

func (n *notifier) sendEmails(ctx context.Context, userIDs []uuid.UUID, subject, body string) {
	users, err := n.users.GetByIDs(dbctx.Context{Ctx: ctx}, userIDs)
	if err != nil {
		n.log.Warn("email recipient lookup failed", "error", err)
		return
	}
	for _, u := range users {
		if u == nil || u.Email == "" {
			continue
		}
		_, err := n.email.Send(ctx, sendgrid.SendEmailRequest{
			To:      []sendgrid.EmailAddress{{Email: u.Email, Name: u.FirstName}},
			Subject: subject,
			Text:    body,
		})
		if err != nil {
			n.log.Warn("notification email failed", "user_id", u.ID, "error", err)
		}
	}
}

func (n *notifier) StatusChanged(ctx context.Context, iv *types.Intervention, from, to types.InterventionStatus, recipients []uuid.UUID) {
	if n == nil || iv == nil {
		return
	}
	title := fmt.Sprintf("Intervention %q is now %s", iv.Title, to)
	meta := map[string]any{
		"intervention_id": iv.ID.String(),
		"from":            string(from),
		"to":              string(to),
	}
	n.NotifyUsers(ctx, recipients, "intervention.status_changed", title, "", meta)

	if n.push != nil {
		for _, id := range dedupIDs(recipients) {
			err := n.push.Publish(ctx, realtime.Message{
				Channel: id.String(),
				Event:   realtime.EventInterventionStatusChanged,
				Data:    meta,
			})
			if err != nil {
				n.log.Warn("status change push failed", "intervention_id", iv.ID, "user_id", id, "error", err)
			}
		}
	}
}

func (n *notifier) QuoteRejected(ctx context.Context, q *types.Quote, reason string) {
	if n == nil || q == nil {
		return
	}
	meta := map[string]any{
		"quote_id":        q.ID.String(),
		"intervention_id": q.InterventionID.String(),
		"reason":          reason,
	}
	n.NotifyUsers(ctx, []uuid.UUID{q.ProviderID}, "quote.rejected", "Your quote was not selected", reason, meta)

	if n.push != nil {
		err := n.push.Publish(ctx, realtime.Message{
			Channel: q.ProviderID.String(),
			Event:   realtime.EventQuoteRejected,
			Data:    meta,
		})
		if err != nil {
			n.log.Warn("quote rejection push failed", "quote_id", q.ID, "error", err)
		}
	}
}

func dedupIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
