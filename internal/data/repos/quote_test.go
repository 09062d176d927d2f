package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/aumugisha-umu/seido-backend/internal/data/repos/testutil"
	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/domain/property"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
)

func TestQuoteRepoGuardedWrites(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)

	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewQuoteRepo(gdb, testutil.Logger(t))

	interventionID := uuid.New()
	provider1 := uuid.New()
	provider2 := uuid.New()
	approver := uuid.New()

	q1 := &types.Quote{ID: uuid.New(), InterventionID: interventionID, ProviderID: provider1, Status: types.QuotePending, AmountCents: 10000, Currency: "EUR"}
	q2 := &types.Quote{ID: uuid.New(), InterventionID: interventionID, ProviderID: provider2, Status: types.QuoteSent, AmountCents: 12000, Currency: "EUR"}
	// Legacy rows keep their stored alias string; guards must still match them.
	q3 := &types.Quote{ID: uuid.New(), InterventionID: interventionID, ProviderID: uuid.New(), Status: types.QuoteStatus("en_attente"), AmountCents: 9000, Currency: "EUR"}
	if _, err := repo.Create(dbc, []*types.Quote{q1, q2, q3}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := repo.UpdateStatusGuarded(dbc, q1.ID, types.QuoteAccepted, property.QuoteApprovableSet(), map[string]any{"validated_by": approver})
	if err != nil || !ok {
		t.Fatalf("UpdateStatusGuarded accept: ok=%v err=%v", ok, err)
	}

	// Guard must not match a resolved quote a second time.
	ok, err = repo.UpdateStatusGuarded(dbc, q1.ID, types.QuoteAccepted, property.QuoteApprovableSet(), nil)
	if err != nil {
		t.Fatalf("UpdateStatusGuarded repeat: %v", err)
	}
	if ok {
		t.Fatalf("UpdateStatusGuarded matched an already accepted quote")
	}

	n, err := repo.BulkRejectOthers(dbc, interventionID, q1.ID, property.QuoteApprovableSet(), "another quote was selected", approver)
	if err != nil {
		t.Fatalf("BulkRejectOthers: %v", err)
	}
	if n != 2 {
		t.Fatalf("BulkRejectOthers rows: want=2 got=%d", n)
	}

	rows, err := repo.ListByIntervention(dbc, interventionID)
	if err != nil || len(rows) != 3 {
		t.Fatalf("ListByIntervention: err=%v len=%d", err, len(rows))
	}
	for _, row := range rows {
		if row.ID == q1.ID {
			if row.Status != types.QuoteAccepted {
				t.Fatalf("approved quote status: got=%s", row.Status)
			}
			continue
		}
		if row.Status != types.QuoteRejected {
			t.Fatalf("competitor %s status: got=%s", row.ID, row.Status)
		}
		if row.RejectionReason != "another quote was selected" {
			t.Fatalf("competitor rejection reason: got=%q", row.RejectionReason)
		}
	}
}

func TestQuoteRepoReassignProviderQuotes(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)

	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewQuoteRepo(gdb, testutil.Logger(t))

	parent := uuid.New()
	child := uuid.New()
	provider := uuid.New()
	other := uuid.New()

	rows := []*types.Quote{
		{ID: uuid.New(), InterventionID: parent, ProviderID: provider, Status: types.QuotePending, Currency: "EUR"},
		{ID: uuid.New(), InterventionID: parent, ProviderID: other, Status: types.QuotePending, Currency: "EUR"},
	}
	if _, err := repo.Create(dbc, rows); err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := repo.ReassignProviderQuotes(dbc, parent, provider, child)
	if err != nil || n != 1 {
		t.Fatalf("ReassignProviderQuotes: n=%d err=%v", n, err)
	}

	moved, err := repo.ListByIntervention(dbc, child)
	if err != nil || len(moved) != 1 || moved[0].ProviderID != provider {
		t.Fatalf("child quotes after reassign: err=%v rows=%v", err, moved)
	}
}
