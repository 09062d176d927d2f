package property

import "testing"

func TestInterventionTransitionGraph(t *testing.T) {
	allowed := []struct {
		from, to InterventionStatus
	}{
		{InterventionPending, InterventionApproved},
		{InterventionPending, InterventionRejected},
		{InterventionApproved, InterventionQuoteRequested},
		{InterventionQuoteRequested, InterventionScheduling},
		{InterventionScheduling, InterventionScheduled},
		{InterventionScheduled, InterventionInProgress},
		{InterventionInProgress, InterventionProviderCompleted},
		{InterventionProviderCompleted, InterventionTenantValidated},
		{InterventionTenantValidated, InterventionCompleted},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	denied := []struct {
		from, to InterventionStatus
	}{
		{InterventionPending, InterventionScheduled},
		{InterventionRejected, InterventionApproved},
		{InterventionCompleted, InterventionInProgress},
		{InterventionCancelled, InterventionApproved},
		{InterventionProviderCompleted, InterventionCancelled},
	}
	for _, tc := range denied {
		if tc.from.CanTransitionTo(tc.to) {
			t.Errorf("%s -> %s should be denied", tc.from, tc.to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range []InterventionStatus{InterventionRejected, InterventionCompleted, InterventionCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []InterventionStatus{InterventionPending, InterventionScheduling, InterventionTenantValidated} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestCancellableStatuses(t *testing.T) {
	for _, s := range CancellableStatuses() {
		if !s.CanTransitionTo(InterventionCancelled) {
			t.Errorf("%s is in the cancellable set but cannot transition to cancelled", s)
		}
	}
	for _, s := range []InterventionStatus{InterventionPending, InterventionProviderCompleted, InterventionCompleted} {
		if s.CanTransitionTo(InterventionCancelled) {
			t.Errorf("%s should not be cancellable", s)
		}
	}
}

func TestParseQuoteStatusAliases(t *testing.T) {
	for _, raw := range []string{"pending", "en_attente", "pending_validation", " EN_ATTENTE "} {
		got, err := ParseQuoteStatus(raw)
		if err != nil || got != QuotePending {
			t.Errorf("ParseQuoteStatus(%q) = %v, %v; want pending", raw, got, err)
		}
	}
	if _, err := ParseQuoteStatus("approved"); err == nil {
		t.Error("ParseQuoteStatus(approved) should fail")
	}

	set := QuotePendingSet()
	if len(set) != 3 {
		t.Fatalf("QuotePendingSet: %v", set)
	}
	approvable := QuoteApprovableSet()
	if len(approvable) != 4 || approvable[3] != string(QuoteSent) {
		t.Fatalf("QuoteApprovableSet: %v", approvable)
	}
}

func TestQuoteStatusIsResolved(t *testing.T) {
	for _, s := range []QuoteStatus{QuoteAccepted, QuoteRejected, QuoteCancelled} {
		if !s.IsResolved() {
			t.Errorf("%s should be resolved", s)
		}
	}
	for _, s := range []QuoteStatus{QuotePending, QuoteSent} {
		if s.IsResolved() {
			t.Errorf("%s should not be resolved", s)
		}
	}
}
