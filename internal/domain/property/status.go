package property

import (
	"fmt"
	"strings"
)

// InterventionStatus values are wire-stable: external clients depend on the
// exact strings.
type InterventionStatus string

const (
	InterventionPending           InterventionStatus = "pending"
	InterventionRejected          InterventionStatus = "rejected"
	InterventionApproved          InterventionStatus = "approved"
	InterventionQuoteRequested    InterventionStatus = "quote_requested"
	InterventionScheduling        InterventionStatus = "scheduling"
	InterventionScheduled         InterventionStatus = "scheduled"
	InterventionInProgress        InterventionStatus = "in_progress"
	InterventionProviderCompleted InterventionStatus = "provider_completed"
	InterventionTenantValidated   InterventionStatus = "tenant_validated"
	InterventionCompleted         InterventionStatus = "completed"
	InterventionCancelled         InterventionStatus = "cancelled"
)

var interventionTransitions = map[InterventionStatus][]InterventionStatus{
	InterventionPending:           {InterventionApproved, InterventionRejected},
	InterventionApproved:          {InterventionQuoteRequested, InterventionCancelled},
	InterventionQuoteRequested:    {InterventionScheduling, InterventionCancelled},
	InterventionScheduling:        {InterventionScheduled, InterventionCancelled},
	InterventionScheduled:         {InterventionInProgress, InterventionCancelled},
	InterventionInProgress:        {InterventionProviderCompleted, InterventionCancelled},
	InterventionProviderCompleted: {InterventionTenantValidated},
	InterventionTenantValidated:   {InterventionCompleted},
	InterventionRejected:          {},
	InterventionCompleted:         {},
	InterventionCancelled:         {},
}

func (s InterventionStatus) Valid() bool {
	_, ok := interventionTransitions[s]
	return ok
}

func (s InterventionStatus) IsTerminal() bool {
	next, ok := interventionTransitions[s]
	return ok && len(next) == 0
}

func (s InterventionStatus) CanTransitionTo(next InterventionStatus) bool {
	for _, allowed := range interventionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CancellableStatuses is the set of statuses from which an intervention may be
// cancelled.
func CancellableStatuses() []InterventionStatus {
	return []InterventionStatus{
		InterventionApproved,
		InterventionQuoteRequested,
		InterventionScheduling,
		InterventionScheduled,
		InterventionInProgress,
	}
}

func StatusStrings(statuses []InterventionStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func ParseInterventionStatus(raw string) (InterventionStatus, error) {
	s := InterventionStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown intervention status %q", raw)
	}
	return s, nil
}

// QuoteStatus values are wire-stable. Two legacy variants of "pending" survive
// in stored rows and in older clients; they normalize to QuotePending at the
// boundary and are included in SQL status guards so legacy rows behave
// identically without a data rewrite.
type QuoteStatus string

const (
	QuotePending   QuoteStatus = "pending"
	QuoteSent      QuoteStatus = "sent"
	QuoteAccepted  QuoteStatus = "accepted"
	QuoteRejected  QuoteStatus = "rejected"
	QuoteCancelled QuoteStatus = "cancelled"
)

const (
	quotePendingAliasFR     = "en_attente"
	quotePendingAliasLegacy = "pending_validation"
)

func ParseQuoteStatus(raw string) (QuoteStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(QuotePending), quotePendingAliasFR, quotePendingAliasLegacy:
		return QuotePending, nil
	case string(QuoteSent):
		return QuoteSent, nil
	case string(QuoteAccepted):
		return QuoteAccepted, nil
	case string(QuoteRejected):
		return QuoteRejected, nil
	case string(QuoteCancelled):
		return QuoteCancelled, nil
	default:
		return "", fmt.Errorf("unknown quote status %q", raw)
	}
}

// QuotePendingSet is the expanded pending set for SQL guards.
func QuotePendingSet() []string {
	return []string{string(QuotePending), quotePendingAliasFR, quotePendingAliasLegacy}
}

// QuoteApprovableSet covers every status from which a quote may be accepted.
func QuoteApprovableSet() []string {
	return append(QuotePendingSet(), string(QuoteSent))
}

// IsResolved reports whether the quote reached a final status.
func (s QuoteStatus) IsResolved() bool {
	return s == QuoteAccepted || s == QuoteRejected || s == QuoteCancelled
}

type Role string

const (
	RoleManager  Role = "manager"
	RoleProvider Role = "provider"
	RoleTenant   Role = "tenant"
)

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleManager:
		return RoleManager, nil
	case RoleProvider:
		return RoleProvider, nil
	case RoleTenant:
		return RoleTenant, nil
	default:
		return "", fmt.Errorf("unknown assignment role %q", raw)
	}
}

type ConfirmationStatus string

const (
	ConfirmationNotRequired ConfirmationStatus = "not_required"
	ConfirmationPending     ConfirmationStatus = "pending"
	ConfirmationConfirmed   ConfirmationStatus = "confirmed"
	ConfirmationRejected    ConfirmationStatus = "rejected"
)
