package domain

import (
	"github.com/aumugisha-umu/seido-backend/internal/domain/auth"
	"github.com/aumugisha-umu/seido-backend/internal/domain/property"
)

// Facade aliases so callers can depend on a single import for domain types.

type (
	Intervention        = property.Intervention
	Quote               = property.Quote
	Assignment          = property.Assignment
	ActivityLogEntry    = property.ActivityLogEntry
	Notification        = property.Notification
	InterventionComment = property.InterventionComment
	TimeSlot            = property.TimeSlot
	Building            = property.Building
	Lot                 = property.Lot
	LotManager          = property.LotManager

	InterventionStatus = property.InterventionStatus
	QuoteStatus        = property.QuoteStatus
	Role               = property.Role
	ConfirmationStatus = property.ConfirmationStatus

	User      = auth.User
	UserToken = auth.UserToken
)

const (
	InterventionPending           = property.InterventionPending
	InterventionRejected          = property.InterventionRejected
	InterventionApproved          = property.InterventionApproved
	InterventionQuoteRequested    = property.InterventionQuoteRequested
	InterventionScheduling        = property.InterventionScheduling
	InterventionScheduled         = property.InterventionScheduled
	InterventionInProgress        = property.InterventionInProgress
	InterventionProviderCompleted = property.InterventionProviderCompleted
	InterventionTenantValidated   = property.InterventionTenantValidated
	InterventionCompleted         = property.InterventionCompleted
	InterventionCancelled         = property.InterventionCancelled

	QuotePending   = property.QuotePending
	QuoteSent      = property.QuoteSent
	QuoteAccepted  = property.QuoteAccepted
	QuoteRejected  = property.QuoteRejected
	QuoteCancelled = property.QuoteCancelled

	RoleManager  = property.RoleManager
	RoleProvider = property.RoleProvider
	RoleTenant   = property.RoleTenant

	ConfirmationNotRequired = property.ConfirmationNotRequired
	ConfirmationPending     = property.ConfirmationPending
	ConfirmationConfirmed   = property.ConfirmationConfirmed
	ConfirmationRejected    = property.ConfirmationRejected
)
