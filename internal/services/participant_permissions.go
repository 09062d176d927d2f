package services

import (
	types "github.com/aumugisha-umu/seido-backend/internal/domain"
)

// PermissionSet is what a participant may do on one intervention right now.
// It is derived, never stored; clients re-fetch it after every state change.
type PermissionSet struct {
	CanInteract        bool   `json:"can_interact"`
	CanConfirm         bool   `json:"can_confirm"`
	CanEditSchedule    bool   `json:"can_edit_schedule"`
	CanChat            bool   `json:"can_chat"`
	CanUploadDocuments bool   `json:"can_upload_documents"`
	CanManageQuotes    bool   `json:"can_manage_quotes"`
	Reason             string `json:"reason,omitempty"`
}

func fullAccess() PermissionSet {
	return PermissionSet{
		CanInteract:        true,
		CanEditSchedule:    true,
		CanChat:            true,
		CanUploadDocuments: true,
		CanManageQuotes:    true,
	}
}

// ResolveParticipantPermissions computes a participant's capability envelope.
// The creator always has full access, and confirmation gating only applies
// when both the intervention and the assignment ask for it. An unrecognized
// confirmation status degrades to chat-only rather than granting everything.
func ResolveParticipantPermissions(iv *types.Intervention, assignment *types.Assignment, isCreator bool) PermissionSet {
	if iv == nil {
		return PermissionSet{Reason: "intervention not found"}
	}

	if isCreator {
		return fullAccess()
	}

	if !iv.RequiresParticipantConfirmation {
		return fullAccess()
	}

	if assignment == nil {
		return PermissionSet{Reason: "not assigned to this intervention"}
	}

	if !assignment.RequiresConfirmation || assignment.ConfirmationStatus == types.ConfirmationNotRequired {
		return fullAccess()
	}

	switch assignment.ConfirmationStatus {
	case types.ConfirmationPending:
		return PermissionSet{
			CanInteract: true,
			CanConfirm:  true,
			CanChat:     true,
			Reason:      "confirmation required",
		}
	case types.ConfirmationConfirmed:
		return fullAccess()
	case types.ConfirmationRejected:
		return PermissionSet{CanChat: true, Reason: "participation declined"}
	default:
		return PermissionSet{CanChat: true, Reason: "confirmation state unknown"}
	}
}
