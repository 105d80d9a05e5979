package purchasing

import (
	"context"

	"github.com/google/uuid"
)

// Actions checked before purchase order mutations
const (
	ActionCreateOrder  = "purchasing:order:create"
	ActionSubmitOrder  = "purchasing:order:submit"
	ActionApproveOrder = "purchasing:order:approve"
	ActionRejectOrder  = "purchasing:order:reject"
	ActionCloseOrder   = "purchasing:order:close"
	ActionReceiveOrder = "purchasing:order:receive"
	ActionViewOrder    = "purchasing:order:view"
)

// PermissionChecker decides whether a user may perform an action within
// an organization. Implementations live in the infrastructure layer.
type PermissionChecker interface {
	// Allowed returns true when the user may perform the action
	Allowed(ctx context.Context, orgID, userID uuid.UUID, action string) (bool, error)
}
