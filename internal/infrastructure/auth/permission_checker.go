package auth

import (
	"context"

	"github.com/google/uuid"
)

// ClaimsPermissionChecker answers permission checks from the JWT claims
// carried on the request context. The claims must belong to the same
// user and organization the check is made for.
type ClaimsPermissionChecker struct{}

// NewClaimsPermissionChecker creates a new ClaimsPermissionChecker
func NewClaimsPermissionChecker() *ClaimsPermissionChecker {
	return &ClaimsPermissionChecker{}
}

// Allowed reports whether the authenticated user may perform the action
func (c *ClaimsPermissionChecker) Allowed(ctx context.Context, orgID, userID uuid.UUID, action string) (bool, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return false, nil
	}
	if claims.OrgID != orgID || claims.UserID != userID {
		return false, nil
	}
	return claims.HasPermission(action), nil
}
