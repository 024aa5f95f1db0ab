package service

import "storefront-backend/internal/domain"

// requireIdentity gates every mutating call, unauthenticated callers are
// rejected before any I/O.
func requireIdentity(identity domain.Identity) error {
	if identity.IsZero() {
		return domain.ErrNotAuthenticated
	}
	return nil
}
