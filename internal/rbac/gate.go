package rbac

import (
	"fmt"

	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// Require checks that the exact capability is present in the granted set.
// Deny-by-default: no prefix matching, no hierarchy. Admin's broader reach is
// explicit enumeration in the catalog, not inheritance here.
func Require(granted []string, needed string) error {
	for _, cap := range granted {
		if cap == needed {
			return nil
		}
	}
	return fmt.Errorf("%w: missing capability %s", shared.ErrUnauthorized, needed)
}
