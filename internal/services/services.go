// Package services implements the social interaction engine: the engagement
// ledger, activity fan-out, feed assembly, notification dispatch, badge
// evaluation, and reconciliation. Services keep multiple denormalized views
// in agreement without cross-aggregate transactions: every primary mutation
// is a single atomic document write, and everything downstream of it is a
// secondary effect that may fail independently and converge later.
package services

import (
	"errors"
	"fmt"

	"github.com/brushforge/backend/internal/apperr"
	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/store"
	"go.uber.org/zap"
)

// sideEffect runs one secondary effect after a committed primary mutation.
// A failure is logged and swallowed; it never rolls back the primary action
// and never stops sibling effects from attempting.
func sideEffect(logger *zap.Logger, effect string, fn func() error) {
	if err := fn(); err != nil {
		logger.Warn("secondary side effect failed",
			zap.String("effect", effect),
			zap.Error(&apperr.SideEffectError{Effect: effect, Err: err}))
	}
}

// mapStoreErr translates a store failure into the service error taxonomy.
func mapStoreErr(err error, what string, args ...any) error {
	if err == nil {
		return nil
	}
	subject := fmt.Sprintf(what, args...)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("%s", subject)
	}
	return apperr.TransientStore(subject, err)
}

func visibilityOf(isPublic bool) string {
	if isPublic {
		return models.VisibilityPublic
	}
	return models.VisibilityPrivate
}
