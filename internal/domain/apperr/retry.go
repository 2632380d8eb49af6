package apperr

import (
	"context"
	"errors"
)

// RetryOnConflict runs fn and, if it lost an optimistic-version race, runs it
// exactly once more. A second conflict is surfaced as a KindConflict error.
func RetryOnConflict(ctx context.Context, fn func(context.Context) error) error {
	err := fn(ctx)
	if !isConflict(err) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	err = fn(ctx)
	if isConflict(err) {
		var e *Error
		if errors.As(err, &e) && e.Kind == KindConflict {
			return err
		}
		return Conflict(err)
	}
	return err
}

func isConflict(err error) bool {
	return err != nil && (errors.Is(err, ErrConflict) || IsKind(err, KindConflict))
}
