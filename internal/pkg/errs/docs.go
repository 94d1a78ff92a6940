// Package errs provides the error taxonomy shared by the order tracker.
//
// Every failure an operation can surface maps to one of these types:
//   - ObjectNotFoundError: referenced order or identity is absent or soft-deleted
//   - ValueIsInvalidError / ValueIsRequiredError: malformed payload or role mismatch
//   - InvalidStateError: operation not legal in the order's current stage
//   - ConflictError: active-order rule violated or a concurrent write was lost
//   - UnauthorizedError / ForbiddenError: bad credential or insufficient role
//   - InternalError: store failure or external code collision
//
// Each type unwraps to a sentinel (ErrObjectNotFound, ErrInvalidState, ...) so callers
// classify failures with errors.Is and read details with errors.As.
package errs
