// Package errs provides the error types shared by the domain model, the
// application handlers and the persistence adapters.
//
// Every error type pairs with a sentinel so callers classify failures with
// errors.Is:
//   - ObjectNotFoundError -> ErrObjectNotFound
//   - ValueIsInvalidError -> ErrValueIsInvalid
//   - ValueIsOutOfRangeError -> ErrValueIsOutOfRange
//   - ValueIsRequiredError -> ErrValueIsRequired
//   - ConcurrentModificationError -> ErrConcurrentModification
//
// Types that accept a cause also expose it through Unwrap, so a domain
// sentinel passed as the cause (for example order.ErrInvalidStatusTransition)
// can be matched as well.
package errs
