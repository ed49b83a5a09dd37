package errors

import "fmt"

// Wrap adds context to an error crossing a package boundary. It returns nil
// when err is nil, so call sites can wrap unconditionally.
//
// The sentinel chain stays intact for errors.Is:
//
//	entries, err := store.Load(ctx)
//	if err != nil {
//	    return errors.Wrap(err, "reading history")
//	}
//
// and callers can still branch on sentinels:
//
//	if errors.Is(err, errors.ErrUndoWindowExpired) {
//	    // Entry stays listed as non-reversible.
//	}
//
// IMPORTANT: Wrap only at package boundaries; wrapping every hop buries the
// cause under repeated context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted context message:
//
//	return errors.Wrapf(err, "change %d: %s", i, c.Action)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", msg, err)
}
