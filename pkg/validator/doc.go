// Package validator provides a small rule-based validation engine with
// field-level error reporting.
//
// A Rule pairs a predicate with the error recorded when it fails; Apply runs
// a set of rules and returns ValidationErrors (which implements error) when
// any fail:
//
//	err := validator.Apply(
//		validator.Required("email", input.Email),
//		validator.Email("email", input.Email),
//		validator.MaxLen("email", input.Email, 150),
//	)
//	if ve := validator.Extract(err); ve != nil {
//		for _, field := range ve.Fields() {
//			// render ve.Get(field)
//		}
//	}
//
// Rules validate format only; uniqueness checks that need data access belong
// to the caller, which can append to the same ValidationErrors collection.
package validator
