package types

import "errors"

// Sentinel errors for PromoFilter operations.
var (
	// ErrUnknownProperty indicates a property name absent from the registry.
	ErrUnknownProperty = errors.New("property not in attribute registry")

	// ErrUnknownOperator indicates an operator token that could not be
	// canonicalized.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrOperatorMismatch indicates an operator outside the valid set for
	// the property's value type.
	ErrOperatorMismatch = errors.New("operator not valid for value type")

	// ErrMissingValues indicates fewer non-empty values than the operator's
	// arity requires.
	ErrMissingValues = errors.New("not enough values for operator")

	// ErrTooManyConditions indicates the condition list exceeds MaxConditions.
	ErrTooManyConditions = errors.New("condition list exceeds maximum size")

	// ErrTooManyInValues indicates an IN operator exceeds MaxInValues.
	ErrTooManyInValues = errors.New("IN operator has too many values")

	// ErrValueTooLong indicates an operand exceeds MaxValueLength.
	ErrValueTooLong = errors.New("condition value too long")

	// ErrEmptyRegistry indicates an engine constructed without any
	// registered attributes. Checked once at startup, never per call.
	ErrEmptyRegistry = errors.New("attribute registry has no properties")

	// ErrNilCatalog indicates an engine constructed without a catalog store.
	ErrNilCatalog = errors.New("catalog store cannot be nil")

	// ErrAttributeUnresolved indicates the catalog store failed to resolve
	// an attribute. Treated as a non-match during evaluation, never
	// propagated out of Apply.
	ErrAttributeUnresolved = errors.New("attribute could not be resolved")
)
