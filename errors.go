package protoparquet

import "errors"

var (
	// ErrSchemaMismatch reports that the Parquet schema and the message
	// descriptor disagree: a Parquet field has no same-named message field,
	// or a LIST/MAP wrapper does not have the shape the format mandates.
	// Raised at converter-tree construction time.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrInvalidValue reports a decoded value that cannot be represented in
	// the target field, such as an unresolvable enum label or an integer
	// out of range for an unsigned wrapper. Raised during value delivery.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnsupportedType reports a physical/logical type combination with
	// no defined conversion. Raised at converter-tree construction time.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrBadConfiguration reports malformed enum bookkeeping metadata or an
	// unrecognized logical type unit.
	ErrBadConfiguration = errors.New("bad configuration")
)
