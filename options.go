package protoparquet

import "log/slog"

// UnmarshalOptions configures how Parquet records are converted to protobuf
// messages.
type UnmarshalOptions struct {
	// If IgnoreUnknownFields is set, Parquet schema fields with no
	// same-named field on the message descriptor are tolerated: their
	// values are decoded and discarded instead of failing construction.
	IgnoreUnknownFields bool

	// If AcceptUnknownEnum is set, an enum label that resolves through no
	// lookup tier is accepted as an unrecognized value with number -1
	// instead of failing the record.
	AcceptUnknownEnum bool

	// Logger receives diagnostics about accepted unknown enum values.
	// Defaults to slog.Default.
	Logger *slog.Logger
}

func (o UnmarshalOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
