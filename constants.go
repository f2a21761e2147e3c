package protoparquet

// Footer metadata keys shared with the write side of the Parquet/Protobuf
// mapping. The writer records, per enum type, the name/number pairs it saw
// at encode time so that decode-time enum resolution stays exact even when
// the reader's proto schema has drifted.
const (
	// MetadataEnumPrefix prefixes the full name of an enum type to form the
	// footer metadata key of its bookkeeping entry.
	MetadataEnumPrefix = "parquet.proto.enum."

	// MetadataEnumItemSeparator joins name/number pairs in a bookkeeping
	// entry.
	MetadataEnumItemSeparator = ","

	// MetadataEnumKeyValueSeparator joins a name and its number within one
	// pair.
	MetadataEnumKeyValueSeparator = ":"
)

// unknownEnumLabelPrefix starts the reserved labels under which earlier
// writers stored enum numbers with no declared name, as
// "UNKNOWN_ENUM_VALUE_<EnumName>_<number>".
const unknownEnumLabelPrefix = "UNKNOWN_ENUM_VALUE_"

// Well-known wrapper and time types, dispatched on by full name.
const (
	wktTimestamp   = "google.protobuf.Timestamp"
	wktDate        = "google.type.Date"
	wktTimeOfDay   = "google.type.TimeOfDay"
	wktDoubleValue = "google.protobuf.DoubleValue"
	wktFloatValue  = "google.protobuf.FloatValue"
	wktInt32Value  = "google.protobuf.Int32Value"
	wktInt64Value  = "google.protobuf.Int64Value"
	wktUInt32Value = "google.protobuf.UInt32Value"
	wktUInt64Value = "google.protobuf.UInt64Value"
	wktBoolValue   = "google.protobuf.BoolValue"
	wktStringValue = "google.protobuf.StringValue"
	wktBytesValue  = "google.protobuf.BytesValue"
)
