package protoparquet

import (
	"fmt"

	"github.com/apache/arrow/go/v15/parquet"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Converter is one node in a record conversion tree. A node is either a
// ValueConverter consuming decoded primitive column values, or a
// GroupConverter consuming occurrence brackets of a group and routing its
// fields to child converters.
type Converter interface {
	// Primitive reports whether the node is a ValueConverter.
	Primitive() bool
}

// ValueConverter consumes decoded primitive values for a single column.
// The record assembly pipeline calls exactly one Add method per observed
// value, matching the column's physical type.
//
// A pipeline that has decoded a dictionary for the column may install it
// with SetDictionary once HasDictionarySupport reports true, and then
// deliver values as dictionary ids through AddValueFromDictionary.
type ValueConverter interface {
	Converter

	AddBoolean(value bool) error
	AddInt32(value int32) error
	AddInt64(value int64) error
	AddFloat(value float32) error
	AddDouble(value float64) error
	AddByteArray(value parquet.ByteArray) error

	// HasDictionarySupport reports whether the converter can consume values
	// as dictionary ids.
	HasDictionarySupport() bool

	// SetDictionary installs the decoded dictionary for the current column
	// chunk. Only valid when HasDictionarySupport reports true.
	SetDictionary(dict Dictionary) error

	// AddValueFromDictionary delivers one value as an id into the installed
	// dictionary.
	AddValueFromDictionary(dictionaryID int) error
}

// GroupConverter consumes one occurrence of a group. The pipeline brackets
// each occurrence with Start and End, and between them resolves the child
// converter for every observed field position.
type GroupConverter interface {
	Converter

	// Child returns the converter bound to the field at fieldIndex in the
	// group's Parquet schema.
	Child(fieldIndex int) (Converter, error)

	// Start begins one occurrence of the group.
	Start()

	// End completes the occurrence. For message-building converters this
	// finalizes the in-progress message and hands it to the owner.
	End() error
}

// Dictionary exposes the decoded entries of a dictionary-encoded column
// chunk by id. Decoding the dictionary itself is the pipeline's concern.
type Dictionary interface {
	// Len returns the number of entries.
	Len() int

	// ByteArray returns the entry at id decoded as a byte array.
	ByteArray(id int) parquet.ByteArray
}

// parentValueContainer accepts one converted value and hands it to whatever
// owns it: a singular field setter, a repeated field appender, a map entry
// setter, or a discard.
type parentValueContainer func(value protoreflect.Value) error

func discardValues(protoreflect.Value) error { return nil }

// baseValueConverter rejects every delivery. Concrete converters embed it
// and override the methods matching their column's physical type, so that a
// pipeline delivering a mismatched physical kind gets an error instead of a
// silent corruption.
type baseValueConverter struct{}

func (baseValueConverter) Primitive() bool { return true }

func (baseValueConverter) AddBoolean(bool) error {
	return errUnexpectedDelivery("boolean")
}

func (baseValueConverter) AddInt32(int32) error {
	return errUnexpectedDelivery("int32")
}

func (baseValueConverter) AddInt64(int64) error {
	return errUnexpectedDelivery("int64")
}

func (baseValueConverter) AddFloat(float32) error {
	return errUnexpectedDelivery("float")
}

func (baseValueConverter) AddDouble(float64) error {
	return errUnexpectedDelivery("double")
}

func (baseValueConverter) AddByteArray(parquet.ByteArray) error {
	return errUnexpectedDelivery("byte array")
}

func (baseValueConverter) HasDictionarySupport() bool { return false }

func (baseValueConverter) SetDictionary(Dictionary) error {
	return errUnexpectedDelivery("dictionary")
}

func (baseValueConverter) AddValueFromDictionary(int) error {
	return errUnexpectedDelivery("dictionary id")
}

func errUnexpectedDelivery(kind string) error {
	return fmt.Errorf("%w: converter does not accept %s values", ErrUnsupportedType, kind)
}

// discardConverter accepts any primitive value and drops it. Installed for
// Parquet fields that have no counterpart on the message descriptor when
// unknown fields are tolerated.
type discardConverter struct{}

func (discardConverter) Primitive() bool { return true }

func (discardConverter) AddBoolean(bool) error { return nil }

func (discardConverter) AddInt32(int32) error { return nil }

func (discardConverter) AddInt64(int64) error { return nil }

func (discardConverter) AddFloat(float32) error { return nil }

func (discardConverter) AddDouble(float64) error { return nil }

func (discardConverter) AddByteArray(parquet.ByteArray) error { return nil }

func (discardConverter) HasDictionarySupport() bool { return false }

func (discardConverter) SetDictionary(Dictionary) error { return nil }

func (discardConverter) AddValueFromDictionary(int) error { return nil }
