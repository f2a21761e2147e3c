package protoparquet

import (
	"fmt"
	"math"

	"github.com/apache/arrow/go/v15/parquet"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type booleanConverter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *booleanConverter) AddBoolean(value bool) error {
	return c.parent(protoreflect.ValueOfBool(value))
}

type int32Converter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *int32Converter) AddInt32(value int32) error {
	return c.parent(protoreflect.ValueOfInt32(value))
}

type int64Converter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *int64Converter) AddInt64(value int64) error {
	return c.parent(protoreflect.ValueOfInt64(value))
}

// uint32Converter reinterprets the signed storage representation written
// for uint32 fields.
type uint32Converter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *uint32Converter) AddInt32(value int32) error {
	return c.parent(protoreflect.ValueOfUint32(uint32(value)))
}

func (c *uint32Converter) AddInt64(value int64) error {
	return c.parent(protoreflect.ValueOfUint32(uint32(value)))
}

type uint64Converter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *uint64Converter) AddInt64(value int64) error {
	return c.parent(protoreflect.ValueOfUint64(uint64(value)))
}

type floatConverter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *floatConverter) AddFloat(value float32) error {
	return c.parent(protoreflect.ValueOfFloat32(value))
}

type doubleConverter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *doubleConverter) AddDouble(value float64) error {
	return c.parent(protoreflect.ValueOfFloat64(value))
}

type stringConverter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *stringConverter) AddByteArray(value parquet.ByteArray) error {
	return c.parent(protoreflect.ValueOfString(string(value)))
}

type binaryConverter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *binaryConverter) AddByteArray(value parquet.ByteArray) error {
	// The pipeline may reuse the backing buffer after delivery.
	buf := make([]byte, len(value))
	copy(buf, value)
	return c.parent(protoreflect.ValueOfBytes(buf))
}

// newWrapperValueConverter returns the converter repackaging a primitive
// column into the given well-known scalar wrapper message type, or false if
// the message type is not a wrapper.
func newWrapperValueConverter(
	parent parentValueContainer,
	message protoreflect.MessageDescriptor,
) (Converter, bool) {
	switch message.FullName() {
	case wktDoubleValue:
		return &doubleValueConverter{parent: parent}, true
	case wktFloatValue:
		return &floatValueConverter{parent: parent}, true
	case wktInt64Value:
		return &int64ValueConverter{parent: parent}, true
	case wktUInt64Value:
		return &uint64ValueConverter{parent: parent}, true
	case wktInt32Value:
		return &int32ValueConverter{parent: parent}, true
	case wktUInt32Value:
		return &uint32ValueConverter{parent: parent}, true
	case wktBoolValue:
		return &boolValueConverter{parent: parent}, true
	case wktStringValue:
		return &stringValueConverter{parent: parent}, true
	case wktBytesValue:
		return &bytesValueConverter{parent: parent}, true
	}
	return nil, false
}

type doubleValueConverter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *doubleValueConverter) AddDouble(value float64) error {
	return c.parent(protoreflect.ValueOfMessage(wrapperspb.Double(value).ProtoReflect()))
}

type floatValueConverter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *floatValueConverter) AddFloat(value float32) error {
	return c.parent(protoreflect.ValueOfMessage(wrapperspb.Float(value).ProtoReflect()))
}

type int64ValueConverter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *int64ValueConverter) AddInt64(value int64) error {
	return c.parent(protoreflect.ValueOfMessage(wrapperspb.Int64(value).ProtoReflect()))
}

type uint64ValueConverter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *uint64ValueConverter) AddInt64(value int64) error {
	return c.parent(protoreflect.ValueOfMessage(wrapperspb.UInt64(uint64(value)).ProtoReflect()))
}

type int32ValueConverter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *int32ValueConverter) AddInt32(value int32) error {
	return c.parent(protoreflect.ValueOfMessage(wrapperspb.Int32(value).ProtoReflect()))
}

// uint32ValueConverter consumes the widened 64-bit storage representation
// and requires the value to fit a uint32 exactly.
type uint32ValueConverter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *uint32ValueConverter) AddInt64(value int64) error {
	if value < 0 || value > math.MaxUint32 {
		return fmt.Errorf("%w: value %d out of range for %s", ErrInvalidValue, value, wktUInt32Value)
	}
	return c.parent(protoreflect.ValueOfMessage(wrapperspb.UInt32(uint32(value)).ProtoReflect()))
}

type boolValueConverter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *boolValueConverter) AddBoolean(value bool) error {
	return c.parent(protoreflect.ValueOfMessage(wrapperspb.Bool(value).ProtoReflect()))
}

type stringValueConverter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *stringValueConverter) AddByteArray(value parquet.ByteArray) error {
	return c.parent(protoreflect.ValueOfMessage(wrapperspb.String(string(value)).ProtoReflect()))
}

type bytesValueConverter struct {
	baseValueConverter
	parent parentValueContainer
}

func (c *bytesValueConverter) AddByteArray(value parquet.ByteArray) error {
	buf := make([]byte, len(value))
	copy(buf, value)
	return c.parent(protoreflect.ValueOfMessage(wrapperspb.Bytes(buf).ProtoReflect()))
}
