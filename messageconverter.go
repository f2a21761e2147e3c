package protoparquet

import (
	"fmt"

	"github.com/apache/arrow/go/v15/parquet"
	"github.com/apache/arrow/go/v15/parquet/schema"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// messageConverter rebuilds one message type from a Parquet group. It holds
// one child converter per Parquet schema field, aligned to the group's
// field order, and an in-progress builder message that the children
// populate through sinks. The whole subtree is constructed eagerly, before
// any value is delivered, and is reused across occurrences.
type messageConverter struct {
	opts       UnmarshalOptions
	parent     parentValueContainer
	builder    protoreflect.Message // nil on the skip path
	converters []Converter
	metadata   map[string]string
}

// newMessageConverter reconciles parquetSchema against builder's message
// descriptor, field by field in Parquet schema order, and builds the child
// converter tree. A nil builder means "skip: build nothing" and is only
// legal when unknown fields are tolerated.
func newMessageConverter(
	opts UnmarshalOptions,
	parent parentValueContainer,
	builder protoreflect.Message,
	parquetSchema *schema.GroupNode,
	metadata map[string]string,
) (*messageConverter, error) {
	if parent == nil {
		return nil, fmt.Errorf("%w: missing parent value container", ErrBadConfiguration)
	}
	m := &messageConverter{
		opts:       opts,
		parent:     parent,
		builder:    builder,
		converters: make([]Converter, parquetSchema.NumFields()),
		metadata:   metadata,
	}
	if builder == nil {
		if !opts.IgnoreUnknownFields {
			return nil, fmt.Errorf("%w: missing message builder", ErrBadConfiguration)
		}
		// Fast skip path: every field is discarded, no per-field lookups.
		for i := 0; i < parquetSchema.NumFields(); i++ {
			child, err := m.newSkippedConverter(parquetSchema.Field(i))
			if err != nil {
				return nil, err
			}
			m.converters[i] = child
		}
		return m, nil
	}
	descriptor := builder.Descriptor()
	for i := 0; i < parquetSchema.NumFields(); i++ {
		parquetField := parquetSchema.Field(i)
		field := descriptor.Fields().ByName(protoreflect.Name(parquetField.Name()))
		if field == nil {
			if !m.opts.IgnoreUnknownFields {
				return nil, fmt.Errorf(
					"%w: cannot find %q in proto descriptor %s %v",
					ErrSchemaMismatch, parquetField.Name(), descriptor.FullName(), fieldNames(descriptor),
				)
			}
			child, err := m.newSkippedConverter(parquetField)
			if err != nil {
				return nil, err
			}
			m.converters[i] = child
			continue
		}
		child, err := m.newFieldConverter(field, parquetField)
		if err != nil {
			return nil, err
		}
		m.converters[i] = child
	}
	return m, nil
}

func fieldNames(descriptor protoreflect.MessageDescriptor) []string {
	fields := descriptor.Fields()
	names := make([]string, fields.Len())
	for i := 0; i < fields.Len(); i++ {
		names[i] = string(fields.Get(i).Name())
	}
	return names
}

// newSkippedConverter returns a converter consuming and discarding every
// value under parquetField.
func (m *messageConverter) newSkippedConverter(parquetField schema.Node) (Converter, error) {
	if parquetField.Type() == schema.Primitive {
		primitive := parquetField.(*schema.PrimitiveNode)
		switch primitive.PhysicalType() {
		case parquet.Types.Boolean,
			parquet.Types.Int32,
			parquet.Types.Int64,
			parquet.Types.Int96,
			parquet.Types.Float,
			parquet.Types.Double,
			parquet.Types.ByteArray,
			parquet.Types.FixedLenByteArray:
			return discardConverter{}, nil
		}
		return nil, fmt.Errorf("%w: cannot convert parquet type %s", ErrUnsupportedType, primitive.PhysicalType())
	}
	return newMessageConverter(m.opts, discardValues, nil, parquetField.(*schema.GroupNode), m.metadata)
}

func (m *messageConverter) Primitive() bool { return false }

func (m *messageConverter) Child(fieldIndex int) (Converter, error) {
	if fieldIndex < 0 || fieldIndex >= len(m.converters) {
		return nil, fmt.Errorf("%w: no converter bound to field index %d", ErrSchemaMismatch, fieldIndex)
	}
	return m.converters[fieldIndex], nil
}

func (m *messageConverter) Start() {}

// End finalizes the in-progress message, delivers it to the owner exactly
// once, and installs a fresh builder so the converter tree can be driven
// again for the next occurrence.
func (m *messageConverter) End() error {
	if m.builder == nil {
		return nil
	}
	built := m.builder
	m.builder = built.New()
	return m.parent(protoreflect.ValueOfMessage(built))
}

// setterFor returns a sink setting a singular field on the current builder.
// The builder is resolved at delivery time: it changes on every End.
func (m *messageConverter) setterFor(field protoreflect.FieldDescriptor) parentValueContainer {
	return func(value protoreflect.Value) error {
		m.builder.Set(field, value)
		return nil
	}
}

// appenderFor returns a sink appending to a repeated field on the current
// builder. Map fields arrive here too: their values are completed key_value
// entry messages, decomposed into the map.
func (m *messageConverter) appenderFor(field protoreflect.FieldDescriptor) parentValueContainer {
	if field.IsMap() {
		return m.mapEntrySetterFor(field)
	}
	return func(value protoreflect.Value) error {
		m.builder.Mutable(field).List().Append(value)
		return nil
	}
}

// mapEntrySetterFor decomposes a built key_value entry message into the map
// field. Message-typed values are copied into a value allocated by the map
// itself, so a generated parent message receives its own concrete type
// rather than the entry converter's dynamic one.
func (m *messageConverter) mapEntrySetterFor(field protoreflect.FieldDescriptor) parentValueContainer {
	keyField := field.MapKey()
	valueField := field.MapValue()
	return func(value protoreflect.Value) error {
		entry := value.Message()
		mapValue := m.builder.Mutable(field).Map()
		entryValue := entry.Get(valueField)
		if valueField.Kind() == protoreflect.MessageKind || valueField.Kind() == protoreflect.GroupKind {
			merged := mapValue.NewValue()
			proto.Merge(merged.Message().Interface(), entryValue.Message().Interface())
			entryValue = merged
		}
		mapValue.Set(entry.Get(keyField).MapKey(), entryValue)
		return nil
	}
}

// newFieldConverter dispatches one reconciled field to a child converter.
// Logical annotations take precedence over the field's kind.
func (m *messageConverter) newFieldConverter(
	field protoreflect.FieldDescriptor,
	parquetField schema.Node,
) (Converter, error) {
	var parent parentValueContainer
	if field.Cardinality() == protoreflect.Repeated {
		parent = m.appenderFor(field)
	} else {
		parent = m.setterFor(field)
	}
	switch logicalType := parquetField.LogicalType().(type) {
	case schema.ListLogicalType:
		return newListConverter(m, field, parquetField)
	case schema.MapLogicalType:
		return newMapConverter(m, field, parquetField)
	case *schema.TimestampLogicalType:
		// An annotated column only converts to the well-known message when
		// the field asks for it; an int64 field keeps the raw epoch offset.
		if isMessageOf(field, wktTimestamp) {
			return newTimestampConverter(parent, logicalType)
		}
	case schema.DateLogicalType:
		if isMessageOf(field, wktDate) {
			return &dateConverter{parent: parent}, nil
		}
	case *schema.TimeLogicalType:
		if isMessageOf(field, wktTimeOfDay) {
			return newTimeConverter(parent, logicalType)
		}
	}
	return m.newScalarConverter(parent, field, parquetField)
}

func isMessageOf(field protoreflect.FieldDescriptor, fullName protoreflect.FullName) bool {
	return (field.Kind() == protoreflect.MessageKind || field.Kind() == protoreflect.GroupKind) &&
		field.Message().FullName() == fullName
}

// newScalarConverter selects a leaf converter by the message field's kind.
// A message-kind field over a primitive Parquet column denotes a well-known
// scalar wrapper; everything else message-kind recurses with a fresh
// sub-builder.
func (m *messageConverter) newScalarConverter(
	parent parentValueContainer,
	field protoreflect.FieldDescriptor,
	parquetField schema.Node,
) (Converter, error) {
	switch field.Kind() {
	case protoreflect.StringKind:
		return &stringConverter{parent: parent}, nil
	case protoreflect.FloatKind:
		return &floatConverter{parent: parent}, nil
	case protoreflect.DoubleKind:
		return &doubleConverter{parent: parent}, nil
	case protoreflect.BoolKind:
		return &booleanConverter{parent: parent}, nil
	case protoreflect.BytesKind:
		return &binaryConverter{parent: parent}, nil
	case protoreflect.EnumKind:
		return newEnumConverter(m.opts, parent, field, m.metadata)
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return &int32Converter{parent: parent}, nil
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return &uint32Converter{parent: parent}, nil
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return &int64Converter{parent: parent}, nil
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return &uint64Converter{parent: parent}, nil
	case protoreflect.MessageKind, protoreflect.GroupKind:
		if parquetField.Type() == schema.Primitive {
			// A primitive column bound to a message field is a wrapped
			// scalar, not a sub-message.
			if converter, ok := newWrapperValueConverter(parent, field.Message()); ok {
				return converter, nil
			}
			return nil, fmt.Errorf(
				"%w: cannot convert parquet primitive %q to message %s",
				ErrUnsupportedType, parquetField.Name(), field.Message().FullName(),
			)
		}
		builder := m.newBuilderForField(field)
		return newMessageConverter(m.opts, parent, builder, parquetField.(*schema.GroupNode), m.metadata)
	}
	return nil, fmt.Errorf(
		"%w: cannot convert field kind %s (parquet field %q)",
		ErrUnsupportedType, field.Kind(), parquetField.Name(),
	)
}

// newBuilderForField allocates a sub-message builder compatible with the
// owning builder's implementation. Map fields get a dynamic entry builder;
// their values never reach the parent directly (see mapEntrySetterFor).
func (m *messageConverter) newBuilderForField(field protoreflect.FieldDescriptor) protoreflect.Message {
	switch {
	case field.IsMap():
		return dynamicpb.NewMessage(field.Message())
	case field.IsList():
		return m.builder.NewField(field).List().NewElement().Message()
	default:
		return m.builder.NewField(field).Message()
	}
}

// RecordConverter materializes top-level Parquet records into protobuf
// messages of a single type. The record assembly pipeline drives it through
// the GroupConverter protocol, one Start/End bracket per record; Record
// returns the message completed by the most recent bracket.
type RecordConverter struct {
	*messageConverter
	record proto.Message
}

// NewRecordConverter builds the converter tree for message's type against
// parquetSchema. The message itself is only used as a prototype and is
// never mutated. metadata is the file footer's key/value metadata, consulted
// for enum bookkeeping entries; nil is legal.
func NewRecordConverter(
	message proto.Message,
	parquetSchema *schema.GroupNode,
	metadata map[string]string,
	opts UnmarshalOptions,
) (*RecordConverter, error) {
	c := &RecordConverter{}
	converter, err := newMessageConverter(
		opts,
		func(value protoreflect.Value) error {
			c.record = value.Message().Interface()
			return nil
		},
		message.ProtoReflect().New(),
		parquetSchema,
		metadata,
	)
	if err != nil {
		return nil, err
	}
	c.messageConverter = converter
	return c, nil
}

// Record returns the message materialized by the most recent record
// occurrence, or nil if none has completed yet.
func (c *RecordConverter) Record() proto.Message {
	return c.record
}
