package protoparquet

import (
	"testing"

	"github.com/apache/arrow/go/v15/parquet"
	"github.com/apache/arrow/go/v15/parquet/schema"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"

	// Register the well-known and google.type files referenced by the test
	// descriptors in the global registry.
	_ "google.golang.org/genproto/googleapis/type/date"
	_ "google.golang.org/genproto/googleapis/type/timeofday"
	_ "google.golang.org/protobuf/types/known/timestamppb"
	_ "google.golang.org/protobuf/types/known/wrapperspb"
)

// The test message types are built dynamically so the tests exercise the
// same reflective paths the converter uses, without a codegen step.
var (
	testFile        = mustTestFile()
	kitchenSinkDesc = testFile.Messages().ByName("KitchenSink")
	nestedDesc      = testFile.Messages().ByName("Nested")
)

func mustTestFile() protoreflect.FileDescriptor {
	file, err := protodesc.NewFile(&descriptorpb.FileDescriptorProto{
		Name:    proto.String("wayplatform/testdata/conversion.proto"),
		Package: proto.String("wayplatform.testdata"),
		Syntax:  proto.String("proto3"),
		Dependency: []string{
			"google/protobuf/wrappers.proto",
			"google/protobuf/timestamp.proto",
			"google/type/date.proto",
			"google/type/timeofday.proto",
		},
		EnumType: []*descriptorpb.EnumDescriptorProto{
			{
				Name: proto.String("Severity"),
				Value: []*descriptorpb.EnumValueDescriptorProto{
					{Name: proto.String("SEVERITY_UNSPECIFIED"), Number: proto.Int32(0)},
					{Name: proto.String("SEVERITY_LOW"), Number: proto.Int32(1)},
					{Name: proto.String("SEVERITY_HIGH"), Number: proto.Int32(2)},
				},
			},
		},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Nested"),
				Field: []*descriptorpb.FieldDescriptorProto{
					testField("name", 1, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
					testField("count", 2, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_INT64, ""),
				},
			},
			{
				Name: proto.String("KitchenSink"),
				Field: []*descriptorpb.FieldDescriptorProto{
					testField("string_value", 1, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
					testField("int32_value", 2, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_INT32, ""),
					testField("int64_value", 3, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_INT64, ""),
					testField("uint32_value", 4, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_UINT32, ""),
					testField("uint64_value", 5, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_UINT64, ""),
					testField("float_value", 6, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_FLOAT, ""),
					testField("double_value", 7, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE, ""),
					testField("bool_value", 8, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_BOOL, ""),
					testField("bytes_value", 9, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_BYTES, ""),
					testField("severity", 10, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_ENUM, ".wayplatform.testdata.Severity"),
					testField("nested", 11, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".wayplatform.testdata.Nested"),
					testField("int64_list", 12, descriptorpb.FieldDescriptorProto_LABEL_REPEATED, descriptorpb.FieldDescriptorProto_TYPE_INT64, ""),
					testField("nested_list", 13, descriptorpb.FieldDescriptorProto_LABEL_REPEATED, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".wayplatform.testdata.Nested"),
					testField("int32_map", 14, descriptorpb.FieldDescriptorProto_LABEL_REPEATED, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".wayplatform.testdata.KitchenSink.Int32MapEntry"),
					testField("nested_map", 15, descriptorpb.FieldDescriptorProto_LABEL_REPEATED, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".wayplatform.testdata.KitchenSink.NestedMapEntry"),
					testField("timestamp", 16, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.protobuf.Timestamp"),
					testField("date", 17, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.type.Date"),
					testField("time_of_day", 18, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.type.TimeOfDay"),
					testField("double_wrapper", 19, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.protobuf.DoubleValue"),
					testField("float_wrapper", 20, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.protobuf.FloatValue"),
					testField("int32_wrapper", 21, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.protobuf.Int32Value"),
					testField("int64_wrapper", 22, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.protobuf.Int64Value"),
					testField("uint32_wrapper", 23, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.protobuf.UInt32Value"),
					testField("uint64_wrapper", 24, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.protobuf.UInt64Value"),
					testField("bool_wrapper", 25, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.protobuf.BoolValue"),
					testField("string_wrapper", 26, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.protobuf.StringValue"),
					testField("bytes_wrapper", 27, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.protobuf.BytesValue"),
					testField("severity_list", 28, descriptorpb.FieldDescriptorProto_LABEL_REPEATED, descriptorpb.FieldDescriptorProto_TYPE_ENUM, ".wayplatform.testdata.Severity"),
				},
				NestedType: []*descriptorpb.DescriptorProto{
					testMapEntry("Int32MapEntry", descriptorpb.FieldDescriptorProto_TYPE_INT32, ""),
					testMapEntry("NestedMapEntry", descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".wayplatform.testdata.Nested"),
				},
			},
		},
	}, protoregistry.GlobalFiles)
	if err != nil {
		panic(err)
	}
	return file
}

func testField(
	name string,
	number int32,
	label descriptorpb.FieldDescriptorProto_Label,
	typ descriptorpb.FieldDescriptorProto_Type,
	typeName string,
) *descriptorpb.FieldDescriptorProto {
	field := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  label.Enum(),
		Type:   typ.Enum(),
	}
	if typeName != "" {
		field.TypeName = proto.String(typeName)
	}
	return field
}

func testMapEntry(
	name string,
	valueType descriptorpb.FieldDescriptorProto_Type,
	valueTypeName string,
) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{
		Name: proto.String(name),
		Field: []*descriptorpb.FieldDescriptorProto{
			testField("key", 1, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
			testField("value", 2, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, valueType, valueTypeName),
		},
		Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
	}
}

func newKitchenSink() *dynamicpb.Message {
	return dynamicpb.NewMessage(kitchenSinkDesc)
}

func newNested(name string, count int64) *dynamicpb.Message {
	nested := dynamicpb.NewMessage(nestedDesc)
	nested.Set(fieldByName(nestedDesc, "name"), protoreflect.ValueOfString(name))
	nested.Set(fieldByName(nestedDesc, "count"), protoreflect.ValueOfInt64(count))
	return nested
}

func fieldByName(descriptor protoreflect.MessageDescriptor, name string) protoreflect.FieldDescriptor {
	field := descriptor.Fields().ByName(protoreflect.Name(name))
	if field == nil {
		panic("no field " + name + " in " + string(descriptor.FullName()))
	}
	return field
}

// Parquet schema shorthand for the test tables.

func testSchema(fields ...schema.Node) *schema.GroupNode {
	return schema.MustGroup(schema.NewGroupNode("KitchenSink", parquet.Repetitions.Required, fields, -1))
}

func stringNode(name string) schema.Node {
	return schema.MustPrimitive(schema.NewPrimitiveNodeLogical(
		name, parquet.Repetitions.Optional, schema.StringLogicalType{}, parquet.Types.ByteArray, -1, -1))
}

func enumNode(name string) schema.Node {
	return schema.MustPrimitive(schema.NewPrimitiveNodeLogical(
		name, parquet.Repetitions.Optional, schema.EnumLogicalType{}, parquet.Types.ByteArray, -1, -1))
}

func dateNode(name string) schema.Node {
	return schema.MustPrimitive(schema.NewPrimitiveNodeLogical(
		name, parquet.Repetitions.Optional, schema.DateLogicalType{}, parquet.Types.Int32, -1, -1))
}

func timeNode(name string, unit schema.TimeUnitType, physical parquet.Type) schema.Node {
	return schema.MustPrimitive(schema.NewPrimitiveNodeLogical(
		name, parquet.Repetitions.Optional, schema.NewTimeLogicalType(true, unit), physical, -1, -1))
}

func timestampNode(name string, unit schema.TimeUnitType) schema.Node {
	return schema.MustPrimitive(schema.NewPrimitiveNodeLogical(
		name, parquet.Repetitions.Optional, schema.NewTimestampLogicalType(true, unit), parquet.Types.Int64, -1, -1))
}

func listNode(name string, element schema.Node) schema.Node {
	inner := schema.MustGroup(schema.NewGroupNode(
		"list", parquet.Repetitions.Repeated, schema.FieldList{element}, -1))
	return schema.MustGroup(schema.NewGroupNodeLogical(
		name, parquet.Repetitions.Optional, schema.FieldList{inner}, schema.NewListLogicalType(), -1))
}

func mapNode(name string, key, value schema.Node) schema.Node {
	keyValue := schema.MustGroup(schema.NewGroupNode(
		"key_value", parquet.Repetitions.Repeated, schema.FieldList{key, value}, -1))
	return schema.MustGroup(schema.NewGroupNodeLogical(
		name, parquet.Repetitions.Optional, schema.FieldList{keyValue}, schema.MapLogicalType{}, -1))
}

func groupNode(name string, repetition parquet.Repetition, fields ...schema.Node) schema.Node {
	return schema.MustGroup(schema.NewGroupNode(name, repetition, fields, -1))
}

// Tree navigation shorthand for driving the converter protocol by hand.

func childAt(t *testing.T, converter Converter, path ...int) Converter {
	t.Helper()
	for _, index := range path {
		group, ok := converter.(GroupConverter)
		if !ok {
			t.Fatalf("converter at %v is not a group converter", path)
		}
		next, err := group.Child(index)
		if err != nil {
			t.Fatalf("Child(%d): %v", index, err)
		}
		converter = next
	}
	return converter
}

func valueAt(t *testing.T, converter Converter, path ...int) ValueConverter {
	t.Helper()
	value, ok := childAt(t, converter, path...).(ValueConverter)
	if !ok {
		t.Fatalf("converter at %v is not a value converter", path)
	}
	return value
}

func groupAt(t *testing.T, converter Converter, path ...int) GroupConverter {
	t.Helper()
	group, ok := childAt(t, converter, path...).(GroupConverter)
	if !ok {
		t.Fatalf("converter at %v is not a group converter", path)
	}
	return group
}
