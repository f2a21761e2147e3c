package protoparquet

import (
	"fmt"

	"github.com/apache/arrow/go/v15/parquet/schema"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// listConverter unwraps the synthetic LIST encoding so the underlying
// elements convert like any other repeated field.
//
// A repeated proto field is stored as a LIST-annotated wrapper group
// holding a repeated group named "list", itself holding a single field
// named "element" of the element's type:
//
//	optional group first_array (LIST) {
//	    repeated group list {
//	        optional int64 element;
//	    }
//	}
//
// The wrapper and the inner "list" group carry no data of their own; only
// the element converter does real work.
type listConverter struct {
	element *listElementConverter
}

func newListConverter(
	m *messageConverter,
	field protoreflect.FieldDescriptor,
	parquetField schema.Node,
) (*listConverter, error) {
	if _, ok := parquetField.LogicalType().(schema.ListLogicalType); !ok || parquetField.Type() != schema.Group {
		return nil, fmt.Errorf(
			"%w: expected LIST wrapper, found %s instead",
			ErrSchemaMismatch, parquetField.LogicalType(),
		)
	}
	wrapper := parquetField.(*schema.GroupNode)
	listIndex := wrapper.FieldIndexByName("list")
	if listIndex < 0 || wrapper.Field(listIndex).Type() != schema.Group {
		return nil, fmt.Errorf(
			"%w: expected repeated \"list\" group inside LIST wrapper %q",
			ErrSchemaMismatch, wrapper.Name(),
		)
	}
	listGroup := wrapper.Field(listIndex).(*schema.GroupNode)
	elementIndex := listGroup.FieldIndexByName("element")
	if elementIndex < 0 {
		return nil, fmt.Errorf(
			"%w: expected \"element\" inside repeated \"list\" group of %q",
			ErrSchemaMismatch, wrapper.Name(),
		)
	}
	converter, err := m.newFieldConverter(field, listGroup.Field(elementIndex))
	if err != nil {
		return nil, err
	}
	return &listConverter{element: &listElementConverter{converter: converter}}, nil
}

func (c *listConverter) Primitive() bool { return false }

func (c *listConverter) Child(fieldIndex int) (Converter, error) {
	if fieldIndex != 0 {
		return nil, fmt.Errorf("%w: unexpected multiple fields in the LIST wrapper", ErrSchemaMismatch)
	}
	return c.element, nil
}

func (c *listConverter) Start() {}

func (c *listConverter) End() error { return nil }

// listElementConverter is the inner repeated "list" group: a structural
// no-op routing its single field to the element converter.
type listElementConverter struct {
	converter Converter
}

func (c *listElementConverter) Primitive() bool { return false }

func (c *listElementConverter) Child(fieldIndex int) (Converter, error) {
	if fieldIndex != 0 {
		return nil, fmt.Errorf("%w: unexpected multiple fields in the repeated \"list\" group", ErrSchemaMismatch)
	}
	return c.converter, nil
}

func (c *listElementConverter) Start() {}

func (c *listElementConverter) End() error { return nil }

// mapConverter unwraps the synthetic MAP encoding. A proto map field is
// stored as a MAP-annotated wrapper holding a repeated "key_value" group
// with the key and value columns; each key_value occurrence converts into
// one map entry.
type mapConverter struct {
	entries Converter
}

func newMapConverter(
	m *messageConverter,
	field protoreflect.FieldDescriptor,
	parquetField schema.Node,
) (*mapConverter, error) {
	if _, ok := parquetField.LogicalType().(schema.MapLogicalType); !ok || parquetField.Type() != schema.Group {
		return nil, fmt.Errorf(
			"%w: expected MAP wrapper, found %s instead",
			ErrSchemaMismatch, parquetField.LogicalType(),
		)
	}
	wrapper := parquetField.(*schema.GroupNode)
	keyValueIndex := wrapper.FieldIndexByName("key_value")
	if keyValueIndex < 0 {
		return nil, fmt.Errorf(
			"%w: expected \"key_value\" group inside MAP wrapper %q",
			ErrSchemaMismatch, wrapper.Name(),
		)
	}
	converter, err := m.newFieldConverter(field, wrapper.Field(keyValueIndex))
	if err != nil {
		return nil, err
	}
	return &mapConverter{entries: converter}, nil
}

func (c *mapConverter) Primitive() bool { return false }

func (c *mapConverter) Child(fieldIndex int) (Converter, error) {
	if fieldIndex != 0 {
		return nil, fmt.Errorf("%w: unexpected multiple fields in the MAP wrapper", ErrSchemaMismatch)
	}
	return c.entries, nil
}

func (c *mapConverter) Start() {}

func (c *mapConverter) End() error { return nil }
