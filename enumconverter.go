package protoparquet

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v15/parquet"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// unrecognizedEnumNumber marks an enum label that resolved through no
// lookup tier but was accepted anyway.
const unrecognizedEnumNumber protoreflect.EnumNumber = -1

// enumConverter translates stored enum labels into enum numbers.
//
// The lookup table is built once, at construction: from the footer's
// bookkeeping metadata when the writer recorded one for this enum type, or
// from the enum's declared members otherwise. Labels unseen at construction
// are resolved lazily and cached; a cached resolution never changes for the
// lifetime of the table. Go protobuf enums are open, so numbers with no
// declared member are carried as-is instead of being synthesized into
// descriptors.
type enumConverter struct {
	baseValueConverter
	opts          UnmarshalOptions
	parent        parentValueContainer
	field         protoreflect.FieldDescriptor
	lookup        map[string]protoreflect.EnumNumber
	dict          []protoreflect.EnumNumber
	unknownPrefix string
}

func newEnumConverter(
	opts UnmarshalOptions,
	parent parentValueContainer,
	field protoreflect.FieldDescriptor,
	metadata map[string]string,
) (*enumConverter, error) {
	enum := field.Enum()
	lookup, err := newEnumLookup(enum, metadata)
	if err != nil {
		return nil, err
	}
	return &enumConverter{
		opts:          opts,
		parent:        parent,
		field:         field,
		lookup:        lookup,
		unknownPrefix: unknownEnumLabelPrefix + string(enum.Name()) + "_",
	}, nil
}

// newEnumLookup fills the structure translating stored enum labels into
// enum numbers.
func newEnumLookup(
	enum protoreflect.EnumDescriptor,
	metadata map[string]string,
) (map[string]protoreflect.EnumNumber, error) {
	lookup := make(map[string]protoreflect.EnumNumber)
	if pairs, ok := metadata[MetadataEnumPrefix+string(enum.FullName())]; ok {
		if strings.TrimSpace(pairs) == "" {
			// The writer saw no values of this enum.
			return lookup, nil
		}
		for _, item := range strings.Split(pairs, MetadataEnumItemSeparator) {
			nameAndNumber := strings.Split(item, MetadataEnumKeyValueSeparator)
			if len(nameAndNumber) != 2 {
				return nil, fmt.Errorf(
					"%w: invalid enum bookkeeping metadata for %s: %q",
					ErrBadConfiguration, enum.FullName(), pairs,
				)
			}
			number, err := strconv.ParseInt(nameAndNumber[1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf(
					"%w: invalid enum bookkeeping metadata for %s: %q",
					ErrBadConfiguration, enum.FullName(), pairs,
				)
			}
			lookup[nameAndNumber[0]] = protoreflect.EnumNumber(number)
		}
		return lookup, nil
	}
	values := enum.Values()
	for i := 0; i < values.Len(); i++ {
		value := values.Get(i)
		lookup[string(value.Name())] = value.Number()
	}
	return lookup, nil
}

// translate resolves one stored label, extending the lookup table on the
// way: exact hit, then the reserved UNKNOWN_ENUM_VALUE_<Enum>_<n> pattern,
// then rejection or -1 acceptance depending on configuration.
func (c *enumConverter) translate(label string) (protoreflect.EnumNumber, error) {
	if number, ok := c.lookup[label]; ok {
		return number, nil
	}
	if rest, ok := strings.CutPrefix(label, c.unknownPrefix); ok {
		if parsed, err := strconv.ParseInt(rest, 10, 32); err == nil {
			number := protoreflect.EnumNumber(parsed)
			c.lookup[label] = number
			return number, nil
		}
		// Not the reserved pattern after all; fall through.
	}
	if !c.opts.AcceptUnknownEnum {
		return 0, fmt.Errorf(
			"%w: illegal enum value %q for field %s, legal values are %v",
			ErrInvalidValue, label, c.field.FullName(), c.knownLabels(),
		)
	}
	c.opts.logger().Error(
		"accepting unknown enum value as number -1, the proto schema is likely outdated",
		"label", label,
		"field", string(c.field.FullName()),
	)
	c.lookup[label] = unrecognizedEnumNumber
	return unrecognizedEnumNumber, nil
}

func (c *enumConverter) knownLabels() []string {
	labels := make([]string, 0, len(c.lookup))
	for label := range c.lookup {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func (c *enumConverter) AddByteArray(value parquet.ByteArray) error {
	number, err := c.translate(string(value))
	if err != nil {
		return err
	}
	return c.parent(protoreflect.ValueOfEnum(number))
}

func (c *enumConverter) HasDictionarySupport() bool { return true }

// SetDictionary resolves every dictionary entry up front so that value
// delivery is a slice index. Resolution shares the lookup table with the
// direct path, keeping both consistent for the same label.
func (c *enumConverter) SetDictionary(dict Dictionary) error {
	c.dict = make([]protoreflect.EnumNumber, dict.Len())
	for id := range c.dict {
		number, err := c.translate(string(dict.ByteArray(id)))
		if err != nil {
			return err
		}
		c.dict[id] = number
	}
	return nil
}

func (c *enumConverter) AddValueFromDictionary(dictionaryID int) error {
	if dictionaryID < 0 || dictionaryID >= len(c.dict) {
		return fmt.Errorf("%w: dictionary id %d out of range", ErrInvalidValue, dictionaryID)
	}
	return c.parent(protoreflect.ValueOfEnum(c.dict[dictionaryID]))
}
