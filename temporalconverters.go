package protoparquet

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/apache/arrow/go/v15/parquet/schema"
	"google.golang.org/genproto/googleapis/type/date"
	"google.golang.org/genproto/googleapis/type/timeofday"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// timestampConverter interprets INT64 values as an epoch offset in the
// unit declared by the TIMESTAMP annotation and delivers
// google.protobuf.Timestamp messages.
type timestampConverter struct {
	baseValueConverter
	parent parentValueContainer
	unit   schema.TimeUnitType
}

func newTimestampConverter(
	parent parentValueContainer,
	logicalType *schema.TimestampLogicalType,
) (*timestampConverter, error) {
	if err := validateTimeUnit(logicalType.TimeUnit()); err != nil {
		return nil, err
	}
	return &timestampConverter{parent: parent, unit: logicalType.TimeUnit()}, nil
}

func (c *timestampConverter) AddInt64(value int64) error {
	var ts *timestamppb.Timestamp
	switch c.unit {
	case schema.TimeUnitMillis:
		ts = timestamppb.New(time.UnixMilli(value))
	case schema.TimeUnitMicros:
		ts = timestamppb.New(time.UnixMicro(value))
	case schema.TimeUnitNanos:
		ts = timestamppb.New(time.Unix(0, value))
	}
	return c.parent(protoreflect.ValueOfMessage(ts.ProtoReflect()))
}

// dateConverter interprets INT32 values as days since the Unix epoch and
// delivers google.type.Date messages.
type dateConverter struct {
	baseValueConverter
	parent parentValueContainer
}

const secondsPerDay = 24 * 60 * 60

func (c *dateConverter) AddInt32(value int32) error {
	d := civil.DateOf(time.Unix(int64(value)*secondsPerDay, 0).UTC())
	return c.parent(protoreflect.ValueOfMessage((&date.Date{
		Year:  int32(d.Year),
		Month: int32(d.Month),
		Day:   int32(d.Day),
	}).ProtoReflect()))
}

// timeConverter interprets integer values as a time of day in the unit
// declared by the TIME annotation and delivers google.type.TimeOfDay
// messages.
type timeConverter struct {
	baseValueConverter
	parent parentValueContainer
	unit   schema.TimeUnitType
}

func newTimeConverter(
	parent parentValueContainer,
	logicalType *schema.TimeLogicalType,
) (*timeConverter, error) {
	if err := validateTimeUnit(logicalType.TimeUnit()); err != nil {
		return nil, err
	}
	return &timeConverter{parent: parent, unit: logicalType.TimeUnit()}, nil
}

func (c *timeConverter) AddInt32(value int32) error {
	return c.AddInt64(int64(value))
}

func (c *timeConverter) AddInt64(value int64) error {
	var nanos int64
	switch c.unit {
	case schema.TimeUnitMillis:
		nanos = value * int64(time.Millisecond)
	case schema.TimeUnitMicros:
		nanos = value * int64(time.Microsecond)
	case schema.TimeUnitNanos:
		nanos = value
	}
	t := civil.TimeOf(time.Unix(0, nanos).UTC())
	return c.parent(protoreflect.ValueOfMessage((&timeofday.TimeOfDay{
		Hours:   int32(t.Hour),
		Minutes: int32(t.Minute),
		Seconds: int32(t.Second),
		Nanos:   int32(t.Nanosecond),
	}).ProtoReflect()))
}

func validateTimeUnit(unit schema.TimeUnitType) error {
	switch unit {
	case schema.TimeUnitMillis, schema.TimeUnitMicros, schema.TimeUnitNanos:
		return nil
	}
	return fmt.Errorf("%w: unrecognized time unit %d", ErrBadConfiguration, unit)
}
