package domain

import (
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Count is a set or repetition count. Older records were written from form
// inputs and store the number as a string, so decoding accepts both.
type Count int

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (c *Count) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Int32:
		*c = Count(raw.Int32())
	case bsontype.Int64:
		*c = Count(raw.Int64())
	case bsontype.Double:
		*c = Count(int(raw.Double()))
	case bsontype.String:
		s := strings.TrimSpace(raw.StringValue())
		if s == "" {
			*c = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", s, err)
		}
		*c = Count(n)
	case bsontype.Null, bsontype.Undefined:
		*c = 0
	default:
		return fmt.Errorf("cannot decode %s into Count", t)
	}
	return nil
}
