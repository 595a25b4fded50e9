package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// MetadataKind tags the scalar held by a MetadataValue.
type MetadataKind uint8

const (
	MetadataInvalid MetadataKind = iota
	MetadataString
	MetadataNumber
	MetadataBool
)

func (k MetadataKind) String() string {
	switch k {
	case MetadataString:
		return "string"
	case MetadataNumber:
		return "number"
	case MetadataBool:
		return "bool"
	}
	return "invalid"
}

// MetadataValue is one of string, number or bool. The zero value is invalid
// and fails to marshal.
type MetadataValue struct {
	kind MetadataKind
	str  string
	num  float64
	b    bool
}

// Metadata holds provider-sourced extras keyed by field name.
type Metadata map[string]MetadataValue

var errMetadataNotScalar = errors.New("metadata values must be a string, number or bool")

func StringValue(s string) MetadataValue  { return MetadataValue{kind: MetadataString, str: s} }
func NumberValue(n float64) MetadataValue { return MetadataValue{kind: MetadataNumber, num: n} }
func BoolValue(b bool) MetadataValue      { return MetadataValue{kind: MetadataBool, b: b} }

func (v MetadataValue) Kind() MetadataKind { return v.kind }

func (v MetadataValue) AsString() (string, bool) {
	return v.str, v.kind == MetadataString
}

func (v MetadataValue) AsNumber() (float64, bool) {
	return v.num, v.kind == MetadataNumber
}

func (v MetadataValue) AsBool() (bool, bool) {
	return v.b, v.kind == MetadataBool
}

func (v MetadataValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case MetadataString:
		return json.Marshal(v.str)
	case MetadataNumber:
		return json.Marshal(v.num)
	case MetadataBool:
		return json.Marshal(v.b)
	}
	return nil, errMetadataNotScalar
}

func (v *MetadataValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errMetadataNotScalar
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case 't', 'f':
		b, err := strconv.ParseBool(string(data))
		if err != nil {
			return fmt.Errorf("metadata: %w", err)
		}
		*v = BoolValue(b)
	case '{', '[', 'n':
		return errMetadataNotScalar
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("metadata: %w", err)
		}
		*v = NumberValue(n)
	}
	return nil
}
