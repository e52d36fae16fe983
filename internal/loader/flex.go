// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

package loader

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var nullLiteral = []byte("null")

// extended is the union of the MongoDB extended-JSON wrappers we meet.
type extended struct {
	OID        *string         `json:"$oid"`
	Date       json.RawMessage `json:"$date"`
	NumberLong *string         `json:"$numberLong"`
	NumberInt  *string         `json:"$numberInt"`
	NumberDbl  *string         `json:"$numberDouble"`
}

// ObjectID accepts a string, a number or {"$oid": "..."}.
type ObjectID string

func (o *ObjectID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, nullLiteral) {
		*o = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = ObjectID(s)
	case '{':
		var ext extended
		if err := json.Unmarshal(data, &ext); err != nil {
			return err
		}
		if ext.OID != nil {
			*o = ObjectID(*ext.OID)
		}
	default:
		*o = ObjectID(string(data))
	}
	return nil
}

// Timestamp accepts an ISO string, an epoch number, {"$date": ...} or
// {"$numberLong": ...} and keeps the value as a string for package dates.
type Timestamp string

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, nullLiteral) {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Timestamp(s)
	case '{':
		var ext extended
		if err := json.Unmarshal(data, &ext); err != nil {
			return err
		}
		switch {
		case len(ext.Date) > 0:
			var inner Timestamp
			if err := inner.UnmarshalJSON(ext.Date); err != nil {
				return err
			}
			*t = inner
		case ext.NumberLong != nil:
			*t = Timestamp(*ext.NumberLong)
		}
	case 't', 'f':
		*t = ""
	default:
		// Plain epoch numbers, including exponent form; dates sees digits only.
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil || math.IsInf(f, 0) {
			*t = ""
			return nil
		}
		*t = Timestamp(strconv.FormatInt(int64(math.Trunc(f)), 10))
	}
	return nil
}

// Number accepts a JSON number, a numeric string, a boolean or a
// $numberLong / $numberInt / $numberDouble wrapper. Anything else is 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*n = 0
	if len(data) == 0 || bytes.Equal(data, nullLiteral) {
		return nil
	}

	switch data[0] {
	case 't':
		*n = 1
	case 'f':
		*n = 0
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = parseNumber(s)
	case '{':
		var ext extended
		if err := json.Unmarshal(data, &ext); err != nil {
			return err
		}
		for _, v := range []*string{ext.NumberLong, ext.NumberInt, ext.NumberDbl} {
			if v != nil {
				*n = parseNumber(*v)
				break
			}
		}
	case '[':
		// Non-scalar values count as zero.
	default:
		v, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return nil
		}
		*n = Number(v)
	}
	return nil
}

func parseNumber(s string) Number {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return Number(v)
}

// Text accepts a string and treats any other JSON value as empty.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = ""
	if len(data) == 0 || data[0] != '"' {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = Text(s)
	return nil
}

// Texts accepts an array of strings (non-strings dropped), a single string,
// or null.
type Texts []string

func (t *Texts) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = nil
	if len(data) == 0 || bytes.Equal(data, nullLiteral) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "" {
			*t = Texts{s}
		}
		return nil
	}
	if data[0] != '[' {
		return nil
	}

	var items []Text
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(Texts, 0, len(items))
	for _, it := range items {
		if it != "" {
			out = append(out, string(it))
		}
	}
	*t = out
	return nil
}
