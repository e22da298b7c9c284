package models

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// Record is one row of the primary table as returned by the store.
// Numbers are kept as json.Number so phone numbers never lose digits.
type Record map[string]any

// ClubLookup maps a club id to its display name.
type ClubLookup map[string]string

const (
	FieldPhone     = "phone"
	FieldName      = "name"
	FieldDateVisit = "date_visit"
	FieldDuration  = "duration"
	FieldClubID    = "club_id"
	FieldTextAura  = "text_aura"
	FieldAura      = "aura"
	FieldBirthDate = "birth_date"
	FieldSex       = "sex"
	FieldStatus    = "status"
)

var zonedLayouts = []string{
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339Nano,
}

var naiveLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// percentExtractor is one step of the aura lookup chain.
type percentExtractor func(Record) (float64, bool)

var auraChain = []percentExtractor{
	objectPercent(FieldTextAura),
	embeddedPercent(FieldTextAura),
	objectPercent(FieldAura),
	embeddedPercent(FieldAura),
	barePercent(FieldAura),
}

// DecodeRecord decodes a single JSON object preserving numbers as json.Number.
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&r); err != nil {
		return nil, err
	}
	return r, nil
}

// String returns the field as text. Missing, null and nested values give "".
func (r Record) String(key string) string {
	return stringify(r[key])
}

func (r Record) Phone() string {
	return strings.TrimSpace(r.String(FieldPhone))
}

func (r Record) ClubID() string {
	return r.String(FieldClubID)
}

// ZonedTime parses the field with an explicit UTC offset only.
func (r Record) ZonedTime(key string) (time.Time, bool) {
	return ParseZonedTime(r.String(key))
}

// Time parses the field with an offset first, then as a naive UTC timestamp.
func (r Record) Time(key string) (time.Time, bool) {
	return ParseTimestamp(r.String(key))
}

// AuraPercent walks the extractor chain and returns the first parsable percent.
func (r Record) AuraPercent() (float64, bool) {
	for _, extract := range auraChain {
		if v, ok := extract(r); ok {
			return v, true
		}
	}
	return 0, false
}

func ParseZonedTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func ParseTimestamp(s string) (time.Time, bool) {
	if t, ok := ParseZonedTime(s); ok {
		return t, true
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case map[string]any, []any:
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

func objectPercent(field string) percentExtractor {
	return func(r Record) (float64, bool) {
		obj, ok := r[field].(map[string]any)
		if !ok {
			return 0, false
		}
		return percentValue(obj["percent"])
	}
}

func embeddedPercent(field string) percentExtractor {
	return func(r Record) (float64, bool) {
		s, ok := r[field].(string)
		if !ok || strings.TrimSpace(s) == "" {
			return 0, false
		}
		obj, err := DecodeRecord([]byte(s))
		if err != nil {
			return 0, false
		}
		return percentValue(obj["percent"])
	}
}

func barePercent(field string) percentExtractor {
	return func(r Record) (float64, bool) {
		s, ok := r[field].(string)
		if !ok {
			return 0, false
		}
		return parsePercent(s)
	}
}

func percentValue(v any) (float64, bool) {
	switch val := v.(type) {
	case string:
		return parsePercent(val)
	case json.Number:
		return finite(val.Float64())
	case nil, bool, map[string]any, []any:
		return 0, false
	}
	return finite(cast.ToFloat64E(v))
}

func parsePercent(s string) (float64, bool) {
	cleaned := strings.TrimRight(strings.TrimSpace(s), "%")
	if cleaned == "" {
		return 0, false
	}
	return finite(strconv.ParseFloat(cleaned, 64))
}

func finite(f float64, err error) (float64, bool) {
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
