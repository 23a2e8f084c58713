// Package salvage decodes LLM replies into typed records, recovering as
// much as possible from fenced, malformed or loosely typed JSON.
package salvage

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"unicode/utf8"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"github.com/rotisserie/eris"
)

// Kind classifies the result of a Decode.
type Kind int

const (
	// Ok means the reply decoded without intervention.
	Ok Kind = iota
	// PartialOk means a record was produced after repair or coercion.
	PartialOk
	// Err means no JSON object could be recovered.
	Err
)

func (k Kind) String() string {
	switch k {
	case Ok:
		return "ok"
	case PartialOk:
		return "partial_ok"
	default:
		return "err"
	}
}

// Outcome is the tagged result of Decode.
type Outcome struct {
	Kind        Kind
	Diagnostics []string
	Reason      string
}

// Decoded reports whether dst holds a record.
func (o Outcome) Decoded() bool {
	return o.Kind != Err
}

// Diagnostic messages recorded by Decode.
const (
	DiagRepaired = "repaired malformed JSON"
	DiagLenient  = "parsed reply with lenient JSON syntax"
)

// Decode parses text into dst, which must be a non-nil pointer to a struct.
// dst is only written when the outcome is Ok or PartialOk.
func Decode(text string, dst any) (out Outcome) {
	if !validDestination(dst) {
		return Outcome{Kind: Err, Reason: "salvage: destination must be a pointer to a struct"}
	}
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Kind: Err, Reason: eris.Errorf("salvage: decode panicked: %v", r).Error()}
		}
	}()

	raw, diags, err := Object(text)
	if err != nil {
		return Outcome{Kind: Err, Reason: err.Error()}
	}
	out = DecodeObject(raw, dst)
	if len(diags) > 0 {
		out.Diagnostics = append(diags, out.Diagnostics...)
		out.Kind = PartialOk
	}
	return out
}

// Object recovers the outermost JSON object of text as a generic map, with
// numbers kept as json.Number. The diagnostics note any syntax repair.
func Object(text string) (map[string]any, []string, error) {
	cleaned := Clean(text)
	if cleaned == "" {
		return nil, nil, eris.New("salvage: empty reply")
	}
	if !isObject(cleaned) {
		return nil, nil, eris.New("salvage: no JSON object in reply")
	}

	var diags []string
	if !json.Valid([]byte(cleaned)) {
		repaired, err := jsonrepair.RepairJSON(cleaned)
		if err == nil && json.Valid([]byte(repaired)) && isObject(repaired) {
			cleaned = repaired
			diags = append(diags, DiagRepaired)
		} else if lenient, ok := fromHJSON(cleaned); ok {
			cleaned = lenient
			diags = append(diags, DiagLenient)
		} else {
			if err != nil {
				return nil, nil, eris.Wrap(err, "salvage: repair json")
			}
			return nil, nil, eris.New("salvage: reply is not valid JSON")
		}
	}

	raw, err := objectOf(cleaned)
	if err != nil {
		return nil, nil, err
	}
	return raw, diags, nil
}

// DecodeObject decodes a generic object into dst, falling back to Coerce
// when the object does not type-check.
func DecodeObject(raw map[string]any, dst any) Outcome {
	if !validDestination(dst) {
		return Outcome{Kind: Err, Reason: "salvage: destination must be a pointer to a struct"}
	}
	rv := reflect.ValueOf(dst)

	b, err := json.Marshal(raw)
	if err != nil {
		return Outcome{Kind: Err, Reason: eris.Wrap(err, "salvage: encode object").Error()}
	}
	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(b, fresh.Interface()); err == nil {
		rv.Elem().Set(fresh.Elem())
		return Outcome{Kind: Ok}
	}

	fresh = reflect.New(rv.Elem().Type())
	diags := Coerce(raw, fresh.Interface())
	rv.Elem().Set(fresh.Elem())
	if len(diags) == 0 {
		// The strict pass failed, so something was coerced.
		diags = append(diags, "coerced loosely typed fields")
	}
	return outcome(diags)
}

func validDestination(dst any) bool {
	rv := reflect.ValueOf(dst)
	return rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct
}

func outcome(diags []string) Outcome {
	if len(diags) == 0 {
		return Outcome{Kind: Ok}
	}
	return Outcome{Kind: PartialOk, Diagnostics: diags}
}

// Clean strips a markdown code fence and any prose around the outermost
// JSON object.
func Clean(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			lang := strings.TrimSpace(s[:nl])
			if lang == "" || !strings.ContainsAny(lang, "{[\"") {
				s = s[nl+1:]
			}
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return s
	}
	end := strings.LastIndexByte(s, '}')
	if end < start {
		return s[start:]
	}
	return s[start : end+1]
}

// Excerpt returns at most n runes of s, trimmed.
func Excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func isObject(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{")
}

// objectOf decodes s into a generic object, keeping numbers as literals.
func objectOf(s string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, eris.Wrap(err, "salvage: decode object")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, eris.Errorf("salvage: reply is a JSON %s, not an object", jsonKind(v))
	}
	return obj, nil
}

// fromHJSON parses s as Hjson, which tolerates unquoted keys and strings,
// comments and missing commas, and re-encodes it as JSON.
func fromHJSON(s string) (string, bool) {
	var v map[string]any
	if err := hjson.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return "", false
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func jsonKind(v any) string {
	switch v.(type) {
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "value"
	}
}
