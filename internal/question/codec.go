package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// questionKeys is the order fields are written in.
var questionKeys = []string{
	"id", "difficulty", "topic", "title", "description", "input_format",
	"output_format", "constraint", "example", "test_cases", "tags",
}

var modelledQuestionKeys = func() map[string]bool {
	m := make(map[string]bool, len(questionKeys))
	for _, k := range questionKeys {
		m[k] = true
	}
	return m
}()

// UnmarshalJSON accepts any JSON object. Scalar fields take the text form
// of non-string values. Keys it does not model, and modelled keys whose
// value does not fit the field type, are kept raw and written back as-is.
func (q *Question) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("question must be a JSON object")
	}

	*q = Question{}
	for key, raw := range fields {
		if !q.decodeField(key, raw) {
			if q.extra == nil {
				q.extra = make(map[string]json.RawMessage)
			}
			q.extra[key] = raw
		}
	}
	return nil
}

func (q *Question) decodeField(key string, raw json.RawMessage) bool {
	var text Text
	switch key {
	case "id", "difficulty", "topic", "title", "description", "input_format", "output_format", "constraint":
		if err := json.Unmarshal(raw, &text); err != nil {
			return false
		}
	}

	switch key {
	case "id":
		q.ID = string(text)
	case "difficulty":
		q.Difficulty = Difficulty(text)
	case "topic":
		q.Topic = string(text)
	case "title":
		q.Title = string(text)
	case "description":
		q.Description = text
	case "input_format":
		q.InputFormat = text
	case "output_format":
		q.OutputFormat = text
	case "constraint":
		q.Constraint = text
	case "example":
		var ex Example
		if err := json.Unmarshal(raw, &ex); err != nil {
			return false
		}
		q.Example = ex
	case "test_cases":
		var cases []TestCase
		if err := json.Unmarshal(raw, &cases); err != nil {
			return false
		}
		q.TestCases = cases
	case "tags":
		var tags []string
		if err := json.Unmarshal(raw, &tags); err != nil {
			return false
		}
		q.Tags = tags
	default:
		return false
	}
	return true
}

func (q Question) fieldValue(key string) interface{} {
	switch key {
	case "id":
		return q.ID
	case "difficulty":
		return q.Difficulty
	case "topic":
		return q.Topic
	case "title":
		return q.Title
	case "description":
		return q.Description
	case "input_format":
		return q.InputFormat
	case "output_format":
		return q.OutputFormat
	case "constraint":
		return q.Constraint
	case "example":
		return q.Example
	case "test_cases":
		return q.TestCases
	case "tags":
		return q.Tags
	}
	return nil
}

// MarshalJSON writes the modelled keys in a fixed order, then any kept keys.
func (q Question) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	for _, key := range questionKeys {
		if raw, ok := q.extra[key]; ok {
			w.raw(key, raw)
			continue
		}
		if err := w.value(key, q.fieldValue(key)); err != nil {
			return nil, err
		}
	}
	for _, key := range sortedKeys(q.extra) {
		if !modelledQuestionKeys[key] {
			w.raw(key, q.extra[key])
		}
	}
	return w.close(), nil
}

// UnmarshalJSON requires an object whose Easy, Medium and Hard values are
// lists of objects. Other keys are kept raw.
func (b *Bucket) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*b = Bucket{}
	for key, raw := range fields {
		var target *[]Question
		switch Difficulty(key) {
		case Easy:
			target = &b.Easy
		case Medium:
			target = &b.Medium
		case Hard:
			target = &b.Hard
		default:
			if b.extra == nil {
				b.extra = make(map[string]json.RawMessage)
			}
			b.extra[key] = raw
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func (b Bucket) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	for _, d := range Difficulties {
		list := b.Questions(d)
		if list == nil {
			list = []Question{}
		}
		if err := w.value(string(d), list); err != nil {
			return nil, err
		}
	}
	for _, key := range sortedKeys(b.extra) {
		w.raw(key, b.extra[key])
	}
	return w.close(), nil
}

// objectWriter assembles a JSON object without HTML escaping.
type objectWriter struct {
	buf   bytes.Buffer
	empty bool
}

func newObjectWriter() *objectWriter {
	w := &objectWriter{empty: true}
	w.buf.WriteByte('{')
	return w
}

func (w *objectWriter) raw(key string, value []byte) {
	if !w.empty {
		w.buf.WriteByte(',')
	}
	w.empty = false
	k, _ := marshalUnescaped(key)
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(value)
}

func (w *objectWriter) value(key string, v interface{}) error {
	b, err := marshalUnescaped(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	w.raw(key, b)
	return nil
}

func (w *objectWriter) close() []byte {
	w.buf.WriteByte('}')
	return w.buf.Bytes()
}

func marshalUnescaped(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
