package audit

import (
	"bytes"
	"encoding/json"
	"reflect"
	"time"
)

// TimeLayout is the textual encoding of times in snapshots
const TimeLayout = time.RFC3339Nano

// DefaultRedactedFields never appear in any snapshot
var DefaultRedactedFields = []string{
	"password",
	"passwordHash",
	"token",
	"refreshToken",
	"secret",
}

// Snapshot is an immutable, flattened and redacted view of an entity.
// Keys keep the entity's declaration order.
type Snapshot struct {
	keys   []string
	values map[string]json.RawMessage
}

// Keys returns the snapshot keys in order
func (s *Snapshot) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Has reports whether key is present
func (s *Snapshot) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.values[key]
	return ok
}

// Value returns the JSON encoding of one key
func (s *Snapshot) Value(key string) (json.RawMessage, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// MarshalJSON writes the snapshot as a JSON object in key order
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(s.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSON returns the snapshot as JSON text, or nil for an absent snapshot
func (s *Snapshot) JSON() json.RawMessage {
	if s == nil {
		return nil
	}
	b, _ := s.MarshalJSON()
	return b
}

// Serializer turns entity state into redacted snapshots
type Serializer struct {
	redacted map[string]struct{}
}

// NewSerializer creates a Serializer that redacts DefaultRedactedFields plus extra
func NewSerializer(extra ...string) *Serializer {
	s := &Serializer{redacted: make(map[string]struct{})}
	for _, name := range DefaultRedactedFields {
		s.redacted[name] = struct{}{}
	}
	for _, name := range extra {
		s.redacted[name] = struct{}{}
	}
	return s
}

// Redacted reports whether a field name is on the denylist
func (s *Serializer) Redacted(name string) bool {
	_, ok := s.redacted[name]
	return ok
}

// Serialize captures and snapshots an entity as it is now
func (s *Serializer) Serialize(e Entity) *Snapshot {
	return s.Snapshot(Capture(e))
}

// Snapshot flattens captured values. Denylisted names, collections and values
// that cannot be encoded are left out; relations become <name>Id.
func (s *Serializer) Snapshot(values Values) *Snapshot {
	snap := &Snapshot{values: make(map[string]json.RawMessage, len(values))}
	for _, v := range values {
		if s.Redacted(v.Name) || v.Kind == KindCollection || isCollection(v.Data) {
			continue
		}

		key := v.Name
		data := normalize(v.Data)
		if v.Kind == KindRelation {
			key = v.Name + "Id"
			if ref, ok := data.(Ref); ok {
				data = ref.ID
			}
		}
		if _, dup := snap.values[key]; dup {
			continue
		}

		raw, err := json.Marshal(data)
		if err != nil {
			continue
		}
		snap.keys = append(snap.keys, key)
		snap.values[key] = raw
	}
	return snap
}

// normalize maps a field value onto a comparable, JSON-safe form: pointers are
// dereferenced, times become TimeLayout text and absent references become nil
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		return x.UTC().Format(TimeLayout)
	case *time.Time:
		if x == nil {
			return nil
		}
		return x.UTC().Format(TimeLayout)
	case Ref:
		if !x.Valid {
			return nil
		}
		return x
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	}
	return v
}

// isCollection reports slices, arrays and maps. Byte slices are scalars.
func isCollection(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}
