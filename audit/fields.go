package audit

import "fmt"

// Entity is a persisted domain object that can be audited
type Entity interface {
	AuditID() int64
	AuditDescriptor() *Descriptor
}

// Kind classifies a field for snapshotting and diffing
type Kind int

const (
	// KindScalar fields are recorded by value
	KindScalar Kind = iota
	// KindRelation fields reference another entity and are recorded as <name>Id
	KindRelation
	// KindCollection fields are never recorded
	KindCollection
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindRelation:
		return "relation"
	case KindCollection:
		return "collection"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Ref is the identity of a related entity. The zero value means no reference.
type Ref struct {
	ID    int64
	Valid bool
}

// Field describes one persistent field of an entity type
type Field struct {
	Name string
	Kind Kind
	get  func(Entity) any
}

// Scalar declares a field recorded by value
func Scalar(name string, get func(Entity) any) Field {
	return Field{Name: name, Kind: KindScalar, get: get}
}

// Relation declares a reference to another entity. get returns the referenced
// id and false when the reference is absent.
func Relation(name string, get func(Entity) (int64, bool)) Field {
	return Field{Name: name, Kind: KindRelation, get: func(e Entity) any {
		id, ok := get(e)
		return Ref{ID: id, Valid: ok}
	}}
}

// Collection declares a to-many field. Its contents are never read.
func Collection(name string) Field {
	return Field{Name: name, Kind: KindCollection}
}

// Descriptor is the static field list of an entity type, in declaration order
type Descriptor struct {
	Type   string
	Fields []Field
}

// Describe builds a Descriptor. It panics on duplicate field names since
// descriptors are declared once at package initialization.
func Describe(typeName string, fields ...Field) *Descriptor {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			panic(fmt.Sprintf("audit: duplicate field %q in %s", f.Name, typeName))
		}
		seen[f.Name] = true
	}
	return &Descriptor{Type: typeName, Fields: fields}
}

// Value is a captured field value at full fidelity (nothing redacted)
type Value struct {
	Name string
	Kind Kind
	Data any
}

// Values is an entity state in declaration order
type Values []Value

// Capture reads every readable scalar and relation field of e. Fields whose
// accessor fails are left out; collections are never read.
func Capture(e Entity) Values {
	desc := e.AuditDescriptor()
	values := make(Values, 0, len(desc.Fields))
	for _, f := range desc.Fields {
		if f.Kind == KindCollection || f.get == nil {
			continue
		}
		data, ok := read(f, e)
		if !ok {
			continue
		}
		values = append(values, Value{Name: f.Name, Kind: f.Kind, Data: data})
	}
	return values
}

func read(f Field, e Entity) (data any, ok bool) {
	defer func() {
		if recover() != nil {
			data, ok = nil, false
		}
	}()
	return f.get(e), true
}
