package resource

// Field describes one domain field of a record type.
type Field[T any] struct {
	// Name is the wire (JSON) name; it is also the column name.
	Name string
	// IsSet reports whether rec carries a non-null value for the field.
	IsSet func(rec *T) bool
	// Merge copies the field's value from src into dst.
	Merge func(dst, src *T)
}

// Shape describes an entity type to the generic Resource.
type Shape[T any] struct {
	// Name is the entity name used in error bodies and alert headers, e.g. "FicheMedical".
	Name   string
	ID     func(rec *T) *int64
	Fields []Field[T]
}

func (s Shape[T]) missingField(rec *T) (string, bool) {
	for _, f := range s.Fields {
		if rec == nil || !f.IsSet(rec) {
			return f.Name, true
		}
	}
	return "", false
}

// mergePresent overwrites the fields of dst that are set on src. Identity is never touched.
func (s Shape[T]) mergePresent(dst, src *T) {
	for _, f := range s.Fields {
		if f.IsSet(src) {
			f.Merge(dst, src)
		}
	}
}

func (s Shape[T]) idOf(rec *T) *int64 {
	if rec == nil {
		return nil
	}
	return s.ID(rec)
}
