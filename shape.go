package veil

import (
	"reflect"
	"strings"

	"github.com/zoobzio/sentinel"
)

// tagName is the struct tag carrying encryption markers.
const tagName = "veil"

func init() {
	// Register tags with sentinel so Scan surfaces them
	sentinel.Tag(tagName)
	sentinel.Tag("json")
}

// Shape describes a composite target type as an ordered set of members.
// It is the neutral, reflection-free description the walker operates over:
// built once at startup, immutable afterwards.
//
// Shapes must be acyclic. Request-binding models are, and ScanShape guards
// against self-referential struct types by not descending into a type that
// is already on the scan path.
type Shape struct {
	Members []Member
}

// Member is one named member of a Shape: either a leaf value or a composite
// with its own nested Shape.
type Member struct {
	// Name is the declared member name.
	Name string

	// WireName overrides Name as the wire-level key when non-empty.
	WireName string

	// Encrypted marks a leaf as carrying an encrypted value.
	Encrypted bool

	// IgnoreWarning suppresses the warning when this member's value fails
	// to decrypt.
	IgnoreWarning bool

	// Nested is non-nil for composite members; the walker recurses into it.
	Nested *Shape
}

// wire returns the wire-level key for the member.
func (m Member) wire() string {
	if m.WireName != "" {
		return m.WireName
	}
	return m.Name
}

// NewShape returns an empty Shape for hand-built declarations.
//
// Members are appended in call order, which the walker preserves:
//
//	shape := veil.NewShape().
//	    Plain("firstName").
//	    Encrypted("lastName").
//	    EncryptedNoWarn("ssn").
//	    Nested("address", addrShape)
func NewShape() *Shape {
	return &Shape{}
}

// Plain appends a leaf member with no encryption marker.
func (s *Shape) Plain(name string) *Shape {
	s.Members = append(s.Members, Member{Name: name})
	return s
}

// Encrypted appends a leaf member marked as encrypted.
func (s *Shape) Encrypted(name string) *Shape {
	s.Members = append(s.Members, Member{Name: name, Encrypted: true})
	return s
}

// EncryptedNoWarn appends an encrypted leaf whose decrypt failures are
// never reported.
func (s *Shape) EncryptedNoWarn(name string) *Shape {
	s.Members = append(s.Members, Member{Name: name, Encrypted: true, IgnoreWarning: true})
	return s
}

// Nested appends a composite member whose policies are spliced inline by
// the walker.
func (s *Shape) Nested(name string, nested *Shape) *Shape {
	s.Members = append(s.Members, Member{Name: name, Nested: nested})
	return s
}

// Wire sets the wire-name override on the most recently appended member.
func (s *Shape) Wire(wire string) *Shape {
	if len(s.Members) > 0 {
		s.Members[len(s.Members)-1].WireName = wire
	}
	return s
}

// ScanShape builds a Shape from T's struct tags.
//
// Leaves are string-kinded fields; a `veil:"encrypted"` tag marks them,
// `veil:"encrypted,nowarn"` additionally suppresses failure warnings. The
// wire name comes from the `json` tag when present (options stripped),
// otherwise the field name. Struct and pointer-to-struct fields become
// composite members scanned recursively, so markers nested arbitrarily deep
// in a request-bound object graph are discovered.
//
// Scanning happens at startup; the resulting Shape is consumed without any
// further reflection. Returns an error wrapping ErrInvalidTag for an
// unrecognized veil tag value.
func ScanShape[T any]() (*Shape, error) {
	spec := sentinel.Scan[T]()
	seen := map[reflect.Type]bool{reflect.TypeFor[T](): true}
	return buildShape(spec, seen)
}

// buildShape converts sentinel metadata into a Shape, recursing into nested
// struct members.
func buildShape(spec sentinel.Metadata, seen map[reflect.Type]bool) (*Shape, error) {
	shape := &Shape{Members: make([]Member, 0, len(spec.Fields))}

	for _, field := range spec.Fields {
		rt := field.ReflectType

		// Pointer to struct scans as the struct itself
		if field.Kind == sentinel.KindPointer && rt.Elem().Kind() == reflect.Struct {
			rt = rt.Elem()
		}

		if rt.Kind() == reflect.Struct && !isTerminalStruct(rt) && !seen[rt] {
			seen[rt] = true
			nestedSpec := scanNestedType(rt)
			nested, err := buildShape(nestedSpec, seen)
			delete(seen, rt)
			if err != nil {
				return nil, err
			}
			shape.Members = append(shape.Members, Member{Name: field.Name, Nested: nested})
			continue
		}

		member := Member{
			Name:     field.Name,
			WireName: wireName(field.Tags),
		}

		if val, ok := field.Tags[tagName]; ok {
			encrypted, noWarn, err := parseVeilTag(val)
			if err != nil {
				return nil, newFieldError(err, field.Name)
			}
			member.Encrypted = encrypted
			member.IgnoreWarning = noWarn
		}

		shape.Members = append(shape.Members, member)
	}

	return shape, nil
}

// scanNestedType scans a nested struct type and returns its metadata.
func scanNestedType(rt reflect.Type) sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return spec
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        parseShapeTags(sf.Tag),
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return spec
}

// parseShapeTags extracts veil and json tags from a struct tag.
func parseShapeTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	for _, name := range []string{tagName, "json"} {
		if val, ok := tag.Lookup(name); ok {
			tags[name] = val
		}
	}
	return tags
}

// parseVeilTag interprets a veil tag value.
func parseVeilTag(val string) (encrypted, noWarn bool, err error) {
	for _, part := range strings.Split(val, ",") {
		switch strings.TrimSpace(part) {
		case "encrypted":
			encrypted = true
		case "nowarn":
			noWarn = true
		case "":
		default:
			return false, false, ErrInvalidTag
		}
	}
	if noWarn && !encrypted {
		return false, false, ErrInvalidTag
	}
	return encrypted, noWarn, nil
}

// wireName extracts the wire-level key from a json tag, stripping options
// like omitempty. Returns "" when no override applies.
func wireName(tags map[string]string) string {
	val, ok := tags["json"]
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(val, ",")
	if name == "" || name == "-" {
		return ""
	}
	return name
}

// isTerminalStruct reports whether a struct type is a recognized terminal
// value rather than a composite to recurse into. time.Time is the usual case
// in request-binding models.
func isTerminalStruct(rt reflect.Type) bool {
	return rt.PkgPath() == "time"
}
