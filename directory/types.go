package directory

// Class discriminates the directory object variants. Assignment is exclusive
// and immutable once a batch is finalized.
type Class int

const (
	ClassUnknown Class = iota
	ClassUser
	ClassGroup
	ClassComputer
)

func (c Class) String() string {
	switch c {
	case ClassUser:
		return "user"
	case ClassGroup:
		return "group"
	case ClassComputer:
		return "computer"
	default:
		return "unknown"
	}
}

// Timestamp is one decoded time attribute, rendered human-readable or as a
// sentinel ("not recorded" / "never expires").
type Timestamp struct {
	Attr  string
	Value string
}

// Object is a classified directory entity built from one attribute record.
// Identity is the normalized distinguished-name-equivalent graph key.
// ParentRefs and ChildRefs hold identities only, never object pointers, so
// membership cycles cost nothing. Objects are not mutated once enrichment
// and linking complete.
type Object struct {
	Identity    string
	DisplayName string
	Class       Class
	Attributes  *Record

	Tags       []string
	ParentRefs []string
	ChildRefs  []string
	Timestamps []Timestamp
	UACFlags   []string
}

// ParseResult reports the outcome of building one object from a raw block.
// Either Object or Err is set; Block is always populated for diagnostics.
type ParseResult struct {
	Object *Object
	Block  RawBlock
	Err    error
}
