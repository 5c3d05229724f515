package plm

// Kind identifies which record type a [Record] is.
type Kind int

const (
	KindPart Kind = iota + 1
	KindInstance
	KindGeneralObject
	KindRelation
	KindRepresentation
	KindCompoundRep
)

var kindNames = map[Kind]string{
	KindPart:           "Part",
	KindInstance:       "Instance",
	KindGeneralObject:  "GeneralObject",
	KindRelation:       "Relation",
	KindRepresentation: "Representation",
	KindCompoundRep:    "CompoundRep",
}

// String returns the PLMXML element name for the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Base holds the identifier shared by every identifiable element.
// Records with an empty ID are anonymous and never the target of a reference.
type Base struct {
	ID    string
	Blank Blank
}

// Blank is the set of attributes, by local name, that were present on the
// element with an empty value. Absent attributes are never in the set.
type Blank map[string]bool

// Has reports whether the named attribute was present and empty.
func (b Blank) Has(name string) bool { return b[name] }

// Identifier returns the element's identifier.
func (b Base) Identifier() string { return b.ID }

// Record is an identifiable PLMXML record that can be the target of a reference.
// The set of implementations is closed.
type Record interface {
	Identifier() string
	Kind() Kind

	record()
}

func (*Part) Kind() Kind           { return KindPart }
func (*Instance) Kind() Kind       { return KindInstance }
func (*GeneralObject) Kind() Kind  { return KindGeneralObject }
func (*Relation) Kind() Kind       { return KindRelation }
func (*Representation) Kind() Kind { return KindRepresentation }
func (*CompoundRep) Kind() Kind    { return KindCompoundRep }

func (*Part) record()           {}
func (*Instance) record()       {}
func (*GeneralObject) record()  {}
func (*Relation) record()       {}
func (*Representation) record() {}
func (*CompoundRep) record()    {}

// IDs returns the identifiers of records in order.
func IDs(records []Record) []string {
	if len(records) == 0 {
		return nil
	}
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Identifier()
	}
	return out
}
