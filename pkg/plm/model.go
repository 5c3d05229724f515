package plm

// Document is the PLMXML root element.
type Document struct {
	Author         string
	Date           string
	Time           string
	SchemaVersion  *float64 // nil when the attribute is absent
	SchemaLocation string   // xsi:schemaLocation
	Blank          Blank

	Header     *Header
	ProductDef *ProductDef

	registry *Registry
}

// Registry returns the identifier registry built by [Link], or nil if the
// document has not been linked yet.
func (d *Document) Registry() *Registry { return d.registry }

// InstanceGraph returns the document's instance graph, or nil.
func (d *Document) InstanceGraph() *InstanceGraph {
	if d == nil || d.ProductDef == nil {
		return nil
	}
	return d.ProductDef.InstanceGraph
}

// Header carries document-level metadata.
type Header struct {
	Author           string
	CreationDate     string
	Definition       string
	ExtensionVersion string
	SmaragdVersion   string
	Blank            Blank

	UserData    []*UserData
	Contexts    *Contexts
	Definitions *Definitions
}

// Contexts wraps the optional reference configuration context.
type Contexts struct {
	Context *Context
}

// Context names the reference configuration the document was exported with.
type Context struct {
	Base
	RefConfig string
}

// Definitions holds table attribute definitions shared by the document.
type Definitions struct {
	TableAttributeDefinitions []*TableAttributeDefinition
}

// TableAttributeDefinition declares the columns of a table attribute.
type TableAttributeDefinition struct {
	Base
	Columns []Column
}

// ProductDef wraps the instance graph.
type ProductDef struct {
	InstanceGraph *InstanceGraph
}

// InstanceGraph owns every top-level record of the product structure.
// Its four collections are the records registered for cross-referencing,
// together with the CompoundReps reachable through each Part.
type InstanceGraph struct {
	RootRefs string // whitespace-separated identifiers of the root objects
	Blank    Blank

	Instances      []*Instance
	Parts          []*Part
	GeneralObjects []*GeneralObject
	Relations      []*Relation
}

// Part is a product definition: a reusable component.
type Part struct {
	Base
	Name               string
	RepresentationRefs string
	InstanceRefs       string

	Representation *Representation
	UserData       []*UserData
	TableAttribute *TableAttribute

	// Nomenclature is the value of the first UserValue titled "Nomenclature".
	// NomenclatureSet distinguishes an empty value from no such UserValue.
	Nomenclature    string
	NomenclatureSet bool

	// ChildObjects is resolved from InstanceRefs by [Resolve].
	ChildObjects []Record
}

// Representation is the geometric representation of a Part.
type Representation struct {
	Base
	Format string

	CompoundReps []*CompoundRep
}

// CompoundRep is one geometry file placed inside a Representation.
type CompoundRep struct {
	Base
	Format   string
	Location string
	Name     string

	Transform      *Transform
	UserData       []*UserData
	TableAttribute *TableAttribute
}

// Instance is one occurrence of a Part in the structure.
type Instance struct {
	Base
	PartRef  string
	Quantity int

	Transform *Transform
	UserData  []*UserData

	Nomenclature    string
	NomenclatureSet bool

	// PartReferences is resolved from PartRef by [Resolve].
	PartReferences []Record
}

// GeneralObject is a typed object outside the part structure.
type GeneralObject struct {
	Base
	ClassName string

	UserData []*UserData
}

// Relation links arbitrary records listed in RelatedRefs.
type Relation struct {
	Base
	RelatedRefs string
	SubType     string

	UserData []*UserData

	// RelatedObjects is resolved from RelatedRefs by [Resolve].
	RelatedObjects []Record
}

// UserData is a typed block of title/value pairs.
type UserData struct {
	Type   string
	Values []UserValue
	Blank  Blank
}

// UserValue is a single title/value pair.
type UserValue struct {
	Title string
	Value string
	Blank Blank
}

// TableAttribute is a table of values conforming to a TableAttributeDefinition.
type TableAttribute struct {
	DefinitionRef string
	Rows          []Row
	Blank         Blank
}

// Row is one row of a TableAttribute.
type Row struct {
	Columns []Column
}

// Column is a single cell. Col is the zero-based column index.
type Column struct {
	Col   int
	Value string
	Blank Blank
}

// Transform places an Instance or CompoundRep in its parent's coordinate system.
type Transform struct {
	Base
	Matrix Matrix
}

// NomenclatureTitle is the UserValue title that carries a record's nomenclature.
const NomenclatureTitle = "Nomenclature"

// findNomenclature scans UserData blocks in order, then their values in order,
// and returns the first value titled [NomenclatureTitle].
func findNomenclature(blocks []*UserData) (string, bool) {
	for _, ud := range blocks {
		for _, uv := range ud.Values {
			if uv.Title == NomenclatureTitle {
				return uv.Value, true
			}
		}
	}
	return "", false
}
