package plm

// Registry maps identifiers to the records that declare them.
//
// A Registry is built per document and is not safe for concurrent mutation.
// Lookups on a fully built Registry may run concurrently.
type Registry struct {
	records    map[string]Record
	order      []string
	duplicates []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]Record)}
}

// Register inserts rec under its identifier. Records with an empty identifier
// are ignored. A later record with an identifier that is already registered
// replaces the earlier one; Register reports whether that happened.
func (r *Registry) Register(rec Record) bool {
	if rec == nil {
		return false
	}
	id := rec.Identifier()
	if id == "" {
		return false
	}
	if _, exists := r.records[id]; exists {
		r.records[id] = rec
		r.duplicates = append(r.duplicates, id)
		return true
	}
	r.records[id] = rec
	r.order = append(r.order, id)
	return false
}

// Lookup returns the record registered under id.
func (r *Registry) Lookup(id string) (Record, bool) {
	if r == nil {
		return nil, false
	}
	rec, ok := r.records[id]
	return rec, ok
}

// Len returns the number of distinct identifiers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// IDs returns the registered identifiers in first-registration order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

// Duplicates returns every identifier that was registered more than once,
// once per overwrite, in the order the overwrites happened.
func (r *Registry) Duplicates() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.duplicates...)
}

// Index builds the registry for doc.
//
// Instances, Parts, GeneralObjects and Relations are registered first, in that
// order, followed by the CompoundReps owned by each Part's Representation.
// No other records are reference targets in PLMXML.
func Index(doc *Document) *Registry {
	reg := NewRegistry()
	g := doc.InstanceGraph()
	if g == nil {
		return reg
	}

	for _, inst := range g.Instances {
		reg.Register(inst)
	}
	for _, p := range g.Parts {
		reg.Register(p)
	}
	for _, obj := range g.GeneralObjects {
		reg.Register(obj)
	}
	for _, rel := range g.Relations {
		reg.Register(rel)
	}

	for _, p := range g.Parts {
		if p.Representation == nil {
			continue
		}
		for _, cr := range p.Representation.CompoundReps {
			reg.Register(cr)
		}
	}
	return reg
}
