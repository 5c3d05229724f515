package plm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/plmgraph/pkg/errors"
	"github.com/matzehuels/plmgraph/pkg/markup"
)

// xsiNamespace is the XML Schema instance namespace carrying schemaLocation.
const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

// BuildOptions configures [Build].
type BuildOptions struct {
	// Lenient keeps going when a Transform is malformed: the Transform gets an
	// empty Matrix and Warn is called with the error. The default is strict.
	Lenient bool

	// Warn receives recoverable problems in lenient mode. May be nil.
	Warn func(error)
}

// builder carries options through the recursive construction functions.
type builder struct {
	opts BuildOptions
}

// Build projects a decoded markup tree onto typed records.
//
// root is the document element; its children are dispatched by tag-name suffix
// and unrecognized elements are skipped. Build does not register identifiers or
// resolve references; call [Link] afterwards.
func Build(root *markup.Element, opts BuildOptions) (*Document, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeMalformedMarkup, "document has no root element")
	}
	b := &builder{opts: opts}
	return b.document(root)
}

func (b *builder) document(e *markup.Element) (*Document, error) {
	doc := &Document{
		Blank:  blankAttrs(e),
		Author: e.AttrValue("author"),
		Date:   e.AttrValue("date"),
		Time:   e.AttrValue("time"),
	}
	doc.SchemaLocation, _ = e.AttrNS(xsiNamespace, "schemaLocation")

	if raw, ok := e.Attr("schemaVersion"); ok && strings.TrimSpace(raw) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedMarkup, err, "schemaVersion %q", raw)
		}
		doc.SchemaVersion = &v
	}

	for _, c := range e.Children {
		switch {
		case c.Is("ProductDef"):
			pd, err := b.productDef(c)
			if err != nil {
				return nil, err
			}
			doc.ProductDef = pd
		case c.Is("Header"):
			doc.Header = b.header(c)
		}
	}
	return doc, nil
}

func (b *builder) header(e *markup.Element) *Header {
	h := &Header{
		Blank:            blankAttrs(e),
		Author:           e.AttrValue("author"),
		CreationDate:     e.AttrValue("creationDate"),
		Definition:       e.AttrValue("definition"),
		ExtensionVersion: e.AttrValue("extensionVersion"),
		SmaragdVersion:   e.AttrValue("smaragdVersion"),
	}
	for _, c := range e.Children {
		switch {
		case c.Is("UserData"):
			h.UserData = append(h.UserData, userData(c))
		case c.Is("Contexts"):
			h.Contexts = contexts(c)
		case c.Is("Definitions"):
			h.Definitions = definitions(c)
		}
	}
	return h
}

func contexts(e *markup.Element) *Contexts {
	cs := &Contexts{}
	for _, c := range e.ChildrenOf("Context") {
		// Later Context elements replace earlier ones.
		cs.Context = &Context{
			Base:      base(c),
			RefConfig: c.AttrValue("refConfig"),
		}
	}
	return cs
}

func definitions(e *markup.Element) *Definitions {
	defs := &Definitions{}
	for _, c := range e.ChildrenOf("TableAttributeDefinition") {
		defs.TableAttributeDefinitions = append(defs.TableAttributeDefinitions, &TableAttributeDefinition{
			Base:    base(c),
			Columns: columns(c),
		})
	}
	return defs
}

func (b *builder) productDef(e *markup.Element) (*ProductDef, error) {
	pd := &ProductDef{}
	for _, c := range e.ChildrenOf("InstanceGraph") {
		g, err := b.instanceGraph(c)
		if err != nil {
			return nil, err
		}
		pd.InstanceGraph = g
	}
	return pd, nil
}

func (b *builder) instanceGraph(e *markup.Element) (*InstanceGraph, error) {
	g := &InstanceGraph{RootRefs: e.AttrValue("rootRefs"), Blank: blankAttrs(e)}
	for _, c := range e.Children {
		switch {
		case c.Is("Instance"):
			inst, err := b.instance(c)
			if err != nil {
				return nil, err
			}
			g.Instances = append(g.Instances, inst)
		case c.Is("Part"):
			p, err := b.part(c)
			if err != nil {
				return nil, err
			}
			g.Parts = append(g.Parts, p)
		case c.Is("GeneralObject"):
			g.GeneralObjects = append(g.GeneralObjects, &GeneralObject{
				Base:      base(c),
				ClassName: c.AttrValue("class"),
				UserData:  userDataOf(c),
			})
		case c.Is("Relation"):
			g.Relations = append(g.Relations, &Relation{
				Base:        base(c),
				RelatedRefs: c.AttrValue("relatedRefs"),
				SubType:     c.AttrValue("subType"),
				UserData:    userDataOf(c),
			})
		}
	}
	return g, nil
}

func (b *builder) part(e *markup.Element) (*Part, error) {
	p := &Part{
		Base:               base(e),
		Name:               e.AttrValue("name"),
		RepresentationRefs: e.AttrValue("representationRefs"),
		InstanceRefs:       e.AttrValue("instanceRefs"),
	}
	for _, c := range e.Children {
		switch {
		case c.Is("Representation"):
			rep, err := b.representation(c)
			if err != nil {
				return nil, fmt.Errorf("part %q: %w", p.ID, err)
			}
			p.Representation = rep
		case c.Is("UserData"):
			p.UserData = append(p.UserData, userData(c))
		case c.Is("TableAttribute"):
			p.TableAttribute = tableAttribute(c)
		}
	}
	p.Nomenclature, p.NomenclatureSet = findNomenclature(p.UserData)
	return p, nil
}

func (b *builder) representation(e *markup.Element) (*Representation, error) {
	rep := &Representation{
		Base:   base(e),
		Format: e.AttrValue("format"),
	}
	for _, c := range e.ChildrenOf("CompoundRep") {
		cr, err := b.compoundRep(c)
		if err != nil {
			return nil, err
		}
		rep.CompoundReps = append(rep.CompoundReps, cr)
	}
	return rep, nil
}

func (b *builder) compoundRep(e *markup.Element) (*CompoundRep, error) {
	cr := &CompoundRep{
		Base:     base(e),
		Format:   e.AttrValue("format"),
		Location: e.AttrValue("location"),
		Name:     e.AttrValue("name"),
	}
	for _, c := range e.Children {
		switch {
		case c.Is("Transform"):
			t, err := b.transform(c)
			if err != nil {
				return nil, fmt.Errorf("compound rep %q: %w", cr.ID, err)
			}
			cr.Transform = t
		case c.Is("UserData"):
			cr.UserData = append(cr.UserData, userData(c))
		case c.Is("TableAttribute"):
			cr.TableAttribute = tableAttribute(c)
		}
	}
	return cr, nil
}

func (b *builder) instance(e *markup.Element) (*Instance, error) {
	inst := &Instance{
		Base:     base(e),
		PartRef:  e.AttrValue("partRef"),
		Quantity: 1,
	}
	if raw, ok := e.Attr("quantity"); ok && strings.TrimSpace(raw) != "" {
		q, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedMarkup, err, "instance %q: quantity %q", inst.ID, raw)
		}
		inst.Quantity = q
	}

	for _, c := range e.Children {
		switch {
		case c.Is("Transform"):
			t, err := b.transform(c)
			if err != nil {
				return nil, fmt.Errorf("instance %q: %w", inst.ID, err)
			}
			inst.Transform = t
		case c.Is("UserData"):
			inst.UserData = append(inst.UserData, userData(c))
		}
	}
	inst.Nomenclature, inst.NomenclatureSet = findNomenclature(inst.UserData)
	return inst, nil
}

func (b *builder) transform(e *markup.Element) (*Transform, error) {
	t := &Transform{Base: base(e)}
	m, err := ParseMatrix(e.Text)
	if err != nil {
		err = fmt.Errorf("transform %q: %w", t.ID, err)
		if !b.opts.Lenient {
			return nil, err
		}
		if b.opts.Warn != nil {
			b.opts.Warn(err)
		}
		return t, nil
	}
	t.Matrix = m
	return t, nil
}

func userDataOf(e *markup.Element) []*UserData {
	var out []*UserData
	for _, c := range e.ChildrenOf("UserData") {
		out = append(out, userData(c))
	}
	return out
}

func userData(e *markup.Element) *UserData {
	ud := &UserData{Type: e.AttrValue("type"), Blank: blankAttrs(e)}
	for _, c := range e.ChildrenOf("UserValue") {
		ud.Values = append(ud.Values, UserValue{
			Title: c.AttrValue("title"),
			Value: c.AttrValue("value"),
			Blank: blankAttrs(c),
		})
	}
	return ud
}

func tableAttribute(e *markup.Element) *TableAttribute {
	ta := &TableAttribute{DefinitionRef: e.AttrValue("definitionRef"), Blank: blankAttrs(e)}
	for _, c := range e.ChildrenOf("Row") {
		ta.Rows = append(ta.Rows, Row{Columns: columns(c)})
	}
	return ta
}

func columns(e *markup.Element) []Column {
	var out []Column
	for _, c := range e.ChildrenOf("Column") {
		col, _ := strconv.Atoi(strings.TrimSpace(c.AttrValue("col")))
		out = append(out, Column{Col: col, Value: c.AttrValue("value"), Blank: blankAttrs(c)})
	}
	return out
}

func base(e *markup.Element) Base {
	return Base{ID: e.AttrValue("id"), Blank: blankAttrs(e)}
}

// blankAttrs collects the attributes of e that are present but empty.
// It returns nil when there are none.
func blankAttrs(e *markup.Element) Blank {
	var b Blank
	for _, a := range e.Attrs {
		if a.Value != "" || a.Space == "xmlns" || (a.Space == "" && a.Name == "xmlns") {
			continue
		}
		if b == nil {
			b = make(Blank)
		}
		b[a.Name] = true
	}
	return b
}
