package plm

import "strings"

// ResolveStats counts the reference tokens processed by [Resolve].
type ResolveStats struct {
	Tokens   int // tokens split from reference attributes
	Resolved int // tokens that matched a registered identifier
	Dropped  int // tokens with no matching identifier
}

// Resolve fills the resolved reference slices of every record in doc from the
// raw reference strings, using reg for lookups:
//
//   - Instance.PartRef      -> Instance.PartReferences
//   - Relation.RelatedRefs  -> Relation.RelatedObjects
//   - Part.InstanceRefs     -> Part.ChildObjects
//
// Token order is preserved and unknown tokens are dropped. Each slice is rebuilt
// from scratch, so resolving twice yields the same links.
func Resolve(doc *Document, reg *Registry) ResolveStats {
	var st ResolveStats
	g := doc.InstanceGraph()
	if g == nil {
		return st
	}

	for _, inst := range g.Instances {
		inst.PartReferences = resolveRefs(inst.PartRef, reg, &st)
	}
	for _, rel := range g.Relations {
		rel.RelatedObjects = resolveRefs(rel.RelatedRefs, reg, &st)
	}
	for _, p := range g.Parts {
		p.ChildObjects = resolveRefs(p.InstanceRefs, reg, &st)
	}
	return st
}

func resolveRefs(refs string, reg *Registry, st *ResolveStats) []Record {
	tokens := strings.Fields(refs)
	st.Tokens += len(tokens)

	var out []Record
	for _, id := range tokens {
		rec, ok := reg.Lookup(id)
		if !ok {
			st.Dropped++
			continue
		}
		st.Resolved++
		out = append(out, rec)
	}
	return out
}

// Link indexes doc and resolves its references. The registry is kept on the
// document and returned by [Document.Registry].
func Link(doc *Document) ResolveStats {
	reg := Index(doc)
	doc.registry = reg
	return Resolve(doc, reg)
}
