package class

import (
	"slices"
	"sort"

	"github.com/cockroachdb/errors"
)

// PropertySet holds one descriptor's own members, classified but not yet
// merged with an ancestor chain.
type PropertySet struct {
	Type    string
	Members []Member
	Statics []Member

	index     map[string]int
	init      Method
	superArgs func([]Value) []Value
}

// Lookup returns the own member with the given name.
func (ps *PropertySet) Lookup(name string) (Member, bool) {
	i, ok := ps.index[name]
	if !ok {
		return Member{}, false
	}
	return ps.Members[i], true
}

// ResolveOwn normalizes d and classifies its own members. It does not look
// at d.Extends.
func ResolveOwn(d *Descriptor, conv Convention) (*PropertySet, error) {
	members, statics, err := Normalize(d, conv)
	if err != nil {
		return nil, err
	}
	ps := &PropertySet{
		Type:      d.Name,
		Members:   members,
		Statics:   statics,
		index:     make(map[string]int, len(members)),
		init:      d.Init,
		superArgs: d.SuperArgs,
	}
	for i, m := range members {
		if _, dup := ps.index[m.Name]; dup {
			return nil, &DuplicateMemberError{Type: d.Name, Member: m.Name}
		}
		ps.index[m.Name] = i
	}
	seen := make(map[string]bool, len(statics))
	for _, s := range statics {
		if seen[s.Name] {
			return nil, &DuplicateMemberError{Type: d.Name, Member: "$" + s.Name}
		}
		seen[s.Name] = true
	}
	return ps, nil
}

// ResolvedSet is a PropertySet merged with its ancestor chain.
//
// Inherited holds the public and protected members visible from the parent,
// keyed to their most-derived declaration. Overridden names the inherited
// members re-declared here. Implemented names ancestor abstract obligations
// satisfied at this level or between this level and the declaring ancestor.
// Abstract names the obligations still outstanding.
type ResolvedSet struct {
	*PropertySet
	Inherited   []Member
	Overridden  []string
	Implemented []string
	Abstract    []string

	parent    *ResolvedSet
	inherited map[string]Member
}

// Instantiable reports whether no abstract obligations remain.
func (rs *ResolvedSet) Instantiable() bool { return len(rs.Abstract) == 0 }

// Parent returns the resolved set this one was merged with, or nil for a root.
func (rs *ResolvedSet) Parent() *ResolvedSet { return rs.parent }

// visible returns the public/protected surface a child of rs inherits.
func (rs *ResolvedSet) visible() map[string]Member {
	out := make(map[string]Member, len(rs.inherited)+len(rs.Members))
	for name, m := range rs.inherited {
		out[name] = m
	}
	for _, m := range rs.Members {
		if m.Visibility == Private {
			continue
		}
		out[m.Name] = m
	}
	return out
}

// ResolveWithParent merges own with its parent's resolved set. A nil parent
// resolves a root type.
//
// Private members are never inherited and form a namespace of their own per
// level: a private member sharing a name with an inherited one shadows it
// inside the declaring level's methods only, is not an override, and never
// satisfies an abstract obligation.
func ResolveWithParent(own *PropertySet, parent *ResolvedSet) (*ResolvedSet, error) {
	if own == nil {
		return nil, errors.AssertionFailedf("resolve: nil property set")
	}
	rs := &ResolvedSet{PropertySet: own, parent: parent}

	obligations := make(map[string]bool)
	var implemented []string
	if parent != nil {
		rs.inherited = parent.visible()
		for _, name := range parent.Abstract {
			obligations[name] = true
		}
		implemented = append(implemented, parent.Implemented...)
	} else {
		rs.inherited = map[string]Member{}
	}

	for _, m := range own.Members {
		if m.Visibility == Private {
			continue
		}
		base, ok := rs.inherited[m.Name]
		if !ok {
			continue
		}
		if m.Visibility.Wider(base.Visibility) {
			return nil, &VisibilityWideningError{
				Type:     own.Type,
				Member:   m.Name,
				Ancestor: base.Owner,
				Declared: base.Visibility,
				Override: m.Visibility,
			}
		}
		if m.callable() != base.callable() {
			return nil, &MalformedDescriptorError{
				Type:   own.Type,
				Member: m.Name,
				Reason: "cannot override " + base.Kind.String() + " from " + base.Owner + " with a " + m.Kind.String(),
			}
		}
		rs.Overridden = append(rs.Overridden, m.Name)
	}

	for _, m := range own.Members {
		if m.Visibility == Private {
			continue
		}
		switch m.Kind {
		case MethodMember:
			if obligations[m.Name] {
				delete(obligations, m.Name)
				implemented = append(implemented, m.Name)
			}
		case AbstractMember:
			obligations[m.Name] = true
		}
	}

	for name := range obligations {
		rs.Abstract = append(rs.Abstract, name)
	}
	sort.Strings(rs.Abstract)
	// A name re-declared abstract at this level is outstanding again.
	rs.Implemented = slices.DeleteFunc(uniqueSorted(implemented), func(name string) bool {
		return obligations[name]
	})

	rs.Inherited = make([]Member, 0, len(rs.inherited))
	for _, m := range rs.inherited {
		rs.Inherited = append(rs.Inherited, m)
	}
	sort.Slice(rs.Inherited, func(i, j int) bool { return rs.Inherited[i].Name < rs.Inherited[j].Name })
	return rs, nil
}

func uniqueSorted(names []string) []string {
	out := slices.Clone(names)
	sort.Strings(out)
	return slices.Compact(out)
}
