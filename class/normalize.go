package class

import (
	"github.com/cockroachdb/errors"
)

var reservedNames = map[string]bool{"init": true, "Extends": true}

// Normalize parses a descriptor into typed members. Instance members and
// static members are returned separately, each in declaration order. A nil
// conv selects PrefixConvention.
func Normalize(d *Descriptor, conv Convention) (members []Member, statics []Member, err error) {
	if d == nil {
		return nil, nil, &MalformedDescriptorError{Reason: "descriptor is nil"}
	}
	if d.Name == "" {
		return nil, nil, &MalformedDescriptorError{Reason: "descriptor has no name"}
	}
	if conv == nil {
		conv = PrefixConvention{}
	}

	for _, entry := range d.Members {
		marker := conv.Classify(entry.Key)
		if marker.Static {
			member, err := normalizeStatic(d.Name, marker.Name, entry.Value)
			if err != nil {
				return nil, nil, err
			}
			statics = append(statics, member)
			continue
		}
		member, err := normalizeMember(d.Name, entry.Key, marker, entry.Value)
		if err != nil {
			return nil, nil, err
		}
		members = append(members, member)
	}

	for _, entry := range d.Statics {
		name := entry.Key
		if marker := conv.Classify(entry.Key); marker.Static {
			name = marker.Name
		}
		member, err := normalizeStatic(d.Name, name, entry.Value)
		if err != nil {
			return nil, nil, err
		}
		statics = append(statics, member)
	}
	return members, statics, nil
}

func normalizeMember(typ, key string, marker Marker, raw any) (Member, error) {
	malformed := func(reason string) error {
		return &MalformedDescriptorError{Type: typ, Member: key, Reason: reason}
	}
	if marker.Name == "" {
		return Member{}, malformed("empty member name")
	}
	if reservedNames[marker.Name] {
		return Member{}, malformed("reserved name; use Descriptor.Init or Descriptor.Extends")
	}
	member := Member{Name: marker.Name, Owner: typ, Visibility: marker.Visibility}

	if marker.Abstract {
		if _, ok := raw.(Placeholder); !ok {
			return Member{}, malformed("abstract method must carry the Abstract placeholder, not a body")
		}
		if marker.Visibility == Private {
			return Member{}, malformed("private methods cannot be abstract")
		}
		member.Kind = AbstractMember
		return member, nil
	}

	switch v := raw.(type) {
	case Placeholder:
		return Member{}, malformed("Abstract placeholder used without the abstract marker")
	case Method:
		if v == nil {
			return Member{}, malformed("nil method")
		}
		member.Kind = MethodMember
		member.Method = v
		return member, nil
	case func(*Self, ...Value) (Value, error):
		if v == nil {
			return Member{}, malformed("nil method")
		}
		member.Kind = MethodMember
		member.Method = v
		return member, nil
	case StaticFunc, func(*Statics, ...Value) (Value, error):
		return Member{}, malformed("static function declared without the static marker")
	}

	value, err := primitiveDefault(raw)
	if err != nil {
		return Member{}, errors.WithHint(malformed(err.Error()),
			"use Init for non-primitive attributes")
	}
	member.Kind = FieldMember
	member.Default = value
	return member, nil
}

func normalizeStatic(typ, name string, raw any) (Member, error) {
	malformed := func(reason string) error {
		return &MalformedDescriptorError{Type: typ, Member: "$" + name, Reason: reason}
	}
	if name == "" {
		return Member{}, malformed("empty static name")
	}
	member := Member{Name: name, Owner: typ, Visibility: Public, Kind: StaticMember}
	switch v := raw.(type) {
	case Placeholder:
		return Member{}, malformed("statics cannot be abstract")
	case StaticFunc:
		if v == nil {
			return Member{}, malformed("nil static function")
		}
		member.Static = v
		return member, nil
	case func(*Statics, ...Value) (Value, error):
		if v == nil {
			return Member{}, malformed("nil static function")
		}
		member.Static = v
		return member, nil
	case Method, func(*Self, ...Value) (Value, error):
		return Member{}, malformed("static functions take *Statics, not *Self")
	}
	value, err := primitiveDefault(raw)
	if err != nil {
		return Member{}, errors.WithHint(malformed(err.Error()),
			"statics are reset to their defaults by InitStatics, so defaults must be primitive")
	}
	member.Default = value
	return member, nil
}

func primitiveDefault(raw any) (Value, error) {
	value, err := ValueOf(raw)
	if err != nil {
		return NewNil(), err
	}
	if !value.IsPrimitive() {
		return NewNil(), errors.Newf("default must be a primitive, got %s", value.Kind())
	}
	return value, nil
}
