package class

import "strings"

// Marker is the resolved meaning of an authored key.
type Marker struct {
	Name       string
	Visibility Visibility
	Abstract   bool
	Static     bool
}

// Convention maps authored keys to markers. It is applied once by Normalize;
// nothing downstream inspects keys.
type Convention interface {
	Classify(key string) Marker
}

// PrefixConvention is the default naming convention:
//
//	$name   static member
//	?name   abstract method
//	__name  private
//	_name   protected
//
// The abstract marker comes first when combined with a visibility marker,
// as in "?_name".
type PrefixConvention struct{}

func (PrefixConvention) Classify(key string) Marker {
	if rest, ok := strings.CutPrefix(key, "$"); ok {
		return Marker{Name: rest, Visibility: Public, Static: true}
	}
	m := Marker{Visibility: Public}
	if rest, ok := strings.CutPrefix(key, "?"); ok {
		m.Abstract = true
		key = rest
	}
	switch {
	case strings.HasPrefix(key, "__"):
		m.Visibility = Private
		key = key[2:]
	case strings.HasPrefix(key, "_"):
		m.Visibility = Protected
		key = key[1:]
	}
	m.Name = key
	return m
}
