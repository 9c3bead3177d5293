package class

import "fmt"

type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return fmt.Sprintf("visibility(%d)", int(v))
	}
}

// exposure orders visibilities from least (private) to most (public) exposed.
func (v Visibility) exposure() int {
	switch v {
	case Public:
		return 2
	case Protected:
		return 1
	default:
		return 0
	}
}

// Wider reports whether v exposes a member to more callers than other.
func (v Visibility) Wider(other Visibility) bool {
	return v.exposure() > other.exposure()
}

type MemberKind int

const (
	FieldMember MemberKind = iota
	MethodMember
	AbstractMember
	StaticMember
)

func (k MemberKind) String() string {
	switch k {
	case FieldMember:
		return "field"
	case MethodMember:
		return "method"
	case AbstractMember:
		return "abstract method"
	case StaticMember:
		return "static"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Member is a normalized descriptor entry. Owner names the descriptor that
// declared it.
type Member struct {
	Name       string
	Owner      string
	Visibility Visibility
	Kind       MemberKind
	Default    Value
	Method     Method
	Static     StaticFunc
}

func (m Member) callable() bool {
	return m.Kind == MethodMember || m.Kind == AbstractMember
}

func (m Member) String() string {
	return fmt.Sprintf("%s %s %s", m.Visibility, m.Kind, m.Name)
}
