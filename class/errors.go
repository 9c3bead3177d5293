package class

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinels for errors.Is checks. Each typed error below matches exactly one
// of them.
var (
	ErrMalformedDescriptor   = errors.New("malformed descriptor")
	ErrDuplicateMember       = errors.New("duplicate member")
	ErrVisibilityWidening    = errors.New("visibility widening")
	ErrUnresolvedAbstract    = errors.New("unresolved abstract method")
	ErrReentrantConstruction = errors.New("reentrant construction")

	ErrNotVisible         = errors.New("member not visible")
	ErrUnknownMember      = errors.New("unknown member")
	ErrNoSuperMethod      = errors.New("no super implementation")
	ErrPrototype          = errors.New("prototype has no state")
	ErrConstructionFailed = errors.New("construction failed")
	ErrInheritanceDepth   = errors.New("inheritance chain too deep")
	ErrInheritanceCycle   = errors.New("inheritance cycle")
	ErrDuplicateType      = errors.New("duplicate type name")
	ErrUnknownType        = errors.New("unknown type")
)

// MalformedDescriptorError reports a structural problem in an authored
// descriptor.
type MalformedDescriptorError struct {
	Type   string
	Member string
	Reason string
}

func (e *MalformedDescriptorError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("class %s: %s", typeLabel(e.Type), e.Reason)
	}
	return fmt.Sprintf("class %s: member %q: %s", typeLabel(e.Type), e.Member, e.Reason)
}

func (e *MalformedDescriptorError) Is(target error) bool { return target == ErrMalformedDescriptor }

type DuplicateMemberError struct {
	Type   string
	Member string
}

func (e *DuplicateMemberError) Error() string {
	return fmt.Sprintf("class %s: member %q declared more than once", typeLabel(e.Type), e.Member)
}

func (e *DuplicateMemberError) Is(target error) bool { return target == ErrDuplicateMember }

// VisibilityWideningError reports an override that exposes a member more
// broadly than the ancestor that declared it.
type VisibilityWideningError struct {
	Type     string
	Member   string
	Ancestor string
	Declared Visibility
	Override Visibility
}

func (e *VisibilityWideningError) Error() string {
	return fmt.Sprintf("class %s: member %q is %s in %s and cannot be overridden as %s",
		typeLabel(e.Type), e.Member, e.Declared, e.Ancestor, e.Override)
}

func (e *VisibilityWideningError) Is(target error) bool { return target == ErrVisibilityWidening }

type UnresolvedAbstractError struct {
	Type    string
	Members []string
}

func (e *UnresolvedAbstractError) Error() string {
	return fmt.Sprintf("class %s: cannot instantiate, abstract methods not implemented: %s",
		typeLabel(e.Type), strings.Join(e.Members, ", "))
}

func (e *UnresolvedAbstractError) Is(target error) bool { return target == ErrUnresolvedAbstract }

type ReentrantConstructionError struct {
	Type string
}

func (e *ReentrantConstructionError) Error() string {
	return fmt.Sprintf("class %s: constructor invoked while %s is still being constructed",
		typeLabel(e.Type), typeLabel(e.Type))
}

func (e *ReentrantConstructionError) Is(target error) bool { return target == ErrReentrantConstruction }

// AccessError is returned by facades when a member is missing or hidden from
// the caller.
type AccessError struct {
	Type   string
	Member string
	Reason string
	err    error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("class %s: %s %q", typeLabel(e.Type), e.Reason, e.Member)
}

func (e *AccessError) Unwrap() error { return e.err }

func notVisible(typ string, member string, vis Visibility) error {
	return &AccessError{Type: typ, Member: member, Reason: vis.String() + " member", err: ErrNotVisible}
}

func unknownMember(typ string, member string) error {
	return &AccessError{Type: typ, Member: member, Reason: "unknown member", err: ErrUnknownMember}
}

func typeLabel(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}

func wrongKind(typ string, member string, want string) error {
	return &AccessError{Type: typ, Member: member, Reason: "not a " + want + ":", err: ErrUnknownMember}
}
