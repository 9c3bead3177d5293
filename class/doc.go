// Package class compiles declarative class descriptors into runtime types.
//
// A Descriptor lists a class's members under keys whose markers carry the
// member's visibility and kind:
//   - `name` public field or method.
//   - `_name` protected, `__name` private.
//   - `?name` abstract method; its value must be Abstract.
//   - `$name` static, attached to the type instead of instances.
//
// Compiling a descriptor normalizes it, merges it with its ancestor chain
// (ResolveOwn, ResolveWithParent) and synthesizes a Type (Build) holding a
// dispatch table and ancestor identities. Type.New runs every level's field
// defaults and Init root first and returns an Object, a facade exposing the
// public members only. Method bodies receive a Self bound to their declaring
// level, which also reaches protected members and that level's privates, and
// may call Super to reach the overridden implementation.
package class
