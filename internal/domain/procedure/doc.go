// Package procedure defines the procedure domain: typed parameter bindings,
// the Procedure contract invoked by the call engine, serialized procedure
// definitions, and the error taxonomy shared by every call path.
//
// Bindings are built in two stages. A Builder collects entries and is sealed
// into an immutable Bindings value:
//
//	b := procedure.NewBuilder(defaults)
//	_ = b.Set("name", procedure.TypeArgument, "hello", "")
//	args := b.Seal()
//
// Lookups walk the parent chain, so a sealed Bindings can serve as the
// shared parent of any number of per-call children.
package procedure
