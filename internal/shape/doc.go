// Package shape builds cached, reflection-based descriptors of Go types.
//
// A Descriptor lists the members of a struct type in declaration order
// (including fields promoted from embedded value structs) together with the
// access information needed by the matcher and the IR builders. Descriptors
// are built once per reflect.Type and shared.
package shape
