// Package typescript renders TypeScript declarations and axios client
// functions from ir descriptors.
//
// A Mapper turns a descriptor into a type expression. An InterfaceEmitter
// writes one file per composite or enum type it is asked about, using a
// Registry so that each simple name is written once per run. A
// ClientGenerator turns an operation into a single exported arrow function
// that calls axios.
package typescript
