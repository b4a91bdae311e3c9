// Package audit records field-level history of persisted entities.
//
// Repositories report lifecycle transitions (create, update, delete) to an
// Interceptor. The Interceptor snapshots the entity through its Descriptor,
// redacts sensitive fields, computes which fields changed and registers an
// Intent with the current unit of work. Once that unit of work commits, the
// Writer persists the Intent as a Record in its own transaction. Nothing in
// this package ever fails or rolls back the operation that triggered it:
// faults are logged and the record is dropped.
package audit
