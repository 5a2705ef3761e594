// Package storage defines the persistence adapter used to keep clip lists
// across sessions, plus its interchangeable backends.
//
// Every backend speaks the same small key/value contract: Read returns the
// serialized payload and whether it was present, Write stores it with a
// time-to-live, Delete drops it. Values are capped at a configurable size so
// the cookie-sized budget of the original browser storage carries over;
// exceeding it yields ErrQuotaExceeded. Transport and disk failures are
// reported as ErrUnavailable. Both are recoverable from the caller's point of
// view.
//
// Open selects the backend named in the configuration: memory, file, sqlite,
// or redis.
package storage
