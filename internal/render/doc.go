// Package render turns resolved records into view models.
//
// Every function here is pure: the caller passes the wall-clock time and the
// display location, and receives a value that an adapter (HTTP, broker) can
// write out. Nothing in this package performs I/O.
package render
