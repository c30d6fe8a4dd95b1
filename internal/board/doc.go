// Package board holds the kanban issue model and the in-memory store that
// partitions issues into the fixed status columns.
//
// Every operation is total: an address that does not resolve leaves the
// board unchanged and reports false.
package board
