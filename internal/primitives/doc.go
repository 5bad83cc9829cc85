// Package primitives provides the foundational data structures for the
// Turing machine engine: symbols, states, moves, transitions, the canonical
// machine Definition and the immutable transition Table.
//
// Core invariants:
// - Definition is the single canonical form every external encoding parses to
// - Table is immutable after construction and safe to share across machines
// - Key is a comparable value type (structural equality)
package primitives
