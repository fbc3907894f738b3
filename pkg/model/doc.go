// Package model defines the declarative settings schema consumed by renderers
// and the options page: tabs own ordered sections, sections own ordered field
// schemas, and each field carries a closed Kind that renderers switch on
// exhaustively. Schemas are assembled once during page definition and treated
// as read-only afterwards; stored values travel separately as Values keyed by
// field id, one map per tab namespace.
package model
