// Package folding computes foldable line ranges from begin/end marker rules.
//
// Rules are compiled once into Patterns. A Scanner walks a document line by
// line, runs every begin, end and skip-line expression in a single combined
// search per position, and keeps a stack of open begins. An end closes the
// innermost open begin of its own pattern; begins of other patterns sitting
// above it are abandoned. Nothing in a scan ever fails, badly nested markers
// just produce fewer ranges.
package folding
