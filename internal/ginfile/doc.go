// Package ginfile reads and writes the flat key=value configuration dialect
// used for experiment configs. Values are opaque: the parser never trims or
// interprets them, and the writer emits them verbatim.
package ginfile
