package factory

import "github.com/eugenenazirov/ginfactory/internal/ginfile"

// Override is a single stable assignment applied to every generated file.
type Override struct {
	Key   string
	Value any
}

// Axis is a varying key together with its candidate values.
// Each axis contributes one dimension to the Cartesian product.
type Axis struct {
	Key    string
	Values []any
}

// Request describes one Generate call. Stable and Varying are applied in
// slice order; TemplatePath is optional.
type Request struct {
	OutputDir    string
	TemplatePath string
	Stable       []Override
	Varying      []Axis
	FirstIndex   int
}

// Output describes a file produced by Generate.
type Output struct {
	Index  int
	Path   string
	Values *ginfile.Mapping
}
