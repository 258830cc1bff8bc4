// Package factory generates experiment config files from a base template,
// stable overrides applied to every file, and varying overrides expanded as a
// full Cartesian product. Each combination is written to its own file named
// by a naming scheme from a sequential index.
package factory
