// Package application provides dependency wiring and job orchestration.
// It builds the config factory from the resolved configuration, runs the
// train job and the optional paired validation job, and records every
// produced file in a manifest, keeping the main package focused on CLI
// parsing.
package application
