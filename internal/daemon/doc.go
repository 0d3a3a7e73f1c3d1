// Package daemon runs the easel background process: it enforces
// single-instance execution, recovers reservations left over from a
// previous run, and serves the labeling API over HTTP.
package daemon
