// Package logging builds the slog loggers used across easel.
//
// It offers a JSON handler for machine consumption and a console handler
// that renders "timestamp LEVEL component: message key=value" lines with
// optional color when attached to a terminal. Attribute helpers keep call
// sites terse and consistent.
package logging
