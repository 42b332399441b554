// Package settings persists the display configuration document and layers
// the ephemeral calendar-derived countdown override over it at read time.
package settings
