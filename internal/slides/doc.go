// Package slides defines the playlist data model and normalizes raw Notion
// pages into it: default-filling, active-checkbox and date-window
// filtering. Media resolution is deliberately left to internal/media.
package slides
