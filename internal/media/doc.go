// Package media owns the local asset cache and the fallback chain that
// resolves a record's media: direct file, stock photo, or none.
package media
