// Package notion is a minimal client for the Notion database query API,
// covering only the property shapes the playlist sync reads: title,
// rich_text, checkbox, date, files, number, select, and url.
package notion
