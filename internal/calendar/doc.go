// Package calendar fetches an iCal feed, picks the nearest future event,
// and feeds it into the settings override layer as the countdown target.
package calendar
