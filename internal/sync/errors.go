package sync

import "errors"

var (
	// ErrNotConfigured means the Notion credentials are missing, so a cycle
	// cannot even start.
	ErrNotConfigured = errors.New("notion credentials not configured")

	// ErrSyncInProgress means a cycle was requested while another one held
	// the pipeline. The request is dropped, not queued.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrRemoteQuery wraps a failed database query. The previously published
	// playlist stays untouched.
	ErrRemoteQuery = errors.New("remote query failed")

	// ErrPublish wraps a failed playlist write.
	ErrPublish = errors.New("playlist publish failed")
)
