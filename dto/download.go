package dto

import "time"

// RateLimitInfo is the limiter's verdict for one attempt. ResetTime is the
// end of the current window whether the attempt was admitted or not.
type RateLimitInfo struct {
	Allowed   bool      `json:"allowed"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetTime time.Time `json:"reset_time"`
}

// RateLimitExceeded is the 429 payload; ResetTime is machine-readable
// (RFC 3339) so clients can schedule retries.
type RateLimitExceeded struct {
	ResetTime  string `json:"reset_time"`
	RetryAfter int    `json:"retry_after"`
}

// DownloadRequest carries everything identity resolution needs; the
// transport layer fills it from the authenticated session and the raw
// forwarding headers.
type DownloadRequest struct {
	ProductID    string
	UserID       string
	ForwardedFor string
	RealIP       string
}

type DownloadResult struct {
	Data        []byte
	FileName    string
	ContentType string
	RateLimit   RateLimitInfo
}

type DownloadsStatsResponse struct {
	AnonymousLimit     int    `json:"anonymous_limit"`
	AuthenticatedLimit int    `json:"authenticated_limit"`
	Window             string `json:"window"`
	Store              string `json:"store"`
	TrackedIdentities  int    `json:"tracked_identities"`
}

type MediaUploadResponse struct {
	FileName     string  `json:"file_name"`
	OriginalName string  `json:"original_name"`
	Size         int64   `json:"size"`
	URL          string  `json:"url"`
	Hash         string  `json:"hash"`
	SizeMB       float64 `json:"size_mb"`
}
