package domain

// PoolStats is a point-in-time view of the worker pool
type PoolStats struct {
	Size       int   `json:"size"`
	Active     int64 `json:"active"`
	PeakActive int64 `json:"peak_active"`
	Queued     int   `json:"queued"`
	Served     int64 `json:"served"`
	Failed     int64 `json:"failed"`
	Closed     bool  `json:"closed"`
}
