package domain

import "time"

// ReleaseInfo is a registry release tag remembered between runs.
type ReleaseInfo struct {
	Key       string    `json:"key,omitzero"`
	Tag       string    `json:"tag,omitzero"`
	FetchedAt time.Time `json:"fetched_at,omitzero"`
}

// Fresh reports whether the entry is younger than ttl at time now.
func (r ReleaseInfo) Fresh(now time.Time, ttl time.Duration) bool {
	return r.Tag != "" && ttl > 0 && now.Sub(r.FetchedAt) < ttl
}
