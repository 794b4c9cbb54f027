package domain

import "time"

// Customer represents a customer profile managed by the collector backend.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// DiscoveredPage is a Facebook page (optionally with a linked Instagram
// account) found for a system user token.
type DiscoveredPage struct {
	PageID         string `json:"page_id"`
	PageName       string `json:"page_name"`
	HasInstagram   bool   `json:"has_instagram"`
	InstagramID    string `json:"instagram_id,omitempty"`
	FanCount       int    `json:"fan_count"`
	FollowersCount int    `json:"followers_count"`
}
