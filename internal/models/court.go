package models

import "time"

// Court is a rentable unit of the club. Pricing overrides the club
// rate table when set.
type Court struct {
	ID        int64      `yaml:"id" json:"id"`
	Name      string     `yaml:"name" json:"name"`
	SortOrder int64      `yaml:"sort_order" json:"sort_order"`
	Pricing   *RateTable `yaml:"pricing,omitempty" json:"pricing,omitempty"`
	CreatedAt time.Time  `yaml:"created_at" json:"created_at"`
	UpdatedAt time.Time  `yaml:"updated_at" json:"updated_at"`
}

// Client is a club client referenced from bookings for display only.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
