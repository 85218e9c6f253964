package types

import "time"

type SitePositionUpdated struct {
	SiteID    string    `json:"siteID"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *SitePositionUpdated) ContentType() string {
	return "application/json"
}
func (s *SitePositionUpdated) TopicName() string {
	return "site.positionUpdated"
}

type CourierPositionUpdated struct {
	CourierID string    `json:"courierID"`
	Name      string    `json:"name,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *CourierPositionUpdated) ContentType() string {
	return "application/json"
}
func (c *CourierPositionUpdated) TopicName() string {
	return "courier.positionUpdated"
}
