package models

import "time"

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Kind      string    `json:"kind"`
	TargetID  string    `json:"targetId"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// DeviceToken is what the client sends to the push token endpoint.
type DeviceToken struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}
