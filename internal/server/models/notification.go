package models

import "time"

// Notification kinds.
const (
	KindDocumentApproved = "DOCUMENT_APPROVED"
	KindDocumentRejected = "DOCUMENT_REJECTED"
	KindNewDocument      = "NEW_DOCUMENT"
	KindNewFollower      = "NEW_FOLLOWER"
)

type Notification struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"-"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Kind      string    `json:"kind"`
	TargetID  string    `json:"targetId"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// DeviceToken is a push token registered by a client installation.
type DeviceToken struct {
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	MemberID  string    `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
