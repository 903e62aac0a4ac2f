package models

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type BanStatus string

const (
	BanStatusNone   BanStatus = "NONE"
	BanStatusBanned BanStatus = "BANNED"
)

// User is a member profile as seen by other members and by the owner.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatarUrl"`
	Role           Role      `json:"role"`
	FollowerCount  int       `json:"followerCount"`
	FollowingCount int       `json:"followingCount"`
	DocumentCount  int       `json:"documentCount"`
	IsSubscribed   bool      `json:"isSubscribed"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfileUpdate carries the editable profile fields; empty values are left
// unchanged by the server.
type ProfileUpdate struct {
	FullName  string `json:"fullName,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}
