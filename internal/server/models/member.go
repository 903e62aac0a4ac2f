// Package models holds the server's persisted records and the read models
// returned by the HTTP API. JSON field names match the client models.
package models

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// MemberStatus tracks email verification.
type MemberStatus string

const (
	MemberUnverified MemberStatus = "UNVERIFIED"
	MemberActive     MemberStatus = "ACTIVE"
)

type BanStatus string

const (
	BanStatusNone   BanStatus = "NONE"
	BanStatusBanned BanStatus = "BANNED"
)

// Member is a row of the members table.
type Member struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	FullName     string       `json:"fullName"`
	PasswordHash string       `json:"-"`
	Bio          string       `json:"bio"`
	AvatarURL    string       `json:"avatarUrl"`
	Role         Role         `json:"role"`
	Status       MemberStatus `json:"-"`
	BanStatus    BanStatus    `json:"-"`
	CreatedAt    time.Time    `json:"createdAt"`
}

func (m *Member) IsAdmin() bool { return m.Role == RoleAdmin }

func (m *Member) IsBanned() bool { return m.BanStatus == BanStatusBanned }

// MemberProfile is a member as seen by a viewer.
type MemberProfile struct {
	Member
	FollowerCount  int  `json:"followerCount"`
	FollowingCount int  `json:"followingCount"`
	DocumentCount  int  `json:"documentCount"`
	IsSubscribed   bool `json:"isSubscribed"`
}

// AdminMember is a row of the admin member list.
type AdminMember struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	Role          Role      `json:"role"`
	BanStatus     BanStatus `json:"banStatus"`
	DocumentCount int       `json:"documentCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ProfileUpdate holds the optional fields of PATCH /users/me. Nil fields
// are left unchanged.
type ProfileUpdate struct {
	FullName  *string `json:"fullName,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

func (u ProfileUpdate) Empty() bool {
	return u.FullName == nil && u.Bio == nil && u.AvatarURL == nil
}

// AdminStatistics is the payload of GET /admin/statistics.
type AdminStatistics struct {
	TotalUsers       int `json:"totalUsers"`
	PendingDocuments int `json:"pendingDocuments"`
}
