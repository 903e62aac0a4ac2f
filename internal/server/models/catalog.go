package models

import "time"

type Faculty struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

type FacultyInfo struct {
	Faculty
	FollowerCount int  `json:"followerCount"`
	DocumentCount int  `json:"documentCount"`
	SubjectCount  int  `json:"subjectCount"`
	IsSubscribed  bool `json:"isSubscribed"`
}

type Subject struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	FacultyID     string `json:"facultyId"`
	FollowerCount int    `json:"followerCount"`
	DocumentCount int    `json:"documentCount"`
	IsSubscribed  bool   `json:"isSubscribed"`
}

// TargetType names what a subscription follows.
type TargetType string

const (
	TargetFaculty TargetType = "FACULTY"
	TargetSubject TargetType = "SUBJECT"
	TargetMember  TargetType = "MEMBER"
)

type Subscription struct {
	MemberID   string
	TargetType TargetType
	TargetID   string
	CreatedAt  time.Time
}

// Target identifies something that can be followed.
type Target struct {
	Type TargetType
	ID   string
}
