package models

type Faculty struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// FacultyInfo is the faculty detail screen record.
type FacultyInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	Description   string `json:"description"`
	FollowerCount int    `json:"followerCount"`
	DocumentCount int    `json:"documentCount"`
	SubjectCount  int    `json:"subjectCount"`
	IsSubscribed  bool   `json:"isSubscribed"`
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

// SubscriptionTarget names the resources a member can follow.
type SubscriptionTarget string

const (
	TargetFaculty SubscriptionTarget = "faculties"
	TargetSubject SubscriptionTarget = "subjects"
	TargetUser    SubscriptionTarget = "users"
)
