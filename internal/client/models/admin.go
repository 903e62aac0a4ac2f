package models

import "time"

type AdminStatistics struct {
	TotalUsers       int `json:"totalUsers"`
	PendingDocuments int `json:"pendingDocuments"`
}

type AdminUser struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	Role          Role      `json:"role"`
	BanStatus     BanStatus `json:"banStatus"`
	DocumentCount int       `json:"documentCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PendingDocument struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	FileName     string    `json:"fileName"`
	UploaderID   string    `json:"uploaderId"`
	UploaderName string    `json:"uploaderName"`
	FacultyID    string    `json:"facultyId"`
	SubjectID    string    `json:"subjectId"`
	CreatedAt    time.Time `json:"createdAt"`
}
