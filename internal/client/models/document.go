package models

import "time"

type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "PENDING"
	DocumentStatusActive   DocumentStatus = "ACTIVE"
	DocumentStatusInactive DocumentStatus = "INACTIVE"
)

type Document struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	FileName      string         `json:"fileName"`
	ContentType   string         `json:"contentType"`
	SizeBytes     int64          `json:"sizeBytes"`
	Status        DocumentStatus `json:"status"`
	UploaderID    string         `json:"uploaderId"`
	UploaderName  string         `json:"uploaderName"`
	FacultyID     string         `json:"facultyId"`
	SubjectID     string         `json:"subjectId"`
	DownloadCount int            `json:"downloadCount"`
	ThumbnailURL  string         `json:"thumbnailUrl"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// NewDocument describes a file the member is about to upload.
type NewDocument struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
	FacultyID   string `json:"facultyId"`
	SubjectID   string `json:"subjectId"`
}

// UploadTicket is the server answer to a new document: the created record and
// where to PUT the file bytes.
type UploadTicket struct {
	Document  Document `json:"document"`
	UploadURL string   `json:"uploadUrl"`
}

type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
