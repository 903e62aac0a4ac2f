package models

import "time"

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentActive   DocumentStatus = "ACTIVE"
	DocumentInactive DocumentStatus = "INACTIVE"
)

// Document is a row of the documents table joined with the uploader's name.
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
	StorageKey    string         `json:"-"`
	DownloadCount int            `json:"downloadCount"`
	ThumbnailURL  string         `json:"thumbnailUrl"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// NewDocument is the body of POST /documents.
type NewDocument struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	FileName    string `json:"fileName" validate:"required"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes" validate:"gte=0"`
	FacultyID   string `json:"facultyId" validate:"required"`
	SubjectID   string `json:"subjectId" validate:"required"`
}

// DocumentFilter narrows a document listing. Empty fields do not filter.
type DocumentFilter struct {
	Status     DocumentStatus
	FacultyID  string
	SubjectID  string
	UploaderID string
	Keyword    string
}

// UploadTicket is returned on create: the record plus where to PUT the bytes.
type UploadTicket struct {
	Document  *Document `json:"document"`
	UploadURL string    `json:"uploadUrl"`
}

type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PendingDocument is a row of the admin moderation queue.
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
