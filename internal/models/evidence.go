package models

import "time"

// Evidence is an attachment record for a workpaper. Expense lines reference
// evidence by id only.
type Evidence struct {
	UploadedAt  time.Time `json:"uploadedAt"`
	ID          string    `json:"evidenceId"`
	WorkpaperID string    `json:"workpaperId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	UploadedBy  string    `json:"uploadedBy"`
	SizeBytes   int64     `json:"sizeBytes"`
	Version     int64     `json:"version"`
}

const (
	DefaultEvidenceFileName    = "untitled"
	DefaultEvidenceContentType = "application/octet-stream"
)
