package models

// MediaUpload is the record kept for each uploaded blob before it is
// attached to a report.
type MediaUpload struct {
	Model
	FileID       string `json:"file_id" gorm:"unique;not null"`
	FileType     string `json:"file_type"`
	FileSize     int64  `json:"file_size"`
	Filename     string `json:"file_name"`
	UserID       uint   `json:"user_id" gorm:"index"`
	FeedURL      string `json:"feed_url"`
	FullSizeURL  string `json:"full_size_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// UploadedFile is what the upload endpoint returns per file; its FileID is
// what report submissions reference in their media section.
type UploadedFile struct {
	FileID       string `json:"file_id"`
	MediaType    string `json:"media_type"`
	Filename     string `json:"file_name"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}
