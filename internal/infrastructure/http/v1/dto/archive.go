package dto

// UploadResponse for POST /arsip.
type UploadResponse struct {
	ArchivePath string `json:"archive_path"`
	FileName    string `json:"file_name"`
}

// BulkUploadResponse summarizes a bulk scan upload.
type BulkUploadResponse struct {
	Matched   []BulkUploadResult `json:"matched"`
	Unmatched []BulkUploadError  `json:"unmatched"`
}

// BulkUploadResult is one successfully matched file.
type BulkUploadResult struct {
	FileName    string `json:"file_name"`
	ArchivePath string `json:"archive_path"`
	RegNumber   int    `json:"reg_number"`
	RegDate     string `json:"reg_date"`
}

// BulkUploadError is one file that could not be matched.
type BulkUploadError struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}
