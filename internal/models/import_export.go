package models

// ImportRowError reports why a single bulk-upload row was rejected.
// Row numbers are 1-based and count the header as row 1.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportSummary is the result of a bulk upload. Rows that succeed stay
// committed even when others fail.
type ImportSummary struct {
	SuccessCount int              `json:"success_count"`
	ErrorCount   int              `json:"error_count"`
	Errors       []ImportRowError `json:"errors"`
	Summary      string           `json:"summary"`
}

// BulkUploadColumns is the header layout shared by import and export.
var BulkUploadColumns = []string{
	"subject_id", "topic_id", "question_type", "content", "difficulty", "explanation", "options",
}
