package models

// ExtractedDocument is the plain text pulled out of one uploaded file.
type ExtractedDocument struct {
	Field        string `json:"field"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
	Text         string `json:"text"`
	Characters   int    `json:"characters"`
}
