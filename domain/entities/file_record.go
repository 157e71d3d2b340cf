package entities

// FileRecord is one entry of a file listing.
// Field order is part of the contract: hosts observe filePath before fileSize.
type FileRecord struct {
	FilePath string `json:"filePath"`
	FileSize int64  `json:"fileSize" validate:"gte=0"`
}
