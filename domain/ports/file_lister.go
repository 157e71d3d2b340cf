package ports

import "github.com/winsoft666/node-addon-sample/domain/entities"

// FileLister enumerates the files reported by GetFileList.
// Implementations must return records in a stable order.
type FileLister interface {
	ListFiles() ([]entities.FileRecord, error)
}
