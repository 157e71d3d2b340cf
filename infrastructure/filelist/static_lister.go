// Package filelist provides FileLister adapters.
package filelist

import (
	"strconv"

	"github.com/winsoft666/node-addon-sample/domain/entities"
	"github.com/winsoft666/node-addon-sample/domain/ports"
)

// DefaultRoot and DefaultCount reproduce the fixed listing hosts rely on.
const (
	DefaultRoot  = "/root/"
	DefaultCount = 3
)

// StaticLister reports a fixed, synthetic listing: <root><i>.txt with size i*100.
type StaticLister struct {
	root  string
	count int
}

// NewStaticLister creates a StaticLister. An empty root falls back to DefaultRoot.
func NewStaticLister(root string, count int) ports.FileLister {
	if root == "" {
		root = DefaultRoot
	}
	return &StaticLister{root: root, count: count}
}

// ListFiles implements ports.FileLister.
func (l *StaticLister) ListFiles() ([]entities.FileRecord, error) {
	records := make([]entities.FileRecord, 0, l.count)
	for i := 0; i < l.count; i++ {
		records = append(records, entities.FileRecord{
			FilePath: l.root + strconv.Itoa(i) + ".txt",
			FileSize: int64(i) * 100,
		})
	}
	return records, nil
}
