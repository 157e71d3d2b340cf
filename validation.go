package addon

import (
	"fmt"

	"github.com/winsoft666/node-addon-sample/application/validation"
	"github.com/winsoft666/node-addon-sample/domain/entities"
)

// validateRecords checks every record against its struct tags before it is
// marshaled. The lister is a port, so its output is not trusted.
func validateRecords(records []entities.FileRecord) error {
	for i, r := range records {
		if err := validation.Struct(r); err != nil {
			return fmt.Errorf("file record %d: %w", i, err)
		}
	}
	return nil
}
