package binding

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/winsoft666/node-addon-sample/domain/entities"
)

// Record is the host-observable form of a structured result entry.
// Keys keep their insertion order in iteration and in JSON.
type Record = *orderedmap.OrderedMap[string, any]

// Marshal converts a native result into its host-observable form:
// integers become int64, records become ordered maps, record slices become
// []any preserving element order. Other values pass through.
func Marshal(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case entities.FileRecord:
		return MarshalRecord(x)
	case []entities.FileRecord:
		list := make([]any, len(x))
		for i, r := range x {
			list[i] = MarshalRecord(r)
		}
		return list
	default:
		return v
	}
}

// MarshalRecord converts a FileRecord into a Record with fields in declaration order.
func MarshalRecord(r entities.FileRecord) Record {
	m := orderedmap.New[string, any]()
	m.Set("filePath", r.FilePath)
	m.Set("fileSize", r.FileSize)
	return m
}
