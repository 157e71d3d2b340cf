package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winsoft666/node-addon-sample/application/schema"
	"github.com/winsoft666/node-addon-sample/domain/entities"
)

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(entities.FileRecord{FilePath: "/root/1.txt", FileSize: 100}))

	err := Struct(entities.FileRecord{FilePath: "/root/1.txt", FileSize: -1})
	require.Error(t, err)

	var fe FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "fileSize", fe.Field)
	assert.Equal(t, "gte", fe.Tag)
	assert.Equal(t, "fileSize failed gte=0", err.Error())
}

func TestSchemaValidator(t *testing.T) {
	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count,omitempty"`
	}
	schemaJSON, err := schema.GenerateSchema(doc{})
	require.NoError(t, err)

	v := NewSchemaValidator()

	require.NoError(t, v.Validate("doc.json", schemaJSON, map[string]any{"name": "x", "count": 2}))
	require.NoError(t, v.Validate("doc.json", nil, map[string]any{"name": "y"}), "compiled schema is cached")

	err = v.Validate("doc.json", schemaJSON, map[string]any{"count": 2})
	require.Error(t, err, "name is required")

	err = v.Validate("doc.json", schemaJSON, map[string]any{"name": "x", "extra": true})
	require.Error(t, err, "unknown keys are rejected")

	err = v.Validate("doc.json", schemaJSON, map[string]any{"name": 5})
	require.Error(t, err)
}

func TestSchemaValidator_InvalidSchema(t *testing.T) {
	v := NewSchemaValidator()
	err := v.Validate("broken.json", []byte(`{"type": 12}`), map[string]any{})
	require.Error(t, err)
}
