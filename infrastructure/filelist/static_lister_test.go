package filelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winsoft666/node-addon-sample/domain/entities"
)

func TestStaticLister_Default(t *testing.T) {
	records, err := NewStaticLister("", DefaultCount).ListFiles()
	require.NoError(t, err)

	assert.Equal(t, []entities.FileRecord{
		{FilePath: "/root/0.txt", FileSize: 0},
		{FilePath: "/root/1.txt", FileSize: 100},
		{FilePath: "/root/2.txt", FileSize: 200},
	}, records)
}

func TestStaticLister_Custom(t *testing.T) {
	records, err := NewStaticLister("/data/", 5).ListFiles()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "/data/4.txt", records[4].FilePath)
	assert.Equal(t, int64(400), records[4].FileSize)
}

func TestStaticLister_Empty(t *testing.T) {
	records, err := NewStaticLister("/root/", 0).ListFiles()
	require.NoError(t, err)
	assert.Empty(t, records)
}
