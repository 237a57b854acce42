package source_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"vladiate/internal/domain"
	"vladiate/internal/port"
	"vladiate/internal/source"
	"vladiate/mocks"
)

func readSource(t *testing.T, src port.Source) string {
	t.Helper()
	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vampires.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	src := source.NewLocalFile(path)
	assert.Equal(t, "a,b\n1,2\n", readSource(t, src))
	assert.Equal(t, "a,b\n1,2\n", readSource(t, src), "every Open starts from the beginning")
	assert.Equal(t, "LocalFile('"+path+"')", src.String())
}

func TestLocalFile_Missing(t *testing.T) {
	_, err := source.NewLocalFile(filepath.Join(t.TempDir(), "nope.csv")).Open(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestString(t *testing.T) {
	src := source.NewString("a,b\n1,2\n")
	assert.Equal(t, "a,b\n1,2\n", readSource(t, src))
	assert.Equal(t, "a,b\n1,2\n", readSource(t, src))
	assert.Equal(t, "String(8 bytes)", src.String())
}

func TestStringFromReader(t *testing.T) {
	src, err := source.NewStringFromReader(strings.NewReader("a\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", readSource(t, src))
	assert.Equal(t, "a\n1\n", readSource(t, src))
}

func TestNewS3File(t *testing.T) {
	storage := new(mocks.MockObjectStorage)

	tests := []struct {
		name     string
		path     string
		bucket   string
		key      string
		expected string
		err      error
	}{
		{"path", "s3://bucket/dir/file.csv", "", "", "S3File('s3://bucket/dir/file.csv')", nil},
		{"bucket and key", "", "bucket", "file.csv", "S3File('s3://bucket/file.csv')", nil},
		{"key leading slash", "", "bucket", "/file.csv", "S3File('s3://bucket/file.csv')", nil},
		{"both forms", "s3://bucket/file.csv", "bucket", "file.csv", "", domain.ErrInvalidSourcePath},
		{"neither form", "", "", "", "", domain.ErrInvalidSourcePath},
		{"bucket only", "", "bucket", "", "", domain.ErrInvalidSourcePath},
		{"wrong scheme", "https://bucket/file.csv", "", "", "", domain.ErrInvalidSourcePath},
		{"no key", "s3://bucket", "", "", "", domain.ErrInvalidSourcePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := source.NewS3File(storage, tt.path, tt.bucket, tt.key)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, src.String())
		})
	}
}

func TestNewS3File_NoStorage(t *testing.T) {
	_, err := source.NewS3File(nil, "s3://bucket/file.csv", "", "")
	assert.ErrorIs(t, err, domain.ErrMissingCapability)
}

func TestS3File_Open(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "bucket", "dir/file.csv").Return([]byte("a,b\n1,2\n"), nil).Once()

	src, err := source.NewS3File(storage, "s3://bucket/dir/file.csv", "", "")
	require.NoError(t, err)

	assert.Equal(t, "a,b\n1,2\n", readSource(t, src))
	assert.Equal(t, "a,b\n1,2\n", readSource(t, src))
	storage.AssertExpectations(t)
}

func TestS3File_OpenError(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "bucket", "file.csv").Return(nil, errors.New("access denied"))

	src, err := source.NewS3File(storage, "", "bucket", "file.csv")
	require.NoError(t, err)

	_, err = src.Open(context.Background())
	assert.ErrorContains(t, err, "access denied")
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"Name", "Status", "Notes"},
		{"Vlad", "Vampire", "impaler"},
		{"Buffy", "Not A Vampire"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Other", "A1", "Only"))

	path := filepath.Join(t.TempDir(), "vampires.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestXLSXFile(t *testing.T) {
	path := writeWorkbook(t)

	src := source.NewXLSXFile(path, "", 0)
	assert.Equal(t, "Name,Status,Notes\nVlad,Vampire,impaler\nBuffy,Not A Vampire,\n", readSource(t, src))
	assert.Equal(t, "XLSXFile('"+path+"')", src.String())
}

func TestXLSXFile_SheetAndDelimiter(t *testing.T) {
	path := writeWorkbook(t)

	src := source.NewXLSXFile(path, "Other", '|')
	assert.Equal(t, "Only\n", readSource(t, src))
	assert.Equal(t, "XLSXFile('"+path+"', sheet='Other')", src.String())

	_, err := source.NewXLSXFile(path, "Missing", 0).Open(context.Background())
	assert.Error(t, err)
}
