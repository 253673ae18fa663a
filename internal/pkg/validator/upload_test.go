package validator

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/config"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
)

func newValidator() *Validator {
	return NewUploadValidator(config.FileUploadConfig{MaxFileSize: 100, MaxUploadSize: 400})
}

func TestValidateUpload(t *testing.T) {
	v := newValidator()

	typ, err := v.ValidateUpload(&multipart.FileHeader{Filename: "notes.pdf", Size: 50})
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentTypePDF, typ)

	typ, err = v.ValidateUpload(&multipart.FileHeader{Filename: "README.md", Size: 50})
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentTypeMarkdown, typ)
}

func TestValidateUploadRejectsExtension(t *testing.T) {
	v := newValidator()

	_, err := v.ValidateUpload(&multipart.FileHeader{Filename: "setup.exe", Size: 10})
	require.ErrorIs(t, err, entity.ErrInvalidExtension)

	_, err = v.ValidateUpload(&multipart.FileHeader{Filename: "noextension", Size: 10})
	require.ErrorIs(t, err, entity.ErrInvalidExtension)
}

func TestValidateUploadRejectsOversize(t *testing.T) {
	v := newValidator()

	_, err := v.ValidateUpload(&multipart.FileHeader{Filename: "big.txt", Size: 101})
	require.ErrorIs(t, err, entity.ErrFileTooLarge)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "notes.txt", SanitizeFilename("notes.txt"))
	assert.NotContains(t, SanitizeFilename("../../etc/passwd"), "/")
	assert.NotContains(t, SanitizeFilename(`..\evil.txt`), `\`)
}
