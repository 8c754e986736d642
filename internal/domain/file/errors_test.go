package file

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Kinds(t *testing.T) {
	err := InvalidInput("File must have an extension")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "File must have an extension", err.Error())

	wrapped := fmt.Errorf("upload: %w", NotFound("File not found"))
	assert.True(t, errors.Is(wrapped, ErrNotFound))

	var fe *Error
	assert.True(t, errors.As(wrapped, &fe))
	assert.Equal(t, "File not found", fe.Detail)
}

func TestFile_BlobName(t *testing.T) {
	f := &File{PublicID: "pub", PrivateID: "priv", FileExtension: ".pdf"}
	assert.Equal(t, "priv.pdf", f.BlobName())
}
