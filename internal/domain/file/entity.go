package file

import (
	"time"
)

type (
	File struct {
		PublicID  string
		PrivateID string

		Email            string
		Label            string
		OriginalFilename string
		FileExtension    string
		ContentType      string
		FileSize         int64

		CreatedAt time.Time
	}

	// Info is a File plus a blob existence check made at lookup time.
	Info struct {
		File
		ExistsOnDisk bool
	}
)

// BlobName is the name of the blob holding the file content. It is derived
// from the private id only, so it can't be guessed from a public URL.
func (f *File) BlobName() string { return f.PrivateID + f.FileExtension }
