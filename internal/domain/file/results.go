package file

import "io"

type (
	UploadResult struct {
		File        *File
		DownloadURL string
		Message     string
	}

	// Download owns Body; the caller must close it.
	Download struct {
		File     *File
		Body     io.ReadCloser
		FileName string
	}

	DeleteResult struct {
		File        *File
		BlobExisted bool
		Message     string
	}
)
