package file

import "time"

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
)
