package file

import "time"

type (
	UploadResponse struct {
		Success   bool   `json:"success"`
		PublicURL string `json:"public_url"`
		PublicID  string `json:"public_id"`
		Message   string `json:"message"`
	}

	// InfoResponse never carries the private id.
	InfoResponse struct {
		PublicID         string    `json:"public_id"`
		Email            string    `json:"email"`
		Label            string    `json:"label"`
		OriginalFilename string    `json:"original_filename"`
		ContentType      string    `json:"content_type"`
		FileSize         int64     `json:"file_size"`
		CreatedAt        time.Time `json:"created_at"`
		FileExistsOnDisk bool      `json:"file_exists_on_disk"`
	}

	DeleteResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}

	ErrorResponse struct {
		Detail string `json:"detail"`
	}
)
