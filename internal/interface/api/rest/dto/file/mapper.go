package file

import (
	"file-storage-api/internal/domain/file"
)

func ToUploadResponse(r file.UploadResult) UploadResponse {
	return UploadResponse{
		Success:   true,
		PublicURL: r.DownloadURL,
		PublicID:  r.File.PublicID,
		Message:   r.Message,
	}
}

func ToInfoResponse(i file.Info) InfoResponse {
	return InfoResponse{
		PublicID:         i.PublicID,
		Email:            i.Email,
		Label:            i.Label,
		OriginalFilename: i.OriginalFilename,
		ContentType:      i.ContentType,
		FileSize:         i.FileSize,
		CreatedAt:        i.CreatedAt,
		FileExistsOnDisk: i.ExistsOnDisk,
	}
}

func ToDeleteResponse(r file.DeleteResult) DeleteResponse {
	return DeleteResponse{
		Success: true,
		Message: r.Message,
	}
}
