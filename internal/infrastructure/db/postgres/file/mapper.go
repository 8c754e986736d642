package file

import (
	domain "file-storage-api/internal/domain/file"
)

func fromDBModel(model *File) *domain.File {
	var f = &domain.File{
		PublicID:  model.PublicID,
		PrivateID: model.PrivateID,

		Email:            model.Email,
		Label:            model.Label,
		OriginalFilename: model.OriginalFilename,
		FileExtension:    model.FileExtension,
		ContentType:      model.ContentType,
		FileSize:         model.FileSize,

		CreatedAt: model.CreatedAt.UTC(),
	}

	return f
}
