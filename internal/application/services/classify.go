package services

import (
	"mime"
	"path"
	"strings"
)

const defaultContentType = "application/octet-stream"

// fallbackContentTypes covers common extensions the platform MIME table may
// not know about.
var fallbackContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".json": "application/json",
	".zip":  "application/zip",
}

// Classify derives the stored extension and content type from a client
// supplied filename. ext is lower-cased with its leading dot, or "" when the
// name has no suffix (dotfiles and trailing dots included).
func Classify(filename string) (ext, contentType string) {
	ext = fileExtension(filename)
	if ext == "" {
		return "", defaultContentType
	}

	if ct := mime.TypeByExtension(ext); ct != "" {
		return ext, ct
	}
	if ct, ok := fallbackContentTypes[ext]; ok {
		return ext, ct
	}

	return ext, defaultContentType
}

func fileExtension(filename string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))

	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return ""
	}

	return strings.ToLower(base[i:])
}
