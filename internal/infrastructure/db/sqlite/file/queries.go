package file

const (
	CreateFilesTable = `
		CREATE TABLE IF NOT EXISTS files (
			public_id         TEXT PRIMARY KEY,
			private_id        TEXT NOT NULL UNIQUE,
			email             TEXT NOT NULL,
			label             TEXT NOT NULL,
			original_filename TEXT NOT NULL,
			file_extension    TEXT NOT NULL,
			content_type      TEXT NOT NULL,
			file_size         INTEGER NOT NULL,
			created_at        TEXT NOT NULL
		)
	`
	CreateFilesEmailIndex = `CREATE INDEX IF NOT EXISTS files_email_idx ON files (email)`

	SelectFileByPublicID = `
		SELECT public_id, private_id, email, label, original_filename, file_extension, content_type, file_size, created_at
		FROM files
		WHERE public_id = ?
	`
	InsertFile = `
		INSERT INTO files (public_id, private_id, email, label, original_filename, file_extension, content_type, file_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	DeleteFileByPublicID = `DELETE FROM files WHERE public_id = ?`
)
