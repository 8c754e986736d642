package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDPair(t *testing.T) {
	pub, priv := newIDPair()
	assert.NotEqual(t, pub, priv)
	_, err := uuid.Parse(pub)
	require.NoError(t, err)
	_, err = uuid.Parse(priv)
	require.NoError(t, err)
}

func TestDownloadPath(t *testing.T) {
	assert.Equal(t, "/download/abc", DownloadPath("abc"))
}

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"":                   "file",
		"Résumé Final.PDF":   "resume-final.pdf",
		"données.txt":        "donnees.txt",
		"日本語.txt":            "file.txt",
		"report.tar.gz":      "report-tar.gz",
		"../../etc/passwd":   "passwd",
		`C:\temp\My File.doc`: "my-file.doc",
		"con.txt":            "_con.txt",
		"a  --  b.csv":       "a-b.csv",
		"quote\".txt":        "quote.txt",
		"..":                 "file",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFileName(in), in)
	}
}

func TestSanitizeFileName_Truncates(t *testing.T) {
	got := sanitizeFileName(strings.Repeat("a", 300) + ".txt")
	assert.LessOrEqual(t, len(got), maxBaseNameLen)
	assert.True(t, strings.HasSuffix(got, ".txt"))
}
