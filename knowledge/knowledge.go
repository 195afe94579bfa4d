// Package knowledge manages the reference documents an agent draws on. A
// collection is a named set of documents; the Service contract covers listing,
// uploading and deleting them, and Library tracks one collection for a client.
package knowledge

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"
)

// DefaultCollectionID names the collection backing the drafting agent.
const DefaultCollectionID = "699409c3869797813b09f696"

// MaxFileSize is the largest accepted upload in bytes.
const MaxFileSize = 25 << 20

// AllowedExtensions lists the accepted document types.
var AllowedExtensions = []string{".pdf", ".docx", ".txt"}

// Document is a stored reference document.
type Document struct {
	FileName   string    `json:"fileName"`
	FileType   string    `json:"fileType"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// File is a document about to be uploaded.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Validation is the verdict on a File.
type Validation struct {
	Valid  bool
	Reason string
}

// Service stores documents in collections.
type Service interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Upload(ctx context.Context, collection string, f File) error
	Delete(ctx context.Context, collection string, names ...string) error
}

// Validate checks the file name, type and size.
func Validate(f File) Validation {
	name := strings.TrimSpace(f.Name)
	if name == "" || path.Base(name) != name {
		return Validation{Reason: "invalid file name"}
	}

	ext := strings.ToLower(path.Ext(name))
	if !slices.Contains(AllowedExtensions, ext) {
		return Validation{Reason: fmt.Sprintf("unsupported file type %q, allowed: %s", ext, strings.Join(AllowedExtensions, ", "))}
	}

	switch size := len(f.Data); {
	case size == 0:
		return Validation{Reason: "file is empty"}
	case size > MaxFileSize:
		return Validation{Reason: fmt.Sprintf("file exceeds %d MB", MaxFileSize>>20)}
	}

	return Validation{Valid: true}
}

// FileType returns the type label of a document name: its extension without
// the dot, upper-cased.
func FileType(name string) string {
	return strings.ToUpper(strings.TrimPrefix(path.Ext(name), "."))
}
