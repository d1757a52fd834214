package domain

import "time"

// FileMetadata holds the attributes shared by an upload and the physical file produced from it.
type FileMetadata struct {
	Format     string
	SizeBytes  int64
	Extension  string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// FileResource describes one blob persisted in the blob store.
type FileResource struct {
	FileMetadata
	ID string
	// StoredName is the blob store key and the nfo:fileName of the record.
	StoredName string
	URI        string
}

// UploadResource is the logical upload submitted by a client, before physical naming.
type UploadResource struct {
	FileMetadata
	ID string
	// Name is the filename given by the client.
	Name string
	URI  string
}

// Upload joins a logical upload to the file derived from it.
type Upload struct {
	Resource UploadResource
	File     FileResource
}
