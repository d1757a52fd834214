// Package naming derives identifiers, stored names and URIs for uploaded files. Nothing in it performs I/O.
package naming

import (
	"strings"

	"github.com/google/uuid"
)

const shareScheme = "share://"

// MaxNameLen is the longest stored name any supported store accepts.
const MaxNameLen = 255

// NextIdentifier returns a new random identifier.
func NextIdentifier() string {
	return uuid.NewString()
}

// Extension returns the text after the last dot of filename. A filename without a dot is returned whole.
func Extension(filename string) string {
	i := strings.LastIndex(filename, ".")
	return filename[i+1:]
}

// StoredName is the name under which the blob of file id is written. The suffix is the text after the
// last dot of the original filename; when there is none, or it could not be part of a flat name of at
// most MaxNameLen bytes, the bare identifier is used.
func StoredName(id, filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 || strings.ContainsAny(filename[i:], "/\\\x00") || len(id)+len(filename)-i > MaxNameLen {
		return id
	}
	return id + filename[i:]
}

// UploadURI is the URI of the upload resource with the given id.
func UploadURI(base, id string) string {
	return base + id
}

// ShareURI is the URI of a stored file, relative to the share root.
func ShareURI(relativePath, storedName string) string {
	if relativePath == "" {
		return shareScheme + storedName
	}
	return shareScheme + relativePath + "/" + storedName
}

// IsStoredName reports whether name has the shape StoredName produces: an identifier, optionally
// followed by a suffix.
func IsStoredName(name string) bool {
	id, _, _ := strings.Cut(name, ".")
	if len(id) != len(uuid.Nil.String()) {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// StoredNameFromShareURI returns the last segment of a share:// URI.
func StoredNameFromShareURI(uri string) (string, bool) {
	if !strings.HasPrefix(uri, shareScheme) {
		return "", false
	}
	rest := strings.TrimPrefix(uri, shareScheme)
	name := rest[strings.LastIndex(rest, "/")+1:]
	return name, name != ""
}
