package validate

import (
	"errors"
	"fmt"
	"mime"
	"strings"
	"unicode"
	"unicode/utf8"
)

const MaxFilenameLen = 255

func Upload(filename, format string) error {
	var errs = []error{}

	errs = append(errs, Filename(filename))

	errs = append(errs, Format(format))

	return errors.Join(errs...)
}

// Filename checks the client-supplied name of an upload. The name is only catalogued, never used as a path.
func Filename(name string) error {
	switch l := len(name); {
	case l == 0:
		return errors.New("empty filename")
	case l > MaxFilenameLen:
		return fmt.Errorf("filename too long; max %d bytes", MaxFilenameLen)
	case !utf8.ValidString(name):
		return errors.New("filename is not valid UTF-8")
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return errors.New("filename contains control characters")
	}
	return nil
}

// Format accepts an empty format, which is catalogued as is.
func Format(format string) error {
	if format == "" {
		return nil
	}
	if _, _, err := mime.ParseMediaType(format); err != nil {
		return fmt.Errorf("invalid format %q: %w", format, err)
	}
	return nil
}
