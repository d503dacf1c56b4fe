package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxResumeSize is the largest resume accepted, in bytes.
const MaxResumeSize = 8 << 20

// Allowed resume extensions and the MIME types each may declare
var resumeTypes = map[string][]string{
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
}

var (
	ErrNoExtension = errors.New("file has no extension")
	ErrEmptyFile   = errors.New("file is empty")
)

// ValidateResume checks the client-declared metadata of a resume before an
// upload URL is issued. Extension, MIME type and size must all agree.
func ValidateResume(filename, contentType string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ErrNoExtension
	}

	mimes, ok := resumeTypes[ext]
	if !ok {
		return fmt.Errorf("file extension not allowed: %s (allowed: %s)", ext, AllowedResumeExtensions())
	}

	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	matched := false
	for _, m := range mimes {
		if ct == m {
			matched = true
			break
		}
	}
	if !matched {
		return fmt.Errorf("content type %q does not match extension %s", contentType, ext)
	}

	if size <= 0 {
		return ErrEmptyFile
	}
	if size > MaxResumeSize {
		return fmt.Errorf("file exceeds the %d MB limit", MaxResumeSize>>20)
	}
	return nil
}

// AllowedResumeExtensions returns the whitelist for error messages.
func AllowedResumeExtensions() string {
	return ".pdf, .doc, .docx"
}

// SanitizeFileName strips any directory part and characters unsafe in object keys.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "resume"
	}
	return b.String()
}
