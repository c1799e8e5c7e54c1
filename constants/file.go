package constants

import "strings"

// AllowedExtensions holds the file extensions accepted from the transport.
// Resumes arrive as PDFs; anything else is ignored at fetch time.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NotFound is the sentinel stored for a candidate field that could not be
// extracted. A real value rather than an absence marker, so downstream
// tabular storage stays rectangular.
const NotFound = "N/A"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// AllowedExt checks if a file extension is in the allowed set.
func AllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
