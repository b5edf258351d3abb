package browser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/denysvitali/ftptube-go/internal/models"
)

var (
	repeatedSlashes = regexp.MustCompile(`/+`)
	textExtensions  = regexp.MustCompile(`(?i)\.(txt|md|js|ts|html|css|json)$`)
)

// ValidateFileName rejects names that could escape the current directory
func ValidateFileName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: missing file name", models.ErrInvalidInput)
	}
	if strings.Contains(name, "..") || strings.Contains(name, "/") {
		return fmt.Errorf("%w: invalid file name", models.ErrInvalidInput)
	}
	return nil
}

// IsTextFile reports whether a file is served as UTF-8 text rather than as an attachment
func IsTextFile(name string) bool {
	return textExtensions.MatchString(name)
}

// JoinPath places name inside dir
func JoinPath(dir, name string) string {
	if dir == "/" {
		dir = ""
	}
	return repeatedSlashes.ReplaceAllString(dir+"/"+name, "/")
}

// ResolveFolder returns the folder to list when navigating to target from
// current. Absolute targets are taken as is.
func ResolveFolder(current, target string) string {
	if strings.HasPrefix(target, "/") {
		return target
	}
	return JoinPath(current, target)
}

func normalizeDir(dir string) string {
	if dir == "" {
		return "/"
	}
	return dir
}
