package imagehost

import (
	"fmt"
	"path/filepath"
	"strings"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Validate checks the file name and size before anything is sent to the host.
func Validate(filename string, size, maxBytes int64) error {
	if size <= 0 {
		return fmt.Errorf("file %s is empty", filename)
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("file %s exceeds the %d byte limit", filename, maxBytes)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("file %s has an unsupported format", filename)
	}
	return nil
}
