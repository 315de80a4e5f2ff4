package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tarlow/cutline/internal/document"
)

// LoadError represents a failure to read an edit file.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadEditFile reads an edit file and returns it as JSON bytes regardless
// of authoring format: .yaml/.yml files are converted, everything else is
// treated as JSON.
func LoadEditFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("edit file not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeUnreadable, Message: fmt.Sprintf("read %s: %v", path, err)}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		jsonBytes, err := document.YAMLToJSON(raw)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeUnreadable, Message: fmt.Sprintf("parse %s: %v", path, err)}
		}
		return jsonBytes, nil
	default:
		return raw, nil
	}
}
