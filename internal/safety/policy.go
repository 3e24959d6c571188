package safety

import (
	"path/filepath"
	"strings"
)

// writableExts lists the artifact types ghostwriter produces.
var writableExts = map[string]bool{
	".png":  true,
	".svg":  true,
	".json": true,
	".txt":  true,
}

// ValidateWritePath applies ValidateRelPath's boundary rules for writes and
// additionally restricts targets to known artifact extensions.
func ValidateWritePath(absRoot, relPath string) (string, error) {
	candidate, rel, err := resolveUnder(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if underDir(rel, ".git") || underDir(rel, ".ghostwriter") {
		return "", PolicyError{Code: "ERR_DENIED_WRITE", Message: "writes under .git/ or .ghostwriter/ are not allowed"}
	}
	if !writableExts[strings.ToLower(filepath.Ext(rel))] {
		return "", PolicyError{Code: "ERR_DENIED_WRITE", Message: "only .png, .svg, .json and .txt artifacts may be written"}
	}
	return candidate, nil
}
