package config

import (
	"path"
	"path/filepath"
	"strings"
)

// MatchesGlob checks if a project-relative path matches any of the include
// patterns and none of the exclude patterns. Directory paths end in "/".
func MatchesGlob(filePath string, includePatterns []string, excludePatterns []string) bool {
	if len(includePatterns) == 0 {
		return false
	}
	filePath = filepath.ToSlash(filePath)

	for _, pattern := range excludePatterns {
		if globMatch(filePath, filepath.ToSlash(pattern)) {
			return false
		}
	}
	for _, pattern := range includePatterns {
		if globMatch(filePath, filepath.ToSlash(pattern)) {
			return true
		}
	}
	return false
}

// globMatch matches a path against a glob pattern with ** support. A
// pattern like "src/**/*.d.ts" matches any file below a "src" directory
// whose name or remaining path matches "*.d.ts".
func globMatch(filePath, pattern string) bool {
	filePath = "/" + strings.TrimPrefix(filePath, "/")
	pattern = strings.TrimPrefix(pattern, "./")

	if !strings.Contains(pattern, "**") {
		if matched, _ := path.Match("/"+pattern, strings.TrimSuffix(filePath, "/")); matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			matched, _ := path.Match(pattern, path.Base(filePath))
			return matched
		}
		return false
	}

	parts := strings.SplitN(pattern, "**", 2)
	prefix := strings.Trim(parts[0], "/")
	suffix := strings.TrimPrefix(parts[1], "/")

	remaining := strings.TrimPrefix(filePath, "/")
	if prefix != "" {
		searchStr := "/" + prefix + "/"
		idx := strings.Index(filePath, searchStr)
		if idx < 0 {
			return false
		}
		remaining = filePath[idx+len(searchStr):]
	}
	if suffix == "" {
		return true
	}
	if strings.HasSuffix(remaining, "/") {
		return false
	}
	if matched, _ := path.Match(suffix, path.Base(remaining)); matched {
		return true
	}
	matched, _ := path.Match(suffix, remaining)
	return matched
}
