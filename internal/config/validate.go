package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/flowgen/flowgen/internal/options"
)

// ValidationResult holds config validation results.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// ValidateDetailed performs thorough config validation with suggestions.
func (c *Config) ValidateDetailed() *ValidationResult {
	result := &ValidationResult{}

	if len(c.Include) == 0 {
		result.Errors = append(result.Errors, "include: at least one pattern required")
	}
	for _, pattern := range c.Include {
		if !strings.Contains(pattern, "*") && !isTypeScript(pattern) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("include: pattern %q has no wildcard or TypeScript extension; did you mean %q?", pattern, strings.TrimSuffix(pattern, "/")+"/**/*.d.ts"))
		}
	}

	for key, v := range c.Options {
		if !options.Known(key) {
			result.Errors = append(result.Errors, fmt.Sprintf("options.%s: unknown option", key))
			continue
		}
		if _, ok := v.(bool); !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("options.%s: expected a boolean, got %T", key, v))
		}
	}

	if c.OutDir != "" && c.Dir != "" && filepath.Clean(c.resolve(c.OutDir)) == filepath.Clean(c.Dir) {
		result.Warnings = append(result.Warnings,
			"outDir: same as the project directory; outputs will be written next to their inputs")
	}

	if c.ModuleName != "" && strings.ContainsAny(c.ModuleName, "\"\n") {
		result.Errors = append(result.Errors,
			fmt.Sprintf("moduleName: %q must not contain quotes or newlines", c.ModuleName))
	}

	return result
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func isTypeScript(path string) bool {
	return FlowFileName(path) != path+".js.flow"
}
