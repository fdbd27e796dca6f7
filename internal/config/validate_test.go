package config

import (
	"testing"
)

func TestValidateDetailed_Valid(t *testing.T) {
	cfg := DefaultConfig()
	result := cfg.ValidateDetailed()
	if !result.IsValid() {
		t.Errorf("expected valid config, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
}

func TestValidateDetailed_MissingInclude(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Include = nil
	result := cfg.ValidateDetailed()
	if result.IsValid() {
		t.Error("expected invalid config")
	}
}

func TestValidateDetailed_UnknownOption(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Options = map[string]any{"jsdoc": true, "exact": true}
	result := cfg.ValidateDetailed()
	if len(result.Errors) != 1 {
		t.Errorf("expected one error for the unknown option, got %v", result.Errors)
	}
}

func TestValidateDetailed_QuotedModuleName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModuleName = `bad"name`
	if cfg.ValidateDetailed().IsValid() {
		t.Error("expected error for quoted module name")
	}
}

func TestValidateDetailed_OutDirIsProjectDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = "/project"
	cfg.OutDir = "."
	result := cfg.ValidateDetailed()
	if len(result.Warnings) == 0 {
		t.Error("expected warning for outDir equal to the project directory")
	}
}

func TestValidateDetailed_WeirdIncludePattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Include = []string{"types"}
	result := cfg.ValidateDetailed()
	if len(result.Warnings) == 0 {
		t.Error("expected warning for pattern without wildcard")
	}
}
