package compiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
	"github.com/microsoft/typescript-go/shim/ast"
	shimcompiler "github.com/microsoft/typescript-go/shim/compiler"
	"github.com/microsoft/typescript-go/shim/core"
	"github.com/microsoft/typescript-go/shim/tsoptions"
	"github.com/microsoft/typescript-go/shim/tspath"

	"github.com/flowgen/flowgen/internal/vfsutil"
)

// ConfigFileName is the name of the virtual tsconfig placed in the working
// directory of every compilation.
const ConfigFileName = "__flowgen__.tsconfig.json"

// Diagnostic represents a program-level diagnostic message.
type Diagnostic struct {
	FilePath string
	Message  string
}

func (d Diagnostic) String() string {
	if d.FilePath != "" {
		return fmt.Sprintf("%s: %s", d.FilePath, d.Message)
	}
	return d.Message
}

// tsconfig is the virtual project flowgen compiles against. No lib files
// are loaded: library globals stay unbound and go through the identifier
// table instead.
type tsconfig struct {
	CompilerOptions compilerOptions `json:"compilerOptions"`
	Files           []string        `json:"files"`
}

type compilerOptions struct {
	NoLib            bool     `json:"noLib"`
	SkipLibCheck     bool     `json:"skipLibCheck"`
	Target           string   `json:"target"`
	Module           string   `json:"module"`
	ModuleResolution string   `json:"moduleResolution"`
	Types            []string `json:"types"`
}

// ProjectConfig renders the virtual tsconfig for rootFiles.
func ProjectConfig(rootFiles []string) (string, error) {
	cfg := tsconfig{
		CompilerOptions: compilerOptions{
			NoLib:            true,
			SkipLibCheck:     true,
			Target:           "esnext",
			Module:           "esnext",
			ModuleResolution: "bundler",
			Types:            []string{},
		},
		Files: rootFiles,
	}
	if cfg.Files == nil {
		cfg.Files = []string{}
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, "encode virtual tsconfig")
	}
	return string(data), nil
}

// ParseTSConfig parses a tsconfig file with tsgo's JSONC parser.
func ParseTSConfig(fs *vfsutil.Overlay, cwd string, tsconfigPath string, host shimcompiler.CompilerHost) (*tsoptions.ParsedCommandLine, []Diagnostic, error) {
	resolvedConfigPath := tspath.ResolvePath(cwd, tsconfigPath)
	if !fs.FileExists(resolvedConfigPath) {
		return nil, nil, errors.Newf("could not find tsconfig at %v", resolvedConfigPath)
	}

	parsed, diagnostics := tsoptions.GetParsedCommandLineOfConfigFile(resolvedConfigPath, &core.CompilerOptions{}, nil, host, nil)
	if len(diagnostics) > 0 {
		return nil, convertDiagnostics(diagnostics), nil
	}
	if parsed != nil && len(parsed.Errors) > 0 {
		return nil, convertDiagnostics(parsed.Errors), nil
	}
	return parsed, nil, nil
}

// CreateProgram writes the virtual tsconfig for rootFiles into fs, then
// parses and binds a single-threaded program. Program diagnostics (for
// example unresolved imports) are returned alongside the program: they never
// stop a translation.
func CreateProgram(fs *vfsutil.Overlay, cwd string, rootFiles []string) (*shimcompiler.Program, []Diagnostic, error) {
	configText, err := ProjectConfig(rootFiles)
	if err != nil {
		return nil, nil, err
	}
	configPath := tspath.ResolvePath(cwd, ConfigFileName)
	fs.Set(configPath, configText)

	host := CreateDefaultHost(cwd, fs)
	parsed, diags, err := ParseTSConfig(fs, cwd, configPath, host)
	if err != nil {
		return nil, nil, err
	}
	if parsed == nil {
		return nil, diags, errors.Newf("could not parse virtual tsconfig: %s", FormatDiagnostics(diags))
	}

	program := shimcompiler.NewProgram(shimcompiler.ProgramOptions{
		Config:                      parsed,
		SingleThreaded:              core.TSTrue,
		Host:                        host,
		UseSourceOfProjectReference: true,
	})
	if program == nil {
		return nil, nil, errors.New("failed to create program")
	}
	program.BindSourceFiles()

	return program, convertDiagnostics(program.GetProgramDiagnostics()), nil
}

// GetSyntacticDiagnostics returns parse errors for all source files.
func GetSyntacticDiagnostics(ctx context.Context, program *shimcompiler.Program) []*ast.Diagnostic {
	return shimcompiler.Program_GetSyntacticDiagnostics(program, ctx, nil)
}

// convertDiagnostics converts tsgo diagnostics to our Diagnostic type.
func convertDiagnostics(tsdiags []*ast.Diagnostic) []Diagnostic {
	if len(tsdiags) == 0 {
		return nil
	}
	diags := make([]Diagnostic, len(tsdiags))
	for i, d := range tsdiags {
		var filePath string
		if d.File() != nil {
			filePath = d.File().FileName()
		}
		diags[i] = Diagnostic{
			FilePath: filePath,
			Message:  d.String(),
		}
	}
	return diags
}

// FormatDiagnostics formats diagnostics into human-readable lines.
func FormatDiagnostics(diags []Diagnostic) string {
	var sb strings.Builder
	for _, d := range diags {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
