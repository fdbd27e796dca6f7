package config

import "testing"

func TestMatchesGlob(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		include []string
		exclude []string
		want    bool
	}{
		{"doublestar any depth", "a/b/c.d.ts", []string{"**/*.d.ts"}, nil, true},
		{"doublestar top level", "c.d.ts", []string{"**/*.d.ts"}, nil, true},
		{"extension mismatch", "a/c.ts", []string{"**/*.d.ts"}, nil, false},
		{"prefixed doublestar", "types/x/y.d.ts", []string{"types/**/*.d.ts"}, nil, true},
		{"prefixed doublestar other dir", "src/y.d.ts", []string{"types/**/*.d.ts"}, nil, false},
		{"exact file", "index.d.ts", []string{"index.d.ts"}, nil, true},
		{"basename pattern", "lib/index.d.ts", []string{"*.d.ts"}, nil, true},
		{"rooted pattern", "lib/index.d.ts", []string{"index.d.ts"}, nil, true},
		{"path pattern", "lib/index.d.ts", []string{"src/index.d.ts"}, nil, false},
		{"exclude wins", "node_modules/x/index.d.ts", []string{"**/*.d.ts"}, []string{"node_modules/**"}, false},
		{"excluded directory", "node_modules/", []string{"node_modules/**"}, nil, true},
		{"no include", "index.d.ts", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesGlob(tt.path, tt.include, tt.exclude); got != tt.want {
				t.Errorf("MatchesGlob(%q, %v, %v) = %v, want %v", tt.path, tt.include, tt.exclude, got, tt.want)
			}
		})
	}
}
