package envfile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// unset clears key for the test and restores it afterwards.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	_ = os.Unsetenv(key) //nolint:errcheck
}

func TestRead_MissingFile(t *testing.T) {
	vars, err := Read(filepath.Join(t.TempDir(), "nope"))
	if err != nil || vars != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", vars, err)
	}
}

func TestRead_SkipsCommentsAndBlanks(t *testing.T) {
	path := writeEnv(t, "# comment\n\nGH_TOKEN=abc\n  # indented comment\nbroken line\n")
	vars, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(vars) != 1 || vars[0] != (Var{Key: "GH_TOKEN", Value: "abc"}) {
		t.Errorf("Read() = %+v", vars)
	}
}

func TestLoad_SetsUnsetVars(t *testing.T) {
	unset(t, "SLASHKIT_TEST_A")
	unset(t, "SLASHKIT_TEST_B")
	path := writeEnv(t, "SLASHKIT_TEST_A=hello\nexport SLASHKIT_TEST_B='world'\n")

	applied, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(applied, []string{"SLASHKIT_TEST_A", "SLASHKIT_TEST_B"}) {
		t.Errorf("applied = %v", applied)
	}
	if got := os.Getenv("SLASHKIT_TEST_A"); got != "hello" {
		t.Errorf("SLASHKIT_TEST_A = %q", got)
	}
	if got := os.Getenv("SLASHKIT_TEST_B"); got != "world" {
		t.Errorf("SLASHKIT_TEST_B = %q", got)
	}
}

func TestLoad_EnvironmentWins(t *testing.T) {
	t.Setenv("SLASHKIT_TEST_C", "from_env")
	path := writeEnv(t, "SLASHKIT_TEST_C=from_file\n")

	applied, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(applied) != 0 {
		t.Errorf("applied = %v, want none", applied)
	}
	if got := os.Getenv("SLASHKIT_TEST_C"); got != "from_env" {
		t.Errorf("SLASHKIT_TEST_C = %q, want from_env", got)
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		wantKey string
		wantVal string
		wantOK  bool
	}{
		{"KEY=value", "KEY", "value", true},
		{`KEY="quoted value"`, "KEY", "quoted value", true},
		{"KEY='single quoted'", "KEY", "single quoted", true},
		{`KEY="mismatched'`, "KEY", `"mismatched'`, true},
		{"export KEY=value", "KEY", "value", true},
		{"  KEY = value  ", "KEY", "value", true},
		{"KEY=a=b", "KEY", "a=b", true},
		{"no-equals-sign", "", "", false},
		{"=no-key", "", "", false},
	}
	for _, tt := range tests {
		key, val, ok := parseLine(tt.line)
		if ok != tt.wantOK || key != tt.wantKey || val != tt.wantVal {
			t.Errorf("parseLine(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.line, key, val, ok, tt.wantKey, tt.wantVal, tt.wantOK)
		}
	}
}
