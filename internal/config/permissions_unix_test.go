//go:build unix

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckFilePermissions(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		mode     os.FileMode
		wantWarn bool
	}{
		{0600, false},
		{0640, true},
		{0644, true},
		{0700, false},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.mode.String()+".yaml")
		if err := os.WriteFile(path, []byte("file: {}\n"), tt.mode); err != nil {
			t.Fatal(err)
		}
		if err := os.Chmod(path, tt.mode); err != nil {
			t.Fatal(err)
		}
		warning := checkFilePermissions(path)
		if (warning != "") != tt.wantWarn {
			t.Errorf("mode %04o: warning = %q, wantWarn %v", tt.mode, warning, tt.wantWarn)
		}
		if tt.wantWarn && !strings.Contains(warning, "chmod 600") {
			t.Errorf("warning should suggest chmod: %q", warning)
		}
	}
	if checkFilePermissions(filepath.Join(dir, "missing.yaml")) != "" {
		t.Error("missing file should not warn")
	}
}
