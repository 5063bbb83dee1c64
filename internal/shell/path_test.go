package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// env returns a Getenv function backed by a map.
func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

// existing returns an Exists function reporting true only for the given paths.
func existing(paths ...string) func(string) bool {
	return func(path string) bool {
		for _, p := range paths {
			if p == path {
				return true
			}
		}
		return false
	}
}

// TestPlatform_DefaultPath verifies executable discovery per platform.
func TestPlatform_DefaultPath(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		want     string
	}{
		{
			name: "windows prefers x86 program files",
			platform: Platform{
				GOOS: "windows",
				Getenv: env(map[string]string{
					"PROGRAMFILES(x86)": `C:\Program Files (x86)`,
					"PROGRAMFILES":      `C:\Program Files`,
				}),
				Exists: existing(),
			},
			want: `C:\Program Files (x86)\itms\iTMSTransporter.CMD`,
		},
		{
			name: "windows falls back to program files",
			platform: Platform{
				GOOS:   "windows",
				Getenv: env(map[string]string{"PROGRAMFILES": `D:\Apps\`}),
				Exists: existing(),
			},
			want: `D:\Apps\itms\iTMSTransporter.CMD`,
		},
		{
			name: "darwin picks the first existing candidate",
			platform: Platform{
				GOOS:   "darwin",
				Getenv: env(nil),
				Exists: existing(darwinCandidates[1], darwinCandidates[2]),
			},
			want: darwinCandidates[1],
		},
		{
			name: "darwin without an app install",
			platform: Platform{
				GOOS:   "darwin",
				Getenv: env(nil),
				Exists: existing(),
			},
			want: "/usr/local/itms/bin/iTMSTransporter",
		},
		{
			name: "linux",
			platform: Platform{
				GOOS:   "linux",
				Getenv: env(nil),
				Exists: existing(),
			},
			want: "/usr/local/itms/bin/iTMSTransporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.platform.DefaultPath())
		})
	}
}

// TestPlatform_IsWindows verifies the platform family check.
func TestPlatform_IsWindows(t *testing.T) {
	assert.True(t, Platform{GOOS: "windows"}.IsWindows())
	assert.False(t, Platform{GOOS: "darwin"}.IsWindows())
	assert.False(t, Platform{GOOS: "linux"}.IsWindows())
}

// TestNew_DefaultPath verifies an empty path selects the host default.
func TestNew_DefaultPath(t *testing.T) {
	assert.Equal(t, DefaultPath(), New("").Path)
	assert.Equal(t, "/opt/itms/bin/iTMSTransporter", New("/opt/itms/bin/iTMSTransporter").Path)
}
