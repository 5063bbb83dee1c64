package shell

import (
	"os"
	"runtime"
	"strings"
)

const (
	// exeName is the executable name on Unix-like platforms.
	exeName = "iTMSTransporter"

	// windowsExe is the batch wrapper installed on Windows.
	windowsExe = exeName + ".CMD"

	// defaultUnixPath is where the standalone installer puts the tool.
	defaultUnixPath = "/usr/local/itms/bin/" + exeName
)

// darwinCandidates lists the macOS install locations, most preferred first:
// the Transporter app, then Xcode, then the legacy Application Loader.
var darwinCandidates = []string{
	"/Applications/Transporter.app/Contents/itms/bin/" + exeName,
	"/Applications/Xcode.app/Contents/SharedFrameworks/ContentDeliveryServices.framework/Versions/A/itms/bin/" + exeName,
	"/Applications/Xcode.app/Contents/Applications/Application Loader.app/Contents/itms/bin/" + exeName,
}

// Platform describes the host for executable discovery. Tests construct it
// directly; production code uses CurrentPlatform.
type Platform struct {
	// GOOS is the operating system name, as in runtime.GOOS.
	GOOS string

	// Getenv looks up an environment variable.
	Getenv func(key string) string

	// Exists reports whether a file exists at path.
	Exists func(path string) bool
}

// CurrentPlatform returns the Platform of the running process.
func CurrentPlatform() Platform {
	return Platform{
		GOOS:   runtime.GOOS,
		Getenv: os.Getenv,
		Exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}
}

// IsWindows reports whether the platform belongs to the Windows family.
func (p Platform) IsWindows() bool {
	return p.GOOS == "windows"
}

// DefaultPath returns the default iTMSTransporter location for the platform.
//
// Platform-specific behavior:
//   - Windows: <PROGRAMFILES(x86) or PROGRAMFILES>\itms\iTMSTransporter.CMD
//     (the installer prefers the x86 program directory)
//   - macOS: the first existing darwinCandidates entry, else the Unix default
//   - Others: /usr/local/itms/bin/iTMSTransporter
func (p Platform) DefaultPath() string {
	switch p.GOOS {
	case "windows":
		root := p.Getenv("PROGRAMFILES(x86)")
		if root == "" {
			root = p.Getenv("PROGRAMFILES")
		}
		if root == "" {
			root = `C:\Program Files`
		}
		return strings.TrimRight(root, `\/`) + `\itms\` + windowsExe

	case "darwin":
		for _, path := range darwinCandidates {
			if p.Exists(path) {
				return path
			}
		}
		return defaultUnixPath

	default:
		return defaultUnixPath
	}
}

// DefaultPath returns the default iTMSTransporter location on this host.
func DefaultPath() string {
	return CurrentPlatform().DefaultPath()
}

// IsWindows reports whether this host is Windows.
func IsWindows() bool {
	return CurrentPlatform().IsWindows()
}
