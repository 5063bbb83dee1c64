package option

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/itms-transporter/internal/model"
)

// uploadLikeSet mirrors the shape of a real operation: credentials, a
// repeated JVM option, a boolean, a waived package rule and its companion.
func uploadLikeSet() *Set {
	return NewSet(
		Pattern("mode", "-m", `^\w+$`).Require(),
		String("username", "-u").Require(),
		String("password", "-p").Require(),
		Enum("transport", "-t", "Aspera", "Signiant", "DAV"),
		Pattern("rate", "-k", `^\d+[KM]?$`),
		Boolean("delete_on_success", "-delete"),
		String("jvm", "-X").Repeat(),
		Boolean("batch", ""),
		Dir("package", "-f").Named(`\.itmsp$`).WaivedBy("batch").Require(),
	)
}

// makeDir creates a directory with the given base name under a temp dir.
func makeDir(t *testing.T, name string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.Mkdir(dir, 0o755))
	return dir
}

// requireOptionError asserts err is an OptionError naming the option and
// containing the given text.
func requireOptionError(t *testing.T, err error, option, contains string) {
	t.Helper()
	require.Error(t, err)
	var optErr *model.OptionError
	require.True(t, errors.As(err, &optErr), "expected OptionError, got %T", err)
	assert.Equal(t, option, optErr.Option)
	assert.Contains(t, err.Error(), contains)
}

// TestRender_OrderFollowsRegistration verifies tokens are emitted in rule
// order regardless of how the caller built the map.
func TestRender_OrderFollowsRegistration(t *testing.T) {
	pkg := makeDir(t, "title.itmsp")

	argv, err := uploadLikeSet().Render(Values{
		"package":   pkg,
		"transport": "Aspera",
		"password":  "pw",
		"username":  "user",
		"mode":      "upload",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"-m", "upload",
		"-u", "user",
		"-p", "pw",
		"-t", "Aspera",
		"-f", pkg,
	}, argv.Args)
	assert.Empty(t, argv.Warnings)
}

// TestRender_Required verifies a missing required option fails before any
// token is produced and the error names the option.
func TestRender_Required(t *testing.T) {
	pkg := makeDir(t, "title.itmsp")

	tests := []struct {
		name    string
		values  Values
		missing string
	}{
		{"no username", Values{"mode": "upload", "password": "pw", "package": pkg}, "username"},
		{"no password", Values{"mode": "upload", "username": "u", "package": pkg}, "password"},
		{"nil package", Values{"mode": "upload", "username": "u", "password": "pw", "package": nil}, "package"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			argv, err := uploadLikeSet().Render(tt.values)
			assert.Nil(t, argv)
			requireOptionError(t, err, tt.missing, "is required")
		})
	}
}

// TestRender_UnknownOption verifies misspelled option names are rejected.
func TestRender_UnknownOption(t *testing.T) {
	_, err := uploadLikeSet().Render(Values{"mode": "upload", "usrname": "u"})
	requireOptionError(t, err, "usrname", "unknown option")
}

// TestRender_Boolean verifies true emits the bare token, false emits
// nothing, and non-boolean values are rejected.
func TestRender_Boolean(t *testing.T) {
	set := NewSet(Boolean("delete_on_success", "-delete"))

	argv, err := set.Render(Values{"delete_on_success": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"-delete"}, argv.Args)

	argv, err = set.Render(Values{"delete_on_success": false})
	require.NoError(t, err)
	assert.Empty(t, argv.Args)

	_, err = set.Render(Values{"delete_on_success": "true"})
	requireOptionError(t, err, "delete_on_success", "boolean")
}

// TestRender_Flag verifies a flag rule emits its token unless set to false.
func TestRender_Flag(t *testing.T) {
	set := NewSet(Flag("version", "-version"))

	argv, err := set.Render(Values{"version": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"-version"}, argv.Args)

	argv, err = set.Render(Values{"version": false})
	require.NoError(t, err)
	assert.Empty(t, argv.Args)

	argv, err = set.Render(Values{})
	require.NoError(t, err)
	assert.Empty(t, argv.Args)
}

// TestRender_PatternAndEnum verifies value validation.
func TestRender_PatternAndEnum(t *testing.T) {
	set := NewSet(
		Pattern("rate", "-k", `^\d+[KM]?$`),
		Enum("transport", "-t", "Aspera", "Signiant", "DAV"),
	)

	argv, err := set.Render(Values{"rate": "500K", "transport": "DAV"})
	require.NoError(t, err)
	assert.Equal(t, []string{"-k", "500K", "-t", "DAV"}, argv.Args)

	argv, err = set.Render(Values{"rate": 500})
	require.NoError(t, err)
	assert.Equal(t, []string{"-k", "500"}, argv.Args)

	_, err = set.Render(Values{"rate": "fast"})
	requireOptionError(t, err, "rate", "does not match")

	_, err = set.Render(Values{"transport": "ftp"})
	requireOptionError(t, err, "transport", "Aspera, Signiant, DAV")

	_, err = set.Render(Values{"transport": "aspera"})
	requireOptionError(t, err, "transport", "is not one of")
}

// TestRender_Integer verifies integer rules accept only Go integers.
func TestRender_Integer(t *testing.T) {
	set := NewSet(Integer("retries", "-r"))

	argv, err := set.Render(Values{"retries": int64(3)})
	require.NoError(t, err)
	assert.Equal(t, []string{"-r", "3"}, argv.Args)

	_, err = set.Render(Values{"retries": "3"})
	requireOptionError(t, err, "retries", "integer")
}

// TestRender_Multiple verifies list values repeat the token and lists are
// rejected for single-valued rules.
func TestRender_Multiple(t *testing.T) {
	set := NewSet(String("jvm", "-X").Repeat(), String("username", "-u"))

	argv, err := set.Render(Values{"jvm": []string{"a=1", "b=2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"-X", "a=1", "-X", "b=2"}, argv.Args)

	argv, err = set.Render(Values{"jvm": []any{"only"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"-X", "only"}, argv.Args)

	argv, err = set.Render(Values{"jvm": "single"})
	require.NoError(t, err)
	assert.Equal(t, []string{"-X", "single"}, argv.Args)

	_, err = set.Render(Values{"username": []string{"a", "b"}})
	requireOptionError(t, err, "username", "multiple")
}

// TestRender_FileExists verifies file rules require an existing regular file.
func TestRender_FileExists(t *testing.T) {
	set := NewSet(FileExists("cert", "-c"))

	file := filepath.Join(t.TempDir(), "cert.pem")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	argv, err := set.Render(Values{"cert": file})
	require.NoError(t, err)
	assert.Equal(t, []string{"-c", file}, argv.Args)

	_, err = set.Render(Values{"cert": filepath.Join(t.TempDir(), "missing.pem")})
	requireOptionError(t, err, "cert", "exist")

	_, err = set.Render(Values{"cert": t.TempDir()})
	requireOptionError(t, err, "cert", "is a directory")
}

// TestRender_Path verifies output paths need an existing parent directory
// but not an existing file.
func TestRender_Path(t *testing.T) {
	set := NewSet(Path("log", "-o"))

	target := filepath.Join(t.TempDir(), "run.log")
	argv, err := set.Render(Values{"log": target})
	require.NoError(t, err)
	assert.Equal(t, []string{"-o", target}, argv.Args)

	_, err = set.Render(Values{"log": filepath.Join(t.TempDir(), "nope", "run.log")})
	requireOptionError(t, err, "log", "does not exist")
}

// TestRender_DirSuffix covers every branch of the directory naming policy.
func TestRender_DirSuffix(t *testing.T) {
	t.Run("hard suffix rejects other names", func(t *testing.T) {
		set := NewSet(Dir("package", "-f").Named(`\.itmsp$`))
		_, err := set.Render(Values{"package": makeDir(t, "title")})
		requireOptionError(t, err, "package", "must match")
	})

	t.Run("hard suffix accepts matching name", func(t *testing.T) {
		set := NewSet(Dir("package", "-f").Named(`\.itmsp$`))
		pkg := makeDir(t, "title.itmsp")
		argv, err := set.Render(Values{"package": pkg + string(filepath.Separator)})
		require.NoError(t, err)
		assert.Equal(t, "-f", argv.Args[0])
	})

	t.Run("missing directory", func(t *testing.T) {
		set := NewSet(Dir("package", "-f"))
		_, err := set.Render(Values{"package": filepath.Join(t.TempDir(), "gone")})
		requireOptionError(t, err, "package", "directory")
	})

	t.Run("file instead of directory", func(t *testing.T) {
		set := NewSet(Dir("package", "-f"))
		file := filepath.Join(t.TempDir(), "x.itmsp")
		require.NoError(t, os.WriteFile(file, nil, 0o644))
		_, err := set.Render(Values{"package": file})
		requireOptionError(t, err, "package", "not a directory")
	})

	base := Values{"mode": "upload", "username": "u", "password": "p"}

	t.Run("waiver absent warns", func(t *testing.T) {
		dir := makeDir(t, "batch")
		argv, err := uploadLikeSet().Render(base.Merge(Values{"package": dir}))
		require.NoError(t, err)
		require.Len(t, argv.Warnings, 1)
		assert.Contains(t, argv.Warnings[0], "deprecated")
		assert.Contains(t, argv.Args, dir)
	})

	t.Run("waiver false warns", func(t *testing.T) {
		dir := makeDir(t, "batch")
		argv, err := uploadLikeSet().Render(base.Merge(Values{"package": dir, "batch": false}))
		require.NoError(t, err)
		assert.Len(t, argv.Warnings, 1)
	})

	t.Run("waiver true is silent", func(t *testing.T) {
		dir := makeDir(t, "batch")
		argv, err := uploadLikeSet().Render(base.Merge(Values{"package": dir, "batch": true}))
		require.NoError(t, err)
		assert.Empty(t, argv.Warnings)
		assert.NotContains(t, argv.Args, "batch")
	})

	t.Run("waiver must be boolean", func(t *testing.T) {
		dir := makeDir(t, "batch")
		_, err := uploadLikeSet().Render(base.Merge(Values{"package": dir, "batch": "yes"}))
		requireOptionError(t, err, "batch", "boolean")
	})
}

// TestSet_Extend verifies extension appends rules and leaves the base intact.
func TestSet_Extend(t *testing.T) {
	base := NewSet(String("username", "-u"))
	ext := base.Extend(String("shortname", "-s"))

	assert.Len(t, base.Rules(), 1)
	assert.Len(t, ext.Rules(), 2)

	_, ok := base.Lookup("shortname")
	assert.False(t, ok)

	r, ok := ext.Lookup("shortname")
	require.True(t, ok)
	assert.Equal(t, "-s", r.Flag)
}

// TestNewSet_Duplicate verifies duplicate names are a programming error.
func TestNewSet_Duplicate(t *testing.T) {
	assert.Panics(t, func() {
		NewSet(String("username", "-u"), String("username", "-U"))
	})
	assert.Panics(t, func() {
		NewSet(String("username", "-u")).Extend(String("username", "-U"))
	})
}

// TestValues verifies Clone and Merge never alias the receiver.
func TestValues(t *testing.T) {
	base := Values{"username": "a"}
	merged := base.Merge(Values{"username": "b", "password": "p"})

	assert.Equal(t, "a", base["username"])
	assert.Equal(t, "b", merged["username"])
	assert.Equal(t, "p", merged["password"])

	var nilValues Values
	assert.NotNil(t, nilValues.Clone())
	assert.False(t, nilValues.Bool("batch"))
}

// TestKind_String verifies display names.
func TestKind_String(t *testing.T) {
	assert.Equal(t, "directory", KindDirExists.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
