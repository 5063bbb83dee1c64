package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/itms-transporter/internal/model"
)

// fixtureCase is one entry of testdata/diagnostics.yaml.
type fixtureCase struct {
	Name     string   `yaml:"name"`
	Lines    []string `yaml:"lines"`
	Errors   []string `yaml:"errors"`
	Warnings []string `yaml:"warnings"`
}

// loadCases reads the diagnostic fixtures.
func loadCases(t *testing.T) []fixtureCase {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "diagnostics.yaml"))
	require.NoError(t, err)

	var cases []fixtureCase
	require.NoError(t, yaml.Unmarshal(data, &cases))
	require.NotEmpty(t, cases)
	return cases
}

// render converts messages to their "text (code)" form; nil becomes empty.
func render(msgs []model.Message) []string {
	out := []string{}
	for _, m := range msgs {
		out = append(out, m.String())
	}
	return out
}

// normalize turns a nil fixture list into an empty one.
func normalize(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// TestParse_Fixtures runs every fixture case through Parse.
func TestParse_Fixtures(t *testing.T) {
	for _, tc := range loadCases(t) {
		t.Run(tc.Name, func(t *testing.T) {
			res := Parse(tc.Lines)
			assert.Equal(t, normalize(tc.Errors), render(res.Errors), "errors")
			assert.Equal(t, normalize(tc.Warnings), render(res.Warnings), "warnings")
		})
	}
}

// TestParse_Idempotent verifies parsing the same input twice gives equal
// results in equal order.
func TestParse_Idempotent(t *testing.T) {
	for _, tc := range loadCases(t) {
		first := Parse(tc.Lines)
		second := Parse(tc.Lines)
		assert.Equal(t, first, second, tc.Name)
	}
}

// TestParse_VendorCode verifies the structured form of a coded message.
func TestParse_VendorCode(t *testing.T) {
	res := Parse([]string{"ERROR: ITMS-9000: Audio is broken (9000)"})

	require.Len(t, res.Errors, 1)
	msg := res.Errors[0]
	assert.Equal(t, "Audio is broken", msg.Text)
	require.True(t, msg.HasCode())
	assert.Equal(t, 9000, *msg.Code)
	assert.True(t, msg.IsAssetError())
	assert.True(t, res.HasErrors())
}

// TestNewMessage covers the code extraction forms directly.
func TestNewMessage(t *testing.T) {
	tests := []struct {
		raw      string
		wantText string
		wantCode *int
	}{
		{`ITMS-4000: Some error`, "Some error", intPtr(4000)},
		{`ERROR ITMS-5000: "Quoted" at Package`, "Quoted", intPtr(5000)},
		{`ITMS-4000: Different code (12)`, "Different code (12)", intPtr(4000)},
		{`Bad metadata errorCode = (1010)`, "Bad metadata", intPtr(1010)},
		{`Bad thing (200)`, "Bad thing", intPtr(200)},
		{`"Just quoted"`, "Just quoted", nil},
		{`plain text`, "plain text", nil},
		{`ITMS-99999999999999999999: Boom`, "Boom", nil},
		{`Boom (99999999999999999999)`, "Boom (99999999999999999999)", nil},
		{`Boom errorCode = (99999999999999999999)`, "Boom errorCode = (99999999999999999999)", nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			msg := NewMessage(tt.raw)
			assert.Equal(t, tt.wantText, msg.Text)
			assert.Equal(t, tt.wantCode, msg.Code)
		})
	}
}

// TestParse_OverflowingCode verifies an out-of-range code is not rendered
// as zero.
func TestParse_OverflowingCode(t *testing.T) {
	res := Parse([]string{"ERROR: ITMS-99999999999999999999: Boom"})
	require.Len(t, res.Errors, 1)
	assert.False(t, res.Errors[0].HasCode())
	assert.Equal(t, "Boom", res.Errors[0].String())
}

// TestParse_Empty verifies empty input yields no diagnostics.
func TestParse_Empty(t *testing.T) {
	res := Parse(nil)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.False(t, res.HasErrors())
}

func intPtr(n int) *int { return &n }
