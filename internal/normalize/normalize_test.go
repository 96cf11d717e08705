package normalize

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"json fence", "```json\n[{\"type\":\"X\"}]\n```", `[{"type":"X"}]`},
		{"bare fence", "```\n[]\n```", "[]"},
		{"surrounding whitespace", "  \n```json\n[]\n```\n  ", "[]"},
		{"no fence", `[{"a":1}]`, `[{"a":1}]`},
		{"only leading fence", "```json\n[]", "[]"},
		{"only trailing fence", "[]\n```", "[]"},
		{"fence not at start is kept", "Here you go: ```json []```", "Here you go: ```json []"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.raw))
		})
	}
}

func TestNormalize_FencedMatchesUnfenced(t *testing.T) {
	payloads := []string{
		`[]`,
		`[{"type":"X","timestamp":"00:01:02"}]`,
		`[{"nested":{"a":[1,2,3]},"n":12345678901234567890}]`,
	}

	for _, p := range payloads {
		for _, fenced := range []string{"```json\n" + p + "\n```", "```\n" + p + "\n```", "```json" + p + "```"} {
			got, err := Normalize(fenced)
			require.NoError(t, err)
			want, err := Normalize(p)
			require.NoError(t, err)
			assert.Equal(t, want, got, "fenced=%q", fenced)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := `[{"type":"X","severity":2}]`
	once, err := Normalize(raw)
	require.NoError(t, err)

	again, err := json.Marshal(once)
	require.NoError(t, err)

	twice, err := Normalize(string(again))
	require.NoError(t, err)
	assert.Equal(t, once, twice)
	assert.Equal(t, raw, Strip(raw))
}

func TestNormalize_PreservesNumbers(t *testing.T) {
	v, err := Normalize(`[{"n":12345678901234567890}]`)
	require.NoError(t, err)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `[{"n":12345678901234567890}]`, string(out))
}

func TestNormalize_Malformed(t *testing.T) {
	raw := "I could not find any issues, sorry!" + strings.Repeat("x", 600)

	_, err := Normalize(raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidResponse))

	var invalid *InvalidResponseError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []rune(raw)[:RawLimit], []rune(strings.TrimSuffix(invalid.Raw, "...")))
	assert.True(t, strings.HasPrefix(invalid.Error(), "Invalid JSON response: "))
}

func TestNormalize_TrailingData(t *testing.T) {
	_, err := Normalize(`[] []`)
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestNormalize_AcceptsAnyValidShape(t *testing.T) {
	v, err := Normalize(`{"type":"X"}`)
	require.NoError(t, err)
	assert.IsType(t, map[string]any{}, v)
}

func TestIssues(t *testing.T) {
	issues, err := Issues("```json\n[{\"type\":\"X\"},{\"type\":\"Y\"}]\n```")
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "X", issues[0]["type"])
	assert.Equal(t, "Y", issues[1]["type"])

	issues, err = Issues("[]")
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.NotNil(t, issues)
}

func TestIssues_RejectsUnexpectedShape(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		msg  string
	}{
		{"single object", `{"type":"X"}`, "got an object"},
		{"array of strings", `["a"]`, "issue 0 is a string"},
		{"null", `null`, "got null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Issues(tt.raw)
			require.ErrorIs(t, err, ErrInvalidResponse)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short"))

	long := strings.Repeat("é", RawLimit+10)
	got := Truncate(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, RawLimit, len([]rune(strings.TrimSuffix(got, "..."))))
}
