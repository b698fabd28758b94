package link

import (
	"errors"
	"testing"
)

func TestFormatParseRoundTrip(t *testing.T) {
	for _, id := range []string{"6f1c2d7e-1b2a-4c3d-9e8f-001122334455", "with space", "a/b"} {
		raw := Format("goals", id)
		got, err := Parse(raw, "goals")
		if err != nil {
			t.Fatalf("%q: %v", raw, err)
		}
		if got.ListID != id || got.Command != CommandOpenList {
			t.Fatalf("%q: got %#v", raw, got)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		raw  string
		code ErrorCode
	}{
		{"", ErrCodeEmptyInput},
		{"   ", ErrCodeEmptyInput},
		{"https://open-list/abc", ErrCodeUnknownScheme},
		{"goals://open-goal/abc", ErrCodeUnknownCommand},
		{"goals://open-list/", ErrCodeMissingID},
		{"goals://open-list", ErrCodeMissingID},
		{"goals://open-list/%zz", ErrCodeMalformed},
		{"://", ErrCodeMalformed},
	}
	for _, tc := range cases {
		_, err := Parse(tc.raw, "goals")
		var le *LinkError
		if !errors.As(err, &le) {
			t.Fatalf("%q: expected LinkError, got %v", tc.raw, err)
		}
		if le.Code != tc.code {
			t.Fatalf("%q: code = %s, want %s", tc.raw, le.Code, tc.code)
		}
	}
}

func TestParseCaseInsensitiveSchemeAndOpaque(t *testing.T) {
	got, err := Parse("GOALS://open-list/abc", "goals")
	if err != nil || got.ListID != "abc" {
		t.Fatalf("got %#v, %v", got, err)
	}
	got, err = Parse("goals:open-list/abc", "goals")
	if err != nil || got.ListID != "abc" {
		t.Fatalf("opaque form: got %#v, %v", got, err)
	}
}
