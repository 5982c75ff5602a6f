package carfax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain url untouched",
			raw:  "https://www.autonation.com/cars/123",
			want: "https://www.autonation.com/cars/123",
		},
		{
			name: "surrounding whitespace",
			raw:  "  https://x.test/a \n",
			want: "https://x.test/a",
		},
		{
			name: "single layer of quotes",
			raw:  `"https://x.test/a"`,
			want: "https://x.test/a",
		},
		{
			name: "mixed quote characters",
			raw:  `'https://x.test/a"`,
			want: "https://x.test/a",
		},
		{
			name: "hyperlink formula with label",
			raw:  `=HYPERLINK("https://x.test/a","label")`,
			want: "https://x.test/a",
		},
		{
			name: "hyperlink formula without label",
			raw:  `=HYPERLINK("https://x.test/a")`,
			want: "https://x.test/a",
		},
		{
			name: "hyperlink formula case insensitive",
			raw:  `=hyperlink("https://x.test/a","l")`,
			want: "https://x.test/a",
		},
		{
			name: "partial formula left alone",
			raw:  `see =HYPERLINK("https://x.test/a")`,
			want: `see =HYPERLINK("https://x.test/a")`,
		},
		{
			name: "bare www host gets https",
			raw:  "www.example.test/a",
			want: "https://www.example.test/a",
		},
		{
			name: "empty cell",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizeURL(tt.raw)
			require.Equal(t, tt.want, got)

			// Normalization must be idempotent.
			require.Equal(t, got, NormalizeURL(got))
		})
	}
}

func TestIsValidURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url   string
		valid bool
	}{
		{"https://www.autonation.com/cars/123", true},
		{"http://x.test", true},
		{"", false},
		{"not a url", false},
		{"ftp://x.test/a", false},
		{"example.test/a", false},
		{"https://", false},
		{"/relative/path", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.valid, IsValidURL(tt.url))
		})
	}
}
