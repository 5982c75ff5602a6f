package carfax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"1HGCM82633A004352", "1HGCM82633A004352"},
		{"ABC 123/xyz#1", "ABC_123_xyz_1"},
		{"a-b_c", "a-b_c"},
		{"..", "__"},
		{"", ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, SanitizeIdentifier(tt.in))
	}
}

func TestExtensionForContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        string
	}{
		{"application/pdf", ".pdf"},
		{"Application/PDF; charset=binary", ".pdf"},
		{"text/html; charset=utf-8", ".html"},
		{"application/json", ".html"},
		{"", ".html"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ExtensionForContentType(tt.contentType))
	}
}

func TestDefaultHeaders(t *testing.T) {
	t.Parallel()

	h := DefaultHeaders("", "")
	require.Equal(t, DefaultUserAgent, h.Get("User-Agent"))
	require.Equal(t, DefaultReferer, h.Get("Referer"))
	require.NotEmpty(t, h.Get("Accept"))
	require.Equal(t, "en-US,en;q=0.9", h.Get("Accept-Language"))

	custom := DefaultHeaders("test-agent", "https://other.test/")
	require.Equal(t, "test-agent", custom.Get("User-Agent"))
	require.Equal(t, "https://other.test/", custom.Get("Referer"))
}
