package checks

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandExists(t *testing.T) {
	assert.True(t, CommandExists("sh"))
	assert.False(t, CommandExists("definitely-not-a-real-tool-zz"))
}

func TestIsRoot(t *testing.T) {
	assert.Equal(t, os.Geteuid() == 0, IsRoot())
}

func TestInternetAvailable_UnreachableHost(t *testing.T) {
	// 192.0.2.0/24 is reserved for documentation and never routes.
	assert.False(t, InternetAvailable("192.0.2.0", 53, 500*time.Millisecond))
}

func TestIsEmail(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"test@example.com", true},
		{"first.last+tag@sub.example.co.uk", true},
		{"not-a-valid-email", false},
		{"test@localhost", false},
		{"Name <test@example.com>", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEmail(tt.value))
		})
	}
}

func TestIsIPv4(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"192.168.0.1", true},
		{"0.0.0.0", true},
		{"256.0.0.0", false},
		{"::1", false},
		{"not-an-ip", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIPv4(tt.value))
		})
	}
}

func TestIsIPv6(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"2001:0db8:85a3:0000:0000:8a2e:0370:7334", true},
		{"::1", true},
		{"192.168.0.1", false},
		{"not-an-ipv6", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIPv6(tt.value))
		})
	}
}

func TestIsFQDN(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"google.com", true},
		{"a.b.c.co.uk", true},
		{"xn--bcher-kva.example", true},
		{"not_a_domain", false},
		{"nodots", false},
		{"-leading.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFQDN(tt.value))
		})
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"123", true},
		{"-45.67", true},
		{"99.9", true},
		{"1e5", true},
		{" 12 ", true},
		{"abc", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNumeric(tt.value))
		})
	}
}

func TestIsTrue(t *testing.T) {
	for _, v := range []string{"true", "True", "1", "t", "y", "Yes"} {
		assert.True(t, IsTrue(v), v)
	}
	for _, v := range []string{"false", "0", "no", "", "on"} {
		assert.False(t, IsTrue(v), v)
	}
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.False(t, IsEmpty(" "))
	assert.False(t, IsEmpty("x"))
}

func TestField(t *testing.T) {
	t.Run("passing check yields nil", func(t *testing.T) {
		require.NoError(t, Field("email", "test@example.com", IsEmail, "invalid email address"))
	})

	t.Run("failing check names the field", func(t *testing.T) {
		err := Field("email", "nope", IsEmail, "invalid email address")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email")
		assert.Contains(t, err.Error(), "invalid email address")
	})
}
