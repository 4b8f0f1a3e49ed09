package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SCOPE_TEST_DIR", "/data")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/scope/scope.db", want: filepath.Join(home, "scope/scope.db")},
		{in: "$SCOPE_TEST_DIR/scope.db", want: "/data/scope.db"},
		{in: "/abs/scope.db", want: "/abs/scope.db"},
		{in: ":memory:", want: ":memory:"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandPath(tt.in), tt.in)
	}
}
