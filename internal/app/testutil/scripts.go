package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ShellInterpreter runs stub scripts in place of the real interpreter
const ShellInterpreter = "/bin/sh"

// WriteScript writes a shell stub into a temp dir and returns its path. The
// stub receives the relay arguments as $1, $2, ...
func WriteScript(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body+"\n"), 0o755))
	return path
}
