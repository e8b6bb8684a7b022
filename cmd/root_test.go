package cmd

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteVersion(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()
	defer viper.Reset()

	os.Args = []string{"costwatch", "version"}
	assert.NoError(t, Execute())
}

func TestExecuteInvalidCommand(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()
	defer viper.Reset()

	os.Args = []string{"costwatch", "no-such-command"}
	assert.Error(t, Execute())
}

func TestPersistentFlagBindingsResolve(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()
	defer viper.Reset()

	// list services goes through PersistentPreRunE, so every binding in
	// the map must refer to a flag that actually exists
	os.Args = []string{"costwatch", "list", "services"}
	require.NoError(t, Execute())
}
