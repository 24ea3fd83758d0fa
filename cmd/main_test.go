package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCommand()

	for _, name := range []string{"serve", "migrate"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestRootCommand_ConfigFlagFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/etc/storefront.yaml")

	cmd := newRootCommand()
	flag := cmd.PersistentFlags().Lookup("config")

	require.NotNil(t, flag)
	assert.Equal(t, "/etc/storefront.yaml", flag.DefValue)
}

func TestMigrate_FailsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"migrate"})

	assert.Error(t, cmd.Execute())
}
