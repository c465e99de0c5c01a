package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBinaryDefaults(t *testing.T) {
	c := NewConstants()
	require.Equal(t, "ssh", c.GetSSHBinary())
	require.Equal(t, "rsync", c.GetRsyncBinary())
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("HOSTPATH_SSH_BINARY", "/opt/ssh/bin/ssh")
	t.Setenv("HOSTPATH_SSH_CONFIG", "/etc/ssh/alt_config")

	c := NewConstants()
	require.Equal(t, "/opt/ssh/bin/ssh", c.GetSSHBinary())
	require.Equal(t, "/etc/ssh/alt_config", c.GetSSHConfigPath())
}
