package config

import (
	"os"
	"path/filepath"
)

type EnvVarName string // should be caps with underscore

const (
	sshConfigPath EnvVarName = "HOSTPATH_SSH_CONFIG"
	sshBinary     EnvVarName = "HOSTPATH_SSH_BINARY"
	rsyncBinary   EnvVarName = "HOSTPATH_RSYNC_BINARY"
)

type ConstantsConfig struct{}

func NewConstants() *ConstantsConfig {
	return &ConstantsConfig{}
}

// GetSSHConfigPath is the OpenSSH client configuration consulted when
// resolving host aliases.
func (c ConstantsConfig) GetSSHConfigPath() string {
	defaultPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		defaultPath = filepath.Join(home, ".ssh", "config")
	}
	return getEnvOrDefault(sshConfigPath, defaultPath)
}

func (c ConstantsConfig) GetSSHBinary() string {
	return getEnvOrDefault(sshBinary, "ssh")
}

func (c ConstantsConfig) GetRsyncBinary() string {
	return getEnvOrDefault(rsyncBinary, "rsync")
}

func getEnvOrDefault(envVarName EnvVarName, defaultVal string) string {
	val := os.Getenv(string(envVarName))
	if val == "" {
		return defaultVal
	}
	return val
}
