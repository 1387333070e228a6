package defaults

import (
	"os"
	"path/filepath"
)

// DefaultsFileName is the file looked up under the platform configuration
// home when no explicit path or environment override is given.
const DefaultsFileName = "defaults.yaml"

// DefaultsFileEnvVar returns the name of the environment variable that
// overrides the defaults file path for the given application, e.g.
// "MY_TOOL_DEFAULTS_FILE" for application "my-tool".
func DefaultsFileEnvVar(appName string) string {
	return appNameToEnvVarName(appName) + "_DEFAULTS_FILE"
}

// configFilePath resolves the defaults file location: the application's
// environment override when set, otherwise the application's directory
// under the platform configuration home.
func configFilePath(appName string, environ map[string]string) (string, error) {
	if path, ok := environ[DefaultsFileEnvVar(appName)]; ok && path != "" {
		return path, nil
	}
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, appName, DefaultsFileName), nil
}
