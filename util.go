package defaults

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

func ptrOf[T any](v T) *T {
	return &v
}

func flagToDest(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

func appNameToEnvVarName(appName string) string {
	return strings.ReplaceAll(strings.ToUpper(appName), "-", "_")
}

// EnvVarsArrayToMap converts "NAME=value" pairs, as returned by
// os.Environ, into a map.
func EnvVarsArrayToMap(envVars []string) map[string]string {
	envVarsMap := make(map[string]string)
	for _, nameValue := range envVars {
		parts := strings.SplitN(nameValue, "=", 2)
		if len(parts) != 2 {
			continue
		}
		envVarsMap[parts[0]] = parts[1]
	}
	return envVarsMap
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 80
	}
	return int(ws.Col)
}
