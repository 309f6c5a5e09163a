package common

import (
	"fmt"
)

func GetVersion() string {
	version, gitCommit, ok := GetModuleBuildInfo()
	if !ok {
		return "unknown"
	}
	if len(gitCommit) > 8 {
		gitCommit = gitCommit[:8]
	}
	if len(gitCommit) == 0 || gitCommit == "unknown" {
		return version
	}
	return fmt.Sprintf("%s (git: %s)", version, gitCommit)
}

// UserAgent identifies this client on outgoing API calls.
func UserAgent() string {
	version, _, ok := GetModuleBuildInfo()
	if !ok || len(version) == 0 {
		version = "dev"
	}
	return fmt.Sprintf("usersadmin/%s", version)
}
