//go:build !unix

package fingerprint

// Sem uname: osVersion e deviceModel ficam vazios.
func unameSystemInfo() (SystemInfo, bool) {
	return SystemInfo{}, false
}
