//go:build unix

package fingerprint

import "golang.org/x/sys/unix"

func unameSystemInfo() (SystemInfo, bool) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return SystemInfo{}, false
	}
	return SystemInfo{
		Release: decodeCString(uts.Release[:]),
		Machine: decodeCString(uts.Machine[:]),
	}, true
}
