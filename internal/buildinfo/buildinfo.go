// Package buildinfo carries the pulse build identity.
package buildinfo

// Semantic version of the scheduler kernel.
const (
	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Packed returns the version as a single comparable integer.
func Packed() uint32 {
	return VersionMajor*10000 + VersionMinor*100 + VersionPatch
}

// Short returns a compact build identifier for banners and window titles.
func Short() string {
	s := "v" + itoa(VersionMajor) + "." + itoa(VersionMinor) + "." + itoa(VersionPatch)
	if Commit != "" && Commit != "unknown" {
		s += "+" + Commit
	}
	return s
}

// itoa avoids pulling strconv into TinyGo builds for three small numbers.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
