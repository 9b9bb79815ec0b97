//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package pagefile

import "os"

// syncFile falls back to the portable *os.File.Sync on platforms with
// no golang.org/x/sys/unix build tag above.
func syncFile(fd *os.File) error {
	return fd.Sync()
}
