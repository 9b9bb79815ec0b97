//go:build linux || darwin || freebsd || netbsd || openbsd

package pagefile

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncFile calls fsync(2) directly via golang.org/x/sys/unix, rather
// than *os.File.Sync, on platforms where the unix build tag applies.
// Either path has the same effect; this one is grounded on the pack's
// own use of golang.org/x/sys for raw syscalls (see SPEC_FULL.md §B).
func syncFile(fd *os.File) error {
	return unix.Fsync(int(fd.Fd()))
}
