// Package pagefile implements the paged file (C2): reading and
// writing fixed-size blocks at block-id offsets in a backing file,
// with lazy open. Grounded on the teacher's file-handling in
// pkg/db.go (db.load/db.create), adapted from mmap'd pages to plain
// seek-based I/O since this format has no variable-length records to
// justify a memory map.
package pagefile

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
)

// File is a flat file of fixed-size blocks.
type File struct {
	path      string
	blockSize int
	fd        *os.File
	syncOnFlush bool
	logger    logr.Logger
}

// New returns a File that will lazily open path on first I/O.
// blockSize may be 0 at construction time when the size is not yet
// known (bootstrap: the caller must call SetBlockSize before any
// full-block Load/Store).
func New(path string, blockSize int, syncOnFlush bool, logger logr.Logger) *File {
	return &File{path: path, blockSize: blockSize, syncOnFlush: syncOnFlush, logger: logger}
}

// SetBlockSize fixes the block size once it is known (after reading
// the meta record's Order/BlockSize fields).
func (f *File) SetBlockSize(blockSize int) {
	f.blockSize = blockSize
}

// Exists reports whether the backing file is already present.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("pagefile: stat %s: %w", path, err)
}

func (f *File) openIfNeeded() error {
	if f.fd != nil {
		return nil
	}
	fd, err := os.OpenFile(f.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("pagefile: open %s: %w", f.path, err)
	}
	f.fd = fd
	return nil
}

// Load seeks to block_id*block_size and reads exactly size bytes into
// dst. size is sizeof(MetaHeader) for block 0 during bootstrap (the
// block size is not yet known), block_size otherwise. A read that
// stops early (for example past end of file) is reported by ReadAt as
// an error, which Load returns wrapped; only a read that yields fewer
// than size bytes with no error panics.
func (f *File) Load(blockID uint64, dst []byte, size int) error {
	if err := f.openIfNeeded(); err != nil {
		return err
	}
	off := int64(blockID) * int64(f.blockSize)
	n, err := f.fd.ReadAt(dst[:size], off)
	if err != nil {
		return fmt.Errorf("pagefile: read block %d: %w", blockID, err)
	}
	if n != size {
		panic(fmt.Sprintf("pagefile: short read on block %d: got %d want %d", blockID, n, size))
	}
	return nil
}

// Store seeks to block_id*block_size and writes exactly block_size
// bytes from src. A write that WriteAt reports as failed is returned
// as a wrapped error; only a short write with no error panics.
func (f *File) Store(blockID uint64, src []byte) error {
	if err := f.openIfNeeded(); err != nil {
		return err
	}
	off := int64(blockID) * int64(f.blockSize)
	n, err := f.fd.WriteAt(src[:f.blockSize], off)
	if err != nil {
		return fmt.Errorf("pagefile: write block %d: %w", blockID, err)
	}
	if n != f.blockSize {
		panic(fmt.Sprintf("pagefile: short write on block %d: wrote %d want %d", blockID, n, f.blockSize))
	}
	return nil
}

// Sync flushes the backing file to stable storage when the caller has
// opted into SyncOnFlush (§9: "whether flush should fsync is a
// product decision ... behind a flag"). Platform-specific sync_unix.go /
// sync_other.go choose between unix.Fsync and *os.File.Sync.
func (f *File) Sync() error {
	if f.fd == nil {
		return nil
	}
	if !f.syncOnFlush {
		return nil
	}
	return syncFile(f.fd)
}

// Close releases the file descriptor, if one was opened.
func (f *File) Close() error {
	if f.fd == nil {
		return nil
	}
	err := f.fd.Close()
	f.fd = nil
	return err
}
