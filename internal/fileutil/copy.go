package fileutil

import (
	"fmt"
	"io"
	"os"
)

// CopyFile copies src to dst byte-for-byte, replacing dst if it exists.
// The source's modification time is carried over so recency information
// survives flattening.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}

	// Best effort: a filesystem that rejects Chtimes still has a valid copy
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())

	return nil
}
