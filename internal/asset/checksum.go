package asset

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// ChecksumSkip is the checksum literal that disables verification for an
// asset.
const ChecksumSkip = "__skip__"

// FileChecksum computes the MD5 of a file, streaming it in 64 KiB chunks.
// Asset lists carry MD5 sums; this is integrity checking, not security.
func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	buf := make([]byte, 64*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("failed to checksum %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
