package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// HashFile computes the SHA-256 content hash of the file at path,
// streaming so large workbooks never load fully into memory.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FallbackKey identifies a file by path, size and mtime for callers that
// cannot afford a content hash. Weaker than HashFile: an in-place edit
// within mtime resolution aliases the old entry, which the TTL bounds.
func FallbackKey(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("stat:%s:%d:%d", path, info.Size(), info.ModTime().UnixNano()), nil
}
