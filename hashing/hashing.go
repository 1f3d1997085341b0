// Package hashing computes the file hashes used as ROM identification keys.
package hashing

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// FileHashes holds the hash values identifying a ROM file. Hex strings are
// lowercase; CRC32 is zero-padded to eight characters.
type FileHashes struct {
	MD5   string `json:"md5,omitempty"`
	SHA1  string `json:"sha1,omitempty"`
	CRC32 string `json:"crc32,omitempty"`
	Size  int64  `json:"size,omitempty"`
}

// Empty reports whether no hash value is present.
func (h FileHashes) Empty() bool {
	return h.MD5 == "" && h.SHA1 == "" && h.CRC32 == ""
}

// Calculate computes MD5, SHA1 and CRC32 for a file in a single pass.
func Calculate(path string) (FileHashes, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileHashes{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return FromReader(f)
}

// FromReader computes hashes from an already-open reader.
func FromReader(r io.Reader) (FileHashes, error) {
	md5Hash := md5.New()
	sha1Hash := sha1.New()
	crcHash := crc32.NewIEEE()

	size, err := io.Copy(io.MultiWriter(md5Hash, sha1Hash, crcHash), r)
	if err != nil {
		return FileHashes{}, fmt.Errorf("failed to read file: %w", err)
	}

	return FileHashes{
		MD5:   hex.EncodeToString(md5Hash.Sum(nil)),
		SHA1:  hex.EncodeToString(sha1Hash.Sum(nil)),
		CRC32: fmt.Sprintf("%08x", crcHash.Sum32()),
		Size:  size,
	}, nil
}
