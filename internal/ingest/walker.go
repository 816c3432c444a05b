package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pass2bw/constants"
)

// File is one discovered password-store entry.
type File struct {
	SourcePath string // absolute path of the encrypted file
	EntryPath  string // SourcePath with the encryption extension stripped
	HashHex    string // sha256 of the ciphertext, for the run manifest
	Err        string // non-empty when the file could not be read/hashed
}

// DirStats aggregates one traversal.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Failed  uint32
}

// Walker discovers encrypted entries on the local filesystem.
type Walker struct {
	Logger *slog.Logger
}

func NewWalker(logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{Logger: logger}
}

// Walk walks root, skips version-control metadata, filters to encrypted
// entries, and hashes each ciphertext. Per-file failures are recorded in the
// results and do not abort the traversal. Results come back in walk order.
func (w *Walker) Walk(ctx context.Context, root string) ([]File, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []File
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			stats.Scanned++
			stats.Failed++
			results = append(results, File{SourcePath: path, Err: walkErr.Error()})
			return nil // continue walking
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		stats.Scanned++
		if !constants.IsEncrypted(path) {
			return nil
		}
		stats.Matched++

		hashHex, err := hashFile(path)
		if err != nil {
			w.Logger.Warn("unreadable entry", "path", path, "error", err)
			stats.Failed++
			results = append(results, File{SourcePath: path, Err: err.Error()})
			return nil
		}

		results = append(results, File{
			SourcePath: path,
			EntryPath:  constants.TrimEncryptedExt(path),
			HashHex:    hashHex,
		})
		return nil
	})
	if err != nil {
		return results, stats, err
	}

	w.Logger.Debug("walk complete",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"failed", stats.Failed,
	)
	return results, stats, nil
}

func hashFile(path string) (string, error) {
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
