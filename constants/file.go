package constants

import (
	"path/filepath"
	"strings"
)

// EncryptedExtension is the extension password-store gives every entry file.
const EncryptedExtension = "gpg"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsEncrypted reports whether path carries the encrypted-entry extension.
func IsEncrypted(path string) bool {
	return NormalizeExt(filepath.Ext(path)) == EncryptedExtension
}

// TrimEncryptedExt strips the encryption extension to recover the logical
// entry path. Paths without the extension are returned unchanged.
func TrimEncryptedExt(path string) string {
	if IsEncrypted(path) {
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	return path
}
