package constants

// EntryStatus is the canonical status for rows in the manifest entries table.
type EntryStatus string

// Stable values (store these exact strings in the manifest).
const (
	EntryStatusParsed        EntryStatus = "PARSED"         // decrypted and converted to a record
	EntryStatusEmpty         EntryStatus = "EMPTY"          // decrypted to empty content; record carries defaults only
	EntryStatusDecryptFailed EntryStatus = "DECRYPT_FAILED" // gpg failed; no record emitted
	EntryStatusUnreadable    EntryStatus = "UNREADABLE"     // could not read/hash the ciphertext
)
