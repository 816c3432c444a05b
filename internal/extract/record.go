package extract

// Entry is one decrypted password-store file.
type Entry struct {
	Path string // logical entry path, encryption extension already stripped
	Text string // full decrypted plaintext, possibly empty
}

// Record maps field names to string values. After Complete its key set
// equals the configured schema exactly.
type Record map[string]string

// Complete fills every schema field absent from rec with an empty string.
// Total: never fails, never removes or overwrites existing values.
func Complete(rec Record, schema []string) Record {
	if rec == nil {
		rec = make(Record, len(schema))
	}
	for _, f := range schema {
		if _, ok := rec[f]; !ok {
			rec[f] = ""
		}
	}
	return rec
}
