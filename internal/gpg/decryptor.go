package gpg

import (
	"context"
	"fmt"
	"log/slog"
)

// Decryptor shells out to the gpg binary to turn one ciphertext file into
// plaintext. Shelling out (rather than an in-process OpenPGP implementation)
// keeps gpg-agent and pinentry integration working.
type Decryptor struct {
	Binary   string
	UseAgent bool
	Runner   Runner
	Logger   *slog.Logger
}

func NewDecryptor(binary string, useAgent bool, logger *slog.Logger) *Decryptor {
	if binary == "" {
		binary = "gpg"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Decryptor{
		Binary:   binary,
		UseAgent: useAgent,
		Runner:   execRunner{},
		Logger:   logger,
	}
}

// Decrypt returns the decrypted plaintext of the file at path. A failure
// yields no plaintext; the caller decides whether to continue the run.
// The context deadline governs the external process.
func (d *Decryptor) Decrypt(ctx context.Context, path string) (string, error) {
	args := []string{"--batch", "--quiet"}
	if d.UseAgent {
		args = append(args, "--use-agent")
	}
	args = append(args, "--decrypt", path)

	stdout, stderr, err := d.Runner.Run(ctx, d.Binary, d.Logger, args...)
	if err != nil {
		if len(stderr) > 0 {
			return "", fmt.Errorf("decrypt %s: %w: %s", path, err, truncate(string(stderr), 512))
		}
		return "", fmt.Errorf("decrypt %s: %w", path, err)
	}
	return string(stdout), nil
}
