package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MinSecretKeyLen is the shortest signing key accepted from a key file.
const MinSecretKeyLen = 32

// LoadOrInitSecretKey returns the HMAC key stored base64 (raw URL alphabet) at
// path. A missing file is created with a fresh random key. The file is created
// exclusively, so `todo serve` and a concurrent CLI command agree on one key.
// A file that exists but holds a short or undecodable key is an error; it is
// never overwritten.
func LoadOrInitSecretKey(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("auth: empty secret key path")
	}

	key, err := readSecretKey(path)
	if !errors.Is(err, fs.ErrNotExist) {
		return key, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	key = make([]byte, MinSecretKeyLen)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		// Lost the race to another process; use its key.
		return readSecretKey(path)
	}
	if err != nil {
		return nil, err
	}
	_, werr := f.WriteString(base64.RawURLEncoding.EncodeToString(key) + "\n")
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(path)
		return nil, werr
	}
	return key, nil
}

func readSecretKey(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(string(b)))
	if err != nil {
		return nil, fmt.Errorf("auth: secret key file %s: %w", path, err)
	}
	if len(key) < MinSecretKeyLen {
		return nil, fmt.Errorf("auth: secret key file %s: key is %d bytes, need at least %d", path, len(key), MinSecretKeyLen)
	}
	return key, nil
}
