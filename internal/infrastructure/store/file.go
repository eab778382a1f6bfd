package store

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/cdportal/admin-console/internal/core/ports"
)

const (
	fileVersion = 1
	saltSize    = 16
	nonceSize   = 24
	keySize     = 32
)

var ErrSealed = errors.New("credential file is sealed with a different passphrase")

// fileLayout is the on-disk JSON document. Entries are plain strings unless
// Salt is set, in which case each value is base64(nonce || secretbox).
type fileLayout struct {
	Version int               `json:"version"`
	Salt    string            `json:"salt,omitempty"`
	Entries map[string]string `json:"entries"`
}

// File persists credentials in a single JSON file readable only by its owner.
// With a passphrase, values are sealed with a key derived by Argon2id.
type File struct {
	path       string
	passphrase []byte

	mu      sync.Mutex
	key     *[keySize]byte
	keySalt string
}

var _ ports.CredentialStore = (*File)(nil)

// NewFile returns a store backed by path. An empty passphrase stores values
// in clear text.
func NewFile(path, passphrase string) *File {
	f := &File{path: path}
	if passphrase != "" {
		f.passphrase = []byte(passphrase)
	}
	return f
}

// DefaultPath is $XDG_CONFIG_HOME/admin-console/credentials.json, falling
// back to the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "admin-console", "credentials.json")
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return "", false, err
	}
	raw, ok := doc.Entries[key]
	if !ok {
		return "", false, nil
	}
	v, err := f.open(doc, raw)
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	sealed, err := f.seal(&doc, value)
	if err != nil {
		return err
	}
	doc.Entries[key] = sealed
	return f.save(doc)
}

func (f *File) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(doc.Entries, k)
	}
	if len(doc.Entries) == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove credential file: %w", err)
		}
		return nil
	}
	return f.save(doc)
}

func (f *File) load() (fileLayout, error) {
	doc := fileLayout{Version: fileVersion, Entries: map[string]string{}}
	buf, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read credential file: %w", err)
	}
	if err := json.Unmarshal(buf, &doc); err != nil {
		return doc, fmt.Errorf("parse credential file: %w", err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]string{}
	}
	return doc, nil
}

// save writes doc through a temp file so a crash never leaves a torn file.
func (f *File) save(doc fileLayout) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}
	buf, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write credential file: %w", err)
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("write credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return nil
}

// deriveKey returns the sealing key for doc, creating a salt when the file
// has none yet.
func (f *File) deriveKey(doc *fileLayout) (*[keySize]byte, error) {
	if f.key != nil && doc.Salt != "" && doc.Salt == f.keySalt {
		return f.key, nil
	}
	var salt []byte
	if doc.Salt == "" {
		if len(doc.Entries) > 0 {
			return nil, ErrSealed
		}
		salt = make([]byte, saltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, err
		}
		doc.Salt = base64.StdEncoding.EncodeToString(salt)
	} else {
		var err error
		if salt, err = base64.StdEncoding.DecodeString(doc.Salt); err != nil {
			return nil, fmt.Errorf("credential file salt: %w", err)
		}
	}

	var key [keySize]byte
	copy(key[:], argon2.IDKey(f.passphrase, salt, 1, 64*1024, 4, keySize))
	f.key = &key
	f.keySalt = doc.Salt
	return f.key, nil
}

func (f *File) seal(doc *fileLayout, value string) (string, error) {
	if f.passphrase == nil {
		if doc.Salt != "" {
			return "", ErrSealed
		}
		return value, nil
	}
	key, err := f.deriveKey(doc)
	if err != nil {
		return "", err
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(value), &nonce, key)
	return base64.StdEncoding.EncodeToString(box), nil
}

func (f *File) open(doc fileLayout, raw string) (string, error) {
	if doc.Salt == "" {
		if f.passphrase != nil {
			return "", ErrSealed
		}
		return raw, nil
	}
	if f.passphrase == nil {
		return "", ErrSealed
	}
	key, err := f.deriveKey(&doc)
	if err != nil {
		return "", err
	}
	box, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(box) < nonceSize {
		return "", fmt.Errorf("credential entry corrupt")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, key)
	if !ok {
		return "", ErrSealed
	}
	return string(plain), nil
}
