// Package session persists the signed-in user's identity and access
// token between runs. The token file is sealed with AES-GCM under a
// key derived from a machine-local secret, so a copied file is useless
// without the keyfile next to it.
package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

var (
	ErrNoSession   = errors.New("session: no saved session")
	ErrInvalidFile = errors.New("session: invalid session file")
)

const (
	fileMagic     = "DRIFTSESS"
	fileVersion   = uint16(1)
	saltSize      = 16
	nonceSize     = 12
	kdfIterations = 200000
	headerSize    = len(fileMagic) + 2 + saltSize + nonceSize + 8

	secretSize = 32

	sessionFile = "session.bin"
	secretFile  = "session.key"
)

// Session is the saved auth state for one user.
type Session struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Valid reports whether the session can still authenticate requests.
func (s Session) Valid(now time.Time) bool {
	return s.UserID != "" && s.AccessToken != "" && now.Before(s.ExpiresAt)
}

// FileStore keeps the sealed session and its keyfile in one directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

// DefaultDir is the per-user config directory for the board.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "driftboard"), nil
}

func (fs *FileStore) secret() ([]byte, error) {
	p := filepath.Join(fs.dir, secretFile)
	b, err := os.ReadFile(p)
	if err == nil {
		if len(b) != secretSize {
			return nil, ErrInvalidFile
		}
		return b, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	b = make([]byte, secretSize)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(fs.dir, 0o700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return nil, err
	}
	return b, nil
}

func gcmFor(secret, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(secret, salt, kdfIterations, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Save seals and writes the session.
func (fs *FileStore) Save(s Session) error {
	secret, err := fs.secret()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}

	salt := make([]byte, saltSize)
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return err
	}
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}
	gcm, err := gcmFor(secret, salt)
	if err != nil {
		return err
	}
	sealed := gcm.Seal(nil, nonce, payload, nil)

	out := make([]byte, headerSize)
	copy(out[:len(fileMagic)], fileMagic)
	binary.LittleEndian.PutUint16(out[len(fileMagic):], fileVersion)
	copy(out[len(fileMagic)+2:], salt)
	copy(out[len(fileMagic)+2+saltSize:], nonce)
	binary.LittleEndian.PutUint64(out[len(fileMagic)+2+saltSize+nonceSize:], uint64(len(sealed)))
	out = append(out, sealed...)

	if err := os.MkdirAll(fs.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(fs.dir, sessionFile), out, 0o600)
}

// Load reads and opens the saved session. ErrNoSession when none
// exists; ErrInvalidFile when the file or keyfile was tampered with.
func (fs *FileStore) Load() (Session, error) {
	b, err := os.ReadFile(filepath.Join(fs.dir, sessionFile))
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}
	if len(b) < headerSize || string(b[:len(fileMagic)]) != fileMagic {
		return Session{}, ErrInvalidFile
	}
	if v := binary.LittleEndian.Uint16(b[len(fileMagic):]); v != fileVersion {
		return Session{}, fmt.Errorf("%w: version %d", ErrInvalidFile, v)
	}
	salt := b[len(fileMagic)+2 : len(fileMagic)+2+saltSize]
	nonce := b[len(fileMagic)+2+saltSize : len(fileMagic)+2+saltSize+nonceSize]
	n := binary.LittleEndian.Uint64(b[len(fileMagic)+2+saltSize+nonceSize:])
	if uint64(len(b)-headerSize) != n {
		return Session{}, ErrInvalidFile
	}

	secret, err := fs.secret()
	if err != nil {
		return Session{}, err
	}
	gcm, err := gcmFor(secret, salt)
	if err != nil {
		return Session{}, err
	}
	payload, err := gcm.Open(nil, nonce, b[headerSize:], nil)
	if err != nil {
		return Session{}, ErrInvalidFile
	}
	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return Session{}, ErrInvalidFile
	}
	return s, nil
}

// Clear removes the saved session, keeping the keyfile.
func (fs *FileStore) Clear() error {
	err := os.Remove(filepath.Join(fs.dir, sessionFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
