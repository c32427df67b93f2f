// Encrypted on-disk credential store. One file per repository remote,
// kept under the repository's metadata folder and named by a
// caller-supplied storage key, alongside a per-folder key seed file.
package credentials

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/scrypt"
	"gopkg.in/yaml.v3"
)

const (
	// keyFileName holds the random seed the file key is derived from.
	// It lives next to the credential files, readable by the owner only.
	keyFileName = "modelrepo.key"

	seedSize  = 32
	saltSize  = 16
	nonceSize = 12

	// scrypt parameters for deriving the AES key from the seed.
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// fileMagic identifies the credential file format and its version.
var fileMagic = []byte("MRC1")

// storedCredentials is the plaintext payload inside the encrypted blob.
type storedCredentials struct {
	Username string `yaml:"username"`
	Secret   string `yaml:"secret"`
}

// Store reads and writes one encrypted credential file.
type Store struct {
	dir  string
	name string
}

// NewStore creates a store for the credential file called name inside
// dir (the repository's metadata folder).
func NewStore(dir, name string) *Store {
	return &Store{dir: dir, name: name}
}

// Path returns the location of the credential file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, s.name)
}

// Exists reports whether a credential file is present. It says nothing
// about whether the file is readable.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// Load decrypts and returns the stored credentials. It returns
// ErrNotFound when no file exists and ErrUnreadable when a file exists
// but cannot be decrypted or parsed.
func (s *Store) Load() (Credentials, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, ErrNotFound
		}
		return Credentials{}, fmt.Errorf("failed to read credential file: %w", err)
	}

	if len(data) < len(fileMagic)+saltSize+nonceSize || string(data[:len(fileMagic)]) != string(fileMagic) {
		return Credentials{}, fmt.Errorf("%w: malformed file", ErrUnreadable)
	}
	rest := data[len(fileMagic):]
	salt := rest[:saltSize]
	nonce := rest[saltSize : saltSize+nonceSize]
	ciphertext := rest[saltSize+nonceSize:]

	seed, err := os.ReadFile(filepath.Join(s.dir, keyFileName))
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: key file missing or unreadable", ErrUnreadable)
	}

	aead, err := s.cipher(seed, salt)
	if err != nil {
		return Credentials{}, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: decryption failed", ErrUnreadable)
	}

	var stored storedCredentials
	if err := yaml.Unmarshal(plaintext, &stored); err != nil {
		return Credentials{}, fmt.Errorf("%w: corrupt payload", ErrUnreadable)
	}
	return Credentials{Username: stored.Username, Secret: stored.Secret}, nil
}

// Save encrypts and writes the credentials, replacing any previous file.
// The file and the key seed are owner-readable only.
func (s *Store) Save(c Credentials) error {
	seed, err := s.loadOrCreateSeed()
	if err != nil {
		return err
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	aead, err := s.cipher(seed, salt)
	if err != nil {
		return err
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	plaintext, err := yaml.Marshal(storedCredentials{Username: c.Username, Secret: c.Secret})
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	out := make([]byte, 0, len(fileMagic)+saltSize+nonceSize+len(plaintext)+16)
	out = append(out, fileMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plaintext, nil)

	if err := os.WriteFile(s.Path(), out, 0o600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}

// Delete removes the credential file. Deleting an absent file is a no-op.
func (s *Store) Delete() error {
	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete credential file: %w", err)
	}
	return nil
}

func (s *Store) loadOrCreateSeed() ([]byte, error) {
	path := filepath.Join(s.dir, keyFileName)
	seed, err := os.ReadFile(path)
	if err == nil {
		return seed, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	seed = make([]byte, seedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("failed to generate key seed: %w", err)
	}
	if err := os.WriteFile(path, seed, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write key file: %w", err)
	}
	return seed, nil
}

func (s *Store) cipher(seed, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(seed, salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	return aead, nil
}
