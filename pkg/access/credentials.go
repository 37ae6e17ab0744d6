package access

import (
	"context"
	"crypto/subtle"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrCredentialsUnavailable = errors.New("credentials file missing")

type Credential struct {
	Username string
	Password string
	Center   string
}

type CredentialStore interface {
	Authenticate(ctx context.Context, username, password string) (Context, error)
}

// CsvCredentialStore reads Username, Password and Center Name columns on every call so
// edits to the file take effect without a restart.
type CsvCredentialStore struct {
	path string
}

func NewCsvCredentialStore(path string) *CsvCredentialStore {
	return &CsvCredentialStore{path: path}
}

func (s *CsvCredentialStore) Authenticate(ctx context.Context, username, password string) (Context, error) {
	credentials, err := s.load()
	if err != nil {
		return Context{}, err
	}
	return authenticate(credentials, username, password)
}

func (s *CsvCredentialStore) load() ([]Credential, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Errorf("credentials file %s not found", s.path)
		return nil, ErrCredentialsUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open credentials file: %w", err)
	}
	defer f.Close()
	return parseCredentials(f)
}

func parseCredentials(r io.Reader) ([]Credential, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}
	credentials := make([]Credential, 0, len(rows)-1)
	for _, row := range rows[1:] {
		value := func(column string) string {
			i, ok := index[column]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		credentials = append(credentials, Credential{
			Username: value("Username"),
			Password: value("Password"),
			Center:   value("Center Name"),
		})
	}
	return credentials, nil
}

// authenticate returns the access context of the first credential matching both values.
func authenticate(credentials []Credential, username, password string) (Context, error) {
	if username == "" {
		return Context{}, ErrInvalidCredentials
	}
	for _, c := range credentials {
		if c.Username != username {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(c.Password), []byte(password)) == 1 {
			return NewContext(c.Username, c.Center), nil
		}
	}
	return Context{}, ErrInvalidCredentials
}

type StubCredentialStore struct {
	Credentials []Credential
}

func (s StubCredentialStore) Authenticate(ctx context.Context, username, password string) (Context, error) {
	return authenticate(s.Credentials, username, password)
}
