package notify

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

const (
	codeMin   = 100000
	codeRange = 900000 // codes are in [100000, 999999]
)

// ErrCodeNotFound is returned by a CodeStore when the user has no pending code.
var ErrCodeNotFound = errors.New("verification code not found")

// CodeStore keeps at most one pending code per user. Put replaces any previous code.
type CodeStore interface {
	Put(ctx context.Context, code PendingCode) error
	Get(ctx context.Context, userID string) (PendingCode, error)
	Delete(ctx context.Context, userID string) error
}

// GenerateCode returns a uniformly random 6 digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", errors.Wrap(err, "generating verification code")
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}

type memoryCodeStore struct {
	mu    sync.RWMutex
	codes map[string]PendingCode // {userID: code}
}

var _ CodeStore = (*memoryCodeStore)(nil)

// NewMemoryCodeStore keeps pending codes in process, for single node deployments.
func NewMemoryCodeStore() CodeStore {
	return &memoryCodeStore{codes: make(map[string]PendingCode)}
}

func (s *memoryCodeStore) Put(_ context.Context, code PendingCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code.UserID] = code
	return nil
}

func (s *memoryCodeStore) Get(_ context.Context, userID string) (PendingCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if code, ok := s.codes[userID]; ok {
		return code, nil
	}
	return PendingCode{}, ErrCodeNotFound
}

func (s *memoryCodeStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, userID)
	return nil
}
