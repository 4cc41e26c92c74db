package inmemdb

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/exam"
	"github.com/examally/examally/core/mark"
	"github.com/examally/examally/core/notify"
	"github.com/examally/examally/core/user"
)

// DB is a process local record store. Every table has its own lock.
type DB struct {
	user   *userTable
	exam   *examTable
	mark   *markTable
	notify *notifyTables

	mu          sync.RWMutex
	unavailable bool
}

type (
	userTable struct {
		t     map[string]*user.User
		mutex sync.RWMutex
	}

	examTable struct {
		t     map[string][]exam.Exam // {ownerID: exams}
		mutex sync.RWMutex
	}

	markTable struct {
		t     map[string][]mark.Mark // {ownerID: marks}
		mutex sync.RWMutex
	}

	notifyTables struct {
		prefs    map[string]notify.Preferences
		contacts map[string]notify.Contact
		mutex    sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		user:   &userTable{t: make(map[string]*user.User)},
		exam:   &examTable{t: make(map[string][]exam.Exam)},
		mark:   &markTable{t: make(map[string][]mark.Mark)},
		notify: &notifyTables{prefs: make(map[string]notify.Preferences), contacts: make(map[string]notify.Contact)},
	}
}

// SetUnavailable makes every operation fail with core.ErrStoreUnavailable, simulating an outage.
func (db *DB) SetUnavailable(down bool) {
	db.mu.Lock()
	db.unavailable = down
	db.mu.Unlock()
}

func (db *DB) check(op string) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.unavailable {
		return errors.Wrap(core.ErrStoreUnavailable, op)
	}
	return nil
}
