package inmemdb

import (
	"context"

	"github.com/examally/examally/core/notify"
)

type notifyRepository struct {
	db *DB
}

var _ notify.Repository = (*notifyRepository)(nil)

func NewNotifyRepository(db *DB) notify.Repository {
	return &notifyRepository{db: db}
}

func (repo *notifyRepository) GetPreferences(_ context.Context, userID string) (notify.Preferences, error) {
	if err := repo.db.check("getting preferences"); err != nil {
		return notify.Preferences{}, err
	}
	tbl := repo.db.notify
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	if prefs, ok := tbl.prefs[userID]; ok {
		return prefs, nil
	}
	return notify.Preferences{}, notify.ErrPreferencesNotFound
}

func (repo *notifyRepository) SavePreferences(_ context.Context, prefs notify.Preferences) (notify.Preferences, error) {
	if err := repo.db.check("saving preferences"); err != nil {
		return notify.Preferences{}, err
	}
	tbl := repo.db.notify
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	tbl.prefs[prefs.UserID] = prefs
	return prefs, nil
}

func (repo *notifyRepository) GetContact(_ context.Context, userID string) (notify.Contact, error) {
	if err := repo.db.check("getting contact"); err != nil {
		return notify.Contact{}, err
	}
	tbl := repo.db.notify
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	if c, ok := tbl.contacts[userID]; ok {
		return c, nil
	}
	return notify.Contact{}, notify.ErrContactNotFound
}

func (repo *notifyRepository) SaveContact(_ context.Context, contact notify.Contact) (notify.Contact, error) {
	if err := repo.db.check("saving contact"); err != nil {
		return notify.Contact{}, err
	}
	tbl := repo.db.notify
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	tbl.contacts[contact.UserID] = contact
	return contact, nil
}
