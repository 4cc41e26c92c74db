package inmemdb

import (
	"context"
	"sort"

	"github.com/examally/examally/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(_ context.Context, email string, excludedUsers ...user.User) error {
	if err := repo.db.check("checking email uniqueness"); err != nil {
		return err
	}
	tbl := repo.db.user
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	for _, usr := range tbl.t {
		if usr.Email == email && !isExcluded(*usr, excludedUsers) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	if err := repo.db.check("creating user"); err != nil {
		return user.User{}, err
	}
	tbl := repo.db.user
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	for _, u := range tbl.t {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	tbl.t[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	if err := repo.db.check("querying users"); err != nil {
		return nil, err
	}
	tbl := repo.db.user
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	users := make([]user.User, 0, len(tbl.t))
	for _, u := range tbl.t {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	if err := repo.db.check("getting user"); err != nil {
		return user.User{}, err
	}
	tbl := repo.db.user
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	if usr, ok := tbl.t[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	if err := repo.db.check("getting user"); err != nil {
		return user.User{}, err
	}
	tbl := repo.db.user
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	for _, usr := range tbl.t {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	if err := repo.db.check("updating user"); err != nil {
		return user.User{}, err
	}
	tbl := repo.db.user
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	if _, ok := tbl.t[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	tbl.t[usr.ID] = &usr
	return usr, nil
}

func isExcluded(usr user.User, excludedUsers []user.User) bool {
	for _, excl := range excludedUsers {
		if excl.ID == usr.ID {
			return true
		}
	}
	return false
}
