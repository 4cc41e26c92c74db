package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/examally/examally/core/notify"
)

type notifyRepository struct {
	db *sqlx.DB
}

var _ notify.Repository = (*notifyRepository)(nil) // interface compliance check

func NewNotifyRepository(db *sqlx.DB) notify.Repository {
	return &notifyRepository{db: db}
}

func (repo *notifyRepository) GetPreferences(ctx context.Context, userID string) (notify.Preferences, error) {
	var prefs notify.Preferences
	q := `SELECT "user_id", "email_notifications", "exam_reminders", "mark_updates", "updated_at"
		FROM "notification_preference" WHERE "user_id" = $1`
	if err := repo.db.GetContext(ctx, &prefs, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notify.Preferences{}, notify.ErrPreferencesNotFound
		}
		return notify.Preferences{}, wrapErr(err, "getting preferences")
	}
	prefs.UpdatedAt = prefs.UpdatedAt.UTC()
	return prefs, nil
}

func (repo *notifyRepository) SavePreferences(ctx context.Context, prefs notify.Preferences) (notify.Preferences, error) {
	prefs.UpdatedAt = prefs.UpdatedAt.UTC()
	q := `INSERT INTO "notification_preference" ("user_id", "email_notifications", "exam_reminders", "mark_updates", "updated_at")
		VALUES (:user_id, :email_notifications, :exam_reminders, :mark_updates, :updated_at)
		ON CONFLICT ("user_id") DO UPDATE SET
			"email_notifications" = EXCLUDED."email_notifications",
			"exam_reminders" = EXCLUDED."exam_reminders",
			"mark_updates" = EXCLUDED."mark_updates",
			"updated_at" = EXCLUDED."updated_at"`
	if _, err := repo.db.NamedExecContext(ctx, q, prefs); err != nil {
		return notify.Preferences{}, wrapErr(err, "saving preferences")
	}
	return prefs, nil
}

func (repo *notifyRepository) GetContact(ctx context.Context, userID string) (notify.Contact, error) {
	var contact notify.Contact
	q := `SELECT "user_id", "email", "verified_at" FROM "verified_contact" WHERE "user_id" = $1`
	if err := repo.db.GetContext(ctx, &contact, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notify.Contact{}, notify.ErrContactNotFound
		}
		return notify.Contact{}, wrapErr(err, "getting contact")
	}
	contact.VerifiedAt = contact.VerifiedAt.UTC()
	return contact, nil
}

func (repo *notifyRepository) SaveContact(ctx context.Context, contact notify.Contact) (notify.Contact, error) {
	contact.VerifiedAt = contact.VerifiedAt.UTC()
	q := `INSERT INTO "verified_contact" ("user_id", "email", "verified_at")
		VALUES (:user_id, :email, :verified_at)
		ON CONFLICT ("user_id") DO UPDATE SET "email" = EXCLUDED."email", "verified_at" = EXCLUDED."verified_at"`
	if _, err := repo.db.NamedExecContext(ctx, q, contact); err != nil {
		return notify.Contact{}, wrapErr(err, "saving contact")
	}
	return contact, nil
}
