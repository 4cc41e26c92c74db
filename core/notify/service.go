package notify

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/examally/examally/core"
	"github.com/examally/examally/services/metrics"
)

var (
	// errors
	ErrPreferencesNotFound = errors.New("notification preferences not found")
	ErrContactNotFound     = errors.New("verified contact not found")
	ErrInvalidCode         = errors.New("invalid verification code")
	ErrCodeExpired         = errors.New("verification code has expired")
)

type (
	Repository interface {
		GetPreferences(ctx context.Context, userID string) (Preferences, error)
		SavePreferences(ctx context.Context, prefs Preferences) (Preferences, error)
		GetContact(ctx context.Context, userID string) (Contact, error)
		SaveContact(ctx context.Context, contact Contact) (Contact, error)
	}

	Service struct {
		repo    Repository
		codes   CodeStore
		mailSvc core.EmailService
		logger  core.Logger
		codeTTL time.Duration

		now     func() time.Time        // mockable
		genCode func() (string, error) // mockable
	}
)

func NewService(repo Repository, codes CodeStore, mailSvc core.EmailService, logger core.Logger, conf *core.Config) *Service {
	ttl := conf.Notification.VerificationCodeTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{
		repo:    repo,
		codes:   codes,
		mailSvc: mailSvc,
		logger:  logger,
		codeTTL: ttl,
		now:     time.Now,
		genCode: GenerateCode,
	}
}

// Preferences returns the user's saved preferences, or the defaults when none were saved.
func (svc *Service) Preferences(ctx context.Context, userID string) (Preferences, error) {
	prefs, err := svc.repo.GetPreferences(ctx, userID)
	if errors.Is(err, ErrPreferencesNotFound) {
		return DefaultPreferences(userID), nil
	}
	if err != nil {
		return Preferences{}, errors.Wrap(err, "getting preferences")
	}
	return prefs, nil
}

// UpsertPreferences merges the partial update into the current preferences and saves the result.
func (svc *Service) UpsertPreferences(ctx context.Context, userID string, up UpdatePreferences) (Preferences, error) {
	prefs, err := svc.Preferences(ctx, userID)
	if err != nil {
		return Preferences{}, err
	}
	prefs = up.Apply(prefs)
	prefs.UserID = userID
	prefs.UpdatedAt = svc.now().UTC()

	prefs, err = svc.repo.SavePreferences(ctx, prefs)
	return prefs, errors.Wrap(err, "saving preferences")
}

// Contact returns the user's verified contact.
func (svc *Service) Contact(ctx context.Context, userID string) (Contact, error) {
	return svc.repo.GetContact(ctx, userID)
}

func cleanEmail(email string) (string, error) {
	email = core.CleanString(email, true /* lower */)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", core.InvalidInput("email", "a valid email address is required")
	}
	return email, nil
}

// RequestCode issues a new verification code for email and sends it there.
// Any code issued before for the user is superseded.
func (svc *Service) RequestCode(ctx context.Context, userID, email string) (PendingCode, error) {
	email, err := cleanEmail(email)
	if err != nil {
		return PendingCode{}, err
	}

	code, err := svc.genCode()
	if err != nil {
		return PendingCode{}, err
	}
	pending := PendingCode{
		UserID:    userID,
		Email:     email,
		Code:      code,
		ExpiresAt: svc.now().UTC().Add(svc.codeTTL),
	}
	if err = svc.codes.Put(ctx, pending); err != nil {
		return PendingCode{}, errors.Wrap(err, "storing verification code")
	}
	metrics.VerificationsTotal.WithLabelValues("requested").Inc()

	msg := &core.EmailMessage{
		To:           []mail.Address{{Address: email}},
		Subject:      "Email Verification Code",
		TemplateName: string(KindVerification),
		TemplateData: verificationData{Code: code, ExpiresInMinutes: int(svc.codeTTL / time.Minute)},
	}
	if err = svc.send(ctx, KindVerification, msg); err != nil {
		return pending, err
	}
	return pending, nil
}

// Confirm checks code against the user's pending code and, on success, stores email as verified.
func (svc *Service) Confirm(ctx context.Context, userID, email, code string) (Contact, error) {
	email = core.CleanString(email, true /* lower */)
	code = core.CleanString(code)

	pending, err := svc.codes.Get(ctx, userID)
	if errors.Is(err, ErrCodeNotFound) {
		metrics.VerificationsTotal.WithLabelValues("invalid").Inc()
		return Contact{}, ErrInvalidCode
	}
	if err != nil {
		return Contact{}, errors.Wrap(err, "getting verification code")
	}

	if pending.Email != email || subtle.ConstantTimeCompare([]byte(pending.Code), []byte(code)) != 1 {
		metrics.VerificationsTotal.WithLabelValues("invalid").Inc()
		return Contact{}, ErrInvalidCode
	}

	now := svc.now().UTC()
	if pending.Expired(now) {
		if err = svc.codes.Delete(ctx, userID); err != nil {
			svc.logger.Warn("deleting expired verification code", err)
		}
		metrics.VerificationsTotal.WithLabelValues("expired").Inc()
		return Contact{}, ErrCodeExpired
	}

	contact, err := svc.repo.SaveContact(ctx, Contact{UserID: userID, Email: email, VerifiedAt: now})
	if err != nil {
		return Contact{}, errors.Wrap(err, "saving verified contact")
	}
	if err = svc.codes.Delete(ctx, userID); err != nil {
		svc.logger.Warn("deleting used verification code", err)
	}
	metrics.VerificationsTotal.WithLabelValues("verified").Inc()
	return contact, nil
}

// recipient loads the user's preferences and contact and runs them through the gate.
func (svc *Service) recipient(ctx context.Context, userID string, kind Kind) (string, bool, error) {
	prefs, err := svc.Preferences(ctx, userID)
	if err != nil {
		return "", false, err
	}

	var contact *Contact
	c, err := svc.repo.GetContact(ctx, userID)
	switch {
	case err == nil:
		contact = &c
	case !errors.Is(err, ErrContactNotFound):
		return "", false, errors.Wrap(err, "getting verified contact")
	}

	to, ok := ShouldNotify(kind, prefs, contact)
	return to, ok, nil
}

func (svc *Service) notify(ctx context.Context, userID string, kind Kind, subject string, data interface{}) (bool, error) {
	to, ok, err := svc.recipient(ctx, userID, kind)
	if err != nil {
		return false, err
	}
	if !ok {
		metrics.NotificationsTotal.WithLabelValues(string(kind), "skipped").Inc()
		return false, nil
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{{Address: to}},
		Subject:      subject,
		TemplateName: string(kind),
		TemplateData: data,
	}
	if err = svc.send(ctx, kind, msg); err != nil {
		return false, err
	}
	return true, nil
}

func (svc *Service) send(ctx context.Context, kind Kind, msg *core.EmailMessage) error {
	if err := svc.mailSvc.SendMessage(ctx, msg); err != nil {
		metrics.NotificationsTotal.WithLabelValues(string(kind), "failed").Inc()
		svc.logger.Warn(fmt.Sprintf("sending %s email", kind), err)
		return errors.Wrapf(core.ErrDispatchFailure, "sending %s email: %v", kind, err)
	}
	metrics.NotificationsTotal.WithLabelValues(string(kind), "sent").Inc()
	return nil
}

// ExamReminder emails the exam details to the user if their preferences allow it.
// It reports whether an email was sent; a failed dispatch is an ErrDispatchFailure.
func (svc *Service) ExamReminder(ctx context.Context, userID string, data ExamReminderData) (bool, error) {
	return svc.notify(ctx, userID, KindExamReminder, "Exam Reminder: "+data.Subject, data)
}

// MarkUpdate emails a newly recorded mark to the user if their preferences allow it.
func (svc *Service) MarkUpdate(ctx context.Context, userID string, data MarkUpdateData) (bool, error) {
	return svc.notify(ctx, userID, KindMarkUpdate, "New Mark Added: "+data.Subject, data)
}
