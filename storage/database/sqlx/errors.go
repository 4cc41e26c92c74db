package sqlxrepos

import (
	"database/sql"
	"database/sql/driver"
	"net"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/examally/examally/core"
)

// IsUnavailable reports whether err means the database could not be reached,
// as opposed to a query being rejected.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 08: connection exception, 57P: operator intervention
		return pqErr.Code.Class() == "08" || pqErr.Code.Class() == "57"
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// wrapErr tags connectivity failures with core.ErrStoreUnavailable so callers can fall back.
func wrapErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if IsUnavailable(err) {
		return errors.Wrapf(core.ErrStoreUnavailable, "%s: %v", msg, err)
	}
	return errors.Wrap(err, msg)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
