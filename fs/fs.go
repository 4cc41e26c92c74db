package appfs

import "embed"

// FS holds the SQL migrations, the email templates and the common passwords list.
//go:embed migrations/*.sql templates/email/* common-passwords.txt
var FS embed.FS
