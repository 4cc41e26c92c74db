package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pressly/goose/v3"
	"golang.org/x/term"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/exam"
	"github.com/examally/examally/core/notify"
	"github.com/examally/examally/core/user"
	"github.com/examally/examally/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	gooseRunFunc     = goose.Run         // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf      *core.Config
	db        *sql.DB
	out       io.Writer
	validate  *validator.Validate
	usrSvc    *user.Service
	examSvc   *exam.Service
	notifySvc *notify.Service
	now       func() time.Time // mockable; time.Now when nil
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, args...)
}

func (cli *commandLine) printUsage() {
	cli.printf("Usage:\n")
	cli.printf("  migrate COMMAND [ARGS] - run a goose command against the database (up, down, status, ...)\n")
	cli.printf("  adduser -email EMAIL -name NAME - create a user or reset their password\n")
	cli.printf("  resetpassword -email EMAIL - reset a user's password\n")
	cli.printf("  remind -days N - email reminders of the exams starting within N days\n")
	cli.printf("  config - print the effective configuration, secrets redacted\n")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserName := addUserCmd.String("name", "", "The user's name.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	remindCmd := flag.NewFlagSet("remind", flag.ContinueOnError)
	remindDays := remindCmd.Int("days", 1, "Remind of the exams starting within this many days.")

	for _, fs := range []*flag.FlagSet{addUserCmd, resetPasswordCmd, remindCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printf("Usage: migrate COMMAND [ARGS]\n")
			return errHelp
		}
		return cli.migrate(args[2:])

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserEmail, pwd)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)

	case "remind":
		if err := remindCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *remindDays < 1 {
			remindCmd.Usage()
			return errHelp
		}
		return cli.remind(*remindDays)

	case "config":
		return cli.printConfig()

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	cli.printf("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	cli.printf("\n")
	return string(pwd), err
}

func (cli *commandLine) migrate(args []string) error {
	if err := database.SetUpGoose(); err != nil {
		return err
	}
	return gooseRunFunc(args[0], cli.db, database.MigrationsDir, args[1:]...)
}

// addUser creates an active user, or resets the password of an existing one.
func (cli *commandLine) addUser(name, email, pwd string) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	switch {
	case err == nil:
		_, err = cli.usrSvc.SetPassword(ctx, usr, pwd)
		return err
	case !errors.Is(err, user.ErrNotFound):
		return err
	}

	nu := user.NewUser{Name: name, Email: email, Password: pwd, PasswordConfirm: pwd}
	if err = nu.Validate(cli.validate); err != nil {
		return err
	}
	usr, err = cli.usrSvc.Register(ctx, nu)
	if err != nil {
		return err
	}
	cli.printf("user %s created\n", usr.Email)
	return nil
}

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	_, err = cli.usrSvc.SetPassword(ctx, usr, pwd)
	return err
}
