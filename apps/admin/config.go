package main

import (
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/examally/examally/core"
)

const redacted = "********"

type (
	configView struct {
		Env              string           `toml:"env"`
		Build            string           `toml:"build"`
		Debug            bool             `toml:"debug"`
		AppName          string           `toml:"appName"`
		SecretKey        string           `toml:"secretKey"`
		DefaultFromEmail string           `toml:"defaultFromEmail"`
		FrontendBaseURL  string           `toml:"frontendBaseURL"`
		TimeZone         string           `toml:"timeZone"`
		SendgridApiKey   string           `toml:"sendgridApiKey"`
		RollbarToken     string           `toml:"rollbarToken"`
		Server           serverView       `toml:"server"`
		Database         databaseView     `toml:"database"`
		Redis            redisView        `toml:"redis"`
		LocalStore       localStoreView   `toml:"localStore"`
		Notification     notificationView `toml:"notification"`
		Countdown        countdownView    `toml:"countdown"`
	}

	serverView struct {
		Address                   string `toml:"address"`
		Host                      string `toml:"host"`
		DebugHost                 string `toml:"debugHost"`
		JWTExpirationDelta        string `toml:"jwtExpirationDelta"`
		JWTRefreshExpirationDelta string `toml:"jwtRefreshExpirationDelta"`
		ShutdownTimeout           string `toml:"shutdownTimeout"`
	}

	databaseView struct {
		Engine        string `toml:"engine"`
		Host          string `toml:"host"`
		Port          string `toml:"port"`
		Name          string `toml:"name"`
		User          string `toml:"user"`
		Password      string `toml:"password"`
		AdminUser     string `toml:"adminUser"`
		AdminPassword string `toml:"adminPassword"`
		DisableTLS    bool   `toml:"disableTLS"`
	}

	redisView struct {
		URL string `toml:"url"`
	}

	localStoreView struct {
		Enabled bool   `toml:"enabled"`
		DSN     string `toml:"dsn"`
	}

	notificationView struct {
		VerificationCodeTTL string `toml:"verificationCodeTTL"`
		CodeStore           string `toml:"codeStore"`
	}

	countdownView struct {
		Interval string `toml:"interval"`
	}
)

func redact(s string) string {
	if s == "" {
		return ""
	}
	return redacted
}

func newConfigView(conf *core.Config) configView {
	return configView{
		Env:              conf.Env,
		Build:            conf.Build,
		Debug:            conf.Debug,
		AppName:          conf.AppName,
		SecretKey:        redact(conf.SecretKey),
		DefaultFromEmail: conf.DefaultFromEmail.String(),
		FrontendBaseURL:  conf.FrontendBaseURL,
		TimeZone:         conf.TimeZone,
		SendgridApiKey:   redact(conf.SendgridApiKey),
		RollbarToken:     redact(conf.RollbarToken),
		Server: serverView{
			Address:                   conf.Server.Address,
			Host:                      conf.Server.Host,
			DebugHost:                 conf.Server.DebugHost,
			JWTExpirationDelta:        conf.Server.JWTExpirationDelta.String(),
			JWTRefreshExpirationDelta: conf.Server.JWTRefreshExpirationDelta.String(),
			ShutdownTimeout:           conf.Server.ShutdownTimeout.String(),
		},
		Database: databaseView{
			Engine:        conf.Database.Engine,
			Host:          conf.Database.Host,
			Port:          conf.Database.Port,
			Name:          conf.Database.Name,
			User:          conf.Database.User,
			Password:      redact(conf.Database.Password),
			AdminUser:     conf.Database.AdminUser,
			AdminPassword: redact(conf.Database.AdminPassword),
			DisableTLS:    conf.Database.DisableTLS,
		},
		// the URL may carry credentials
		Redis:      redisView{URL: redact(conf.Redis.URL)},
		LocalStore: localStoreView{Enabled: conf.LocalStore.Enabled, DSN: conf.LocalStore.DSN},
		Notification: notificationView{
			VerificationCodeTTL: conf.Notification.VerificationCodeTTL.String(),
			CodeStore:           conf.Notification.CodeStore,
		},
		Countdown: countdownView{Interval: conf.Countdown.Interval.String()},
	}
}

func (cli *commandLine) printConfig() error {
	data, err := toml.Marshal(newConfigView(cli.conf))
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	_, err = cli.out.Write(data)
	return err
}
