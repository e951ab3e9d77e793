// Package config is the config.json5 shared by the daemon and the cli.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"class-notifier/internal/components/chrono"
	"class-notifier/internal/db"
	"class-notifier/internal/notifier"
	"class-notifier/internal/notify"
	"class-notifier/internal/schedule"
	"class-notifier/internal/timetable"
	"class-notifier/lib/configutil"
	"class-notifier/lib/telemetry"
)

const FileName = "config.json5"

type PortalConfig struct {
	Url               string  `json:"url"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	CloudflareBypass  bool    `json:"cloudflare_bypass"`
	DumpDir           string  `json:"dump_dir"`
}

type NtfyConfig struct {
	BaseUrl        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type SportRuleConfig struct {
	Weekday time.Weekday `json:"weekday"`
	Label   string       `json:"label"`
}

type NotifierConfig struct {
	Concurrency        int              `json:"concurrency"`
	UserTimeoutSeconds int              `json:"user_timeout_seconds"`
	SportRule          *SportRuleConfig `json:"sport_rule"`
}

type Config struct {
	Port       int    `json:"port"`
	Timezone   string `json:"timezone"`
	LogFile    string `json:"log_file"`
	DemoUserID int64  `json:"demo_user_id"`

	Database  db.Config        `json:"database"`
	Portal    PortalConfig     `json:"portal"`
	Ntfy      NtfyConfig       `json:"ntfy"`
	Notifier  NotifierConfig   `json:"notifier"`
	Schedule  []schedule.Entry `json:"schedule"`
	Telemetry telemetry.Config `json:"telemetry"`
}

func (c *Config) SetDefaults() {
	if c.Port == 0 {
		c.Port = 3000
	}
	if c.Timezone == "" {
		c.Timezone = chrono.DefaultTimezone
	}
	if c.LogFile == "" {
		c.LogFile = "server.log"
	}
	if c.DemoUserID == 0 {
		c.DemoUserID = 1
	}
	if c.Database.File == "" && c.Database.Url == "" {
		c.Database.File = "data/class-notifier.db"
	}
	if c.Portal.Url == "" {
		c.Portal.Url = timetable.DefaultPortalUrl
	}
	if c.Ntfy.BaseUrl == "" {
		c.Ntfy.BaseUrl = notify.DefaultBaseUrl
	}
	if len(c.Schedule) == 0 {
		c.Schedule = schedule.DefaultTable
	}
}

func (c *Config) Validate() error {
	errs := []error{}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range", c.Port))
	}
	_, err := time.LoadLocation(c.Timezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if c.Notifier.SportRule != nil && (c.Notifier.SportRule.Weekday < time.Sunday || c.Notifier.SportRule.Weekday > time.Saturday) {
		errs = append(errs, fmt.Errorf("sport rule weekday %d is invalid", c.Notifier.SportRule.Weekday))
	}
	err = schedule.Validate(c.Schedule)
	if err != nil {
		errs = append(errs, fmt.Errorf("schedule: %w", err))
	}
	return errors.Join(errs...)
}

func (c Config) ClientOptions() timetable.ClientOptions {
	return timetable.ClientOptions{
		Url:               c.Portal.Url,
		Timeout:           time.Duration(c.Portal.TimeoutSeconds) * time.Second,
		RequestsPerSecond: c.Portal.RequestsPerSecond,
		CloudflareBypass:  c.Portal.CloudflareBypass,
		DumpDir:           c.Portal.DumpDir,
	}
}

func (c Config) NtfyOptions() notify.NtfyOptions {
	return notify.NtfyOptions{
		BaseUrl: c.Ntfy.BaseUrl,
		Timeout: time.Duration(c.Ntfy.TimeoutSeconds) * time.Second,
	}
}

func (c Config) NotifierOptions() notifier.Options {
	opts := notifier.Options{
		Concurrency: c.Notifier.Concurrency,
		UserTimeout: time.Duration(c.Notifier.UserTimeoutSeconds) * time.Second,
	}
	if c.Notifier.SportRule != nil {
		opts.SportRule = &timetable.SportRule{
			Weekday: c.Notifier.SportRule.Weekday,
			Label:   c.Notifier.SportRule.Label,
		}
	}
	return opts
}

func defaults() (Config, error) {
	cfg := Config{}
	cfg.SetDefaults()
	return cfg, cfg.Validate()
}

// Read reads the config at path merged with its .local variant. A missing file
// yields the defaults.
func Read(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		return defaults()
	}
	return cfg, err
}

// Find is Read for config.json5 in the working directory or any of its parents.
func Find() (Config, error) {
	cfg, err := configutil.ReadRecursively[Config](FileName)
	if errors.Is(err, os.ErrNotExist) {
		return defaults()
	}
	return cfg, err
}
