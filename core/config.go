package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var defaultDepartments = []string{"Computer", "IT", "ENTC", "AIDS", "ECE"}

type (
	dbConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	serverConfig struct {
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
		TokenExpiration time.Duration
	}

	meetConfig struct {
		BaseURL        string
		Token          string
		RequestTimeout time.Duration
	}

	googleConfig struct {
		ClientID     string
		ClientSecret string
		TokenFile    string
		CalendarID   string
	}

	Config struct {
		AppName          string
		Build            string
		Env              string
		Debug            bool
		TestMode         bool
		SecretKey        string
		Timezone         string
		Departments      []string
		RollbarToken     string
		SendgridApiKey   string
		defaultFromEmail string

		Database dbConfig
		Server   serverConfig
		Meet     meetConfig
		Google   googleConfig
	}
)

// NewConfig loads the configuration from the environment, falling back to sane defaults.
// Variables are prefixed with the uppercased ENV (DEV by default): DEV_DATABASE_HOST, TEST_DEBUG...
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("appName", "Masomo Meet")
	conf.SetDefault("build", "develop")
	conf.SetDefault("debug", true)
	conf.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	conf.SetDefault("defaultFromEmail", "Masomo Meet <noreply@localhost>")
	conf.SetDefault("timezone", "UTC")
	conf.SetDefault("departments", defaultDepartments)

	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", "5432")
	conf.SetDefault("database.name", "masomo_meet")
	conf.SetDefault("database.user", "masomo")
	conf.SetDefault("database.password", "masomo")
	conf.SetDefault("database.adminUser", "postgres")
	conf.SetDefault("database.adminPassword", "postgres")
	conf.SetDefault("database.disableTLS", true)

	conf.SetDefault("server.host", ":8000")
	conf.SetDefault("server.debugHost", ":4000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.tokenExpiration", 30*24*time.Hour)

	conf.SetDefault("meet.baseURL", "http://localhost:8000/v1/meetings")
	conf.SetDefault("meet.requestTimeout", 30*time.Second)

	conf.SetDefault("google.tokenFile", "token.json")
	conf.SetDefault("google.calendarID", "primary")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	departments := conf.GetStringSlice("departments")
	if len(departments) == 1 && strings.Contains(departments[0], ",") {
		departments = strings.Split(departments[0], ",")
	}
	for i, d := range departments {
		departments[i] = CleanString(d)
	}

	return &Config{
		AppName:          conf.GetString("appName"),
		Build:            conf.GetString("build"),
		Env:              strings.ToLower(env),
		Debug:            conf.GetBool("debug"),
		TestMode:         conf.GetBool("testMode"),
		SecretKey:        conf.GetString("secretKey"),
		Timezone:         conf.GetString("timezone"),
		Departments:      departments,
		RollbarToken:     conf.GetString("rollbarToken"),
		SendgridApiKey:   conf.GetString("sendgridApiKey"),
		defaultFromEmail: conf.GetString("defaultFromEmail"),
		Database: dbConfig{
			Engine:        conf.GetString("database.engine"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetString("database.port"),
			Name:          conf.GetString("database.name"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
		},
		Server: serverConfig{
			Host:            conf.GetString("server.host"),
			DebugHost:       conf.GetString("server.debugHost"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
			TokenExpiration: conf.GetDuration("server.tokenExpiration"),
		},
		Meet: meetConfig{
			BaseURL:        strings.TrimSuffix(conf.GetString("meet.baseURL"), "/"),
			Token:          conf.GetString("meet.token"),
			RequestTimeout: conf.GetDuration("meet.requestTimeout"),
		},
		Google: googleConfig{
			ClientID:     conf.GetString("google.clientID"),
			ClientSecret: conf.GetString("google.clientSecret"),
			TokenFile:    conf.GetString("google.tokenFile"),
			CalendarID:   conf.GetString("google.calendarID"),
		},
	}
}

func (c dbConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: "noreply@localhost"}
	}
	return *addr
}

// IsDepartment reports whether `name` is one of the configured departments.
func (c *Config) IsDepartment(name string) bool {
	for _, d := range c.Departments {
		if d == name {
			return true
		}
	}
	return false
}

// Location returns the configured time zone, UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// NewTestConfig returns a Config suitable for tests: debug, test mode, no external services.
func NewTestConfig() *Config {
	return &Config{
		AppName:          "Masomo Meet",
		Build:            "test",
		Env:              "test",
		Debug:            true,
		TestMode:         true,
		SecretKey:        "test-secret",
		Timezone:         "UTC",
		Departments:      append([]string(nil), defaultDepartments...),
		defaultFromEmail: "Masomo Meet <noreply@localhost>",
		Server: serverConfig{
			ShutdownTimeout: time.Second,
			TokenExpiration: time.Hour,
		},
		Meet: meetConfig{
			RequestTimeout: 5 * time.Second,
		},
		Google: googleConfig{CalendarID: "primary"},
	}
}
