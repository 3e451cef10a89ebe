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

type (
	Config struct {
		Env             string
		Build           string
		Debug           bool
		TestMode        bool
		AppName         string
		SecretKey       string
		FrontendBaseURL string
		WorkDir         string
		Timezone        string
		AdminEmails     []string
		RollbarToken    string
		SendgridApiKey  string

		defaultFromEmail string
		location         *time.Location

		Server     ServerConfig
		Database   DatabaseConfig
		Cloudinary CloudinaryConfig
	}

	ServerConfig struct {
		Address                   string
		Host                      string
		DebugHost                 string
		AllowOrigins              []string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine            string // memory, mongodb, postgres
		Host              string
		Port              string
		Name              string
		User              string
		Password          string
		AdminUser         string
		AdminPassword     string
		DisableTLS        bool
		URI               string // mongodb connection string
		MongoTransactions bool
		Timeout           time.Duration
	}

	CloudinaryConfig struct {
		CloudName string
		ApiKey    string
		ApiSecret string
		Folder    string
	}
)

func (dbc DatabaseConfig) Address() string {
	return net.JoinHostPort(dbc.Host, dbc.Port)
}

func (cc CloudinaryConfig) Enabled() bool {
	return cc.CloudName != "" && cc.ApiKey != "" && cc.ApiSecret != ""
}

func (conf *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: conf.AppName, Address: conf.defaultFromEmail}
}

// Location is the school's local timezone, used to build calendar date keys.
func (conf *Config) Location() *time.Location {
	if conf.location == nil {
		return time.Local
	}
	return conf.location
}

// IsAdminEmail reports whether email is one of the configured admin identities.
func (conf *Config) IsAdminEmail(email string) bool {
	email = CleanString(email, true /* lower */)
	if email == "" {
		return false
	}
	for _, e := range conf.AdminEmails {
		if CleanString(e, true /* lower */) == email {
			return true
		}
	}
	return false
}

func (conf *Config) AdminAddresses() []mail.Address {
	addrs := make([]mail.Address, 0, len(conf.AdminEmails))
	for _, e := range conf.AdminEmails {
		if e = CleanString(e, true /* lower */); e != "" {
			addrs = append(addrs, mail.Address{Address: e})
		}
	}
	return addrs
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "EventHub")
	v.SetDefault("secretKey", "v8#k2m!q9x@eventhub$n4p(7r)w1z^c3b&j6h-0t=y5d%")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("adminEmails", []string{})
	v.SetDefault("timezone", "America/Vancouver")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugHost", "localhost:4000")
	v.SetDefault("server.allowOrigins", []string{"*"})
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("database.engine", "memory")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "eventhub")
	v.SetDefault("database.user", "eventhub")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.mongoTransactions", false)
	v.SetDefault("database.timeout", 10*time.Second)

	v.SetDefault("cloudinary.cloudName", "")
	v.SetDefault("cloudinary.apiKey", "")
	v.SetDefault("cloudinary.apiSecret", "")
	v.SetDefault("cloudinary.folder", "flyers")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		WorkDir:          wd,
		Timezone:         v.GetString("timezone"),
		AdminEmails:      splitList(v.GetStringSlice("adminEmails")),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Address:                   v.GetString("server.address"),
			Host:                      v.GetString("server.host"),
			DebugHost:                 v.GetString("server.debugHost"),
			AllowOrigins:              splitList(v.GetStringSlice("server.allowOrigins")),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:            strings.ToLower(v.GetString("database.engine")),
			Host:              v.GetString("database.host"),
			Port:              v.GetString("database.port"),
			Name:              v.GetString("database.name"),
			User:              v.GetString("database.user"),
			Password:          v.GetString("database.password"),
			AdminUser:         v.GetString("database.adminUser"),
			AdminPassword:     v.GetString("database.adminPassword"),
			DisableTLS:        v.GetBool("database.disableTLS"),
			URI:               v.GetString("database.uri"),
			MongoTransactions: v.GetBool("database.mongoTransactions"),
			Timeout:           v.GetDuration("database.timeout"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: v.GetString("cloudinary.cloudName"),
			ApiKey:    v.GetString("cloudinary.apiKey"),
			ApiSecret: v.GetString("cloudinary.apiSecret"),
			Folder:    v.GetString("cloudinary.folder"),
		},
	}

	if loc, err := time.LoadLocation(conf.Timezone); err == nil {
		conf.location = loc
	} else {
		log.Printf("config: unknown timezone %q, using local time: %v", conf.Timezone, err)
	}
	return conf
}

// NewTestConfig returns a Config suitable for tests: no dotenv, no env lookups.
func NewTestConfig() *Config {
	loc, _ := time.LoadLocation("America/Vancouver")
	return &Config{
		Env:              "TEST",
		Build:            "test",
		TestMode:         true,
		AppName:          "EventHub",
		SecretKey:        "secret",
		FrontendBaseURL:  "http://localhost:3000",
		Timezone:         "America/Vancouver",
		AdminEmails:      []string{"admin@school.test"},
		defaultFromEmail: "noreply@localhost",
		location:         loc,
		Server: ServerConfig{
			Host:                      "localhost",
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		Database: DatabaseConfig{Engine: "memory"},
	}
}

// splitList accepts both real lists and a single comma separated env value.
func splitList(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, val := range vals {
		for _, s := range strings.Split(val, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
