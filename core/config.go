package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
		SessionExpiry   time.Duration
		CookieName      string
		CookieSecure    bool
		AllowOrigins    []string
		DisableReqLogs  bool
	}

	OTPConfig struct {
		Length int
		TTL    time.Duration
	}

	DatabaseConfig struct {
		Engine         string // mongodb | memory
		URI            string
		Name           string
		ConnectTimeout time.Duration
	}

	EmailConfig struct {
		Provider       string // console | sendgrid | smtp
		SendgridAPIKey string
		SMTPHost       string
		SMTPPort       int
		SMTPUser       string
		SMTPPassword   string
	}

	RecommenderConfig struct {
		Command string
		Args    []string
		Dir     string
		Timeout time.Duration
	}

	Config struct {
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		AppName          string
		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		WorkDir          string
		RollbarToken     string
		Server           ServerConfig
		OTP              OTPConfig
		Database         DatabaseConfig
		Email            EmailConfig
		Recommender      RecommenderConfig
	}
)

// NewConfig reads the configuration for the current ENV (DEV by default, TEST, QA or PROD).
// Values come from defaults, then `config/.env.<env>` if present, then `<ENV>_*` environment variables.
func NewConfig() *Config {
	v := viper.New()
	workDir := Getwd()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("build", "dev")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "StudyAI")
	v.SetDefault("secretKey", "x9#k2!mq7@pl4$vz0^wr8&ty3*hb6(nd5)cg1_fs")
	v.SetDefault("frontendBaseURL", "http://localhost:5173")
	v.SetDefault("defaultFromName", "StudyAI")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.sessionExpiry", time.Hour)
	v.SetDefault("server.cookieName", "token")
	v.SetDefault("server.cookieSecure", false)
	v.SetDefault("server.allowOrigins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("otp.length", 6)
	v.SetDefault("otp.ttl", 5*time.Minute)

	v.SetDefault("database.engine", "mongodb")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "studyai")
	v.SetDefault("database.connectTimeout", 10*time.Second)

	v.SetDefault("email.provider", "console")
	v.SetDefault("email.sendgridAPIKey", "")
	v.SetDefault("email.smtpHost", "smtp.gmail.com")
	v.SetDefault("email.smtpPort", 587)
	v.SetDefault("email.smtpUser", "")
	v.SetDefault("email.smtpPassword", "")

	v.SetDefault("recommender.command", "python")
	v.SetDefault("recommender.args", []string{"predict_and_recommend.py"})
	v.SetDefault("recommender.dir", filepath.Join(workDir, "scorer"))
	v.SetDefault("recommender.timeout", 30*time.Second)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("database.engine", "memory")
		v.SetDefault("server.disableReqLogs", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:             env,
		Build:           v.GetString("build"),
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		AppName:         v.GetString("appName"),
		SecretKey:       v.GetString("secretKey"),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{
			Name:    v.GetString("defaultFromName"),
			Address: v.GetString("defaultFromEmail"),
		},
		WorkDir:      workDir,
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			SessionExpiry:   v.GetDuration("server.sessionExpiry"),
			CookieName:      v.GetString("server.cookieName"),
			CookieSecure:    v.GetBool("server.cookieSecure"),
			AllowOrigins:    v.GetStringSlice("server.allowOrigins"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		OTP: OTPConfig{
			Length: v.GetInt("otp.length"),
			TTL:    v.GetDuration("otp.ttl"),
		},
		Database: DatabaseConfig{
			Engine:         v.GetString("database.engine"),
			URI:            v.GetString("database.uri"),
			Name:           v.GetString("database.name"),
			ConnectTimeout: v.GetDuration("database.connectTimeout"),
		},
		Email: EmailConfig{
			Provider:       v.GetString("email.provider"),
			SendgridAPIKey: v.GetString("email.sendgridAPIKey"),
			SMTPHost:       v.GetString("email.smtpHost"),
			SMTPPort:       v.GetInt("email.smtpPort"),
			SMTPUser:       v.GetString("email.smtpUser"),
			SMTPPassword:   v.GetString("email.smtpPassword"),
		},
		Recommender: RecommenderConfig{
			Command: v.GetString("recommender.command"),
			Args:    v.GetStringSlice("recommender.args"),
			Dir:     v.GetString("recommender.dir"),
			Timeout: v.GetDuration("recommender.timeout"),
		},
	}
}

// NewTestConfig returns the configuration used by test suites, whatever the current ENV.
func NewTestConfig() *Config {
	conf := NewConfig()
	conf.Env = "TEST"
	conf.Debug = false
	conf.TestMode = true
	conf.Database.Engine = "memory"
	conf.Email.Provider = "console"
	conf.Server.DisableReqLogs = true
	return conf
}
