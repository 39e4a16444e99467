package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	_ "time/tzdata" // schedule timezone

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Backend selects the storage & AI implementations wired at startup.
type Backend string

const (
	BackendLive Backend = "live"
	BackendMock Backend = "mock"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(CleanString(s, true /* lower */)); b {
	case BackendLive, BackendMock:
		return b, nil
	case "":
		return BackendLive, nil
	default:
		return "", errors.Wrapf(ErrInvalidConfiguration, "unknown backend %q", s)
	}
}

type (
	Config struct {
		AppName          string
		Build            string
		Env              string
		Debug            bool
		TestMode         bool
		Backend          Backend
		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		SendgridApiKey   string
		RollbarToken     string

		SignupEmailDomains []string // sorted, lowercase; empty allows any

		PasswordResetTimeoutDelta time.Duration

		Server   ServerConfig
		Database DatabaseConfig
		Schedule ScheduleConfig
		AI       AIConfig
		Digest   DigestConfig
	}

	ServerConfig struct {
		Host                      string
		Port                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		DisableReqLogs            bool
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string // postgres | sqlite3
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		DocStorePath  string
	}

	ScheduleConfig struct {
		Epoch     time.Time
		Location  *time.Location
		PoolsFile string
	}

	AIConfig struct {
		APIKey  string
		BaseURL string
		Model   string
		Timeout time.Duration
	}

	DigestConfig struct {
		Enabled bool
		Weekday time.Weekday
		At      string // HH:MM in Schedule.Location
	}
)

func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig reads the configuration from the environment (prefixed by $ENV) and the optional
// `config/.env.<env>` file.
func NewConfig() *Config {
	vpr := viper.New()

	// defaults
	vpr.SetTypeByDefaultValue(true)
	vpr.SetDefault("appName", "GVCS CS Club")
	vpr.SetDefault("build", "develop")
	vpr.SetDefault("debug", true)
	vpr.SetDefault("testMode", false)
	vpr.SetDefault("backend", string(BackendLive))
	vpr.SetDefault("secretKey", "k2v#9q!n7x=t$w8c(z^e4hb0r)u&f5yj@m1l+gsd6oa3ip")
	vpr.SetDefault("frontendBaseURL", "http://localhost:3000")
	vpr.SetDefault("defaultFromName", "GVCS CS Club")
	vpr.SetDefault("defaultFromEmail", "noreply@localhost")
	vpr.SetDefault("sendgridApiKey", "")
	vpr.SetDefault("rollbarToken", "")
	vpr.SetDefault("signupEmailDomains", "") // comma-separated, e.g. "gvsd.org,students.gvsd.org"
	vpr.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)

	vpr.SetDefault("serverHost", "")
	vpr.SetDefault("serverPort", "8000")
	vpr.SetDefault("debugHost", "0.0.0.0:4000")
	vpr.SetDefault("shutdownTimeout", 5*time.Second)
	vpr.SetDefault("disableReqLogs", false)
	vpr.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	vpr.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	vpr.SetDefault("dbEngine", "postgres")
	vpr.SetDefault("dbHost", "localhost")
	vpr.SetDefault("dbPort", "5432")
	vpr.SetDefault("dbName", "gvcs")
	vpr.SetDefault("dbUser", "")
	vpr.SetDefault("dbPassword", "")
	vpr.SetDefault("dbAdminUser", "")
	vpr.SetDefault("dbAdminPassword", "")
	vpr.SetDefault("dbDisableTLS", true)
	vpr.SetDefault("docStorePath", "gvcs.bolt")

	vpr.SetDefault("scheduleEpoch", "2025-09-02")
	vpr.SetDefault("scheduleTimezone", "America/New_York")
	vpr.SetDefault("schedulePoolsFile", "")

	vpr.SetDefault("aiApiKey", "")
	vpr.SetDefault("aiBaseURL", "https://generativelanguage.googleapis.com")
	vpr.SetDefault("aiModel", "gemini-2.5-flash")
	vpr.SetDefault("aiTimeout", 60*time.Second)

	vpr.SetDefault("digestEnabled", false)
	vpr.SetDefault("digestWeekday", "monday")
	vpr.SetDefault("digestAt", "07:00")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		vpr.SetDefault("testMode", true)
		vpr.SetDefault("backend", string(BackendMock))
		vpr.SetDefault("dbEngine", "sqlite3")
	}
	vpr.SetEnvPrefix(env)
	loadDotEnv(env)
	vpr.AutomaticEnv()

	backend, err := ParseBackend(vpr.GetString("backend"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	loc, err := time.LoadLocation(vpr.GetString("scheduleTimezone"))
	if err != nil {
		log.Fatalf("config.LoadLocation(%s): %v", vpr.GetString("scheduleTimezone"), err)
	}
	epoch, err := time.ParseInLocation("2006-01-02", vpr.GetString("scheduleEpoch"), loc)
	if err != nil {
		log.Fatalf("config.scheduleEpoch(%s): %v", vpr.GetString("scheduleEpoch"), err)
	}
	weekday, err := parseWeekday(vpr.GetString("digestWeekday"))
	if err != nil {
		log.Fatalf("config.digestWeekday: %v", err)
	}

	return &Config{
		AppName:         vpr.GetString("appName"),
		Build:           vpr.GetString("build"),
		Env:             env,
		Debug:           vpr.GetBool("debug"),
		TestMode:        vpr.GetBool("testMode"),
		Backend:         backend,
		SecretKey:       vpr.GetString("secretKey"),
		FrontendBaseURL: strings.TrimSuffix(vpr.GetString("frontendBaseURL"), "/"),
		DefaultFromEmail: mail.Address{
			Name:    vpr.GetString("defaultFromName"),
			Address: vpr.GetString("defaultFromEmail"),
		},
		SendgridApiKey:            vpr.GetString("sendgridApiKey"),
		RollbarToken:              vpr.GetString("rollbarToken"),
		SignupEmailDomains:        parseDomains(vpr.GetString("signupEmailDomains")),
		PasswordResetTimeoutDelta: vpr.GetDuration("passwordResetTimeoutDelta"),
		Server: ServerConfig{
			Host:                      vpr.GetString("serverHost"),
			Port:                      vpr.GetString("serverPort"),
			DebugHost:                 vpr.GetString("debugHost"),
			ShutdownTimeout:           vpr.GetDuration("shutdownTimeout"),
			DisableReqLogs:            vpr.GetBool("disableReqLogs"),
			JWTExpirationDelta:        vpr.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: vpr.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        vpr.GetString("dbEngine"),
			Host:          vpr.GetString("dbHost"),
			Port:          vpr.GetString("dbPort"),
			Name:          vpr.GetString("dbName"),
			User:          vpr.GetString("dbUser"),
			Password:      vpr.GetString("dbPassword"),
			AdminUser:     vpr.GetString("dbAdminUser"),
			AdminPassword: vpr.GetString("dbAdminPassword"),
			DisableTLS:    vpr.GetBool("dbDisableTLS"),
			DocStorePath:  vpr.GetString("docStorePath"),
		},
		Schedule: ScheduleConfig{
			Epoch:     epoch,
			Location:  loc,
			PoolsFile: vpr.GetString("schedulePoolsFile"),
		},
		AI: AIConfig{
			APIKey:  vpr.GetString("aiApiKey"),
			BaseURL: strings.TrimSuffix(vpr.GetString("aiBaseURL"), "/"),
			Model:   vpr.GetString("aiModel"),
			Timeout: vpr.GetDuration("aiTimeout"),
		},
		Digest: DigestConfig{
			Enabled: vpr.GetBool("digestEnabled"),
			Weekday: weekday,
			At:      vpr.GetString("digestAt"),
		},
	}
}

// loadDotEnv loads `config/.env.<env>` if it exists (ignored if it does not).
func loadDotEnv(env string) {
	wd, err := Getwd()
	if err != nil {
		return
	}
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
}

func parseDomains(s string) []string {
	domains := make([]string, 0)
	for _, d := range strings.Split(s, ",") {
		if d = CleanString(strings.TrimPrefix(strings.TrimSpace(d), "@"), true /* lower */); d != "" {
			domains = append(domains, d)
		}
	}
	sort.Strings(domains)
	return domains
}

func parseWeekday(s string) (time.Weekday, error) {
	s = CleanString(s, true /* lower */)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == s {
			return d, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidConfiguration, "unknown weekday %q", s)
}

// NewTestConfig returns the configuration used by tests: mock backend, debug off.
func NewTestConfig() *Config {
	loc, _ := time.LoadLocation("America/New_York")
	return &Config{
		AppName:                   "GVCS CS Club",
		Build:                     "test",
		Env:                       "TEST",
		TestMode:                  true,
		Backend:                   BackendMock,
		SecretKey:                 "test-secret",
		FrontendBaseURL:           "http://localhost:3000",
		DefaultFromEmail:          mail.Address{Name: "GVCS CS Club", Address: "noreply@localhost"},
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: ServerConfig{
			DisableReqLogs:            true,
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        7 * 24 * time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		Database: DatabaseConfig{Engine: "sqlite3", Name: ":memory:"},
		Schedule: ScheduleConfig{
			Epoch:    time.Date(2025, time.September, 2, 0, 0, 0, 0, loc),
			Location: loc,
		},
		AI:     AIConfig{Model: "gemini-2.5-flash", Timeout: time.Second},
		Digest: DigestConfig{Weekday: time.Monday, At: "07:00"},
	}
}
