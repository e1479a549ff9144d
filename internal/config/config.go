package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Environment variables prefixed with "COURTSIDE_" override settings e.g. "COURTSIDE_REDIS_URL"
const EnvPrefix = "courtside"

const (
	DefaultSeason       = "2024-25"
	DefaultNBAAPIBase   = "https://stats.nba.com/stats"
	DefaultBBRefBase    = "https://www.basketball-reference.com"
	DefaultDirectoryTTL = 24 * time.Hour
	DefaultHTTPTimeout  = 30 * time.Second
)

// Config holds every setting of the courtside commands
type Config struct {
	Season       string        `validate:"required,season"`
	Provider     string        `validate:"oneof=nba atlas bbref"`
	Directory    string        `validate:"oneof=nba atlas"`
	NBAAPIBase   string        `validate:"required,url"`
	BBRefBase    string        `validate:"required,url"`
	BrowserFetch bool
	AtlasDSN     string
	RedisURL     string        `validate:"omitempty,url"`
	DirectoryTTL time.Duration `validate:"gte=0"`
	HTTPTimeout  time.Duration `validate:"gt=0"`
	RESTPort     int           `validate:"min=1,max=65535"`
	WSPort       int           `validate:"min=1,max=65535"`
	LogLevel     string        `validate:"oneof=debug info warn error"`
}

// UsesAtlas reports whether either the provider or the directory reads Postgres
func (c *Config) UsesAtlas() bool {
	return c.Provider == "atlas" || c.Directory == "atlas"
}

var (
	inputValidator *validator.Validate
	trans          ut.Translator
)

func init() {
	inputValidator = validator.New()

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(inputValidator, trans)

	_ = inputValidator.RegisterValidation("season", func(fl validator.FieldLevel) bool {
		return validSeason(fl.Field().String())
	})
	_ = inputValidator.RegisterTranslation("season", trans, func(ut ut.Translator) error {
		return ut.Add("season", "{0} must look like 2024-25", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("season", fe.Field())
		return t
	})
}

// validSeason accepts "YYYY-YY" where YY is the year after YYYY
func validSeason(s string) bool {
	start, end, ok := strings.Cut(s, "-")
	if !ok || len(start) != 4 || len(end) != 2 {
		return false
	}
	y, err := strconv.Atoi(start)
	if err != nil {
		return false
	}
	e, err := strconv.Atoi(end)
	if err != nil {
		return false
	}
	return (y+1)%100 == e
}

// RegisterFlags declares all settings on the command's persistent flags
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("season", DefaultSeason, "season whose regular-season games are queried")
	flags.String("provider", "nba", "game log provider. options: nba,atlas,bbref")
	flags.String("directory", "nba", "player directory source. options: nba,atlas")
	flags.String("nba-api-base", DefaultNBAAPIBase, "stats.nba.com API base URL")
	flags.String("bbref-base", DefaultBBRefBase, "Basketball-Reference base URL")
	flags.Bool("browser-fetch", false, "render Basketball-Reference pages in headless Chrome")
	flags.String("atlas-dsn", "", "Postgres DSN of the Atlas store")
	flags.String("redis-url", "", "Redis URL for the directory cache and query events; empty disables Redis")
	flags.Duration("directory-ttl", DefaultDirectoryTTL, "how long a cached player directory stays valid")
	flags.Duration("http-timeout", DefaultHTTPTimeout, "timeout of upstream HTTP requests")
	flags.Int("rest-port", 8080, "REST API port")
	flags.Int("ws-port", 8081, "WebSocket port")
	flags.String("log-level", "info", "log level. options: debug,info,warn,error")
}

// Bind makes v read every flag of the set, with environment overrides
func Bind(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name == "config" || err != nil {
			return
		}
		err = v.BindPFlag(flag.Name, flag)
	})
	if err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return nil
}

// Load reads the settings from v and validates them
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Season:       v.GetString("season"),
		Provider:     strings.ToLower(v.GetString("provider")),
		Directory:    strings.ToLower(v.GetString("directory")),
		NBAAPIBase:   v.GetString("nba-api-base"),
		BBRefBase:    v.GetString("bbref-base"),
		BrowserFetch: v.GetBool("browser-fetch"),
		AtlasDSN:     v.GetString("atlas-dsn"),
		RedisURL:     v.GetString("redis-url"),
		DirectoryTTL: v.GetDuration("directory-ttl"),
		HTTPTimeout:  v.GetDuration("http-timeout"),
		RESTPort:     v.GetInt("rest-port"),
		WSPort:       v.GetInt("ws-port"),
		LogLevel:     strings.ToLower(v.GetString("log-level")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and the settings that depend on each other
func (c *Config) Validate() error {
	if err := inputValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", translateValidatorError(err))
	}
	if c.UsesAtlas() && c.AtlasDSN == "" {
		return errors.New("invalid configuration: atlas-dsn is required when provider or directory is atlas")
	}
	// Atlas game logs are keyed by Atlas player ids, which only the Atlas directory hands out
	if c.Provider == "atlas" && c.Directory != "atlas" {
		return errors.New("invalid configuration: the atlas provider requires the atlas directory")
	}
	return nil
}

// translateValidatorError turns validator field errors into one readable message
func translateValidatorError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, msg := range verrs.Translate(trans) {
		msgs = append(msgs, msg)
	}
	// Translate returns a map
	sort.Strings(msgs)
	return errors.New(strings.Join(msgs, "; "))
}
