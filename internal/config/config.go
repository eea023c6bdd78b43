package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env"
)

type config struct {
	Production     bool          `env:"PRODUCTION" envDefault:"false"`
	Port           string        `env:"PORT" envDefault:"80"`
	PostgresUrl    string        `env:"POSTGRES_URL,required"`
	JwtTTL         time.Duration `env:"TOKEN_TTL" envDefault:"20m"`
	Secret         string        `env:"SECRET,required"`
	Timezone       string        `env:"TIMEZONE" envDefault:"UTC"`
	WeekStart      string        `env:"WEEK_START" envDefault:"monday"`
	NotifySchedule string        `env:"NOTIFY_SCHEDULE" envDefault:"@every 1m"`
	MaxOccurrences int           `env:"MAX_OCCURRENCES" envDefault:"5000"`
}

var conf config

// Load reads the configuration from the environment. It must be called before any getter.
func Load() error {
	if err := env.Parse(&conf); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, err := ParseWeekStart(conf.WeekStart); err != nil {
		return err
	}

	if _, err := time.LoadLocation(conf.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", conf.Timezone, err)
	}

	return nil
}

func Production() bool {
	return conf.Production
}

func Port() string {
	return conf.Port
}

func PostgresURL() string {
	return conf.PostgresUrl
}

func JwtTTL() time.Duration {
	return conf.JwtTTL
}

func Secret() string {
	return conf.Secret
}

// Location is the zone calendar days are computed in.
func Location() *time.Location {
	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func WeekStart() time.Weekday {
	d, _ := ParseWeekStart(conf.WeekStart)
	return d
}

func NotifySchedule() string {
	return conf.NotifySchedule
}

func MaxOccurrences() int {
	return conf.MaxOccurrences
}

func ParseWeekStart(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monday":
		return time.Monday, nil
	case "sunday":
		return time.Sunday, nil
	case "saturday":
		return time.Saturday, nil
	default:
		return 0, fmt.Errorf("unsupported WEEK_START %q", s)
	}
}
