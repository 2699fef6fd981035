package claimengine

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/traceback-app/traceback/internal/pkg/env"
)

// Config is the single definition site for every window and threshold the
// engine uses. The source material carried conflicting copies of these
// numbers; the defaults below follow the values the original backend
// actually enforced.
type Config struct {
	// PrivacyWindow is how long a found item stays private after creation.
	PrivacyWindow time.Duration `validate:"gt=0"`

	// FinalChanceWindow is how long the item must stay open after the
	// earliest potential-claimer marking before it can be finalized.
	FinalChanceWindow time.Duration `validate:"gt=0"`

	// DisclosureWindow is how long both parties see each other's contact
	// details after a claim is resolved CLAIMED.
	DisclosureWindow time.Duration `validate:"gt=0"`

	// VerifyThreshold is compared against the correctness ratio with a plain
	// float64 >=. Note that 2 of 3 (0.666...) does NOT reach 0.67.
	VerifyThreshold float64 `validate:"gt=0,lte=1"`

	MinQuestions int `validate:"min=1"`
	MaxQuestions int `validate:"gtefield=MinQuestions"`
	MinChoices   int `validate:"min=2"`
	MaxChoices   int `validate:"gtefield=MinChoices"`

	MinJustificationLen int `validate:"min=1"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		PrivacyWindow:       72 * time.Hour,
		FinalChanceWindow:   72 * time.Hour,
		DisclosureWindow:    120 * time.Hour,
		VerifyThreshold:     0.67,
		MinQuestions:        2,
		MaxQuestions:        5,
		MinChoices:          2,
		MaxChoices:          4,
		MinJustificationLen: 10,
	}
}

// LoadConfig builds the config from the environment on top of the defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if v := env.GetEnv("PRIVACY_WINDOW", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, err
		}
		cfg.PrivacyWindow = d
	}
	if v := env.GetEnv("FINAL_CHANCE_WINDOW", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, err
		}
		cfg.FinalChanceWindow = d
	}
	if v := env.GetEnv("DISCLOSURE_WINDOW", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, err
		}
		cfg.DisclosureWindow = d
	}
	if v := env.GetEnv("VERIFY_THRESHOLD", ""); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, err
		}
		cfg.VerifyThreshold = f
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	v := validator.New()

	return v.Struct(c)
}
