/*
Package configs is responsible for loading and parsing the application's configuration settings.

It reads operating system environment variables, optionally seeded from a .env file,
covering the running environment, chat server address, local display name, avatar
service, outbound pacing, inbound frame size and log destination.
*/
package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"chatlink/internal/app/transport"
	"chatlink/internal/app/user"
	"chatlink/internal/pkg/errs"
	"chatlink/internal/pkg/randx"
)

// DotEnvFile is the optional file loaded before the environment is read.
// Variables already present in the environment take precedence over it.
const DotEnvFile = ".env"

var validate = validator.New()

// AppConfig contains all configuration parameters required for the client to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Settings
	Environment string `validate:"required,oneof=development production"`
	LogFile     string `validate:"required"`

	// Chat Server Settings
	ServerURL string `validate:"required,url,startswith=ws"`

	// Session Settings
	Username       string `validate:"required,max=64"`
	AvatarTemplate string `validate:"required,contains=%s"`

	// Outbound Settings
	SendQueueSize int     `validate:"min=1,max=4096"`
	SendRate      float64 `validate:"gte=0"`
	SendBurst     int     `validate:"min=1"`

	// Inbound Settings
	MaxFrameBytes int `validate:"min=4096,max=67108864"`
}

// IsDevelopment reports whether the client runs in development mode.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type conversions and validation.
// It returns a pointer to the AppConfig struct and any error encountered.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrInvalidConfig, err, DotEnvFile)
	}

	cfg := &AppConfig{}

	// --- General Settings ---
	cfg.Environment = getenv("ENVIRONMENT", "development")
	cfg.LogFile = getenv("LOG_FILE", "chat.log")

	// --- Chat Server Settings ---
	cfg.ServerURL = getenv("SERVER_URL", "ws://localhost:8080/chat")

	// --- Session Settings ---
	// Username
	cfg.Username = strings.TrimSpace(os.Getenv("CHAT_USERNAME"))
	if cfg.Username == "" {
		nickname, err := randx.UserNickname()
		if err != nil {
			return nil, fmt.Errorf("failed to generate default username: %w", err)
		}
		cfg.Username = nickname
	}

	cfg.AvatarTemplate = getenv("AVATAR_URL_TEMPLATE", user.DefaultAvatarTemplate)

	// --- Outbound Settings ---
	var err error

	if cfg.SendQueueSize, err = getenvInt("SEND_QUEUE_SIZE", 256); err != nil {
		return nil, err
	}

	sendRateStr := getenv("SEND_RATE", "10")
	cfg.SendRate, err = strconv.ParseFloat(sendRateStr, 64)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInvalidConfig, err, "SEND_RATE")
	}

	if cfg.SendBurst, err = getenvInt("SEND_BURST", 20); err != nil {
		return nil, err
	}

	// --- Inbound Settings ---
	if cfg.MaxFrameBytes, err = getenvInt("MAX_FRAME_BYTES", transport.DefaultMaxFrameBytes); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, errs.Wrap(errs.ErrInvalidConfig, err, "validation failed")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	str := os.Getenv(key)
	if str == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(str)
	if err != nil {
		return 0, errs.Wrap(errs.ErrInvalidConfig, err, key)
	}
	return v, nil
}
