package util

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string `mapstructure:"PORT" validate:"required,number"`
	TokenSymmetricKey string `mapstructure:"TOKEN_SYMMETRIC_KEY" validate:"required,len=32"`
	AllowedOrigin     string `mapstructure:"ALLOWED_ORIGIN"`
}

func LoadConfig() (*Config, error) {
	godotenv.Load()

	config := &Config{
		Port:              os.Getenv("PORT"),
		TokenSymmetricKey: os.Getenv("TOKEN_SYMMETRIC_KEY"),
		AllowedOrigin:     os.Getenv("ALLOWED_ORIGIN"),
	}

	if err := Validate.Struct(config); err != nil {
		return nil, err
	}

	return config, nil
}
