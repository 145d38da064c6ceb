package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	CORS struct {
		AllowedOrigin string `mapstructure:"allowedOrigin"`
	} `mapstructure:"cors"`
	Gemini struct {
		Model  string `mapstructure:"model"`
		APIKey string `mapstructure:"-"`
	} `mapstructure:"gemini"`
	Weather struct {
		BaseURL string `mapstructure:"baseURL"`
		APIKey  string `mapstructure:"-"`
	} `mapstructure:"weather"`
	Places struct {
		BaseURL      string `mapstructure:"baseURL"`
		RadiusMeters int    `mapstructure:"radiusMeters"`
		APIKey       string `mapstructure:"-"`
	} `mapstructure:"places"`
	Rakuten struct {
		BaseURL       string `mapstructure:"baseURL"`
		Hits          int    `mapstructure:"hits"`
		ApplicationID string `mapstructure:"-"`
	} `mapstructure:"rakuten"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	// Secrets come from the environment, never from the file.
	config.Gemini.APIKey = os.Getenv("GOOGLE_GEMINI_API_KEY")
	config.Weather.APIKey = os.Getenv("WEATHER_API_KEY")
	config.Places.APIKey = os.Getenv("PLACES_API_KEY")
	config.Rakuten.ApplicationID = os.Getenv("RAKUTEN_APP_ID")
	if origin := os.Getenv("ALLOWED_ORIGIN"); origin != "" {
		config.CORS.AllowedOrigin = origin
	}

	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
