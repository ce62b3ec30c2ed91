package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	AI struct {
		Provider  string `yaml:"provider"`  // gemini | openai | stub
		APIKey    string `yaml:"apiKey"`    // overridable via AI_API_KEY
		ModelFast string `yaml:"modelFast"` // suggestions, citation explanations
		ModelDeep string `yaml:"modelDeep"` // document analyses, letters
	} `yaml:"ai"`

	Auth struct {
		APIKeys []string `yaml:"apiKeys"` // empty list disables auth
	} `yaml:"auth"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`

	History struct {
		Driver   string `yaml:"driver"` // mysql | postgres | "" (disabled)
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"history"`

	Archive struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"archive"`
}

// Load reads the YAML config file and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "gemini"
	}
	if c.AI.ModelFast == "" {
		c.AI.ModelFast = "gemini-2.5-flash"
	}
	if c.AI.ModelDeep == "" {
		c.AI.ModelDeep = "gemini-2.5-pro"
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 30
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = 5
	}
	if c.History.SSLMode == "" {
		c.History.SSLMode = "disable"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("AI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("HISTORY_PASSWORD"); v != "" {
		c.History.Password = v
	}
}

// MySQLDSN builds the DSN for the mysql history driver.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.History.User,
		c.History.Password,
		c.History.Host,
		c.History.Port,
		c.History.Name,
	)
}

// PostgresDSN builds the DSN for the postgres history driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.History.Host,
		c.History.Port,
		c.History.User,
		c.History.Password,
		c.History.Name,
		c.History.SSLMode,
	)
}
