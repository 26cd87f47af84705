// Package config provides the structures and loader for the application
// configuration.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the top level structure holding all settings.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Stripe                  `yaml:"stripe"`
	Prismic                 `yaml:"prismic"`
	Rabbit                  `yaml:"rabbit"`
	SMTP                    `yaml:"smtp"`
}

// HTTPServer holds the HTTP server settings.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection holds the redis connection settings.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken holds the session token settings.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Stripe holds the payment provider settings. PriceID is the fixed
// subscription plan offered by the site.
type Stripe struct {
	APIKey        string        `yaml:"api_key" env:"STRIPE_API_KEY"`
	WebhookSecret string        `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	PriceID       string        `yaml:"price_id" env:"STRIPE_PRICE_ID"`
	SuccessURL    string        `yaml:"success_url" env:"STRIPE_SUCCESS_URL"`
	CancelURL     string        `yaml:"cancel_url" env:"STRIPE_CANCEL_URL"`
	Timeout       time.Duration `yaml:"timeout" env-default:"10s"`
}

// Prismic holds the content provider settings.
type Prismic struct {
	APIURL      string        `yaml:"api_url" env:"PRISMIC_API_URL"`
	AccessToken string        `yaml:"access_token" env:"PRISMIC_ACCESS_TOKEN"`
	TimeoutCMS  time.Duration `yaml:"timeout" env-default:"10s"`
	CacheTTL    time.Duration `yaml:"cache_ttl" env-default:"30m"`
}

// Rabbit holds the message broker settings.
type Rabbit struct {
	Connection   string        `yaml:"connection" env:"RABBIT_CONNECTION"`
	RetriesCount int           `yaml:"retries_count" env-default:"5"`
	RetriesDelay time.Duration `yaml:"retries_delay" env-default:"3s"`
}

// SMTP holds the mail transport settings for the notification sender.
type SMTP struct {
	SMTPHost string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"smtp_port" env:"SMTP_PORT"`
	SMTPUser string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPass string `yaml:"smtp_pass" env:"SMTP_PASS"`
}

// MustLoad loads the configuration from the file pointed to by
// CONFIG_PATH and terminates the process when it cannot be read.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Stripe:\n"+
			"  PriceID: %s\n"+
			"  SuccessURL: %s\n"+
			"  CancelURL: %s\n"+
			"Prismic:\n"+
			"  APIURL: %s\n"+
			"  CacheTTL: %s\n",
		c.Env,
		c.StorageConnectionString,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.PriceID,
		c.SuccessURL,
		c.CancelURL,
		c.APIURL,
		c.CacheTTL,
	)
}
