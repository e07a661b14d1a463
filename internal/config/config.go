package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env         string            `yaml:"env" env:"ENV" env-default:"local"`
	DSN         string            `yaml:"dsn" env:"DATABASE_DSN" env-required:"true"`
	HTTP        HTTPConfig        `yaml:"http"`
	Auth        AuthConfig        `yaml:"auth"`
	Session     SessionConfig     `yaml:"session"`
	FileStorage FileStorageConfig `yaml:"file_storage"`
	Redis       RedisConf         `yaml:"redis"`
	Cart        CartConfig        `yaml:"cart"`
	Checkout    CheckoutConfig    `yaml:"checkout"`
	Stripe      StripeConfig      `yaml:"stripe"`
	Mail        MailConfig        `yaml:"mail"`
	Reconcile   ReconcileConfig   `yaml:"reconcile"`
}

type HTTPConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	SiteURL      string        `yaml:"site_url" env-default:"http://localhost:3000"`
	AllowOrigins []string      `yaml:"allow_origins"`
	BodyLimit    string        `yaml:"body_limit" env-default:"200M"`
	Timeout      time.Duration `yaml:"timeout" env-default:"2m"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"-" env:"JWT_SECRET" env-required:"true"`
	AccessTTL  time.Duration `yaml:"access_ttl" env-default:"15m"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env-default:"168h"`
}

type SessionConfig struct {
	Secret string `yaml:"-" env:"SESSION_SECRET" env-required:"true"`
	Secure bool   `yaml:"secure"`
	MaxAge int    `yaml:"max_age" env-default:"604800"`
}

type FileStorageConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"./uploads"`
	BaseURL string `yaml:"base_url" env-default:"/uploads"`
	MaxSize int64  `yaml:"max_size"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db"`
}

type CartConfig struct {
	// memory | redis
	Backend string        `yaml:"backend" env-default:"memory"`
	TTL     time.Duration `yaml:"ttl" env-default:"168h"`
}

type CheckoutConfig struct {
	Currency     string        `yaml:"currency" env-default:"usd"`
	TaxRate      float64       `yaml:"tax_rate"`
	FlatShipping float64       `yaml:"flat_shipping"`
	SuccessPath  string        `yaml:"success_path" env-default:"/checkout/success"`
	CancelPath   string        `yaml:"cancel_path" env-default:"/cart"`
	CatalogTTL   time.Duration `yaml:"catalog_ttl" env-default:"5m"`
}

type StripeConfig struct {
	SecretKey     string `yaml:"-" env:"STRIPE_SECRET_KEY" env-required:"true"`
	WebhookSecret string `yaml:"-" env:"STRIPE_WEBHOOK_SECRET" env-required:"true"`
}

type MailConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port" env-default:"587"`
	Username   string `yaml:"username"`
	Password   string `yaml:"-" env:"SMTP_PASSWORD"`
	From       string `yaml:"from"`
	OwnerEmail string `yaml:"owner_email"`
}

type ReconcileConfig struct {
	Interval   time.Duration `yaml:"interval" env-default:"5m"`
	StaleAfter time.Duration `yaml:"stale_after" env-default:"30m"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	// секреты локально лежат в .env; в окружении контейнера файла нет
	_ = godotenv.Load()

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
