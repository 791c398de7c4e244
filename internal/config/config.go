package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramBot TelegramBot
	NexonAPI    NexonAPI
	YouTubeAPI  YouTubeAPI
	Classifier  Classifier
	Stats       Stats
	Session     Session
	Server      Server
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

type NexonAPI struct {
	APIKey            string        `envconfig:"NEXON_API_KEY" required:"true"`
	BaseURL           string        `envconfig:"NEXON_BASE_URL" default:"https://open.api.nexon.com/fconline/v1"`
	StaticURL         string        `envconfig:"NEXON_STATIC_URL" default:"https://open.api.nexon.com/static/fconline/meta"`
	Timeout           time.Duration `envconfig:"NEXON_TIMEOUT" default:"10s"`
	RequestsPerSecond float64       `envconfig:"NEXON_RPS" default:"10"`
}

type YouTubeAPI struct {
	APIKey     string        `envconfig:"YOUTUBE_API_KEY" required:"true"`
	BaseURL    string        `envconfig:"YOUTUBE_BASE_URL" default:"https://www.googleapis.com/youtube/v3"`
	RegionCode string        `envconfig:"YOUTUBE_REGION" default:"KR"`
	Language   string        `envconfig:"YOUTUBE_LANGUAGE" default:"ko"`
	Timeout    time.Duration `envconfig:"YOUTUBE_TIMEOUT" default:"10s"`
	MaxResults int           `envconfig:"VIDEO_MAX_RESULTS" default:"5"`
}

type Classifier struct {
	APIKey      string        `envconfig:"GEMINI_API_KEY" required:"true"`
	Model       string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	Temperature float32       `envconfig:"GEMINI_TEMPERATURE" default:"0"`
	Timeout     time.Duration `envconfig:"GEMINI_TIMEOUT" default:"30s"`
}

type Stats struct {
	Policy        string        `envconfig:"STATS_POLICY" default:"weighted"`
	Concurrency   int           `envconfig:"STATS_CONCURRENCY" default:"4"`
	LookupTimeout time.Duration `envconfig:"STATS_LOOKUP_TIMEOUT" default:"10s"`
}

type Session struct {
	TTL           time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"5m"`
}

type Server struct {
	Addr        string   `envconfig:"HTTP_ADDR" default:":8080"`
	CORSOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
