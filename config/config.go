package config

import "time"

type Config struct {
	Web     Web
	DB      DB
	Session Session
	Email   Email
	Stripe  Stripe
	Rate    Rate
	Cors    Cors
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost:5432"`
	Name         string `conf:"default:postgres"`
	MaxIdleConns int    `conf:"default:3"`
	MaxOpenConns int    `conf:"default:2"`
	DisableTLS   bool   `conf:"default:true"`
}

type Session struct {
	Lifetime        time.Duration `conf:"default:24h"`
	CookieName      string        `conf:"default:session"`
	CleanupInterval time.Duration `conf:"default:5m"`
}

type Email struct {
	Address  string `conf:"default:shop@example.com"`
	Password string `conf:"mask"`
	Host     string
	Port     int `conf:"default:587"`
}

type Stripe struct {
	WebhookSecret string `conf:"mask"`
}

type Rate struct {
	Burst    int           `conf:"default:20"`
	Interval time.Duration `conf:"default:100ms"`
	Expiry   time.Duration `conf:"default:10m"`
}

type Cors struct {
	Origin string
}
