package config

import "github.com/Skotchmaster/clothing_shop/pkg/config"

type Config struct {
	ListenAddr string
	LogLevel   string
	AuthURL    string
	CatalogURL string
	OrderURL   string

	CSRFSecureCookie bool
}

func Load() Config {
	cfg := Config{
		ListenAddr: config.EnvDefault("GATEWAY_ADDR", ":8080"),
		LogLevel:   config.EnvDefault("LOG_LEVEL", "info"),
		AuthURL:    config.EnvDefault("AUTH_URL", ""),
		CatalogURL: config.EnvDefault("CATALOG_URL", ""),
		OrderURL:   config.EnvDefault("ORDER_URL", ""),

		CSRFSecureCookie: config.EnvDefault("CSRF_SECURE_COOKIE", "false") == "true",
	}

	config.MustNonEmpty(cfg.CatalogURL, "CATALOG_URL")
	config.MustNonEmpty(cfg.OrderURL, "ORDER_URL")
	return cfg
}
