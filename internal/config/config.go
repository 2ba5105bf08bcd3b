package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"DevBlogProxy/internal/domain"
)

const (
	configPathEnv   = "DEVBLOG_CONFIG"
	listenAddrEnv   = "DEVBLOG_LISTEN_ADDR"
	upstreamURLEnv  = "DEVTO_API_URL"
	originURLEnv    = "DEVBLOG_ORIGIN_URL"
	adClientIDEnv   = "ADSENSE_CLIENT_ID"
	themeModeEnv    = "DEVBLOG_THEME_MODE"
	databaseDrvEnv  = "DATABASE_DRIVER"
	databaseDSNEnv  = "DATABASE_DSN"
	logLevelEnv     = "LOG_LEVEL"
	defaultPerPage  = 12
	maxPerPage      = 50
	defaultUpstream = "https://dev.to"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Pagination PaginationConfig `yaml:"pagination"`
	Site       SiteConfig       `yaml:"site"`
	Database   DatabaseConfig   `yaml:"database"`
	Mapping    MappingConfig    `yaml:"mapping"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig describes the inbound HTTP listener.
type ServerConfig struct {
	ListenAddr     string        `yaml:"listenAddr"`
	TrustedProxies []string      `yaml:"trustedProxies"`
	SSL            bool          `yaml:"ssl"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
}

// UpstreamConfig points at the Dev.to API.
type UpstreamConfig struct {
	BaseURL   string        `yaml:"baseUrl"`
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// PaginationConfig tunes listing defaults and the remaining-page probe.
type PaginationConfig struct {
	DefaultPerPage  int           `yaml:"defaultPerPage"`
	MaxPerPage      int           `yaml:"maxPerPage"`
	ProbePage       int           `yaml:"probePage"`
	ProbeTimeout    time.Duration `yaml:"probeTimeout"`
	FallbackPages   int           `yaml:"fallbackPages"`
	CacheMaxAgeSecs int           `yaml:"cacheMaxAge"`
}

// SiteConfig carries the settings the page shell consumes.
type SiteConfig struct {
	OriginURL   string              `yaml:"originUrl"`
	AdClientID  string              `yaml:"adClientId"`
	ThemeMode   string              `yaml:"themeMode"`
	PopularTags []domain.PopularTag `yaml:"popularTags"`
	theme       domain.ThemeMode    `yaml:"-"`
}

// Theme returns the validated theme mode.
func (s SiteConfig) Theme() domain.ThemeMode {
	if s.theme != "" {
		return s.theme
	}
	mode, _ := domain.ParseThemeMode(s.ThemeMode)
	return mode
}

// DatabaseConfig selects the mapping store; an empty driver disables it.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// MappingConfig controls the id/slug index generator.
type MappingConfig struct {
	Pages           int           `yaml:"pages"`
	PerPage         int           `yaml:"perPage"`
	RequestInterval time.Duration `yaml:"requestInterval"`
	RefreshInterval time.Duration `yaml:"refreshInterval"`
}

// Load reads YAML configuration from DEVBLOG_CONFIG (if set) and applies environment overrides.
func Load() Config {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile reads YAML configuration from path (if non-empty) and applies environment overrides.
func LoadFile(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTheme()
	cfg.clampPagination()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.ListenAddr = v
	}

	if v := os.Getenv(upstreamURLEnv); v != "" {
		c.Upstream.BaseURL = v
	}

	if v := os.Getenv(originURLEnv); v != "" {
		c.Site.OriginURL = v
	}

	if v := os.Getenv(adClientIDEnv); v != "" {
		c.Site.AdClientID = v
	}

	if v := os.Getenv(themeModeEnv); v != "" {
		c.Site.ThemeMode = v
	}

	if v, ok := os.LookupEnv(databaseDrvEnv); ok {
		c.Database.Driver = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) bindTheme() {
	mode, ok := domain.ParseThemeMode(c.Site.ThemeMode)
	if !ok {
		log.Printf("config: unknown theme mode %q, reverting to %s", c.Site.ThemeMode, domain.ThemeLight)
	}
	c.Site.ThemeMode = string(mode)
	c.Site.theme = mode
}

func (c *Config) clampPagination() {
	p := &c.Pagination
	if p.MaxPerPage <= 0 || p.MaxPerPage > maxPerPage {
		p.MaxPerPage = maxPerPage
	}
	if p.DefaultPerPage <= 0 || p.DefaultPerPage > p.MaxPerPage {
		p.DefaultPerPage = min(defaultPerPage, p.MaxPerPage)
	}
	if p.ProbePage <= 1 {
		p.ProbePage = 50
	}
	if p.ProbeTimeout <= 0 {
		p.ProbeTimeout = 5 * time.Second
	}
	if p.FallbackPages < 0 {
		p.FallbackPages = 10
	}
	c.Upstream.BaseURL = strings.TrimSuffix(c.Upstream.BaseURL, "/")
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Server.ListenAddr != "" {
		base.Server.ListenAddr = override.Server.ListenAddr
	}
	if len(override.Server.TrustedProxies) > 0 {
		base.Server.TrustedProxies = override.Server.TrustedProxies
	}
	if override.Server.SSL {
		base.Server.SSL = true
	}
	if override.Server.ReadTimeout > 0 {
		base.Server.ReadTimeout = override.Server.ReadTimeout
	}
	if override.Server.WriteTimeout > 0 {
		base.Server.WriteTimeout = override.Server.WriteTimeout
	}

	if override.Upstream.BaseURL != "" {
		base.Upstream.BaseURL = override.Upstream.BaseURL
	}
	if override.Upstream.UserAgent != "" {
		base.Upstream.UserAgent = override.Upstream.UserAgent
	}
	if override.Upstream.Timeout > 0 {
		base.Upstream.Timeout = override.Upstream.Timeout
	}

	if override.Pagination.DefaultPerPage > 0 {
		base.Pagination.DefaultPerPage = override.Pagination.DefaultPerPage
	}
	if override.Pagination.MaxPerPage > 0 {
		base.Pagination.MaxPerPage = override.Pagination.MaxPerPage
	}
	if override.Pagination.ProbePage > 0 {
		base.Pagination.ProbePage = override.Pagination.ProbePage
	}
	if override.Pagination.ProbeTimeout > 0 {
		base.Pagination.ProbeTimeout = override.Pagination.ProbeTimeout
	}
	if override.Pagination.FallbackPages > 0 {
		base.Pagination.FallbackPages = override.Pagination.FallbackPages
	}
	if override.Pagination.CacheMaxAgeSecs > 0 {
		base.Pagination.CacheMaxAgeSecs = override.Pagination.CacheMaxAgeSecs
	}

	if override.Site.OriginURL != "" {
		base.Site.OriginURL = override.Site.OriginURL
	}
	if override.Site.AdClientID != "" {
		base.Site.AdClientID = override.Site.AdClientID
	}
	if override.Site.ThemeMode != "" {
		base.Site.ThemeMode = override.Site.ThemeMode
	}
	if len(override.Site.PopularTags) > 0 {
		base.Site.PopularTags = override.Site.PopularTags
	}

	if override.Database.Driver != "" {
		base.Database = override.Database
	}

	if override.Mapping.Pages > 0 {
		base.Mapping.Pages = override.Mapping.Pages
	}
	if override.Mapping.PerPage > 0 {
		base.Mapping.PerPage = override.Mapping.PerPage
	}
	if override.Mapping.RequestInterval > 0 {
		base.Mapping.RequestInterval = override.Mapping.RequestInterval
	}
	if override.Mapping.RefreshInterval > 0 {
		base.Mapping.RefreshInterval = override.Mapping.RefreshInterval
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			ListenAddr:     ":8080",
			TrustedProxies: []string{"127.0.0.1", "::1"},
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
		},
		Upstream: UpstreamConfig{
			BaseURL:   defaultUpstream,
			UserAgent: "DevBlogProxy/1.0",
			Timeout:   10 * time.Second,
		},
		Pagination: PaginationConfig{
			DefaultPerPage:  defaultPerPage,
			MaxPerPage:      maxPerPage,
			ProbePage:       50,
			ProbeTimeout:    5 * time.Second,
			FallbackPages:   10,
			CacheMaxAgeSecs: 60,
		},
		Site: SiteConfig{
			OriginURL: "http://localhost:8080",
			ThemeMode: string(domain.ThemeLight),
			PopularTags: []domain.PopularTag{
				{Name: "javascript", Count: 2845, Trending: true},
				{Name: "webdev", Count: 1923, Trending: true},
				{Name: "beginners", Count: 1678},
				{Name: "programming", Count: 1543},
				{Name: "tutorial", Count: 1421},
				{Name: "react", Count: 1389, Trending: true},
				{Name: "python", Count: 1256},
				{Name: "productivity", Count: 1123},
				{Name: "ai", Count: 987, Trending: true},
				{Name: "devops", Count: 876},
			},
		},
		Database: DatabaseConfig{Driver: "sqlite3", DSN: "file:devblog.db?_busy_timeout=5000"},
		Mapping: MappingConfig{
			Pages:           10,
			PerPage:         30,
			RequestInterval: 500 * time.Millisecond,
		},
	}
}
