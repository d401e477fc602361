package blog

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pagrico/blog/views"
)

// DefaultFallbackImage is the shared OG/card image used when a post has none.
const DefaultFallbackImage = "https://pagrico.com/og-blog-default.jpg"

// SanityConfig points the site at one public Sanity dataset.
type SanityConfig struct {
	ProjectID  string `validate:"required"`
	Dataset    string `validate:"required"`
	APIVersion string `validate:"required"`
	UseCDN     bool
	Token      string

	// BaseURL overrides the API host; tests point it at a local server.
	BaseURL string `validate:"omitempty,url"`
}

// SiteConfig holds all configuration for the blog.
type SiteConfig struct {
	Name          string `validate:"required"`     // SITE_NAME (default "Blog PagRico")
	URL           string `validate:"required,url"` // SITE_URL, canonical base
	Description   string // SITE_DESCRIPTION
	Author        string // SITE_AUTHOR, JSON-LD publisher
	FallbackImage string `validate:"omitempty,url"` // FALLBACK_IMAGE

	Addr         string // ADDR (default ":3000")
	DatabasePath string // DATABASE_PATH, newsletter subscribers (default "data/blog.db")

	SessionSecret    string // SESSION_SECRET, required to serve
	CookieSecure     bool   // COOKIE_SECURE, set true for HTTPS
	RevalidateSecret string // REVALIDATE_SECRET, empty disables the webhook

	CacheTTL time.Duration // CACHE_TTL, Sanity response cache (default 5min)
	LogLevel string        `validate:"omitempty,oneof=trace debug info notice warn warning error fatal panic"`

	Sanity SanityConfig
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog PagRico"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Description == "" {
		c.Description = "Insights sobre pagamentos internacionais, stablecoins e o futuro dos pagamentos digitais para empresas"
	}
	if c.Author == "" {
		c.Author = "PagRico"
	}
	if c.FallbackImage == "" {
		c.FallbackImage = DefaultFallbackImage
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Sanity.ProjectID == "" {
		c.Sanity.ProjectID = "32ysp5d7"
	}
	if c.Sanity.Dataset == "" {
		c.Sanity.Dataset = "production"
	}
	if c.Sanity.APIVersion == "" {
		c.Sanity.APIVersion = "2024-01-01"
	}
}

// Validate checks field constraints after defaults are applied.
func (c SiteConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
			}
			return fmt.Errorf("blog: invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("blog: invalid config: %w", err)
	}
	return nil
}

func (c SiteConfig) viewSite() views.SiteConfig {
	return views.SiteConfig{
		Name:          c.Name,
		URL:           c.URL,
		Description:   c.Description,
		Author:        c.Author,
		FallbackImage: c.FallbackImage,
	}
}

// LoadConfig reads envFile (if present) into the environment, then builds a
// SiteConfig from environment variables on top of the defaults.
func LoadConfig(envFile string) (SiteConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return SiteConfig{}, fmt.Errorf("blog: load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SANITY_USE_CDN", true)
	v.SetDefault("COOKIE_SECURE", false)

	cfg := SiteConfig{
		Name:             v.GetString("SITE_NAME"),
		URL:              v.GetString("SITE_URL"),
		Description:      v.GetString("SITE_DESCRIPTION"),
		Author:           v.GetString("SITE_AUTHOR"),
		FallbackImage:    v.GetString("FALLBACK_IMAGE"),
		Addr:             v.GetString("ADDR"),
		DatabasePath:     v.GetString("DATABASE_PATH"),
		SessionSecret:    v.GetString("SESSION_SECRET"),
		CookieSecure:     v.GetBool("COOKIE_SECURE"),
		RevalidateSecret: v.GetString("REVALIDATE_SECRET"),
		CacheTTL:         v.GetDuration("CACHE_TTL"),
		LogLevel:         strings.ToLower(v.GetString("LOG_LEVEL")),
		Sanity: SanityConfig{
			ProjectID:  v.GetString("SANITY_PROJECT_ID"),
			Dataset:    v.GetString("SANITY_DATASET"),
			APIVersion: v.GetString("SANITY_API_VERSION"),
			UseCDN:     v.GetBool("SANITY_USE_CDN"),
			Token:      v.GetString("SANITY_TOKEN"),
			BaseURL:    v.GetString("SANITY_BASE_URL"),
		},
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithHTTPClient sets the client used for Sanity and widget queries.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *App) {
		a.httpClient = hc
	}
}
