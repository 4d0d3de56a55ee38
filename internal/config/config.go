package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "MEDIAWATCH_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	newsAPIKeyEnv     = "NEWS_API_KEY"
	guardianAPIKeyEnv = "GUARDIAN_API_KEY"
	httpAddrEnv       = "HTTP_ADDR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Sources    SourcesConfig    `yaml:"sources"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Sentiment  SentimentConfig  `yaml:"sentiment"`

	// Publications maps human-readable outlet names to their domains, so
	// users can restrict searches by publication name instead of raw domain.
	Publications map[string][]string `yaml:"publications"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// HTTPConfig describes the dashboard API listener.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig describes Postgres connection details. An empty DSN
// disables run-history persistence.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines the optional standing search.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	Keywords       []string       `yaml:"keywords"`
	Domains        []string       `yaml:"domains"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// SourcesConfig groups settings for the per-source fetchers.
type SourcesConfig struct {
	NewsAPIKey     string `yaml:"newsApiKey"`
	GuardianAPIKey string `yaml:"guardianApiKey"`
	GDELTEnabled   bool   `yaml:"gdeltEnabled"`
	MaxArticles    int    `yaml:"maxArticles"`
	SiteWindowDays int    `yaml:"siteWindowDays"`
}

// ExtractionConfig tunes the full-text extraction chain.
type ExtractionConfig struct {
	MinTextLength  int    `yaml:"minTextLength"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	UserAgent      string `yaml:"userAgent"`
}

// Timeout returns the per-fetch timeout as a duration.
func (e ExtractionConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// ScoringConfig pins the recency and authority policy constants.
type ScoringConfig struct {
	RecencyWindowDays int     `yaml:"recencyWindowDays"`
	UnknownRecency    float64 `yaml:"unknownRecency"`
	RecencyWeight     float64 `yaml:"recencyWeight"`
	AuthorityWeight   float64 `yaml:"authorityWeight"`
	DefaultAuthority  float64 `yaml:"defaultAuthority"`
	DefaultTier       string  `yaml:"defaultTier"`

	Reputation []ReputationEntry `yaml:"reputation"`
}

// ReputationEntry assigns an authority score and tier to one outlet.
type ReputationEntry struct {
	Name  string  `yaml:"name"`
	Score float64 `yaml:"score"`
	Tier  string  `yaml:"tier"`
}

// SentimentConfig toggles the optional sentiment tagger.
type SentimentConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ExpandDomains resolves a mix of publication names and bare domains into
// a deduplicated domain list, preserving order.
func (c Config) ExpandDomains(tokens []string) []string {
	return ExpandDomains(c.Publications, tokens)
}

// ExpandDomains resolves publication names against an alias map. Unknown
// tokens pass through as raw domains; duplicates are dropped.
func ExpandDomains(aliases map[string][]string, tokens []string) []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(d string) {
		d = strings.TrimSpace(d)
		if d == "" {
			return
		}
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	for _, token := range tokens {
		key := strings.ToLower(strings.TrimSpace(token))
		if domains, ok := aliases[key]; ok {
			for _, d := range domains {
				add(d)
			}
			continue
		}
		add(token)
	}
	return out
}

// fileConfig mirrors Config for YAML decoding. Fields whose zero value is
// a legitimate setting (disabled toggles, zero-valued policy constants)
// are pointers so an absent key and an explicit zero merge differently.
type fileConfig struct {
	Logging    LoggingConfig       `yaml:"logging"`
	HTTP       HTTPConfig          `yaml:"http"`
	Database   DatabaseConfig      `yaml:"database"`
	Scheduler  SchedulerConfig     `yaml:"scheduler"`
	Sources    fileSourcesConfig   `yaml:"sources"`
	Extraction ExtractionConfig    `yaml:"extraction"`
	Scoring    fileScoringConfig   `yaml:"scoring"`
	Sentiment  fileSentimentConfig `yaml:"sentiment"`

	Publications map[string][]string `yaml:"publications"`
}

type fileSourcesConfig struct {
	NewsAPIKey     string `yaml:"newsApiKey"`
	GuardianAPIKey string `yaml:"guardianApiKey"`
	GDELTEnabled   *bool  `yaml:"gdeltEnabled"`
	MaxArticles    int    `yaml:"maxArticles"`
	SiteWindowDays int    `yaml:"siteWindowDays"`
}

type fileScoringConfig struct {
	RecencyWindowDays int      `yaml:"recencyWindowDays"`
	UnknownRecency    *float64 `yaml:"unknownRecency"`
	RecencyWeight     *float64 `yaml:"recencyWeight"`
	AuthorityWeight   *float64 `yaml:"authorityWeight"`
	DefaultAuthority  *float64 `yaml:"defaultAuthority"`
	DefaultTier       string   `yaml:"defaultTier"`

	Reputation []ReputationEntry `yaml:"reputation"`
}

type fileSentimentConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg fileConfig
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(newsAPIKeyEnv); v != "" {
		c.Sources.NewsAPIKey = v
	}
	if v := os.Getenv(guardianAPIKeyEnv); v != "" {
		c.Sources.GuardianAPIKey = v
	}
	if v := os.Getenv(httpAddrEnv); v != "" {
		c.HTTP.Addr = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base Config, override fileConfig) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}
	if override.HTTP.Addr != "" {
		base.HTTP = override.HTTP
	}
	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}
	if len(override.Scheduler.Keywords) > 0 {
		base.Scheduler.Keywords = override.Scheduler.Keywords
	}
	if len(override.Scheduler.Domains) > 0 {
		base.Scheduler.Domains = override.Scheduler.Domains
	}

	if override.Sources.NewsAPIKey != "" {
		base.Sources.NewsAPIKey = override.Sources.NewsAPIKey
	}
	if override.Sources.GuardianAPIKey != "" {
		base.Sources.GuardianAPIKey = override.Sources.GuardianAPIKey
	}
	if override.Sources.GDELTEnabled != nil {
		base.Sources.GDELTEnabled = *override.Sources.GDELTEnabled
	}
	if override.Sources.MaxArticles > 0 {
		base.Sources.MaxArticles = override.Sources.MaxArticles
	}
	if override.Sources.SiteWindowDays > 0 {
		base.Sources.SiteWindowDays = override.Sources.SiteWindowDays
	}

	if override.Extraction.MinTextLength > 0 {
		base.Extraction.MinTextLength = override.Extraction.MinTextLength
	}
	if override.Extraction.TimeoutSeconds > 0 {
		base.Extraction.TimeoutSeconds = override.Extraction.TimeoutSeconds
	}
	if override.Extraction.UserAgent != "" {
		base.Extraction.UserAgent = override.Extraction.UserAgent
	}

	if override.Scoring.RecencyWindowDays > 0 {
		base.Scoring.RecencyWindowDays = override.Scoring.RecencyWindowDays
	}
	if override.Scoring.UnknownRecency != nil {
		base.Scoring.UnknownRecency = *override.Scoring.UnknownRecency
	}
	if override.Scoring.RecencyWeight != nil {
		base.Scoring.RecencyWeight = *override.Scoring.RecencyWeight
	}
	if override.Scoring.AuthorityWeight != nil {
		base.Scoring.AuthorityWeight = *override.Scoring.AuthorityWeight
	}
	if override.Scoring.DefaultAuthority != nil {
		base.Scoring.DefaultAuthority = *override.Scoring.DefaultAuthority
	}
	if override.Scoring.DefaultTier != "" {
		base.Scoring.DefaultTier = override.Scoring.DefaultTier
	}
	if len(override.Scoring.Reputation) > 0 {
		base.Scoring.Reputation = override.Scoring.Reputation
	}

	if override.Sentiment.Enabled != nil {
		base.Sentiment.Enabled = *override.Sentiment.Enabled
	}

	if len(override.Publications) > 0 {
		base.Publications = override.Publications
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		HTTP:      HTTPConfig{Addr: ":8080"},
		Database:  DatabaseConfig{DSN: ""},
		Scheduler: SchedulerConfig{Timezone: defaultTimezone, location: tz},
		Sources: SourcesConfig{
			MaxArticles:    20,
			SiteWindowDays: 7,
			GDELTEnabled:   true,
		},
		Extraction: ExtractionConfig{
			MinTextLength:  200,
			TimeoutSeconds: 15,
			UserAgent:      "Mozilla/5.0 (compatible; mediawatch/1.0)",
		},
		Scoring: ScoringConfig{
			RecencyWindowDays: 7,
			UnknownRecency:    0.2,
			RecencyWeight:     0.5,
			AuthorityWeight:   0.5,
			DefaultAuthority:  0.3,
			DefaultTier:       "trade",
			Reputation:        defaultReputation(),
		},
		Sentiment:    SentimentConfig{Enabled: true},
		Publications: defaultPublications(),
	}
}

func defaultReputation() []ReputationEntry {
	return []ReputationEntry{
		{Name: "Associated Press", Score: 1.0, Tier: "top"},
		{Name: "AP News", Score: 1.0, Tier: "top"},
		{Name: "Reuters", Score: 1.0, Tier: "top"},
		{Name: "BBC News", Score: 1.0, Tier: "top"},
		{Name: "BBC", Score: 0.9, Tier: "top"},
		{Name: "The New York Times", Score: 0.9, Tier: "top"},
		{Name: "The Wall Street Journal", Score: 0.9, Tier: "top"},
		{Name: "The Washington Post", Score: 0.9, Tier: "top"},
		{Name: "Financial Times", Score: 0.9, Tier: "top"},
		{Name: "The Guardian", Score: 0.8, Tier: "mid"},
		{Name: "Al Jazeera", Score: 0.8, Tier: "mid"},
		{Name: "NPR", Score: 0.8, Tier: "mid"},
		{Name: "Bloomberg", Score: 0.8, Tier: "mid"},
		{Name: "CNN", Score: 0.7, Tier: "mid"},
		{Name: "CNBC", Score: 0.7, Tier: "mid"},
		{Name: "Mining Weekly", Score: 0.5, Tier: "trade"},
		{Name: "Mining Journal", Score: 0.5, Tier: "trade"},
		{Name: "Energy Voice", Score: 0.5, Tier: "trade"},
	}
}

func defaultPublications() map[string][]string {
	return map[string][]string{
		"the times":            {"thetimes.co.uk"},
		"the telegraph":        {"telegraph.co.uk"},
		"daily mail":           {"dailymail.co.uk"},
		"mining review africa": {"miningreview.com"},
		"mining weekly":        {"miningweekly.com"},
		"mining journal":       {"mining-journal.com", "miningjournal.com"},
		"mining magazine":      {"miningmagazine.com"},
		"mining.com":           {"mining.com"},
		"energy voice":         {"energyvoice.com"},
		"upstreamonline.com":   {"upstreamonline.com"},
		"financial times":      {"ft.com"},
		"reuters":              {"reuters.com"},
		"bloomberg":            {"bloomberg.com"},
	}
}
