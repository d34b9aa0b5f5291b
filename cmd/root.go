package cmd

import (
	"errors"
	"log"
	"strings"

	"career-agent/internal/digest"
	"career-agent/internal/jobboard"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "career-agent"
)

type Config struct {
	Search  *jobboard.SearchParams `mapstructure:"search"`
	Cities  []string               `mapstructure:"cities"`
	Profile string                 `mapstructure:"profile"`
	AI      *AIConfig              `mapstructure:"ai"`
	Email   *EmailConfig           `mapstructure:"email"`
	Digest  *DigestConfig          `mapstructure:"digest"`
}

type AIConfig struct {
	MaxJobs      int           `mapstructure:"max-jobs"`
	DelaySeconds int           `mapstructure:"delay-seconds"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	From     string `mapstructure:"from"`
	Password string `mapstructure:"password"`
	To       string `mapstructure:"to"`
}

type DigestConfig struct {
	Headline   string            `mapstructure:"headline"`
	Greeting   string            `mapstructure:"greeting"`
	Keywords   []string          `mapstructure:"keywords"`
	Thresholds digest.Thresholds `mapstructure:"thresholds"`
}

const (
	defaultSearchTerm = "Node.js Developer OR DevOps Engineer OR SRE Intern"
	defaultLocation   = "Delhi, India"
	defaultHoursOld   = 24
	defaultMaxJobs    = 7
	defaultDelay      = 2

	defaultHeadline = "Target: North India | DevOps & Node.js"
	defaultGreeting = "Hi,"

	defaultProfile = `Education: B.Tech CSE.
Certifications: RHCSA (Red Hat Certified System Administrator).
Skills: Node.js, Express, MongoDB, Docker, Kubernetes, Linux, DevOps, C++.`
)

var defaultCities = []string{"Delhi", "Noida", "Gurgaon", "Gurugram", "Jaipur", "Udaipur"}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "career-agent gathers fresh job listings, scores them against your profile and emails a digest",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"ai.gemini.api-key": "GEMINI_API_KEY",
		"email.from":        "SENDER_EMAIL",
		"email.password":    "EMAIL_PASSWORD",
		"email.to":          "RECEIVER_EMAIL",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is career-agent.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	loadConfigFile()
}

func loadConfigFile() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The run works with built-in defaults when there is no config file,
	// but a file that exists and fails to parse stops everything.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	config.applyDefaults()

	return config, nil
}

// applyDefaults fills in everything the nightly job used to hardcode, so the
// agent is useful with nothing but the four environment variables set.
func (c *Config) applyDefaults() {
	if c.Search == nil {
		c.Search = &jobboard.SearchParams{}
	}
	if strings.TrimSpace(c.Search.Term) == "" {
		c.Search.Term = defaultSearchTerm
	}
	if strings.TrimSpace(c.Search.Location) == "" {
		c.Search.Location = defaultLocation
	}
	if c.Search.HoursOld <= 0 {
		c.Search.HoursOld = defaultHoursOld
	}
	if len(c.Search.Sites) == 0 {
		c.Search.Sites = append([]string(nil), jobboard.DefaultSites...)
	}

	if len(c.Cities) == 0 {
		c.Cities = defaultCities
	}
	if strings.TrimSpace(c.Profile) == "" {
		c.Profile = defaultProfile
	}

	if c.AI == nil {
		c.AI = &AIConfig{}
	}
	if c.AI.MaxJobs <= 0 {
		c.AI.MaxJobs = defaultMaxJobs
	}
	if c.AI.DelaySeconds <= 0 {
		c.AI.DelaySeconds = defaultDelay
	}
	if c.AI.Gemini == nil {
		c.AI.Gemini = &GeminiConfig{}
	}

	if c.Email == nil {
		c.Email = &EmailConfig{}
	}

	if c.Digest == nil {
		c.Digest = &DigestConfig{}
	}
	if strings.TrimSpace(c.Digest.Headline) == "" {
		c.Digest.Headline = defaultHeadline
	}
	if strings.TrimSpace(c.Digest.Greeting) == "" {
		c.Digest.Greeting = defaultGreeting
	}
	if len(c.Digest.Keywords) == 0 {
		c.Digest.Keywords = digest.DefaultKeywords
	}
	if c.Digest.Thresholds.High == 0 && c.Digest.Thresholds.Medium == 0 {
		c.Digest.Thresholds = digest.DefaultThresholds
	}
}
