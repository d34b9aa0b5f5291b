package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"career-agent/internal/ai"
	"career-agent/internal/ai/gemini"
	"career-agent/internal/digest"
	"career-agent/internal/filtering"
	"career-agent/internal/jobboard"
	"career-agent/internal/logger"
	"career-agent/internal/secrets"
	"career-agent/internal/utils"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes            = "Yes"
	PromptNo             = "No"
	PromptReportBySite   = "Report by site"
	PromptListingsToFile = "Dump listings to file"
	PromptDigestToFile   = "Dump digest to file"

	unscoredRationale = "Analysis unavailable"
	unscoredStrategy  = "N/A"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Send the digest?",
	Items: []string{PromptYes, PromptNo, PromptReportBySite, PromptListingsToFile, PromptDigestToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the career-agent main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("dry-run", "n", false, "compose the digest and write it to a file instead of sending it")
	runCmd.Flags().BoolP("interactive", "i", false, "ask for confirmation before sending the digest")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the career-agent", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	logger.Info("starting the search",
		zap.String("term", config.Search.Term),
		zap.Strings("sites", config.Search.Sites),
	)

	listings, err := getListings(ctx, config, logger)
	if err != nil {
		logger.Fatal("getting available listings", zap.Error(err))
	}

	if listings.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	process(ctx, cmd, config, listings, logger)
}

// process runs the collected listings through filtering, scoring and digest
// delivery. Zero listings left after any stage end the run without an email.
func process(ctx context.Context, cmd *cobra.Command, config *Config, listings *jobboard.Listings, logger *zap.Logger) {
	filters := filtering.New([]filtering.Filter{
		filtering.NewLocation(config.Cities),
		filtering.NewDedupe(),
	}, logger)

	filtered, err := filters.RunFilters(ctx, listings)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}
	listings = filtered

	if listings.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no listings left after filters"))
		return
	}

	listings.Cap(config.AI.MaxJobs)

	scoreListings(ctx, config, listings, logger)

	digest.SortByScore(listings)

	composer := digest.NewComposer(
		config.Digest.Thresholds,
		config.Digest.Keywords,
		config.Digest.Headline,
		config.Digest.Greeting,
	)

	html, err := composer.Render(listings)
	if err != nil {
		logger.Fatal("composing digest", zap.Error(err))
	}

	subject := digest.Subject(listings.Len(), time.Now())

	if cmd.Flag("dry-run").Value.String() == "true" {
		filename, err := dumpDigest(html)
		if err != nil {
			logger.Fatal("dumping digest", zap.Error(err))
		}
		logger.Info("dry run, digest written to file", zap.String("filename", filename))
		return
	}

	action := PromptYes
	for {
		var err error
		if cmd.Flag("interactive").Value.String() == "true" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		if err := handleAction(action, config, logger, listings, subject, html); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, config *Config, logger *zap.Logger, listings *jobboard.Listings, subject, html string) error {
	switch action {
	case PromptYes:
		sendDigest(config, logger, subject, html)
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportBySite:
		pretty, _ := json.MarshalIndent(listings.ReportBySite(), "", "  ")
		logger.Info(string(pretty), zap.Int("listings count", listings.Len()))
		return nil
	case PromptListingsToFile:
		filename, err := listings.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump listings to file: %w", err)
		}
		logger.Info("dumping listings to file", zap.String("filename", filename))
		return nil
	case PromptDigestToFile:
		filename, err := dumpDigest(html)
		if err != nil {
			return fmt.Errorf("dump digest to file: %w", err)
		}
		logger.Info("dumping digest to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// sendDigest delivers the digest over SMTP. A delivery failure is logged but
// never fails the run, the next scheduled run will pick the listings up again.
// Swappable for tests.
var sendDigest = func(config *Config, logger *zap.Logger, subject, html string) {
	from := firstNonEmpty(config.Email.From, viper.GetString("email.from"))
	password := firstNonEmpty(config.Email.Password, viper.GetString("email.password"))
	to := firstNonEmpty(config.Email.To, viper.GetString("email.to"))

	mailer := digest.NewMailer(config.Email.Host, config.Email.Port, from, password, to, logger)

	if err := mailer.Send(subject, html); err != nil {
		logger.Error("sending digest",
			zap.Error(err),
			zap.String("hint", "set SENDER_EMAIL, EMAIL_PASSWORD and RECEIVER_EMAIL or the email section in the configuration file"),
		)
		return
	}
}

// getListings returns the listings from all configured job boards.
func getListings(ctx context.Context, config *Config, logger *zap.Logger) (*jobboard.Listings, error) {
	boards := jobboard.New(ctx, logger)

	results, err := boards.Search(config.Search)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	logger.Info("getting listings", zap.Int("count", results.Len()))
	return results, nil
}

// scoreListings attaches a fit report to every listing. When the scorer
// cannot be built or an evaluation fails the listing gets a sentinel report
// and the run continues unscored rather than aborting.
func scoreListings(ctx context.Context, config *Config, listings *jobboard.Listings, logger *zap.Logger) {
	scorer, model, err := newScorer(ctx, config, logger)
	if err != nil {
		logger.Warn("scoring disabled",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the ai.gemini section in the configuration file"),
		)
		markUnscored(listings, err)
		return
	}

	logger.Info("scoring listings", zap.Int("count", listings.Len()), zap.String("model", model))

	delay := time.Duration(config.AI.DelaySeconds) * time.Second
	for i, li := range listings.Items {
		if i > 0 {
			if err := utils.WaitFor(ctx, delay); err != nil {
				logger.Warn("scoring interrupted", zap.Error(err))
				markUnscored(&jobboard.Listings{Items: listings.Items[i:]}, err)
				return
			}
		}

		report, err := scorer.Evaluate(ctx, li)
		if err != nil {
			logger.Warn("evaluating listing", zap.String("title", li.Title), zap.Error(err))
			li.AI = unscoredReport(err)
			continue
		}

		li.AI = &jobboard.FitReport{
			Score:     report.Score,
			Rationale: report.Rationale,
			Strategy:  report.Strategy,
			Raw:       report.Raw,
		}

		logger.Info("scored listing",
			zap.String("title", li.Title),
			zap.String("company", li.Company),
			zap.Int("score", report.Score),
		)
	}
}

func newScorer(ctx context.Context, config *Config, logger *zap.Logger) (ai.Scorer, string, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.AI.Gemini.APIKey,
		File:  config.AI.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, "", err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model)
	if err != nil {
		return nil, "", err
	}

	scorerLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewScorer(generator, config.Profile, config.AI.MaxLogLength, scorerLogger), generator.Model(), nil
}

func markUnscored(listings *jobboard.Listings, cause error) {
	for _, li := range listings.Items {
		if li.AI == nil {
			li.AI = unscoredReport(cause)
		}
	}
}

func unscoredReport(cause error) *jobboard.FitReport {
	report := &jobboard.FitReport{
		Score:     0,
		Rationale: unscoredRationale,
		Strategy:  unscoredStrategy,
	}
	if cause != nil {
		report.Error = cause.Error()
	}
	return report
}

func dumpDigest(html string) (string, error) {
	file, err := os.CreateTemp("", "digest_*.html")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.WriteString(html); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
