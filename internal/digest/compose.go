package digest

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"career-agent/internal/jobboard"
)

// Thresholds are the score-bucket boundaries for the badge colors.
type Thresholds struct {
	High   int `mapstructure:"high"`
	Medium int `mapstructure:"medium"`
}

// DefaultThresholds match the badge buckets of the email layout.
var DefaultThresholds = Thresholds{High: 85, Medium: 60}

// Composer renders scored listings into a self-contained HTML document.
type Composer struct {
	thresholds Thresholds
	keywords   []string
	headline   string
	greeting   string
}

func NewComposer(thresholds Thresholds, keywords []string, headline, greeting string) *Composer {
	if thresholds.High == 0 && thresholds.Medium == 0 {
		thresholds = DefaultThresholds
	}
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	return &Composer{
		thresholds: thresholds,
		keywords:   keywords,
		headline:   headline,
		greeting:   greeting,
	}
}

type card struct {
	Title      string
	Company    string
	Location   string
	URL        string
	Score      int
	ScoreClass string
	Rationale  template.HTML
	Strategy   string
}

type digestData struct {
	Headline string
	Greeting string
	Count    int
	Cards    []card
}

// SortByScore orders listings by descending AI score. The sort is stable,
// so equal scores keep their input order. Listings without a report sort
// as score zero.
func SortByScore(l *jobboard.Listings) {
	sort.SliceStable(l.Items, func(i, j int) bool {
		return scoreOf(l.Items[i]) > scoreOf(l.Items[j])
	})
}

func scoreOf(li *jobboard.Listing) int {
	if li.AI == nil {
		return 0
	}
	return li.AI.Score
}

// Render produces the digest HTML for the provided listings, which are
// expected to be sorted already.
func (c *Composer) Render(l *jobboard.Listings) (string, error) {
	data := digestData{
		Headline: c.headline,
		Greeting: c.greeting,
		Count:    l.Len(),
	}

	for _, li := range l.Items {
		score := scoreOf(li)
		rationale := ""
		strategy := ""
		if li.AI != nil {
			rationale = li.AI.Rationale
			strategy = li.AI.Strategy
		}

		data.Cards = append(data.Cards, card{
			Title:      li.Title,
			Company:    li.Company,
			Location:   li.Location,
			URL:        li.URL,
			Score:      score,
			ScoreClass: c.scoreClass(score),
			Rationale:  HighlightKeywords(rationale, c.keywords),
			Strategy:   strategy,
		})
	}

	var builder strings.Builder
	if err := digestTemplate.Execute(&builder, data); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}

	return builder.String(), nil
}

func (c *Composer) scoreClass(score int) string {
	switch {
	case score >= c.thresholds.High:
		return "high-score"
	case score >= c.thresholds.Medium:
		return "med-score"
	default:
		return "low-score"
	}
}

// Subject builds the digest email subject line for the given match count.
func Subject(count int, now time.Time) string {
	return fmt.Sprintf("Career Agent: %d New Matches (%s)", count, now.Format("02 Jan"))
}

var digestTemplate = template.Must(template.New("digest").Parse(`<html>
<head>
<style>
  body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f6f8; margin: 0; padding: 0; }
  .container { max-width: 600px; margin: 20px auto; background: #ffffff; padding: 0; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 12px rgba(0,0,0,0.1); }
  .header { background-color: #2c3e50; color: #ffffff; padding: 20px; text-align: center; }
  .header h2 { margin: 0; font-size: 22px; }
  .content { padding: 20px; }
  .job-card { border: 1px solid #e1e4e8; border-radius: 8px; padding: 15px; margin-bottom: 20px; background-color: #fff; }
  .job-title { color: #2c3e50; font-size: 18px; font-weight: bold; margin: 0 0 5px 0; }
  .company { color: #666; font-size: 14px; margin-bottom: 10px; }
  .score-badge { display: inline-block; padding: 4px 8px; border-radius: 12px; font-size: 12px; font-weight: bold; color: white; margin-bottom: 10px; }
  .high-score { background-color: #27ae60; }
  .med-score { background-color: #f39c12; }
  .low-score { background-color: #c0392b; }
  .analysis-box { background-color: #f8f9fa; border-left: 4px solid #007bff; padding: 10px; font-size: 14px; color: #444; margin: 10px 0; }
  .btn { display: block; width: 100%; text-align: center; background-color: #007bff; color: white; padding: 10px 0; text-decoration: none; border-radius: 6px; font-weight: bold; margin-top: 15px; }
  .footer { text-align: center; font-size: 12px; color: #aaa; padding: 20px; background-color: #f4f6f8; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h2>Daily Career Opportunities</h2>
    <p style="margin:5px 0 0 0; font-size:14px; opacity:0.8;">{{.Headline}}</p>
  </div>
  <div class="content">
    <p>{{.Greeting}} Found <strong>{{.Count}}</strong> jobs today matching your profile.</p>
{{- range .Cards}}
    <div class="job-card">
      <div class="score-badge {{.ScoreClass}}">Fit Score: {{.Score}}/100</div>
      <h3 class="job-title">{{.Title}}</h3>
      <div class="company">{{.Company}} &nbsp;|&nbsp; {{.Location}}</div>
      <div class="analysis-box">
        <strong>AI Analysis:</strong> {{.Rationale}}<br><br>
        <strong>Resume Strategy:</strong> Highlight "{{.Strategy}}"
      </div>
      <a href="{{.URL}}" class="btn">Apply Now</a>
    </div>
{{- end}}
    <div class="footer">Automated by career-agent &bull; Gemini AI</div>
  </div>
</div>
</body>
</html>
`))
