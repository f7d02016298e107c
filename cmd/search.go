package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tubelens/tubelens/pkg/client"
	"github.com/tubelens/tubelens/pkg/config"
	"github.com/tubelens/tubelens/pkg/log"
	"github.com/tubelens/tubelens/pkg/match"
	"github.com/tubelens/tubelens/pkg/session"
	"github.com/urfave/cli/v3"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	blockStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1).
			Margin(0, 0, 1, 2)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("32")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	highlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search YouTube videos mentioning a keyword",
		ArgsUsage: "KEYWORD",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "Base URL of a running tubelens API server (overrides config)",
			},
			&cli.StringFlag{
				Name:  "min-date",
				Usage: "Only videos published on or after this date (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "max-date",
				Usage: "Only videos published on or before this date (YYYY-MM-DD)",
			},
			&cli.IntFlag{
				Name:  "min-views",
				Usage: "Only videos with at least this many views",
			},
			&cli.StringFlag{
				Name:  "channel",
				Usage: "Only videos whose channel title contains this text",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Results per page (1-50, 0 uses the server default)",
			},
			&cli.IntFlag{
				Name:  "pages",
				Usage: "Number of pages to fetch",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "no-pager",
				Usage: "Disable pager and output directly to terminal",
				Value: false,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}
			keyword := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if keyword == "" {
				return fmt.Errorf("usage: tubelens search KEYWORD")
			}
			filters := session.Filters{
				MinDate:     c.String("min-date"),
				MaxDate:     c.String("max-date"),
				MinViews:    int64(c.Int("min-views")),
				ChannelName: c.String("channel"),
			}
			return runSearch(ctx, c.String("config"), c.String("api-url"), keyword, filters,
				c.Int("limit"), c.Int("pages"), c.Bool("no-pager"))
		},
	}
}

// runSearch drives a search session against the API server and renders the
// accumulated results.
func runSearch(ctx context.Context, configPath, apiURL, keyword string, filters session.Filters, limit, pages int, noPager bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if apiURL == "" {
		apiURL = cfg.Client.APIURL
	}

	apiClient := client.New(apiURL)
	if limit > 0 {
		apiClient.PageSize = limit
	}

	controller := session.NewController(apiClient)

	state := controller.StartSearch(ctx, keyword, filters)
	for page := 1; page < pages && state.CanLoadMore(); page++ {
		state = controller.LoadMore(ctx)
	}

	output := formatSearchOutput(state)

	if noPager || !isTerminal() {
		fmt.Print(output)
		return nil
	}
	return displayWithPager(output)
}

// formatSearchOutput renders a session state as styled terminal output.
func formatSearchOutput(state session.State) string {
	var output strings.Builder

	title := fmt.Sprintf("tubelens - %q", state.Keyword)
	output.WriteString(titleStyle.Render(title))
	output.WriteString("\n")

	if state.Err != "" {
		output.WriteString(errorStyle.Render(state.Err))
		output.WriteString("\n")
		if len(state.Results) == 0 {
			return output.String()
		}
	}

	if len(state.Results) == 0 {
		output.WriteString(noDataStyle.Render("No videos found."))
		output.WriteString("\n")
		return output.String()
	}

	summary := fmt.Sprintf("%d of %d videos", len(state.Results), state.TotalResults)
	if state.NextPageToken != "" {
		summary += " (more available, use --pages)"
	}
	output.WriteString(summaryStyle.Render(summary))
	output.WriteString("\n")

	for i, video := range state.Results {
		output.WriteString(formatVideo(video, state.Keyword, i+1))
		output.WriteString("\n")
	}

	return output.String()
}

// formatVideo formats a single video result for display.
func formatVideo(video session.Video, keyword string, index int) string {
	var content strings.Builder

	header := fmt.Sprintf("#%d - %s", index, renderHighlighted(video.Title, keyword))
	content.WriteString(header)
	content.WriteString("\n\n")

	if label := match.Label(video.MatchType); label != "" {
		content.WriteString("Found in: " + label)
		content.WriteString("\n")
	}

	if video.Description != "" {
		content.WriteString(renderHighlighted(match.Truncate(video.Description, 200), keyword))
		content.WriteString("\n")
	}

	for _, snippet := range video.TranscriptMatches {
		content.WriteString("  " + renderHighlighted(snippet, keyword))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(urlStyle.Render("https://www.youtube.com/watch?v=" + video.ID))
	content.WriteString("\n")

	meta := fmt.Sprintf("%s | %s views | %s",
		video.ChannelTitle,
		match.FormatViewCount(video.ViewCount),
		match.FormatDate(video.PublishedAt))
	content.WriteString(metaStyle.Render(meta))

	return blockStyle.Render(content.String())
}

// renderHighlighted styles the keyword occurrences inside text.
func renderHighlighted(text, keyword string) string {
	var out strings.Builder
	for _, segment := range match.Highlight(text, keyword) {
		if segment.Highlighted {
			out.WriteString(highlightStyle.Render(segment.Text))
		} else {
			out.WriteString(segment.Text)
		}
	}
	return out.String()
}

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// displayWithPager displays content using a pager
func displayWithPager(content string) error {
	pagerCmd := os.Getenv("PAGER")
	if pagerCmd == "" {
		pagers := []string{"less", "more", "cat"}
		for _, pager := range pagers {
			if _, err := exec.LookPath(pager); err == nil {
				pagerCmd = pager
				break
			}
		}
	}

	if pagerCmd == "" {
		fmt.Print(content)
		return nil
	}

	args := []string{}
	if strings.Contains(pagerCmd, "less") {
		args = []string{"-R", "-S", "-F", "-X"}
	}

	cmd := exec.Command(pagerCmd, args...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
