package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"telechan-backend/lib/restyutil"
	"telechan-backend/lib/scrapers/telegram"
	"telechan-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scrapeLimit *int
var scrapeJson *bool

func init() {
	scrapeLimit = scrapeCmd.Flags().Int("limit", telegram.PostsLimit, "Maximum number of posts to walk back through.")
	scrapeJson = scrapeCmd.Flags().Bool("json", false, "Print the raw report as JSON instead of a table.")
	rootCmd.AddCommand(scrapeCmd)
}

func orDash(value *string) string {
	if value == nil {
		return "-"
	}
	return *value
}

func orDashInt(value *int) string {
	if value == nil {
		return "-"
	}
	return strconv.Itoa(*value)
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <username>",
	Short: "Scrapes a public channel's preview pages and prints its meta, aggregates and posts.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]

		telegram.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/telegram"))
		scraper := telegram.NewScraper(
			telegram.NewClient(telegram.ClientOptions{}),
			telegram.ScraperOptions{PostLimit: *scrapeLimit},
		)

		t1 := time.Now()
		meta, posts, err := scraper.ScrapeChannel(cmd.Context(), username)
		if err != nil {
			serviceutil.Fatal("failed to scrape channel", err)
		}
		t2 := time.Now()

		if *scrapeJson {
			out, err := json.MarshalIndent(map[string]any{
				"meta":  meta,
				"posts": posts,
			}, "", "  ")
			if err != nil {
				serviceutil.Fatal("failed to marshal report", err)
			}
			fmt.Println(string(out))
			return
		}

		fmt.Printf("channel:     @%s\n", meta.Username)
		fmt.Printf("name:        %s\n", orDash(meta.Name))
		fmt.Printf("description: %s\n", orDash(meta.Description))
		fmt.Printf("subscribers: %s\n", orDashInt(meta.Subscribers))
		fmt.Printf(
			"aggregates:  posts/day=%s views/post=%s comments/post=%s reactions/post=%s\n",
			orDashInt(meta.AvgPostsPerDay),
			orDashInt(meta.AvgViewsPerPost),
			orDashInt(meta.AvgCommentsPerPost),
			orDashInt(meta.AvgReactionsPerPost),
		)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Timestamp", "Views", "Comments", "Reactions", "Text"})
		for _, post := range posts {
			text := ""
			if post.Text != nil {
				text = truncate(*post.Text, 60)
			}
			t.AppendRow(table.Row{
				orDash(post.Timestamp),
				orDashInt(post.ViewsCount),
				orDashInt(post.CommentsCount),
				post.ReactionsCount,
				text,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()

		fmt.Printf("scraped %d posts in %.2fs\n", len(posts), t2.Sub(t1).Seconds())
	},
}
