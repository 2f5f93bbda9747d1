package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	// Global flags
	serverURL string
	timeout   int

	// Ask command flags
	subredditID  int64
	extraContext string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "companionctl",
	Short:   "Query the forum assistant from the command line",
	Version: version,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a question",
	Long: `Ask the assistant a question about the forum's content.

Examples:
  # Ask across all communities
  companionctl ask "what are the best posts about golang?"

  # Scope to one community
  companionctl ask --subreddit 42 "what happened here recently?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [post-id]",
	Short: "Summarize a post and its top comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

var faqCmd = &cobra.Command{
	Use:   "faq [subreddit-id]",
	Short: "Generate an FAQ for a community from its recent posts",
	Args:  cobra.ExactArgs(1),
	RunE:  runFAQ,
}

var trendingCmd = &cobra.Command{
	Use:   "trending [subreddit-id]",
	Short: "Show trending topics in a community's recent posts",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrending,
}

func init() {
	cobra.OnInitialize(func() { _ = godotenv.Load() })

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "assistant server URL (defaults to $COMPANION_URL or http://localhost:9020)")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 90, "request timeout in seconds")

	askCmd.Flags().Int64Var(&subredditID, "subreddit", 0, "restrict retrieval to one community")
	askCmd.Flags().StringVar(&extraContext, "context", "", "additional context passed to the assistant")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(faqCmd)
	rootCmd.AddCommand(trendingCmd)
}

func baseURL() string {
	if serverURL != "" {
		return strings.TrimRight(serverURL, "/")
	}
	if env := os.Getenv("COMPANION_URL"); env != "" {
		return strings.TrimRight(env, "/")
	}
	return "http://localhost:9020"
}

func runAsk(cmd *cobra.Command, args []string) error {
	payload := map[string]interface{}{
		"query": strings.Join(args, " "),
	}
	if subredditID > 0 {
		payload["subreddit_id"] = subredditID
	}
	if extraContext != "" {
		payload["extra_context"] = extraContext
	}

	return post("/v1/assistant/answer", payload)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	postID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid post id %q", args[0])
	}

	return post(fmt.Sprintf("/v1/posts/%d/summary", postID), map[string]interface{}{})
}

func runFAQ(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid subreddit id %q", args[0])
	}

	return get(fmt.Sprintf("/v1/subreddits/%d/faq", id))
}

func runTrending(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid subreddit id %q", args[0])
	}

	return get(fmt.Sprintf("/v1/subreddits/%d/trending", id))
}

func post(path string, payload map[string]interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	client := &http.Client{Timeout: time.Duration(timeout) * time.Second}
	resp, err := client.Post(baseURL()+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func get(path string) error {
	client := &http.Client{Timeout: time.Duration(timeout) * time.Second}
	resp, err := client.Get(baseURL() + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
