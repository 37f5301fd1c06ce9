/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/blacktop/xsched/internal/config"
	"github.com/blacktop/xsched/internal/logutil"
	"github.com/blacktop/xsched/xsched"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	apiKeyFlag  string
	baseURLFlag string
	timeoutFlag time.Duration
	verboseFlag bool
)

// Execute runs the root command. Cancelling ctx aborts in-flight API calls.
func Execute(ctx context.Context) error {
	return newRootCommand().ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xsched",
		Short: "Schedule and publish social media posts",
		Long: "xsched talks to the xsched scheduling API: create and publish posts, manage " +
			"connected accounts, queue slots, webhooks and tenants.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logutil.SetVerbose(verboseFlag)
		},
		Example: `  xsched post "Ship it!" --account acc_123
  xsched posts list --status scheduled --limit 20
  xsched queue set --profile prof_1 --timezone Europe/Berlin --slot 1@09:00 --slot 3@17:30
  XSCHED_API_KEY=sk_live_... xsched usage`,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default ./config.yaml or ~/.config/xsched/config.yaml)")
	pf.StringVar(&apiKeyFlag, "api-key", "", "API key (env XSCHED_API_KEY)")
	pf.StringVar(&baseURLFlag, "base-url", "", "API base URL (env XSCHED_BASE_URL)")
	pf.DurationVar(&timeoutFlag, "timeout", 0, "Per-request timeout, e.g. 30s (env XSCHED_TIMEOUT)")
	pf.BoolVarP(&verboseFlag, "verbose", "V", false, "Enable debug logging")

	cmd.AddCommand(
		newPostCommand(),
		newPostsCommand(),
		newAccountsCommand(),
		newAnalyticsCommand(),
		newMediaCommand(),
		newUsageCommand(),
		newQueueCommand(),
		newWebhooksCommand(),
		newTenantsCommand(),
		newCompletionCommand(),
	)

	return cmd
}

// loadClient resolves configuration for cmd and builds an API client.
func loadClient(cmd *cobra.Command) (*xsched.Client, *config.Config, error) {
	cfg, err := config.Load(cmd.Flags(), cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Verbose {
		logutil.SetVerbose(true)
	}
	client, err := cfg.Client()
	if err != nil {
		return nil, nil, err
	}
	logutil.Debugf("using api: base_url=%s timeout=%s", client.BaseURL(), client.Timeout())
	return client, cfg, nil
}

// withClient adapts a handler that needs an API client into a cobra RunE.
func withClient(fn func(cmd *cobra.Command, args []string, client *xsched.Client) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		client, _, err := loadClient(cmd)
		if err != nil {
			return err
		}
		return fn(cmd, args, client)
	}
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
