package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/blacktop/xsched/xsched"
	"github.com/spf13/cobra"
)

func addPageFlags(cmd *cobra.Command, p *xsched.PageParams) {
	cmd.Flags().IntVar(&p.Limit, "limit", 0, "Maximum number of results")
	cmd.Flags().IntVar(&p.Offset, "offset", 0, "Number of results to skip")
}

func newPostsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List and manage posts",
	}

	var list xsched.ListPostsParams
	var status string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List posts",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			if status != "" {
				s, err := parseStatus(status)
				if err != nil {
					return err
				}
				list.Status = s
			}
			res, err := client.Posts.List(cmd.Context(), list)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	addPageFlags(listCmd, &list.PageParams)
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status (draft, scheduled, publishing, published, failed)")
	listCmd.Flags().StringVar(&list.Platform, "platform", "", "Filter by platform")
	listCmd.Flags().StringVar(&list.AccountID, "account", "", "Filter by account ID")
	listCmd.Flags().StringVar(&list.TenantID, "tenant", "", "Filter by tenant ID")

	getCmd := &cobra.Command{
		Use:   "get <post-id>",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Posts.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}

	var content string
	updateCmd := &cobra.Command{
		Use:   "update <post-id>",
		Short: "Change the content of a post",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			if strings.TrimSpace(content) == "" {
				return fmt.Errorf("--content is required")
			}
			res, err := client.Posts.Update(cmd.Context(), args[0], xsched.UpdatePostInput{Content: &content})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}
	updateCmd.Flags().StringVar(&content, "content", "", "New post content")

	deleteCmd := &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Posts.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}

	publishCmd := &cobra.Command{
		Use:   "publish <post-id>",
		Short: "Publish a draft or scheduled post now",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Posts.Publish(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}

	cmd.AddCommand(listCmd, getCmd, updateCmd, deleteCmd, publishCmd)
	return cmd
}

func parseStatus(s string) (xsched.PostStatus, error) {
	status := xsched.PostStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case xsched.PostStatusDraft, xsched.PostStatusScheduled, xsched.PostStatusPublishing,
		xsched.PostStatusPublished, xsched.PostStatusFailed:
		return status, nil
	}
	return "", fmt.Errorf("unsupported status %q", s)
}

func newAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect connected accounts",
	}

	var list xsched.ListAccountsParams
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List connected accounts",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Accounts.List(cmd.Context(), list)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	addPageFlags(listCmd, &list.PageParams)
	listCmd.Flags().StringVar(&list.Platform, "platform", "", "Filter by platform")
	listCmd.Flags().StringVar(&list.TenantID, "tenant", "", "Filter by tenant ID")

	getCmd := &cobra.Command{
		Use:   "get <account-id>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Accounts.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}

	boardsCmd := &cobra.Command{
		Use:   "boards <account-id>",
		Short: "List the boards of an account",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Accounts.GetPlatformBoards(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}

	cmd.AddCommand(listCmd, getCmd, boardsCmd)
	return cmd
}

type rangeFlags struct {
	from     string
	to       string
	platform string
}

func (r *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.from, "from", "", "Start of range (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&r.to, "to", "", "End of range (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&r.platform, "platform", "", "Filter by platform")
}

func (r *rangeFlags) params() (xsched.AnalyticsParams, error) {
	from, err := parseDate(r.from)
	if err != nil {
		return xsched.AnalyticsParams{}, fmt.Errorf("parse --from: %w", err)
	}
	to, err := parseDate(r.to)
	if err != nil {
		return xsched.AnalyticsParams{}, fmt.Errorf("parse --to: %w", err)
	}
	if from != nil && to != nil && to.Before(*from) {
		return xsched.AnalyticsParams{}, fmt.Errorf("--to is before --from")
	}
	return xsched.AnalyticsParams{From: from, To: to, Platform: r.platform}, nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}

func newAnalyticsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Engagement analytics",
	}

	var overviewRange rangeFlags
	overviewCmd := &cobra.Command{
		Use:   "overview",
		Short: "Aggregate analytics across all accounts",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			params, err := overviewRange.params()
			if err != nil {
				return err
			}
			res, err := client.Analytics.Overview(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}
	overviewRange.register(overviewCmd)

	var accountRange rangeFlags
	accountCmd := &cobra.Command{
		Use:   "account <account-id>",
		Short: "Analytics of a single account",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			params, err := accountRange.params()
			if err != nil {
				return err
			}
			res, err := client.Analytics.Account(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}
	accountRange.register(accountCmd)

	var listRange rangeFlags
	var list xsched.ListAnalyticsParams
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Per-post analytics",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			params, err := listRange.params()
			if err != nil {
				return err
			}
			list.AnalyticsParams = params
			res, err := client.Analytics.List(cmd.Context(), list)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	listRange.register(listCmd)
	addPageFlags(listCmd, &list.PageParams)
	listCmd.Flags().StringVar(&list.AccountID, "account", "", "Filter by account ID")

	cmd.AddCommand(overviewCmd, accountCmd, listCmd)
	return cmd
}

func newMediaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Upload media for use in posts",
	}

	uploadCmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file and print its public URL",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			uploaded, err := client.Media.UploadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), uploaded.PublicURL)
			return nil
		}),
	}

	cmd.AddCommand(uploadCmd)
	return cmd
}

func newUsageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show plan usage for the current billing period",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Usage.Get(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}
}
