package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/blacktop/xsched/xsched"
	"github.com/spf13/cobra"
)

const defaultAltText = "Image attached via xsched"

type postOptions struct {
	message   string
	imagePath string
	imageAlt  string
	accounts  []string
	schedule  string
	timezone  string
	tenantID  string
	draft     bool
	dryRun    bool
}

func newPostCommand() *cobra.Command {
	opts := &postOptions{}
	cmd := &cobra.Command{
		Use:   "post [message]",
		Short: "Create a post and publish, schedule or draft it",
		Long: "Create a post for one or more connected accounts. Provide the message as an argument, " +
			"with --message, or on stdin. Without --schedule or --draft the post is published now.",
		Example: `  xsched post --message "hello world" --image ./shot.png --account acc_1
  xsched post "Launch day" --account all --schedule 2026-11-01T09:00:00Z
  echo "Release shipped" | xsched post --account acc_1 --account acc_2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPost(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.message, "message", "m", "", "Message text to post")
	cmd.Flags().StringVar(&opts.imagePath, "image", "", "Path to an image or video to attach")
	cmd.Flags().StringVar(&opts.imageAlt, "alt-text", "", "Alternative text to describe the image")
	cmd.Flags().StringSliceVar(&opts.accounts, "account", nil, "Account IDs to post to (repeatable, or all)")
	cmd.Flags().StringVar(&opts.schedule, "schedule", "", "Publish time (RFC 3339)")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "", "IANA timezone for the schedule")
	cmd.Flags().StringVar(&opts.tenantID, "tenant", "", "Tenant the post belongs to")
	cmd.Flags().BoolVar(&opts.draft, "draft", false, "Save as draft instead of publishing")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print actions without posting")
	cmd.Flags().SortFlags = false

	return cmd
}

func runPost(cmd *cobra.Command, args []string, opts *postOptions) error {
	ctx := cmd.Context()

	message, err := resolveMessage(cmd, opts.message, args)
	if err != nil {
		return err
	}

	input := xsched.CreatePostInput{
		Content:  message,
		Timezone: strings.TrimSpace(opts.timezone),
		TenantID: strings.TrimSpace(opts.tenantID),
		IsDraft:  opts.draft,
	}
	if opts.schedule != "" {
		at, err := time.Parse(time.RFC3339, opts.schedule)
		if err != nil {
			return fmt.Errorf("parse --schedule: %w", err)
		}
		input.ScheduledFor = &at
	}
	if opts.draft && input.ScheduledFor != nil {
		return errors.New("use either --draft or --schedule, not both")
	}
	input.PublishNow = !opts.draft && input.ScheduledFor == nil

	imageAlt := strings.TrimSpace(opts.imageAlt)
	if imageAlt == "" && opts.imagePath != "" {
		imageAlt = defaultAltText
	}

	if opts.dryRun {
		accounts, err := normalizeAccounts(opts.accounts)
		if err != nil {
			return err
		}
		return describePost(cmd.OutOrStdout(), input, accounts, opts.imagePath, imageAlt)
	}

	client, _, err := loadClient(cmd)
	if err != nil {
		return err
	}

	input.AccountIDs, err = resolveAccounts(ctx, client, opts.accounts, input.TenantID)
	if err != nil {
		return err
	}

	if opts.imagePath != "" {
		item, err := uploadAttachment(ctx, client, opts.imagePath, imageAlt)
		if err != nil {
			return err
		}
		input.MediaItems = append(input.MediaItems, item)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "posting to %d account(s)...\n", len(input.AccountIDs))
	res, err := client.Posts.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), res.Data)
}

func resolveMessage(cmd *cobra.Command, flagValue string, args []string) (string, error) {
	message := flagValue

	if len(args) > 0 {
		if message != "" {
			return "", errors.New("provide the message either as an argument or with --message, not both")
		}
		message = strings.Join(args, " ")
	}

	if message != "" {
		return strings.TrimSpace(message), nil
	}

	stdin := cmd.InOrStdin()
	piped := true
	if file, ok := stdin.(*os.File); ok {
		info, err := file.Stat()
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		piped = (info.Mode() & os.ModeCharDevice) == 0
	}
	if piped {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		message = strings.TrimSpace(string(data))
	}

	if message == "" {
		return "", errors.New("message is required")
	}

	return message, nil
}

// normalizeAccounts trims, deduplicates and sorts account IDs. A single "all"
// returns nil, meaning every active account.
func normalizeAccounts(values []string) ([]string, error) {
	result := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, raw := range values {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.EqualFold(raw, "all") {
			return nil, nil
		}
		if _, ok := seen[raw]; ok {
			continue
		}
		seen[raw] = struct{}{}
		result = append(result, raw)
	}

	if len(result) == 0 {
		return nil, errors.New("no accounts selected (use --account <id> or --account all)")
	}

	sort.Strings(result)
	return result, nil
}

func resolveAccounts(ctx context.Context, client *xsched.Client, values []string, tenantID string) ([]string, error) {
	accounts, err := normalizeAccounts(values)
	if err != nil || accounts != nil {
		return accounts, err
	}

	var ids []string
	params := xsched.ListAccountsParams{TenantID: tenantID, PageParams: xsched.PageParams{Limit: 100}}
	for {
		page, err := client.Accounts.List(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		for _, acc := range page.Data {
			if acc.IsActive {
				ids = append(ids, acc.ID)
			}
		}
		if !page.Pagination.HasMore || len(page.Data) == 0 {
			break
		}
		params.Offset += len(page.Data)
	}

	if len(ids) == 0 {
		return nil, errors.New("no active accounts available")
	}
	sort.Strings(ids)
	return ids, nil
}

func uploadAttachment(ctx context.Context, client *xsched.Client, path, alt string) (xsched.MediaItem, error) {
	uploaded, err := client.Media.UploadFile(ctx, path)
	if err != nil {
		return xsched.MediaItem{}, fmt.Errorf("upload media: %w", err)
	}
	return xsched.MediaItem{Type: xsched.MediaTypeOf(uploaded.ContentType), URL: uploaded.PublicURL, AltText: alt}, nil
}

func describePost(out io.Writer, input xsched.CreatePostInput, accounts []string, imagePath, imageAlt string) error {
	target := "all active accounts"
	if accounts != nil {
		target = strings.Join(accounts, ", ")
	}

	switch {
	case input.IsDraft:
		fmt.Fprintf(out, "[dry-run] would save draft for %s: %q\n", target, input.Content)
	case input.ScheduledFor != nil:
		fmt.Fprintf(out, "[dry-run] would schedule for %s at %s: %q\n", target, input.ScheduledFor.Format(time.RFC3339), input.Content)
	default:
		fmt.Fprintf(out, "[dry-run] would publish to %s: %q\n", target, input.Content)
	}
	if imagePath != "" {
		fmt.Fprintf(out, "[dry-run] image: %s (alt: %q)\n", imagePath, imageAlt)
	}
	return nil
}
