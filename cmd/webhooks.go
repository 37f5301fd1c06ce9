package cmd

import (
	"fmt"

	"github.com/blacktop/xsched/xsched"
	"github.com/spf13/cobra"
)

func newWebhooksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhooks",
		Short: "Manage event webhooks",
	}

	var page xsched.PageParams
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List webhooks",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Webhooks.List(cmd.Context(), page)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	addPageFlags(listCmd, &page)

	getCmd := &cobra.Command{
		Use:   "get <webhook-id>",
		Short: "Show a webhook and its delivery stats",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Webhooks.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}

	var create xsched.CreateWebhookInput
	var maxRetries, timeoutSeconds int
	createCmd := &cobra.Command{
		Use:     "create",
		Short:   "Register a webhook",
		Example: `  xsched webhooks create --url https://example.com/hooks/xsched --event post.published --event post.failed`,
		Args:    cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			if create.URL == "" || len(create.Events) == 0 {
				return fmt.Errorf("--url and at least one --event are required")
			}
			if cmd.Flags().Changed("max-retries") {
				create.MaxRetries = &maxRetries
			}
			if cmd.Flags().Changed("timeout-seconds") {
				create.TimeoutSeconds = &timeoutSeconds
			}
			res, err := client.Webhooks.Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}
	createCmd.Flags().StringVar(&create.URL, "url", "", "Target URL")
	createCmd.Flags().StringSliceVar(&create.Events, "event", nil, "Event name to subscribe to (repeatable)")
	createCmd.Flags().IntVar(&maxRetries, "max-retries", 0, "Delivery retries")
	createCmd.Flags().IntVar(&timeoutSeconds, "timeout-seconds", 0, "Delivery timeout in seconds")

	var enable, disable bool
	var newURL string
	var newEvents []string
	updateCmd := &cobra.Command{
		Use:   "update <webhook-id>",
		Short: "Change the URL, events or state of a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			var input xsched.UpdateWebhookInput
			if newURL != "" {
				input.URL = &newURL
			}
			input.Events = newEvents
			switch {
			case enable && disable:
				return fmt.Errorf("use either --enable or --disable")
			case enable, disable:
				active := enable
				input.Active = &active
			}
			res, err := client.Webhooks.Update(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}
	updateCmd.Flags().StringVar(&newURL, "url", "", "New target URL")
	updateCmd.Flags().StringSliceVar(&newEvents, "event", nil, "Replace subscribed events (repeatable)")
	updateCmd.Flags().BoolVar(&enable, "enable", false, "Activate the webhook")
	updateCmd.Flags().BoolVar(&disable, "disable", false, "Deactivate the webhook")

	deleteCmd := &cobra.Command{
		Use:   "delete <webhook-id>",
		Short: "Delete a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Webhooks.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}

	rotateCmd := &cobra.Command{
		Use:   "rotate-secret <webhook-id>",
		Short: "Issue a new signing secret",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Webhooks.RotateSecret(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}

	testCmd := &cobra.Command{
		Use:   "test <webhook-id>",
		Short: "Send a test event",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Webhooks.Test(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}

	var events xsched.WebhookEventsParams
	eventsCmd := &cobra.Command{
		Use:   "events <webhook-id>",
		Short: "Show the delivery log of a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Webhooks.GetEvents(cmd.Context(), args[0], events)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	addPageFlags(eventsCmd, &events.PageParams)
	eventsCmd.Flags().StringVar(&events.Status, "status", "", "Filter by delivery status")

	typesCmd := &cobra.Command{
		Use:   "event-types",
		Short: "List the events a webhook can subscribe to",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Webhooks.GetEventTypes(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}

	cmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd, rotateCmd, testCmd, eventsCmd, typesCmd)
	return cmd
}
