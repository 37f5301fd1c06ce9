package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/blacktop/xsched/internal/logutil"
	"github.com/blacktop/xsched/internal/preflight/bluesky"
	"github.com/blacktop/xsched/internal/preflight/mastodon"
	"github.com/blacktop/xsched/xsched"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newTenantsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "Manage tenants and their connected accounts",
	}

	var page xsched.PageParams
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tenants",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Tenants.List(cmd.Context(), page)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	addPageFlags(listCmd, &page)

	getCmd := &cobra.Command{
		Use:   "get <tenant-id>",
		Short: "Show a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Tenants.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}

	var create xsched.CreateTenantInput
	var metadata map[string]string
	createCmd := &cobra.Command{
		Use:   "create <external-id>",
		Short: "Create a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			create.ExternalID = args[0]
			create.Metadata = metadata
			res, err := client.Tenants.Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}
	createCmd.Flags().StringVar(&create.Name, "name", "", "Display name")
	createCmd.Flags().StringVar(&create.Email, "email", "", "Contact email")
	createCmd.Flags().StringToStringVar(&metadata, "meta", nil, "Metadata key=value pairs")

	var name, email string
	var updateMeta map[string]string
	updateCmd := &cobra.Command{
		Use:   "update <tenant-id>",
		Short: "Update tenant contact details",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			var input xsched.UpdateTenantInput
			if cmd.Flags().Changed("name") {
				input.Name = &name
			}
			if cmd.Flags().Changed("email") {
				input.Email = &email
			}
			input.Metadata = updateMeta
			res, err := client.Tenants.Update(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}
	updateCmd.Flags().StringVar(&name, "name", "", "Display name")
	updateCmd.Flags().StringVar(&email, "email", "", "Contact email")
	updateCmd.Flags().StringToStringVar(&updateMeta, "meta", nil, "Metadata key=value pairs")

	deleteCmd := &cobra.Command{
		Use:   "delete <tenant-id>",
		Short: "Delete a tenant and its connected accounts",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Tenants.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}

	var connect xsched.ConnectURLParams
	connectURLCmd := &cobra.Command{
		Use:   "connect-url <tenant-id>",
		Short: "Get an OAuth link for the tenant to connect an account",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			if connect.Platform == "" {
				return errors.New("--platform is required")
			}
			res, err := client.Tenants.GetConnectURL(cmd.Context(), args[0], connect)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}
	connectURLCmd.Flags().StringVar(&connect.Platform, "platform", "", "Platform to connect")
	connectURLCmd.Flags().StringVar(&connect.RedirectURL, "redirect-url", "", "Where to send the tenant afterwards")

	accountsCmd := &cobra.Command{
		Use:   "accounts <tenant-id>",
		Short: "List the accounts a tenant has connected",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Tenants.ListAccounts(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		}),
	}

	disconnectCmd := &cobra.Command{
		Use:   "disconnect <tenant-id> <account-id>",
		Short: "Disconnect one of a tenant's accounts",
		Args:  cobra.ExactArgs(2),
		RunE: withClient(func(cmd *cobra.Command, args []string, client *xsched.Client) error {
			res, err := client.Tenants.DisconnectAccount(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}

	cmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd, connectURLCmd, accountsCmd, disconnectCmd,
		newConnectBlueskyCommand(), newConnectMastodonCommand())
	return cmd
}

func newConnectBlueskyCommand() *cobra.Command {
	var handle, appPassword string
	var skipVerify bool

	cmd := &cobra.Command{
		Use:   "connect-bluesky <tenant-id>",
		Short: "Connect a Bluesky account with an app password",
		Long: "Connect a Bluesky account to a tenant. The app password is checked against the " +
			"PDS first unless --skip-verify is given. Omit --app-password to be prompted.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := loadClient(cmd)
			if err != nil {
				return err
			}
			if appPassword == "" {
				if appPassword, err = promptSecret(cmd, "Bluesky app password: "); err != nil {
					return err
				}
			}

			if !skipVerify {
				id, err := bluesky.Verify(cmd.Context(), bluesky.Config{PDSURL: cfg.BlueskyPDSURL}, handle, appPassword)
				if err != nil {
					return err
				}
				logutil.Infof("verified bluesky account %s (%s)", id.Handle, id.DID)
				handle = id.Handle
			} else {
				logutil.Warnf("skipping bluesky credential check for %s", handle)
			}

			res, err := client.Tenants.ConnectBluesky(cmd.Context(), args[0], xsched.ConnectBlueskyInput{
				Handle:      strings.TrimPrefix(strings.TrimSpace(handle), "@"),
				AppPassword: appPassword,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		},
	}
	cmd.Flags().StringVar(&handle, "handle", "", "Bluesky handle, e.g. alice.bsky.social")
	cmd.Flags().StringVar(&appPassword, "app-password", "", "Bluesky app password")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Do not check the credentials before connecting")
	_ = cmd.MarkFlagRequired("handle")

	return cmd
}

func newConnectMastodonCommand() *cobra.Command {
	var instance, accessToken string
	var skipVerify bool

	cmd := &cobra.Command{
		Use:   "connect-mastodon <tenant-id>",
		Short: "Connect a Mastodon account with an access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := loadClient(cmd)
			if err != nil {
				return err
			}
			server, err := mastodon.NormalizeInstanceURL(instance)
			if err != nil {
				return err
			}
			if accessToken == "" {
				if accessToken, err = promptSecret(cmd, "Mastodon access token: "); err != nil {
					return err
				}
			}

			if !skipVerify {
				id, err := mastodon.Verify(cmd.Context(), server, accessToken)
				if err != nil {
					return err
				}
				logutil.Infof("verified mastodon account @%s on %s", id.Acct, id.Server)
			} else {
				logutil.Warnf("skipping mastodon credential check for %s", server)
			}

			res, err := client.Tenants.ConnectMastodon(cmd.Context(), args[0], xsched.ConnectMastodonInput{
				InstanceURL: server,
				AccessToken: accessToken,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		},
	}
	cmd.Flags().StringVar(&instance, "instance", "", "Mastodon instance, e.g. mastodon.social")
	cmd.Flags().StringVar(&accessToken, "access-token", "", "User access token")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Do not check the credentials before connecting")
	_ = cmd.MarkFlagRequired("instance")

	return cmd
}

// promptSecret reads a secret from the terminal without echo.
func promptSecret(cmd *cobra.Command, prompt string) (string, error) {
	file, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return "", errors.New("secret not provided and stdin is not a terminal")
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	secret, err := term.ReadPassword(int(file.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}
