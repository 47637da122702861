// Command rosterctl calls the roster API from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roster/roster/internal/client"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

type options struct {
	baseURL string
	out     string
	timeout time.Duration
}

func (o *options) client() *client.Client {
	return client.New(o.baseURL, client.WithHTTPClient(&http.Client{Timeout: o.timeout}))
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{
		baseURL: envOr("ROSTER_API_URL", "http://localhost:4000"),
		out:     envOr("ROSTER_OUT", "text"),
		timeout: 30 * time.Second,
	}

	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Command line client for the roster API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.out != "text" && opts.out != "json" {
				return fmt.Errorf("--out must be text or json, got %q", opts.out)
			}
			return nil
		},
	}
	root.SetOut(stdout)

	root.PersistentFlags().StringVar(&opts.baseURL, "api-url", opts.baseURL, "Base URL of the API (env ROSTER_API_URL)")
	root.PersistentFlags().StringVar(&opts.out, "out", opts.out, "Output format: text|json (env ROSTER_OUT)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", opts.timeout, "Request timeout")

	root.AddCommand(newHealthCmd(opts))
	root.AddCommand(newUsersCmd(opts))

	return root
}

func newHealthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check API and database health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.client().Health(cmd.Context())
			if h != nil {
				if perr := printValue(cmd.OutOrStdout(), opts.out, h, func(w io.Writer) {
					fmt.Fprintf(w, "status=%s db=%s\n", h.Status, h.DB)
				}); perr != nil {
					return perr
				}
			}
			return err
		},
	}
}

func newUsersCmd(opts *options) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "List and create user records",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the 50 most recent users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := opts.client().ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), opts.out, users, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
				for _, u := range users {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", u.ID, u.Name, u.Email)
				}
				_ = tw.Flush()
			})
		},
	}

	var name, email string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := opts.client().CreateUser(cmd.Context(), name, email)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), opts.out, u, func(w io.Writer) {
				fmt.Fprintln(w, u.ID)
			})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "User name")
	createCmd.Flags().StringVar(&email, "email", "", "User email")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("email")

	usersCmd.AddCommand(listCmd, createCmd)
	return usersCmd
}

func printValue(w io.Writer, format string, v any, text func(io.Writer)) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
