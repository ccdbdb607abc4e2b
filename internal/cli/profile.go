package cli

import (
	"errors"
	"net/url"

	"github.com/spf13/cobra"
)

var errMissingCredentials = errors.New("--user and --pass are required (env: FTD_USER, FTD_PASS)")

// profileFlags are the fields submitted on register and update
type profileFlags struct {
	confirm   string
	email     string
	firstName string
	lastName  string
	birthday  string
	pizza     string
	soda      string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.confirm, "confirm", "", "Password confirmation (defaults to --pass)")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&f.birthday, "birthday", "", "Birthday (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.pizza, "pizza", "", "Pineapple on pizza: yes or no")
	cmd.Flags().StringVar(&f.soda, "soda", "", "Favourite soda")
}

// body builds the request body. Validation is left to the server.
func (f *profileFlags) body() map[string]string {
	confirm := f.confirm
	if confirm == "" {
		confirm = cfg.Secret
	}
	return map[string]string{
		"username":        cfg.Username,
		"password":        cfg.Secret,
		"confirmPassword": confirm,
		"email":           f.email,
		"firstName":       f.firstName,
		"lastName":        f.lastName,
		"birthday":        f.birthday,
		"pizza":           f.pizza,
		"soda":            f.soda,
	}
}

func newRegisterCmd() *cobra.Command {
	var flags profileFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user (uses --user and --pass)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Message
			if err := client.Post("/api/register", flags.body(), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check that --user and --pass are accepted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCredentials(); err != nil {
				return err
			}

			var result Message
			if err := client.Post("/api/auth/login", nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile management commands",
	}

	cmd.AddCommand(newProfileGetCmd())
	cmd.AddCommand(newProfileUpdateCmd())
	cmd.AddCommand(newProfileDeleteCmd())

	return cmd
}

// userPath returns the profile path for the named user, defaulting to --user
func userPath(args []string) string {
	username := cfg.Username
	if len(args) > 0 {
		username = args[0]
	}
	return "/api/auth/users/" + url.PathEscape(username)
}

func newProfileGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [username]",
		Short: "Show a profile (defaults to your own)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCredentials(); err != nil {
				return err
			}

			var result Profile
			if err := client.Get(userPath(args), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newProfileUpdateCmd() *cobra.Command {
	var flags profileFlags
	var newSecret string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace every field of your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCredentials(); err != nil {
				return err
			}

			body := flags.body()
			if newSecret != "" {
				body["password"] = newSecret
				if flags.confirm == "" {
					body["confirmPassword"] = newSecret
				}
			}

			var result Message
			if err := client.Put(userPath(nil), body, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&newSecret, "new-pass", "", "New password (defaults to --pass)")
	return cmd
}

func newProfileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCredentials(); err != nil {
				return err
			}

			var result Message
			if err := client.Delete(userPath(nil), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
