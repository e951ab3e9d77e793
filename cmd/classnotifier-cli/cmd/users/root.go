package users

import "github.com/spf13/cobra"

var RootCmd = &cobra.Command{
	Use:   "users",
	Short: "The 'users' subcommand manages the registered users and their portal cookies.",
}
