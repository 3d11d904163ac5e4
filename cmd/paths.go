package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-craft/internal/profile"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Manage saved career paths",
}

var pathsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved career paths of a user, newest first",
	Run: func(cmd *cobra.Command, _ []string) {
		user, _ := cmd.Flags().GetString("user")

		ctx, cancel := commandContext()
		defer cancel()

		rt, cleanup := setup(ctx, needs{})
		defer cleanup()

		requireUser(rt, user)

		paths, err := rt.profiles.ListPaths(ctx, user)
		if err != nil {
			rt.logger.Fatal("listing saved paths", zap.Error(err))
		}

		if err := printJSON(paths); err != nil {
			rt.logger.Fatal("writing result", zap.Error(err))
		}
	},
}

var pathsDeleteCmd = &cobra.Command{
	Use:   "delete PATH_ID",
	Short: "Delete a saved career path",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		user, _ := cmd.Flags().GetString("user")

		ctx, cancel := commandContext()
		defer cancel()

		rt, cleanup := setup(ctx, needs{})
		defer cleanup()

		requireUser(rt, user)

		err := rt.profiles.DeletePath(ctx, user, args[0])
		switch {
		case errors.Is(err, profile.ErrNotFound):
			rt.logger.Fatal("saved path not found", zap.String("path_id", args[0]))
		case errors.Is(err, profile.ErrForbidden):
			rt.logger.Fatal("saved path belongs to another user", zap.String("path_id", args[0]), zap.String("user_id", user))
		case err != nil:
			rt.logger.Fatal("deleting saved path", zap.Error(err))
		}

		if err := printJSON(map[string]string{"deleted": args[0]}); err != nil {
			rt.logger.Fatal("writing result", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
	pathsCmd.AddCommand(pathsListCmd, pathsDeleteCmd)

	pathsCmd.PersistentFlags().StringP("user", "u", "", "user id")
}

func requireUser(rt *runtime, user string) {
	if strings.TrimSpace(user) == "" {
		rt.logger.Fatal("user is required", zap.String("hint", "pass --user"))
	}
}
