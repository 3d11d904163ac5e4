package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-craft/internal/career"
)

type pathResult struct {
	career.CareerPath
	PathID string `json:"path_id,omitempty"`
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Build a career path from current skills to a target job",
	Run: func(cmd *cobra.Command, _ []string) {
		skills, _ := cmd.Flags().GetStringSlice("skills")
		target, _ := cmd.Flags().GetString("target")
		save, _ := cmd.Flags().GetBool("save")
		user, _ := cmd.Flags().GetString("user")

		ctx, cancel := commandContext()
		defer cancel()

		rt, cleanup := setup(ctx, needs{generator: true})
		defer cleanup()

		if strings.TrimSpace(target) == "" {
			rt.logger.Fatal("target job is required", zap.String("hint", "pass --target"))
		}
		if save && strings.TrimSpace(user) == "" {
			rt.logger.Fatal("user is required to save a path", zap.String("hint", "pass --user"))
		}

		result := pathResult{CareerPath: rt.advisor.GenerateCareerPath(ctx, splitList(skills), target)}

		if save {
			id, err := rt.profiles.SavePath(ctx, user, target, result.CareerPath)
			if err != nil {
				rt.logger.Fatal("saving career path", zap.Error(err))
			}
			result.PathID = id
		}

		if err := printJSON(result); err != nil {
			rt.logger.Fatal("writing result", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(pathCmd)

	pathCmd.Flags().StringSliceP("skills", "s", nil, "current skills, comma separated or repeated")
	pathCmd.Flags().StringP("target", "t", "", "target job title")
	pathCmd.Flags().Bool("save", false, "save the path for --user")
	pathCmd.Flags().StringP("user", "u", "", "user id the path belongs to")
}
