package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-craft/internal/profile"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Rate a job suggestion as helpful or not helpful",
	Run: func(cmd *cobra.Command, _ []string) {
		fb := profile.Feedback{}
		fb.UserID, _ = cmd.Flags().GetString("user")
		fb.SuggestionID, _ = cmd.Flags().GetString("suggestion-id")
		fb.JobTitle, _ = cmd.Flags().GetString("job")
		fb.Rating, _ = cmd.Flags().GetString("rating")

		ctx, cancel := commandContext()
		defer cancel()

		rt, cleanup := setup(ctx, needs{})
		defer cleanup()

		if err := rt.profiles.SaveFeedback(ctx, fb); err != nil {
			if errors.Is(err, profile.ErrInvalid) {
				rt.logger.Fatal("invalid feedback",
					zap.Error(err),
					zap.String("hint", "pass --user, --suggestion-id, --job and --rating helpful|not_helpful"),
				)
			}
			rt.logger.Fatal("saving feedback", zap.Error(err))
		}

		if err := printJSON(map[string]string{"status": "saved", "suggestion_id": fb.SuggestionID}); err != nil {
			rt.logger.Fatal("writing result", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(feedbackCmd)

	feedbackCmd.Flags().StringP("user", "u", "", "user id")
	feedbackCmd.Flags().String("suggestion-id", "", "suggestion id from the suggest output")
	feedbackCmd.Flags().String("job", "", "suggested job title")
	feedbackCmd.Flags().String("rating", profile.RatingHelpful, "helpful or not_helpful")
}
