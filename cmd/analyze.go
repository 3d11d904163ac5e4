package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare skills with a job title and report matching and missing skills",
	Run: func(cmd *cobra.Command, _ []string) {
		skills, _ := cmd.Flags().GetStringSlice("skills")
		job, _ := cmd.Flags().GetString("job")

		ctx, cancel := commandContext()
		defer cancel()

		rt, cleanup := setup(ctx, needs{generator: true})
		defer cleanup()

		if strings.TrimSpace(job) == "" {
			rt.logger.Fatal("job title is required", zap.String("hint", "pass --job"))
		}

		gap := rt.advisor.AnalyzeSkillGap(ctx, splitList(skills), job)
		if err := printJSON(gap); err != nil {
			rt.logger.Fatal("writing result", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringSliceP("skills", "s", nil, "candidate skills, comma separated or repeated")
	analyzeCmd.Flags().String("job", "", "target job title")
}
