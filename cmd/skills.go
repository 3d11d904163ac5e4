package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/career-craft/internal/career"
)

type jobSkills struct {
	JobTitle string `json:"job_title"`
	career.SkillBreakdown
}

var skillsCmd = &cobra.Command{
	Use:   "skills TITLE [TITLE...]",
	Short: "Show technical, soft and tool skills required for job titles",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parallel, _ := cmd.Flags().GetInt("parallel")

		ctx, cancel := commandContext()
		defer cancel()

		rt, cleanup := setup(ctx, needs{generator: true})
		defer cleanup()

		results := make([]jobSkills, len(args))

		g, gctx := errgroup.WithContext(ctx)
		if parallel > 0 {
			g.SetLimit(parallel)
		}

		for i, title := range args {
			g.Go(func() error {
				results[i] = jobSkills{
					JobTitle:       title,
					SkillBreakdown: rt.advisor.GetSkillsForJob(gctx, title),
				}
				return nil
			})
		}

		// Lookups never fail, they degrade to empty breakdowns.
		_ = g.Wait()

		rt.logger.Info("skill breakdowns ready", zap.Int("count", len(results)))

		if err := printJSON(results); err != nil {
			rt.logger.Fatal("writing result", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)

	skillsCmd.Flags().IntP("parallel", "p", 4, "concurrent lookups")
}
