package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-craft/internal/document"
)

var resumeCmd = &cobra.Command{
	Use:   "resume FILE",
	Short: "Extract the skills listed in a resume",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		file := args[0]

		ctx, cancel := commandContext()
		defer cancel()

		rt, cleanup := setup(ctx, needs{generator: true})
		defer cleanup()

		data, err := os.ReadFile(file)
		if err != nil {
			rt.logger.Fatal("reading resume file", zap.String("file", file), zap.Error(err))
		}

		text, err := rt.reader.ExtractText(data, document.MIMETypeForExtension(filepath.Ext(file)))
		if err != nil {
			rt.logger.Fatal("reading resume", zap.String("file", file), zap.Error(err))
		}

		skills := rt.advisor.ExtractSkillsFromResume(ctx, text)
		if err := printJSON(map[string][]string{"skills": skills}); err != nil {
			rt.logger.Fatal("writing result", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)
}
