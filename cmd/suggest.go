package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-craft/internal/advisor"
	"github.com/spigell/career-craft/internal/document"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest jobs for a skill list or a resume file",
	Run: func(cmd *cobra.Command, _ []string) {
		skills, _ := cmd.Flags().GetString("skills")
		file, _ := cmd.Flags().GetString("file")
		user, _ := cmd.Flags().GetString("user")

		ctx, cancel := commandContext()
		defer cancel()

		rt, cleanup := setup(ctx, needs{generator: true})
		defer cleanup()

		req := advisor.SuggestRequest{Skills: skills}
		if file != "" {
			data, err := os.ReadFile(file)
			if err != nil {
				rt.logger.Fatal("reading resume file", zap.String("file", file), zap.Error(err))
			}
			req.Document = data
			req.MIMEType = document.MIMETypeForExtension(filepath.Ext(file))
		}

		set, err := rt.advisor.Suggest(ctx, req)
		switch {
		case errors.Is(err, advisor.ErrMissingInput):
			rt.logger.Fatal("nothing to suggest from", zap.String("hint", "pass --skills or --file"), zap.Error(err))
		case errors.Is(err, document.ErrUnsupportedFormat):
			rt.logger.Fatal("unsupported resume format", zap.String("hint", "use a .pdf, .docx or .txt file"), zap.Error(err))
		case err != nil:
			rt.logger.Fatal("suggesting jobs", zap.Error(err))
		}

		if user != "" {
			if err := rt.profiles.SaveUserSkills(ctx, user, set.ParsedSkills); err != nil {
				rt.logger.Warn("saving user skills", zap.String("user_id", user), zap.Error(err))
			}
		}

		if err := printJSON(set); err != nil {
			rt.logger.Fatal("writing result", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().StringP("skills", "s", "", "comma separated skill list")
	suggestCmd.Flags().StringP("file", "f", "", "resume file (.pdf, .docx or .txt), wins over --skills")
	suggestCmd.Flags().StringP("user", "u", "", "store the parsed skills for this user id")
}
