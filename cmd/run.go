package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-craft/internal/advisor"
	"github.com/spigell/career-craft/internal/profile"
)

const (
	PromptSuggest  = "Suggest jobs for my skills"
	PromptAnalyze  = "Compare my skills with a job"
	PromptSkills   = "Show skills required for a job"
	PromptPath     = "Build a career path"
	PromptFeedback = "Rate a suggestion"
	PromptExit     = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptSuggest, PromptAnalyze, PromptSkills, PromptPath, PromptFeedback, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("user", "u", "", "user id for saved skills, paths and feedback")
}

// session keeps what the user entered so later actions can reuse it.
type session struct {
	rt     *runtime
	user   string
	skills []string
}

// run is the interactive entry point of the cli.
func run(cmd *cobra.Command) {
	ctx, cancel := commandContext()
	defer cancel()

	rt, cleanup := setup(ctx, needs{generator: true})
	defer cleanup()

	user, _ := cmd.Flags().GetString("user")
	s := &session{rt: rt, user: strings.TrimSpace(user)}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			rt.logger.Info("exiting", zap.Error(err))
			return
		}

		if err := s.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				rt.logger.Info("exiting", zap.String("reason", "prompt interrupted"))
				return
			}
			rt.logger.Error("action failed", zap.String("action", action), zap.Error(err))
		}
	}
}

func (s *session) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptSuggest:
		return s.suggest(ctx)
	case PromptAnalyze:
		return s.analyze(ctx)
	case PromptSkills:
		title, err := ask("Job title", "")
		if err != nil {
			return err
		}
		return printJSON(s.rt.advisor.GetSkillsForJob(ctx, title))
	case PromptPath:
		return s.path(ctx)
	case PromptFeedback:
		return s.feedback(ctx)
	case PromptExit:
		s.rt.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *session) suggest(ctx context.Context) error {
	if err := s.askSkills(); err != nil {
		return err
	}

	set, err := s.rt.advisor.Suggest(ctx, advisor.SuggestRequest{Skills: strings.Join(s.skills, ", ")})
	if err != nil {
		return err
	}

	if s.user != "" {
		if err := s.rt.profiles.SaveUserSkills(ctx, s.user, set.ParsedSkills); err != nil {
			s.rt.logger.Warn("saving user skills", zap.String("user_id", s.user), zap.Error(err))
		}
	}

	return printJSON(set)
}

func (s *session) analyze(ctx context.Context) error {
	if err := s.askSkills(); err != nil {
		return err
	}

	title, err := ask("Job title", "")
	if err != nil {
		return err
	}

	return printJSON(s.rt.advisor.AnalyzeSkillGap(ctx, s.skills, title))
}

func (s *session) path(ctx context.Context) error {
	if err := s.askSkills(); err != nil {
		return err
	}

	target, err := ask("Target job", "")
	if err != nil {
		return err
	}

	path := s.rt.advisor.GenerateCareerPath(ctx, s.skills, target)
	if err := printJSON(path); err != nil {
		return err
	}

	if s.user == "" {
		return nil
	}

	save := promptui.Select{Label: "Save this path?", Items: []string{"Yes", "No"}}
	_, answer, err := save.Run()
	if err != nil || answer != "Yes" {
		return err
	}

	id, err := s.rt.profiles.SavePath(ctx, s.user, target, path)
	if err != nil {
		return err
	}

	s.rt.logger.Info("career path saved", zap.String("path_id", id))
	return nil
}

func (s *session) feedback(ctx context.Context) error {
	if s.user == "" {
		return errors.New("feedback needs a user, start the session with --user")
	}

	id, err := ask("Suggestion id", "")
	if err != nil {
		return err
	}

	title, err := ask("Job title", "")
	if err != nil {
		return err
	}

	rating := promptui.Select{Label: "Was it helpful?", Items: []string{profile.RatingHelpful, profile.RatingNotHelpful}}
	_, value, err := rating.Run()
	if err != nil {
		return err
	}

	return s.rt.profiles.SaveFeedback(ctx, profile.Feedback{
		SuggestionID: id,
		JobTitle:     title,
		UserID:       s.user,
		Rating:       value,
	})
}

// askSkills asks for skills, offering the previous answer as the default.
func (s *session) askSkills() error {
	line, err := ask("Skills (comma separated)", strings.Join(s.skills, ", "))
	if err != nil {
		return err
	}

	s.skills = advisor.SplitSkills(line)
	return nil
}

func ask(label, defaultValue string) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   defaultValue,
		AllowEdit: true,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("value is required")
			}
			return nil
		},
	}

	value, err := p.Run()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(value), nil
}
