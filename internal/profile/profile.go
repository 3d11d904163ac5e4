// Package profile persists user data: skill profiles, feedback on suggestions and
// saved career paths.
package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/career-craft/internal/career"
	"github.com/spigell/career-craft/internal/docstore"
	"github.com/spigell/career-craft/internal/logger"
)

const (
	CollectionUsers    = "users"
	CollectionFeedback = "feedback"
	CollectionPaths    = "saved_paths"

	RatingHelpful    = "helpful"
	RatingNotHelpful = "not_helpful"
)

var (
	ErrNotFound  = errors.New("saved path not found")
	ErrForbidden = errors.New("saved path belongs to another user")
	ErrInvalid   = errors.New("invalid record")
)

var validate = validator.New()

type UserSkills struct {
	UserID    string    `json:"user_id" validate:"required"`
	Skills    []string  `json:"skills"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Feedback struct {
	SuggestionID string    `json:"suggestion_id" validate:"required"`
	JobTitle     string    `json:"job_title" validate:"required"`
	UserID       string    `json:"user_id" validate:"required"`
	Rating       string    `json:"rating" validate:"required,oneof=helpful not_helpful"`
	Timestamp    time.Time `json:"timestamp"`
}

type SavedPath struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id" validate:"required"`
	TargetJob string            `json:"target_job" validate:"required"`
	PathData  career.CareerPath `json:"path_data"`
	CreatedAt time.Time         `json:"created_at"`
}

type Service struct {
	store  docstore.Store
	now    func() time.Time
	logger *zap.Logger
}

func NewService(store docstore.Store, log *zap.Logger) *Service {
	return &Service{
		store:  store,
		now:    time.Now,
		logger: logger.WithComponent(log, "profile"),
	}
}

// SaveUserSkills replaces the stored skill list of a user.
func (s *Service) SaveUserSkills(ctx context.Context, userID string, skills []string) error {
	record := UserSkills{
		UserID:    strings.TrimSpace(userID),
		Skills:    skills,
		UpdatedAt: s.now().UTC(),
	}
	if record.Skills == nil {
		record.Skills = []string{}
	}

	if err := validate.Struct(record); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := s.put(ctx, CollectionUsers, record.UserID, record); err != nil {
		return err
	}

	s.logger.Info("user skills saved", zap.String("user_id", record.UserID), zap.Int("skills", len(record.Skills)))
	return nil
}

// SaveFeedback stores a rating keyed by suggestion id. A second rating for the same
// suggestion replaces the first.
func (s *Service) SaveFeedback(ctx context.Context, fb Feedback) error {
	fb.SuggestionID = strings.TrimSpace(fb.SuggestionID)
	fb.UserID = strings.TrimSpace(fb.UserID)
	fb.Rating = strings.TrimSpace(fb.Rating)
	fb.Timestamp = s.now().UTC()

	if err := validate.Struct(fb); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := s.put(ctx, CollectionFeedback, fb.SuggestionID, fb); err != nil {
		return err
	}

	s.logger.Info("feedback saved",
		zap.String("suggestion_id", fb.SuggestionID),
		zap.String("rating", fb.Rating),
	)
	return nil
}

// SavePath stores a career path for a user and returns its id.
func (s *Service) SavePath(ctx context.Context, userID, targetJob string, path career.CareerPath) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	record := SavedPath{
		ID:        id.String(),
		UserID:    strings.TrimSpace(userID),
		TargetJob: strings.TrimSpace(targetJob),
		PathData:  path.Normalize(),
		CreatedAt: s.now().UTC(),
	}

	if err := validate.Struct(record); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := s.put(ctx, CollectionPaths, record.ID, record); err != nil {
		return "", err
	}

	s.logger.Info("career path saved", zap.String("user_id", record.UserID), zap.String("path_id", record.ID))
	return record.ID, nil
}

// ListPaths returns the saved paths of a user, newest first.
func (s *Service) ListPaths(ctx context.Context, userID string) ([]SavedPath, error) {
	docs, err := s.store.Query(ctx, CollectionPaths, docstore.Filter{"user_id": strings.TrimSpace(userID)})
	if err != nil {
		return nil, fmt.Errorf("query saved paths: %w", err)
	}

	paths := make([]SavedPath, 0, len(docs))
	for _, doc := range docs {
		var path SavedPath
		if err := docstore.Decode(doc, &path); err != nil {
			s.logger.Warn("skipping unreadable saved path", zap.Error(err))
			continue
		}
		path.PathData = path.PathData.Normalize()
		paths = append(paths, path)
	}

	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].CreatedAt.After(paths[j].CreatedAt)
	})

	return paths, nil
}

// DeletePath removes a saved path owned by userID.
func (s *Service) DeletePath(ctx context.Context, userID, pathID string) error {
	doc, err := s.store.Get(ctx, CollectionPaths, pathID)
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("%s: %w", pathID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get saved path: %w", err)
	}

	var path SavedPath
	if err := docstore.Decode(doc, &path); err != nil {
		return fmt.Errorf("decode saved path: %w", err)
	}

	if path.UserID != strings.TrimSpace(userID) {
		return fmt.Errorf("%s: %w", pathID, ErrForbidden)
	}

	if err := s.store.Delete(ctx, CollectionPaths, pathID); err != nil {
		return fmt.Errorf("delete saved path: %w", err)
	}

	s.logger.Info("career path deleted", zap.String("user_id", path.UserID), zap.String("path_id", pathID))
	return nil
}

func (s *Service) put(ctx context.Context, collection, key string, record any) error {
	doc, err := docstore.Encode(record)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, collection, key, doc); err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}
	return nil
}
