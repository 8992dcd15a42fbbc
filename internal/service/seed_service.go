package service

import (
	"context"
	"fmt"
	"log"
)

// SeedConfig содержит параметры начального заполнения
type SeedConfig struct {
	AdminUsername string
	AdminPassword string
	SampleData    bool
}

// SeedService создает начального администратора и демонстрационные категории
type SeedService struct {
	authService      *AuthService
	categoryService  *CategoryService
	quizAdminService *QuizAdminService
	cfg              SeedConfig
}

// NewSeedService создает сервис начального заполнения
func NewSeedService(
	authService *AuthService,
	categoryService *CategoryService,
	quizAdminService *QuizAdminService,
	cfg SeedConfig,
) *SeedService {
	return &SeedService{
		authService:      authService,
		categoryService:  categoryService,
		quizAdminService: quizAdminService,
		cfg:              cfg,
	}
}

// Seed идемпотентен: администратор создается только при отсутствии,
// демонстрационные данные только в пустую базу.
func (s *SeedService) Seed(ctx context.Context) error {
	if s.cfg.AdminUsername != "" {
		created, err := s.authService.EnsureAdmin(ctx, s.cfg.AdminUsername, s.cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		if created {
			log.Printf("[Seed] Создан начальный администратор %q", s.cfg.AdminUsername)
		}
	}

	if !s.cfg.SampleData {
		return nil
	}
	count, err := s.categoryService.CountCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	quizzes := 0
	for _, sample := range sampleData {
		category, err := s.categoryService.CreateCategory(ctx, sample.Name, sample.Description)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", sample.Name, err)
		}
		for _, in := range sample.Quizzes {
			in.CategoryID = category.ID
			if _, err := s.quizAdminService.CreateQuiz(ctx, in); err != nil {
				return fmt.Errorf("failed to seed quiz in %q: %w", sample.Name, err)
			}
			quizzes++
		}
	}
	log.Printf("[Seed] Созданы демонстрационные данные: %d категорий, %d викторин", len(sampleData), quizzes)
	return nil
}
