package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// AdminUserRepo реализует repository.AdminUserRepository
type AdminUserRepo struct {
	db *gorm.DB
}

// NewAdminUserRepo создает новый репозиторий администраторов
func NewAdminUserRepo(db *gorm.DB) *AdminUserRepo {
	return &AdminUserRepo{db: db}
}

// Create создает администратора
func (r *AdminUserRepo) Create(ctx context.Context, admin *entity.AdminUser) error {
	if err := conn(ctx, r.db).Create(admin).Error; err != nil {
		return conflictOnUnique(err, "admin %q already exists", admin.Username)
	}
	return nil
}

// GetByUsername возвращает администратора по имени пользователя
func (r *AdminUserRepo) GetByUsername(ctx context.Context, username string) (*entity.AdminUser, error) {
	var admin entity.AdminUser
	if err := conn(ctx, r.db).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, notFound(err)
	}
	return &admin, nil
}
