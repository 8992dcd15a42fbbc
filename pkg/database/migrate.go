package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	migrateV4 "github.com/golang-migrate/migrate/v4"
	migratePostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

// DefaultMigrationsSource указывает на папку migrations в рабочем каталоге
const DefaultMigrationsSource = "file://migrations"

// NewMigrator создает экземпляр migrate поверх открытого *sql.DB
func NewMigrator(sqlDB *sql.DB, source string) (*migrateV4.Migrate, error) {
	driver, err := migratePostgres.WithInstance(sqlDB, &migratePostgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("не удалось создать драйвер postgres для migrate: %w", err)
	}
	m, err := migrateV4.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать экземпляр migrate: %w", err)
	}
	return m, nil
}

// OpenMigrator открывает отдельное соединение через lib/pq для CLI миграций
func OpenMigrator(url, source string) (*migrateV4.Migrate, *sql.DB, error) {
	sqlDB, err := sql.Open("postgres", url)
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось открыть соединение с БД: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("не удалось проверить подключение к БД: %w", err)
	}
	m, err := NewMigrator(sqlDB, source)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	return m, sqlDB, nil
}

// MigrateDB применяет SQL-миграции из папки 'migrations'
func MigrateDB(db *gorm.DB) error {
	log.Println("Запуск применения миграций базы данных...")

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("не удалось получить *sql.DB из *gorm.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("не удалось проверить подключение к БД перед миграцией: %w", err)
	}

	m, err := NewMigrator(sqlDB, DefaultMigrationsSource)
	if err != nil {
		return err
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrateV4.ErrNoChange):
		log.Println("Изменений в миграциях не найдено, база данных уже актуальна.")
	case err != nil:
		return fmt.Errorf("ошибка применения миграций 'up': %w", err)
	default:
		log.Println("Миграции успешно применены.")
	}
	return nil
}
