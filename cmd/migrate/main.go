package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	migrateV4 "github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"

	"github.com/yourusername/quiz-api/internal/config"
	"github.com/yourusername/quiz-api/pkg/database"
)

const usage = `Использование: migrate [-source file://migrations] <команда>

Команды:
  up          применить все новые миграции
  down        откатить одну миграцию
  force N     установить версию N и снять флаг dirty
  version     показать текущую версию
`

func main() {
	source := flag.String("source", database.DefaultMigrationsSource, "источник миграций")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Предупреждение: не удалось прочитать .env: %v", err)
	}
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	m, sqlDB, err := database.OpenMigrator(cfg.Database.PostgresURL(), *source)
	if err != nil {
		log.Fatalf("Failed to open migrator: %v", err)
	}
	defer sqlDB.Close()

	if err := run(m, flag.Args()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}

func run(m *migrateV4.Migrate, args []string) error {
	switch args[0] {
	case "up":
		return ignoreNoChange(m.Up())
	case "down":
		return ignoreNoChange(m.Steps(-1))
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force requires a version")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if err := m.Force(version); err != nil {
			return err
		}
		log.Printf("Версия миграций установлена в %d", version)
		return nil
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrateV4.ErrNilVersion) {
			log.Println("Миграции ещё не применялись")
			return nil
		}
		if err != nil {
			return err
		}
		log.Printf("Версия: %d, dirty: %t", version, dirty)
		return nil
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrateV4.ErrNoChange) {
		log.Println("Изменений в миграциях нет")
		return nil
	}
	if err == nil {
		log.Println("Миграции успешно применены")
	}
	return err
}
