package migration

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"golang.org/x/exp/slog"

	// Регистрация драйвера postgres и файлового источника миграций
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrator — интерфейс самой библиотеки migrate.Migrate
type Migrator interface {
	Up() error
	Close() (error, error)
}

// Engine — фабрика мигратора, в тестах подменяется чтобы не лезть в ФС и БД
type Engine func(sourceURL, databaseURL string) (Migrator, error)

// Migration применяет схему базы при старте сервера
type Migration struct {
	migrationsPath string
	databaseURL    string
	engine         Engine
	log            *slog.Logger
}

func New(migrationsPath, databaseURL string, engine Engine, log *slog.Logger) *Migration {
	return &Migration{
		migrationsPath: migrationsPath,
		databaseURL:    databaseURL,
		engine:         engine,
		log:            log.With("component", "migration"),
	}
}

// DefaultEngine — реальная реализация поверх golang-migrate
func DefaultEngine(sourceURL, databaseURL string) (Migrator, error) {
	return migrate.New(sourceURL, databaseURL)
}

// Up применяет все недостающие миграции. Актуальная схема не ошибка.
func (mg *Migration) Up() (err error) {
	m, err := mg.engine("file://"+mg.migrationsPath, mg.databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration source error: %v", err, serr)
			} else {
				err = serr
			}
		}
		if dberr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration database error: %v", err, dberr)
			} else {
				err = dberr
			}
		}
	}()

	if uerr := m.Up(); uerr != nil {
		if errors.Is(uerr, migrate.ErrNoChange) {
			mg.log.Debug("database schema is up to date")
			return nil
		}
		return fmt.Errorf("%w; migration up error", uerr)
	}

	mg.log.Info("database migrations applied")
	return nil
}
