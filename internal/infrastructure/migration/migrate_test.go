package migration

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMigrator) Close() (error, error) {
	args := m.Called()
	return args.Error(0), args.Error(1)
}

func newTestMigration(engine Engine) *Migration {
	return New("migrations", "postgres://localhost/coachfit", engine, slog.Default())
}

func TestMigration_Up_Success(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(nil)
	mockM.On("Close").Return(nil, nil)

	var gotSource, gotDB string
	engine := func(source, db string) (Migrator, error) {
		gotSource, gotDB = source, db
		return mockM, nil
	}

	err := newTestMigration(engine).Up()

	assert.NoError(t, err)
	assert.Equal(t, "file://migrations", gotSource)
	assert.Equal(t, "postgres://localhost/coachfit", gotDB)
	mockM.AssertExpectations(t)
}

func TestMigration_Up_NoChange(t *testing.T) {
	mockM := new(MockMigrator)

	// Актуальная схема не считается ошибкой
	mockM.On("Up").Return(migrate.ErrNoChange)
	mockM.On("Close").Return(nil, nil)

	engine := func(source, db string) (Migrator, error) {
		return mockM, nil
	}

	assert.NoError(t, newTestMigration(engine).Up())
}

func TestMigration_Up_EngineError(t *testing.T) {
	// Ошибка создания мигратора, например неверный URI базы
	engine := func(source, db string) (Migrator, error) {
		return nil, errors.New("engine crash")
	}

	err := newTestMigration(engine).Up()

	assert.Error(t, err)
	assert.Equal(t, "engine crash", err.Error())
}

func TestMigration_Up_CloseErrorSurfaces(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(nil)
	mockM.On("Close").Return(nil, errors.New("connection leak"))

	engine := func(source, db string) (Migrator, error) {
		return mockM, nil
	}

	err := newTestMigration(engine).Up()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection leak")
}

func TestMigration_Up_MigrationError(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(errors.New("broken migration"))
	mockM.On("Close").Return(nil, nil)

	engine := func(source, db string) (Migrator, error) {
		return mockM, nil
	}

	err := newTestMigration(engine).Up()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broken migration")
}
