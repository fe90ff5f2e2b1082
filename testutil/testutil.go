// Package testutil provides an in-memory store and fixtures for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cppla/missionboard/config"
	"github.com/cppla/missionboard/models"
	"github.com/cppla/missionboard/utils"
)

// SetupConfig installs a test configuration: fixed JWT secret, no redis,
// gin access log under t.TempDir().
func SetupConfig(t testing.TB) config.AppConfig {
	t.Helper()
	cfg := config.AppConfig{
		JWTSecret:          "test-secret",
		DBDriver:           "sqlite",
		GinMode:            "test",
		GinPath:            filepath.Join(t.TempDir(), "gin.log"),
		LogLevel:           "error",
		RateLimitPerMinute: 1000,
		MetricsEnabled:     true,
	}
	config.Set(cfg)
	utils.UseMinPasswordCost()
	return config.Get()
}

// SetupTestDB opens a fresh in-memory database, migrates it and seeds the catalog.
func SetupTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	db := OpenEmptyDB(t)
	_, err := config.SeedMissions(db)
	require.NoError(t, err)
	return db
}

// OpenEmptyDB opens a fresh in-memory database with the schema but no missions.
func OpenEmptyDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// CreateUser inserts a user with password "pass1234".
func CreateUser(t testing.TB, db *gorm.DB, nickname string, dept models.Department) models.User {
	t.Helper()
	hash, err := utils.HashPassword("pass1234")
	require.NoError(t, err)
	user := models.User{Nickname: nickname, PasswordHash: hash, Department: dept}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateMission inserts a mission.
func CreateMission(t testing.TB, db *gorm.DB, title string, points int, category models.Category) models.Mission {
	t.Helper()
	mission := models.Mission{Title: title, Description: title, Points: points, Category: category}
	require.NoError(t, db.Create(&mission).Error)
	return mission
}

// Token issues a valid bearer token for userID.
func Token(t testing.TB, userID uint) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, utils.TokenTTL())
	require.NoError(t, err)
	return token
}

// ReloadUser reads the user back from the store.
func ReloadUser(t testing.TB, db *gorm.DB, id uint) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return user
}
