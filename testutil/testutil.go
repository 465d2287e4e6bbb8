// Package testutil provides the shared database harness for tests. By
// default every call opens a fresh in-memory sqlite database; set
// TEST_POSTGRES_DSN to run the same tests against postgres.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tutorlink/tutorlink/database"
	"github.com/tutorlink/tutorlink/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	dbCounter   atomic.Int64
	userCounter atomic.Int64
)

func Logger() *zap.Logger {
	return zap.NewNop()
}

// DB returns a migrated, empty database for one test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	var dialector gorm.Dialector
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		name := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
		dialector = sqlite.Open(name)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("failed to migrate test database: %v", err)
	}

	// Postgres reuses one physical database across tests.
	for _, model := range []interface{}{
		&models.Review{}, &models.Session{}, &models.TutorProfile{}, &models.User{},
	} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			tb.Fatalf("failed to reset test database: %v", err)
		}
	}
	return db
}

// PostgresDB skips the test unless TEST_POSTGRES_DSN is set. Used by
// tests that need real concurrent writers, which in-memory sqlite
// cannot provide.
func PostgresDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	if os.Getenv("TEST_POSTGRES_DSN") == "" {
		tb.Skip("TEST_POSTGRES_DSN not set")
	}
	return DB(tb)
}

func CreateLearner(tb testing.TB, db *gorm.DB) models.User {
	tb.Helper()
	user := models.User{
		FullName: "Test Learner",
		Email:    fmt.Sprintf("learner%d@example.com", userCounter.Add(1)),
		Password: "hashed",
		Role:     models.RoleLearner,
	}
	if err := db.Create(&user).Error; err != nil {
		tb.Fatalf("failed to create learner: %v", err)
	}
	return user
}

func CreateTutor(tb testing.TB, db *gorm.DB) models.User {
	tb.Helper()
	user := models.User{
		FullName: "Test Tutor",
		Email:    fmt.Sprintf("tutor%d@example.com", userCounter.Add(1)),
		Password: "hashed",
		Role:     models.RoleTutor,
	}
	if err := db.Create(&user).Error; err != nil {
		tb.Fatalf("failed to create tutor: %v", err)
	}
	profile := models.TutorProfile{UserID: user.ID}
	if err := db.Create(&profile).Error; err != nil {
		tb.Fatalf("failed to create tutor profile: %v", err)
	}
	return user
}

func CreateSession(tb testing.TB, db *gorm.DB, tutorID, learnerID uuid.UUID, status models.SessionStatus) models.Session {
	tb.Helper()
	session := models.Session{
		TutorID:         tutorID,
		LearnerID:       learnerID,
		Subject:         "Algebra",
		SessionType:     models.SessionOneOnOne,
		ScheduledAt:     time.Now().Add(24 * time.Hour),
		DurationMinutes: 60,
		Status:          status,
	}
	if err := db.Create(&session).Error; err != nil {
		tb.Fatalf("failed to create session: %v", err)
	}
	return session
}

func TutorProfile(tb testing.TB, db *gorm.DB, tutorID uuid.UUID) models.TutorProfile {
	tb.Helper()
	var profile models.TutorProfile
	if err := db.WithContext(context.Background()).First(&profile, "user_id = ?", tutorID).Error; err != nil {
		tb.Fatalf("failed to load tutor profile: %v", err)
	}
	return profile
}
