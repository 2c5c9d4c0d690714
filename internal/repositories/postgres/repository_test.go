package postgres

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/config"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := pkg.InitDatabase(&config.Config{
		Environment:    "test",
		DatabaseDriver: "sqlite",
		DatabaseURL:    filepath.Join(t.TempDir(), "exam.db"),
	})
	require.NoError(t, err)
	require.NoError(t, pkg.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedQuestion(t *testing.T, repo repositories.Repository) (*models.Subject, *models.Topic, *models.Question) {
	t.Helper()
	ctx := context.Background()

	subject := &models.Subject{Name: "Math"}
	require.NoError(t, repo.Subject().CreateSubject(ctx, subject))
	topic := &models.Topic{SubjectID: subject.ID, Name: "Arithmetic"}
	require.NoError(t, repo.Subject().CreateTopic(ctx, topic))

	question := &models.Question{
		SubjectID:    subject.ID,
		TopicID:      topic.ID,
		QuestionType: models.QuestionMCQSingle,
		Content:      "2+2?",
		Options: []models.QuestionOption{
			{OptionText: "3"},
			{OptionText: "4", IsCorrect: true},
		},
	}
	require.NoError(t, repo.Question().Create(ctx, question))
	return subject, topic, question
}

func TestUserRepository(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	user := &models.User{Email: "a@example.com", PasswordHash: "h", Role: models.RoleStudent}
	require.NoError(t, repo.User().Create(ctx, user))

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.User().Create(ctx, &models.User{Email: "a@example.com", PasswordHash: "h", Role: models.RoleStudent})
		assert.ErrorIs(t, err, repositories.ErrDuplicate)
	})

	t.Run("mark verified", func(t *testing.T) {
		require.NoError(t, repo.User().MarkEmailVerified(ctx, user.ID))
		got, err := repo.User().GetByEmail(ctx, "a@example.com")
		require.NoError(t, err)
		assert.True(t, got.IsEmailVerified)
	})

	t.Run("delete removes pending resets", func(t *testing.T) {
		require.NoError(t, repo.PasswordReset().Create(ctx, &models.PasswordReset{
			UserID: user.ID, ResetToken: "reset-1", ExpiresAt: time.Now().Add(time.Hour),
		}))

		require.NoError(t, repo.User().Delete(ctx, user.ID))

		_, err := repo.User().GetByID(ctx, user.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		_, err = repo.PasswordReset().GetByToken(ctx, "reset-1")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.ErrorIs(t, repo.User().Delete(ctx, user.ID), repositories.ErrNotFound)
	})
}

func TestPasswordResetRepository_DeleteIsSingleUse(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	reset := &models.PasswordReset{UserID: 1, ResetToken: "tok", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.PasswordReset().Create(ctx, reset))

	assert.NoError(t, repo.PasswordReset().Delete(ctx, reset.ID))
	assert.ErrorIs(t, repo.PasswordReset().Delete(ctx, reset.ID), repositories.ErrNotFound)
}

func TestQuestionRepository(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	subject, topic, question := seedQuestion(t, repo)

	t.Run("options are loaded in insert order", func(t *testing.T) {
		got, err := repo.Question().GetByID(ctx, question.ID)
		require.NoError(t, err)
		require.Len(t, got.Options, 2)
		assert.Equal(t, "3", got.Options[0].OptionText)
		assert.True(t, got.Options[1].IsCorrect)
	})

	t.Run("replace options", func(t *testing.T) {
		require.NoError(t, repo.Question().ReplaceOptions(ctx, question.ID, []models.QuestionOption{{OptionText: "four", IsCorrect: true}}))
		got, err := repo.Question().GetByID(ctx, question.ID)
		require.NoError(t, err)
		require.Len(t, got.Options, 1)
		assert.Equal(t, "four", got.Options[0].OptionText)
	})

	t.Run("filters", func(t *testing.T) {
		other := &models.Question{SubjectID: subject.ID, TopicID: topic.ID, QuestionType: models.QuestionShortAnswer, Content: "Name a prime", Difficulty: "hard"}
		require.NoError(t, repo.Question().Create(ctx, other))

		shortAnswer := models.QuestionShortAnswer
		tests := []struct {
			name     string
			filters  repositories.QuestionFilters
			expected int
		}{
			{name: "none", filters: repositories.QuestionFilters{}, expected: 2},
			{name: "difficulty", filters: repositories.QuestionFilters{Difficulty: "hard"}, expected: 1},
			{name: "type", filters: repositories.QuestionFilters{QuestionType: &shortAnswer}, expected: 1},
			{name: "search", filters: repositories.QuestionFilters{Search: "prime"}, expected: 1},
			{name: "subject", filters: repositories.QuestionFilters{SubjectID: &subject.ID}, expected: 2},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.Question().List(ctx, tt.filters)
				require.NoError(t, err)
				assert.Len(t, got, tt.expected)
			})
		}
	})

	t.Run("existing ids", func(t *testing.T) {
		ids, err := repo.Question().ExistingIDs(ctx, []uint{question.ID, 999})
		require.NoError(t, err)
		assert.Equal(t, []uint{question.ID}, ids)
	})
}

func TestTestRepository(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	_, _, question := seedQuestion(t, repo)

	test := &models.Test{Name: "Quiz", CreatedBy: 1}
	require.NoError(t, repo.Test().Create(ctx, test, []uint{question.ID, question.ID}))

	t.Run("duplicate links are kept in order", func(t *testing.T) {
		links, err := repo.Test().GetQuestionLinks(ctx, test.ID)
		require.NoError(t, err)
		assert.Len(t, links, 2)

		questions, err := repo.Question().GetByTest(ctx, test.ID, true)
		require.NoError(t, err)
		require.Len(t, questions, 2)
		assert.Len(t, questions[0].Options, 2)
	})

	t.Run("question in use", func(t *testing.T) {
		used, err := repo.Question().IsUsedInTests(ctx, question.ID)
		require.NoError(t, err)
		assert.True(t, used)
	})

	t.Run("assigned listing follows the join", func(t *testing.T) {
		require.NoError(t, repo.Assignment().CreateBatch(ctx, []*models.TestAssignment{
			{TestID: test.ID, UserID: 5},
			{TestID: test.ID, UserID: 5},
			{TestID: test.ID, UserID: 6},
		}))

		tests, err := repo.Test().ListAssignedTo(ctx, 5)
		require.NoError(t, err)
		assert.Len(t, tests, 2)

		tests, err = repo.Test().ListAssignedTo(ctx, 7)
		require.NoError(t, err)
		assert.Empty(t, tests)
	})

	t.Run("update fields", func(t *testing.T) {
		require.NoError(t, repo.Test().UpdateFields(ctx, test.ID, map[string]interface{}{"is_published": true}))
		got, err := repo.Test().GetByID(ctx, test.ID)
		require.NoError(t, err)
		assert.True(t, got.IsPublished)
		assert.Equal(t, "Quiz", got.Name)
	})

	t.Run("delete cascades links and assignments", func(t *testing.T) {
		require.NoError(t, repo.Test().Delete(ctx, test.ID))

		links, err := repo.Test().GetQuestionLinks(ctx, test.ID)
		require.NoError(t, err)
		assert.Empty(t, links)
		assignments, err := repo.Assignment().ListByTest(ctx, test.ID)
		require.NoError(t, err)
		assert.Empty(t, assignments)
		assert.ErrorIs(t, repo.Test().Delete(ctx, test.ID), repositories.ErrNotFound)
	})
}

func TestTransactionRollsBack(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Subject().CreateSubject(ctx, &models.Subject{Name: "Physics"}); err != nil {
			return err
		}
		return tx.Subject().CreateSubject(ctx, &models.Subject{Name: "Physics"})
	})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	subjects, err := repo.Subject().ListSubjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, subjects)
}

func TestAttemptRepository(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	newAttempt := func(userID uint) *models.TestAttempt {
		now := time.Now()
		return &models.TestAttempt{TestID: 1, UserID: userID, StartedAt: now, SubmittedAt: &now, Answers: datatypes.JSON(`[]`)}
	}

	t.Run("empty stats", func(t *testing.T) {
		stats, err := repo.Attempt().GetScoreStats(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, stats.AverageScore)
		assert.Zero(t, stats.TotalAttempts)
	})

	t.Run("one attempt per test and user", func(t *testing.T) {
		require.NoError(t, repo.Attempt().Create(ctx, newAttempt(5)))
		assert.ErrorIs(t, repo.Attempt().Create(ctx, newAttempt(5)), repositories.ErrDuplicate)
		require.NoError(t, repo.Attempt().Create(ctx, newAttempt(6)))

		stats, err := repo.Attempt().GetScoreStats(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.TotalAttempts)
		assert.Nil(t, stats.HighestScore)
	})

	t.Run("concurrent submissions", func(t *testing.T) {
		const workers = 16
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
			conflicts int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := repo.Attempt().Create(ctx, newAttempt(42))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, repositories.ErrDuplicate):
					conflicts++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, succeeded)
		assert.Equal(t, workers-1, conflicts)
		attempts, err := repo.Attempt().ListByTestAndUser(ctx, 1, 42)
		require.NoError(t, err)
		assert.Len(t, attempts, 1)
	})
}

func TestVerificationTokenPostgreSQL(t *testing.T) {
	store := NewVerificationTokenPostgreSQL(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "live", 3, time.Hour))
	require.NoError(t, store.Save(ctx, "stale", 4, -time.Minute))

	userID, err := store.Consume(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, uint(3), userID)

	_, err = store.Consume(ctx, "live")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = store.Consume(ctx, "stale")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = store.Consume(ctx, "stale")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
