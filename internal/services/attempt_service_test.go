package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAttemptService_Assign(t *testing.T) {
	t.Run("one row per user id including duplicates", func(t *testing.T) {
		repo := newMockRepository()
		notifier, publisher := newTestNotifier()
		repo.tests.On("GetByID", mock.Anything, uint(1)).Return(&models.Test{ID: 1, Name: "Quiz"}, nil)
		repo.assignments.On("CreateBatch", mock.Anything, mock.MatchedBy(func(rows []*models.TestAssignment) bool {
			return len(rows) == 3 && rows[0].UserID == 5 && rows[1].UserID == 5 && rows[2].UserID == 6
		})).Return(nil)
		svc := NewAttemptService(repo, notifier, discardLogger(), validator.New())

		err := svc.Assign(context.Background(), 1, &AssignTestRequest{UserIDs: []uint{5, 5, 6}}, 2)

		require.NoError(t, err)
		event, ok := publisher.LastEventOfType(events.EventTestAssigned)
		require.True(t, ok)
		assert.Equal(t, []uint{5, 5, 6}, event.Data.(events.TestAssignedEvent).UserIDs)
		repo.assignments.AssertExpectations(t)
	})

	t.Run("missing test", func(t *testing.T) {
		repo := newMockRepository()
		notifier, publisher := newTestNotifier()
		repo.tests.On("GetByID", mock.Anything, uint(1)).Return(nil, repositories.ErrNotFound)
		svc := NewAttemptService(repo, notifier, discardLogger(), validator.New())

		err := svc.Assign(context.Background(), 1, &AssignTestRequest{UserIDs: []uint{5}}, 2)

		assert.ErrorIs(t, err, ErrTestNotFound)
		assert.Empty(t, publisher.GetPublishedEvents())
	})

	t.Run("empty user list", func(t *testing.T) {
		repo := newMockRepository()
		notifier, _ := newTestNotifier()
		svc := NewAttemptService(repo, notifier, discardLogger(), validator.New())

		err := svc.Assign(context.Background(), 1, &AssignTestRequest{}, 2)

		assert.True(t, IsValidation(err))
	})
}

func TestAttemptService_Submit(t *testing.T) {
	tests := []struct {
		name       string
		answers    json.RawMessage
		setupMocks func(*MockRepository)
		expectErr  error
		expectJSON string
	}{
		{
			name:    "stores raw answers",
			answers: json.RawMessage(`[{"question_id":1,"answer":"4"}]`),
			setupMocks: func(repo *MockRepository) {
				repo.tests.On("GetByID", mock.Anything, uint(1)).Return(&models.Test{ID: 1}, nil)
				repo.attempts.On("Create", mock.Anything, mock.AnythingOfType("*models.TestAttempt")).
					Run(func(args mock.Arguments) { args.Get(1).(*models.TestAttempt).ID = 30 }).
					Return(nil)
			},
			expectJSON: `[{"question_id":1,"answer":"4"}]`,
		},
		{
			name: "missing answers default to an empty array",
			setupMocks: func(repo *MockRepository) {
				repo.tests.On("GetByID", mock.Anything, uint(1)).Return(&models.Test{ID: 1}, nil)
				repo.attempts.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectJSON: `[]`,
		},
		{
			name: "second submission",
			setupMocks: func(repo *MockRepository) {
				repo.tests.On("GetByID", mock.Anything, uint(1)).Return(&models.Test{ID: 1}, nil)
				repo.attempts.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicate)
			},
			expectErr: ErrAlreadyAttempted,
		},
		{
			name: "missing test",
			setupMocks: func(repo *MockRepository) {
				repo.tests.On("GetByID", mock.Anything, uint(1)).Return(nil, repositories.ErrNotFound)
			},
			expectErr: ErrTestNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			notifier, publisher := newTestNotifier()
			tt.setupMocks(repo)
			svc := NewAttemptService(repo, notifier, discardLogger(), validator.New())

			attempt, err := svc.Submit(context.Background(), 1, &SubmitAttemptRequest{Answers: tt.answers}, 9)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, attempt)
				_, published := publisher.LastEventOfType(events.EventAttemptSubmitted)
				assert.False(t, published)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(9), attempt.UserID)
			assert.Nil(t, attempt.Score)
			require.NotNil(t, attempt.SubmittedAt)
			assert.Equal(t, attempt.StartedAt, *attempt.SubmittedAt)
			assert.JSONEq(t, tt.expectJSON, string(attempt.Answers))
			_, published := publisher.LastEventOfType(events.EventAttemptSubmitted)
			assert.True(t, published)
		})
	}
}

func TestAttemptService_GetResults(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		setup     func(*MockAttemptRepository)
	}{
		{
			name:      "teacher sees all attempts",
			principal: Principal{UserID: 1, Role: models.RoleTeacher},
			setup: func(m *MockAttemptRepository) {
				m.On("ListByTest", mock.Anything, uint(4)).Return([]*models.TestAttempt{{ID: 1}, {ID: 2}}, nil)
			},
		},
		{
			name:      "student sees own attempts",
			principal: Principal{UserID: 7, Role: models.RoleStudent},
			setup: func(m *MockAttemptRepository) {
				m.On("ListByTestAndUser", mock.Anything, uint(4), uint(7)).Return([]*models.TestAttempt{{ID: 2}}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			notifier, _ := newTestNotifier()
			repo.tests.On("GetByID", mock.Anything, uint(4)).Return(&models.Test{ID: 4}, nil)
			tt.setup(repo.attempts)
			svc := NewAttemptService(repo, notifier, discardLogger(), validator.New())

			_, err := svc.GetResults(context.Background(), 4, tt.principal)

			require.NoError(t, err)
			repo.attempts.AssertExpectations(t)
		})
	}
}

func TestAttemptService_GetAttempt(t *testing.T) {
	repo := newMockRepository()
	notifier, _ := newTestNotifier()
	repo.attempts.On("GetByTestAndUser", mock.Anything, uint(4), uint(7)).Return(nil, repositories.ErrNotFound)
	svc := NewAttemptService(repo, notifier, discardLogger(), validator.New())

	_, err := svc.GetAttempt(context.Background(), 4, 7)

	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestAnalyticsService_GetTestAnalytics(t *testing.T) {
	t.Run("no attempts yields null aggregates and empty breakdowns", func(t *testing.T) {
		repo := newMockRepository()
		repo.tests.On("GetByID", mock.Anything, uint(4)).Return(&models.Test{ID: 4}, nil)
		repo.attempts.On("GetScoreStats", mock.Anything, uint(4)).Return(&repositories.ScoreStats{}, nil)
		svc := NewAnalyticsService(repo, discardLogger())

		analytics, err := svc.GetTestAnalytics(context.Background(), 4)

		require.NoError(t, err)
		assert.Equal(t, uint(4), analytics.TestID)
		assert.Nil(t, analytics.AverageScore)
		assert.Zero(t, analytics.TotalAttempts)
		assert.NotNil(t, analytics.QuestionStats)
		assert.Empty(t, analytics.TopicStats)
	})

	t.Run("missing test", func(t *testing.T) {
		repo := newMockRepository()
		repo.tests.On("GetByID", mock.Anything, uint(4)).Return(nil, repositories.ErrNotFound)
		svc := NewAnalyticsService(repo, discardLogger())

		_, err := svc.GetTestAnalytics(context.Background(), 4)

		assert.ErrorIs(t, err, ErrTestNotFound)
	})
}
