package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTestService_Create(t *testing.T) {
	tests := []struct {
		name       string
		request    *CreateTestRequest
		setupMocks func(*MockRepository)
		expectMsg  string
	}{
		{
			name:    "creates test with links in request order",
			request: &CreateTestRequest{Name: " Midterm ", SubjectID: uintPtr(1), QuestionIDs: []uint{3, 1, 3}},
			setupMocks: func(repo *MockRepository) {
				repo.subjects.On("GetSubject", mock.Anything, uint(1)).Return(&models.Subject{ID: 1}, nil)
				repo.questions.On("ExistingIDs", mock.Anything, []uint{3, 1, 3}).Return([]uint{1, 3}, nil)
				repo.tests.On("Create", mock.Anything, mock.MatchedBy(func(test *models.Test) bool {
					return test.Name == "Midterm" && test.CreatedBy == 8
				}), []uint{3, 1, 3}).Run(func(args mock.Arguments) {
					args.Get(1).(*models.Test).ID = 12
				}).Return(nil)
			},
		},
		{
			name:    "unknown question id",
			request: &CreateTestRequest{Name: "Quiz", QuestionIDs: []uint{1, 99}},
			setupMocks: func(repo *MockRepository) {
				repo.questions.On("ExistingIDs", mock.Anything, []uint{1, 99}).Return([]uint{1}, nil)
			},
			expectMsg: "invalid question reference: 99",
		},
		{
			name: "window ends before it starts",
			request: &CreateTestRequest{
				Name:      "Quiz",
				StartTime: timePtr(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)),
				EndTime:   timePtr(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
			},
			setupMocks: func(*MockRepository) {},
			expectMsg:  "end_time must not be before start_time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			tt.setupMocks(repo)
			svc := NewTestService(repo, discardLogger(), validator.New())

			test, err := svc.Create(context.Background(), tt.request, 8)

			if tt.expectMsg != "" {
				var inputErr *InputError
				require.True(t, errors.As(err, &inputErr), "expected InputError, got %v", err)
				assert.Equal(t, tt.expectMsg, inputErr.Message)
				repo.tests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint(12), test.ID)
			}
			repo.tests.AssertExpectations(t)
			repo.questions.AssertExpectations(t)
		})
	}
}

func TestTestService_List(t *testing.T) {
	all := []*models.Test{{ID: 1}, {ID: 2}}
	assigned := []*models.Test{{ID: 2}, {ID: 2}}

	tests := []struct {
		name      string
		principal Principal
		setup     func(*MockTestRepository)
		expected  []*models.Test
	}{
		{
			name:      "teacher sees every test",
			principal: Principal{UserID: 1, Role: models.RoleTeacher},
			setup:     func(m *MockTestRepository) { m.On("List", mock.Anything).Return(all, nil) },
			expected:  all,
		},
		{
			name:      "student sees one row per assignment",
			principal: Principal{UserID: 5, Role: models.RoleStudent},
			setup:     func(m *MockTestRepository) { m.On("ListAssignedTo", mock.Anything, uint(5)).Return(assigned, nil) },
			expected:  assigned,
		},
		{
			name:      "no assignments yields an empty list",
			principal: Principal{UserID: 6, Role: models.RoleStudent},
			setup:     func(m *MockTestRepository) { m.On("ListAssignedTo", mock.Anything, uint(6)).Return(nil, nil) },
			expected:  []*models.Test{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			tt.setup(repo.tests)
			svc := NewTestService(repo, discardLogger(), validator.New())

			got, err := svc.List(context.Background(), tt.principal)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			repo.tests.AssertExpectations(t)
		})
	}
}

func TestTestService_Update(t *testing.T) {
	t.Run("changes only supplied fields and replaces questions", func(t *testing.T) {
		repo := newMockRepository()
		repo.tests.On("GetByID", mock.Anything, uint(2)).Return(&models.Test{ID: 2, Name: "Old"}, nil)
		repo.tests.On("UpdateFields", mock.Anything, uint(2), map[string]interface{}{
			"name":         "New",
			"is_published": true,
		}).Return(nil)
		repo.questions.On("ExistingIDs", mock.Anything, []uint{4}).Return([]uint{4}, nil)
		repo.tests.On("ReplaceQuestions", mock.Anything, uint(2), []uint{4}).Return(nil)
		repo.questions.On("GetByTest", mock.Anything, uint(2), false).Return([]*models.Question{{ID: 4}}, nil)
		svc := NewTestService(repo, discardLogger(), validator.New())

		published := true
		ids := []uint{4}
		test, err := svc.Update(context.Background(), 2, &UpdateTestRequest{
			Name:        stringPtr(" New "),
			IsPublished: &published,
			QuestionIDs: &ids,
		})

		require.NoError(t, err)
		require.Len(t, test.Questions, 1)
		repo.tests.AssertExpectations(t)
	})

	t.Run("absent question_ids keeps links", func(t *testing.T) {
		repo := newMockRepository()
		repo.tests.On("GetByID", mock.Anything, uint(2)).Return(&models.Test{ID: 2}, nil)
		repo.tests.On("UpdateFields", mock.Anything, uint(2), map[string]interface{}{"pattern": "A"}).Return(nil)
		repo.questions.On("GetByTest", mock.Anything, uint(2), false).Return(nil, nil)
		svc := NewTestService(repo, discardLogger(), validator.New())

		_, err := svc.Update(context.Background(), 2, &UpdateTestRequest{Pattern: stringPtr("A")})

		require.NoError(t, err)
		repo.tests.AssertNotCalled(t, "ReplaceQuestions", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing test", func(t *testing.T) {
		repo := newMockRepository()
		repo.tests.On("GetByID", mock.Anything, uint(2)).Return(nil, repositories.ErrNotFound)
		svc := NewTestService(repo, discardLogger(), validator.New())

		_, err := svc.Update(context.Background(), 2, &UpdateTestRequest{Pattern: stringPtr("A")})

		assert.ErrorIs(t, err, ErrTestNotFound)
	})
}

func TestTestService_Delete(t *testing.T) {
	repo := newMockRepository()
	repo.tests.On("Delete", mock.Anything, uint(1)).Return(nil)
	repo.tests.On("Delete", mock.Anything, uint(2)).Return(repositories.ErrNotFound)
	svc := NewTestService(repo, discardLogger(), validator.New())

	assert.NoError(t, svc.Delete(context.Background(), 1))
	assert.ErrorIs(t, svc.Delete(context.Background(), 2), ErrTestNotFound)
}

func timePtr(t time.Time) *time.Time { return &t }
