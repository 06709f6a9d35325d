package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/app/repositories"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockExamStore struct {
	mock.Mock
}

func (m *MockExamStore) List(ctx context.Context, userID string, offset, limit uint64) ([]*models.Exam, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Exam), args.Get(1).(int64), args.Error(2)
}

func (m *MockExamStore) GetByID(ctx context.Context, userID, id string) (*models.Exam, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamStore) Create(ctx context.Context, exam *models.Exam) error {
	return m.Called(ctx, exam).Error(0)
}

func (m *MockExamStore) Update(ctx context.Context, exam *models.Exam) error {
	return m.Called(ctx, exam).Error(0)
}

func (m *MockExamStore) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockQuestionStore struct {
	mock.Mock
}

func (m *MockQuestionStore) List(ctx context.Context, userID string, filter repositories.QuestionFilter, offset, limit uint64) ([]*models.QuestionBankItem, int64, error) {
	args := m.Called(ctx, userID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.QuestionBankItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionStore) Create(ctx context.Context, item *models.QuestionBankItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockQuestionStore) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockQuestionStore) IncrementUsage(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}
