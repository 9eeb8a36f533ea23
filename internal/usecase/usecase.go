package usecase

import (
	"context"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/repository"
	"github.com/Sahil-1827/task-management-system-backend/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	TaskUsecaseInterface
	TeamUsecaseInterface
	UserUsecaseInterface
	CommentUsecaseInterface
	ActivityUsecaseInterface
	// Wait blocks until background notifications have been delivered.
	Wait()
}

// New constructs a new usecase layer with its dependencies.
func New(log *zap.SugaredLogger, ctx context.Context, repo repository.Repository, timeout time.Duration, opts ...domain.Option) InterfaceUsecase {
	return domain.New(log, ctx, repo, timeout, opts...)
}
