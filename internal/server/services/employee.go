package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lendaro/bankcore/internal/server/models"
	"github.com/lendaro/bankcore/internal/server/repositories/repomanager"
)

type EmployeeService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewEmployeeService(db *sql.DB, m repomanager.RepositoryManager) *EmployeeService {
	return &EmployeeService{db: db, repos: m}
}

func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {

	repo := s.repos.Employees(s.db)

	result, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing employees: %w", err)
	}

	return result, nil
}
