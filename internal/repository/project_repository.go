package repository

import (
	"github.com/gosimple/slug"

	"github.com/skillforge-app/skillforge-backend/internal/models"
)

// ProjectRepository handles project and submission database operations.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a project, deriving the slug from the title when none
// is supplied.
func (r *ProjectRepository) Create(project *models.Project) error {
	if project.Slug == "" {
		project.Slug = slug.Make(project.Title)
	}
	return r.db.Create(project).Error
}

// GetByID retrieves a project by ID.
func (r *ProjectRepository) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// GetBySlug retrieves a published project by slug.
func (r *ProjectRepository) GetBySlug(slug string) (*models.Project, error) {
	var project models.Project
	err := r.db.
		Where("slug = ? AND is_published = ?", slug, true).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListPublished retrieves published projects, optionally filtered by
// difficulty.
func (r *ProjectRepository) ListPublished(difficulty string) ([]models.Project, error) {
	var projects []models.Project
	q := r.db.Where("is_published = ?", true).Order("id ASC")
	if difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	err := q.Find(&projects).Error
	return projects, err
}

// CreateSubmission appends a new submission attempt.
func (r *ProjectRepository) CreateSubmission(submission *models.ProjectSubmission) error {
	return r.db.Create(submission).Error
}

// GetSubmissionByID retrieves a submission with its project and author.
func (r *ProjectRepository) GetSubmissionByID(id uint) (*models.ProjectSubmission, error) {
	var submission models.ProjectSubmission
	err := r.db.
		Preload("Project").
		Preload("User").
		First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// SaveSubmission persists submission mutations.
func (r *ProjectRepository) SaveSubmission(submission *models.ProjectSubmission) error {
	return r.db.Save(submission).Error
}

// ListPendingSubmissions returns submissions awaiting review, oldest
// first so the queue is fair.
func (r *ProjectRepository) ListPendingSubmissions() ([]models.ProjectSubmission, error) {
	var submissions []models.ProjectSubmission
	err := r.db.
		Where("status = ?", models.SubmissionPending).
		Preload("Project").
		Preload("User").
		Order("submitted_at ASC, id ASC").
		Find(&submissions).Error
	return submissions, err
}

// ListSubmissionsByUser returns a user's submissions, newest first.
func (r *ProjectRepository) ListSubmissionsByUser(userID uint) ([]models.ProjectSubmission, error) {
	var submissions []models.ProjectSubmission
	err := r.db.
		Where("user_id = ?", userID).
		Preload("Project").
		Order("submitted_at DESC, id DESC").
		Find(&submissions).Error
	return submissions, err
}

// CountSubmissions returns the number of submissions for a project.
func (r *ProjectRepository) CountSubmissions(projectID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ProjectSubmission{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

// Count returns the number of projects.
func (r *ProjectRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Count(&count).Error
	return count, err
}
