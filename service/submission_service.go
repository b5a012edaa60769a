package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path"
	"strings"
	"time"

	"github.com/RigelNana/edubridge/models"
	"github.com/RigelNana/edubridge/pkg/metrics"
	"github.com/RigelNana/edubridge/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type CreateSubmissionInput struct {
	TaskID uuid.UUID
	File   *UploadedFile
}

type CreatedSubmission struct {
	Submission *models.Submission `json:"submission"`
	File       *models.File       `json:"file"`
}

// StatusUpdate carries a manual review. Nil fields are left untouched.
type StatusUpdate struct {
	Status   models.SubmissionStatus
	Feedback *string
	Grade    *float64
}

// GradeResult is the reviewed submission plus its portfolio entry, which is
// nil unless the submission is portfolio eligible.
type GradeResult struct {
	Updated   *models.Submission     `json:"updated"`
	Portfolio *models.PortfolioEntry `json:"portfolio"`
}

type SubmissionService interface {
	Create(ctx context.Context, caller *Identity, in CreateSubmissionInput) (*CreatedSubmission, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Submission, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Submission, error)
	ListFiles(ctx context.Context, submissionID uuid.UUID) ([]*models.File, error)
	GradeSubmission(ctx context.Context, id uuid.UUID, grade float64, feedback *string) (*GradeResult, error)
	SetSubmissionStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) (*GradeResult, error)
}

type SubmissionServiceImpl struct {
	users       repository.UserRepository
	tasks       repository.TaskRepository
	submissions repository.SubmissionRepository
	portfolio   repository.PortfolioRepository
	blobs       BlobStore
	log         logrus.FieldLogger
	now         func() time.Time
}

func NewSubmissionService(
	users repository.UserRepository,
	tasks repository.TaskRepository,
	submissions repository.SubmissionRepository,
	portfolio repository.PortfolioRepository,
	blobs BlobStore,
	log logrus.FieldLogger,
) SubmissionService {
	return &SubmissionServiceImpl{
		users:       users,
		tasks:       tasks,
		submissions: submissions,
		portfolio:   portfolio,
		blobs:       blobs,
		log:         log,
		now:         time.Now,
	}
}

// Create stores a student's upload for a task. The object is written to the
// blob store first; the submission and file rows follow in one transaction,
// and the object is removed again if that transaction fails.
func (s *SubmissionServiceImpl) Create(ctx context.Context, caller *Identity, in CreateSubmissionInput) (*CreatedSubmission, error) {
	if caller == nil {
		return nil, newError(ErrUnauthorized, "Authentication required")
	}
	if in.TaskID == uuid.Nil {
		return nil, validationError("task_id is required")
	}
	if in.File == nil || in.File.Content == nil {
		return nil, validationError("file is required")
	}

	// 1. 校验提交者身份与任务
	student, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	if student.Role != models.RoleStudent {
		return nil, newError(ErrForbidden, "Only students can create submissions")
	}
	if _, err := s.tasks.GetByID(ctx, in.TaskID); err != nil {
		return nil, lookupError(err, "task")
	}

	// 2. 生成唯一的对象名
	sub := &models.Submission{
		ID:     uuid.New(),
		TaskID: in.TaskID,
		UserID: student.ID,
		Status: models.SubmissionStatusPending,
	}
	filename := cleanFilename(in.File.Filename)
	objectPath := fmt.Sprintf("submissions/%s/%d_%s", sub.ID, s.now().UnixMilli(), filename)
	contentType := in.File.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// 3. 上传到 MinIO
	url, err := s.blobs.Put(ctx, objectPath, in.File.Content, in.File.Size, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store submission file: %w", err)
	}

	meta, err := json.Marshal(map[string]interface{}{"original_name": in.File.Filename})
	if err != nil {
		return nil, err
	}
	file := &models.File{
		ObjectPath: objectPath,
		FilePath:   url,
		FileType:   contentType,
		SizeBytes:  in.File.Size,
		Metadata:   datatypes.JSON(meta),
	}

	// 4. 保存提交与文件记录，失败时清理已上传的对象
	if err := s.submissions.CreateWithFile(ctx, sub, file); err != nil {
		if rmErr := s.blobs.Remove(ctx, objectPath); rmErr != nil {
			s.log.WithError(rmErr).WithField("object", objectPath).Warn("failed to remove orphaned upload")
		}
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"submission_id": sub.ID,
		"task_id":       sub.TaskID,
		"user_id":       sub.UserID,
	}).Info("submission created")
	return &CreatedSubmission{Submission: sub, File: file}, nil
}

func (s *SubmissionServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	sub, err := s.submissions.GetDetailed(ctx, id)
	if err != nil {
		return nil, lookupError(err, "submission")
	}
	return sub, nil
}

func (s *SubmissionServiceImpl) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Submission, error) {
	return s.submissions.ListByTask(ctx, taskID)
}

func (s *SubmissionServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Submission, error) {
	return s.submissions.ListByUser(ctx, userID)
}

func (s *SubmissionServiceImpl) ListFiles(ctx context.Context, submissionID uuid.UUID) ([]*models.File, error) {
	if _, err := s.submissions.GetByID(ctx, submissionID); err != nil {
		return nil, lookupError(err, "submission")
	}
	return s.submissions.ListFiles(ctx, submissionID)
}

func (s *SubmissionServiceImpl) GradeSubmission(ctx context.Context, id uuid.UUID, grade float64, feedback *string) (*GradeResult, error) {
	if math.IsNaN(grade) || math.IsInf(grade, 0) {
		return nil, validationError("grade must be a number")
	}

	updates := map[string]interface{}{
		"grade":  grade,
		"status": DeriveStatus(&grade),
	}
	if feedback != nil {
		updates["feedback"] = *feedback
	}

	sub, err := s.submissions.UpdateFields(ctx, id, updates)
	if err != nil {
		return nil, lookupError(err, "submission")
	}
	return s.settle(ctx, sub)
}

func (s *SubmissionServiceImpl) SetSubmissionStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) (*GradeResult, error) {
	if !update.Status.Valid() {
		return nil, validationError("invalid status")
	}

	updates := map[string]interface{}{"status": update.Status}
	if update.Feedback != nil {
		updates["feedback"] = *update.Feedback
	}
	if update.Grade != nil {
		if math.IsNaN(*update.Grade) || math.IsInf(*update.Grade, 0) {
			return nil, validationError("grade must be a number")
		}
		updates["grade"] = *update.Grade
	}

	sub, err := s.submissions.UpdateFields(ctx, id, updates)
	if err != nil {
		return nil, lookupError(err, "submission")
	}
	return s.settle(ctx, sub)
}

// settle records the review and admits the stored submission to the
// portfolio when it is eligible.
func (s *SubmissionServiceImpl) settle(ctx context.Context, sub *models.Submission) (*GradeResult, error) {
	// 记录指标
	metrics.SubmissionsGraded.WithLabelValues(string(sub.Status)).Inc()
	result := &GradeResult{Updated: sub}
	if !IsPortfolioEligible(sub.Status, sub.Grade) {
		return result, nil
	}

	entry, created, err := s.portfolio.CreateIfAbsent(ctx, sub.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create portfolio entry: %w", err)
	}
	if created {
		metrics.PortfolioEntriesCreated.Inc()
		s.log.WithFields(logrus.Fields{
			"submission_id": sub.ID,
			"user_id":       sub.UserID,
		}).Info("portfolio entry created")
	}
	result.Portfolio = entry
	return result, nil
}

func cleanFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return "upload"
	}
	return name
}
