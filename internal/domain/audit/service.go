// internal/domain/audit/service.go
package audit

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service records and lists user actions
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new audit service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// Entry describes an action to record
type Entry struct {
	UserID      *uint
	Action      ActionType
	Description string
	ObjectType  string
	ObjectID    *uint
	Extra       map[string]interface{}
	IPAddress   string
	UserAgent   string
	Err         error
}

// Filter narrows the log listing
type Filter struct {
	UserID     *uint  `form:"user_id"`
	ActionType string `form:"action_type"`
	ObjectType string `form:"object_type"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// ListResponse is a page of action logs
type ListResponse struct {
	Logs       []ActionLog `json:"logs"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
}

// Record stores an entry. Failures are logged and swallowed so auditing
// never breaks the action being audited.
func (s *Service) Record(ctx context.Context, e Entry) {
	entry := ActionLog{
		UserID:      e.UserID,
		ActionType:  e.Action,
		Description: e.Description,
		ObjectType:  e.ObjectType,
		ObjectID:    e.ObjectID,
		ExtraData:   e.Extra,
		IPAddress:   e.IPAddress,
		UserAgent:   e.UserAgent,
		IsSuccess:   e.Err == nil,
	}
	if e.Err != nil {
		entry.ErrorMessage = e.Err.Error()
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.logger.WithError(err).WithField("action_type", e.Action).Error("Failed to record action log")
	}
}

// List returns a page of action logs, newest first
func (s *Service) List(ctx context.Context, f *Filter) (*ListResponse, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}

	query := s.db.WithContext(ctx).Model(&ActionLog{})
	if f.UserID != nil {
		query = query.Where("user_id = ?", *f.UserID)
	}
	if f.ActionType != "" {
		query = query.Where("action_type = ?", f.ActionType)
	}
	if f.ObjectType != "" {
		query = query.Where("object_type = ?", f.ObjectType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count action logs: %w", err)
	}

	var logs []ActionLog
	if err := query.Order("id DESC").Offset((f.Page - 1) * f.Limit).Limit(f.Limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve action logs: %w", err)
	}

	return &ListResponse{
		Logs:       logs,
		Page:       f.Page,
		Limit:      f.Limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(f.Limit))),
	}, nil
}
