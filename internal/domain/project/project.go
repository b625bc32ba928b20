package project

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
	"taskflow/internal/domain/task"
)

const (
	NameMaxLength        = 100
	DescriptionMaxLength = 500

	// TaskLimit は 1 プロジェクトに置ける生存タスク数の上限。
	TaskLimit = 20
)

var (
	// ErrTaskLimitExceeded はタスク数が上限に達しているときのエラー。
	ErrTaskLimitExceeded = errors.New("project task limit exceeded")

	// ErrHasPendingTasks は未完了タスクが残るプロジェクトを削除しようとしたときのエラー。
	ErrHasPendingTasks = errors.New("project has pending tasks")
)

// Project は TaskFlow におけるプロジェクトのドメインモデル。
type Project struct {
	base.Entity
	Name        string
	Description string
	CreatedAt   time.Time
	OwnerUserID uuid.UUID
	Version     int
}

// NewProject は新しいプロジェクトを生成する。
// Name が空・長すぎる場合、オーナーが未指定の場合はエラーを返す。
func NewProject(name, description string, ownerUserID uuid.UUID, now time.Time) (*Project, error) {
	if err := base.RequireText("name", name, NameMaxLength); err != nil {
		return nil, err
	}
	if err := base.MaxLength("description", description, DescriptionMaxLength); err != nil {
		return nil, err
	}
	if err := base.RequireID("ownerUserId", ownerUserID); err != nil {
		return nil, err
	}

	return &Project{
		Entity:      base.NewEntity(),
		Name:        name,
		Description: description,
		CreatedAt:   now.UTC(),
		OwnerUserID: ownerUserID,
		Version:     1,
	}, nil
}

// UpdateName は名前を変更する。同じ値なら何もしない。
func (p *Project) UpdateName(name string) error {
	if err := base.RequireText("name", name, NameMaxLength); err != nil {
		return err
	}
	if p.Name != name {
		p.Name = name
	}
	return nil
}

// UpdateDescription は説明を変更する。
func (p *Project) UpdateDescription(description string) error {
	if err := base.MaxLength("description", description, DescriptionMaxLength); err != nil {
		return err
	}
	if p.Description != description {
		p.Description = description
	}
	return nil
}

// ValidateCanAddTask は newTask をこのプロジェクトに追加できるか検証する。
// liveTaskCount はリポジトリで数えた論理削除されていないタスク数。
func (p *Project) ValidateCanAddTask(newTask *task.Task, liveTaskCount int) error {
	if newTask == nil {
		return base.Required("task", "task must not be nil")
	}
	if newTask.ProjectID != p.ID {
		return base.Violation(nil, "task belongs to another project")
	}
	if liveTaskCount >= TaskLimit {
		return base.Violation(ErrTaskLimitExceeded, fmt.Sprintf("project cannot have more than %d tasks", TaskLimit))
	}
	return nil
}
