package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dhananjaypai08/Judge.AI/internal/common"
	"github.com/dhananjaypai08/Judge.AI/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresRepo 实现了 port.ScoreArchive 接口，跨会话保存评审历史
type PostgresRepo struct {
	db *gorm.DB
}

// NewPostgresRepo 初始化数据库连接并自动迁移表结构
func NewPostgresRepo(dsn string) (*PostgresRepo, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "连接数据库失败", err)
	}

	// AutoMigrate 会自动建 ai_scores 表，字段变了也会跟着更新
	if err := db.AutoMigrate(&domain.AIScore{}); err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "数据库迁移失败", err)
	}

	return &PostgresRepo{db: db}, nil
}

// Save 按项目 UUID upsert：重判覆盖旧评分，一个项目只留最新一条
func (r *PostgresRepo) Save(ctx context.Context, score *domain.AIScore) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		UpdateAll: true,
	}).Create(score)
	if result.Error != nil {
		return common.WrapError(common.ErrCodeDatabase,
			fmt.Sprintf("保存项目 %s 的评分失败", score.ProjectID), result.Error)
	}
	return nil
}

// Get 读取单个项目的最新评分
func (r *PostgresRepo) Get(ctx context.Context, projectID string) (*domain.AIScore, error) {
	var score domain.AIScore
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NewError(common.ErrCodeNotFound, fmt.Sprintf("项目 %s 没有评分记录", projectID))
	}
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "查询评分失败", err)
	}
	return &score, nil
}

// Leaderboard 按总分降序返回前 N 条评分
func (r *PostgresRepo) Leaderboard(ctx context.Context, limit int) ([]*domain.AIScore, error) {
	if limit <= 0 {
		limit = 20
	}
	var scores []*domain.AIScore
	err := r.db.WithContext(ctx).
		Order("overall_score DESC").
		Limit(limit).
		Find(&scores).Error
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "查询排行榜失败", err)
	}
	return scores, nil
}
