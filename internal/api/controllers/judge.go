package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/dhananjaypai08/Judge.AI/internal/common"
	"github.com/dhananjaypai08/Judge.AI/internal/domain"
	"github.com/dhananjaypai08/Judge.AI/internal/logging"
	"github.com/dhananjaypai08/Judge.AI/internal/port"
	"github.com/dhananjaypai08/Judge.AI/internal/service"
	"github.com/gin-gonic/gin"
)

// 一轮批量评审的总时限，和批大小/组间延迟无关，纯兜底
const batchTimeout = 30 * time.Minute

// JudgeController 评审相关路由
type JudgeController struct {
	judgeService *service.JudgeService
	store        port.ScoreStore
}

func NewJudgeController(judgeService *service.JudgeService, store port.ScoreStore) *JudgeController {
	return &JudgeController{
		judgeService: judgeService,
		store:        store,
	}
}

func (c *JudgeController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/judge")

	group.POST("", c.judgeSingle)
	group.PUT("", c.judgeAll)
	group.GET("/progress", c.progress)
}

type judgeRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
}

// judgeSingle 单项目评审 (也是失败项目的重试入口)
func (c *JudgeController) judgeSingle(g *gin.Context) {
	var req judgeRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "projectId is required"})
		return
	}

	score, err := c.judgeService.RejudgeProject(g.Request.Context(), req.ProjectID)
	if err != nil {
		logging.Log.Errorf("JUDGE: project %s failed: %v", req.ProjectID, err)
		status := http.StatusInternalServerError
		if common.HasCode(err, common.ErrCodeNotFound) {
			status = http.StatusNotFound
		}
		g.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	g.JSON(http.StatusOK, gin.H{
		"success": true,
		"score":   score,
		"label":   domain.ScoreLabel(score.OverallScore),
	})
}

// judgeAll 批量评审当前会话里的全部项目
// 一轮要跑几分钟，这里立即返回 202，由前端轮询 /api/judge/progress
func (c *JudgeController) judgeAll(g *gin.Context) {
	if _, judging := c.judgeService.Progress(); judging {
		g.JSON(http.StatusConflict, gin.H{"success": false, "error": "batch judging already in progress"})
		return
	}

	states := c.store.List()
	if len(states) == 0 {
		g.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "no projects to judge, fetch projects first"})
		return
	}

	projects := make([]*domain.Project, 0, len(states))
	for _, s := range states {
		projects = append(projects, s.Project)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
		defer cancel()

		result := c.judgeService.JudgeBatch(ctx, projects)
		logging.Log.Infof("JUDGE: batch finished, %d successful / %d failed", result.Successful, result.Failed)
	}()

	g.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"total":   len(projects),
	})
}

// progress 批量评审的实时进度
func (c *JudgeController) progress(g *gin.Context) {
	progress, judging := c.judgeService.Progress()
	g.JSON(http.StatusOK, gin.H{
		"success":  true,
		"judging":  judging,
		"progress": progress,
	})
}
