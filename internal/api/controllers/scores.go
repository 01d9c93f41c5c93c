package controllers

import (
	"net/http"
	"strconv"

	"github.com/dhananjaypai08/Judge.AI/internal/common"
	"github.com/dhananjaypai08/Judge.AI/internal/domain"
	"github.com/dhananjaypai08/Judge.AI/internal/logging"
	"github.com/dhananjaypai08/Judge.AI/internal/port"
	"github.com/gin-gonic/gin"
)

// ScoresController 评分查询/清理路由
type ScoresController struct {
	store   port.ScoreStore
	archive port.ScoreArchive // 可为 nil
}

func NewScoresController(store port.ScoreStore, archive port.ScoreArchive) *ScoresController {
	return &ScoresController{
		store:   store,
		archive: archive,
	}
}

func (c *ScoresController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/scores")

	group.GET("", c.list)
	group.GET("/leaderboard", c.leaderboard)
	group.GET("/:id", c.get)
	group.DELETE("", c.clear)
}

type scoreEntry struct {
	ProjectID string          `json:"projectId"`
	Name      string          `json:"name"`
	Score     *domain.AIScore `json:"score,omitempty"`
	Label     string          `json:"label,omitempty"`
	HasError  bool            `json:"hasError"`
	IsLoading bool            `json:"isLoading"`
}

// list 会话里所有项目的评分状态
func (c *ScoresController) list(g *gin.Context) {
	states := c.store.List()
	entries := make([]scoreEntry, 0, len(states))
	for _, s := range states {
		entry := scoreEntry{
			ProjectID: s.Project.UUID,
			Name:      s.Project.Name,
			Score:     s.Score,
			HasError:  s.HasError,
			IsLoading: s.IsLoading,
		}
		if s.Score != nil {
			entry.Label = domain.ScoreLabel(s.Score.OverallScore)
		}
		entries = append(entries, entry)
	}
	g.JSON(http.StatusOK, gin.H{"success": true, "scores": entries})
}

// get 单个项目的评分状态
func (c *ScoresController) get(g *gin.Context) {
	id := g.Param("id")
	state, ok := c.store.Get(id)
	if !ok {
		g.JSON(http.StatusNotFound, gin.H{"success": false, "error": "project not found"})
		return
	}

	entry := scoreEntry{
		ProjectID: state.Project.UUID,
		Name:      state.Project.Name,
		Score:     state.Score,
		HasError:  state.HasError,
		IsLoading: state.IsLoading,
	}
	if state.Score != nil {
		entry.Label = domain.ScoreLabel(state.Score.OverallScore)
	}
	g.JSON(http.StatusOK, gin.H{"success": true, "score": entry})
}

// leaderboard 持久化存档里的评分排行，未配置数据库时不可用
func (c *ScoresController) leaderboard(g *gin.Context) {
	if c.archive == nil {
		g.JSON(http.StatusNotImplemented, gin.H{"success": false, "error": "score archive not configured"})
		return
	}

	limit, err := strconv.Atoi(g.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		g.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid limit"})
		return
	}

	scores, err := c.archive.Leaderboard(g.Request.Context(), limit)
	if err != nil {
		logging.Log.Errorf("SCORES: leaderboard query failed: %v", err)
		status := http.StatusInternalServerError
		if common.HasCode(err, common.ErrCodeNotFound) {
			status = http.StatusNotFound
		}
		g.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	g.JSON(http.StatusOK, gin.H{"success": true, "scores": scores})
}

// clear 清空会话里的全部评分，项目列表保留
func (c *ScoresController) clear(g *gin.Context) {
	c.store.ClearScores()
	g.JSON(http.StatusOK, gin.H{"success": true})
}
