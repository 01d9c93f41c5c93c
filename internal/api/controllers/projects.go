package controllers

import (
	"net/http"
	"strconv"

	"github.com/dhananjaypai08/Judge.AI/internal/logging"
	"github.com/dhananjaypai08/Judge.AI/internal/port"
	"github.com/dhananjaypai08/Judge.AI/internal/service"
	"github.com/gin-gonic/gin"
)

// ProjectsController 项目列表相关路由
type ProjectsController struct {
	judgeService *service.JudgeService
	source       port.ProjectSource
	store        port.ScoreStore
}

func NewProjectsController(judgeService *service.JudgeService, source port.ProjectSource, store port.ScoreStore) *ProjectsController {
	return &ProjectsController{
		judgeService: judgeService,
		source:       source,
		store:        store,
	}
}

func (c *ProjectsController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/projects")

	group.GET("", c.list)
	group.GET("/search", c.search)
	group.POST("/fetch", c.fetch)
}

// list 当前会话里的全部项目状态 (未评分/评审中/失败/已评分)
func (c *ProjectsController) list(g *gin.Context) {
	states := c.store.List()
	g.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": states,
		"total":    len(states),
	})
}

// search 透传 Devfolio 搜索接口的单页结果
func (c *ProjectsController) search(g *gin.Context) {
	from, err := strconv.Atoi(g.DefaultQuery("from", "0"))
	if err != nil || from < 0 {
		g.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid from"})
		return
	}
	size, err := strconv.Atoi(g.DefaultQuery("size", "20"))
	if err != nil || size <= 0 {
		g.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid size"})
		return
	}

	projects, total, err := c.source.Search(g.Request.Context(), from, size)
	if err != nil {
		logging.Log.Errorf("PROJECTS: search failed: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{
			"success":  false,
			"error":    err.Error(),
			"projects": []interface{}{},
			"total":    0,
		})
		return
	}

	g.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": projects,
		"total":    total,
		"from":     from,
		"size":     size,
	})
}

// fetch 从项目源拉取全部项目并重置会话
func (c *ProjectsController) fetch(g *gin.Context) {
	states, err := c.judgeService.LoadProjects(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("PROJECTS: fetch all failed: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	g.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": states,
		"total":    len(states),
	})
}
