package api

import (
	"fmt"

	"github.com/dhananjaypai08/Judge.AI/internal/api/controllers"
	"github.com/dhananjaypai08/Judge.AI/internal/api/transport"
	"github.com/dhananjaypai08/Judge.AI/internal/logging"
	"github.com/dhananjaypai08/Judge.AI/internal/port"
	"github.com/dhananjaypai08/Judge.AI/internal/service"
	"github.com/gin-gonic/gin"
)

// Server 评审面板的 HTTP 服务
type Server struct {
	judgeService *service.JudgeService
	source       port.ProjectSource
	store        port.ScoreStore
	archive      port.ScoreArchive
	port         int
}

func NewServer(
	judgeService *service.JudgeService,
	source port.ProjectSource,
	store port.ScoreStore,
	archive port.ScoreArchive,
	port int,
) *Server {
	return &Server{
		judgeService: judgeService,
		source:       source,
		store:        store,
		archive:      archive,
		port:         port,
	}
}

func (s *Server) Start() error {
	r := transport.NewRouter(gin.ReleaseMode)

	// Register controllers
	projectsController := controllers.NewProjectsController(s.judgeService, s.source, s.store)
	projectsController.RegisterRoutes(r)
	judgeController := controllers.NewJudgeController(s.judgeService, s.store)
	judgeController.RegisterRoutes(r)
	scoresController := controllers.NewScoresController(s.store, s.archive)
	scoresController.RegisterRoutes(r)

	logging.Log.Infof("Starting server on http://localhost:%d", s.port)
	return r.Run(fmt.Sprintf(":%d", s.port))
}
