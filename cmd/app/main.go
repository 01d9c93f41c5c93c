package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/dhananjaypai08/Judge.AI/internal/adapter/devfolio"
	"github.com/dhananjaypai08/Judge.AI/internal/adapter/gemini"
	"github.com/dhananjaypai08/Judge.AI/internal/adapter/github"
	"github.com/dhananjaypai08/Judge.AI/internal/adapter/repository"
	"github.com/dhananjaypai08/Judge.AI/internal/api"
	"github.com/dhananjaypai08/Judge.AI/internal/domain"
	"github.com/dhananjaypai08/Judge.AI/internal/logging"
	"github.com/dhananjaypai08/Judge.AI/internal/port"
	"github.com/dhananjaypai08/Judge.AI/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// 1. 定义命令行参数
	mode := flag.String("mode", "serve", "运行模式: serve (评审面板 API) 或 judge (命令行批量评审)")
	interval := flag.Int("interval", 0, "judge 模式定时执行间隔（分钟），0表示只执行一次")
	batchSize := flag.Int("batch", 3, "每组并发评审的项目数")
	port_ := flag.Int("port", 8080, "serve 模式监听端口")
	flag.Parse()

	// 2. 加载 .env (没有也不报错，环境变量可以直接给)
	_ = godotenv.Load()
	logging.BootstrapLogger()

	// 3. 初始化 AI 依赖
	ctx := context.Background()
	geminiKey := os.Getenv("GEMINI_API_KEY")
	appraiser, err := gemini.NewAppraiser(ctx, geminiKey)
	if err != nil {
		log.Fatalf("❌ AI 初始化失败: %v", err)
	}

	// 4. 初始化其余依赖
	inspector := github.NewInspector(os.Getenv("GITHUB_TOKEN"))
	source := devfolio.NewClient(os.Getenv("HACKATHON_SLUG"), os.Getenv("DEVFOLIO_COOKIE"))
	store := repository.NewMemoryStore()

	var archive port.ScoreArchive
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pg, err := repository.NewPostgresRepo(dsn)
		if err != nil {
			log.Fatalf("❌ DB 初始化失败: %v", err)
		}
		archive = pg
	} else {
		log.Println("⚠️ 未配置 DATABASE_URL，评审结果只保留在会话内存里")
	}

	judgeService := service.NewJudgeService(source, inspector, appraiser, store, archive, service.NewNormalizer())
	judgeService.SetBatchSize(*batchSize)

	// 5. 根据模式分流
	switch *mode {
	case "serve":
		server := api.NewServer(judgeService, source, store, archive, *port_)
		if err := server.Start(); err != nil {
			log.Fatalf("❌ HTTP 服务启动失败: %v", err)
		}
	case "judge":
		if *interval > 0 {
			runScheduledJudging(judgeService, *interval)
		} else {
			runJudgeCycle(judgeService)
		}
	default:
		fmt.Println("❌ 未知模式，请使用 -mode=serve 或 -mode=judge")
	}
}

// runScheduledJudging 定时批量评审 (黑客松期间项目会持续更新)
func runScheduledJudging(judgeService *service.JudgeService, interval int) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(interval) * time.Minute)
	defer ticker.Stop()

	fmt.Printf("⏰ 定时评审模式已启动，每 %d 分钟执行一次\n", interval)
	fmt.Println("按下 Ctrl+C 可以优雅停止程序")

	// 立即执行一次
	runJudgeCycle(judgeService)

	for {
		select {
		case <-ticker.C:
			runJudgeCycle(judgeService)
		case <-sigChan:
			fmt.Println("\n👋 收到停止信号，正在退出...")
			return
		}
	}
}

// runJudgeCycle 执行一轮完整评审：拉项目 → 批量打分 → 打印排行
func runJudgeCycle(judgeService *service.JudgeService) {
	// 为整轮评审设置超时时间(30分钟)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	states, err := judgeService.LoadProjects(ctx)
	if err != nil {
		log.Printf("❌ 拉取项目失败: %v", err)
		return
	}
	if len(states) == 0 {
		fmt.Println("📭 没有拉到任何项目")
		return
	}

	projects := make([]*domain.Project, 0, len(states))
	for _, s := range states {
		projects = append(projects, s.Project)
	}

	result := judgeService.JudgeBatch(ctx, projects)
	printLeaderboard(result)
}

// printLeaderboard 打印本轮评审的前10名和失败列表
func printLeaderboard(result *domain.BatchResult) {
	scored := make([]domain.JudgeOutcome, 0, result.Successful)
	for _, o := range result.Outcomes {
		if o.Success {
			scored = append(scored, o)
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score.OverallScore > scored[j].Score.OverallScore
	})

	fmt.Println("\n================ [ 评审排行榜 ] ================")
	for i, o := range scored {
		if i >= 10 {
			break
		}
		fmt.Printf("%2d. %-40s %.1f (%s)\n", i+1, o.Name, o.Score.OverallScore, domain.ScoreLabel(o.Score.OverallScore))
	}
	if result.Failed > 0 {
		fmt.Printf("\n⚠️ %d 个项目评审失败:\n", result.Failed)
		for _, o := range result.Outcomes {
			if !o.Success {
				fmt.Printf("   - %s: %s\n", o.Name, o.Error)
			}
		}
	}
	fmt.Println("==================================================")
}
