package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dhananjaypai08/Judge.AI/internal/adapter/analyzer"
	"github.com/dhananjaypai08/Judge.AI/internal/adapter/gemini"
	"github.com/dhananjaypai08/Judge.AI/internal/adapter/github"
	"github.com/dhananjaypai08/Judge.AI/internal/adapter/repository"
	"github.com/dhananjaypai08/Judge.AI/internal/domain"
	"github.com/dhananjaypai08/Judge.AI/internal/service"

	"github.com/joho/godotenv"
)

// 调试用的假项目：有仓库链接、有 Base 测试网特征
var sampleProject = &domain.Project{
	UUID:          "debug-project-1",
	Name:          "ChainSplit",
	Tagline:       "Split group expenses onchain with one tap",
	HasGithubLink: true,
	Links:         "https://github.com/golang/example, https://chainsplit.demo.app",
	Description: []domain.DescriptionSection{
		{
			Title: "The problem it solves",
			Content: "Splitting group expenses with friends usually means a spreadsheet and a lot of trust. " +
				"ChainSplit settles the bill on Base Sepolia so everyone can verify who paid what without a middleman.",
		},
	},
	Members: []domain.Member{
		{Username: "alice"},
		{Username: "bob"},
	},
}

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	// 初始化组件
	inspector := github.NewInspector(os.Getenv("GITHUB_TOKEN"))
	appraiser, err := gemini.NewAppraiser(ctx, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		log.Fatalf("❌ AI 初始化失败: %v", err)
	}

	fmt.Println("🔍 调试模式：对样例项目走一遍完整评审管线")

	// 1. 仓库地址提取
	repoURL, found := inspector.ExtractRepoURL(sampleProject)
	fmt.Printf("📎 提取到仓库地址: %s (found=%v)\n", repoURL, found)

	// 2. Base 集成检测
	base := analyzer.DetectBaseIntegration(sampleProject)
	fmt.Printf("🔗 Base 集成: %s (加分 %g)\n", base.NetworkType, base.BonusScore)

	// 3. 完整评审
	store := repository.NewMemoryStore()
	store.SetProjects([]*domain.Project{sampleProject})
	judgeService := service.NewJudgeService(nil, inspector, appraiser, store, nil, service.NewNormalizer())

	score, err := judgeService.JudgeProject(ctx, sampleProject)
	if err != nil {
		log.Fatalf("❌ 评审失败: %v", err)
	}

	fmt.Printf("\n🏆 总分: %.1f (%s)\n", score.OverallScore, domain.ScoreLabel(score.OverallScore))
	fmt.Printf("   技术实现: %.1f | 创新性: %.1f | 价值主张: %.1f\n",
		score.Breakdown.TechnicalImplementation, score.Breakdown.Innovation, score.Breakdown.ValueProposition)
	fmt.Printf("   完成度: %.1f | 市场潜力: %.1f | 代码质量: %.1f\n",
		score.Breakdown.Completeness, score.Breakdown.MarketPotential, score.Breakdown.CodeQuality)
	fmt.Printf("   置信度: %.2f\n", score.Confidence)
	if score.GithubData != nil {
		fmt.Printf("   仓库: %d commits, 质量 %d/100, 健康度 %d/100\n",
			score.GithubData.TotalCommits, score.GithubData.CommitQuality, score.GithubData.HealthScore)
	}
	fmt.Println("\n📋 Flags:")
	for _, f := range score.Flags {
		fmt.Printf("   - %s\n", f)
	}
	fmt.Println("\n📝 评审意见:")
	fmt.Println(score.Reasoning)
}
