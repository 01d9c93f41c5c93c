package analyzer

import (
	"time"

	"github.com/dhananjaypai08/Judge.AI/internal/domain"
)

// HealthScore 仓库健康度启发式，和提交质量分开算
// 综合文档、体量、仓库年龄和社区信号，输出 0-100
func HealthScore(snap *domain.RepoSnapshot, now time.Time) int {
	score := 50 // 基准分

	// 黑客松语境下刚创建的仓库反而是好信号
	daysSinceCreation := now.Sub(snap.CreatedAt).Hours() / 24
	if daysSinceCreation < 7 {
		score += 10
	}

	// README 质量
	if snap.Readme != nil {
		if len(snap.Readme.Content) > 500 {
			score += 15
		} else if len(snap.Readme.Content) > 100 {
			score += 5
		}
	} else {
		score -= 10
	}

	// 仓库体量 (KB)：太小可能只有配置文件
	if snap.Size > 1000 {
		score += 10
	} else if snap.Size < 100 {
		score -= 5
	}

	// 社区信号，封顶防止老仓库刷分
	score += minInt(10, snap.Stars*2)
	score += minInt(5, snap.Forks*3)

	return clampInt(score, 0, 100)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
