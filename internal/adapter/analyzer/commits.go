package analyzer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dhananjaypai08/Judge.AI/internal/domain"
)

// 提交信息里的模板化特征词，出现即视为低质量提交
var templatePhrases = []string{
	"initial commit",
	"first commit",
	"add files",
	"update readme",
}

// AnalyzeCommitQuality 提交质量启发式
// 纯函数：同样的提交列表和参考时间，结果一定相同
func AnalyzeCommitQuality(commits []domain.Commit, now time.Time) domain.CommitAnalysis {
	if len(commits) == 0 {
		return domain.CommitAnalysis{
			QualityScore:    0,
			Issues:          []string{"No commits found"},
			CommitFrequency: "none",
			RecentActivity:  false,
		}
	}

	analysis := domain.CommitAnalysis{
		QualityScore:    50, // 基准分
		Issues:          []string{},
		CommitFrequency: "unknown",
	}

	// 提交数极少是最大的红旗：多半是直接套模板
	if len(commits) <= 2 {
		plural := "s"
		if len(commits) == 1 {
			plural = ""
		}
		analysis.Issues = append(analysis.Issues,
			fmt.Sprintf("Only %d commit%s - likely template usage", len(commits), plural))
		analysis.QualityScore = 10
	} else if len(commits) <= 5 {
		analysis.Issues = append(analysis.Issues,
			fmt.Sprintf("Very few commits (%d) - limited development activity", len(commits)))
		analysis.QualityScore = 30
	} else if len(commits) >= 20 {
		analysis.QualityScore += 20 // 持续开发加分
	}

	// 逐条检查提交信息质量
	for _, c := range commits {
		message := strings.ToLower(c.Message)

		if len(message) > 10 && !strings.Contains(message, "initial commit") && !strings.Contains(message, "first commit") {
			analysis.MeaningfulCommits++
		}

		if isTemplateMessage(message) {
			analysis.TemplateIndicators++
		}
	}

	// 超过一半都是模板式提交，再扣
	if float64(analysis.TemplateIndicators) > float64(len(commits))*0.5 {
		analysis.Issues = append(analysis.Issues, "Many low-quality commit messages detected")
		analysis.QualityScore -= 15
	}

	// 活跃度：最近30天内有没有提交
	thirtyDaysAgo := now.AddDate(0, 0, -30)
	for _, c := range commits {
		if c.Date.After(thirtyDaysAgo) {
			analysis.RecentActivity = true
			break
		}
	}
	if analysis.RecentActivity {
		analysis.QualityScore += 10
	} else {
		analysis.Issues = append(analysis.Issues, "No recent commits in the last 30 days")
		analysis.QualityScore -= 10
	}

	// 提交频率分布 (commits[0] 是最新的)
	if len(commits) > 10 {
		first := commits[len(commits)-1].Date
		last := commits[0].Date
		daysBetween := math.Ceil(last.Sub(first).Hours() / 24)

		if daysBetween > 0 {
			commitsPerDay := float64(len(commits)) / daysBetween
			switch {
			case commitsPerDay > 2:
				analysis.CommitFrequency = "very_active"
			case commitsPerDay > 0.5:
				analysis.CommitFrequency = "active"
			default:
				analysis.CommitFrequency = "sparse"
			}
		}
	}

	analysis.QualityScore = clampInt(analysis.QualityScore, 0, 100)
	return analysis
}

// isTemplateMessage 判断单条提交信息是不是模板式/偷懒式提交
func isTemplateMessage(message string) bool {
	if len(message) < 5 || message == "update" || message == "fix" {
		return true
	}
	for _, phrase := range templatePhrases {
		if strings.Contains(message, phrase) {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
