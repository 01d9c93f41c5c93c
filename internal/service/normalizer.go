package service

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/dhananjaypai08/Judge.AI/internal/domain"
)

// 分项权重，总和必须是 100
const (
	weightTechnical        = 0.25
	weightInnovation       = 0.20
	weightValueProposition = 0.20
	weightCompleteness     = 0.15
	weightMarketPotential  = 0.10
	weightCodeQuality      = 0.10
)

// Normalizer 把模型的原始分项和派生信号压成最终评分
// 除了末尾的微抖动，整个流程对相同输入完全确定
type Normalizer struct {
	// 抖动总幅度 (±一半)，0 表示关闭。默认 0.8 即 ±0.4
	// 抖动只是防止大量项目落在同一个分数上，不是评分信号
	jitterWidth float64
	randFn      func() float64 // 返回 [0,1)
}

// ScoreComputation 一次归一化的完整产物，含给人看的加减分轨迹
type ScoreComputation struct {
	BaseScore       float64
	TotalPenalty    float64
	BonusPoints     float64
	FinalScore      float64
	AnalysisDetails string
	SystemFlags     []string
}

// NewNormalizer 创建带默认抖动的归一化器
func NewNormalizer() *Normalizer {
	return &Normalizer{
		jitterWidth: 0.8,
		randFn:      rand.Float64,
	}
}

// SetJitterWidth 调整抖动幅度，传 0 可完全关闭 (测试需要确定性时用)
func (n *Normalizer) SetJitterWidth(width float64) {
	if width >= 0 {
		n.jitterWidth = width
	}
}

// SetRandFunc 注入随机源，便于测试固定种子
func (n *Normalizer) SetRandFunc(fn func() float64) {
	if fn != nil {
		n.randFn = fn
	}
}

// WeightedBase 六个标准分项的加权和，权重见上方常量
func WeightedBase(b *domain.RawBreakdown) float64 {
	return b.TechnicalImplementation*weightTechnical +
		b.Innovation*weightInnovation +
		b.ValueProposition*weightValueProposition +
		b.Completeness*weightCompleteness +
		b.MarketPotential*weightMarketPotential +
		b.CodeQuality*weightCodeQuality
}

// Normalize 评分归一化主流程：
// 加权基础分 → 累计罚分/加分 → 80以上对数压缩 → 90以上二次压缩 → 微抖动 → clamp [1,100]
// hadRepoLink 表示项目声称有仓库或解析出了仓库地址 (用来区分 "没给仓库" 和 "仓库打不开")
func (n *Normalizer) Normalize(
	project *domain.Project,
	breakdown *domain.RawBreakdown,
	repo *domain.RepoSignal,
	base *domain.BaseSignal,
	hadRepoLink bool,
) ScoreComputation {
	baseScore := WeightedBase(breakdown)

	var totalPenalty, bonusPoints float64
	var details strings.Builder

	// 仓库信号的加减分
	if repo != nil {
		commitCount := repo.TotalCommits

		if commitCount <= 2 {
			totalPenalty += 20
			fmt.Fprintf(&details, "• MAJOR PENALTY: Only %d commit(s) - likely template usage (-20 points)\n", commitCount)
		} else if commitCount <= 5 {
			totalPenalty += 15
			fmt.Fprintf(&details, "• PENALTY: Very few commits (%d) - limited development (-15 points)\n", commitCount)
		} else if commitCount >= 20 {
			bonusPoints += 5
			fmt.Fprintf(&details, "• BONUS: Active development with %d commits (+5 points)\n", commitCount)
		}

		if !repo.CommitAnalysis.RecentActivity {
			totalPenalty += 10
			details.WriteString("• PENALTY: No recent commits in last 30 days (-10 points)\n")
		}

		if repo.CommitAnalysis.QualityScore < 30 {
			totalPenalty += 8
			fmt.Fprintf(&details, "• PENALTY: Poor commit quality (%d/100) (-8 points)\n", repo.CommitAnalysis.QualityScore)
		}

		if repo.HealthScore > 80 {
			bonusPoints += 5
			fmt.Fprintf(&details, "• BONUS: Excellent repository health (%d/100) (+5 points)\n", repo.HealthScore)
		}
	} else if hadRepoLink {
		totalPenalty += 10
		details.WriteString("• PENALTY: GitHub repository inaccessible (-10 points)\n")
	} else {
		totalPenalty += 15
		details.WriteString("• PENALTY: No GitHub repository provided (-15 points)\n")
	}

	// Base 集成加分原样累加
	if base.BonusScore > 0 {
		bonusPoints += base.BonusScore
		fmt.Fprintf(&details, "• BONUS: Base integration (%s) (+%g points)\n", base.NetworkType, base.BonusScore)
	}

	// 呈现质量的常规罚分
	if strings.TrimSpace(project.Links) == "" {
		totalPenalty += 10
		details.WriteString("• PENALTY: No demo links provided (-10 points)\n")
	}

	if descriptionTooBrief(project) {
		totalPenalty += 8
		details.WriteString("• PENALTY: Poor project description (-8 points)\n")
	}

	if len(project.Members) == 1 {
		totalPenalty += 3
		details.WriteString("• PENALTY: Solo project - limited collaboration (-3 points)\n")
	}

	adjusted := compressTop(math.Max(0, baseScore-totalPenalty+bonusPoints))

	// 微抖动防聚类
	if n.jitterWidth > 0 {
		adjusted += (n.randFn() - 0.5) * n.jitterWidth
	}

	finalScore := round1(math.Max(1, math.Min(100, adjusted)))

	return ScoreComputation{
		BaseScore:       round1(baseScore),
		TotalPenalty:    round1(totalPenalty),
		BonusPoints:     round1(bonusPoints),
		FinalScore:      finalScore,
		AnalysisDetails: details.String(),
		SystemFlags:     systemFlags(project, breakdown, repo, hadRepoLink),
	}
}

// compressTop 两段压缩顶部分数
// 80 以上换成对数增量 (最多再加 ~8.5 分)；90 以上只保留 30% 的超出部分
func compressTop(adjusted float64) float64 {
	if adjusted > 80 {
		excess := adjusted - 80
		adjusted = 80 + math.Log10(excess+1)*8.5
	}
	if adjusted > 90 {
		ultraExcess := adjusted - 90
		adjusted = 90 + ultraExcess*0.3
	}
	return adjusted
}

// systemFlags 根据和罚分相同的条件生成系统侧 flag
// 最终 flags 是模型 flag 和这里的并集，去重后呈现
func systemFlags(project *domain.Project, breakdown *domain.RawBreakdown, repo *domain.RepoSignal, hadRepoLink bool) []string {
	var flags []string

	if repo != nil {
		commitCount := repo.TotalCommits

		if commitCount <= 2 {
			flags = append(flags, fmt.Sprintf("CRITICAL: Only %d commit(s) - possible template usage", commitCount))
		} else if commitCount <= 5 {
			flags = append(flags, fmt.Sprintf("WARNING: Very few commits (%d) - limited development activity", commitCount))
		}

		if !repo.CommitAnalysis.RecentActivity {
			flags = append(flags, "No recent commits in the last 30 days")
		}

		if float64(repo.CommitAnalysis.TemplateIndicators) > float64(commitCount)*0.5 {
			flags = append(flags, "Many low-quality/template-style commit messages")
		}

		if !repo.HasReadme || repo.ReadmeSize < 200 {
			flags = append(flags, "Missing or very brief README documentation")
		}
	} else if hadRepoLink {
		flags = append(flags, "GitHub repository inaccessible or private")
	} else {
		flags = append(flags, "No GitHub repository provided")
	}

	if strings.TrimSpace(project.Links) == "" {
		flags = append(flags, "No demo or live links provided")
	}

	if descriptionTooBrief(project) {
		flags = append(flags, "Very brief or missing project description")
	}

	if breakdown.TechnicalImplementation < 50 {
		flags = append(flags, "Significant technical implementation issues")
	}
	if breakdown.Innovation < 40 {
		flags = append(flags, "Limited innovation or uniqueness")
	}
	if breakdown.Completeness < 45 {
		flags = append(flags, "Project appears incomplete")
	}

	return flags
}

// descriptionTooBrief 所有描述分段都不足 100 字符视为描述贫弱
func descriptionTooBrief(project *domain.Project) bool {
	if len(project.Description) == 0 {
		return true
	}
	for _, d := range project.Description {
		if len(d.Content) >= 100 {
			return false
		}
	}
	return true
}

// dedupeFlags 按首次出现顺序去重，永远返回非 nil 切片
func dedupeFlags(flags []string) []string {
	seen := make(map[string]bool, len(flags))
	result := make([]string, 0, len(flags))
	for _, f := range flags {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		result = append(result, f)
	}
	return result
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
