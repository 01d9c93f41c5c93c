package domain

import (
	"strings"
	"time"
)

// Project 代表一个从 Devfolio 搜索接口拉取的黑客松参赛项目
// 字段与搜索接口返回的 _source 文档保持一致，评审期间视为只读
type Project struct {
	UUID          string               `json:"uuid"`
	Name          string               `json:"name"`
	Tagline       string               `json:"tagline"`
	Description   []DescriptionSection `json:"description"`
	Category      string               `json:"category,omitempty"`
	HasGithubLink bool                 `json:"has_github_link"`
	Links         string               `json:"links"`
	PrizeTracks   []PrizeTrack         `json:"prize_tracks"`
	Hashtags      []Hashtag            `json:"hashtags"`
	Members       []Member             `json:"members"`
	Views         int                  `json:"views"`
	Likes         int                  `json:"likes"`
	CreatedAt     string               `json:"created_at"`
	UpdatedAt     string               `json:"updated_at"`
	Status        string               `json:"status"`
}

// DescriptionSection 项目描述的一个分段 (问题/方案/技术栈等)
type DescriptionSection struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Content  string `json:"content"`
}

// PrizeTrack 奖项赛道
type PrizeTrack struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	Sponsor string `json:"sponsor,omitempty"`
}

// Hashtag 项目话题标签
type Hashtag struct {
	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

// Member 团队成员
type Member struct {
	UUID      string `json:"uuid"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CombinedText 把描述分段、tagline 和链接拼成一个小写文本块
// Base 集成检测只做纯文本关键词匹配，用的就是这个
func (p *Project) CombinedText() string {
	var sb strings.Builder
	for _, d := range p.Description {
		sb.WriteString(d.Content)
		sb.WriteString(" ")
	}
	sb.WriteString(p.Tagline)
	sb.WriteString(" ")
	sb.WriteString(p.Links)
	return strings.ToLower(sb.String())
}

// --- 派生信号 ---

// Commit 单条提交记录 (只保留启发式分析需要的字段)
type Commit struct {
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

// Readme 仓库 README 内容
type Readme struct {
	Content string `json:"content"`
	Size    int    `json:"size"`
}

// RepoSnapshot 一次 GitHub 拉取的原始快照：仓库元数据 + 最近提交 + README
// 提交质量/仓库健康度两个启发式都是这个快照的纯函数
type RepoSnapshot struct {
	FullName      string    `json:"full_name"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	PushedAt      time.Time `json:"pushed_at"`
	Size          int       `json:"size"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	Language      string    `json:"language"`
	DefaultBranch string    `json:"default_branch"`
	Commits       []Commit  `json:"commits"`
	Readme        *Readme   `json:"readme,omitempty"`
}

// CommitAnalysis 提交质量启发式的输出
type CommitAnalysis struct {
	QualityScore       int      `json:"quality_score"` // 0-100
	Issues             []string `json:"issues"`
	CommitFrequency    string   `json:"commit_frequency"` // none/sparse/active/very_active/unknown
	RecentActivity     bool     `json:"recent_activity"`  // 最近30天内有提交
	MeaningfulCommits  int      `json:"meaningful_commits"`
	TemplateIndicators int      `json:"template_indicators"`
}

// RepoSignal 仓库信号：提交质量 + 仓库健康度
// 没有可解析仓库或拉取失败时整体缺席 (nil)，由打分侧转成扣分
type RepoSignal struct {
	RepoURL        string         `json:"repo_url"`
	TotalCommits   int            `json:"total_commits"`
	CommitAnalysis CommitAnalysis `json:"commit_analysis"`
	HealthScore    int            `json:"health_score"` // 0-100
	HasReadme      bool           `json:"has_readme"`
	ReadmeSize     int            `json:"readme_size"`
}

// Base 网络集成的分类
const (
	BaseNetworkNone    = "none"
	BaseNetworkMainnet = "base_mainnet"
	BaseNetworkTestnet = "base_testnet"
	BaseNetworkGeneral = "base_general"
)

// BaseSignal Base 链集成信号，纯关键词匹配得到，永远存在 (可能是 none)
type BaseSignal struct {
	HasIndicators bool    `json:"has_base_indicators"`
	NetworkType   string  `json:"network_type"`
	BonusScore    float64 `json:"bonus_score"`
}

// RawBreakdown 模型返回的原始分项打分，视为不可信输入，解析时逐项 clamp
type RawBreakdown struct {
	TechnicalImplementation float64  `json:"technicalImplementation"`
	Innovation              float64  `json:"innovation"`
	ValueProposition        float64  `json:"valueProposition"`
	Completeness            float64  `json:"completeness"`
	MarketPotential         float64  `json:"marketPotential"`
	CodeQuality             float64  `json:"codeQuality"`
	Reasoning               string   `json:"reasoning"`
	Flags                   []string `json:"flags"`
	Confidence              float64  `json:"confidence"`
}

// Breakdown 最终展示用的分项得分 (保留一位小数)
type Breakdown struct {
	TechnicalImplementation float64 `json:"technicalImplementation"`
	Innovation              float64 `json:"innovation"`
	ValueProposition        float64 `json:"valueProposition"`
	Completeness            float64 `json:"completeness"`
	MarketPotential         float64 `json:"marketPotential"`
	CodeQuality             float64 `json:"codeQuality"`
}

// GithubSummary 附在评分上的仓库信号摘要，前端展示用
type GithubSummary struct {
	TotalCommits   int  `json:"totalCommits"`
	RecentActivity bool `json:"recentActivity"`
	CommitQuality  int  `json:"commitQuality"`
	HealthScore    int  `json:"healthScore"`
}

// AIScore 一次评审产出的最终评分
// 每次重判都产生一个全新的 AIScore 整体替换旧值，从不原地修改
type AIScore struct {
	ProjectID    string         `json:"projectId" gorm:"primaryKey;column:project_id"`
	ProjectName  string         `json:"projectName"`
	OverallScore float64        `json:"overallScore"`
	Breakdown    Breakdown      `json:"breakdown" gorm:"embedded"`
	Reasoning    string         `json:"reasoning" gorm:"type:text"`
	Flags        []string       `json:"flags" gorm:"serializer:json"`
	Confidence   float64        `json:"confidence"`
	Timestamp    time.Time      `json:"timestamp"`
	GithubData   *GithubSummary `json:"githubData,omitempty" gorm:"serializer:json"`
}

// ScoreLabel 分数档位的文字描述
func ScoreLabel(score float64) string {
	switch {
	case score >= 95:
		return "Outstanding"
	case score >= 90:
		return "Exceptional"
	case score >= 85:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 60:
		return "Fair"
	case score >= 45:
		return "Poor"
	default:
		return "Very Poor"
	}
}

// --- 批量评审 ---

// ProjectState 项目在当前会话里的评审状态
// 未评分 / 评审中 / 评分失败 / 已评分，这几种状态互不混淆
type ProjectState struct {
	Project   *Project `json:"project"`
	Score     *AIScore `json:"aiScore,omitempty"`
	IsLoading bool     `json:"isLoading"`
	HasError  bool     `json:"hasError"`
}

// JudgeOutcome 批量评审里单个项目的结算结果
type JudgeOutcome struct {
	ProjectID string   `json:"projectId"`
	Name      string   `json:"name"`
	Success   bool     `json:"success"`
	Score     *AIScore `json:"score,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// BatchResult 一轮批量评审的汇总
type BatchResult struct {
	Total      int            `json:"total"`
	Successful int            `json:"successful"`
	Failed     int            `json:"failed"`
	Outcomes   []JudgeOutcome `json:"outcomes"`
}

// Progress 批量评审的实时进度
type Progress struct {
	Current     int    `json:"current"`
	Total       int    `json:"total"`
	ProjectName string `json:"projectName"`
}
