package port

import (
	"context"

	"github.com/dhananjaypai08/Judge.AI/internal/domain"
)

// ProjectSource (项目源): 负责从 Devfolio 搜索接口分页拉取参赛项目
type ProjectSource interface {
	// Search 拉取一页项目，返回本页项目和总数
	Search(ctx context.Context, from, size int) ([]*domain.Project, int, error)

	// FetchAll 循环翻页拉到耗尽或安全上限 (500 条)
	FetchAll(ctx context.Context) ([]*domain.Project, error)
}

// RepoInspector (仓库检查员): 负责拉取 GitHub 仓库快照供启发式分析
// 拿不到仓库不是错误的一种：url 解析不出来时返回 ("", false)
type RepoInspector interface {
	// ExtractRepoURL 从项目链接和描述里解析第一个 GitHub 仓库地址
	ExtractRepoURL(project *domain.Project) (string, bool)

	// Inspect 拉取仓库元数据、最近提交 (最多100条) 和 README
	Inspect(ctx context.Context, repoURL string) (*domain.RepoSnapshot, error)
}

// Appraiser (鉴定师): 负责调用 LLM 给项目打出原始分项评分
// 注入接口而不是包级单例，测试时可以换成确定性的桩
type Appraiser interface {
	Evaluate(ctx context.Context, project *domain.Project, repo *domain.RepoSignal, base *domain.BaseSignal) (*domain.RawBreakdown, error)
}

// ScoreStore (评分仓库): 会话内每个项目的评审状态，按 UUID 读改写
type ScoreStore interface {
	// Put 写入评审结果，整体替换该项目的旧评分
	Put(projectID string, score *domain.AIScore)

	// MarkLoading 标记项目正在评审
	MarkLoading(projectID string)

	// MarkFailed 标记项目评审失败，同时清掉残留的旧评分
	MarkFailed(projectID string)

	// Get 读取单个项目的状态
	Get(projectID string) (*domain.ProjectState, bool)

	// SetProjects 重置为一批新项目 (全部回到未评分状态)
	SetProjects(projects []*domain.Project)

	// List 当前全部项目状态
	List() []*domain.ProjectState

	// ClearScores 清空所有评分但保留项目列表
	ClearScores()
}

// ScoreArchive (评分存档): 可选的持久化层，跨会话保存评审历史
type ScoreArchive interface {
	Save(ctx context.Context, score *domain.AIScore) error
	Get(ctx context.Context, projectID string) (*domain.AIScore, error)
	Leaderboard(ctx context.Context, limit int) ([]*domain.AIScore, error)
}
