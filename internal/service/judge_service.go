package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dhananjaypai08/Judge.AI/internal/adapter/analyzer"
	"github.com/dhananjaypai08/Judge.AI/internal/common"
	"github.com/dhananjaypai08/Judge.AI/internal/domain"
	"github.com/dhananjaypai08/Judge.AI/internal/port"
)

// JudgeService 处理评审逻辑：单项目管线 + 批量编排
type JudgeService struct {
	source     port.ProjectSource
	inspector  port.RepoInspector
	appraiser  port.Appraiser
	store      port.ScoreStore
	archive    port.ScoreArchive // 可为 nil (未配置数据库时)
	normalizer *Normalizer

	batchSize  int
	batchDelay time.Duration
	nowFunc    func() time.Time

	mu       sync.Mutex
	progress domain.Progress
	judging  bool

	// 一轮批量评审内按仓库地址缓存信号：信号提取是幂等的，缓存不会改变评分
	cacheMu     sync.Mutex
	signalCache map[string]*domain.RepoSignal
}

// NewJudgeService 创建评审服务
func NewJudgeService(
	source port.ProjectSource,
	inspector port.RepoInspector,
	appraiser port.Appraiser,
	store port.ScoreStore,
	archive port.ScoreArchive,
	normalizer *Normalizer,
) *JudgeService {
	return &JudgeService{
		source:      source,
		inspector:   inspector,
		appraiser:   appraiser,
		store:       store,
		archive:     archive,
		normalizer:  normalizer,
		batchSize:   3,               // 每组并发的外部调用数
		batchDelay:  2 * time.Second, // 组间延迟，迁就外部接口限流
		nowFunc:     time.Now,
		signalCache: make(map[string]*domain.RepoSignal),
	}
}

// SetBatchSize 设置每组并发评审的项目数
func (s *JudgeService) SetBatchSize(size int) {
	if size > 0 {
		s.batchSize = size
	}
}

// SetBatchDelay 设置组间延迟
func (s *JudgeService) SetBatchDelay(d time.Duration) {
	if d >= 0 {
		s.batchDelay = d
	}
}

// LoadProjects 从项目源拉取全部项目并重置会话状态
func (s *JudgeService) LoadProjects(ctx context.Context) ([]*domain.ProjectState, error) {
	fmt.Println("📥 正在拉取黑客松项目列表...")
	projects, err := s.source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Printf("✅ 成功拉取 %d 个项目\n", len(projects))

	s.store.SetProjects(projects)
	return s.store.List(), nil
}

// Progress 返回当前批量评审进度，第二个返回值表示是否正在评审
func (s *JudgeService) Progress() (domain.Progress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress, s.judging
}

// JudgeProject 单项目评审管线：提取信号 → 调模型 → 归一化
// 信号提取尽力而为、失败转罚分；只有模型调用失败才让整个评审失败
func (s *JudgeService) JudgeProject(ctx context.Context, project *domain.Project) (*domain.AIScore, error) {
	repoSignal, hadRepoLink := s.buildRepoSignal(ctx, project)
	baseSignal := analyzer.DetectBaseIntegration(project)

	breakdown, err := s.appraiser.Evaluate(ctx, project, repoSignal, baseSignal)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeJudge,
			fmt.Sprintf("评审项目 %s 失败", project.Name), err)
	}

	comp := s.normalizer.Normalize(project, breakdown, repoSignal, baseSignal, hadRepoLink)

	// 模型 flag 和系统 flag 取并集去重
	flags := dedupeFlags(append(append([]string{}, breakdown.Flags...), comp.SystemFlags...))

	score := &domain.AIScore{
		ProjectID:    project.UUID,
		ProjectName:  project.Name,
		OverallScore: comp.FinalScore,
		Breakdown: domain.Breakdown{
			TechnicalImplementation: round1(breakdown.TechnicalImplementation),
			Innovation:              round1(breakdown.Innovation),
			ValueProposition:        round1(breakdown.ValueProposition),
			Completeness:            round1(breakdown.Completeness),
			MarketPotential:         round1(breakdown.MarketPotential),
			CodeQuality:             round1(breakdown.CodeQuality),
		},
		Reasoning:  breakdown.Reasoning + "\n\nScore Analysis:\n" + comp.AnalysisDetails,
		Flags:      flags,
		Confidence: breakdown.Confidence,
		Timestamp:  s.nowFunc(),
	}

	if repoSignal != nil {
		score.GithubData = &domain.GithubSummary{
			TotalCommits:   repoSignal.TotalCommits,
			RecentActivity: repoSignal.CommitAnalysis.RecentActivity,
			CommitQuality:  repoSignal.CommitAnalysis.QualityScore,
			HealthScore:    repoSignal.HealthScore,
		}
	}

	return score, nil
}

// RejudgeProject 按 UUID 重判单个项目 (失败项目的单独重试入口)
func (s *JudgeService) RejudgeProject(ctx context.Context, projectID string) (*domain.AIScore, error) {
	state, ok := s.store.Get(projectID)
	if !ok {
		return nil, common.NewError(common.ErrCodeNotFound, fmt.Sprintf("项目 %s 不在当前会话里", projectID))
	}

	s.store.MarkLoading(projectID)
	score, err := s.JudgeProject(ctx, state.Project)
	if err != nil {
		s.store.MarkFailed(projectID)
		return nil, err
	}

	s.store.Put(projectID, score)
	s.archiveScore(ctx, score)
	return score, nil
}

// JudgeBatch 批量评审：固定大小分组并发，组内全部结算后再进下一组
// 单个项目失败只记录结果，不取消同组兄弟，也不中止整个批次
func (s *JudgeService) JudgeBatch(ctx context.Context, projects []*domain.Project) *domain.BatchResult {
	total := len(projects)
	fmt.Printf("⚖️ 开始批量评审，共 %d 个项目，每组 %d 个并发\n", total, s.batchSize)

	s.beginRun(total)
	defer s.endRun()

	outcomes := make([]domain.JudgeOutcome, total)

	for i := 0; i < total; i += s.batchSize {
		end := min(i+s.batchSize, total)
		group := projects[i:end]

		var wg sync.WaitGroup
		for j, p := range group {
			wg.Add(1)
			// 每个协程只写自己的下标，结果切片无需加锁
			go func(globalIdx int, project *domain.Project) {
				defer wg.Done()

				s.setProgress(globalIdx+1, total, project.Name)
				s.store.MarkLoading(project.UUID)

				score, err := s.JudgeProject(ctx, project)
				if err != nil {
					log.Printf("❌ 项目 %s 评审失败: %v", project.Name, err)
					// 失败必须清掉旧评分，不能让过期分数和错误标记同时出现
					s.store.MarkFailed(project.UUID)
					outcomes[globalIdx] = domain.JudgeOutcome{
						ProjectID: project.UUID,
						Name:      project.Name,
						Success:   false,
						Error:     err.Error(),
					}
					return
				}

				s.store.Put(project.UUID, score)
				s.archiveScore(ctx, score)
				fmt.Printf("   ✅ %s 评审完成 (总分: %.1f)\n", project.Name, score.OverallScore)
				outcomes[globalIdx] = domain.JudgeOutcome{
					ProjectID: project.UUID,
					Name:      project.Name,
					Success:   true,
					Score:     score,
				}
			}(i+j, p)
		}
		wg.Wait()

		// 组间延迟，最后一组之后不等
		if end < total && s.batchDelay > 0 {
			select {
			case <-time.After(s.batchDelay):
			case <-ctx.Done():
				fmt.Println("⏰ 批量评审因超时或取消而中断")
				// 未开始的项目按失败记录
				for k := end; k < total; k++ {
					outcomes[k] = domain.JudgeOutcome{
						ProjectID: projects[k].UUID,
						Name:      projects[k].Name,
						Success:   false,
						Error:     ctx.Err().Error(),
					}
				}
				return tallyOutcomes(outcomes)
			}
		}
	}

	result := tallyOutcomes(outcomes)
	fmt.Printf("🎉 本轮评审完成: %d 成功 / %d 失败\n", result.Successful, result.Failed)
	return result
}

// buildRepoSignal 解析仓库地址并拉快照，跑提交质量和健康度启发式
// 任何一步失败都返回 nil 信号 (评分侧转罚分)，绝不抛错
func (s *JudgeService) buildRepoSignal(ctx context.Context, project *domain.Project) (*domain.RepoSignal, bool) {
	repoURL, found := s.inspector.ExtractRepoURL(project)
	hadRepoLink := project.HasGithubLink || found
	if !found {
		return nil, hadRepoLink
	}

	s.cacheMu.Lock()
	cached, hit := s.signalCache[repoURL]
	s.cacheMu.Unlock()
	if hit {
		return cached, hadRepoLink
	}

	snapshot, err := s.inspector.Inspect(ctx, repoURL)
	if err != nil {
		log.Printf("⚠️ 仓库 %s 信号提取失败: %v，按信号缺席处理", repoURL, err)
		return nil, hadRepoLink
	}

	now := s.nowFunc()
	signal := &domain.RepoSignal{
		RepoURL:        repoURL,
		TotalCommits:   len(snapshot.Commits),
		CommitAnalysis: analyzer.AnalyzeCommitQuality(snapshot.Commits, now),
		HealthScore:    analyzer.HealthScore(snapshot, now),
	}
	if snapshot.Readme != nil {
		signal.HasReadme = true
		signal.ReadmeSize = snapshot.Readme.Size
	}

	s.cacheMu.Lock()
	s.signalCache[repoURL] = signal
	s.cacheMu.Unlock()
	return signal, hadRepoLink
}

// archiveScore 持久化评审结果，失败只记日志不影响主流程
func (s *JudgeService) archiveScore(ctx context.Context, score *domain.AIScore) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Save(ctx, score); err != nil {
		log.Printf("⚠️ 持久化项目 %s 的评分失败: %v", score.ProjectName, err)
	}
}

func (s *JudgeService) beginRun(total int) {
	s.mu.Lock()
	s.judging = true
	s.progress = domain.Progress{Current: 0, Total: total}
	s.mu.Unlock()

	// 每轮批量评审重建信号缓存
	s.cacheMu.Lock()
	s.signalCache = make(map[string]*domain.RepoSignal)
	s.cacheMu.Unlock()
}

func (s *JudgeService) endRun() {
	s.mu.Lock()
	s.judging = false
	s.progress = domain.Progress{}
	s.mu.Unlock()
}

func (s *JudgeService) setProgress(current, total int, name string) {
	s.mu.Lock()
	// 同组内完成顺序不保证，进度只前进不后退
	if current > s.progress.Current {
		s.progress = domain.Progress{Current: current, Total: total, ProjectName: name}
	}
	s.mu.Unlock()
}

func tallyOutcomes(outcomes []domain.JudgeOutcome) *domain.BatchResult {
	result := &domain.BatchResult{
		Total:    len(outcomes),
		Outcomes: outcomes,
	}
	for _, o := range outcomes {
		if o.Success {
			result.Successful++
		} else {
			result.Failed++
		}
	}
	return result
}
