package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dhananjaypai08/Judge.AI/internal/common"
	"github.com/dhananjaypai08/Judge.AI/internal/domain"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// 评分权重，和 Normalizer 里的加权聚合保持一致，总和必须是 100
const rubricText = `You are an elite hackathon judge with 15+ years of experience evaluating top-tier technical projects. Your standards are exceptionally high.

CRITICAL EVALUATION PRINCIPLES:
1. EXCELLENCE IS RARE: Only 5-10%% of projects should score above 85. Most projects are good but not exceptional.
2. INNOVATION MUST BE PROVEN: Claims of "AI-powered" or "blockchain-based" mean nothing without technical depth.
3. EXECUTION OVER IDEAS: A well-executed simple idea beats a poorly executed complex one.
4. MARKET VALIDATION REQUIRED: Grand claims about market size need evidence or validation.
5. CODE QUALITY MATTERS: GitHub presence, documentation, and architecture are crucial.
6. COMMIT HISTORY IS CRITICAL: Few commits indicate template usage or lack of real development.

SCORING CRITERIA (weights):
- technicalImplementation (25%%): architecture depth, engineering quality
- innovation (20%%): genuine novelty, not marketing claims
- valueProposition (20%%): problem-solution fit with evidence of demand
- completeness (15%%): working features, polish, demo quality
- marketPotential (10%%): addressable market and path to adoption
- codeQuality (10%%): structure, documentation, best practices

CRITICAL EVALUATION POINTS:
1. If commits <= 2: This is likely template usage - score harshly
2. If commits 3-5: Very limited development - significant penalty
3. If no recent activity: Project may be abandoned - penalty
4. Innovation claims must be backed by technical depth
5. Base integration is bonus, not requirement

BE HARSH BUT FAIR. Most projects should score 60-80. Only truly exceptional projects deserve 85+.

PROJECT DATA:
%s

GITHUB ANALYSIS:
%s

BASE INTEGRATION:
Network Type: %s
Base Integration: %t

Respond with this exact JSON structure and nothing else:
{
  "breakdown": {
    "technicalImplementation": number (0-100),
    "innovation": number (0-100),
    "valueProposition": number (0-100),
    "completeness": number (0-100),
    "marketPotential": number (0-100),
    "codeQuality": number (0-100)
  },
  "reasoning": "Detailed explanation focusing on commit analysis and execution quality",
  "flags": ["array of specific issues found"],
  "confidence": number (0.7-1.0)
}`

// Appraiser 实现了 port.Appraiser 接口
type Appraiser struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// 接收 AI 返回 JSON 的内部结构体
// breakdown 用指针以便区分 "缺字段" 和 "全零"
type aiResponse struct {
	Breakdown  *domain.Breakdown `json:"breakdown"`
	Reasoning  string            `json:"reasoning"`
	Flags      []string          `json:"flags"`
	Confidence float64           `json:"confidence"`
}

// NewAppraiser 初始化 Gemini 客户端
func NewAppraiser(ctx context.Context, apiKey string) (*Appraiser, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel("gemini-2.5-flash-lite")
	// 强制要求返回 JSON，降低解析错误的概率
	model.ResponseMIMEType = "application/json"
	// 低温度、限 token：要的是一致性不是创造力
	model.SetTemperature(0.2)
	model.SetMaxOutputTokens(2500)

	return &Appraiser{
		client: client,
		model:  model,
	}, nil
}

// Evaluate 把评分量表 + 项目数据 + 派生信号拼成 prompt，调模型拿原始分项
// 不在内部重试解析失败：非 JSON 或缺字段直接作为 MODEL_INVOCATION_ERROR 上抛
func (a *Appraiser) Evaluate(ctx context.Context, project *domain.Project, repo *domain.RepoSignal, base *domain.BaseSignal) (*domain.RawBreakdown, error) {
	prompt := BuildPrompt(project, repo, base)

	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, common.WrapError(common.ErrCodeModelInvocation, "AI 调用失败", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, common.NewError(common.ErrCodeModelInvocation, "AI 返回内容为空")
	}

	part := resp.Candidates[0].Content.Parts[0]
	jsonStr, ok := part.(genai.Text)
	if !ok {
		return nil, common.NewError(common.ErrCodeModelInvocation, "AI 返回格式错误")
	}

	breakdown, err := ParseBreakdown(string(jsonStr))
	if err != nil {
		return nil, err
	}
	return breakdown, nil
}

// BuildPrompt 组装完整的评审 prompt
func BuildPrompt(project *domain.Project, repo *domain.RepoSignal, base *domain.BaseSignal) string {
	projectData := map[string]interface{}{
		"name":          project.Name,
		"tagline":       project.Tagline,
		"description":   project.Description,
		"hasGithubLink": project.HasGithubLink,
		"links":         project.Links,
		"prizeTracks":   project.PrizeTracks,
		"hashtags":      project.Hashtags,
		"members":       project.Members,
		"views":         project.Views,
		"likes":         project.Likes,
	}
	projectJSON, _ := json.MarshalIndent(projectData, "", "  ")

	githubSection := "No GitHub repository found or analysis failed"
	if repo != nil {
		githubSection = fmt.Sprintf(`Repository: %s
Total Commits: %d
Commit Quality Score: %d/100
Recent Activity: %t
Repository Health: %d/100
Issues Found: %s
Meaningful Commits: %d
Template Indicators: %d`,
			repo.RepoURL,
			repo.TotalCommits,
			repo.CommitAnalysis.QualityScore,
			repo.CommitAnalysis.RecentActivity,
			repo.HealthScore,
			strings.Join(repo.CommitAnalysis.Issues, ", "),
			repo.CommitAnalysis.MeaningfulCommits,
			repo.CommitAnalysis.TemplateIndicators)
	}

	return fmt.Sprintf(rubricText, string(projectJSON), githubSection, base.NetworkType, base.HasIndicators)
}

// ParseBreakdown 从模型回复里抠出 JSON 并做逐项 clamp
// 即使 AI 返回 "```json { ... } ```"，也能精准抠出中间的 { ... }
func ParseBreakdown(rawContent string) (*domain.RawBreakdown, error) {
	start := strings.Index(rawContent, "{")
	end := strings.LastIndex(rawContent, "}")

	if start == -1 || end == -1 || end <= start {
		return nil, common.NewError(common.ErrCodeModelInvocation,
			fmt.Sprintf("无法提取 JSON, AI 原文: %s", truncate(rawContent, 300)))
	}

	cleanJSON := rawContent[start : end+1]

	var res aiResponse
	if err := json.Unmarshal([]byte(cleanJSON), &res); err != nil {
		return nil, common.WrapError(common.ErrCodeModelInvocation,
			fmt.Sprintf("JSON 解析失败, 原文: %s", truncate(cleanJSON, 300)), err)
	}

	if res.Breakdown == nil {
		return nil, common.NewError(common.ErrCodeModelInvocation, "AI 回复缺少 breakdown 字段")
	}

	breakdown := &domain.RawBreakdown{
		TechnicalImplementation: clampScore(res.Breakdown.TechnicalImplementation),
		Innovation:              clampScore(res.Breakdown.Innovation),
		ValueProposition:        clampScore(res.Breakdown.ValueProposition),
		Completeness:            clampScore(res.Breakdown.Completeness),
		MarketPotential:         clampScore(res.Breakdown.MarketPotential),
		CodeQuality:             clampScore(res.Breakdown.CodeQuality),
		Reasoning:               res.Reasoning,
		Flags:                   res.Flags,
		Confidence:              res.Confidence,
	}

	if breakdown.Flags == nil {
		breakdown.Flags = []string{}
	}
	if breakdown.Confidence <= 0 {
		breakdown.Confidence = 0.8
	} else if breakdown.Confidence > 1 {
		breakdown.Confidence = 1
	}

	return breakdown, nil
}

// clampScore 不可信输入，逐项压回 [0, 100]
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
