package github

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dhananjaypai08/Judge.AI/internal/common"
	"github.com/dhananjaypai08/Judge.AI/internal/domain"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
)

// 匹配 github.com/owner/repo 形状的地址，协议可省略
var repoURLPattern = regexp.MustCompile(`(?:https?://)?github\.com/([^/\s]+)/([^/\s?#)]+)`)

// 项目 links 字段是逗号/空白/换行混排的自由文本
var linkSeparator = regexp.MustCompile(`[,\s\n]+`)

// Inspector 实现了 port.RepoInspector 接口
type Inspector struct {
	client *github.Client
}

// NewInspector 初始化 GitHub 客户端
// token: GitHub Personal Access Token (空字符串则匿名访问，限制 60次/小时)
func NewInspector(token string) *Inspector {
	var client *github.Client

	if token == "" {
		client = github.NewClient(nil)
	} else {
		ctx := context.Background()
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	}

	return &Inspector{client: client}
}

// ExtractRepoURL 从项目的链接字段和描述分段里解析 GitHub 仓库地址
// 去重后只用第一个命中的地址
func (i *Inspector) ExtractRepoURL(project *domain.Project) (string, bool) {
	urls := extractRepoURLs(project)
	if len(urls) == 0 {
		return "", false
	}
	return urls[0], true
}

func extractRepoURLs(project *domain.Project) []string {
	var urls []string
	seen := make(map[string]bool)

	appendURL := func(raw string) {
		owner, repo, ok := parseOwnerRepo(raw)
		if !ok {
			return
		}
		canonical := fmt.Sprintf("https://github.com/%s/%s", owner, repo)
		if !seen[canonical] {
			seen[canonical] = true
			urls = append(urls, canonical)
		}
	}

	if project.Links != "" {
		for _, link := range linkSeparator.Split(project.Links, -1) {
			link = strings.TrimSpace(link)
			if link != "" && strings.Contains(link, "github.com") {
				appendURL(link)
			}
		}
	}

	for _, desc := range project.Description {
		for _, match := range repoURLPattern.FindAllString(desc.Content, -1) {
			appendURL(match)
		}
	}

	return urls
}

// parseOwnerRepo 解析 owner/repo，顺便去掉尾部的 .git 和斜杠
func parseOwnerRepo(rawURL string) (string, string, bool) {
	m := repoURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", "", false
	}
	owner := m[1]
	repo := strings.TrimSuffix(strings.TrimSuffix(m[2], "/"), ".git")
	if owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}

// Inspect 拉取仓库元数据、最近提交和 README，拼成一个快照
// 仓库本体拉不到直接报错 (信号缺席)；提交和 README 拉不到则降级为空
func (i *Inspector) Inspect(ctx context.Context, repoURL string) (*domain.RepoSnapshot, error) {
	owner, repoName, ok := parseOwnerRepo(repoURL)
	if !ok {
		return nil, common.NewError(common.ErrCodeInvalidInput, fmt.Sprintf("无法解析仓库地址: %s", repoURL))
	}

	var repoData *github.Repository
	err := common.Do(ctx, func() error {
		var apiErr error
		repoData, _, apiErr = i.client.Repositories.Get(ctx, owner, repoName)
		return apiErr
	},
		common.WithMaxRetries(2),
		common.WithInitialDelay(500*time.Millisecond),
	)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeGitHubAPI,
			fmt.Sprintf("拉取仓库 %s/%s 失败", owner, repoName), err)
	}

	snapshot := &domain.RepoSnapshot{
		FullName:      repoData.GetFullName(),
		Description:   repoData.GetDescription(),
		CreatedAt:     repoData.GetCreatedAt().Time,
		UpdatedAt:     repoData.GetUpdatedAt().Time,
		PushedAt:      repoData.GetPushedAt().Time,
		Size:          repoData.GetSize(),
		Stars:         repoData.GetStargazersCount(),
		Forks:         repoData.GetForksCount(),
		Language:      repoData.GetLanguage(),
		DefaultBranch: repoData.GetDefaultBranch(),
	}

	// 最近提交，最多100条；失败时按空列表继续
	commits, _, err := i.client.Repositories.ListCommits(ctx, owner, repoName, &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	})
	if err == nil {
		for _, c := range commits {
			snapshot.Commits = append(snapshot.Commits, domain.Commit{
				Message: c.GetCommit().GetMessage(),
				Author:  c.GetCommit().GetAuthor().GetName(),
				Date:    c.GetCommit().GetAuthor().GetDate().Time,
			})
		}
	}

	// README 可选
	readme, _, err := i.client.Repositories.GetReadme(ctx, owner, repoName, nil)
	if err == nil && readme != nil {
		content, decodeErr := readme.GetContent()
		if decodeErr == nil {
			snapshot.Readme = &domain.Readme{
				Content: content,
				Size:    readme.GetSize(),
			}
		}
	}

	return snapshot, nil
}
