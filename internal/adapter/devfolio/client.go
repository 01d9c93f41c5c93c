package devfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dhananjaypai08/Judge.AI/internal/common"
	"github.com/dhananjaypai08/Judge.AI/internal/domain"
)

const (
	defaultBaseURL = "https://api.devfolio.co"
	defaultSlug    = "onchain-summer-awards"

	// 分页拉取的安全上限，防止接口异常时无限翻页
	maxTotalProjects = 500
	pageSize         = 100
)

// Client 实现了 port.ProjectSource 接口，对接 Devfolio 的项目搜索接口
type Client struct {
	httpClient *http.Client
	baseURL    string
	slug       string
	cookie     string
}

// NewClient 初始化 Devfolio 客户端
// cookie 是 Devfolio 搜索接口要求随请求携带的会话 cookie，可为空
func NewClient(slug, cookie string) *Client {
	if slug == "" {
		slug = defaultSlug
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		slug:       slug,
		cookie:     cookie,
	}
}

// searchRequest 搜索接口的请求体，空的筛选字段也要带上
type searchRequest struct {
	HackathonSlugs []string `json:"hackathon_slugs"`
	Q              string   `json:"q"`
	Filter         string   `json:"filter"`
	Prizes         []string `json:"prizes"`
	PrizeTracks    []string `json:"prize_tracks"`
	Category       []string `json:"category"`
	Hashtags       []string `json:"hashtags"`
	Tracks         []string `json:"tracks"`
	From           int      `json:"from"`
	Size           int      `json:"size"`
}

// searchResponse ES 风格的返回包
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source domain.Project `json:"_source"`
		} `json:"hits"`
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
	} `json:"hits"`
}

// Search 拉取一页项目，返回本页项目和总数
func (c *Client) Search(ctx context.Context, from, size int) ([]*domain.Project, int, error) {
	payload := searchRequest{
		HackathonSlugs: []string{c.slug},
		Filter:         "all",
		Prizes:         []string{},
		PrizeTracks:    []string{},
		Category:       []string{},
		Hashtags:       []string{},
		Tracks:         []string{},
		From:           from,
		Size:           size,
	}
	body, _ := json.Marshal(payload)

	var result searchResponse
	err := common.Do(ctx, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/api/search/projects", bytes.NewReader(body))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Accept", "application/json, text/plain, */*")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Origin", fmt.Sprintf("https://%s.devfolio.co", c.slug))
		req.Header.Set("Referer", fmt.Sprintf("https://%s.devfolio.co/", c.slug))
		if c.cookie != "" {
			req.Header.Set("Cookie", c.cookie)
		}

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return doErr
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("搜索接口返回状态码 %d", resp.StatusCode)
		}

		result = searchResponse{}
		return json.NewDecoder(resp.Body).Decode(&result)
	},
		common.WithMaxRetries(2),
		common.WithInitialDelay(time.Second),
	)
	if err != nil {
		return nil, 0, common.WrapError(common.ErrCodeDevfolioAPI, "拉取项目列表失败", err)
	}

	projects := make([]*domain.Project, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		p := hit.Source
		projects = append(projects, &p)
	}
	return projects, result.Hits.Total.Value, nil
}

// FetchAll 循环翻页直到拉完或触达安全上限
// 中途某页失败整体报错，不静默返回半截列表
func (c *Client) FetchAll(ctx context.Context) ([]*domain.Project, error) {
	var all []*domain.Project
	from := 0

	for {
		page, total, err := c.Search(ctx, from, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)

		if len(page) < pageSize || len(all) >= total {
			break
		}
		if len(all) >= maxTotalProjects {
			fmt.Printf("⚠️ 已达到项目拉取上限 (%d 条)，停止翻页\n", maxTotalProjects)
			break
		}
		from += pageSize
	}

	return all, nil
}
