package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Devfolio 搜索接口 _source 文档的真实形状，字段名对不上会静默置零
func TestProject_UnmarshalFromSource(t *testing.T) {
	raw := `{
		"uuid": "abc-123",
		"name": "Escrow Pay",
		"tagline": "Trustless escrow on Base",
		"description": [
			{"title": "The problem it solves", "content": "Freelancers get stiffed on payments."}
		],
		"has_github_link": true,
		"links": "https://github.com/team/escrow-pay https://demo.example.com",
		"prize_tracks": [{"uuid": "t1", "name": "Best Consumer App"}],
		"hashtags": [{"uuid": "h1", "name": "defi", "verified": true}],
		"members": [
			{"uuid": "m1", "username": "alice", "first_name": "Alice", "last_name": "Ng"},
			{"uuid": "m2", "username": "bob"}
		],
		"views": 120,
		"likes": 14,
		"created_at": "2025-08-01T10:00:00Z",
		"status": "publish"
	}`

	var p Project
	assert.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "abc-123", p.UUID)
	assert.Equal(t, "Escrow Pay", p.Name)
	assert.True(t, p.HasGithubLink)
	assert.Len(t, p.Description, 1)
	assert.Equal(t, "The problem it solves", p.Description[0].Title)
	assert.Len(t, p.Members, 2)
	assert.Equal(t, "alice", p.Members[0].Username)
	assert.True(t, p.Hashtags[0].Verified)
	assert.Equal(t, 120, p.Views)
}

func TestCombinedText(t *testing.T) {
	p := &Project{
		Tagline: "Trustless Escrow ON BASE",
		Description: []DescriptionSection{
			{Content: "Deployed to Base Sepolia."},
			{Content: "Uses OnchainKit."},
		},
		Links: "https://BaseScan.org/address/0xABC",
	}

	text := p.CombinedText()

	// 全部小写，描述、tagline、链接都要在
	assert.Contains(t, text, "base sepolia")
	assert.Contains(t, text, "onchainkit")
	assert.Contains(t, text, "trustless escrow on base")
	assert.Contains(t, text, "basescan.org/address/0xabc")
	assert.Equal(t, strings.ToLower(text), text)
}

func TestScoreLabel(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{97.2, "Outstanding"},
		{95, "Outstanding"},
		{92.5, "Exceptional"},
		{90, "Exceptional"},
		{86, "Excellent"},
		{80, "Good"},
		{75, "Good"},
		{68, "Fair"},
		{60, "Fair"},
		{50, "Poor"},
		{45, "Poor"},
		{30, "Very Poor"},
		{1, "Very Poor"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScoreLabel(tt.score))
		})
	}
}
