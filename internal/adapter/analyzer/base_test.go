package analyzer

import (
	"testing"

	"github.com/dhananjaypai08/Judge.AI/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDetectBaseIntegration(t *testing.T) {
	tests := []struct {
		name            string
		project         *domain.Project
		expectedNetwork string
		expectedBonus   float64
	}{
		{
			name: "主网关键词命中",
			project: &domain.Project{
				Tagline: "A payments app deployed on Base Mainnet",
			},
			expectedNetwork: domain.BaseNetworkMainnet,
			expectedBonus:   8,
		},
		{
			name: "测试网关键词命中",
			project: &domain.Project{
				Description: []domain.DescriptionSection{
					{Title: "Tech Stack", Content: "Contracts deployed to Base Sepolia for the demo"},
				},
			},
			expectedNetwork: domain.BaseNetworkTestnet,
			expectedBonus:   5,
		},
		{
			name: "只有泛品牌提及",
			project: &domain.Project{
				Tagline: "Built with OnchainKit and Coinbase Smart Wallet",
			},
			expectedNetwork: domain.BaseNetworkGeneral,
			expectedBonus:   3,
		},
		{
			name: "链ID出现在链接里",
			project: &domain.Project{
				Links: "https://basescan.org/address/0xabc",
			},
			expectedNetwork: domain.BaseNetworkMainnet,
			expectedBonus:   8,
		},
		{
			name: "主网和测试网同时出现时主网优先",
			project: &domain.Project{
				Tagline: "Live on Base Mainnet, originally tested on Base Sepolia",
			},
			expectedNetwork: domain.BaseNetworkMainnet,
			expectedBonus:   8,
		},
		{
			name: "测试网关键词同时包含泛词base时测试网优先",
			project: &domain.Project{
				Tagline: "deployed on base testnet",
			},
			expectedNetwork: domain.BaseNetworkTestnet,
			expectedBonus:   5,
		},
		{
			name: "完全无关的项目",
			project: &domain.Project{
				Tagline: "An AI recipe generator for home cooks",
				Links:   "https://recipes.example.com",
			},
			expectedNetwork: domain.BaseNetworkNone,
			expectedBonus:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := DetectBaseIntegration(tt.project)

			assert.NotNil(t, signal)
			assert.Equal(t, tt.expectedNetwork, signal.NetworkType)
			assert.Equal(t, tt.expectedBonus, signal.BonusScore)
			assert.Equal(t, tt.expectedNetwork != domain.BaseNetworkNone, signal.HasIndicators)
		})
	}
}

// 空项目也要返回有效信号而不是 nil
func TestDetectBaseIntegration_EmptyProject(t *testing.T) {
	signal := DetectBaseIntegration(&domain.Project{})

	assert.NotNil(t, signal)
	assert.False(t, signal.HasIndicators)
	assert.Equal(t, domain.BaseNetworkNone, signal.NetworkType)
}
