package analyzer

import (
	"strings"

	"github.com/dhananjaypai08/Judge.AI/internal/domain"
)

// baseTier 一档 Base 网络特征：命中任一关键词即归入该档
type baseTier struct {
	networkType string
	keywords    []string
	bonus       float64
}

// 按优先级排列：主网 > 测试网 > 泛品牌提及
// 用有序表而不是嵌套 if，加新档位只需要加一行
var baseTiers = []baseTier{
	{
		networkType: domain.BaseNetworkMainnet,
		keywords: []string{
			"base.org", "basescan.org", "base mainnet", "base network",
			"chain id 8453", "chainid: 8453", "base-mainnet", "8453",
		},
		bonus: 8,
	},
	{
		networkType: domain.BaseNetworkTestnet,
		keywords: []string{
			"base sepolia", "base testnet", "base goerli", "sepolia.basescan.org",
			"chain id 84532", "chainid: 84532", "base-sepolia", "84532",
		},
		bonus: 5,
	},
	{
		networkType: domain.BaseNetworkGeneral,
		keywords: []string{
			"base", "coinbase", "smart wallet", "onchainkit", "basename",
		},
		bonus: 3,
	},
}

// DetectBaseIntegration 检测项目是否集成了 Base 链
// 纯文本匹配，不发任何网络请求，永远不会失败
func DetectBaseIntegration(project *domain.Project) *domain.BaseSignal {
	allText := project.CombinedText()

	for _, tier := range baseTiers {
		for _, keyword := range tier.keywords {
			if strings.Contains(allText, keyword) {
				return &domain.BaseSignal{
					HasIndicators: true,
					NetworkType:   tier.networkType,
					BonusScore:    tier.bonus,
				}
			}
		}
	}

	return &domain.BaseSignal{
		HasIndicators: false,
		NetworkType:   domain.BaseNetworkNone,
		BonusScore:    0,
	}
}
