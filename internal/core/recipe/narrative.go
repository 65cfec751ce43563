package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/pkg/common"
)

const narrativeSystemPrompt = `Return strict JSON {"summary":string,"tips":string[]}. Keep advice practical and concise.`

// NarrativeInput 產生建議文字所需的評估摘要
type NarrativeInput struct {
	Pantry        []string         `json:"pantry"`
	CanCookNow    []string         `json:"canCookNow"`
	CanAlmostCook []AlmostCookItem `json:"canAlmostCook"`
}

// AlmostCookItem 幾乎可煮的食譜與缺少的食材
type AlmostCookItem struct {
	Name    string   `json:"name"`
	Missing []string `json:"missing"`
}

// Narrative AI 產生的建議
type Narrative struct {
	Summary  string   `json:"summary"`
	Tips     []string `json:"tips"`
	Provider string   `json:"provider"`
}

// Validate 摘要不可為空
func (n *Narrative) Validate() error {
	if strings.TrimSpace(n.Summary) == "" {
		return errors.New("narrative summary is empty")
	}
	if n.Tips == nil {
		n.Tips = []string{}
	}
	return nil
}

// Narrator 產生 cook-now 建議文字
type Narrator interface {
	Generate(ctx context.Context, input NarrativeInput) *Narrative
}

// NarrativeService 以 AI 供應商產生建議，沒有啟發式替代
type NarrativeService struct {
	chain TextChain
}

// NewNarrativeService 創建建議文字服務
func NewNarrativeService(chain TextChain) *NarrativeService {
	return &NarrativeService{chain: chain}
}

// Generate 所有供應商都不可用時返回 nil
func (s *NarrativeService) Generate(ctx context.Context, input NarrativeInput) *Narrative {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil
	}
	messages := []common.ChatMessage{
		common.SystemMessage(narrativeSystemPrompt),
		common.UserMessage(string(payload)),
	}

	result, ok := provider.ResolveText(ctx, candidates[Narrative](s.chain, "narrative", messages)...)
	if !ok {
		return nil
	}
	narrative := result.Value
	narrative.Provider = string(result.Provider)
	return &narrative
}
