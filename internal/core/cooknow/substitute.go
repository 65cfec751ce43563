package cooknow

import "strings"

type substitution struct {
	key          string
	alternatives []string
}

// substitutionTable 依宣告順序比對，第一個命中的鍵生效
var substitutionTable = []substitution{
	{key: "egg", alternatives: []string{"flaxseed meal + water", "mashed banana"}},
	{key: "milk", alternatives: []string{"oat milk", "almond milk"}},
	{key: "butter", alternatives: []string{"olive oil", "coconut oil"}},
	{key: "sugar", alternatives: []string{"honey", "maple syrup"}},
	{key: "flour", alternatives: []string{"oat flour", "almond flour"}},
	{key: "tomato", alternatives: []string{"canned tomato", "tomato puree"}},
}

// SubstitutesFor 返回缺少食材的替代建議，格式為 "<原始文字> -> <替代品>"
func SubstitutesFor(missingRaw string) []string {
	canonical := CanonicalString(missingRaw)
	if canonical == "" {
		return []string{}
	}

	for _, entry := range substitutionTable {
		if !strings.Contains(canonical, entry.key) {
			continue
		}
		out := make([]string, 0, len(entry.alternatives))
		for _, alt := range entry.alternatives {
			out = append(out, missingRaw+" -> "+alt)
		}
		return out
	}
	return []string{}
}
