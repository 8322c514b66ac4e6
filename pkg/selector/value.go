package selector

import "github.com/kmacdonald-stsci/crds/internal/boundary"

// conditionValue canonicalizes a raw key field value through the
// boundary helper.
func conditionValue(s string) string {
	return boundary.ConditionValue(s)
}

func stripTrailingZero(s string) string {
	return boundary.StripTrailingZero(s)
}

// conditionField normalizes one raw Match key field:
// "|"-joined alternations are split, conditioned element-wise, and
// rejoined; "{...}" and "(...)" pass through verbatim; everything else
// goes through conditionValue.
func conditionField(raw string) string {
	if len(raw) >= 2 && (raw[0] == '{' || raw[0] == '(') {
		return raw
	}
	if containsByte(raw, '|') {
		parts := splitByte(raw, '|')
		for i, p := range parts {
			parts[i] = conditionValue(p)
		}
		return joinByte(parts, '|')
	}
	return conditionValue(raw)
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}

func splitByte(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func joinByte(parts []string, sep byte) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += string(sep)
		}
		out += p
	}
	return out
}

// applySubstitution rewrites raw through the tree-wide substitutions
// table for parameter name param, if one is configured, before any
// conditioning happens.
func applySubstitution(subs Substitutions, param, raw string) string {
	if subs == nil {
		return raw
	}
	table, ok := subs[param]
	if !ok {
		return raw
	}
	if rewritten, ok := table[raw]; ok {
		return rewritten
	}
	return raw
}
