// Package fallback 远程翻译不可用时的离线兜底翻译
//
// 结果是确定的；没有替换到任何词典短语时，输出带有标记前缀。
package fallback

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MarkerFallback     = "[Fallback translation] "
	MarkerUnsupported  = "[Unsupported language pair] "
	MarkerUntranslated = "[Could not translate] "
)

// Translator 以英文为源语言按整词短语替换
type Translator struct {
	phrases  map[string]map[string]string
	patterns map[string]*regexp.Regexp
}

// New 使用内置词典创建兜底翻译器
func New() *Translator {
	return NewWithDictionary(bundled)
}

// NewWithDictionary 为每种目标语言编译一个正则，长短语排在前面优先匹配
func NewWithDictionary(dict Dictionary) *Translator {
	t := &Translator{
		phrases:  make(map[string]map[string]string, len(dict)),
		patterns: make(map[string]*regexp.Regexp, len(dict)),
	}

	for lang, entries := range dict {
		if len(entries) == 0 {
			continue
		}
		lower := make(map[string]string, len(entries))
		keys := make([]string, 0, len(entries))
		for phrase, translation := range entries {
			p := strings.ToLower(phrase)
			lower[p] = translation
			keys = append(keys, p)
		}
		sort.Slice(keys, func(i, j int) bool {
			if len(keys[i]) != len(keys[j]) {
				return len(keys[i]) > len(keys[j])
			}
			return keys[i] < keys[j]
		})

		quoted := make([]string, len(keys))
		for i, k := range keys {
			quoted[i] = regexp.QuoteMeta(k)
		}
		t.phrases[normalize(lang)] = lower
		t.patterns[normalize(lang)] = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}

	return t
}

// Translate 不会失败，调用方需要把结果标记为兜底翻译
func (t *Translator) Translate(text, source, target string) string {
	src, dst := normalize(source), normalize(target)

	switch {
	case src == dst:
		return text
	case dst == "en":
		return MarkerFallback + text
	case src != "en":
		return MarkerUnsupported + text
	}

	re, ok := t.patterns[dst]
	if !ok {
		return MarkerUntranslated + text
	}
	phrases := t.phrases[dst]

	replaced := false
	out := re.ReplaceAllStringFunc(text, func(match string) string {
		translation, ok := phrases[strings.ToLower(match)]
		if !ok {
			return match
		}
		replaced = true
		return matchCase(match, translation)
	})

	if !replaced {
		return MarkerUntranslated + text
	}
	return out
}

// Languages 返回有词典的目标语言
func (t *Translator) Languages() []string {
	langs := make([]string, 0, len(t.phrases))
	for lang := range t.phrases {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// matchCase 原文首字母大写时译文也首字母大写
func matchCase(match, translation string) string {
	first, _ := utf8.DecodeRuneInString(match)
	if !unicode.IsUpper(first) || translation == "" {
		return translation
	}
	r, size := utf8.DecodeRuneInString(translation)
	return string(unicode.ToUpper(r)) + translation[size:]
}

// normalize 取语言标签的小写主语言（"en-US" -> "en"）
func normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}
