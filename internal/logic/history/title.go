package history

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/Malowking/docchat/core/engine"
)

// titlePrompt 标题生成提示词
const titlePrompt = `Generate a short, meaningful title (maximum 4-5 words) for a chat conversation that starts with this message:

"%s"

Requirements:
- Maximum 40 characters
- No quotation marks
- Capture the main topic/question
- Be concise and clear
- Use the same language as the input

Title:`

// maxTitleLen 标题最大字符数，超长截断为 37 字符加省略号
const maxTitleLen = 40

var (
	titleUnwantedChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	titleQuoteChars    = regexp.MustCompile(`["` + "\n\r" + `]`)
	titleLabelPrefix   = regexp.MustCompile(`(?i)^(title|chat|conversation|topic):\s*`)
	titleWordPattern   = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// titleStopwords 关键词提取时忽略的常见词（意大利语和英语）
var titleStopwords = map[string]bool{
	"il": true, "la": true, "lo": true, "le": true, "gli": true, "un": true,
	"una": true, "di": true, "da": true, "in": true, "con": true, "su": true,
	"per": true, "a": true, "e": true, "come": true, "cosa": true, "dove": true,
	"quando": true, "perché": true, "chi": true, "che": true, "sono": true,
	"è": true, "sei": true, "siamo": true, "ciao": true, "salve": true,
	"buongiorno": true, "puoi": true, "può": true, "posso": true, "dimmi": true,
	"spiegami": true, "aiutami": true,
	"the": true, "an": true, "and": true, "or": true, "but": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
	"how": true, "what": true, "where": true, "when": true, "why": true,
	"who": true, "which": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "hello": true, "hi": true, "good": true,
	"morning": true, "can": true, "could": true, "please": true, "tell": true,
	"me": true, "help": true, "explain": true,
}

// GenerateName 根据首条消息生成会话标题。短消息直接清洗使用，
// 长消息先尝试让默认模型总结，失败时退化为关键词提取。
func (m *Manager) GenerateName(ctx context.Context, firstMessage string) string {
	clean := strings.TrimSpace(firstMessage)
	if clean == "" {
		return timestampTitle()
	}

	if utf8.RuneCountInString(clean) <= 30 {
		name := strings.TrimSpace(titleUnwantedChars.ReplaceAllString(clean, ""))
		if name == "" {
			return timestampTitle()
		}
		return titleCase(name)
	}

	if title := m.generateAITitle(ctx, clean); title != "" {
		return title
	}
	return fallbackTitle(clean)
}

// generateAITitle 调用默认模型生成标题，任何失败都返回空串
func (m *Manager) generateAITitle(ctx context.Context, message string) string {
	cfg := m.engines.Config()
	callCtx, cancel := context.WithTimeout(ctx, cfg.QuickTimeout)
	defer cancel()

	resp, err := m.engines.Client().Generate(callCtx, &engine.GenerateRequest{
		Model:  cfg.DefaultModel,
		Prompt: fmt.Sprintf(titlePrompt, message),
		Stream: false,
		Options: &engine.GenerateOptions{
			Temperature: 0.3,
			TopP:        0.8,
			NumPredict:  20,
		},
	})
	if err != nil {
		g.Log().Warningf(ctx, "AI title generation failed: %v", err)
		return ""
	}

	title := strings.TrimSpace(resp.Response)
	if title == "" {
		return ""
	}
	title = strings.TrimSpace(titleQuoteChars.ReplaceAllString(title, ""))
	title = titleLabelPrefix.ReplaceAllString(title, "")
	title = truncateTitle(title)
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) > 2 {
		return title
	}
	return ""
}

// fallbackTitle 模型不可用时的标题：先提取关键词，再退化为前几个词
func fallbackTitle(message string) string {
	words := titleWordPattern.FindAllString(strings.ToLower(message), -1)

	meaningful := make([]string, 0, 4)
	for _, word := range words {
		if utf8.RuneCountInString(word) > 2 && !titleStopwords[word] {
			meaningful = append(meaningful, capitalizeWord(word))
			if len(meaningful) == 4 {
				break
			}
		}
	}
	if len(meaningful) > 0 {
		return truncateTitle(strings.Join(meaningful, " "))
	}

	fields := strings.Fields(message)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	if len(fields) > 0 {
		for i, word := range fields {
			fields[i] = capitalizeWord(word)
		}
		return truncateTitle(strings.Join(fields, " "))
	}

	return timestampTitle()
}

// timestampTitle 最终兜底的时间戳标题
func timestampTitle() string {
	return "Chat " + time.Now().Format("02/01 15:04")
}

// truncateTitle 按字符数截断超长标题
func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) > maxTitleLen {
		return string(runes[:37]) + "..."
	}
	return title
}

// capitalizeWord 首字母大写，其余小写
func capitalizeWord(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// titleCase 逐词首字母大写
func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, word := range fields {
		fields[i] = capitalizeWord(word)
	}
	return strings.Join(fields, " ")
}
