// Package i18n translates known upstream error messages for the dashboard.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Entry maps one known upstream message to its localized text.
type Entry struct {
	Message     string
	Translation string
}

// DefaultEntries are the upstream and wallet messages the dashboard knows about.
// Order matters: the first substring hit wins, so longer keys come first.
var DefaultEntries = []Entry{
	{"Insufficient collateral balance", "抵押品余额不足"},
	{"Insufficient balance", "余额不足"},
	{"Insufficient allowance", "授权额度不足，请先完成授权"},
	{"Invalid signature", "签名无效"},
	{"Signature expired", "签名已过期，请重新登录"},
	{"Invalid JWT", "登录已失效，请重新登录"},
	{"Unauthorized", "未授权，请先登录"},
	{"Forbidden", "无权访问"},
	{"Order not found", "订单不存在"},
	{"Market not found", "市场不存在"},
	{"Category not found", "分类不存在"},
	{"Market is closed", "市场已关闭"},
	{"Market is not tradable", "市场暂不可交易"},
	{"Price out of range", "价格超出范围"},
	{"Invalid price", "价格无效"},
	{"Invalid amount", "数量无效"},
	{"Amount too small", "下单数量过小"},
	{"Insufficient liquidity", "流动性不足"},
	{"Duplicate order", "重复订单"},
	{"Nonce too low", "交易序号过低，请稍后重试"},
	{"Referral code already set", "邀请码已设置"},
	{"Invalid referral code", "邀请码无效"},
	{"Too Many Requests", "请求过于频繁，请稍后再试"},
	{"Rate limit exceeded", "请求过于频繁，请稍后再试"},
	{"Internal Server Error", "服务器内部错误"},
	{"Service Unavailable", "服务暂不可用"},
	{"User rejected", "用户取消了操作"},
	{"user denied", "用户取消了操作"},
	{"Network Error", "网络错误，请检查网络连接"},
	{"timeout", "请求超时"},
}

var (
	chineseBase  = language.MustParseBase("zh")
	wildcardBase = language.MustParseBase("mul") // "*" in Accept-Language
)

// Translator looks messages up in an ordered table.
type Translator struct {
	entries  []Entry
	exact    map[string]string
	fallback language.Tag
}

// New creates a Translator. A nil entries slice uses DefaultEntries.
// defaultLang is used when a request expresses no language preference.
func New(entries []Entry, defaultLang string) *Translator {
	if entries == nil {
		entries = DefaultEntries
	}

	exact := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Message == "" {
			continue
		}
		if _, dup := exact[e.Message]; !dup {
			exact[e.Message] = e.Translation
		}
	}

	fallback, err := language.Parse(defaultLang)
	if err != nil {
		fallback = language.SimplifiedChinese
	}

	return &Translator{
		entries:  entries,
		exact:    exact,
		fallback: fallback,
	}
}

// Translate returns the localized text for an exact match, then for the first
// entry whose message is contained in msg (case-insensitive). Unknown
// messages are returned verbatim.
func (t *Translator) Translate(msg string) string {
	if tr, ok := t.exact[msg]; ok {
		return tr
	}

	lower := strings.ToLower(msg)
	for _, e := range t.entries {
		if e.Message == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(e.Message)) {
			return e.Translation
		}
	}
	return msg
}

// TranslateFor translates msg only when the caller's most preferred language
// is Chinese. An empty or wildcard header falls back to the configured
// default language.
func (t *Translator) TranslateFor(msg, acceptLanguage string) string {
	if t.wantsChinese(acceptLanguage) {
		return t.Translate(msg)
	}
	return msg
}

func (t *Translator) wantsChinese(acceptLanguage string) bool {
	tag := t.fallback
	if h := strings.TrimSpace(acceptLanguage); h != "" {
		// Tags come back ordered by weight; q=0 entries are dropped.
		prefs, _, err := language.ParseAcceptLanguage(h)
		if err == nil && len(prefs) > 0 && !isWildcard(prefs[0]) {
			tag = prefs[0]
		}
	}
	base, _ := tag.Base()
	return base == chineseBase
}

func isWildcard(tag language.Tag) bool {
	if tag == language.Und {
		return true
	}
	base, _ := tag.Base()
	return base == wildcardBase
}
