package service

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ==================== 候选节点选择 ====================

// candidateSelector 商品候选节点选择器
// 闭合的手调列表，覆盖多数店铺模板；不按卖家单独配置
const candidateSelector = `a[href*="/product"], a[href*="/item"], .product, .item, .card, [data-product]`

const titleFallbackLen = 150 // 标题兜底取节点文本时的截断长度

// ==================== 字段抽取策略链 ====================

// fieldExtractor 单字段抽取策略：命中时返回 (值, true)
type fieldExtractor func(sel *goquery.Selection, base *url.URL) (string, bool)

// extractChain 有序策略链，首个命中即停
type extractChain []fieldExtractor

func (c extractChain) extract(sel *goquery.Selection, base *url.URL) (string, bool) {
	for _, fn := range c {
		if v, ok := fn(sel, base); ok {
			return v, true
		}
	}
	return "", false
}

// selectorText 取候选节点内第一个匹配子元素的文本
func selectorText(selector string) fieldExtractor {
	return func(sel *goquery.Selection, _ *url.URL) (string, bool) {
		text := strings.TrimSpace(sel.Find(selector).First().Text())
		return text, text != ""
	}
}

// nodeTextFallback 兜底：取节点自身文本并截断
func nodeTextFallback(max int) fieldExtractor {
	return func(sel *goquery.Selection, _ *url.URL) (string, bool) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		runes := []rune(text)
		if len(runes) > max {
			text = string(runes[:max])
		}
		return text, text != ""
	}
}

// imgAttr 取第一个 img 子元素的指定属性并解析为绝对地址
func imgAttr(attr string) fieldExtractor {
	return func(sel *goquery.Selection, base *url.URL) (string, bool) {
		raw, ok := sel.Find("img").First().Attr(attr)
		if !ok || strings.TrimSpace(raw) == "" {
			return "", false
		}
		resolved := resolveURL(base, strings.TrimSpace(raw))
		return resolved, resolved != ""
	}
}

// nodeAttr 取候选节点自身属性（懒加载图常直接挂在节点上）
func nodeAttr(attr string) fieldExtractor {
	return func(sel *goquery.Selection, base *url.URL) (string, bool) {
		raw, ok := sel.Attr(attr)
		if !ok || strings.TrimSpace(raw) == "" {
			return "", false
		}
		resolved := resolveURL(base, strings.TrimSpace(raw))
		return resolved, resolved != ""
	}
}

// 三条字段链：顺序即优先级
var (
	titleChain = extractChain{
		selectorText("h1, h2, h3, .title, .name, [data-title]"),
		nodeTextFallback(titleFallbackLen),
	}
	priceChain = extractChain{
		selectorText(".price, .amount, [data-price], .product-price"),
	}
	imageChain = extractChain{
		imgAttr("src"),
		imgAttr("data-src"),
		nodeAttr("data-src"),
	}
)

// ==================== 单候选抽取 ====================

// candidate 抽取出的商品三元组
type candidate struct {
	Title string
	Price float64
	Image string // 为空表示缺图，落库时补占位图
}

// extractCandidate 从一个候选节点抽取商品
// 接受条件：标题非空且价格严格为正，否则静默跳过
func extractCandidate(sel *goquery.Selection, base *url.URL) (candidate, bool) {
	title, _ := titleChain.extract(sel, base)

	priceRaw, _ := priceChain.extract(sel, base)
	price := NormalizePrice(priceRaw)

	if title == "" || price <= 0 {
		return candidate{}, false
	}

	image, _ := imageChain.extract(sel, base)
	return candidate{Title: title, Price: price, Image: image}, true
}

// ==================== 价格与地址归一化 ====================

var nonPriceChars = regexp.MustCompile(`[^0-9.]`)

// NormalizePrice 价格字符串归一化
// 去掉数字和小数点以外的全部字符后按浮点解析；
// "₦12,500.00" -> 12500.00，"N/A" -> 0（会被正数检查拒绝）
func NormalizePrice(raw string) float64 {
	cleaned := nonPriceChars.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// resolveURL 相对地址按页面地址解析为绝对地址
func resolveURL(base *url.URL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil {
		return parsed.String()
	}
	return base.ResolveReference(parsed).String()
}
