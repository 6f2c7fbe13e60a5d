package dto

import (
	"fmt"
	"strconv"
	"strings"

	"budgetsmart_dev_v1/internal/repository"
	"budgetsmart_dev_v1/internal/service"
)

// ==================== 请求 ====================

// SearchReq 组合搜索请求
// budget 兼容数字和字符串两种写法
type SearchReq struct {
	Items  []string    `json:"items"`
	Budget interface{} `json:"budget"`
}

// ParseBudget 解析预算；非法输入返回 (0, false)
func (r *SearchReq) ParseBudget() (float64, bool) {
	switch v := r.Budget.(type) {
	case float64:
		return v, v >= 0
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, parsed >= 0
	default:
		return 0, false
	}
}

// ==================== 响应 ====================

// BasketResp 单个篮子的序列化形式
// 金额字段保留两位小数的字符串，与前端展示约定一致
type BasketResp struct {
	Items      []repository.ItemRow `json:"items"`
	TotalPrice string               `json:"totalPrice"`
	Websites   []string             `json:"websites"`
	Savings    string               `json:"savings,omitempty"`
	Extra      string               `json:"extra,omitempty"`
}

// SearchResp 三档搜索结果
type SearchResp struct {
	Cheaper []BasketResp `json:"cheaper"`
	Exact   []BasketResp `json:"exact"`
	Above   []BasketResp `json:"above"`
}

// ToSearchResp 领域结果转响应
func ToSearchResp(result *service.SearchResult) SearchResp {
	return SearchResp{
		Cheaper: toBasketResps(result.Cheaper, "savings"),
		Exact:   toBasketResps(result.Exact, ""),
		Above:   toBasketResps(result.Above, "extra"),
	}
}

func toBasketResps(baskets []service.Basket, deltaField string) []BasketResp {
	resps := make([]BasketResp, 0, len(baskets))
	for _, b := range baskets {
		resp := BasketResp{
			Items:      b.Items,
			TotalPrice: money(b.TotalPrice),
			Websites:   uniqueWebsites(b.Items),
		}
		switch deltaField {
		case "savings":
			resp.Savings = money(b.Savings)
		case "extra":
			resp.Extra = money(b.Extra)
		}
		resps = append(resps, resp)
	}
	return resps
}

// uniqueWebsites 按出现顺序去重的卖家地址列表
func uniqueWebsites(rows []repository.ItemRow) []string {
	seen := make(map[string]struct{}, len(rows))
	sites := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, dup := seen[row.Website]; dup {
			continue
		}
		seen[row.Website] = struct{}{}
		sites = append(sites, row.Website)
	}
	return sites
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
