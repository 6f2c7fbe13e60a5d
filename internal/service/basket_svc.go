package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"budgetsmart_dev_v1/internal/repository"
	"budgetsmart_dev_v1/pkg/logger"
)

// ==================== 常量 ====================

const (
	budgetEpsilon = 0.01 // 总价与预算判等的容差
	aboveCeiling  = 1.15 // 超预算档上限：预算的 1.15 倍
	maxPerBand    = 3    // 每档最多返回的篮子数
	maxBaskets    = 5000 // 组合枚举上限，防止候选爆炸拖垮请求
)

// ==================== 结果类型 ====================

// Basket 一个购物篮：每个请求名恰好对应一件商品
// 只在单次搜索请求内存在，不落库
type Basket struct {
	Items      []repository.ItemRow
	TotalPrice float64
	Savings    float64 // cheaper 档：预算 - 总价
	Extra      float64 // above 档：总价 - 预算
}

// SearchResult 三档排序后的篮子列表
type SearchResult struct {
	Cheaper []Basket
	Exact   []Basket
	Above   []Basket
}

// ==================== BasketService 组合搜索引擎 ====================

// BasketService 按愿望清单和预算枚举、分档、排序购物篮
type BasketService struct {
	itemRepo repository.ItemRepository
	log      *logger.Logger
}

// NewBasketService 创建组合搜索引擎
func NewBasketService(itemRepo repository.ItemRepository, log *logger.Logger) *BasketService {
	return &BasketService{itemRepo: itemRepo, log: log}
}

// Search 执行一次组合搜索
// 输入不合法（清单为空、预算非法）时返回三个空档，不报错；
// 任一请求名没有候选时同样返回空档（全有或全无）
func (s *BasketService) Search(ctx context.Context, rawNames []string, budget float64) (*SearchResult, error) {
	result := &SearchResult{Cheaper: []Basket{}, Exact: []Basket{}, Above: []Basket{}}

	names := normalizeNames(rawNames)
	if len(names) == 0 || math.IsNaN(budget) || budget < 0 {
		return result, nil
	}

	// 第一步：逐名检索候选行
	candidates := make([][]repository.ItemRow, len(names))
	for i, name := range names {
		rows, err := s.itemRepo.SearchByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("候选检索失败: %w", err)
		}
		if len(rows) == 0 {
			// 全有或全无：缺任何一个名字就不给部分结果
			return result, nil
		}
		candidates[i] = rows
	}

	// 第二步 + 第三步：回溯枚举组合并按商品组合去重
	baskets := enumerateBaskets(candidates)

	// 第四步：分档
	for _, items := range baskets {
		total := 0.0
		for _, row := range items {
			total += row.Price
		}
		basket := Basket{Items: items, TotalPrice: total}

		switch {
		case total < budget-budgetEpsilon:
			basket.Savings = budget - total
			result.Cheaper = append(result.Cheaper, basket)
		case math.Abs(total-budget) <= budgetEpsilon:
			result.Exact = append(result.Exact, basket)
		case total <= budget*aboveCeiling:
			basket.Extra = total - budget
			result.Above = append(result.Above, basket)
		}
		// 超过 1.15 倍预算的组合整体丢弃
	}

	// 第五步：排序并截断
	sort.SliceStable(result.Cheaper, func(i, j int) bool {
		return result.Cheaper[i].Savings > result.Cheaper[j].Savings
	})
	sort.SliceStable(result.Above, func(i, j int) bool {
		return result.Above[i].Extra < result.Above[j].Extra
	})
	result.Cheaper = truncateBaskets(result.Cheaper, maxPerBand)
	result.Exact = truncateBaskets(result.Exact, maxPerBand)
	result.Above = truncateBaskets(result.Above, maxPerBand)

	s.log.Debug("组合搜索完成",
		"names", len(names), "baskets", len(baskets),
		"cheaper", len(result.Cheaper), "exact", len(result.Exact), "above", len(result.Above))
	return result, nil
}

// ==================== 组合枚举 ====================

// enumerateBaskets 回溯枚举每个请求名各取一件的全部组合
// 约束：同一件商品在一个篮子里只能出现一次；
// 相同商品集合的组合（不同发现路径）只保留首个
func enumerateBaskets(candidates [][]repository.ItemRow) [][]repository.ItemRow {
	var result [][]repository.ItemRow
	seen := make(map[string]struct{})
	used := make(map[int64]bool)
	current := make([]repository.ItemRow, 0, len(candidates))

	var backtrack func(depth int)
	backtrack = func(depth int) {
		if len(result) >= maxBaskets {
			return
		}
		if depth == len(candidates) {
			key := basketKey(current)
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}
			result = append(result, append([]repository.ItemRow(nil), current...))
			return
		}
		for _, row := range candidates[depth] {
			if used[row.ItemID] {
				continue
			}
			used[row.ItemID] = true
			current = append(current, row)
			backtrack(depth + 1)
			current = current[:len(current)-1]
			used[row.ItemID] = false
		}
	}
	backtrack(0)
	return result
}

// basketKey 商品 ID 排序后拼成的组合键
func basketKey(rows []repository.ItemRow) string {
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = fmt.Sprintf("%d", row.ItemID)
	}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

// ==================== 输入归一化 ====================

// normalizeNames 去空白、去空串、大小写不敏感去重
func normalizeNames(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	names := make([]string, 0, len(raw))
	for _, name := range raw {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, trimmed)
	}
	return names
}

func truncateBaskets(baskets []Basket, max int) []Basket {
	if len(baskets) > max {
		return baskets[:max]
	}
	return baskets
}
