package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewFetchClient 创建统一配置的店铺页面抓取客户端
// 它是抓取管线唯一的网络出口
func NewFetchClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "BudgetSmart-Bot/1.0").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
}
