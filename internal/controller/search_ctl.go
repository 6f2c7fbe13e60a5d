package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"budgetsmart_dev_v1/internal/api/dto"
	"budgetsmart_dev_v1/internal/service"
)

// debugLimit 诊断接口最多返回的行数
const debugLimit = 30

// ==================== SearchController 组合搜索 ====================

type SearchController struct {
	basketService  *service.BasketService
	catalogService *service.CatalogService
}

func NewSearchController(basketService *service.BasketService, catalogService *service.CatalogService) *SearchController {
	return &SearchController{basketService: basketService, catalogService: catalogService}
}

// Search 愿望清单 + 预算 -> 三档篮子
// 输入不合法时退化为三个空档，不报错
func (ctl *SearchController) Search(c *gin.Context) {
	var req dto.SearchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, dto.SearchResp{
			Cheaper: []dto.BasketResp{}, Exact: []dto.BasketResp{}, Above: []dto.BasketResp{},
		})
		return
	}

	budget, ok := req.ParseBudget()
	if !ok {
		budget = -1 // 交给引擎按非法预算处理
	}

	result, err := ctl.basketService.Search(c.Request.Context(), req.Items, budget)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ToSearchResp(result))
}

// Debug 诊断用的原始目录行查询
func (ctl *SearchController) Debug(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	rows, err := ctl.catalogService.DebugSearch(c.Request.Context(), q, debugLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "rows": rows})
}
