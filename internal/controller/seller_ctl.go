package controller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"budgetsmart_dev_v1/internal/service"
)

// ==================== SellerController 卖家注册 ====================

type SellerController struct {
	catalogService *service.CatalogService
	storage        *service.StorageService
}

func NewSellerController(catalogService *service.CatalogService, storage *service.StorageService) *SellerController {
	return &SellerController{catalogService: catalogService, storage: storage}
}

// Register 卖家注册入口
// type=manual: 同步录入一件商品（可带配图）
// type=website: 建卖家并触发后台抓取，立即返回
func (ctl *SellerController) Register(c *gin.Context) {
	sellerName := strings.TrimSpace(c.PostForm("sellerName"))
	website := strings.TrimSpace(c.PostForm("website"))
	submitType := c.DefaultPostForm("type", "manual")

	if sellerName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sellerName is required"})
		return
	}

	switch submitType {
	case "manual":
		ctl.registerManual(c, sellerName, website)
	case "website":
		ctl.registerWebsite(c, sellerName, website)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type"})
	}
}

// ==================== 手工录入 ====================

func (ctl *SellerController) registerManual(c *gin.Context, sellerName, website string) {
	itemName := strings.TrimSpace(c.PostForm("itemName"))
	priceRaw := strings.TrimSpace(c.PostForm("itemPrice"))
	if itemName == "" || priceRaw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemName and itemPrice are required"})
		return
	}

	price := service.NormalizePrice(priceRaw)
	if price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemPrice must be a positive number"})
		return
	}

	// 配图可选；落盘失败是服务端问题，不归为输入错误
	image := ""
	if file, err := c.FormFile("image"); err == nil && file != nil {
		saved, saveErr := ctl.storage.SaveImage(file)
		if saveErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed"})
			return
		}
		image = saved
	}

	ctx := c.Request.Context()
	if _, err := ctl.catalogService.RegisterManualItem(ctx, sellerName, website, itemName, price, image); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item added!"})
}

// ==================== 店铺接入 ====================

func (ctl *SellerController) registerWebsite(c *gin.Context, sellerName, website string) {
	if website == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "website is required"})
		return
	}

	ctx := c.Request.Context()
	job, queued, err := ctl.catalogService.ConnectWebsite(ctx, sellerName, website)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 抓取结果不同步返回；哪怕没排上队也先给乐观应答
	resp := gin.H{
		"success": true,
		"message": "Store connected! Products are being imported in the background.",
	}
	if job != nil {
		resp["job_id"] = job.JobID
	}
	if !queued && job == nil {
		resp["message"] = fmt.Sprintf("Store connected! A recent import for %s is still fresh.", sellerName)
	}
	c.JSON(http.StatusOK, resp)
}
