package router

import (
	"github.com/gin-gonic/gin"

	"budgetsmart_dev_v1/internal/controller"
)

// Controllers 路由依赖的控制器集合
type Controllers struct {
	Seller *controller.SellerController
	Search *controller.SearchController
	Job    *controller.JobController
}

// SetupRouter 注册所有路由
func SetupRouter(ctl *Controllers, uploadDir string) *gin.Engine {
	r := gin.Default()

	// 手工上传的商品配图走静态目录
	r.Static("/uploads", uploadDir)

	api := r.Group("/api")
	{
		// POST /api/seller 卖家注册（手工录入 / 店铺接入）
		api.POST("/seller", ctl.Seller.Register)

		// POST /api/search 组合搜索
		api.POST("/search", ctl.Search.Search)

		// GET /api/debug?q= 诊断查询
		api.GET("/debug", ctl.Search.Debug)

		// 抓取任务状态
		jobs := api.Group("/jobs")
		{
			jobs.GET("", ctl.Job.List)
			jobs.GET("/:id", ctl.Job.Get)
		}
	}

	return r
}
