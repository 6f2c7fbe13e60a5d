package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"budgetsmart_dev_v1/internal/api/dto"
	"budgetsmart_dev_v1/internal/service"
)

// ==================== JobController 抓取任务查询 ====================

type JobController struct {
	catalogService *service.CatalogService
}

func NewJobController(catalogService *service.CatalogService) *JobController {
	return &JobController{catalogService: catalogService}
}

// Get 按 job_id 查询单个任务
func (ctl *JobController) Get(c *gin.Context) {
	jobID := c.Param("id")
	job, err := ctl.catalogService.GetJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ToJobResp(job))
}

// List 查询卖家最近的任务
func (ctl *JobController) List(c *gin.Context) {
	sellerID, err := strconv.ParseInt(c.Query("seller_id"), 10, 64)
	if err != nil || sellerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seller_id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	jobs, err := ctl.catalogService.ListJobs(c.Request.Context(), sellerID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resps := make([]dto.JobResp, 0, len(jobs))
	for i := range jobs {
		resps = append(resps, dto.ToJobResp(&jobs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(resps), "jobs": resps})
}
