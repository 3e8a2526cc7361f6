package views

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/GrainArc/GeoTopo/methods"
	"github.com/GrainArc/GeoTopo/models"
	"github.com/gin-gonic/gin"
)

// CreateSession 新建编辑会话
func (uc *UserController) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": fmt.Sprintf("请求参数错误: %v", err)})
		return
	}
	if req.Name == "" {
		req.Name = "未命名会话"
	}

	s := uc.manager.CreateSession(req.Name, precisionOf(req.Scale))
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "会话创建成功", "data": sessionSummary(s)})
}

// ListSessions 列出全部会话
func (uc *UserController) ListSessions(c *gin.Context) {
	var list []gin.H
	for _, s := range uc.manager.ListSessions() {
		list = append(list, sessionSummary(s))
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"total": len(list), "list": list}})
}

// GetSession 查询单个会话概要
func (uc *UserController) GetSession(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}

	s.Lock()
	summary := sessionSummary(s)
	b := s.Graph.Bound()
	s.Unlock()

	if !b.IsEmpty() {
		summary["bound"] = []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": summary})
}

// DropSession 关闭会话
func (uc *UserController) DropSession(c *gin.Context) {
	uid := c.Query("session_id")
	if err := uc.manager.DropSession(uid); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "会话已关闭"})
}

// SaveLayer 把会话图形存入图层库
func (uc *UserController) SaveLayer(c *gin.Context) {
	var req SaveLayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": fmt.Sprintf("请求参数错误: %v", err)})
		return
	}
	s, ok := uc.getSession(c, req.SessionId)
	if !ok {
		return
	}

	s.Lock()
	layer, err := uc.manager.SaveLayer(s, req.LayerName)
	s.Unlock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": fmt.Sprintf("图层保存失败: %v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "图层保存成功", "data": gin.H{
		"layer_id":     layer.ID,
		"layer_name":   layer.LayerName,
		"vertex_count": layer.VertexCount,
		"edge_count":   layer.EdgeCount,
		"face_count":   layer.FaceCount,
		"updated_date": layer.UpdatedDate,
	}})
}

// LoadLayer 从图层库还原出新会话
func (uc *UserController) LoadLayer(c *gin.Context) {
	var req LoadLayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": fmt.Sprintf("请求参数错误: %v", err)})
		return
	}

	s, err := uc.manager.LoadLayer(req.LayerId, precisionOf(req.Scale))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "图层加载成功", "data": sessionSummary(s)})
}

// ListLayers 分页列出图层库
func (uc *UserController) ListLayers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	DB := models.DB
	var layers []models.TopoLayer
	var total int64
	DB.Model(&models.TopoLayer{}).Count(&total)
	DB.Offset((page - 1) * pageSize).Limit(pageSize).Order("id DESC").Find(&layers)

	type layerItem struct {
		ID          int64  `json:"id"`
		LayerName   string `json:"layer_name"`
		VertexCount int    `json:"vertex_count"`
		EdgeCount   int    `json:"edge_count"`
		FaceCount   int    `json:"face_count"`
		UpdatedDate string `json:"updated_date"`
	}
	var list []layerItem
	for _, layer := range layers {
		list = append(list, layerItem{
			ID:          layer.ID,
			LayerName:   layer.LayerName,
			VertexCount: layer.VertexCount,
			EdgeCount:   layer.EdgeCount,
			FaceCount:   layer.FaceCount,
			UpdatedDate: layer.UpdatedDate,
		})
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"list":      list,
	}})
}

// DeleteLayer 删除图层库记录
func (uc *UserController) DeleteLayer(c *gin.Context) {
	layerID, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的图层ID"})
		return
	}

	result := models.DB.Delete(&models.TopoLayer{}, layerID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": fmt.Sprintf("删除失败: %v", result.Error)})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "图层不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "删除成功"})
}

// ListOperations 分页查询会话的操作流水
func (uc *UserController) ListOperations(c *gin.Context) {
	uid := c.Query("session_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	DB := models.DB
	var ops []models.TopoOperation
	var total int64
	DB.Model(&models.TopoOperation{}).Where("session_id = ?", uid).Count(&total)
	DB.Where("session_id = ?", uid).Offset((page - 1) * pageSize).Limit(pageSize).Order("id DESC").Find(&ops)

	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"list":      methods.LowerJSONTransform(ops),
	}})
}

// Status 服务状态概况
func (uc *UserController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{
		"session_count":   len(uc.manager.ListSessions()),
		"tile_cache_size": uc.manager.Tiles().CacheSize(),
	}})
}
