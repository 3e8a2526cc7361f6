package views

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/GrainArc/GeoTopo/services"
	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// featurePolygon 把GeoJSON面要素转成拓扑输入多边形
func featurePolygon(feat *geojson.Feature) (Topology.Polygon, error) {
	if feat == nil || feat.Geometry == nil {
		return Topology.Polygon{}, errors.New("要素缺少几何")
	}
	switch gm := feat.Geometry.(type) {
	case orb.Polygon:
		return Topology.PolygonFromOrb(gm), nil
	case orb.Ring:
		return Topology.PolygonFromOrb(orb.Polygon{gm}), nil
	}
	return Topology.Polygon{}, fmt.Errorf("几何类型%s不是面", feat.Geometry.GeoJSONType())
}

// AddPolygon 向会话添加独立面要素
func (uc *UserController) AddPolygon(c *gin.Context) {
	var req PolygonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": fmt.Sprintf("请求参数错误: %v", err)})
		return
	}
	s, ok := uc.getSession(c, req.SessionId)
	if !ok {
		return
	}
	poly, err := featurePolygon(req.Feature)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": err.Error()})
		return
	}

	start := time.Now()
	s.Lock()
	defer s.Unlock()
	face, err := s.Graph.AddPolygon(poly)
	if err != nil {
		status := topoErrStatus(err)
		c.JSON(status, gin.H{"code": status, "message": err.Error()})
		return
	}
	s.Touch()
	uc.manager.InvalidateTiles(s.Uid)
	services.RecordOperation(s, "AddPolygon", req.Feature, time.Since(start))

	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "面要素添加成功", "data": gin.H{
		"face":    faceFeature(face),
		"summary": sessionSummary(s),
	}})
}

// MergePolygon 面要素叠置合并进会话，返回落在新面范围内的全部面
func (uc *UserController) MergePolygon(c *gin.Context) {
	var req PolygonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": fmt.Sprintf("请求参数错误: %v", err)})
		return
	}
	s, ok := uc.getSession(c, req.SessionId)
	if !ok {
		return
	}
	poly, err := featurePolygon(req.Feature)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": err.Error()})
		return
	}

	start := time.Now()
	s.Lock()
	defer s.Unlock()
	faces, err := s.Graph.MergePolygon(poly)
	if err != nil {
		status := topoErrStatus(err)
		c.JSON(status, gin.H{"code": status, "message": err.Error()})
		return
	}
	s.Touch()
	uc.manager.InvalidateTiles(s.Uid)
	services.RecordOperation(s, "MergePolygon", req.Feature, time.Since(start))

	fc := geojson.NewFeatureCollection()
	for _, f := range faces {
		fc.Append(faceFeature(f))
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "面要素合并成功", "data": gin.H{
		"faces":   fc,
		"summary": sessionSummary(s),
	}})
}

// MergeGraph 把另一个会话的图整体并入当前会话
func (uc *UserController) MergeGraph(c *gin.Context) {
	var req MergeGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": fmt.Sprintf("请求参数错误: %v", err)})
		return
	}
	if req.SessionId == req.OtherSessionId {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "不能与自身合并"})
		return
	}
	s, ok := uc.getSession(c, req.SessionId)
	if !ok {
		return
	}
	other, ok := uc.getSession(c, req.OtherSessionId)
	if !ok {
		return
	}

	// 固定按会话号顺序加锁，避免互相合并时死锁
	first, second := s, other
	if second.Uid < first.Uid {
		first, second = second, first
	}
	start := time.Now()
	first.Lock()
	defer first.Unlock()
	second.Lock()
	defer second.Unlock()

	if err := s.Graph.MergeGraph(other.Graph); err != nil {
		status := topoErrStatus(err)
		c.JSON(status, gin.H{"code": status, "message": err.Error()})
		return
	}
	s.Touch()
	uc.manager.InvalidateTiles(s.Uid)
	services.RecordOperation(s, "MergeGraph", gin.H{"other_session_id": other.Uid}, time.Since(start))

	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "图合并成功", "data": sessionSummary(s)})
}

// AddPoint 插入孤立点
func (uc *UserController) AddPoint(c *gin.Context) {
	var req PointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": fmt.Sprintf("请求参数错误: %v", err)})
		return
	}
	s, ok := uc.getSession(c, req.SessionId)
	if !ok {
		return
	}

	start := time.Now()
	s.Lock()
	defer s.Unlock()
	v := s.Graph.AddPoint(Topology.Coordinate{X: req.X, Y: req.Y})
	s.Touch()
	uc.manager.InvalidateTiles(s.Uid)
	services.RecordOperation(s, "AddPoint", gin.H{"x": req.X, "y": req.Y}, time.Since(start))

	pos := v.Position()
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "点添加成功", "data": gin.H{
		"vertex_id": int(v.ID()),
		"x":         pos.X,
		"y":         pos.Y,
		"summary":   sessionSummary(s),
	}})
}

// RemoveVertex 按坐标删除顶点
func (uc *UserController) RemoveVertex(c *gin.Context) {
	var req RemoveVertexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": fmt.Sprintf("请求参数错误: %v", err)})
		return
	}
	mode, err := parseRemoveMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": err.Error()})
		return
	}
	s, ok := uc.getSession(c, req.SessionId)
	if !ok {
		return
	}

	start := time.Now()
	s.Lock()
	defer s.Unlock()
	removed, err := s.Graph.RemoveVertex(Topology.Coordinate{X: req.X, Y: req.Y}, mode)
	if err != nil {
		status := topoErrStatus(err)
		c.JSON(status, gin.H{"code": status, "message": err.Error()})
		return
	}
	if removed {
		s.Touch()
		uc.manager.InvalidateTiles(s.Uid)
		services.RecordOperation(s, "RemoveVertex", gin.H{"x": req.X, "y": req.Y, "mode": mode.String()}, time.Since(start))
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{
		"removed": removed,
		"summary": sessionSummary(s),
	}})
}

// ClearSession 清空会话图形
func (uc *UserController) ClearSession(c *gin.Context) {
	var req SessionIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": fmt.Sprintf("请求参数错误: %v", err)})
		return
	}
	s, ok := uc.getSession(c, req.SessionId)
	if !ok {
		return
	}

	start := time.Now()
	s.Lock()
	defer s.Unlock()
	s.Graph.Clear()
	s.Touch()
	uc.manager.InvalidateTiles(s.Uid)
	services.RecordOperation(s, "Clear", nil, time.Since(start))

	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "会话已清空", "data": sessionSummary(s)})
}

// VerifyTopology 校验会话图形的半边结构自洽性
func (uc *UserController) VerifyTopology(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}

	s.Lock()
	err := s.Graph.VerifyTopology()
	s.Unlock()

	if err != nil {
		c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"valid": false, "message": err.Error()}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"valid": true}})
}
