package views

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/GrainArc/GeoTopo/Graph"
	"github.com/GrainArc/GeoTopo/ImgHandler"
	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/GrainArc/GeoTopo/Transformer"
	"github.com/GrainArc/GeoTopo/WordGenerator"
	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// GetGeoJson 导出会话图形的面与孤立点要素集
func (uc *UserController) GetGeoJson(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}

	s.Lock()
	defer s.Unlock()
	fc := Transformer.TopologyToGeoJson(s.Graph, map[string]interface{}{"layername": s.Name})
	c.JSON(http.StatusOK, fc)
}

// GetEdges 导出会话图形的边要素集，带两侧面归属
func (uc *UserController) GetEdges(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}

	s.Lock()
	defer s.Unlock()
	c.JSON(http.StatusOK, s.Graph.EdgesToFeatureCollection())
}

// GetFaceAt 查询覆盖指定坐标的面
func (uc *UserController) GetFaceAt(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}
	x, errX := strconv.ParseFloat(c.Query("x"), 64)
	y, errY := strconv.ParseFloat(c.Query("y"), 64)
	if errX != nil || errY != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "坐标参数不合法"})
		return
	}

	s.Lock()
	defer s.Unlock()
	pt := orb.Point{x, y}
	for _, f := range s.Graph.Faces() {
		if planar.PolygonContains(f.ToOrb(), pt) {
			c.JSON(http.StatusOK, gin.H{"code": 200, "data": faceFeature(f)})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": nil, "message": "该坐标不在任何面内"})
}

// GetNearestEdge 查询距指定坐标最近的边
func (uc *UserController) GetNearestEdge(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}
	x, errX := strconv.ParseFloat(c.Query("x"), 64)
	y, errY := strconv.ParseFloat(c.Query("y"), 64)
	if errX != nil || errY != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "坐标参数不合法"})
		return
	}

	s.Lock()
	defer s.Unlock()
	e := s.Graph.NearestEdge(Topology.Coordinate{X: x, Y: y})
	if e.IsNil() {
		c.JSON(http.StatusOK, gin.H{"code": 200, "data": nil, "message": "图中没有边"})
		return
	}
	u, v := e.Vertices()
	feat := geojson.NewFeature(orb.LineString{
		{u.Position().X, u.Position().Y},
		{v.Position().X, v.Position().Y},
	})
	feat.Properties = geojson.Properties{
		"left":  int(e.FaceA().ID()),
		"right": int(e.FaceB().ID()),
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": feat})
}

// OutMVT 会话图形的矢量瓦片
func (uc *UserController) OutMVT(c *gin.Context) {
	uid := c.Param("session_id")
	z, _ := strconv.Atoi(c.Param("z"))
	x, _ := strconv.Atoi(c.Param("x"))
	y, _ := strconv.Atoi(strings.TrimSuffix(c.Param("y.pbf"), ".pbf"))

	s, ok := uc.getSession(c, uid)
	if !ok {
		return
	}

	s.Lock()
	data, err := uc.manager.Tiles().Tile(uid, s.Graph, uint32(z), uint32(x), uint32(y))
	s.Unlock()
	if err != nil {
		c.String(http.StatusOK, "err")
		return
	}
	c.Data(http.StatusOK, "application/x-protobuf", data)
}

// Preview 会话图形预览图
func (uc *UserController) Preview(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}

	opts := ImgHandler.DefaultRenderOptions()
	if w, err := strconv.Atoi(c.DefaultQuery("width", "0")); err == nil && w > 0 {
		opts.Width = w
	}
	if h, err := strconv.Atoi(c.DefaultQuery("height", "0")); err == nil && h > 0 {
		opts.Height = h
	}
	opts.Format = c.DefaultQuery("format", opts.Format)
	opts.ShowLabels = c.DefaultQuery("labels", "true") == "true"
	opts.ShowVertices = c.DefaultQuery("vertices", "true") == "true"

	s.Lock()
	data, err := ImgHandler.GraphRender(s.Graph, opts)
	var legend []byte
	if err == nil && c.Query("inset") == "legend" {
		legend, err = ImgHandler.TopoLegend(s.Graph)
	}
	s.Unlock()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": err.Error()})
		return
	}
	if legend != nil {
		data, err = ImgHandler.EmbedInset(legend, data, opts.Format, 0.2, 10, ImgHandler.InsetBottomRight)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
			return
		}
	}

	mime := "image/png"
	if opts.Format == "webp" {
		mime = "image/webp"
	}
	c.Data(http.StatusOK, mime, data)
}

// Legend 会话图形图例
func (uc *UserController) Legend(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}

	s.Lock()
	data, err := ImgHandler.TopoLegend(s.Graph)
	s.Unlock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// Report 生成拓扑检查报告并下载
func (uc *UserController) Report(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}

	s.Lock()
	doc, err := WordGenerator.TopoReport(s.Graph, s.Name)
	s.Unlock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": fmt.Sprintf("报告生成失败: %v", err)})
		return
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": fmt.Sprintf("报告输出失败: %v", err)})
		return
	}
	sendAttachment(c, s.Name+"拓扑检查报告.docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", buf.Bytes())
}

// AdjacencyGraph 导出面邻接图
func (uc *UserController) AdjacencyGraph(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}

	s.Lock()
	dg := Graph.FromTopology(s.Graph)
	s.Unlock()

	type nodeItem struct {
		ID int     `json:"id"`
		X  float64 `json:"x"`
		Y  float64 `json:"y"`
	}
	type edgeItem struct {
		From int     `json:"from"`
		To   int     `json:"to"`
		Cost float64 `json:"cost"`
	}

	ids := make([]int, 0, len(dg.Nodes))
	for id := range dg.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var nodes []nodeItem
	for _, id := range ids {
		n := dg.Nodes[id]
		nodes = append(nodes, nodeItem{ID: n.ID, X: n.Point.X(), Y: n.Point.Y()})
	}
	var edgeList []edgeItem
	for _, e := range dg.Edges {
		edgeList = append(edgeList, edgeItem{From: e.From.ID, To: e.To.ID, Cost: e.Cost})
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"nodes": nodes, "edges": edgeList}})
}

// FacePath 面邻接图上两面之间的最短路径
func (uc *UserController) FacePath(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}
	from, errF := strconv.Atoi(c.Query("from"))
	to, errT := strconv.Atoi(c.Query("to"))
	if errF != nil || errT != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "面句柄参数不合法"})
		return
	}

	s.Lock()
	dg := Graph.FromTopology(s.Graph)
	s.Unlock()

	path, cost, err := dg.ShortestPath(from, to)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": err.Error()})
		return
	}

	faceIds := []int{from}
	for _, e := range path {
		faceIds = append(faceIds, e.To.ID)
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"path": faceIds, "cost": cost}})
}

// FaceComponents 面邻接图的连通分量
func (uc *UserController) FaceComponents(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}

	s.Lock()
	dg := Graph.FromTopology(s.Graph)
	s.Unlock()

	comps := dg.ConnectedComponents()
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"count": len(comps), "components": comps}})
}

// FaceMaxFlow 面邻接图上源汇两面间的最大流
func (uc *UserController) FaceMaxFlow(c *gin.Context) {
	s, ok := uc.getSession(c, c.Query("session_id"))
	if !ok {
		return
	}
	source, errS := strconv.Atoi(c.Query("source"))
	sink, errT := strconv.Atoi(c.Query("sink"))
	if errS != nil || errT != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "面句柄参数不合法"})
		return
	}

	s.Lock()
	dg := Graph.FromTopology(s.Graph)
	s.Unlock()

	flow, err := dg.MaxFlow(source, sink)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"max_flow": flow}})
}
