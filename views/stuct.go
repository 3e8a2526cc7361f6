package views

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/GrainArc/GeoTopo/services"
	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"
)

type UserController struct {
	manager *services.GraphManager
}

func NewUserController() *UserController {
	return &UserController{manager: services.GetGraphManager()}
}

// CreateSessionRequest 新建会话请求，Scale大于0时启用固定精度
type CreateSessionRequest struct {
	Name  string  `json:"name"`
	Scale float64 `json:"scale"`
}

// PolygonRequest 面要素编辑请求
type PolygonRequest struct {
	SessionId string           `json:"session_id" binding:"required"`
	Feature   *geojson.Feature `json:"feature" binding:"required"`
}

// PointRequest 点编辑请求
type PointRequest struct {
	SessionId string  `json:"session_id" binding:"required"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// RemoveVertexRequest 删点请求，Mode取Normal或Clean
type RemoveVertexRequest struct {
	SessionId string  `json:"session_id" binding:"required"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Mode      string  `json:"mode"`
}

// MergeGraphRequest 把另一个会话的图并入当前会话
type MergeGraphRequest struct {
	SessionId      string `json:"session_id" binding:"required"`
	OtherSessionId string `json:"other_session_id" binding:"required"`
}

// SessionIdRequest 只带会话号的请求体
type SessionIdRequest struct {
	SessionId string `json:"session_id" binding:"required"`
}

// SaveLayerRequest 会话图形入库请求
type SaveLayerRequest struct {
	SessionId string `json:"session_id" binding:"required"`
	LayerName string `json:"layer_name" binding:"required"`
}

// LoadLayerRequest 从图层库还原会话的请求
type LoadLayerRequest struct {
	LayerId int64   `json:"layer_id" binding:"required"`
	Scale   float64 `json:"scale"`
}

// sessionSummary 会话概要，带图形规模统计
func sessionSummary(s *services.GraphSession) gin.H {
	g := s.Graph
	summary := gin.H{
		"session_id":     s.Uid,
		"name":           s.Name,
		"vertex_count":   g.VertexCount(),
		"edge_count":     g.EdgeCount(),
		"halfedge_count": g.HalfedgeCount(),
		"face_count":     g.FaceCount(),
		"created_at":     s.CreatedAt.Format("2006-01-02 15:04:05"),
		"updated_at":     s.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if s.LayerId != 0 {
		summary["layer_id"] = s.LayerId
	}
	return summary
}

// precisionOf Scale大于0时返回固定精度模型，否则返回nil走默认精度
func precisionOf(scale float64) Topology.Precision {
	if scale > 0 {
		return Topology.FixedPrecision{Scale: scale}
	}
	return nil
}

func parseRemoveMode(s string) (Topology.RemoveMode, error) {
	switch s {
	case "", "Normal", "normal":
		return Topology.RemoveNormal, nil
	case "Clean", "clean":
		return Topology.RemoveClean, nil
	}
	return Topology.RemoveNormal, fmt.Errorf("未知的删除模式%s", s)
}

// topoErrStatus 按错误类型选HTTP状态码：输入问题400，内部不变量问题500
func topoErrStatus(err error) int {
	var ge *Topology.GeometryError
	var oe *Topology.InvalidOperationError
	if errors.As(err, &ge) || errors.As(err, &oe) {
		return http.StatusBadRequest
	}
	var te *Topology.TopologyError
	if errors.As(err, &te) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// getSession 取会话，不存在时直接写404响应
func (uc *UserController) getSession(c *gin.Context, uid string) (*services.GraphSession, bool) {
	s, err := uc.manager.GetSession(uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "message": err.Error()})
		return nil, false
	}
	return s, true
}

// faceFeature 单个面转GeoJSON要素
func faceFeature(f Topology.Face) *geojson.Feature {
	feat := geojson.NewFeature(f.ToOrb())
	feat.Properties = geojson.Properties{"fid": int(f.ID())}
	return feat
}

// sendAttachment 按附件下载方式返回文件字节
func sendAttachment(c *gin.Context, filename, mime string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", url.QueryEscape(filename)))
	c.Data(http.StatusOK, mime, data)
}
