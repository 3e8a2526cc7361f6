package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/GrainArc/GeoTopo/Transformer"
	"github.com/GrainArc/GeoTopo/methods"
	"github.com/GrainArc/GeoTopo/models"
	"github.com/GrainArc/GeoTopo/tiles"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gorm.io/datatypes"
)

// GraphSession 一个在线编辑会话，持有内存中的拓扑图
// 图本身不支持并发修改，会话上的编辑操作先Lock再执行
type GraphSession struct {
	Uid       string
	Name      string
	LayerId   int64 // 从图层库加载时记录来源图层，0表示不来自图层库
	Graph     *Topology.HalfedgeGraph
	CreatedAt time.Time
	UpdatedAt time.Time
	mu        sync.Mutex
}

// Lock 串行化会话上的图操作
func (s *GraphSession) Lock() { s.mu.Lock() }

// Unlock 解除串行化
func (s *GraphSession) Unlock() { s.mu.Unlock() }

// Touch 更新会话修改时间
func (s *GraphSession) Touch() { s.UpdatedAt = time.Now() }

// GraphManager 会话管理器
type GraphManager struct {
	sessions map[string]*GraphSession
	mu       sync.RWMutex
	tiles    *tiles.TileServer
}

var (
	graphManager     *GraphManager
	graphManagerOnce sync.Once
)

// GetGraphManager 获取单例管理器
func GetGraphManager() *GraphManager {
	graphManagerOnce.Do(func() {
		graphManager = &GraphManager{
			sessions: make(map[string]*GraphSession),
			tiles:    tiles.NewTileServer(),
		}
	})
	return graphManager
}

func (m *GraphManager) register(name string, g *Topology.HalfedgeGraph) *GraphSession {
	now := time.Now()
	s := &GraphSession{
		Uid:       uuid.New().String(),
		Name:      name,
		Graph:     g,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.mu.Lock()
	m.sessions[s.Uid] = s
	m.mu.Unlock()
	return s
}

// CreateSession 新建空会话，pm为nil时用默认精度模型
func (m *GraphManager) CreateSession(name string, pm Topology.Precision) *GraphSession {
	return m.register(name, Topology.NewHalfedgeGraphWithPrecision(pm))
}

// AdoptGraph 把现成的图挂成新会话，数据导入后使用
func (m *GraphManager) AdoptGraph(name string, g *Topology.HalfedgeGraph) *GraphSession {
	return m.register(name, g)
}

// GetSession 按会话号取会话
func (m *GraphManager) GetSession(uid string) (*GraphSession, error) {
	m.mu.RLock()
	s, ok := m.sessions[uid]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("会话%s不存在", uid)
	}
	return s, nil
}

// DropSession 关闭会话并丢弃其瓦片缓存
func (m *GraphManager) DropSession(uid string) error {
	m.mu.Lock()
	_, ok := m.sessions[uid]
	if ok {
		delete(m.sessions, uid)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("会话%s不存在", uid)
	}
	m.tiles.Invalidate(uid)
	return nil
}

// ListSessions 按创建时间列出全部会话
func (m *GraphManager) ListSessions() []*GraphSession {
	m.mu.RLock()
	out := make([]*GraphSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Tiles 会话瓦片服务
func (m *GraphManager) Tiles() *tiles.TileServer { return m.tiles }

// InvalidateTiles 图形变更后丢弃该会话的瓦片缓存
func (m *GraphManager) InvalidateTiles(uid string) { m.tiles.Invalidate(uid) }

// CloseAll 清空全部会话与瓦片缓存
func (m *GraphManager) CloseAll() {
	m.mu.Lock()
	m.sessions = make(map[string]*GraphSession)
	m.mu.Unlock()
	m.tiles.Clear()
}

// SaveLayer 把会话图形存入图层库，同名图层覆盖更新
func (m *GraphManager) SaveLayer(s *GraphSession, layerName string) (*models.TopoLayer, error) {
	if models.DB == nil {
		return nil, errors.New("数据库未初始化")
	}
	fc := s.Graph.ToFeatureCollection()
	// 面要素集不含两侧都无面的裸边，补成线要素一并落库，加载时按线叠置还原
	for _, e := range s.Graph.Edges() {
		if !e.FaceA().IsNil() || !e.FaceB().IsNil() {
			continue
		}
		u, v := e.Vertices()
		feat := geojson.NewFeature(orb.LineString{
			{u.Position().X, u.Position().Y},
			{v.Position().X, v.Position().Y},
		})
		feat.Properties = geojson.Properties{"kind": "line"}
		fc.Append(feat)
	}
	raw, err := fc.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var layer models.TopoLayer
	if err := models.DB.Where("uid = ? AND layer_name = ?", s.Uid, layerName).First(&layer).Error; err != nil {
		layer = models.TopoLayer{Uid: s.Uid, LayerName: layerName}
	}
	// 内容没变就不重复落库
	if layer.ID != 0 && methods.Md5Str(string(raw)) == methods.Md5Str(string(layer.GeoJson)) {
		return &layer, nil
	}
	layer.GeoJson = datatypes.JSON(raw)
	layer.Bounds = models.BoundsToWKB(s.Graph.Bound())
	layer.VertexCount = s.Graph.VertexCount()
	layer.EdgeCount = s.Graph.EdgeCount()
	layer.FaceCount = s.Graph.FaceCount()
	layer.UpdatedDate = time.Now().Format("2006-01-02 15:04:05")

	if layer.ID == 0 {
		err = models.DB.Create(&layer).Error
	} else {
		err = models.DB.Save(&layer).Error
	}
	if err != nil {
		return nil, err
	}
	return &layer, nil
}

// LoadLayer 从图层库还原出一个新会话
func (m *GraphManager) LoadLayer(layerID int64, pm Topology.Precision) (*GraphSession, error) {
	if models.DB == nil {
		return nil, errors.New("数据库未初始化")
	}
	var layer models.TopoLayer
	if err := models.DB.Where("id = ?", layerID).First(&layer).Error; err != nil {
		return nil, fmt.Errorf("图层%d不存在", layerID)
	}
	fc, err := geojson.UnmarshalFeatureCollection(layer.GeoJson)
	if err != nil {
		return nil, fmt.Errorf("图层GeoJSON解析失败: %w", err)
	}
	g, err := Transformer.GeoJsonToTopology(fc, pm)
	if err != nil {
		return nil, err
	}
	s := m.register(layer.LayerName, g)
	s.LayerId = layer.ID
	return s, nil
}

// RecordOperation 往操作流水表写一条记录，库未初始化时跳过
func RecordOperation(s *GraphSession, op string, params interface{}, cost time.Duration) {
	if models.DB == nil {
		return
	}
	raw, err := json.Marshal(params)
	if err != nil {
		raw = []byte("{}")
	}
	rec := models.TopoOperation{
		SessionId:   s.Uid,
		Op:          op,
		Params:      datatypes.JSON(raw),
		VertexCount: s.Graph.VertexCount(),
		EdgeCount:   s.Graph.EdgeCount(),
		FaceCount:   s.Graph.FaceCount(),
		DurationMs:  cost.Milliseconds(),
		Date:        time.Now().Format("2006-01-02 15:04:05"),
	}
	if err := models.DB.Create(&rec).Error; err != nil {
		log.Printf("操作流水写入失败: %v", err)
	}
}
