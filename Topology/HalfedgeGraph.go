package Topology

import (
	"math"

	"github.com/GrainArc/GeoTopo/rtree"
)

// HalfedgeGraph 半边结构的平面剖分图
// 顶点、半边、面集中存放在扁平切片中，相互之间通过整型句柄引用，
// 删除的槽位进入空闲链表等待复用
// 图的所有修改方法都假定调用方独占访问，内部不加锁
type HalfedgeGraph struct {
	vertices  []vertexRecord
	halfedges []halfedgeRecord
	faces     []faceRecord

	freeVertices  []VertexID
	freeHalfedges []HalfedgeID
	freeFaces     []FaceID

	// 规整化坐标到顶点句柄的索引，同一坐标重复插入复用既有顶点
	vertexIndex map[Coordinate]VertexID

	// 边包围盒索引，键为边的规范半边句柄，用于叠置分析的候选边过滤
	edgeIndex *rtree.RTree

	precision Precision

	vertexCount   int
	halfedgeCount int
	faceCount     int
}

// NewHalfedgeGraph 创建空图，使用默认精度模型
func NewHalfedgeGraph() *HalfedgeGraph {
	return NewHalfedgeGraphWithPrecision(DefaultPrecision())
}

// NewHalfedgeGraphWithPrecision 创建空图并指定精度模型
func NewHalfedgeGraphWithPrecision(p Precision) *HalfedgeGraph {
	if p == nil {
		p = DefaultPrecision()
	}
	return &HalfedgeGraph{
		vertexIndex: make(map[Coordinate]VertexID),
		edgeIndex:   &rtree.RTree{},
		precision:   p,
	}
}

// Clear 清空图中全部顶点、边和面
func (g *HalfedgeGraph) Clear() {
	g.vertices = g.vertices[:0]
	g.halfedges = g.halfedges[:0]
	g.faces = g.faces[:0]
	g.freeVertices = g.freeVertices[:0]
	g.freeHalfedges = g.freeHalfedges[:0]
	g.freeFaces = g.freeFaces[:0]
	g.vertexIndex = make(map[Coordinate]VertexID)
	g.edgeIndex = &rtree.RTree{}
	g.vertexCount = 0
	g.halfedgeCount = 0
	g.faceCount = 0
}

func (g *HalfedgeGraph) precise(c Coordinate) Coordinate {
	return g.precision.MakePrecise(c)
}

// ---------- 计数 ----------

func (g *HalfedgeGraph) VertexCount() int   { return g.vertexCount }
func (g *HalfedgeGraph) HalfedgeCount() int { return g.halfedgeCount }
func (g *HalfedgeGraph) EdgeCount() int     { return g.halfedgeCount / 2 }
func (g *HalfedgeGraph) FaceCount() int     { return g.faceCount }

// ---------- 公开包装类型 ----------

// Vertex 顶点视图，持有图指针与句柄，值可比较
type Vertex struct {
	g  *HalfedgeGraph
	id VertexID
}

func (v Vertex) IsNil() bool { return v.g == nil || v.id < 0 }

// ID 顶点句柄
func (v Vertex) ID() VertexID { return v.id }

// Position 顶点坐标
func (v Vertex) Position() Coordinate { return v.g.vertices[v.id].position }

// IsIsolated 是否为无关联边的点顶点
func (v Vertex) IsIsolated() bool { return v.g.vertices[v.id].outgoing == NilHalfedgeID }

// Outgoing 以该顶点为起点的任意一条半边，孤立顶点返回空半边
func (v Vertex) Outgoing() Halfedge {
	return Halfedge{g: v.g, id: v.g.vertices[v.id].outgoing}
}

// Degree 顶点的关联边数
func (v Vertex) Degree() int {
	return len(v.g.fanOf(v.id))
}

// Halfedges 顶点的出边扇，按twin.next顺序排列
func (v Vertex) Halfedges() []Halfedge {
	ids := v.g.fanOf(v.id)
	out := make([]Halfedge, 0, len(ids))
	for _, id := range ids {
		out = append(out, Halfedge{g: v.g, id: id})
	}
	return out
}

// Halfedge 半边视图
type Halfedge struct {
	g  *HalfedgeGraph
	id HalfedgeID
}

func (h Halfedge) IsNil() bool { return h.g == nil || h.id < 0 }

// ID 半边句柄
func (h Halfedge) ID() HalfedgeID { return h.id }

// Origin 半边起点
func (h Halfedge) Origin() Vertex { return Vertex{g: h.g, id: h.g.halfedges[h.id].origin} }

// Destination 半边终点，即对偶半边的起点
func (h Halfedge) Destination() Vertex {
	return Vertex{g: h.g, id: h.g.halfedges[h.g.halfedges[h.id].twin].origin}
}

// Twin 对偶半边
func (h Halfedge) Twin() Halfedge { return Halfedge{g: h.g, id: h.g.halfedges[h.id].twin} }

// Next 面边界上的下一条半边
func (h Halfedge) Next() Halfedge { return Halfedge{g: h.g, id: h.g.halfedges[h.id].next} }

// Prev 面边界上的上一条半边
func (h Halfedge) Prev() Halfedge { return Halfedge{g: h.g, id: h.g.halfedges[h.id].prev} }

// Face 半边左侧的面，无界侧返回空面
func (h Halfedge) Face() Face { return Face{g: h.g, id: h.g.halfedges[h.id].face} }

// Edge 半边所属的无向边
func (h Halfedge) Edge() Edge {
	return Edge{g: h.g, id: canonicalHalfedge(h.g, h.id)}
}

// Edge 无向边视图，同一条边的两个半边映射到同一个Edge值，
// 因此Edge之间可以直接用==判断是否为同一条边
type Edge struct {
	g  *HalfedgeGraph
	id HalfedgeID // 规范半边句柄，取半边对中较小者
}

func canonicalHalfedge(g *HalfedgeGraph, id HalfedgeID) HalfedgeID {
	if t := g.halfedges[id].twin; t < id {
		return t
	}
	return id
}

func (e Edge) IsNil() bool { return e.g == nil || e.id < 0 }

// ID 规范半边句柄，同一条边的两个半边给出同一个值
func (e Edge) ID() HalfedgeID { return e.id }

// Halfedges 边的两条半边
func (e Edge) Halfedges() (Halfedge, Halfedge) {
	return Halfedge{g: e.g, id: e.id}, Halfedge{g: e.g, id: e.g.halfedges[e.id].twin}
}

// Vertices 边的两个端点
func (e Edge) Vertices() (Vertex, Vertex) {
	a, b := e.Halfedges()
	return a.Origin(), b.Origin()
}

// FaceA 规范半边一侧的面，可能为空面
func (e Edge) FaceA() Face { return Face{g: e.g, id: e.g.halfedges[e.id].face} }

// FaceB 对偶半边一侧的面，可能为空面
func (e Edge) FaceB() Face {
	return Face{g: e.g, id: e.g.halfedges[e.g.halfedges[e.id].twin].face}
}

// Face 面视图
type Face struct {
	g  *HalfedgeGraph
	id FaceID
}

func (f Face) IsNil() bool { return f.g == nil || f.id < 0 }

// ID 面句柄
func (f Face) ID() FaceID { return f.id }

// Outer 外边界上的一条半边
func (f Face) Outer() Halfedge { return Halfedge{g: f.g, id: f.g.faces[f.id].outer} }

// Holes 每个洞边界上的一条半边
func (f Face) Holes() []Halfedge {
	hs := f.g.faces[f.id].holes
	out := make([]Halfedge, 0, len(hs))
	for _, id := range hs {
		out = append(out, Halfedge{g: f.g, id: id})
	}
	return out
}

// boundaryCycles 面的全部边界环，首项为外边界
func (f Face) boundaryCycles() [][]HalfedgeID {
	rec := f.g.faces[f.id]
	cycles := make([][]HalfedgeID, 0, 1+len(rec.holes))
	cycles = append(cycles, f.g.cycleOf(rec.outer))
	for _, h := range rec.holes {
		cycles = append(cycles, f.g.cycleOf(h))
	}
	return cycles
}

// Edges 面边界上的全部边，含洞边界
func (f Face) Edges() []Edge {
	var out []Edge
	seen := make(map[HalfedgeID]bool)
	for _, cyc := range f.boundaryCycles() {
		for _, id := range cyc {
			c := canonicalHalfedge(f.g, id)
			if !seen[c] {
				seen[c] = true
				out = append(out, Edge{g: f.g, id: c})
			}
		}
	}
	return out
}

// Vertices 面边界上的全部顶点，含洞边界
func (f Face) Vertices() []Vertex {
	var out []Vertex
	seen := make(map[VertexID]bool)
	for _, cyc := range f.boundaryCycles() {
		for _, id := range cyc {
			o := f.g.halfedges[id].origin
			if !seen[o] {
				seen[o] = true
				out = append(out, Vertex{g: f.g, id: o})
			}
		}
	}
	return out
}

// OuterRing 外边界坐标环，按边界走向排列
func (f Face) OuterRing() []Coordinate {
	return f.g.cycleCoords(f.g.faces[f.id].outer)
}

// HoleRings 各洞边界坐标环
func (f Face) HoleRings() [][]Coordinate {
	rec := f.g.faces[f.id]
	out := make([][]Coordinate, 0, len(rec.holes))
	for _, h := range rec.holes {
		out = append(out, f.g.cycleCoords(h))
	}
	return out
}

// IsAdjacent 判断两面是否共享至少一条边
func (f Face) IsAdjacent(other Face) bool {
	if f.g != other.g || f.IsNil() || other.IsNil() {
		return false
	}
	for _, cyc := range f.boundaryCycles() {
		for _, id := range cyc {
			twin := f.g.halfedges[id].twin
			if f.g.halfedges[twin].face == other.id {
				return true
			}
		}
	}
	return false
}

// ---------- 集合枚举 ----------

// Vertices 图中全部存活顶点
func (g *HalfedgeGraph) Vertices() []Vertex {
	out := make([]Vertex, 0, g.vertexCount)
	for i := range g.vertices {
		if g.vertices[i].alive {
			out = append(out, Vertex{g: g, id: VertexID(i)})
		}
	}
	return out
}

// Halfedges 图中全部存活半边
func (g *HalfedgeGraph) Halfedges() []Halfedge {
	out := make([]Halfedge, 0, g.halfedgeCount)
	for i := range g.halfedges {
		if g.halfedges[i].alive {
			out = append(out, Halfedge{g: g, id: HalfedgeID(i)})
		}
	}
	return out
}

// Edges 图中全部无向边
func (g *HalfedgeGraph) Edges() []Edge {
	out := make([]Edge, 0, g.halfedgeCount/2)
	for i := range g.halfedges {
		if g.halfedges[i].alive && HalfedgeID(i) < g.halfedges[i].twin {
			out = append(out, Edge{g: g, id: HalfedgeID(i)})
		}
	}
	return out
}

// Faces 图中全部面，不含无界区域
func (g *HalfedgeGraph) Faces() []Face {
	out := make([]Face, 0, g.faceCount)
	for i := range g.faces {
		if g.faces[i].alive {
			out = append(out, Face{g: g, id: FaceID(i)})
		}
	}
	return out
}

// VertexAt 按坐标查找顶点，坐标先经精度模型规整化
func (g *HalfedgeGraph) VertexAt(c Coordinate) (Vertex, bool) {
	id, ok := g.vertexIndex[g.precise(c)]
	if !ok {
		return Vertex{}, false
	}
	return Vertex{g: g, id: id}, true
}

// NearestEdge 查找包围盒距给定坐标最近的边，图中无边时返回空边
// 按包围盒距离挑出的候选再按实际点线距离比较，
// 候选距离一旦超过当前最优即可终止
func (g *HalfedgeGraph) NearestEdge(c Coordinate) Edge {
	pc := g.precise(c)
	probe := rtree.Box{MinX: pc.X, MinY: pc.Y, MaxX: pc.X, MaxY: pc.Y}
	best := NilHalfedgeID
	bestDist := 0.0
	g.edgeIndex.PrioritySearch(probe, func(id int) error {
		he := HalfedgeID(id)
		if !g.halfedges[he].alive {
			return nil
		}
		a := g.position(g.halfedges[he].origin)
		b := g.position(g.destination(he))
		d := distToSegment(pc, a, b)
		if best == NilHalfedgeID || d < bestDist {
			best, bestDist = he, d
		}
		env := g.edgeBox(he)
		boxDist := math.Max(0, math.Max(env.MinX-pc.X, pc.X-env.MaxX))
		boxDistY := math.Max(0, math.Max(env.MinY-pc.Y, pc.Y-env.MaxY))
		if boxDist*boxDist+boxDistY*boxDistY > bestDist*bestDist {
			return rtree.Stop
		}
		return nil
	})
	if best == NilHalfedgeID {
		return Edge{}
	}
	return Edge{g: g, id: best}
}

// AddPoint 插入一个孤立点顶点，坐标处已有顶点时返回既有顶点
func (g *HalfedgeGraph) AddPoint(c Coordinate) Vertex {
	pc := g.precise(c)
	if id, ok := g.vertexIndex[pc]; ok {
		return Vertex{g: g, id: id}
	}
	id := g.newVertex(pc)
	g.vertices[id].isPoint = true
	return Vertex{g: g, id: id}
}

// ---------- 存储管理 ----------

func (g *HalfedgeGraph) newVertex(pc Coordinate) VertexID {
	rec := vertexRecord{position: pc, outgoing: NilHalfedgeID, alive: true}
	var id VertexID
	if n := len(g.freeVertices); n > 0 {
		id = g.freeVertices[n-1]
		g.freeVertices = g.freeVertices[:n-1]
		g.vertices[id] = rec
	} else {
		id = VertexID(len(g.vertices))
		g.vertices = append(g.vertices, rec)
	}
	g.vertexIndex[pc] = id
	g.vertexCount++
	return id
}

func (g *HalfedgeGraph) freeVertex(id VertexID) {
	delete(g.vertexIndex, g.vertices[id].position)
	g.vertices[id] = vertexRecord{}
	g.freeVertices = append(g.freeVertices, id)
	g.vertexCount--
}

func (g *HalfedgeGraph) newHalfedge(origin VertexID) HalfedgeID {
	rec := halfedgeRecord{
		origin: origin,
		twin:   NilHalfedgeID,
		next:   NilHalfedgeID,
		prev:   NilHalfedgeID,
		face:   NilFaceID,
		alive:  true,
	}
	var id HalfedgeID
	if n := len(g.freeHalfedges); n > 0 {
		id = g.freeHalfedges[n-1]
		g.freeHalfedges = g.freeHalfedges[:n-1]
		g.halfedges[id] = rec
	} else {
		id = HalfedgeID(len(g.halfedges))
		g.halfedges = append(g.halfedges, rec)
	}
	g.halfedgeCount++
	return id
}

func (g *HalfedgeGraph) freeHalfedge(id HalfedgeID) {
	g.halfedges[id] = halfedgeRecord{}
	g.freeHalfedges = append(g.freeHalfedges, id)
	g.halfedgeCount--
}

func (g *HalfedgeGraph) newFace(outer HalfedgeID) FaceID {
	rec := faceRecord{outer: outer, alive: true}
	var id FaceID
	if n := len(g.freeFaces); n > 0 {
		id = g.freeFaces[n-1]
		g.freeFaces = g.freeFaces[:n-1]
		g.faces[id] = rec
	} else {
		id = FaceID(len(g.faces))
		g.faces = append(g.faces, rec)
	}
	g.faceCount++
	return id
}

func (g *HalfedgeGraph) freeFace(id FaceID) {
	g.faces[id] = faceRecord{}
	g.freeFaces = append(g.freeFaces, id)
	g.faceCount--
}

func (g *HalfedgeGraph) position(id VertexID) Coordinate {
	return g.vertices[id].position
}

func (g *HalfedgeGraph) destination(id HalfedgeID) VertexID {
	return g.halfedges[g.halfedges[id].twin].origin
}

// getOrCreateVertex 按规整化坐标取顶点，不存在则创建
func (g *HalfedgeGraph) getOrCreateVertex(pc Coordinate) VertexID {
	if id, ok := g.vertexIndex[pc]; ok {
		return id
	}
	return g.newVertex(pc)
}

// ---------- 遍历原语 ----------

// fanOf 收集顶点的出边扇，walk方向为twin.next
func (g *HalfedgeGraph) fanOf(v VertexID) []HalfedgeID {
	start := g.vertices[v].outgoing
	if start == NilHalfedgeID {
		return nil
	}
	var out []HalfedgeID
	h := start
	for {
		out = append(out, h)
		h = g.halfedges[g.halfedges[h].twin].next
		if h == start || len(out) > g.halfedgeCount {
			break
		}
	}
	return out
}

// cycleOf 收集从start出发沿next方向的完整边界环
func (g *HalfedgeGraph) cycleOf(start HalfedgeID) []HalfedgeID {
	var out []HalfedgeID
	h := start
	for {
		out = append(out, h)
		h = g.halfedges[h].next
		if h == start || len(out) > g.halfedgeCount {
			break
		}
	}
	return out
}

// cycleCoords 边界环上各半边起点的坐标序列
func (g *HalfedgeGraph) cycleCoords(start HalfedgeID) []Coordinate {
	ids := g.cycleOf(start)
	out := make([]Coordinate, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.position(g.halfedges[id].origin))
	}
	return out
}

// findHalfedge 在u的出边扇中查找指向v的半边
func (g *HalfedgeGraph) findHalfedge(u, v VertexID) HalfedgeID {
	for _, h := range g.fanOf(u) {
		if g.destination(h) == v {
			return h
		}
	}
	return NilHalfedgeID
}

// ---------- 扇区拼接 ----------

// linkIntoFan 把新建半边对接入顶点v的出边扇
// newOut以v为起点，其twin以v为终点，按方向角找到所属扇区后拆分该扇区
func (g *HalfedgeGraph) linkIntoFan(v VertexID, newOut HalfedgeID) {
	t := g.halfedges[newOut].twin
	if g.vertices[v].outgoing == NilHalfedgeID {
		// 顶点原先无边，半边对在该端自闭
		g.halfedges[t].next = newOut
		g.halfedges[newOut].prev = t
		g.vertices[v].outgoing = newOut
		return
	}
	n := g.firstClockwiseOutgoing(v, g.position(g.destination(newOut)))
	p := g.halfedges[n].prev
	g.halfedges[p].next = newOut
	g.halfedges[newOut].prev = p
	g.halfedges[t].next = n
	g.halfedges[n].prev = t
}

// firstClockwiseOutgoing 在v的出边扇中找到从目标方向顺时针旋转最先遇到的出边
func (g *HalfedgeGraph) firstClockwiseOutgoing(v VertexID, toward Coordinate) HalfedgeID {
	origin := g.position(v)
	target := angleOf(origin, toward)
	best := NilHalfedgeID
	bestDist := 0.0
	for _, h := range g.fanOf(v) {
		a := angleOf(origin, g.position(g.destination(h)))
		d := cwAngleDistance(target, a)
		if best == NilHalfedgeID || d < bestDist {
			best = h
			bestDist = d
		}
	}
	return best
}

// ---------- 边对的创建、拆分与摘除 ----------

// createEdgePair 在u、v之间新建半边对并接入两端扇区，返回u→v方向的半边
func (g *HalfedgeGraph) createEdgePair(u, v VertexID) (HalfedgeID, error) {
	if u == v {
		return NilHalfedgeID, newTopologyError("edge endpoints collapse to a single vertex at %v", g.position(u))
	}
	h := g.newHalfedge(u)
	t := g.newHalfedge(v)
	g.halfedges[h].twin = t
	g.halfedges[t].twin = h
	g.linkIntoFan(u, h)
	g.linkIntoFan(v, t)
	g.indexEdge(h)
	return h, nil
}

// ensureEdgePair 查找或创建u、v之间的半边对，返回u→v方向的半边
func (g *HalfedgeGraph) ensureEdgePair(u, v VertexID) (HalfedgeID, bool, error) {
	if h := g.findHalfedge(u, v); h != NilHalfedgeID {
		return h, false, nil
	}
	h, err := g.createEdgePair(u, v)
	return h, true, err
}

// splitEdgeAt 在边he上的坐标pc处插入新顶点，把半边对一分为二
// 常规情形下pc处无既有顶点，原地拆分并保持he及其twin的起点不变；
// pc处已有带边顶点时退化为摘除重建，面标记随拆分段继承
func (g *HalfedgeGraph) splitEdgeAt(he HalfedgeID, pc Coordinate) VertexID {
	if wid, ok := g.vertexIndex[pc]; ok && g.vertices[wid].outgoing != NilHalfedgeID {
		return g.splitEdgeThroughVertex(he, wid)
	}

	g.unindexEdge(he)
	tw := g.halfedges[he].twin

	w := g.getOrCreateVertex(pc)

	c1 := g.newHalfedge(w) // w→v，延续he方向
	c2 := g.newHalfedge(w) // w→u，延续tw方向

	heNext := g.halfedges[he].next
	twNext := g.halfedges[tw].next

	// he: u→w，twin改为c2
	g.halfedges[he].twin = c2
	g.halfedges[c2].twin = he
	// tw: v→w，twin改为c1
	g.halfedges[tw].twin = c1
	g.halfedges[c1].twin = tw

	// 面继承
	g.halfedges[c1].face = g.halfedges[he].face
	g.halfedges[c2].face = g.halfedges[tw].face

	// 链接：u→w→v 与 v→w→u
	g.halfedges[he].next = c1
	g.halfedges[c1].prev = he
	g.halfedges[c1].next = heNext
	g.halfedges[heNext].prev = c1

	g.halfedges[tw].next = c2
	g.halfedges[c2].prev = tw
	g.halfedges[c2].next = twNext
	g.halfedges[twNext].prev = c2

	g.vertices[w].outgoing = c1

	g.indexEdge(he)
	g.indexEdge(c1)
	return w
}

// splitEdgeThroughVertex 边从既有带边顶点w正上方穿过的退化情形，
// 摘除原边对后分两段重建，由扇区拼接恢复w处的角序
func (g *HalfedgeGraph) splitEdgeThroughVertex(he HalfedgeID, w VertexID) VertexID {
	tw := g.halfedges[he].twin
	fa := g.halfedges[he].face
	fb := g.halfedges[tw].face
	cu := g.position(g.halfedges[he].origin)
	cv := g.position(g.halfedges[tw].origin)
	cw := g.position(w)

	g.removeEdgePair(he)

	u := g.getOrCreateVertex(cu)
	wid := g.getOrCreateVertex(cw)
	v := g.getOrCreateVertex(cv)
	h1, created1, _ := g.ensureEdgePair(u, wid)
	h2, created2, _ := g.ensureEdgePair(wid, v)
	if created1 {
		g.halfedges[h1].face = fa
		g.halfedges[g.halfedges[h1].twin].face = fb
	}
	if created2 {
		g.halfedges[h2].face = fa
		g.halfedges[g.halfedges[h2].twin].face = fb
	}
	return wid
}

// removeEdgePair 摘除半边对，修复两端扇区链接，端点失去全部关联边时一并处理
func (g *HalfedgeGraph) removeEdgePair(he HalfedgeID) {
	tw := g.halfedges[he].twin
	u := g.halfedges[he].origin
	v := g.halfedges[tw].origin

	g.unindexEdge(he)

	// u端
	if g.halfedges[he].prev == tw {
		// u仅有这一条边
		g.vertices[u].outgoing = NilHalfedgeID
	} else {
		p := g.halfedges[he].prev
		n := g.halfedges[tw].next
		g.halfedges[p].next = n
		g.halfedges[n].prev = p
		if g.vertices[u].outgoing == he {
			g.vertices[u].outgoing = n
		}
	}

	// v端
	if g.halfedges[tw].prev == he {
		g.vertices[v].outgoing = NilHalfedgeID
	} else {
		p := g.halfedges[tw].prev
		n := g.halfedges[he].next
		g.halfedges[p].next = n
		g.halfedges[n].prev = p
		if g.vertices[v].outgoing == tw {
			g.vertices[v].outgoing = n
		}
	}

	g.freeHalfedge(he)
	g.freeHalfedge(tw)

	for _, vid := range []VertexID{u, v} {
		if g.vertices[vid].alive && g.vertices[vid].outgoing == NilHalfedgeID && !g.vertices[vid].isPoint {
			g.freeVertex(vid)
		}
	}
}

// ---------- 边包围盒索引维护 ----------

func (g *HalfedgeGraph) edgeBox(he HalfedgeID) rtree.Box {
	a := g.position(g.halfedges[he].origin)
	b := g.position(g.destination(he))
	env := segmentEnvelope(a, b)
	return rtree.Box{MinX: env.minX, MinY: env.minY, MaxX: env.maxX, MaxY: env.maxY}
}

func (g *HalfedgeGraph) indexEdge(he HalfedgeID) {
	c := canonicalHalfedge(g, he)
	g.edgeIndex.Insert(g.edgeBox(c), int(c))
}

func (g *HalfedgeGraph) unindexEdge(he HalfedgeID) {
	c := canonicalHalfedge(g, he)
	g.edgeIndex.Delete(g.edgeBox(c), int(c))
}
