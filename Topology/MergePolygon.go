package Topology

import (
	"sort"

	"github.com/GrainArc/GeoTopo/rtree"
)

// segmentKey 以起止坐标标识一条有向边界段
// 拆分既有边时半边编号会被回收复用，几何键不受编号复用影响
type segmentKey struct {
	a, b Coordinate
}

// MergePolygon 把任意简单多边形叠置合并进既有平面剖分
// 与AddPolygon不同，输入边界可以与既有边相交、重叠或包含，
// 算法逐段计算交点、拆分既有边、插入新边界段，再全局重推面归属，
// 叠置结果同时保留既有面与新面在交界处切分出的全部子面
// 返回本次多边形覆盖范围内的结果面集合
func (g *HalfedgeGraph) MergePolygon(poly Polygon) ([]Face, error) {
	shell, holes, err := g.normalizePolygon(poly)
	if err != nil {
		return nil, err
	}

	// 沿环方向插入的边界段，其左侧位于多边形覆盖范围内
	marks := make(map[segmentKey]bool)

	rings := append([][]Coordinate{shell}, holes...)
	for _, ring := range rings {
		if err := g.insertRingWithOverlay(ring, marks); err != nil {
			return nil, err
		}
	}

	return g.rederiveFaces(shell, holes, marks), nil
}

// insertRingWithOverlay 逐段插入环边界，每段先对既有边求交并拆分，
// 再按参数距离排序的分割点依次补全子段
func (g *HalfedgeGraph) insertRingWithOverlay(ring []Coordinate, marks map[segmentKey]bool) error {
	n := len(ring)
	for i := 0; i < n; i++ {
		if err := g.insertSegmentWithOverlay(ring[i], ring[(i+1)%n], marks); err != nil {
			return err
		}
	}
	return nil
}

// insertSegmentWithOverlay 叠置插入一条线段，交点处拆分既有边后补全各子段
func (g *HalfedgeGraph) insertSegmentWithOverlay(a, b Coordinate, marks map[segmentKey]bool) error {
	a = g.precise(a)
	b = g.precise(b)
	points := g.cutSegment(a, b)
	for j := 0; j+1 < len(points); j++ {
		u := g.getOrCreateVertex(points[j])
		v := g.getOrCreateVertex(points[j+1])
		if u == v {
			continue
		}
		if _, _, err := g.ensureEdgePair(u, v); err != nil {
			return err
		}
		if marks != nil {
			marks[segmentKey{points[j], points[j+1]}] = true
		}
	}
	return nil
}

// cutSegment 收集线段a→b与既有边的全部交点并完成既有边的拆分，
// 返回含两端点在内、沿线段方向有序去重后的分割点序列
func (g *HalfedgeGraph) cutSegment(a, b Coordinate) []Coordinate {
	env := segmentEnvelope(a, b).expand(geomEps)
	var candidates []HalfedgeID
	g.edgeIndex.RangeSearch(rtree.Box{
		MinX: env.minX, MinY: env.minY, MaxX: env.maxX, MaxY: env.maxY,
	}, func(id int) error {
		candidates = append(candidates, HalfedgeID(id))
		return nil
	})

	type cutPoint struct {
		c Coordinate
		t float64
	}
	cuts := []cutPoint{{c: a, t: 0}, {c: b, t: 1}}

	for _, he := range candidates {
		if !g.halfedges[he].alive {
			continue
		}
		p0 := g.position(g.halfedges[he].origin)
		p1 := g.position(g.destination(he))
		pts := segmentIntersections(a, b, p0, p1)
		if len(pts) == 0 {
			continue
		}
		for i := range pts {
			pts[i] = g.precise(pts[i])
			cuts = append(cuts, cutPoint{c: pts[i], t: clamp01(paramAlong(a, b, pts[i]))})
		}
		g.splitEdgeAtPoints(he, p0, p1, pts)
	}

	sort.Slice(cuts, func(i, j int) bool { return cuts[i].t < cuts[j].t })
	out := make([]Coordinate, 0, len(cuts))
	for _, cp := range cuts {
		if len(out) > 0 && sameXY(cp.c, out[len(out)-1]) {
			continue
		}
		out = append(out, cp.c)
	}
	return out
}

// splitEdgeAtPoints 在既有边内部的交点处拆分该边，交点落在端点上时不拆
func (g *HalfedgeGraph) splitEdgeAtPoints(he HalfedgeID, p0, p1 Coordinate, pts []Coordinate) {
	var interior []Coordinate
	for _, p := range pts {
		if sameXY(p, p0) || sameXY(p, p1) {
			continue
		}
		interior = append(interior, p)
	}
	if len(interior) == 0 {
		return
	}
	sort.Slice(interior, func(i, j int) bool {
		return paramAlong(p0, p1, interior[i]) < paramAlong(p0, p1, interior[j])
	})

	cur := he
	curOrigin := p0
	for _, p := range interior {
		if sameXY(p, curOrigin) {
			continue
		}
		w := g.splitEdgeAt(cur, p)
		curOrigin = g.position(w)
		endID, ok := g.vertexIndex[p1]
		if !ok {
			return
		}
		cur = g.findHalfedge(w, endID)
		if cur == NilHalfedgeID {
			return
		}
	}
}

// cycleRecord 面重推过程中单个边界环的归类信息
type cycleRecord struct {
	ids     []HalfedgeID
	coords  []Coordinate
	area    float64
	labeled bool // 环上带有既有面标记
	marked  bool // 环上带有本次多边形边界标记
	insideP bool // 环所围区域落在本次多边形覆盖范围内
	covered bool
	faceID  FaceID
}

// rederiveFaces 全局重推面归属
// 收集全部边界环后按有向面积分类：逆时针环围成候选胞腔，
// 带旧面标记、带本次边界标记或几何上位于本次多边形内的胞腔成为面；
// 顺时针环是某个面的内边界，按包含关系挂接为洞；
// 其余环属于无界区域。返回位于本次多边形覆盖范围内的面
func (g *HalfedgeGraph) rederiveFaces(shell []Coordinate, holes [][]Coordinate, marks map[segmentKey]bool) []Face {
	hasP := len(shell) > 0

	// 收集环并读取旧标记
	visited := make(map[HalfedgeID]bool, g.halfedgeCount)
	var cycles []*cycleRecord
	for i := range g.halfedges {
		id := HalfedgeID(i)
		if !g.halfedges[i].alive || visited[id] {
			continue
		}
		rec := &cycleRecord{ids: g.cycleOf(id), faceID: NilFaceID}
		for _, h := range rec.ids {
			visited[h] = true
			rec.coords = append(rec.coords, g.position(g.halfedges[h].origin))
			if g.halfedges[h].face != NilFaceID {
				rec.labeled = true
			}
			if marks != nil && marks[segmentKey{g.position(g.halfedges[h].origin), g.position(g.destination(h))}] {
				rec.marked = true
			}
		}
		rec.area = signedAreaOf(rec.coords)
		cycles = append(cycles, rec)
	}

	// 归类逆时针环
	for _, c := range cycles {
		if c.area <= 0 {
			continue
		}
		if hasP {
			c.insideP = c.marked || g.cycleMostlyInside(c.coords, shell, holes)
		}
		c.covered = c.labeled || c.marked || c.insideP
	}

	// 清空旧面
	for i := range g.faces {
		if g.faces[i].alive {
			g.freeFace(FaceID(i))
		}
	}
	for i := range g.halfedges {
		if g.halfedges[i].alive {
			g.halfedges[i].face = NilFaceID
		}
	}

	// 建立新面
	var result []Face
	for _, c := range cycles {
		if c.area <= 0 || !c.covered {
			continue
		}
		c.faceID = g.newFace(c.ids[0])
		for _, h := range c.ids {
			g.halfedges[h].face = c.faceID
		}
		if c.insideP {
			result = append(result, Face{g: g, id: c.faceID})
		}
	}

	// 挂接洞边界
	for _, c := range cycles {
		if c.area >= 0 {
			continue
		}
		owner := g.findHoleOwner(c, cycles)
		if owner == nil {
			continue
		}
		for _, h := range c.ids {
			g.halfedges[h].face = owner.faceID
		}
		g.faces[owner.faceID].holes = append(g.faces[owner.faceID].holes, c.ids[0])
	}

	return result
}

// findHoleOwner 为顺时针环寻找包含它的最小覆盖胞腔
func (g *HalfedgeGraph) findHoleOwner(hole *cycleRecord, cycles []*cycleRecord) *cycleRecord {
	var best *cycleRecord
	for _, cand := range cycles {
		if cand.faceID == NilFaceID || cand == hole {
			continue
		}
		if !ringContainsCycle(cand.coords, hole.coords) {
			continue
		}
		if best == nil || cand.area < best.area {
			best = cand
		}
	}
	return best
}

// cycleMostlyInside 以环顶点的多数表决判断胞腔是否位于多边形内部，
// 落在边界上的顶点不参与表决
func (g *HalfedgeGraph) cycleMostlyInside(coords []Coordinate, shell []Coordinate, holes [][]Coordinate) bool {
	onBoundary := func(p Coordinate) bool {
		if pointOnRing(p, shell) {
			return true
		}
		for _, h := range holes {
			if pointOnRing(p, h) {
				return true
			}
		}
		return false
	}
	in, out := 0, 0
	vote := func(p Coordinate) {
		if onBoundary(p) {
			return
		}
		if pointInPolygonRings(p, shell, holes) {
			in++
		} else {
			out++
		}
	}
	for _, p := range coords {
		vote(p)
	}
	if in == 0 && out == 0 {
		// 顶点全部落在边界上，再用边中点表决
		n := len(coords)
		for i := 0; i < n; i++ {
			vote(midpointOf(coords[i], coords[(i+1)%n]))
		}
	}
	return in > out
}
