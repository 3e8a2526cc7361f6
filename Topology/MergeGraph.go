package Topology

// mergedPolygon 合并前对另一张图的面边界做的坐标快照
type mergedPolygon struct {
	shell []Coordinate
	holes [][]Coordinate
}

// MergeGraph 把另一张拓扑图整体叠置合并进当前图
// 逐面套用与MergePolygon相同的叠置语义，面处理顺序不影响最终剖分；
// 来源图本身已拓扑一致，故跳过输入环校验、直接按边界段插入，
// 边界在顶点处自接触的面也能整体带入
// 不属于任何面的裸边按叠置方式插入，孤立点顶点原样带入
// 先对另一张图做坐标快照再开始改动，允许图与自身合并
func (g *HalfedgeGraph) MergeGraph(other *HalfedgeGraph) error {
	if other == nil {
		return nil
	}

	var polys []mergedPolygon
	for _, f := range other.Faces() {
		polys = append(polys, mergedPolygon{shell: f.OuterRing(), holes: f.HoleRings()})
	}

	var chains [][2]Coordinate
	for _, e := range other.Edges() {
		ha, hb := e.Halfedges()
		if !ha.Face().IsNil() || !hb.Face().IsNil() {
			continue
		}
		u, v := e.Vertices()
		chains = append(chains, [2]Coordinate{u.Position(), v.Position()})
	}

	var points []Coordinate
	for _, v := range other.Vertices() {
		if other.vertices[v.id].isPoint && v.IsIsolated() {
			points = append(points, v.Position())
		}
	}

	for _, p := range polys {
		marks := make(map[segmentKey]bool)
		rings := append([][]Coordinate{p.shell}, p.holes...)
		for _, ring := range rings {
			if err := g.insertRingWithOverlay(ring, marks); err != nil {
				return err
			}
		}
		g.rederiveFaces(p.shell, p.holes, marks)
	}

	if len(chains) > 0 {
		for _, seg := range chains {
			if err := g.insertSegmentWithOverlay(seg[0], seg[1], nil); err != nil {
				return err
			}
		}
		g.rederiveFaces(nil, nil, nil)
	}

	for _, c := range points {
		g.AddPoint(c)
	}
	return nil
}
