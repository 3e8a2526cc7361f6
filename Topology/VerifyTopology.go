package Topology

// VerifyTopology 全量校验拓扑一致性，发现第一处矛盾即返回TopologyError
// 校验内容：twin互逆、next与prev互逆且环闭合、面标记沿环一致、
// 顶点出边扇闭合、面边界与半边归属互相对应、计数与存活记录吻合
// 供测试与调试使用，常规操作路径不调用
func (g *HalfedgeGraph) VerifyTopology() error {
	if err := g.verifyCounts(); err != nil {
		return err
	}
	if err := g.verifyHalfedges(); err != nil {
		return err
	}
	if err := g.verifyVertexFans(); err != nil {
		return err
	}
	return g.verifyFaceCycles()
}

func (g *HalfedgeGraph) verifyCounts() error {
	nv, nh, nf := 0, 0, 0
	for i := range g.vertices {
		if g.vertices[i].alive {
			nv++
		}
	}
	for i := range g.halfedges {
		if g.halfedges[i].alive {
			nh++
		}
	}
	for i := range g.faces {
		if g.faces[i].alive {
			nf++
		}
	}
	if nv != g.vertexCount {
		return newTopologyError("顶点计数不一致：存活%d，计数%d", nv, g.vertexCount)
	}
	if nh != g.halfedgeCount {
		return newTopologyError("半边计数不一致：存活%d，计数%d", nh, g.halfedgeCount)
	}
	if nf != g.faceCount {
		return newTopologyError("面计数不一致：存活%d，计数%d", nf, g.faceCount)
	}
	if nh%2 != 0 {
		return newTopologyError("半边总数%d不是偶数", nh)
	}
	if len(g.vertexIndex) != nv {
		return newTopologyError("坐标索引大小%d与存活顶点数%d不符", len(g.vertexIndex), nv)
	}
	for pc, id := range g.vertexIndex {
		if int(id) >= len(g.vertices) || !g.vertices[id].alive {
			return newTopologyError("坐标索引(%v,%v)指向已删除顶点%d", pc.X, pc.Y, id)
		}
		if g.vertices[id].position != pc {
			return newTopologyError("顶点%d的坐标与索引键不一致", id)
		}
	}
	return nil
}

func (g *HalfedgeGraph) verifyHalfedges() error {
	for i := range g.halfedges {
		if !g.halfedges[i].alive {
			continue
		}
		h := HalfedgeID(i)
		rec := &g.halfedges[i]

		tw := rec.twin
		if !g.validHalfedge(tw) {
			return newTopologyError("半边%d的twin %d不存在", h, tw)
		}
		if tw == h {
			return newTopologyError("半边%d以自身为twin", h)
		}
		if g.halfedges[tw].twin != h {
			return newTopologyError("半边%d与twin %d不互逆", h, tw)
		}
		if !g.validVertex(rec.origin) {
			return newTopologyError("半边%d的起点%d不存在", h, rec.origin)
		}
		if g.halfedges[tw].origin == rec.origin {
			return newTopologyError("半边%d两端落在同一顶点%d", h, rec.origin)
		}
		if !g.validHalfedge(rec.next) {
			return newTopologyError("半边%d的next %d不存在", h, rec.next)
		}
		if !g.validHalfedge(rec.prev) {
			return newTopologyError("半边%d的prev %d不存在", h, rec.prev)
		}
		if g.halfedges[rec.next].prev != h {
			return newTopologyError("半边%d与next %d的prev不互逆", h, rec.next)
		}
		if g.halfedges[rec.prev].next != h {
			return newTopologyError("半边%d与prev %d的next不互逆", h, rec.prev)
		}
		// next必须从本半边的终点出发
		if g.halfedges[rec.next].origin != g.halfedges[tw].origin {
			return newTopologyError("半边%d的next %d起点不在其终点上", h, rec.next)
		}
		// 面标记沿边界环一致
		if g.halfedges[rec.next].face != rec.face {
			return newTopologyError("半边%d与next %d面归属不一致", h, rec.next)
		}
		if rec.face != NilFaceID && !g.validFace(rec.face) {
			return newTopologyError("半边%d归属的面%d不存在", h, rec.face)
		}
	}
	return nil
}

func (g *HalfedgeGraph) verifyVertexFans() error {
	for i := range g.vertices {
		if !g.vertices[i].alive {
			continue
		}
		v := VertexID(i)
		out := g.vertices[i].outgoing
		if out == NilHalfedgeID {
			continue
		}
		if !g.validHalfedge(out) {
			return newTopologyError("顶点%d的出边%d不存在", v, out)
		}
		h := out
		steps := 0
		for {
			if g.halfedges[h].origin != v {
				return newTopologyError("顶点%d的出边扇含起点错误的半边%d", v, h)
			}
			h = g.halfedges[g.halfedges[h].twin].next
			steps++
			if h == out {
				break
			}
			if steps > g.halfedgeCount {
				return newTopologyError("顶点%d的出边扇不闭合", v)
			}
		}
	}
	return nil
}

func (g *HalfedgeGraph) verifyFaceCycles() error {
	// 沿各面的外环与洞环标记半边，环上半边必须归属该面
	claimed := make(map[HalfedgeID]bool, g.halfedgeCount)
	for i := range g.faces {
		if !g.faces[i].alive {
			continue
		}
		f := FaceID(i)
		cycles := append([]HalfedgeID{g.faces[i].outer}, g.faces[i].holes...)
		for _, start := range cycles {
			if !g.validHalfedge(start) {
				return newTopologyError("面%d引用了不存在的边界半边%d", f, start)
			}
			h := start
			steps := 0
			for {
				if g.halfedges[h].face != f {
					return newTopologyError("面%d的边界半边%d归属为%d", f, h, g.halfedges[h].face)
				}
				if claimed[h] {
					return newTopologyError("半边%d被多个边界环引用", h)
				}
				claimed[h] = true
				h = g.halfedges[h].next
				steps++
				if h == start {
					break
				}
				if steps > g.halfedgeCount {
					return newTopologyError("面%d的边界环自半边%d起不闭合", f, start)
				}
			}
		}
	}
	// 带面标记的半边必须出现在所属面的某个边界环上
	for i := range g.halfedges {
		if !g.halfedges[i].alive {
			continue
		}
		h := HalfedgeID(i)
		if g.halfedges[i].face != NilFaceID && !claimed[h] {
			return newTopologyError("半边%d标记了面%d却不在其任何边界环上", h, g.halfedges[i].face)
		}
	}
	return nil
}

func (g *HalfedgeGraph) validVertex(id VertexID) bool {
	return id >= 0 && int(id) < len(g.vertices) && g.vertices[id].alive
}

func (g *HalfedgeGraph) validHalfedge(id HalfedgeID) bool {
	return id >= 0 && int(id) < len(g.halfedges) && g.halfedges[id].alive
}

func (g *HalfedgeGraph) validFace(id FaceID) bool {
	return id >= 0 && int(id) < len(g.faces) && g.faces[id].alive
}
