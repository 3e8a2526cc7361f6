package Topology

import (
	"math"
)

// normalizeRing 规整化输入环：坐标过精度模型、去掉闭合重复点与连续重复点、
// 校验顶点数与自相交、按要求方向整理环向
func (g *HalfedgeGraph) normalizeRing(raw []Coordinate, clockwise bool) ([]Coordinate, error) {
	if len(raw) == 0 {
		return nil, newGeometryError("ring has no coordinates")
	}
	ring := make([]Coordinate, 0, len(raw))
	for _, c := range raw {
		pc := g.precise(c)
		if len(ring) > 0 && sameXY(pc, ring[len(ring)-1]) {
			continue
		}
		ring = append(ring, pc)
	}
	// 去掉显式闭合点
	for len(ring) > 1 && sameXY(ring[0], ring[len(ring)-1]) {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return nil, newGeometryError("ring needs at least 3 distinct coordinates, got %d", len(ring))
	}
	if math.Abs(signedAreaOf(ring)) == 0 {
		return nil, newGeometryError("ring is degenerate, all coordinates collinear")
	}
	if ringSelfIntersects(ring) {
		return nil, newGeometryError("ring is self-intersecting")
	}
	if isClockwiseRing(ring) != clockwise {
		reverseRing(ring)
	}
	return ring, nil
}

// normalizePolygon 外环整理为逆时针，洞环整理为顺时针
func (g *HalfedgeGraph) normalizePolygon(poly Polygon) ([]Coordinate, [][]Coordinate, error) {
	shell, err := g.normalizeRing(poly.Shell, false)
	if err != nil {
		return nil, nil, err
	}
	holes := make([][]Coordinate, 0, len(poly.Holes))
	for _, h := range poly.Holes {
		hr, err := g.normalizeRing(h, true)
		if err != nil {
			return nil, nil, err
		}
		holes = append(holes, hr)
	}
	return shell, holes, nil
}

// AddPolygon 向图中加入一个不与既有边相交的简单多边形
// 环上相邻坐标对之间查找或创建半边对，与既有面共边时直接复用既有边的空闲侧，
// 两个面因此持有同一个Edge实例；返回新建的面
// 输入边界与既有边真相交时本方法不做裁切，该场景应使用MergePolygon
func (g *HalfedgeGraph) AddPolygon(poly Polygon) (Face, error) {
	shell, holes, err := g.normalizePolygon(poly)
	if err != nil {
		return Face{}, err
	}

	rings := append([][]Coordinate{shell}, holes...)

	// 插入前先检查既有边的占用情况，占用冲突时不改动图
	for _, ring := range rings {
		for i := range ring {
			a := ring[i]
			b := ring[(i+1)%len(ring)]
			u, okU := g.vertexIndex[a]
			v, okV := g.vertexIndex[b]
			if !okU || !okV {
				continue
			}
			if he := g.findHalfedge(u, v); he != NilHalfedgeID {
				if g.halfedges[he].face != NilFaceID {
					return Face{}, newTopologyError(
						"edge %v-%v already carries a face on the requested side", a, b)
				}
			}
		}
	}

	// 建边
	for _, ring := range rings {
		for i := range ring {
			u := g.getOrCreateVertex(ring[i])
			v := g.getOrCreateVertex(ring[(i+1)%len(ring)])
			if _, _, err := g.ensureEdgePair(u, v); err != nil {
				return Face{}, err
			}
		}
	}

	// 认领外边界环
	start := g.findHalfedge(g.vertexIndex[shell[0]], g.vertexIndex[shell[1]])
	faceID := g.newFace(start)
	if err := g.claimCycle(start, faceID); err != nil {
		return Face{}, err
	}

	// 认领洞边界环
	for _, hr := range holes {
		hs := g.findHalfedge(g.vertexIndex[hr[0]], g.vertexIndex[hr[1]])
		if err := g.claimCycle(hs, faceID); err != nil {
			return Face{}, err
		}
		g.faces[faceID].holes = append(g.faces[faceID].holes, hs)
	}

	return Face{g: g, id: faceID}, nil
}

// claimCycle 沿next方向为整条边界环赋面，环上出现已被占用的半边说明
// 输入与既有结构冲突
func (g *HalfedgeGraph) claimCycle(start HalfedgeID, faceID FaceID) error {
	h := start
	steps := 0
	for {
		if g.halfedges[h].face != NilFaceID && g.halfedges[h].face != faceID {
			return newTopologyError("boundary walk entered a half-edge already owned by another face")
		}
		g.halfedges[h].face = faceID
		h = g.halfedges[h].next
		steps++
		if h == start {
			return nil
		}
		if steps > g.halfedgeCount {
			return newTopologyError("boundary walk failed to close")
		}
	}
}
