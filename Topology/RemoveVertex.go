package Topology

// RemoveVertex 按坐标删除顶点
// Normal模式只允许删除无任何关联边的孤立顶点，否则返回InvalidOperationError；
// Clean模式连带摘除全部关联边并全局重推面归属，
// 仅由这些边分隔的相邻面随之合并回单个面，洞边界一并更新
// 找到并删除顶点时返回true，坐标处无顶点时返回false
func (g *HalfedgeGraph) RemoveVertex(c Coordinate, mode RemoveMode) (bool, error) {
	pc := g.precise(c)
	v, ok := g.vertexIndex[pc]
	if !ok {
		return false, nil
	}

	if g.vertices[v].outgoing == NilHalfedgeID {
		g.freeVertex(v)
		return true, nil
	}

	if mode == RemoveNormal {
		return false, newInvalidOperationError("RemoveVertex",
			"顶点(%v,%v)存在关联边，Normal模式拒绝删除", pc.X, pc.Y)
	}

	for _, h := range g.fanOf(v) {
		g.removeEdgePair(h)
	}
	if g.vertices[v].alive {
		g.freeVertex(v)
	}
	g.rederiveFaces(nil, nil, nil)
	return true, nil
}
