package Topology

import "testing"

func xy(x, y float64) Coordinate {
	return Coordinate{X: x, Y: y}
}

// squareRing 左下角在(x0,y0)、边长s的正方形环，逆时针
func squareRing(x0, y0, s float64) []Coordinate {
	return []Coordinate{xy(x0, y0), xy(x0+s, y0), xy(x0+s, y0+s), xy(x0, y0+s)}
}

func squarePoly(x0, y0, s float64) Polygon {
	return Polygon{Shell: squareRing(x0, y0, s)}
}

// counts 四元组快照，便于断言前后对比
type counts struct {
	V, E, H, F int
}

func snapshot(g *HalfedgeGraph) counts {
	return counts{V: g.VertexCount(), E: g.EdgeCount(), H: g.HalfedgeCount(), F: g.FaceCount()}
}

func mustVerify(t *testing.T, g *HalfedgeGraph) {
	t.Helper()
	if err := g.VerifyTopology(); err != nil {
		t.Fatalf("拓扑校验失败: %v", err)
	}
}
