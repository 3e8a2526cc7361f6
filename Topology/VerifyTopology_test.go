package Topology

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyTopologyEmpty(t *testing.T) {
	g := NewHalfedgeGraph()
	require.NoError(t, g.VerifyTopology())
}

func TestVerifyTopologyAfterBuild(t *testing.T) {
	g := buildGrid(t)
	require.NoError(t, g.VerifyTopology())
}

// 人为破坏各处链接，校验必须报TopologyError
func TestVerifyTopologyDetectsCorruption(t *testing.T) {
	requireTopoErr := func(t *testing.T, g *HalfedgeGraph) {
		t.Helper()
		err := g.VerifyTopology()
		var te *TopologyError
		require.ErrorAs(t, err, &te)
	}

	t.Run("twin不互逆", func(t *testing.T) {
		g := NewHalfedgeGraph()
		_, err := g.AddPolygon(squarePoly(0, 0, 1))
		require.NoError(t, err)
		h := g.Faces()[0].Outer()
		g.halfedges[g.halfedges[h.id].twin].twin = g.halfedges[h.id].next
		requireTopoErr(t, g)
	})

	t.Run("next与prev不互逆", func(t *testing.T) {
		g := NewHalfedgeGraph()
		_, err := g.AddPolygon(squarePoly(0, 0, 1))
		require.NoError(t, err)
		h := g.Faces()[0].Outer()
		g.halfedges[g.halfedges[h.id].next].prev = g.halfedges[h.id].twin
		requireTopoErr(t, g)
	})

	t.Run("面标记沿环不一致", func(t *testing.T) {
		g := NewHalfedgeGraph()
		_, err := g.AddPolygon(squarePoly(0, 0, 1))
		require.NoError(t, err)
		h := g.Faces()[0].Outer()
		g.halfedges[h.id].face = NilFaceID
		requireTopoErr(t, g)
	})

	t.Run("计数失真", func(t *testing.T) {
		g := NewHalfedgeGraph()
		_, err := g.AddPolygon(squarePoly(0, 0, 1))
		require.NoError(t, err)
		g.vertexCount++
		requireTopoErr(t, g)
	})

	t.Run("坐标索引指向错误顶点", func(t *testing.T) {
		g := NewHalfedgeGraph()
		_, err := g.AddPolygon(squarePoly(0, 0, 1))
		require.NoError(t, err)
		g.vertexIndex[xy(0, 0)] = g.vertexIndex[xy(1, 1)]
		requireTopoErr(t, g)
	})

	t.Run("出边扇起点错误", func(t *testing.T) {
		g := NewHalfedgeGraph()
		_, err := g.AddPolygon(squarePoly(0, 0, 1))
		require.NoError(t, err)
		v0 := g.vertexIndex[xy(0, 0)]
		v1 := g.vertexIndex[xy(1, 0)]
		g.vertices[v0].outgoing = g.vertices[v1].outgoing
		requireTopoErr(t, g)
	})
}

// 错误信息描述第一处violation
func TestTopoErrorMessages(t *testing.T) {
	ge := newGeometryError("环只有%d个顶点", 2)
	require.Contains(t, ge.Error(), "2")

	te := newTopologyError("半边%d异常", 7)
	require.Contains(t, te.Error(), "7")

	ioe := newInvalidOperationError("RemoveVertex", "顶点有%d条边", 3)
	require.Contains(t, ioe.Error(), "RemoveVertex")
}
