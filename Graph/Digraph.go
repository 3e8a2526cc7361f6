package Graph

import (
	"fmt"
	"math"

	"github.com/GrainArc/GeoTopo/Topology"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Node 图中的节点
type Node struct {
	ID    int
	Point orb.Point
	Edges []*Edge
}

// Edge 图中的有向边
type Edge struct {
	From *Node
	To   *Node
	Cost float64
}

// Digraph 有向加权图，与半边结构无关
type Digraph struct {
	Nodes map[int]*Node
	Edges []*Edge
}

func NewDigraph() *Digraph {
	return &Digraph{
		Nodes: make(map[int]*Node),
		Edges: make([]*Edge, 0),
	}
}

// AddNode 添加节点，已存在时返回原节点
func (g *Digraph) AddNode(id int, point orb.Point) *Node {
	if node, ok := g.Nodes[id]; ok {
		return node
	}
	node := &Node{
		ID:    id,
		Point: point,
		Edges: make([]*Edge, 0),
	}
	g.Nodes[id] = node
	return node
}

// AddEdge 添加有向边，端点必须已存在
func (g *Digraph) AddEdge(from, to int, cost float64) error {
	fromNode, ok := g.Nodes[from]
	if !ok {
		return fmt.Errorf("节点%d不存在", from)
	}
	toNode, ok := g.Nodes[to]
	if !ok {
		return fmt.Errorf("节点%d不存在", to)
	}
	edge := &Edge{From: fromNode, To: toNode, Cost: cost}
	fromNode.Edges = append(fromNode.Edges, edge)
	g.Edges = append(g.Edges, edge)
	return nil
}

// AddBiEdge 添加双向边
func (g *Digraph) AddBiEdge(a, b int, cost float64) error {
	if err := g.AddEdge(a, b, cost); err != nil {
		return err
	}
	return g.AddEdge(b, a, cost)
}

func euclideanDistance(p1, p2 orb.Point) float64 {
	dx := p2[0] - p1[0]
	dy := p2[1] - p1[1]
	return math.Sqrt(dx*dx + dy*dy)
}

// FromTopology 构建面邻接图
// 节点是面，取质心作为节点位置；共享边的面之间连双向边，权重为质心距离
func FromTopology(tg *Topology.HalfedgeGraph) *Digraph {
	g := NewDigraph()

	faces := tg.Faces()
	for _, f := range faces {
		centroid, _ := planar.CentroidArea(f.ToOrb())
		g.AddNode(int(f.ID()), centroid)
	}

	for _, f := range faces {
		for _, other := range faces {
			if f.ID() >= other.ID() || !f.IsAdjacent(other) {
				continue
			}
			cost := euclideanDistance(g.Nodes[int(f.ID())].Point, g.Nodes[int(other.ID())].Point)
			g.AddBiEdge(int(f.ID()), int(other.ID()), cost)
		}
	}

	return g
}
