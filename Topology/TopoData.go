package Topology

import (
	"math"
)

// Coordinate 平面坐标点，Z值仅随数据携带，拓扑计算只使用X、Y
// 结构体可比较，规整化后可直接作为map键使用
type Coordinate struct {
	X float64
	Y float64
	Z float64
}

// Precision 坐标精度模型，所有进入拓扑图的坐标先经过MakePrecise规整化，
// 规整化后坐标相等的点视为同一个顶点
type Precision interface {
	MakePrecise(c Coordinate) Coordinate
}

// FloatingPrecision 浮点精度模型，坐标原样保留
type FloatingPrecision struct{}

func (FloatingPrecision) MakePrecise(c Coordinate) Coordinate {
	return c
}

// FixedPrecision 固定精度模型，坐标按Scale取整，Scale为每单位的格网数
// 例如Scale=1000表示坐标保留到千分之一
type FixedPrecision struct {
	Scale float64
}

func (p FixedPrecision) MakePrecise(c Coordinate) Coordinate {
	if p.Scale <= 0 {
		return c
	}
	return Coordinate{
		X: math.Round(c.X*p.Scale) / p.Scale,
		Y: math.Round(c.Y*p.Scale) / p.Scale,
		Z: math.Round(c.Z*p.Scale) / p.Scale,
	}
}

// DefaultPrecision 默认精度模型
func DefaultPrecision() Precision {
	return FloatingPrecision{}
}

// 图内部的句柄类型，-1表示空引用
type VertexID int
type HalfedgeID int
type FaceID int

const (
	NilVertexID   VertexID   = -1
	NilHalfedgeID HalfedgeID = -1
	NilFaceID     FaceID     = -1
)

// vertexRecord 顶点存储记录
// outgoing为以该顶点为起点的任意一条半边，孤立点顶点无出边
type vertexRecord struct {
	position Coordinate
	outgoing HalfedgeID
	isPoint  bool // 通过AddPoint加入的点顶点，失去所有关联边后仍保留
	alive    bool
}

// halfedgeRecord 半边存储记录
// next沿所在面边界逆时针方向，face为-1时表示该侧为无界区域
type halfedgeRecord struct {
	origin VertexID
	twin   HalfedgeID
	next   HalfedgeID
	prev   HalfedgeID
	face   FaceID
	alive  bool
}

// faceRecord 面存储记录，outer为外边界上任意一条半边，
// holes每项为一个内边界环上的半边
type faceRecord struct {
	outer HalfedgeID
	holes []HalfedgeID
	alive bool
}

// Polygon 多边形输入，Shell为外环，Holes为内环，环首尾坐标可重复也可不重复
type Polygon struct {
	Shell []Coordinate
	Holes [][]Coordinate
}

// RemoveMode 顶点删除模式
type RemoveMode int

const (
	// RemoveNormal 安全删除，仅允许删除孤立顶点
	RemoveNormal RemoveMode = iota
	// RemoveClean 强制删除，连同所有关联边一并移除并合并被分隔的面
	RemoveClean
)

func (m RemoveMode) String() string {
	switch m {
	case RemoveNormal:
		return "Normal"
	case RemoveClean:
		return "Clean"
	default:
		return "Unknown"
	}
}
