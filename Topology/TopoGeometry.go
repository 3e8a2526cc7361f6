package Topology

import (
	"math"
)

// 几何谓词的容差，输入坐标经精度模型规整化后，
// 该容差仅用于吸收求交运算自身的浮点误差
const geomEps = 1e-9

// perpDot 二维叉积 (a × b)，大于零表示b在a的逆时针侧
func perpDot(ax, ay, bx, by float64) float64 {
	return ax*by - ay*bx
}

// signedAreaOf 计算环的有向面积，逆时针为正
func signedAreaOf(ring []Coordinate) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return sum / 2
}

// isClockwiseRing 判断环是否为顺时针方向
func isClockwiseRing(ring []Coordinate) bool {
	return signedAreaOf(ring) < 0
}

// reverseRing 原地反转环的方向
func reverseRing(ring []Coordinate) {
	for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
		ring[i], ring[j] = ring[j], ring[i]
	}
}

// paramAlong 计算点p在线段a→b上的参数位置，a处为0，b处为1
// 按主轴方向求比值，避免短轴上的除零
func paramAlong(a, b, p Coordinate) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if math.Abs(dx) >= math.Abs(dy) {
		if dx == 0 {
			return 0
		}
		return (p.X - a.X) / dx
	}
	return (p.Y - a.Y) / dy
}

// lerpZ 沿线段按参数t插值Z
func lerpZ(a, b Coordinate, t float64) float64 {
	return a.Z + (b.Z-a.Z)*t
}

// segmentIntersections 计算线段a0→a1与b0→b1的交点，
// 一般相交返回单点，共线重叠返回重叠区间的两个端点，
// 不相交返回空
func segmentIntersections(a0, a1, b0, b1 Coordinate) []Coordinate {
	dax := a1.X - a0.X
	day := a1.Y - a0.Y
	dbx := b1.X - b0.X
	dby := b1.Y - b0.Y

	div := perpDot(dax, day, dbx, dby)
	scale := math.Max(math.Abs(dax)+math.Abs(day), math.Abs(dbx)+math.Abs(dby))
	if scale == 0 {
		return nil
	}

	if math.Abs(div) > geomEps*scale*scale {
		// 一般位置，解参数方程
		ta := perpDot(dbx, dby, a0.X-b0.X, a0.Y-b0.Y) / div
		tb := perpDot(dax, day, a0.X-b0.X, a0.Y-b0.Y) / div
		if ta < -geomEps || ta > 1+geomEps || tb < -geomEps || tb > 1+geomEps {
			return nil
		}
		ta = clamp01(ta)
		p := Coordinate{
			X: a0.X + ta*dax,
			Y: a0.Y + ta*day,
			Z: lerpZ(a0, a1, ta),
		}
		return []Coordinate{p}
	}

	// 平行，判断是否共线
	if math.Abs(perpDot(dax, day, b0.X-a0.X, b0.Y-a0.Y)) > geomEps*scale*scale {
		return nil
	}

	// 共线，求b两端点在a上的参数区间
	t0 := paramAlong(a0, a1, b0)
	t1 := paramAlong(a0, a1, b1)
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	lo := math.Max(0, t0)
	hi := math.Min(1, t1)
	if lo > hi+geomEps {
		return nil
	}
	lo = clamp01(lo)
	hi = clamp01(hi)
	p0 := Coordinate{X: a0.X + lo*dax, Y: a0.Y + lo*day, Z: lerpZ(a0, a1, lo)}
	if hi-lo <= geomEps {
		return []Coordinate{p0}
	}
	p1 := Coordinate{X: a0.X + hi*dax, Y: a0.Y + hi*day, Z: lerpZ(a0, a1, hi)}
	return []Coordinate{p0, p1}
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// sameXY 判断两坐标在平面上是否同点
func sameXY(a, b Coordinate) bool {
	return a.X == b.X && a.Y == b.Y
}

// pointInRing 射线法判断点是否在环内部，落在边界上视为不在内部
func pointInRing(p Coordinate, ring []Coordinate) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// pointInPolygonRings 判断点是否在带洞多边形内部，shell为外环，holes为内环
func pointInPolygonRings(p Coordinate, shell []Coordinate, holes [][]Coordinate) bool {
	if !pointInRing(p, shell) {
		return false
	}
	for _, h := range holes {
		if pointInRing(p, h) {
			return false
		}
	}
	return true
}

// ringSelfIntersects 检查简单环是否存在自相交
// 相邻边只允许在共享顶点处接触，非相邻边出现任何交点都视为自相交
func ringSelfIntersects(ring []Coordinate) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		a0 := ring[i]
		a1 := ring[(i+1)%n]
		for j := i + 1; j < n; j++ {
			b0 := ring[j]
			b1 := ring[(j+1)%n]
			pts := segmentIntersections(a0, a1, b0, b1)
			if len(pts) == 0 {
				continue
			}
			adjacent := j == (i+1)%n || (j+1)%n == i
			if !adjacent {
				return true
			}
			// 相邻边，找出共享顶点
			var shared Coordinate
			if j == (i+1)%n {
				shared = a1
			} else {
				shared = a0
			}
			for _, p := range pts {
				if !sameXY(p, shared) {
					return true
				}
			}
		}
	}
	return false
}

// envelope 线段的包围盒
type envelope struct {
	minX, minY, maxX, maxY float64
}

func segmentEnvelope(a, b Coordinate) envelope {
	return envelope{
		minX: math.Min(a.X, b.X),
		minY: math.Min(a.Y, b.Y),
		maxX: math.Max(a.X, b.X),
		maxY: math.Max(a.Y, b.Y),
	}
}

func (e envelope) expand(d float64) envelope {
	return envelope{minX: e.minX - d, minY: e.minY - d, maxX: e.maxX + d, maxY: e.maxY + d}
}

// distToSegment 点到线段的距离
func distToSegment(p, a, b Coordinate) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := clamp01(((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2)
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

// pointOnRing 判断点是否落在环的边界上
func pointOnRing(p Coordinate, ring []Coordinate) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		if distToSegment(p, ring[i], ring[(i+1)%n]) <= geomEps {
			return true
		}
	}
	return false
}

// midpointOf 线段中点
func midpointOf(a, b Coordinate) Coordinate {
	return Coordinate{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, Z: (a.Z + b.Z) / 2}
}

// ringContainsCycle 判断inner环是否位于outer环内部
// 依次尝试inner的顶点与边中点，取第一个不在outer边界上的点做射线判定，
// 全部落在边界上时视为不包含
func ringContainsCycle(outer, inner []Coordinate) bool {
	n := len(inner)
	for i := 0; i < n; i++ {
		if !pointOnRing(inner[i], outer) {
			return pointInRing(inner[i], outer)
		}
		mid := midpointOf(inner[i], inner[(i+1)%n])
		if !pointOnRing(mid, outer) {
			return pointInRing(mid, outer)
		}
	}
	return false
}

// angleOf 从from指向to的方向角
func angleOf(from, to Coordinate) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// cwAngleDistance 从角a出发顺时针旋转到角b所经过的角度，范围(0, 2π]
func cwAngleDistance(a, b float64) float64 {
	d := a - b
	for d <= 0 {
		d += 2 * math.Pi
	}
	for d > 2*math.Pi {
		d -= 2 * math.Pi
	}
	return d
}
