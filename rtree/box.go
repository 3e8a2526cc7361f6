package rtree

import "math"

// Box 轴对齐包围盒
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// overlap 判断两个包围盒是否相交，边界接触算相交
func overlap(a, b Box) bool {
	return a.MinX <= b.MaxX && a.MaxX >= b.MinX &&
		a.MinY <= b.MaxY && a.MaxY >= b.MinY
}

// combine 求同时覆盖两个包围盒的最小包围盒
func combine(a, b Box) Box {
	return Box{
		MinX: math.Min(a.MinX, b.MinX),
		MinY: math.Min(a.MinY, b.MinY),
		MaxX: math.Max(a.MaxX, b.MaxX),
		MaxY: math.Max(a.MaxY, b.MaxY),
	}
}

func area(b Box) float64 {
	return (b.MaxX - b.MinX) * (b.MaxY - b.MinY)
}

// enlargement 计算把box并入existing后包围盒面积的增量
func enlargement(box, existing Box) float64 {
	return area(combine(box, existing)) - area(existing)
}

// squaredDistance 两包围盒间的平方欧氏距离，相交时为0
func squaredDistance(a, b Box) float64 {
	dx := math.Max(0, math.Max(a.MinX-b.MaxX, b.MinX-a.MaxX))
	dy := math.Max(0, math.Max(a.MinY-b.MaxY, b.MinY-a.MaxY))
	return dx*dx + dy*dy
}
