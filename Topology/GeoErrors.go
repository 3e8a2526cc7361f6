package Topology

import (
	"fmt"
)

// GeometryError 输入几何不合法，如环坐标不足三个、环自相交等
// 调用方修正输入后可重试，失败的操作不会遗留部分修改
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry error: %s", e.Reason)
}

func newGeometryError(format string, args ...interface{}) error {
	return &GeometryError{Reason: fmt.Sprintf(format, args...)}
}

// TopologyError 拓扑不变量被破坏，属于内部逻辑错误而非输入错误，
// 正常使用中不应出现
type TopologyError struct {
	Reason string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("topology error: %s", e.Reason)
}

func newTopologyError(format string, args ...interface{}) error {
	return &TopologyError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidOperationError 操作在当前状态下不允许执行，
// 如Normal模式删除非孤立顶点
type InvalidOperationError struct {
	Op     string
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("invalid operation %s: %s", e.Op, e.Reason)
}

func newInvalidOperationError(op, format string, args ...interface{}) error {
	return &InvalidOperationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
