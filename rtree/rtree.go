package rtree

import "errors"

const (
	minChildren = 2
	maxChildren = 4
)

// node R树节点，叶节点的条目指向记录，内部节点的条目指向子节点
type node struct {
	entries    [1 + maxChildren]entry
	numEntries int
	parent     int
	isLeaf     bool
}

// entry 节点内的一个条目，data在叶节点存记录号，在内部节点存子节点号
type entry struct {
	box  Box
	data int
}

// RTree 内存R树索引，只保存记录号与包围盒的对应关系，
// 记录本体由调用方自行管理。零值即空树，可直接使用
type RTree struct {
	nodes []node // 节点从1开始编号，0表示空
	root  int
	count int
}

func (t *RTree) node(nodeIdx int) *node {
	return &t.nodes[nodeIdx-1]
}

func (t *RTree) hasRoot() bool { return t.root != 0 }

// Size 当前索引的记录条数
func (t *RTree) Size() int { return t.count }

func (t *RTree) appendRecord(nodeIdx int, box Box, recordID int) {
	n := t.node(nodeIdx)
	n.entries[n.numEntries] = entry{box: box, data: recordID}
	n.numEntries++
}

func (t *RTree) appendChild(nodeIdx int, box Box, childIdx int) {
	n := t.node(nodeIdx)
	n.entries[n.numEntries] = entry{box: box, data: childIdx}
	n.numEntries++
	t.node(childIdx).parent = nodeIdx
}

// nodeDepth 以该节点为根的子树层数
func (t *RTree) nodeDepth(nodeIdx int) int {
	n := t.node(nodeIdx)
	d := 1
	for !n.isLeaf {
		d++
		n = t.node(n.entries[0].data)
	}
	return d
}

// Stop 提前结束遍历的哨兵错误，回调返回它时遍历终止且不视为出错
var Stop = errors.New("stop")

// RangeSearch 查找与给定包围盒相交的全部记录，逐条回调记录号
// 回调返回错误时立即终止并透传该错误，返回Stop时终止且整体返回nil
func (t *RTree) RangeSearch(box Box, callback func(recordID int) error) error {
	if !t.hasRoot() {
		return nil
	}
	var recurse func(*node) error
	recurse = func(n *node) error {
		for i := 0; i < n.numEntries; i++ {
			e := n.entries[i]
			if !overlap(e.box, box) {
				continue
			}
			if n.isLeaf {
				if err := callback(e.data); err == Stop {
					return nil
				} else if err != nil {
					return err
				}
			} else {
				if err := recurse(t.node(e.data)); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return recurse(t.node(t.root))
}

// Extent 整棵树的最小外包围盒，空树时第二个返回值为false
func (t *RTree) Extent() (Box, bool) {
	if !t.hasRoot() {
		return Box{}, false
	}
	root := t.node(t.root)
	if root.numEntries == 0 {
		return Box{}, false
	}
	return calculateBound(root), true
}

// calculateBound 节点全部条目的合并包围盒
func calculateBound(n *node) Box {
	box := n.entries[0].box
	for i := 1; i < n.numEntries; i++ {
		box = combine(box, n.entries[i].box)
	}
	return box
}
