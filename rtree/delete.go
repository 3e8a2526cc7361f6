package rtree

// Delete 删除一条记录，box用于定位搜索范围，必须与该记录的包围盒相交
// 找到并删除时返回true
func (t *RTree) Delete(box Box, recordID int) bool {
	if !t.hasRoot() {
		return false
	}

	// 定位记录所在的叶节点
	foundNode := 0
	var foundEntryIndex int
	var recurse func(int)
	recurse = func(nodeIdx int) {
		n := t.node(nodeIdx)
		for i := 0; i < n.numEntries; i++ {
			e := n.entries[i]
			if !overlap(e.box, box) {
				continue
			}
			if !n.isLeaf {
				recurse(e.data)
				if foundNode != 0 {
					break
				}
			} else if e.data == recordID {
				foundNode = nodeIdx
				foundEntryIndex = i
				break
			}
		}
	}
	recurse(t.root)
	if foundNode == 0 {
		return false
	}

	t.deleteEntry(foundNode, foundEntryIndex)
	t.condenseTree(foundNode)

	// 根只剩单个子节点时降层
	if root := t.node(t.root); !root.isLeaf && root.numEntries == 1 {
		t.root = root.entries[0].data
		t.node(t.root).parent = 0
	}

	t.count--
	return true
}

func (t *RTree) deleteEntry(nodeIdx int, entryIdx int) {
	n := t.node(nodeIdx)
	n.entries[entryIdx] = n.entries[n.numEntries-1]
	n.numEntries--
	n.entries[n.numEntries] = entry{}
}

// condenseTree 删除后自下而上收缩：欠载节点整体摘除并把其内容重新插回，
// 其余节点只收紧覆盖包围盒
func (t *RTree) condenseTree(leaf int) {
	var eliminated []int
	current := leaf

	for current != t.root {
		currentNode := t.node(current)
		parent := currentNode.parent
		parentNode := t.node(parent)
		entryIdx := -1
		for i := 0; i < parentNode.numEntries; i++ {
			if parentNode.entries[i].data == current {
				entryIdx = i
				break
			}
		}

		if currentNode.numEntries < minChildren {
			eliminated = append(eliminated, current)
			t.deleteEntry(parent, entryIdx)
		} else {
			parentNode.entries[entryIdx].box = calculateBound(currentNode)
		}

		current = parent
	}

	// 被摘除节点的条目重新插回
	for _, nodeIdx := range eliminated {
		n := t.node(nodeIdx)
		if n.isLeaf {
			for i := 0; i < n.numEntries; i++ {
				e := n.entries[i]
				t.insertRecord(e.box, e.data)
			}
		} else {
			for i := 0; i < n.numEntries; i++ {
				t.reInsertNode(n.entries[i].data)
			}
		}
	}
}

// reInsertNode 把被摘除的子树按其原有深度重新接回树中
func (t *RTree) reInsertNode(nodeIdx int) {
	box := calculateBound(t.node(nodeIdx))
	treeDepth := t.nodeDepth(t.root)
	nodeDepth := t.nodeDepth(nodeIdx)
	insNode := t.chooseBestNode(box, treeDepth-nodeDepth-1)

	t.appendChild(insNode, box, nodeIdx)
	t.adjustBoxesUpwards(nodeIdx, box)

	if t.node(insNode).numEntries <= maxChildren {
		return
	}

	newNode := t.splitNode(insNode)
	root1, root2 := t.adjustTree(insNode, newNode)
	if root2 != 0 {
		t.joinRoots(root1, root2)
	}
}
