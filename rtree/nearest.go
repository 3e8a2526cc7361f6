package rtree

import "container/heap"

// PrioritySearch 按记录与给定包围盒的欧氏距离从近到远遍历全部记录
// 回调返回错误时立即终止并透传该错误，返回Stop时终止且整体返回nil
func (t *RTree) PrioritySearch(box Box, callback func(recordID int) error) error {
	if !t.hasRoot() {
		return nil
	}

	queue := entriesQueue{origin: box}
	enqueueNode := func(n *node) {
		for i := 0; i < n.numEntries; i++ {
			heap.Push(&queue, entryWithChildMarker{&n.entries[i], !n.isLeaf})
		}
	}

	enqueueNode(t.node(t.root))
	for len(queue.entries) > 0 {
		nearest := heap.Pop(&queue).(entryWithChildMarker)
		if nearest.hasChild {
			enqueueNode(t.node(nearest.data))
			continue
		}
		if err := callback(nearest.data); err != nil {
			if err == Stop {
				return nil
			}
			return err
		}
	}
	return nil
}

type entryWithChildMarker struct {
	*entry
	hasChild bool
}

// entriesQueue 以到origin的平方距离为序的小顶堆
type entriesQueue struct {
	entries []entryWithChildMarker
	origin  Box
}

func (q *entriesQueue) Len() int { return len(q.entries) }

func (q *entriesQueue) Less(i, j int) bool {
	return squaredDistance(q.entries[i].box, q.origin) < squaredDistance(q.entries[j].box, q.origin)
}

func (q *entriesQueue) Swap(i, j int) {
	q.entries[i], q.entries[j] = q.entries[j], q.entries[i]
}

func (q *entriesQueue) Push(x interface{}) {
	q.entries = append(q.entries, x.(entryWithChildMarker))
}

func (q *entriesQueue) Pop() interface{} {
	e := q.entries[len(q.entries)-1]
	q.entries = q.entries[:len(q.entries)-1]
	return e
}
