package container

import "container/heap"

// item 优先队列中单个元素
// 说明：seq为入队序号，优先级相同时先入队者先出队
type item[T any] struct {
	Value    T   // 元素的值
	Priority int // 优先级（越小越优先）
	seq      int // 入队序号
	index    int // 项在堆中的索引，由heap.Interface方法维护
}

// priorityQueue 实现了heap.Interface
type priorityQueue[T any] []*item[T]

func (pq priorityQueue[T]) Len() int { return len(pq) }

// Less 先比较优先级，再比较入队序号
func (pq priorityQueue[T]) Less(i, j int) bool {
	if pq[i].Priority != pq[j].Priority {
		return pq[i].Priority < pq[j].Priority
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue[T]) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue[T]) Push(x any) {
	n := len(*pq)
	item := x.(*item[T])
	item.index = n
	*pq = append(*pq, item)
}

func (pq *priorityQueue[T]) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // 避免内存泄漏
	item.index = -1 // 为了安全起见
	*pq = old[0 : n-1]
	return item
}

// PriorityQueue 稳定优先队列
// 功能：按优先级从小到大出队，优先级相同的元素保持入队顺序
// 说明：用于按信号组优先级排列同一link index上的信号组，结果必须是确定的
type PriorityQueue[T any] struct {
	queue priorityQueue[T]
	seq   int
}

// NewPriorityQueue 创建优先队列
func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{queue: make(priorityQueue[T], 0)}
}

// Len 获取当前队列长度
func (q *PriorityQueue[T]) Len() int {
	return len(q.queue)
}

// Push 加入元素（简单添加）
// 说明：添加后需要调用Heapify()来重新构建堆结构
func (q *PriorityQueue[T]) Push(value T, priority int) {
	q.queue = append(q.queue, &item[T]{
		Value:    value,
		Priority: priority,
		seq:      q.seq,
		index:    len(q.queue),
	})
	q.seq++
}

// Heapify 重新构建堆
func (q *PriorityQueue[T]) Heapify() {
	heap.Init(&q.queue)
}

// HeapPop 弹出优先级最高的元素（堆操作）
func (q *PriorityQueue[T]) HeapPop() (value T, priority int) {
	item := heap.Pop(&q.queue).(*item[T])
	return item.Value, item.Priority
}

// Drain 按出队顺序弹出全部元素
// 功能：返回稳定排序后的全部元素值，队列随之清空
func (q *PriorityQueue[T]) Drain() []T {
	res := make([]T, 0, q.Len())
	for q.Len() > 0 {
		v, _ := q.HeapPop()
		res = append(res, v)
	}
	return res
}
