// 仿真主循环使用的容器：延迟增删的增量数组与按数值排序的优先队列
package container

// IIncrementalItem 可放入增量数组的元素，由数组维护其下标
type IIncrementalItem interface {
	Index() int
	SetIndex(index int)
}

// IncrementalItemBase 可嵌入的IIncrementalItem实现
type IncrementalItemBase struct {
	index int
}

func (b *IncrementalItemBase) Index() int {
	return b.index
}

func (b *IncrementalItemBase) SetIndex(index int) {
	b.index = index
}

// IncrementalArray 增量数组
// 功能：遍历期间的增删先记入待处理列表，在Prepare时统一生效，遍历中的Data()保持不变
// 说明：删除通过元素自身记录的下标定位，O(1)完成，不保持元素顺序；仅供单协程使用
type IncrementalArray[T IIncrementalItem] struct {
	data   []T
	add    []T
	remove []T
}

// NewIncrementalArray 创建空的增量数组
func NewIncrementalArray[T IIncrementalItem]() *IncrementalArray[T] {
	return &IncrementalArray[T]{
		data:   make([]T, 0),
		add:    make([]T, 0),
		remove: make([]T, 0),
	}
}

func (a *IncrementalArray[T]) Len() int {
	return len(a.data)
}

// Data 已生效的元素（调用方不得修改返回的切片）
func (a *IncrementalArray[T]) Data() []T {
	return a.data
}

// Add 增加元素（等到Prepare时才会真正增加）
func (a *IncrementalArray[T]) Add(value T) {
	a.add = append(a.add, value)
}

// Remove 删除元素（等到Prepare时才会真正删除），同一元素在一次Prepare前只能删除一次
func (a *IncrementalArray[T]) Remove(value T) {
	a.remove = append(a.remove, value)
}

// Prepare 执行增量操作
// 算法说明：
// 1. 新增元素优先填入被删除元素的空位
// 2. 新增多于删除时，剩余新增元素追加到末尾
// 3. 删除多于新增时，剩余空位由末尾元素填补后截断；被移动元素的下标随即更新，
// 因此末尾元素本身待删除时也能被正确定位
func (a *IncrementalArray[T]) Prepare() {
	if len(a.add) >= len(a.remove) {
		for i, x := range a.remove {
			ind := x.Index()
			a.data[ind] = a.add[i]
			a.data[ind].SetIndex(ind)
		}
		rest := a.add[len(a.remove):]
		for i, x := range rest {
			x.SetIndex(len(a.data) + i)
		}
		a.data = append(a.data, rest...)
	} else {
		for i, x := range a.add {
			ind := a.remove[i].Index()
			a.data[ind] = x
			a.data[ind].SetIndex(ind)
		}
		n := len(a.remove) - len(a.add)
		tail := len(a.data) - n
		for i := 0; i < n; i++ {
			// 从后面拿一项填过来
			ind := a.remove[len(a.add)+i].Index()
			a.data[ind] = a.data[tail+i]
			a.data[ind].SetIndex(ind)
		}
		clear(a.data[tail:])
		a.data = a.data[:tail]
	}
	a.add = a.add[:0]
	a.remove = a.remove[:0]
}
