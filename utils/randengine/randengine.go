// 随机数引擎，包装了golang.org/x/exp/rand，提供环境采样与生成逻辑需要的随机数方法
package randengine

import (
	"flag"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成

	log = logrus.WithField("module", "randengine")
)

// Engine 随机数引擎
// 功能：提供可复现的随机数生成功能
// 说明：仿真主循环单线程调用，不加锁
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改配置的情况下调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// DiscreteDistribution 按给定权重生成随机下标
// 功能：根据权重数组生成离散分布的随机数
// 参数：weight-权重数组，每个元素表示对应索引的概率权重
// 返回：随机生成的索引值（0到len(weight)-1）
// 算法说明：
// 1. 在[0, 总权重)范围内生成随机数
// 2. 累积权重直到超过随机数，返回对应下标
func (e *Engine) DiscreteDistribution(weight []float64) int {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return i
		}
	}
	log.Panicf("DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}

// PTrue 以指定概率返回true
// 参数：p-返回true的概率，>=1时恒为true，<=0时恒为false
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// Choice 等概率选取一个元素
func Choice[T any](e *Engine, items []T) T {
	return items[e.Intn(len(items))]
}
