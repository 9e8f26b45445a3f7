// 模糊推理的基础构件：三角隶属函数、语言变量与离散论域
package fuzzy

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

var (
	ErrUnknownLabel   = errors.New("fuzzy: unknown variable or label")
	ErrEmptyAggregate = errors.New("fuzzy: aggregated output set is empty")
)

// Triangle 三角隶属函数的三个断点[a, b, c]，a==b或b==c时为肩形
type Triangle [3]float64

// At 计算x处的隶属度
// 说明：与trimf一致，x==b时隶属度为1，断点重合的一侧不做线性插值
func (t Triangle) At(x float64) float64 {
	a, b, c := t[0], t[1], t[2]
	switch {
	case x == b:
		return 1
	case a != b && a < x && x < b:
		return (x - a) / (b - a)
	case b != c && b < x && x < c:
		return (c - x) / (c - b)
	default:
		return 0
	}
}

// Term 语言值（标签+隶属函数）
type Term struct {
	Label string
	Shape Triangle
}

// Variable 语言变量
// 功能：在离散论域上采样每个语言值的隶属函数，输入隶属度通过分段线性插值获得
type Variable struct {
	Name     string
	Universe []float64

	terms   []Term
	sampled map[string][]float64
	interps map[string]*interp.PiecewiseLinear
}

// NewVariable 创建语言变量
// 参数：name-变量名，min/max-论域范围，points-论域采样点数，terms-语言值
// 返回：语言变量，隶属函数采样失败时返回错误
func NewVariable(name string, min, max float64, points int, terms ...Term) (*Variable, error) {
	if points < 2 || max <= min {
		return nil, fmt.Errorf("fuzzy: bad universe for %s: [%v, %v] with %d points", name, min, max, points)
	}
	v := &Variable{
		Name:     name,
		Universe: floats.Span(make([]float64, points), min, max),
		terms:    terms,
		sampled:  make(map[string][]float64, len(terms)),
		interps:  make(map[string]*interp.PiecewiseLinear, len(terms)),
	}
	for _, t := range terms {
		ys := make([]float64, points)
		for i, x := range v.Universe {
			ys[i] = t.Shape.At(x)
		}
		pl := &interp.PiecewiseLinear{}
		if err := pl.Fit(v.Universe, ys); err != nil {
			return nil, fmt.Errorf("fuzzy: fit %s.%s: %w", name, t.Label, err)
		}
		v.sampled[t.Label] = ys
		v.interps[t.Label] = pl
	}
	return v, nil
}

// MustVariable 同NewVariable，失败时panic，用于包级常量表
func MustVariable(name string, min, max float64, points int, terms ...Term) *Variable {
	v, err := NewVariable(name, min, max, points, terms...)
	if err != nil {
		log.Panicf("%v", err)
	}
	return v
}

// Labels 语言值标签（按定义顺序）
func (v *Variable) Labels() []string {
	labels := make([]string, len(v.terms))
	for i, t := range v.terms {
		labels[i] = t.Label
	}
	return labels
}

// Membership 输入值x对语言值label的隶属度
// 说明：论域外的x按端点取值
func (v *Variable) Membership(label string, x float64) (float64, error) {
	pl, ok := v.interps[label]
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", ErrUnknownLabel, v.Name, label)
	}
	return pl.Predict(x), nil
}

// Memberships 输入值x对所有语言值的隶属度（按定义顺序）
func (v *Variable) Memberships(x float64) []float64 {
	res := make([]float64, len(v.terms))
	for i, t := range v.terms {
		res[i] = v.interps[t.Label].Predict(x)
	}
	return res
}

// LabelDegree 语言值及其隶属度
type LabelDegree struct {
	Label  string
	Degree float64
}

// Fuzzify 模糊化：输入值x对各语言值的隶属度（按定义顺序）
func (v *Variable) Fuzzify(x float64) []LabelDegree {
	labels, degrees := v.Labels(), v.Memberships(x)
	res := make([]LabelDegree, len(labels))
	for i := range labels {
		res[i] = LabelDegree{Label: labels[i], Degree: degrees[i]}
	}
	return res
}

// sampledTerm 语言值在论域采样点上的隶属度
func (v *Variable) sampledTerm(label string) ([]float64, error) {
	ys, ok := v.sampled[label]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownLabel, v.Name, label)
	}
	return ys, nil
}
