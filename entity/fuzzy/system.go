package fuzzy

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
)

// Inputs 各输入变量的清晰值
type Inputs map[string]float64

// membershipFunc 查询变量某个语言值在当前输入下的隶属度
type membershipFunc func(variable, label string) (float64, error)

// Expr 规则前件表达式树
type Expr interface {
	eval(mu membershipFunc) (float64, error)
	String() string
}

type isExpr struct {
	variable, label string
}

// Is 原子命题：variable is label
func Is(variable, label string) Expr {
	return isExpr{variable: variable, label: label}
}

func (e isExpr) eval(mu membershipFunc) (float64, error) {
	return mu(e.variable, e.label)
}

func (e isExpr) String() string {
	return e.variable + " is " + e.label
}

type andExpr []Expr

// And 合取，取最小值
func And(exprs ...Expr) Expr {
	return andExpr(exprs)
}

func (e andExpr) eval(mu membershipFunc) (float64, error) {
	return combine(e, mu, math.Min, 1)
}

func (e andExpr) String() string {
	return join(e, " AND ")
}

type orExpr []Expr

// Or 析取，取最大值
func Or(exprs ...Expr) Expr {
	return orExpr(exprs)
}

func (e orExpr) eval(mu membershipFunc) (float64, error) {
	return combine(e, mu, math.Max, 0)
}

func (e orExpr) String() string {
	return join(e, " OR ")
}

func combine(exprs []Expr, mu membershipFunc, op func(a, b float64) float64, identity float64) (float64, error) {
	if len(exprs) == 0 {
		return 0, nil
	}
	res := identity
	for _, sub := range exprs {
		v, err := sub.eval(mu)
		if err != nil {
			return 0, err
		}
		res = op(res, v)
	}
	return res, nil
}

func join(exprs []Expr, sep string) string {
	parts := lo.Map(exprs, func(e Expr, _ int) string {
		if _, ok := e.(isExpr); ok {
			return e.String()
		}
		return "(" + e.String() + ")"
	})
	return strings.Join(parts, sep)
}

// Rule 模糊规则：IF 前件 THEN 输出变量 is Then
type Rule struct {
	If   Expr
	Then string
}

// Activation 规则激活度
type Activation struct {
	Rule   string  // 规则描述
	Degree float64 // 激活度[0,1]
}

// System 单输出Mamdani模糊推理系统
// 功能：按规则表计算各规则激活度，以min截断输出语言值、max聚合，再用重心法去模糊
// 说明：构造后只读，可被并发调用，每次推理都使用局部数据
type System struct {
	inputs       map[string]*Variable
	inputOrder   []string
	output       *Variable
	rules        []Rule
	descriptions []string
}

// NewSystem 创建推理系统
// 功能：校验规则引用的变量与语言值都已定义，并生成规则描述
// 参数：output-输出变量，rules-规则表，inputs-输入变量
// 返回：推理系统，规则引用未知变量或标签时返回错误
func NewSystem(output *Variable, rules []Rule, inputs ...*Variable) (*System, error) {
	s := &System{
		inputs:       make(map[string]*Variable, len(inputs)),
		output:       output,
		rules:        rules,
		descriptions: make([]string, len(rules)),
	}
	for _, in := range inputs {
		s.inputs[in.Name] = in
		s.inputOrder = append(s.inputOrder, in.Name)
	}
	lookup := func(variable, label string) (float64, error) {
		v, ok := s.inputs[variable]
		if !ok {
			return 0, fmt.Errorf("%w: variable %s", ErrUnknownLabel, variable)
		}
		return v.Membership(label, 0)
	}
	for i, r := range rules {
		if _, err := r.If.eval(lookup); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		if _, err := output.sampledTerm(r.Then); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		s.descriptions[i] = fmt.Sprintf("%d) IF %v THEN %s is %s", i+1, r.If, output.Name, r.Then)
	}
	return s, nil
}

// Rules 规则描述（按规则表顺序）
func (s *System) Rules() []string {
	return s.descriptions
}

// Activations 计算每条规则的激活度
// 功能：在各输入清晰值处插值得到隶属度，按AND取min、OR取max组合
// 参数：in-输入清晰值（缺失的输入视为错误）
// 返回：与规则表同序的激活度列表
func (s *System) Activations(in Inputs) ([]Activation, error) {
	mu := func(variable, label string) (float64, error) {
		v, ok := s.inputs[variable]
		if !ok {
			return 0, fmt.Errorf("%w: variable %s", ErrUnknownLabel, variable)
		}
		x, ok := in[variable]
		if !ok {
			return 0, fmt.Errorf("fuzzy: missing input %s", variable)
		}
		return v.Membership(label, x)
	}
	res := make([]Activation, len(s.rules))
	for i, r := range s.rules {
		degree, err := r.If.eval(mu)
		if err != nil {
			return nil, err
		}
		res[i] = Activation{Rule: s.descriptions[i], Degree: lo.Clamp(degree, 0, 1)}
	}
	return res, nil
}

// Infer 执行推理并去模糊
// 返回：重心法得到的输出清晰值、各规则激活度
// 算法说明：
// 1. 计算规则激活度
// 2. 每条规则用激活度截断其输出语言值（min），再对所有规则逐点取max得到聚合模糊集
// 3. 聚合集面积为0时返回ErrEmptyAggregate
// 4. 把聚合集视为采样点之间线性连接的折线，按Centroid求连续重心
func (s *System) Infer(in Inputs) (float64, []Activation, error) {
	activations, err := s.Activations(in)
	if err != nil {
		return 0, nil, err
	}
	aggregated := make([]float64, len(s.output.Universe))
	for i, r := range s.rules {
		strength := activations[i].Degree
		if strength <= 0 {
			continue
		}
		mf, _ := s.output.sampledTerm(r.Then)
		for j, m := range mf {
			aggregated[j] = math.Max(aggregated[j], math.Min(strength, m))
		}
	}
	if floats.Max(aggregated) <= 0 {
		return 0, activations, ErrEmptyAggregate
	}
	return Centroid(s.output.Universe, aggregated), activations, nil
}

// Centroid 分段线性隶属函数的重心
// 功能：相邻采样点之间按直线连接，逐段累加面积与面积矩，重心 = 总矩 / 总面积
// 参数：xs-递增的论域采样点，mu-对应的隶属度
// 返回：重心横坐标，总面积为0时返回0
// 算法说明：每段按形状取其形心
// 1. 两端等高：矩形，形心在中点
// 2. 左端为0：上升三角形，形心距左端2/3
// 3. 右端为0：下降三角形，形心距左端1/3
// 4. 其他：梯形，形心距左端 2/3·(y2+y1/2)/(y1+y2) 个段长
func Centroid(xs, mu []float64) float64 {
	var area, moment float64
	for i := 1; i < len(xs); i++ {
		x1, x2 := xs[i-1], xs[i]
		y1, y2 := mu[i-1], mu[i]
		width := x2 - x1
		if width == 0 || (y1 == 0 && y2 == 0) {
			continue
		}
		var center, a float64
		switch {
		case y1 == y2:
			center = x1 + width/2
			a = width * y1
		case y1 == 0:
			center = x1 + 2*width/3
			a = width * y2 / 2
		case y2 == 0:
			center = x1 + width/3
			a = width * y1 / 2
		default:
			center = x1 + 2*width*(y2+y1/2)/(3*(y1+y2))
			a = width * (y1 + y2) / 2
		}
		area += a
		moment += center * a
	}
	if area <= 0 {
		return 0
	}
	return moment / area
}
