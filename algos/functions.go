package algos

import (
	"fmt"
	"math"

	"github.com/StupidArthur/data-factory-next/registry"
)

func unary(f func(float64) float64) registry.Function {
	return func(args ...float64) (float64, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("expects exactly one argument, got %d", len(args))
		}
		return f(args[0]), nil
	}
}

func binary(f func(float64, float64) float64) registry.Function {
	return func(args ...float64) (float64, error) {
		if len(args) != 2 {
			return 0, fmt.Errorf("expects exactly two arguments, got %d", len(args))
		}
		return f(args[0], args[1]), nil
	}
}

type functionEntry struct {
	name string
	fn   registry.Function
	doc  registry.Doc
}

func mathDoc(english, chinese, markdown string) registry.Doc {
	return registry.Doc{
		EnglishName:         english,
		ChineseName:         chinese,
		Markdown:            markdown,
		ParamsTableMarkdown: "| param | meaning |\n|---|---|\n| x | input scalar |\n",
	}
}

var mathFunctions = []functionEntry{
	{"abs", unary(math.Abs), mathDoc("Absolute Value", "绝对值", "Returns the absolute value of x.")},
	{"fabs", unary(math.Abs), mathDoc("Absolute Value (float)", "浮点绝对值", "Returns the absolute value of x as a float.")},
	{"sqrt", unary(math.Sqrt), mathDoc("Square Root", "平方根", "Returns the square root of x.")},
	{"sin", unary(math.Sin), mathDoc("Sine", "正弦", "Returns the sine of x, in radians.")},
	{"cos", unary(math.Cos), mathDoc("Cosine", "余弦", "Returns the cosine of x, in radians.")},
	{"tan", unary(math.Tan), mathDoc("Tangent", "正切", "Returns the tangent of x, in radians.")},
	{"log", unary(math.Log), mathDoc("Natural Logarithm", "自然对数", "Returns the natural logarithm of x.")},
	{"exp", unary(math.Exp), mathDoc("Exponential", "指数", "Returns e raised to the power x.")},
	{"asin", unary(math.Asin), mathDoc("Arcsine", "反正弦", "Returns the arcsine of x, in radians.")},
	{"acos", unary(math.Acos), mathDoc("Arccosine", "反余弦", "Returns the arccosine of x, in radians.")},
	{"atan", unary(math.Atan), mathDoc("Arctangent", "反正切", "Returns the arctangent of x, in radians.")},
	{"floor", unary(math.Floor), mathDoc("Floor", "向下取整", "Returns the largest integer not greater than x.")},
	{"ceil", unary(math.Ceil), mathDoc("Ceiling", "向上取整", "Returns the smallest integer not less than x.")},
	{"min", binary(math.Min), mathDoc("Minimum", "最小值", "Returns the smaller of x and y.")},
	{"max", binary(math.Max), mathDoc("Maximum", "最大值", "Returns the larger of x and y.")},
}
