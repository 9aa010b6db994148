package formula

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(src string, scope Scope) (float64, error) {
	e, err := Compile(src)
	if err != nil {
		return 0, err
	}
	return e.Eval(scope)
}

func TestEval_Precedence(t *testing.T) {
	scope := MapScope{"a": 2, "b": 3, "c": 4}

	cases := map[string]float64{
		"1 + 2 * 3":            7,
		"(1 + 2) * 3":          9,
		"a * b + c":            10,
		"a * (b + c)":          14,
		"10 / 4":               2.5,
		"10 - 4 - 3":           3,
		"24 / 4 / 2":           3,
		"-a + b":               1,
		"-(a + b)":             -5,
		"1 - -1":               2,
		"+a":                   2,
		"( c + a ) * 0.014":    0.084,
		"1e3 + 2.5E-1":         1000.25,
		"a*b*12*(1-0.1)/c":     13.5,
		"  a  ":                2,
		"bd_price_2 * 0 + 1.5": 1.5,
	}
	scope["bd_price_2"] = 9

	for src, want := range cases {
		got, err := eval(src, scope)
		require.NoError(t, err, src)
		assert.InDelta(t, want, got, 1e-12, src)
	}
}

func TestEval_UnknownVariable(t *testing.T) {
	_, err := eval("a + missing", MapScope{"a": 1})

	var unknown *UnknownVariableError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.Name)
}

func TestEval_DivisionByZeroIsNotFinite(t *testing.T) {
	got, err := eval("1 / (a - a)", MapScope{"a": 3})

	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))
}

func TestCompile_SyntaxErrors(t *testing.T) {
	for _, src := range []string{"", "1 +", "(1 + 2", "1 2", "a ^ 2", "max(1, 2)", "1 + )"} {
		_, err := Compile(src)

		var syntax *SyntaxError
		assert.True(t, errors.As(err, &syntax), "expected syntax error for %q, got %v", src, err)
	}
}

func TestExpr_Vars(t *testing.T) {
	e := MustCompile("( ld_tax_eval_price + bd_tax_eval_price ) * 0.014 + ld_tax_eval_price")

	assert.Equal(t, []string{"bd_tax_eval_price", "ld_tax_eval_price"}, e.Vars())
}

func TestLiteral(t *testing.T) {
	e := Literal(1234567.125)

	got, err := e.Eval(MapScope{})
	require.NoError(t, err)
	assert.Equal(t, 1234567.125, got)
	assert.Equal(t, "1234567.125", e.String())
	assert.Empty(t, e.Vars())
}

func TestMustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("1 +") })
}
