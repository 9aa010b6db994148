package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/estatecalc/internal/analyzer"
	"github.com/Simplici0/estatecalc/internal/entity"
)

const twoYears = `
name: two-years
fixed:
  bd_price: 20,000,000
  ld_price: 10000000
  bd_room_count: 5
years:
  1:
    bd_rent_income: 80000
    bd_empty_ratio: 0.1
    ln_monthes: 24
  2:
    bd_rent_income: 90000
    bd_empty_ratio: 0.1
    ln_monthes: 24
    bd_maintenance_fee: ~
`

func TestParse_Layout(t *testing.T) {
	s, err := Parse([]byte(twoYears))
	require.NoError(t, err)

	d, err := s.Dataset()
	require.NoError(t, err)

	require.Len(t, d.FixedCells, 3)
	assert.Equal(t, entity.KeyBuildingPrice, d.FixedCells[0].Key)
	assert.Equal(t, "20,000,000", *d.FixedCells[0].Value)
	assert.Equal(t, "10000000", *d.FixedCells[1].Value)
	assert.Equal(t, 1, d.FixedCells[2].ColumnIndex)

	assert.Equal(t, []string{"1", "2"}, d.YearLabels())
	second := d.YearlyCells["2"]
	require.Len(t, second, 4)
	assert.Equal(t, 3, second[0].ColumnIndex)
	assert.Equal(t, 2, *second[0].YearTag)
	assert.Equal(t, "0.1", *second[1].Value)
	assert.Nil(t, second[3].Value)
}

func TestParse_RequiresName(t *testing.T) {
	_, err := Parse([]byte("fixed:\n  bd_price: 1\n"))

	assert.True(t, errors.Is(err, ErrNoName))
}

func TestDataset_RejectsBadYearLabel(t *testing.T) {
	s, err := Parse([]byte("name: x\nyears:\n  first:\n    bd_price: 1\n"))
	require.NoError(t, err)

	_, err = s.Dataset()
	assert.Error(t, err)
}

func TestDataset_FlatInputsAreSplitByKind(t *testing.T) {
	s, err := Parse([]byte(`
name: flat
inputs:
  bd_price: 1000
  bd_rent_income: 10
  ln_init_amount: 5
  et_surface_ratio: 0.1
`))
	require.NoError(t, err)

	d, err := s.Dataset()
	require.NoError(t, err)

	keys := func(cells []entity.Cell) []string {
		var out []string
		for _, c := range cells {
			out = append(out, c.Key)
		}
		return out
	}
	assert.Equal(t, []string{entity.KeyBuildingPrice, entity.KeyDownPayment}, keys(d.FixedCells))
	assert.Equal(t, []string{entity.KeyRentIncome, entity.KeySurfaceYield}, keys(d.YearlyCells["1"]))
}

func TestDataset_DefaultsToSingleYear(t *testing.T) {
	s, err := Parse([]byte("name: empty\n"))
	require.NoError(t, err)

	d, err := s.Dataset()
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, d.YearLabels())
}

func TestTwoYearScenarioAnalyzes(t *testing.T) {
	s, err := Parse([]byte(twoYears))
	require.NoError(t, err)
	d, err := s.Dataset()
	require.NoError(t, err)

	out := analyzer.Analyze(d)

	require.Empty(t, out.Error)
	assert.Len(t, out.Outputs, 5)
	second, ok := out.Output(2)
	require.True(t, ok)
	rent, _ := second.Values.Number("bd_rent_yearly_")
	assert.InDelta(t, 90000*5*12*0.9, rent, 1e-6)
}

func TestSamplesAnalyzeCleanly(t *testing.T) {
	all, err := Samples()
	require.NoError(t, err)
	require.Len(t, all, 2)

	for _, s := range all {
		d, err := s.Dataset()
		require.NoError(t, err, s.Name)

		out := analyzer.Analyze(d)

		require.Empty(t, out.Error, s.Name)
		assert.NotEmpty(t, out.Outputs, s.Name)
	}

	_, ok := Sample("osaka-rc-mansion")
	assert.True(t, ok)
	_, ok = Sample("nowhere")
	assert.False(t, ok)
}

func TestFromDatasetRoundTrip(t *testing.T) {
	s, err := Parse([]byte(twoYears))
	require.NoError(t, err)
	d, err := s.Dataset()
	require.NoError(t, err)

	data, err := FromDataset("copy", d).Marshal()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	d2, err := back.Dataset()
	require.NoError(t, err)

	assert.Equal(t, "copy", back.Name)
	assert.Equal(t, d.FixedCells, d2.FixedCells)
	assert.Equal(t, d.YearlyCells, d2.YearlyCells)
}

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(p, []byte(twoYears), 0o600))

	s, err := Load(p)

	require.NoError(t, err)
	assert.Equal(t, "two-years", s.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
