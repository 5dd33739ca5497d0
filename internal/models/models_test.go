package models

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/corrosim/internal/registry"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// testEnv writes the given tables as <name>.csv into a temporary table
// directory. Names are full file stems such as "ref_tables_table_2".
func testEnv(t *testing.T, files map[string]string) registry.Env {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".csv"), []byte(content), 0o644))
	}
	return registry.Env{TableDir: dir, SeriesDir: dir, Logger: logr.Discard()}
}

func testRecord(id, ref string) types.Record {
	return types.Record{Identifier: id, Title: id, Reference: &types.Reference{Identifier: ref}}
}

func TestEvaluatorsTable(t *testing.T) {
	m := Evaluators()
	assert.Len(t, m, 11)
	for _, id := range []string{IDBenarie1986, IDMa2010, IDFeliu1993, IDISO9223, IDSoares1999,
		IDGarbatov2011, IDHicks2012, IDAli2020, IDAli2020Tabulated, IDKovalenko2016, IDKlineSmith2007} {
		assert.Contains(t, m, id)
	}

	ms := Measurements("exp_data_weights", IDAli2020Measurement)
	assert.Len(t, ms, 2)
	assert.Contains(t, ms, "exp_data_weights")
}

func TestSoares1999(t *testing.T) {
	e, err := NewSoares1999(testRecord(IDSoares1999, "soares1999"), registry.Env{})
	require.NoError(t, err)
	require.NoError(t, e.Configure(types.ParameterSet{"t_c": 5.0, "t_t": 10.0, "d_inf": 100.0}))

	assert.Equal(t, 0.0, e.Loss(4))
	assert.Equal(t, 0.0, e.Loss(5))
	assert.InDelta(t, 100*(1-math.Exp(-1)), e.Loss(15), 1e-12)
	assert.InDelta(t, 63.21, e.Loss(15), 0.005)

	got := types.LossSeries(e, []float64{0, 4, 5, 15})
	assert.Equal(t, []float64{0, 0, 0, e.Loss(15)}, got)
	assert.Equal(t, "mm", e.Units().Loss)
}

func TestSoares1999ZeroTransition(t *testing.T) {
	e, err := NewSoares1999(testRecord(IDSoares1999, "soares1999"), registry.Env{})
	require.NoError(t, err)
	require.NoError(t, e.Configure(types.ParameterSet{"t_c": 2.0, "t_t": 0.0, "d_inf": 3.0}))

	assert.Equal(t, 0.0, e.Loss(2))
	assert.Equal(t, 3.0, e.Loss(2.5))
	assert.False(t, math.IsNaN(e.Loss(2)))
}

func TestSoares1999RejectsOutOfRange(t *testing.T) {
	e, err := NewSoares1999(testRecord(IDSoares1999, "soares1999"), registry.Env{})
	require.NoError(t, err)

	err = e.Configure(types.ParameterSet{"d_inf": 0.0})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrValidation)
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"d_inf"}, verr.Keys())
}

func TestISO9223Continuity(t *testing.T) {
	e, err := NewISO9223(testRecord(IDISO9223, "iso"), registry.Env{Logger: logr.Discard()})
	require.NoError(t, err)
	require.NoError(t, e.Configure(types.ParameterSet{"corrosion_speed": 30.0, "exponent": 0.8}))

	iso := e.(*ISO9223)
	assert.Equal(t, 30.0, iso.Speed())
	assert.Equal(t, 0.8, iso.Exponent())

	anchor := 30 * math.Pow(20, 0.8)
	before := e.Loss(math.Nextafter(20, 0))
	assert.InDelta(t, anchor, before, 1e-9)
	assert.Equal(t, anchor, e.Loss(20))

	rateBefore := iso.GrowthRate(math.Nextafter(20, 0))
	rateAt := iso.GrowthRate(20)
	assert.InDelta(t, rateAt, rateBefore, 1e-9)
	assert.InDelta(t, 0.8*30*math.Pow(20, -0.2), rateAt, 1e-12)

	assert.Equal(t, 0.0, iso.GrowthRate(0))
	assert.Equal(t, 0.0, iso.GrowthRate(-1))

	// Linear continuation after the breakpoint.
	assert.InDelta(t, anchor+rateAt*10, e.Loss(30), 1e-9)
	assert.InDelta(t, 30*math.Pow(10, 0.8), e.Loss(10), 1e-9)
}

func TestISO9223Speed(t *testing.T) {
	tests := []struct {
		name           string
		temp, rh, pd, sd float64
	}{
		{"cold branch", 0, 80, 10, 20},
		{"breakpoint uses cold branch", 10, 60, 5, 5},
		{"warm branch", 25, 70, 20, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fst := 0.15 * (tt.temp - 10)
			if tt.temp > 10 {
				fst = -0.054 * (tt.temp - 10)
			}
			want := 1.77*math.Pow(tt.pd, 0.52)*math.Exp(0.02*tt.rh+fst) + 0.102*math.Pow(tt.sd, 0.62)*math.Exp(0.033*tt.rh+0.04*tt.temp)
			assert.InDelta(t, want, ISOSpeed(tt.temp, tt.rh, tt.pd, tt.sd), 1e-12)
		})
	}

	e, err := NewISO9223(testRecord(IDISO9223, "iso"), registry.Env{Logger: logr.Discard()})
	require.NoError(t, err)
	require.NoError(t, e.Configure(types.ParameterSet{"T": 25.0, "RH": 70.0, "Pd": 20.0, "Sd": 100.0}))
	assert.InDelta(t, ISOSpeed(25, 70, 20, 100), e.(*ISO9223).Speed(), 1e-12)
	assert.Equal(t, ISODefaultExponent, e.(*ISO9223).Exponent())
}

func TestISO9223Tables(t *testing.T) {
	env := testEnv(t, map[string]string{
		"iso_tables_table_2": "Category,Corrosivity,Lower,Upper\n" +
			"C1,very low,0,1.3\nC2,low,1.3,25\nC3,medium,25,50\nC4,high,50,80\nC5,very high,80,200\nCX,extreme,200,700\n",
		"iso_tables_9224_table_3": "h\nh\nh\nh\nh\nh\n1,0.4\n10,0.5\n20,0.6\n",
	})
	e, err := NewISO9223(testRecord(IDISO9223, "iso"), env)
	require.NoError(t, err)
	iso := e.(*ISO9223)

	tests := []struct {
		name      string
		params    types.ParameterSet
		wantSpeed float64
		wantN     float64
	}{
		{"category average", types.ParameterSet{"category": 3}, 37.5, ISODefaultExponent},
		{"category lower", types.ParameterSet{"category": 2, "speed_limit": "lower"}, 1.3, ISODefaultExponent},
		{"category upper", types.ParameterSet{"category": 6, "speed_limit": "upper"}, 700, ISODefaultExponent},
		{"explicit speed wins", types.ParameterSet{"category": 6, "corrosion_speed": 5.0}, 5, ISODefaultExponent},
		{"exact exponent year", types.ParameterSet{"corrosion_speed": 1.0, "exponent_year": 10.0}, 1, 0.5},
		{"interpolated exponent year", types.ParameterSet{"corrosion_speed": 1.0, "exponent_year": 15.0}, 1, 0.55},
		{"explicit exponent wins", types.ParameterSet{"corrosion_speed": 1.0, "exponent_year": 15.0, "exponent": 0.7}, 1, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, e.Configure(tt.params))
			assert.InDelta(t, tt.wantSpeed, iso.Speed(), 1e-12)
			assert.InDelta(t, tt.wantN, iso.Exponent(), 1e-12)
		})
	}
}

func TestISO9223MissingTables(t *testing.T) {
	e, err := NewISO9223(testRecord(IDISO9223, "iso"), testEnv(t, nil))
	require.NoError(t, err)

	err = e.Configure(types.ParameterSet{"category": 2})
	assert.ErrorIs(t, err, types.ErrValidation)
	err = e.Configure(types.ParameterSet{"exponent_year": 5.0})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestMa2010(t *testing.T) {
	e, err := NewMa2010(testRecord(IDMa2010, "ma2010"), registry.Env{})
	require.NoError(t, err)
	ma := e.(*Ma2010)

	tests := []struct {
		name  string
		site  int
		dist  float64
		wantA float64
		wantN float64
	}{
		{"site I at 25 m", 1, 25, math.Exp(0.13548), 2.86585},
		{"site I at 95 m", 1, 95, math.Exp(0.52743), 2.18778},
		{"site II at 375 m", 2, 375, math.Exp(1.26836), 0.76748},
		{"site II between 95 and 375 m", 2, 235, math.Exp((1.5981 + 1.26836) / 2), (1.05915 + 0.76748) / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, e.Configure(types.ParameterSet{"corrosion_site": tt.site, "distance": tt.dist}))
			a, n := ma.Coefficients()
			if tt.dist == 235 {
				assert.InDelta(t, tt.wantA, a, 1e-12)
				assert.InDelta(t, tt.wantN, n, 1e-12)
				return
			}
			assert.Equal(t, tt.wantA, a)
			assert.Equal(t, tt.wantN, n)
			assert.InDelta(t, tt.wantA*math.Pow(2, tt.wantN), e.Loss(2), 1e-9)
		})
	}

	err = e.Configure(types.ParameterSet{"distance": 400.0})
	assert.ErrorIs(t, err, types.ErrValidation)
}

const benarieTable = `Site,A,b,SO2+Cl,pH
Stratford,14.1,0.565,2.1,4.3
Bayonne,13.5,0.7,3.0,4.1
`

func TestBenarie1986(t *testing.T) {
	env := testEnv(t, map[string]string{"benarie1986_tables_table_2": benarieTable})
	e, err := NewBenarie1986(testRecord(IDBenarie1986, "benarie1986"), env)
	require.NoError(t, err)
	b := e.(*Benarie1986)

	assert.Equal(t, []string{"Stratford", "Bayonne"}, b.Sites())
	a, n := b.Coefficients()
	assert.Equal(t, 14.1, a)
	assert.Equal(t, 0.565, n)

	require.NoError(t, e.Configure(types.ParameterSet{"corrosion_site": 2}))
	assert.InDelta(t, 13.5*math.Pow(4, 0.7), e.Loss(4), 1e-12)
	assert.Equal(t, 0.0, e.Loss(0))

	assert.ErrorIs(t, e.Configure(types.ParameterSet{"corrosion_site": 3}), types.ErrValidation)
}

func TestBenarie1986MissingTable(t *testing.T) {
	_, err := NewBenarie1986(testRecord(IDBenarie1986, "benarie1986"), testEnv(t, nil))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func feliuEnv(t *testing.T) registry.Env {
	return testEnv(t, map[string]string{
		"feliu1993_tables_table_2": "h\nh\nh\nh\nTw,wetness,0.4\nD,rainy,120\nT,temperature,15\nCl,pollution,0.1\n",
		"feliu1993_tables_table_4": "n,rural,urban,marine\nexponent,0.4,0.5,0.6\n",
	})
}

func TestFeliu1993(t *testing.T) {
	e, err := NewFeliu1993(testRecord(IDFeliu1993, "feliu1993"), feliuEnv(t))
	require.NoError(t, err)
	f := e.(*Feliu1993)

	assert.Equal(t, []string{"rural", "urban", "marine"}, f.Atmospheres())
	assert.Equal(t, types.ParameterSet{"binary_interaction": true, "atmosphere": 0, "Cl": 0.1, "SO2": 0.1, "T": 15.0, "Tw": 0.4, "rainy_days": 120.0}, f.Parameters())

	wantBinary := 132.4 * 0.1 * (1 + 0.038*15 - 1.96*0.4 - 0.53*0.1 + 74.6*0.4*(1+1.07*0.1) - 6.3)
	assert.InDelta(t, wantBinary, f.Annual(), 1e-12)
	assert.Equal(t, 0.4, f.Exponent())

	require.NoError(t, e.Configure(types.ParameterSet{"binary_interaction": false, "atmosphere": 2, "Cl": 0.2, "SO2": 0.3}))
	assert.InDelta(t, 33.0+57.4*0.2+26.6*0.3, f.Annual(), 1e-12)
	assert.Equal(t, 0.6, f.Exponent())
	assert.InDelta(t, f.Annual()*math.Pow(5, 0.6), e.Loss(5), 1e-9)
}

func TestFeliu1993ManualExponent(t *testing.T) {
	e, err := NewFeliu1993(testRecord(IDFeliu1993, "feliu1993"), feliuEnv(t))
	require.NoError(t, err)
	f := e.(*Feliu1993)

	require.NoError(t, e.Configure(types.ParameterSet{
		"binary_interaction": false, "atmosphere": FeliuManualAtmosphere,
		"Cl": 0.2, "SO2": 0.1, "T": 12.0, "rainy_days": 150.0,
	}))
	annual := 33.0 + 57.4*0.2 + 26.6*0.1
	assert.InDelta(t, 0.570+0.0057*0.2*12+7.7e-4*150-1.7e-3*annual, f.Exponent(), 1e-12)

	require.NoError(t, e.Configure(types.ParameterSet{
		"binary_interaction": false, "atmosphere": FeliuManualAtmosphere,
		"Cl": 0.2, "SO2": 0.1, "T": 12.0, "Tw": 0.5,
	}))
	assert.InDelta(t, 0.570+0.0057*0.2*12+7.7e-4*120-1.7e-3*annual, f.Exponent(), 1e-12)
}

func TestGarbatov2011(t *testing.T) {
	e, err := NewGarbatov2011(testRecord(IDGarbatov2011, "garbatov2011"), registry.Env{})
	require.NoError(t, err)
	require.NoError(t, e.Configure(types.ParameterSet{"T": 20.0, "DO": 4.0, "V": 1.0}))

	dT := 0.0014*20 + 0.0154
	fT := 20 / 15.5
	dDO := 0.0268*4 + 0.0086
	fDO := 0.9483*4 + 0.0517
	dV := 0.9338 * (1 - math.Exp(-0.4457*(1+0.2817)))
	fV := 1.0978 * (1 - math.Exp(-2.2927*(1+0.0548)))
	rate := fT * fDO * fV * (dT + dDO + dV)

	g := e.(*Garbatov2011)
	assert.InDelta(t, rate, g.Rate(), 1e-12)
	assert.InDelta(t, rate*7, e.Loss(7), 1e-12)
	assert.Equal(t, 0.0, e.Loss(0))
}

func TestHicks2012ZeroSuppression(t *testing.T) {
	e, err := NewHicks2012(testRecord(IDHicks2012, "hicks2012"), registry.Env{})
	require.NoError(t, err)
	h := e.(*Hicks2012)

	assert.Equal(t, 0.0, h.Rate(), "all parameters zero contribute nothing")

	require.NoError(t, e.Configure(types.ParameterSet{"chloride": 100.0, "ph": 0.0}))
	assert.InDelta(t, 0.0055*100+0.0382, h.Rate(), 1e-12)

	require.NoError(t, e.Configure(types.ParameterSet{"chloride": 100.0, "ph": 7.0}))
	assert.InDelta(t, 0.0055*100+0.0382+(-0.0155*7+0.2113), h.Rate(), 1e-12)
	assert.InDelta(t, h.Rate()*3, e.Loss(3), 1e-12)

	assert.InDelta(t, 3.785*0.1+0.0803, HicksRate(map[string]float64{"dissolved_copper": 0.1}), 1e-12)
}

const aliTable3 = `NaCl,slope,b
0,0.0008,0.010
1,0.00086,0.012
3,0.00098,0.020
5,0.0011,0.030
`

const aliTable4 = `weight change
time,0,1,3
0,0,0,0
10,0.01,0.02,0.03
20,0.02,0.04,0.06
`

func TestAli2020(t *testing.T) {
	env := testEnv(t, map[string]string{"ali2020_tables_table_3": aliTable3})
	e, err := NewAli2020(testRecord(IDAli2020, "ali2020"), env)
	require.NoError(t, err)
	a := e.(*Ali2020)
	assert.Equal(t, "days", e.Units().Time)
	assert.Equal(t, "g", e.Units().Loss)

	tests := []struct {
		c     float64
		wantB float64
	}{
		{0, 0.010},
		{3, 0.020},
		{2, 0.016},
		{4, 0.025},
	}
	for _, tt := range tests {
		require.NoError(t, e.Configure(types.ParameterSet{"C": tt.c}))
		assert.InDelta(t, tt.wantB, a.Intercept(), 1e-12, "C=%g", tt.c)
		assert.InDelta(t, (0.00006*tt.c+0.0008)*30+tt.wantB, e.Loss(30), 1e-12)
	}

	assert.ErrorIs(t, e.Configure(types.ParameterSet{"C": 6.0}), types.ErrValidation)
}

func TestAli2020Tabulated(t *testing.T) {
	env := testEnv(t, map[string]string{"ali2020_tables_table_4": aliTable4})
	e, err := NewAli2020Tabulated(testRecord(IDAli2020Tabulated, "ali2020"), env)
	require.NoError(t, err)

	require.NoError(t, e.Configure(types.ParameterSet{"C": 1.0}))
	assert.Equal(t, 0.04, e.Loss(20))
	assert.InDelta(t, 0.03, e.Loss(15), 1e-12)
	assert.Equal(t, 0.04, e.Loss(100), "held at the last sample")

	require.NoError(t, e.Configure(types.ParameterSet{"C": 2.0}))
	assert.InDelta(t, (0.03+0.045)/2, e.Loss(15), 1e-12)
	assert.InDelta(t, 0.0, e.Loss(-5), 1e-12)
}

func TestAli2020Measurement(t *testing.T) {
	env := testEnv(t, map[string]string{"ali2020_tables_table_4": aliTable4})
	m, err := NewAli2020Measurement(testRecord(IDAli2020Measurement, "ali2020"), env)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 3}, m.(*Ali2020Measurement).Concentrations())

	require.NoError(t, m.Configure(types.ParameterSet{"C": 3.0}))
	series, err := m.Series()
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "days", series[0].TimeUnit)
	assert.Equal(t, "Mass loss [g]", series[0].YLabel)
	assert.Equal(t, []types.Point{{X: 0, Y: 0}, {X: 10, Y: 0.03}, {X: 20, Y: 0.06}}, series[0].Points)

	assert.ErrorIs(t, m.Configure(types.ParameterSet{"C": 2.0}), types.ErrValidation)
}

func TestKovalenko2016(t *testing.T) {
	env := testEnv(t, map[string]string{
		"kovalenko2016_tables_table_3": "condition,T,DIN,c_s,r_s\n1,low,low,0.1,0.05\n2,high,high,0.3,0.12\n",
	})
	e, err := NewKovalenko2016(testRecord(IDKovalenko2016, "kovalenko2016"), env)
	require.NoError(t, err)
	k := e.(*Kovalenko2016)

	cs, rs := k.Coefficients()
	assert.Equal(t, 0.1, cs)
	assert.Equal(t, 0.05, rs)

	require.NoError(t, e.Configure(types.ParameterSet{"condition": 2}))
	assert.InDelta(t, 0.3+0.12*10, e.Loss(10), 1e-12)
	assert.Equal(t, 0.3, e.Loss(0))

	assert.ErrorIs(t, e.Configure(types.ParameterSet{"condition": 3}), types.ErrValidation)
}

func TestKlineSmith2007(t *testing.T) {
	env := testEnv(t, map[string]string{
		"klinesmith2007_tables_table_2": "h,h,A,B,C,D,E,F,G,H,J,T0\nsteel,x,2,0.5,4380,1,1,1,1,1,0,0\n",
	})
	e, err := NewKlineSmith2007(testRecord(IDKlineSmith2007, "klinesmith2007"), env)
	require.NoError(t, err)
	require.NoError(t, e.Configure(types.ParameterSet{"TOW": 0.5, "SO2": 1.0, "Cl": 1.0, "T": 10.0}))

	// (0.5·8760/4380)^1 = 1, (1 + 1)·(1 + 1) = 4, exp(0) = 1.
	assert.InDelta(t, 2*math.Sqrt(9)*4, e.Loss(9), 1e-12)
}

func TestFileSeries(t *testing.T) {
	env := testEnv(t, map[string]string{
		"good": "Time [d],Loss\nUnits,mg\n0,0\n7,1.2\n",
		"bad":  "Time,Loss\n0,0\n7,1.2\n",
	})
	rec := types.Record{
		Identifier: "exp_data_weights",
		Title:      "Weights",
		Files:      []types.FileRef{{Name: "good.csv"}, {Name: "bad.csv"}, {Name: "photo.png"}},
	}
	m, err := NewFileSeries(rec, env)
	require.NoError(t, err)

	series, err := m.Series()
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "Weights: Loss", series[0].Name)
	assert.Equal(t, "days", series[0].TimeUnit)

	rec.Files = []types.FileRef{{Name: "bad.csv"}}
	m, err = NewFileSeries(rec, env)
	require.NoError(t, err)
	_, err = m.Series()
	assert.ErrorIs(t, err, types.ErrParse)

	_, err = NewFileSeries(types.Record{Identifier: "none"}, env)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
