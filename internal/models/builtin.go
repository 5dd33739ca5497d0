package models

import (
	"github.com/mesh-intelligence/corrosim/internal/registry"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Registered model identifiers.
const (
	IDBenarie1986      = "model_benarie1986"
	IDMa2010           = "model_ma2010"
	IDFeliu1993        = "model_feliu1993"
	IDISO9223          = "din-corrosion-protection-model-iso-9223-compliant"
	IDSoares1999       = "model_soares1999"
	IDGarbatov2011     = "model_garbatov2011"
	IDHicks2012        = "model_hicks2012"
	IDAli2020          = "model_ali2020"
	IDAli2020Tabulated = "model_ali2020_tabulated"
	IDKovalenko2016    = "model_kovalenko2016"
	IDKlineSmith2007   = "model_klinesmith2007"
)

// Registered measurement identifiers.
const (
	IDAli2020Measurement = "exp_data_ali2020"
)

// Evaluators returns the identifier table of every built-in model.
func Evaluators() map[string]registry.Constructor[types.Evaluator] {
	return map[string]registry.Constructor[types.Evaluator]{
		IDBenarie1986:      NewBenarie1986,
		IDMa2010:           NewMa2010,
		IDFeliu1993:        NewFeliu1993,
		IDISO9223:          NewISO9223,
		IDSoares1999:       NewSoares1999,
		IDGarbatov2011:     NewGarbatov2011,
		IDHicks2012:        NewHicks2012,
		IDAli2020:          NewAli2020,
		IDAli2020Tabulated: NewAli2020Tabulated,
		IDKovalenko2016:    NewKovalenko2016,
		IDKlineSmith2007:   NewKlineSmith2007,
	}
}

// Measurements returns the identifier table of the built-in measurements
// plus a file-backed series reader for each of seriesIDs.
func Measurements(seriesIDs ...string) map[string]registry.Constructor[types.Measurement] {
	m := map[string]registry.Constructor[types.Measurement]{
		IDAli2020Measurement: NewAli2020Measurement,
	}
	for _, id := range seriesIDs {
		if _, ok := m[id]; !ok {
			m[id] = NewFileSeries
		}
	}
	return m
}
