package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// evalRecord is one row of optimize_log.csv.
type evalRecord struct {
	Eval              int     `csv:"eval"`
	Fitness           float64 `csv:"fitness"`
	Quality           float64 `csv:"quality"`
	Probability       float64 `csv:"mutation_probability"`
	DeactivateNeuron  float64 `csv:"w_deactivate_neuron"`
	AddNeuron         float64 `csv:"w_add_neuron"`
	MutateBias        float64 `csv:"w_mutate_bias"`
	MutateActivation  float64 `csv:"w_mutate_activation"`
	MutateWeight      float64 `csv:"w_mutate_weight"`
	DeactivateSynapse float64 `csv:"w_deactivate_synapse"`
	AddSynapse        float64 `csv:"w_add_synapse"`
}

// newEvalRecord builds a row from a clamped parameter vector laid out as
// NewParamVector orders it.
func newEvalRecord(eval int, fitness, quality float64, x []float64) evalRecord {
	return evalRecord{
		Eval:              eval,
		Fitness:           fitness,
		Quality:           quality,
		Probability:       x[0],
		DeactivateNeuron:  x[1],
		AddNeuron:         x[2],
		MutateBias:        x[3],
		MutateActivation:  x[4],
		MutateWeight:      x[5],
		DeactivateSynapse: x[6],
		AddSynapse:        x[7],
	}
}

// evalLog appends evaluation rows to a CSV file, writing the header once.
type evalLog struct {
	f             *os.File
	headerWritten bool
}

func newEvalLog(path string) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &evalLog{f: f}, nil
}

func (l *evalLog) Write(r evalRecord) error {
	rows := []evalRecord{r}
	if !l.headerWritten {
		if err := gocsv.Marshal(rows, l.f); err != nil {
			return err
		}
		l.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, l.f)
}

func (l *evalLog) Close() error {
	return l.f.Close()
}
