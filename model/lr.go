// Copyright 2024 tutormatch Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"io"

	"github.com/juju/errors"

	"github.com/tutormatch/tutormatch/base/encoding"
	"github.com/tutormatch/tutormatch/common/floats"
)

// LogisticRegression is the content model: a linear probability model over
// pairwise features, trained from scratch by full-batch gradient descent.
// There is no convergence check, it always runs NEpochs steps.
type LogisticRegression struct {
	Params  Params
	Weights []float32
	Bias    float32

	lr      float32
	reg     float32
	nEpochs int
}

// NewLogisticRegression creates a logistic regression model.
func NewLogisticRegression(params Params) *LogisticRegression {
	m := new(LogisticRegression)
	m.SetParams(params)
	return m
}

// SetParams sets hyper-parameters.
func (m *LogisticRegression) SetParams(params Params) {
	m.Params = params
	m.lr = params.GetFloat32(Lr, 0.1)
	m.reg = params.GetFloat32(Reg, 0.01)
	m.nEpochs = params.GetInt(NEpochs, 2000)
}

// GetParams returns hyper-parameters.
func (m *LogisticRegression) GetParams() Params {
	return m.Params
}

// Fit trains the model on a feature matrix and binary labels. Weights start
// at zero, the L2 penalty applies to weights but not the bias. The previous
// weights are replaced wholesale.
func (m *LogisticRegression) Fit(x [][]float32, y []float32) error {
	if len(x) != len(y) {
		return errors.BadRequestf("feature matrix has %d rows but %d labels", len(x), len(y))
	}
	if len(x) == 0 {
		return errors.BadRequestf("empty training set")
	}
	dim := len(x[0])
	for i := range x {
		if len(x[i]) != dim {
			return errors.BadRequestf("row %d has %d features, expected %d", i, len(x[i]), dim)
		}
	}

	weights := make([]float32, dim)
	bias := float32(0)
	gradient := make([]float32, dim)
	n := float32(len(x))
	for epoch := 0; epoch < m.nEpochs; epoch++ {
		floats.Zero(gradient)
		biasGradient := float32(0)
		for i := range x {
			prediction := floats.Sigmoid(floats.Dot(x[i], weights) + bias)
			residual := prediction - y[i]
			floats.MulConstAdd(x[i], residual, gradient)
			biasGradient += residual
		}
		for j := range weights {
			weights[j] -= m.lr * (gradient[j]/n + m.reg*weights[j])
		}
		bias -= m.lr * biasGradient / n
	}
	m.Weights = weights
	m.Bias = bias
	return nil
}

// PredictProba returns the match probability for every row of x.
func (m *LogisticRegression) PredictProba(x [][]float32) []float32 {
	probabilities := make([]float32, len(x))
	for i := range x {
		probabilities[i] = floats.Sigmoid(floats.Dot(x[i], m.Weights) + m.Bias)
	}
	return probabilities
}

// Predict thresholds the probabilities into binary labels.
func (m *LogisticRegression) Predict(x [][]float32, threshold float32) []float32 {
	labels := m.PredictProba(x)
	for i := range labels {
		if labels[i] > threshold {
			labels[i] = 1
		} else {
			labels[i] = 0
		}
	}
	return labels
}

// Marshal model into byte stream.
func (m *LogisticRegression) Marshal(w io.Writer) error {
	if err := encoding.WriteVector(w, m.Weights); err != nil {
		return errors.Trace(err)
	}
	return encoding.WriteValue(w, m.Bias)
}

// Unmarshal model from byte stream.
func (m *LogisticRegression) Unmarshal(r io.Reader) error {
	weights, err := encoding.ReadVector(r)
	if err != nil {
		return errors.Trace(err)
	}
	m.Weights = weights
	return encoding.ReadValue(r, &m.Bias)
}
