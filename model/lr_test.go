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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogisticRegressionFitErrors(t *testing.T) {
	m := NewLogisticRegression(nil)
	assert.Error(t, m.Fit([][]float32{{1, 0}}, []float32{1, 0}))
	assert.Error(t, m.Fit(nil, nil))
	assert.Error(t, m.Fit([][]float32{{1, 0}, {1}}, []float32{1, 0}))
}

func TestLogisticRegressionSeparable(t *testing.T) {
	// the first feature perfectly separates the classes
	x := [][]float32{
		{1, 0.2}, {1, 0.8}, {1, 0.5}, {1, 0.1},
		{0, 0.3}, {0, 0.9}, {0, 0.4}, {0, 0.6},
	}
	y := []float32{1, 1, 1, 1, 0, 0, 0, 0}
	m := NewLogisticRegression(Params{NEpochs: 500})
	assert.NoError(t, m.Fit(x, y))
	assert.Greater(t, m.Weights[0], float32(0))

	probabilities := m.PredictProba(x)
	for i := 0; i < 4; i++ {
		assert.Greater(t, probabilities[i], probabilities[i+4])
	}
	labels := m.Predict(x, 0.5)
	assert.Equal(t, y, labels)
}

func TestLogisticRegressionDefaults(t *testing.T) {
	m := NewLogisticRegression(nil)
	assert.Equal(t, float32(0.1), m.lr)
	assert.Equal(t, float32(0.01), m.reg)
	assert.Equal(t, 2000, m.nEpochs)
}

func TestLogisticRegressionMarshal(t *testing.T) {
	m := NewLogisticRegression(Params{NEpochs: 10})
	assert.NoError(t, m.Fit([][]float32{{1, 0}, {0, 1}}, []float32{1, 0}))
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, m.Marshal(buf))
	decoded := NewLogisticRegression(nil)
	assert.NoError(t, decoded.Unmarshal(buf))
	assert.Equal(t, m.Weights, decoded.Weights)
	assert.Equal(t, m.Bias, decoded.Bias)
}
