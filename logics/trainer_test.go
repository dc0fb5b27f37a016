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

package logics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tutormatch/tutormatch/config"
)

func smallConfig() *config.Config {
	cfg := config.GetDefaultConfig()
	cfg.Data.NumStudents = 30
	cfg.Data.NumTutors = 20
	cfg.Hybrid.NEpochs = 100
	return cfg
}

func TestTrain(t *testing.T) {
	result, err := Train(smallConfig(), false)
	assert.NoError(t, err)
	assert.Equal(t, 30, result.NumStudents)
	assert.Equal(t, 20, result.NumTutors)
	assert.Greater(t, result.NumInteractions, 0)
	assert.True(t, result.Recommender.Fitted())
	assert.GreaterOrEqual(t, result.Classification.Accuracy, float32(0))
	assert.LessOrEqual(t, result.Classification.Accuracy, float32(1))
	assert.GreaterOrEqual(t, result.PrecisionAt5, float32(0))
	assert.LessOrEqual(t, result.PrecisionAt5, float32(1))

	recommendations, err := result.Recommender.Recommend("s0", 5)
	assert.NoError(t, err)
	assert.NotEmpty(t, recommendations)
}

func TestTrainReproducible(t *testing.T) {
	a, err := Train(smallConfig(), false)
	assert.NoError(t, err)
	b, err := Train(smallConfig(), false)
	assert.NoError(t, err)
	assert.Equal(t, a.NumInteractions, b.NumInteractions)
	assert.Equal(t, a.Classification, b.Classification)
	assert.Equal(t, a.PrecisionAt5, b.PrecisionAt5)
	assert.Equal(t, a.Recommender.Content().Weights, b.Recommender.Content().Weights)
}
