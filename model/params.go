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
	"go.uber.org/zap"

	"github.com/tutormatch/tutormatch/base/log"
)

// ParamName is the type of hyper-parameter names.
type ParamName string

// Predefined hyper-parameter names
const (
	Lr          ParamName = "Lr"          // learning rate
	Reg         ParamName = "Reg"         // regularization strength
	NEpochs     ParamName = "NEpochs"     // number of gradient descent steps
	Alpha       ParamName = "Alpha"       // content weight of the hybrid blend
	NoiseStdDev ParamName = "NoiseStdDev" // tie-break noise of the ranker
	RandomState ParamName = "RandomState" // random state (seed)
)

// Params stores hyper-parameters for a model. It is a map between names and
// values, for example:
//
//	model.Params{
//		model.Lr:      0.1,
//		model.NEpochs: 2000,
//		model.Reg:     0.01,
//	}
type Params map[ParamName]interface{}

// Copy hyper-parameters.
func (params Params) Copy() Params {
	newParams := make(Params)
	for k, v := range params {
		newParams[k] = v
	}
	return newParams
}

// GetInt gets an integer parameter by name. Returns _default if not exists or
// type doesn't match.
func (params Params) GetInt(name ParamName, _default int) int {
	if val, exist := params[name]; exist {
		switch val := val.(type) {
		case int:
			return val
		default:
			log.Logger().Error("type mismatch in hyper-parameters",
				zap.String("name", string(name)), zap.Any("value", val))
		}
	}
	return _default
}

// GetInt64 gets an int64 parameter by name. Returns _default if not exists or
// type doesn't match. The type will be converted if given int.
func (params Params) GetInt64(name ParamName, _default int64) int64 {
	if val, exist := params[name]; exist {
		switch val := val.(type) {
		case int64:
			return val
		case int:
			return int64(val)
		default:
			log.Logger().Error("type mismatch in hyper-parameters",
				zap.String("name", string(name)), zap.Any("value", val))
		}
	}
	return _default
}

// GetFloat32 gets a float parameter by name. Returns _default if not exists
// or type doesn't match. The type will be converted if given int or float64.
func (params Params) GetFloat32(name ParamName, _default float32) float32 {
	if val, exist := params[name]; exist {
		switch val := val.(type) {
		case float32:
			return val
		case float64:
			return float32(val)
		case int:
			return float32(val)
		default:
			log.Logger().Error("type mismatch in hyper-parameters",
				zap.String("name", string(name)), zap.Any("value", val))
		}
	}
	return _default
}

// Overwrite merges another set of hyper-parameters on top of this one.
func (params Params) Overwrite(other Params) Params {
	merged := params.Copy()
	for k, v := range other {
		merged[k] = v
	}
	return merged
}
