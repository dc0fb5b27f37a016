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

package config

import (
	"github.com/juju/errors"
	"github.com/spf13/viper"

	"github.com/tutormatch/tutormatch/model"
)

// Config is the configuration for the engine.
type Config struct {
	Data   DataConfig   `mapstructure:"data"`
	Hybrid HybridConfig `mapstructure:"hybrid"`
	Server ServerConfig `mapstructure:"server"`
}

// DataConfig configures synthetic data generation and the dataset utilities.
type DataConfig struct {
	NumStudents int     `mapstructure:"num_students"`
	NumTutors   int     `mapstructure:"num_tutors"`
	TestHoldout int     `mapstructure:"test_holdout"`
	NegRatio    float64 `mapstructure:"neg_ratio"`
}

func (c *DataConfig) LoadDefaultIfNil() *DataConfig {
	if c == nil {
		return &DataConfig{
			NumStudents: 300,
			NumTutors:   180,
			TestHoldout: 1,
			NegRatio:    1.0,
		}
	}
	return c
}

// HybridConfig configures the content model and the hybrid blend.
type HybridConfig struct {
	Alpha       float64 `mapstructure:"alpha"`
	NoiseStdDev float64 `mapstructure:"noise_std_dev"`
	Lr          float64 `mapstructure:"lr"`
	Reg         float64 `mapstructure:"reg"`
	NEpochs     int     `mapstructure:"n_epochs"`
	RandomState int64   `mapstructure:"random_state"`
}

func (c *HybridConfig) LoadDefaultIfNil() *HybridConfig {
	if c == nil {
		return &HybridConfig{
			Alpha:       0.70,
			NoiseStdDev: 0.05,
			Lr:          0.1,
			Reg:         0.01,
			NEpochs:     2000,
			RandomState: 0,
		}
	}
	return c
}

// Params converts the hybrid section into model hyper-parameters.
func (c *HybridConfig) Params() model.Params {
	return model.Params{
		model.Alpha:       c.Alpha,
		model.NoiseStdDev: c.NoiseStdDev,
		model.Lr:          c.Lr,
		model.Reg:         c.Reg,
		model.NEpochs:     c.NEpochs,
		model.RandomState: c.RandomState,
	}
}

// ServerConfig configures the REST node.
type ServerConfig struct {
	HttpHost  string `mapstructure:"http_host"`
	HttpPort  int    `mapstructure:"http_port"`
	ModelPath string `mapstructure:"model_path"`
	DefaultN  int    `mapstructure:"default_n"`
}

func (c *ServerConfig) LoadDefaultIfNil() *ServerConfig {
	if c == nil {
		return &ServerConfig{
			HttpHost:  "127.0.0.1",
			HttpPort:  8088,
			ModelPath: "tutormatch.model",
			DefaultN:  5,
		}
	}
	return c
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Data:   *(*DataConfig)(nil).LoadDefaultIfNil(),
		Hybrid: *(*HybridConfig)(nil).LoadDefaultIfNil(),
		Server: *(*ServerConfig)(nil).LoadDefaultIfNil(),
	}
}

// LoadConfig loads a TOML configuration file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	config := GetDefaultConfig()
	viper.SetConfigType("toml")
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	if err := viper.Unmarshal(config); err != nil {
		return nil, errors.Trace(err)
	}
	return config, nil
}
