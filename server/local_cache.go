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

package server

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"

	"github.com/tutormatch/tutormatch/logics"
	"github.com/tutormatch/tutormatch/model"
)

// LocalCache is the on-disk snapshot of the fitted model. The blob is
// all-or-nothing: any decode error discards it and the caller retrains.
type LocalCache struct {
	path        string
	Recommender *logics.HybridRecommender
}

// LoadLocalCache loads the model snapshot from a file.
func LoadLocalCache(path string, params model.Params) (*LocalCache, error) {
	cache := &LocalCache{path: path}
	// check if file exists
	if _, err := os.Stat(path); err != nil {
		return cache, errors.Trace(err)
	}
	// open file
	f, err := os.Open(path)
	if err != nil {
		return cache, errors.Trace(err)
	}
	defer f.Close()
	recommender := logics.NewHybridRecommender(params)
	if err = recommender.Unmarshal(f); err != nil {
		return cache, errors.Trace(err)
	}
	cache.Recommender = recommender
	return cache, nil
}

// WriteLocalCache writes the model snapshot to a file.
func (c *LocalCache) WriteLocalCache() error {
	// create parent folder if not exists
	parent := filepath.Dir(c.path)
	if _, err := os.Stat(parent); os.IsNotExist(err) {
		if err = os.MkdirAll(parent, os.ModePerm); err != nil {
			return errors.Trace(err)
		}
	}
	// create file
	f, err := os.Create(c.path)
	if err != nil {
		return errors.Trace(err)
	}
	defer f.Close()
	return errors.Trace(c.Recommender.Marshal(f))
}
