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

// Package server exposes the hybrid recommender over a REST-ful API.
package server

import (
	"os"

	"github.com/emicklei/go-restful/v3"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/tutormatch/tutormatch/base/log"
	"github.com/tutormatch/tutormatch/config"
	"github.com/tutormatch/tutormatch/logics"
)

// Server trains or restores the model, then serves it over HTTP.
type Server struct {
	RestServer
	cachePath string
}

// NewServer creates a server.
func NewServer(cfg *config.Config) *Server {
	return &Server{
		RestServer: RestServer{
			Config:     cfg,
			HttpHost:   cfg.Server.HttpHost,
			HttpPort:   cfg.Server.HttpPort,
			WebService: new(restful.WebService),
		},
		cachePath: cfg.Server.ModelPath,
	}
}

// Serve restores the model snapshot from the local cache, retrains when the
// cache is missing or corrupt, and starts the HTTP server. Blocks forever.
func (s *Server) Serve() {
	cache, err := LoadLocalCache(s.cachePath, s.Config.Hybrid.Params())
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			log.Logger().Info("no local cache found", zap.String("path", s.cachePath))
		} else {
			log.Logger().Warn("failed to load local cache, retraining",
				zap.String("path", s.cachePath), zap.Error(err))
		}
		result, err := logics.Train(s.Config, true)
		if err != nil {
			log.Logger().Fatal("failed to train model", zap.Error(err))
		}
		cache.Recommender = result.Recommender
		if err = cache.WriteLocalCache(); err != nil {
			log.Logger().Error("failed to write local cache", zap.Error(err))
		} else {
			log.Logger().Info("write model to local cache", zap.String("path", s.cachePath))
		}
	} else {
		log.Logger().Info("load model from local cache", zap.String("path", s.cachePath))
	}
	s.SetRecommender(cache.Recommender)
	s.StartHttpServer()
}
