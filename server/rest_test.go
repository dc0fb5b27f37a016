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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/tutormatch/tutormatch/config"
	"github.com/tutormatch/tutormatch/dataset"
)

type RestTestSuite struct {
	suite.Suite
	server    RestServer
	container *restful.Container
}

func (suite *RestTestSuite) SetupSuite() {
	cfg := config.GetDefaultConfig()
	cfg.Data.NumStudents = 20
	cfg.Data.NumTutors = 15
	cfg.Hybrid.NEpochs = 50
	suite.server = RestServer{
		Config:     cfg,
		WebService: new(restful.WebService),
	}
	suite.server.CreateWebService()
	suite.container = restful.NewContainer()
	suite.container.Add(suite.server.WebService)
}

func (suite *RestTestSuite) request(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	recorder := httptest.NewRecorder()
	suite.container.ServeHTTP(recorder, req)
	return recorder
}

func (suite *RestTestSuite) TestHealthBeforeTraining() {
	recorder := suite.request(http.MethodGet, "/api/health")
	suite.Equal(http.StatusOK, recorder.Code)
	var health Health
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &health))
	suite.Equal("healthy", health.Status)
	suite.False(health.ModelLoaded)
}

func (suite *RestTestSuite) TestNotTrained() {
	suite.Equal(http.StatusServiceUnavailable, suite.request(http.MethodGet, "/api/recommend/s0").Code)
	suite.Equal(http.StatusServiceUnavailable, suite.request(http.MethodGet, "/api/student/s0").Code)
	suite.Equal(http.StatusServiceUnavailable, suite.request(http.MethodGet, "/api/tutors").Code)
}

func (suite *RestTestSuite) TestMetadata() {
	recorder := suite.request(http.MethodGet, "/api/metadata")
	suite.Equal(http.StatusOK, recorder.Code)
	var metadata Metadata
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &metadata))
	suite.Equal(dataset.Subjects, metadata.Subjects)
	suite.Equal(dataset.Cities, metadata.Cities)
}

func (suite *RestTestSuite) TestTrainAndRecommend() {
	suite.server.Config.Server.ModelPath = suite.T().TempDir() + "/tutormatch.model"
	recorder := suite.request(http.MethodPost, "/api/train")
	suite.Equal(http.StatusOK, recorder.Code)
	var summary TrainSummary
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &summary))
	suite.Equal(20, summary.NumStudents)
	suite.Equal(15, summary.NumTutors)
	suite.Greater(summary.NumInteractions, 0)

	// health flips to loaded
	recorder = suite.request(http.MethodGet, "/api/health")
	var health Health
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &health))
	suite.True(health.ModelLoaded)

	// recommendation for a known student
	recorder = suite.request(http.MethodGet, "/api/recommend/s0?n=3")
	suite.Equal(http.StatusOK, recorder.Code)
	var response RecommendResponse
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	suite.Equal("s0", response.StudentId)
	suite.Equal(len(response.Recommendations), response.Count)
	suite.LessOrEqual(response.Count, 3)
	for _, recommended := range response.Recommendations {
		suite.NotEmpty(recommended.TutorId)
		suite.GreaterOrEqual(recommended.MatchCount, 0)
		suite.LessOrEqual(recommended.MatchCount, 6)
	}

	// unknown student and bad query parameter
	suite.Equal(http.StatusNotFound, suite.request(http.MethodGet, "/api/recommend/unknown").Code)
	suite.Equal(http.StatusBadRequest, suite.request(http.MethodGet, "/api/recommend/s0?n=abc").Code)

	// profile endpoints
	suite.Equal(http.StatusOK, suite.request(http.MethodGet, "/api/student/s0").Code)
	suite.Equal(http.StatusNotFound, suite.request(http.MethodGet, "/api/student/unknown").Code)
	suite.Equal(http.StatusOK, suite.request(http.MethodGet, "/api/tutor/t0").Code)
	suite.Equal(http.StatusNotFound, suite.request(http.MethodGet, "/api/tutor/unknown").Code)
	suite.Equal(http.StatusOK, suite.request(http.MethodGet, "/api/students").Code)
	suite.Equal(http.StatusOK, suite.request(http.MethodGet, "/api/tutors").Code)
}

func TestRestTestSuite(t *testing.T) {
	suite.Run(t, new(RestTestSuite))
}

func TestCountMatches(t *testing.T) {
	assert.Equal(t, 0, countMatches(Matches{}))
	assert.Equal(t, 2, countMatches(Matches{Subject: true, Budget: true}))
	assert.Equal(t, 6, countMatches(Matches{
		Subject: true, Level: true, City: true, Style: true, Time: true, Budget: true,
	}))
}

func TestParseInt(t *testing.T) {
	req := restful.NewRequest(httptest.NewRequest(http.MethodGet, "/api/recommend/s0?n=7", nil))
	n, err := ParseInt(req, "n", 5)
	assert.NoError(t, err)
	assert.Equal(t, 7, n)

	req = restful.NewRequest(httptest.NewRequest(http.MethodGet, "/api/recommend/s0", nil))
	n, err = ParseInt(req, "n", 5)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	req = restful.NewRequest(httptest.NewRequest(http.MethodGet, "/api/recommend/s0?n=abc", nil))
	_, err = ParseInt(req, "n", 5)
	assert.Error(t, err)
}
