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
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tutormatch/tutormatch/base/log"
	"github.com/tutormatch/tutormatch/config"
	"github.com/tutormatch/tutormatch/dataset"
	"github.com/tutormatch/tutormatch/logics"
)

// RestServer implements a REST-ful API server over the hybrid recommender.
type RestServer struct {
	Config     *config.Config
	HttpHost   string
	HttpPort   int
	WebService *restful.WebService

	mu          sync.RWMutex
	recommender *logics.HybridRecommender
}

// Recommender returns the current fitted model, or nil before training.
func (s *RestServer) Recommender() *logics.HybridRecommender {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recommender
}

// SetRecommender swaps the fitted model wholesale.
func (s *RestServer) SetRecommender(recommender *logics.HybridRecommender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recommender = recommender
}

// StartHttpServer starts the REST-ful API server.
func (s *RestServer) StartHttpServer() {
	// register restful APIs
	s.CreateWebService()
	restful.DefaultContainer.Add(s.WebService)
	// register swagger UI
	specConfig := restfulspec.Config{
		WebServices: restful.RegisteredWebServices(),
		APIPath:     "/apidocs.json",
	}
	restful.DefaultContainer.Add(restfulspec.NewOpenAPIService(specConfig))
	// register prometheus
	http.Handle("/metrics", promhttp.Handler())

	log.Logger().Info("start http server",
		zap.String("url", fmt.Sprintf("http://%s:%d", s.HttpHost, s.HttpPort)))
	log.Logger().Fatal("failed to start http server",
		zap.Error(http.ListenAndServe(fmt.Sprintf("%s:%d", s.HttpHost, s.HttpPort), nil)))
}

func RequestIDFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	resp.Header().Set("X-Request-ID", uuid.NewString())
	chain.ProcessFilter(req, resp)
}

func LogFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	chain.ProcessFilter(req, resp)
	log.ResponseLogger(resp).Info(fmt.Sprintf("%s %s", req.Request.Method, req.Request.URL),
		zap.Int("status_code", resp.StatusCode()))
}

// Health is the health check response.
type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// TrainSummary reports the outcome of a training run.
type TrainSummary struct {
	NumStudents     int     `json:"num_students"`
	NumTutors       int     `json:"num_tutors"`
	NumInteractions int     `json:"num_interactions"`
	Accuracy        float32 `json:"accuracy"`
	Precision       float32 `json:"precision"`
	Recall          float32 `json:"recall"`
	F1              float32 `json:"f1"`
	PrecisionAt5    float32 `json:"precision_at_5"`
}

// StudentView is the JSON form of a student profile.
type StudentView struct {
	StudentId     string  `json:"student_id"`
	Name          string  `json:"name"`
	Subject       string  `json:"subject"`
	Level         string  `json:"level"`
	City          string  `json:"city"`
	LearningStyle string  `json:"learning_style"`
	Availability  uint64  `json:"availability"`
	MaxBudget     float32 `json:"max_budget"`
	ProfileText   string  `json:"profile_text"`
}

// TutorView is the JSON form of a tutor profile.
type TutorView struct {
	TutorId       string  `json:"tutor_id"`
	Name          string  `json:"name"`
	Subject       string  `json:"subject"`
	Level         string  `json:"level"`
	City          string  `json:"city"`
	TeachingStyle string  `json:"teaching_style"`
	Availability  uint64  `json:"availability"`
	HourlyRate    float32 `json:"hourly_rate"`
	ProfileText   string  `json:"profile_text"`
}

// Matches flags which profile attributes of a recommended tutor line up with
// the student.
type Matches struct {
	Subject bool `json:"subject"`
	Level   bool `json:"level"`
	City    bool `json:"city"`
	Style   bool `json:"style"`
	Time    bool `json:"time"`
	Budget  bool `json:"budget"`
}

// RecommendedTutor is one entry of a recommendation response.
type RecommendedTutor struct {
	TutorId    string    `json:"tutor_id"`
	Score      float32   `json:"score"`
	Profile    TutorView `json:"profile"`
	Matches    Matches   `json:"matches"`
	MatchCount int       `json:"match_count"`
}

// RecommendResponse is the response of the recommend endpoint.
type RecommendResponse struct {
	StudentId       string             `json:"student_id"`
	Student         StudentView        `json:"student"`
	Recommendations []RecommendedTutor `json:"recommendations"`
	Count           int                `json:"count"`
}

// Metadata lists the fixed domains of the categorical profile attributes.
type Metadata struct {
	Subjects       []string `json:"subjects"`
	Levels         []string `json:"levels"`
	Cities         []string `json:"cities"`
	LearningStyles []string `json:"learning_styles"`
	TeachingStyles []string `json:"teaching_styles"`
}

// CreateWebService creates web service.
func (s *RestServer) CreateWebService() {
	ws := s.WebService
	ws.Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	ws.Path("/api/")
	ws.Filter(RequestIDFilter)
	ws.Filter(LogFilter)

	ws.Route(ws.GET("/health").To(s.getHealth).
		Doc("Check the health of the server.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
		Writes(Health{}))
	ws.Route(ws.POST("/train").To(s.train).
		Doc("Retrain the hybrid model on freshly synthesized data.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"train"}).
		Writes(TrainSummary{}))
	ws.Route(ws.GET("/recommend/{student-id}").To(s.getRecommend).
		Doc("Get tutor recommendations for a student.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommend"}).
		Param(ws.PathParameter("student-id", "identifier of the student").DataType("string")).
		Param(ws.QueryParameter("n", "number of returned tutors").DataType("int")).
		Writes(RecommendResponse{}))
	ws.Route(ws.GET("/student/{student-id}").To(s.getStudent).
		Doc("Get a student profile.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"student"}).
		Param(ws.PathParameter("student-id", "identifier of the student").DataType("string")).
		Writes(StudentView{}))
	ws.Route(ws.GET("/students").To(s.getStudents).
		Doc("Get all student profiles.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"student"}).
		Writes([]StudentView{}))
	ws.Route(ws.GET("/tutor/{tutor-id}").To(s.getTutor).
		Doc("Get a tutor profile.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"tutor"}).
		Param(ws.PathParameter("tutor-id", "identifier of the tutor").DataType("string")).
		Writes(TutorView{}))
	ws.Route(ws.GET("/tutors").To(s.getTutors).
		Doc("Get all tutor profiles.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"tutor"}).
		Writes([]TutorView{}))
	ws.Route(ws.GET("/metadata").To(s.getMetadata).
		Doc("Get the fixed domains of the profile attributes.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"metadata"}).
		Writes(Metadata{}))
}

func (s *RestServer) getHealth(_ *restful.Request, response *restful.Response) {
	Ok(response, Health{Status: "healthy", ModelLoaded: s.Recommender() != nil})
}

func (s *RestServer) train(_ *restful.Request, response *restful.Response) {
	start := time.Now()
	result, err := logics.Train(s.Config, false)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	s.SetRecommender(result.Recommender)
	cache := &LocalCache{path: s.Config.Server.ModelPath, Recommender: result.Recommender}
	if err = cache.WriteLocalCache(); err != nil {
		log.Logger().Error("failed to write local cache", zap.Error(err))
	}
	TrainSeconds.Observe(time.Since(start).Seconds())
	Ok(response, TrainSummary{
		NumStudents:     result.NumStudents,
		NumTutors:       result.NumTutors,
		NumInteractions: result.NumInteractions,
		Accuracy:        result.Classification.Accuracy,
		Precision:       result.Classification.Precision,
		Recall:          result.Classification.Recall,
		F1:              result.Classification.F1,
		PrecisionAt5:    result.PrecisionAt5,
	})
}

func (s *RestServer) getRecommend(request *restful.Request, response *restful.Response) {
	start := time.Now()
	recommender := s.Recommender()
	if recommender == nil {
		ServiceUnavailable(response, errors.New("model not loaded"))
		return
	}
	studentId := request.PathParameter("student-id")
	n, err := ParseInt(request, "n", s.Config.Server.DefaultN)
	if err != nil {
		BadRequest(response, err)
		return
	}
	recommendations, err := recommender.Recommend(studentId, n)
	if err != nil {
		if errors.IsNotFound(err) {
			RecommendNotFoundTotal.Inc()
			PageNotFound(response, err)
		} else {
			InternalServerError(response, err)
		}
		return
	}
	student, err := recommender.GetStudentProfile(studentId)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	results := make([]RecommendedTutor, 0, len(recommendations))
	for _, recommendation := range recommendations {
		tutor, err := recommender.GetTutorProfile(recommendation.TutorId)
		if err != nil {
			InternalServerError(response, err)
			return
		}
		matches := Matches{
			Subject: student.Subject == tutor.Subject,
			Level:   student.Level == tutor.Level,
			City:    student.City == tutor.City,
			Style:   student.LearningStyle == tutor.TeachingStyle,
			Time:    student.Availability.IntersectionCardinality(tutor.Availability) > 0,
			Budget:  student.MaxBudget >= tutor.HourlyRate,
		}
		results = append(results, RecommendedTutor{
			TutorId:    recommendation.TutorId,
			Score:      recommendation.Score,
			Profile:    tutorView(tutor),
			Matches:    matches,
			MatchCount: countMatches(matches),
		})
	}
	GetRecommendSeconds.Observe(time.Since(start).Seconds())
	Ok(response, RecommendResponse{
		StudentId:       studentId,
		Student:         studentView(student),
		Recommendations: results,
		Count:           len(results),
	})
}

func (s *RestServer) getStudent(request *restful.Request, response *restful.Response) {
	recommender := s.Recommender()
	if recommender == nil {
		ServiceUnavailable(response, errors.New("model not loaded"))
		return
	}
	student, err := recommender.GetStudentProfile(request.PathParameter("student-id"))
	if err != nil {
		if errors.IsNotFound(err) {
			PageNotFound(response, err)
		} else {
			InternalServerError(response, err)
		}
		return
	}
	Ok(response, studentView(student))
}

func (s *RestServer) getStudents(_ *restful.Request, response *restful.Response) {
	recommender := s.Recommender()
	if recommender == nil {
		ServiceUnavailable(response, errors.New("model not loaded"))
		return
	}
	students := recommender.Students()
	views := make([]StudentView, 0, len(students))
	for i := range students {
		views = append(views, studentView(&students[i]))
	}
	Ok(response, views)
}

func (s *RestServer) getTutor(request *restful.Request, response *restful.Response) {
	recommender := s.Recommender()
	if recommender == nil {
		ServiceUnavailable(response, errors.New("model not loaded"))
		return
	}
	tutor, err := recommender.GetTutorProfile(request.PathParameter("tutor-id"))
	if err != nil {
		if errors.IsNotFound(err) {
			PageNotFound(response, err)
		} else {
			InternalServerError(response, err)
		}
		return
	}
	Ok(response, tutorView(tutor))
}

func (s *RestServer) getTutors(_ *restful.Request, response *restful.Response) {
	recommender := s.Recommender()
	if recommender == nil {
		ServiceUnavailable(response, errors.New("model not loaded"))
		return
	}
	tutors := recommender.Tutors()
	views := make([]TutorView, 0, len(tutors))
	for i := range tutors {
		views = append(views, tutorView(&tutors[i]))
	}
	Ok(response, views)
}

func (s *RestServer) getMetadata(_ *restful.Request, response *restful.Response) {
	Ok(response, Metadata{
		Subjects:       dataset.Subjects,
		Levels:         dataset.Levels,
		Cities:         dataset.Cities,
		LearningStyles: dataset.LearningStyles,
		TeachingStyles: dataset.TeachingStyles,
	})
}

func studentView(student *dataset.Student) StudentView {
	return StudentView{
		StudentId:     student.StudentId,
		Name:          student.Name,
		Subject:       student.Subject,
		Level:         student.Level,
		City:          student.City,
		LearningStyle: student.LearningStyle,
		Availability:  dataset.MaskValue(student.Availability),
		MaxBudget:     student.MaxBudget,
		ProfileText:   student.ProfileText,
	}
}

func tutorView(tutor *dataset.Tutor) TutorView {
	return TutorView{
		TutorId:       tutor.TutorId,
		Name:          tutor.Name,
		Subject:       tutor.Subject,
		Level:         tutor.Level,
		City:          tutor.City,
		TeachingStyle: tutor.TeachingStyle,
		Availability:  dataset.MaskValue(tutor.Availability),
		HourlyRate:    tutor.HourlyRate,
		ProfileText:   tutor.ProfileText,
	}
}

func countMatches(matches Matches) (count int) {
	for _, match := range []bool{matches.Subject, matches.Level, matches.City,
		matches.Style, matches.Time, matches.Budget} {
		if match {
			count++
		}
	}
	return
}

// ParseInt parses an integer query parameter with a default value.
func ParseInt(request *restful.Request, name string, fallback int) (int, error) {
	value := request.QueryParameter(name)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

// BadRequest returns a bad request error.
func BadRequest(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.ResponseLogger(response).Error("bad request", zap.Error(err))
	if err = response.WriteError(http.StatusBadRequest, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

// InternalServerError returns an internal server error.
func InternalServerError(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.ResponseLogger(response).Error("internal server error", zap.Error(err))
	if err = response.WriteError(http.StatusInternalServerError, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

// PageNotFound returns a not found error.
func PageNotFound(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteError(http.StatusNotFound, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

// ServiceUnavailable signals that no model has been trained or loaded yet.
func ServiceUnavailable(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteError(http.StatusServiceUnavailable, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

// Ok sends the content as JSON to the client.
func Ok(response *restful.Response, content interface{}) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteAsJson(content); err != nil {
		log.Logger().Error("failed to write json", zap.Error(err))
	}
}
