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

// Package logics combines the content and collaborative models into the
// hybrid tutor ranking.
package logics

import (
	"io"
	"sort"

	"github.com/chewxy/math32"
	"github.com/juju/errors"

	"github.com/tutormatch/tutormatch/base"
	"github.com/tutormatch/tutormatch/base/encoding"
	"github.com/tutormatch/tutormatch/dataset"
	"github.com/tutormatch/tutormatch/model"
)

// degenerateScore replaces a normalized vector whose range collapsed, so a
// constant score vector still blends instead of dividing by zero.
const degenerateScore = 0.1

// Recommendation is one ranked tutor.
type Recommendation struct {
	TutorId string  `json:"tutor_id"`
	Score   float32 `json:"score"`
}

// HybridRecommender blends content probabilities with collaborative scores.
// Fit replaces the whole state atomically, callers never observe a partially
// fitted model.
type HybridRecommender struct {
	params      model.Params
	alpha       float32
	noiseStdDev float32
	rng         base.RandomGenerator

	content       *model.LogisticRegression
	collaborative *model.ItemKNN
	students      []dataset.Student
	tutors        []dataset.Tutor
	studentDict   *dataset.Dict
	tutorDict     *dataset.Dict
}

// NewHybridRecommender creates a hybrid recommender. The tie-break generator
// uses a locked source because Recommend is called from concurrent handler
// goroutines.
func NewHybridRecommender(params model.Params) *HybridRecommender {
	return &HybridRecommender{
		params:        params,
		alpha:         params.GetFloat32(model.Alpha, 0.70),
		noiseStdDev:   params.GetFloat32(model.NoiseStdDev, 0.05),
		rng:           base.NewLockedRandomGenerator(params.GetInt64(model.RandomState, 0)),
		content:       model.NewLogisticRegression(params),
		collaborative: model.NewItemKNN(),
	}
}

// Fit trains both sub-models. The id dicts are rebuilt from the profile lists
// and owned by the fitted model, read-only afterwards. On any error the
// previous state stays untouched.
func (h *HybridRecommender) Fit(students []dataset.Student, tutors []dataset.Tutor,
	x [][]float32, y []float32, interactionsTrain []dataset.Interaction) error {
	studentDict := dataset.NewDict()
	for i := range students {
		studentDict.Add(students[i].StudentId)
	}
	tutorDict := dataset.NewDict()
	for i := range tutors {
		tutorDict.Add(tutors[i].TutorId)
	}

	content := model.NewLogisticRegression(h.params)
	if err := content.Fit(x, y); err != nil {
		return errors.Trace(err)
	}
	collaborative := model.NewItemKNN()
	if err := collaborative.Fit(interactionsTrain, studentDict, tutorDict); err != nil {
		return errors.Trace(err)
	}

	h.students = students
	h.tutors = tutors
	h.studentDict = studentDict
	h.tutorDict = tutorDict
	h.content = content
	h.collaborative = collaborative
	return nil
}

// Fitted reports whether the model has been trained or loaded.
func (h *HybridRecommender) Fitted() bool {
	return h.studentDict != nil
}

// ContentScores returns the content model probability for every tutor.
func (h *HybridRecommender) ContentScores(studentIndex int) []float32 {
	x := make([][]float32, len(h.tutors))
	for ti := range h.tutors {
		x[ti] = dataset.PairFeatures(&h.students[studentIndex], &h.tutors[ti])
	}
	return h.content.PredictProba(x)
}

// CollaborativeScores returns the collaborative score for every tutor.
func (h *HybridRecommender) CollaborativeScores(studentIndex int) []float32 {
	return h.collaborative.ScoresForStudent(studentIndex)
}

// Seen reports whether the student interacted with the tutor during training.
func (h *HybridRecommender) Seen(studentIndex, tutorIndex int) bool {
	return h.collaborative.Seen(studentIndex, tutorIndex)
}

// Recommend returns the topN tutors for a student, ranked by the blended
// score. Tutors seen during training never surface. Small Gaussian noise
// breaks ties between near-equal candidates, reproducible by seed.
func (h *HybridRecommender) Recommend(studentId string, topN int) ([]Recommendation, error) {
	if !h.Fitted() {
		return nil, errors.New("model is not fitted")
	}
	studentIndex := h.studentDict.ToIndex(studentId)
	if studentIndex == dataset.NotId {
		return nil, errors.NotFoundf("student %q", studentId)
	}

	contentScores := normalize(h.ContentScores(studentIndex))
	collaborativeScores := normalize(h.CollaborativeScores(studentIndex))
	combined := make([]float32, len(h.tutors))
	for i := range combined {
		combined[i] = h.alpha*contentScores[i] + (1-h.alpha)*collaborativeScores[i] +
			h.rng.NormalFloat32(0, h.noiseStdDev)
		if h.collaborative.Seen(studentIndex, i) {
			combined[i] = math32.Inf(-1)
		}
	}

	order := make([]int, len(combined))
	for i := range order {
		order[i] = i
	}
	// stable sort: ties keep ascending tutor index
	sort.SliceStable(order, func(i, j int) bool {
		return combined[order[i]] > combined[order[j]]
	})
	recommendations := make([]Recommendation, 0, topN)
	for _, ti := range order {
		if len(recommendations) >= topN || math32.IsInf(combined[ti], -1) {
			break
		}
		tutorId, _ := h.tutorDict.ToId(ti)
		recommendations = append(recommendations, Recommendation{TutorId: tutorId, Score: combined[ti]})
	}
	return recommendations, nil
}

// GetStudentProfile returns the profile of a student.
func (h *HybridRecommender) GetStudentProfile(studentId string) (*dataset.Student, error) {
	if !h.Fitted() {
		return nil, errors.New("model is not fitted")
	}
	index := h.studentDict.ToIndex(studentId)
	if index == dataset.NotId {
		return nil, errors.NotFoundf("student %q", studentId)
	}
	return &h.students[index], nil
}

// GetTutorProfile returns the profile of a tutor.
func (h *HybridRecommender) GetTutorProfile(tutorId string) (*dataset.Tutor, error) {
	if !h.Fitted() {
		return nil, errors.New("model is not fitted")
	}
	index := h.tutorDict.ToIndex(tutorId)
	if index == dataset.NotId {
		return nil, errors.NotFoundf("tutor %q", tutorId)
	}
	return &h.tutors[index], nil
}

// Content returns the content sub-model.
func (h *HybridRecommender) Content() *model.LogisticRegression {
	return h.content
}

// Students returns the profile list of the fitted model.
func (h *HybridRecommender) Students() []dataset.Student {
	return h.students
}

// Tutors returns the profile list of the fitted model.
func (h *HybridRecommender) Tutors() []dataset.Tutor {
	return h.tutors
}

// normalize min-max scales a vector to [0, 1]. A degenerate range yields a
// constant low score instead of a division by zero.
func normalize(v []float32) []float32 {
	normalized := make([]float32, len(v))
	if len(v) == 0 {
		return normalized
	}
	low, high := v[0], v[0]
	for _, value := range v {
		if value < low {
			low = value
		}
		if value > high {
			high = value
		}
	}
	if high-low < 1e-12 {
		for i := range normalized {
			normalized[i] = degenerateScore
		}
		return normalized
	}
	for i := range v {
		normalized[i] = (v[i] - low) / (high - low)
	}
	return normalized
}

// Marshal writes the fitted model as one opaque blob: hyper-parameters,
// sub-models, id dicts and profile lists.
func (h *HybridRecommender) Marshal(w io.Writer) error {
	if err := encoding.WriteValue(w, h.alpha); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.WriteValue(w, h.noiseStdDev); err != nil {
		return errors.Trace(err)
	}
	if err := h.content.Marshal(w); err != nil {
		return errors.Trace(err)
	}
	if err := h.collaborative.Marshal(w); err != nil {
		return errors.Trace(err)
	}
	if err := h.studentDict.Marshal(w); err != nil {
		return errors.Trace(err)
	}
	if err := h.tutorDict.Marshal(w); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.WriteGob(w, h.students); err != nil {
		return errors.Trace(err)
	}
	return encoding.WriteGob(w, h.tutors)
}

// Unmarshal restores a fitted model from a blob. Any decode error leaves the
// receiver unusable, callers must treat the blob as all-or-nothing and
// retrain.
func (h *HybridRecommender) Unmarshal(r io.Reader) error {
	if err := encoding.ReadValue(r, &h.alpha); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.ReadValue(r, &h.noiseStdDev); err != nil {
		return errors.Trace(err)
	}
	content := model.NewLogisticRegression(h.params)
	if err := content.Unmarshal(r); err != nil {
		return errors.Trace(err)
	}
	collaborative := model.NewItemKNN()
	if err := collaborative.Unmarshal(r); err != nil {
		return errors.Trace(err)
	}
	studentDict := dataset.NewDict()
	if err := studentDict.Unmarshal(r); err != nil {
		return errors.Trace(err)
	}
	tutorDict := dataset.NewDict()
	if err := tutorDict.Unmarshal(r); err != nil {
		return errors.Trace(err)
	}
	var students []dataset.Student
	if err := encoding.ReadGob(r, &students); err != nil {
		return errors.Trace(err)
	}
	var tutors []dataset.Tutor
	if err := encoding.ReadGob(r, &tutors); err != nil {
		return errors.Trace(err)
	}
	if len(students) != studentDict.Count() || len(tutors) != tutorDict.Count() {
		return errors.New("profile lists do not match id dicts")
	}
	h.content = content
	h.collaborative = collaborative
	h.studentDict = studentDict
	h.tutorDict = tutorDict
	h.students = students
	h.tutors = tutors
	return nil
}
