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
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/tutormatch/tutormatch/base"
	"github.com/tutormatch/tutormatch/base/log"
	"github.com/tutormatch/tutormatch/config"
	"github.com/tutormatch/tutormatch/dataset"
	"github.com/tutormatch/tutormatch/model"
)

// TrainResult bundles a fitted recommender with the evaluation of one
// training run.
type TrainResult struct {
	Recommender     *HybridRecommender
	NumStudents     int
	NumTutors       int
	NumInteractions int
	Classification  model.ClassificationScore
	PrecisionAt5    float32
}

// Train runs the whole pipeline: generate synthetic profiles, synthesize
// implicit feedback, split, sample the supervised dataset, fit the hybrid
// model and evaluate it on the held-out interactions. With verbose a
// progress bar tracks the stages.
func Train(cfg *config.Config, verbose bool) (*TrainResult, error) {
	var bar *progressbar.ProgressBar
	if verbose {
		bar = progressbar.NewOptions(5, progressbar.OptionSetDescription("training"))
	}
	step := func(description string) {
		if bar != nil {
			bar.Describe(description)
			_ = bar.Add(1)
		}
	}

	rng := base.NewRandomGenerator(cfg.Hybrid.RandomState)
	generator := dataset.NewGenerator(rng)
	step("generate profiles")
	students := generator.Students(cfg.Data.NumStudents)
	tutors := generator.Tutors(cfg.Data.NumTutors)

	step("synthesize feedback")
	interactions := dataset.SynthesizeInteractions(students, tutors, rng)
	trainInteractions, testInteractions := dataset.SplitInteractions(interactions, cfg.Data.TestHoldout, rng)

	studentDict := dataset.NewDict()
	for i := range students {
		studentDict.Add(students[i].StudentId)
	}
	tutorDict := dataset.NewDict()
	for i := range tutors {
		tutorDict.Add(tutors[i].TutorId)
	}

	step("sample dataset")
	trainSet, err := dataset.SampleLRDataset(students, tutors, trainInteractions,
		studentDict, tutorDict, cfg.Data.NegRatio, rng)
	if err != nil {
		return nil, errors.Trace(err)
	}

	step("fit model")
	recommender := NewHybridRecommender(cfg.Hybrid.Params())
	if err = recommender.Fit(students, tutors, trainSet.X, trainSet.Y, trainInteractions); err != nil {
		return nil, errors.Trace(err)
	}

	step("evaluate")
	result := &TrainResult{
		Recommender:     recommender,
		NumStudents:     len(students),
		NumTutors:       len(tutors),
		NumInteractions: len(interactions),
	}
	if len(testInteractions) > 0 {
		testSet, err := dataset.SampleLRDataset(students, tutors, testInteractions,
			studentDict, tutorDict, cfg.Data.NegRatio, rng)
		if err != nil {
			return nil, errors.Trace(err)
		}
		result.Classification = model.EvaluateClassification(testSet.Y,
			recommender.Content().Predict(testSet.X, 0.5))
		result.PrecisionAt5, err = evaluateRanking(recommender, testInteractions, 5)
		if err != nil {
			return nil, errors.Trace(err)
		}
	}
	log.Logger().Info("training complete",
		zap.Int("num_students", result.NumStudents),
		zap.Int("num_tutors", result.NumTutors),
		zap.Int("num_interactions", result.NumInteractions),
		zap.Float32("accuracy", result.Classification.Accuracy),
		zap.Float32("precision", result.Classification.Precision),
		zap.Float32("recall", result.Classification.Recall),
		zap.Float32("f1", result.Classification.F1),
		zap.Float32("precision_at_5", result.PrecisionAt5))
	return result, nil
}

// evaluateRanking computes the mean precision at k over students with
// held-out interactions.
func evaluateRanking(recommender *HybridRecommender, testInteractions []dataset.Interaction, k int) (float32, error) {
	relevant := make(map[string][]string)
	order := make([]string, 0)
	for _, interaction := range testInteractions {
		if _, ok := relevant[interaction.StudentId]; !ok {
			order = append(order, interaction.StudentId)
		}
		relevant[interaction.StudentId] = append(relevant[interaction.StudentId], interaction.TutorId)
	}
	if len(order) == 0 {
		return 0, nil
	}
	var sum float32
	for _, studentId := range order {
		recommendations, err := recommender.Recommend(studentId, k)
		if err != nil {
			return 0, errors.Trace(err)
		}
		recommended := make([]string, 0, len(recommendations))
		for _, recommendation := range recommendations {
			recommended = append(recommended, recommendation.TutorId)
		}
		sum += model.PrecisionAtK(recommended, relevant[studentId], k)
	}
	return sum / float32(len(order)), nil
}
