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

// ClassificationScore bundles binary classification metrics.
type ClassificationScore struct {
	Accuracy  float32
	Precision float32
	Recall    float32
	F1        float32
}

// EvaluateClassification compares binary predictions against ground truth.
func EvaluateClassification(yTrue, yPred []float32) ClassificationScore {
	var tp, tn, fp, fn float32
	for i := range yTrue {
		switch {
		case yTrue[i] > 0 && yPred[i] > 0:
			tp++
		case yTrue[i] == 0 && yPred[i] == 0:
			tn++
		case yTrue[i] == 0 && yPred[i] > 0:
			fp++
		default:
			fn++
		}
	}
	score := ClassificationScore{}
	if total := tp + tn + fp + fn; total > 0 {
		score.Accuracy = (tp + tn) / total
	}
	if tp+fp > 0 {
		score.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		score.Recall = tp / (tp + fn)
	}
	if score.Precision+score.Recall > 0 {
		score.F1 = 2 * score.Precision * score.Recall / (score.Precision + score.Recall)
	}
	return score
}

// PrecisionAtK computes the fraction of the top k recommendations found in
// the relevant set.
func PrecisionAtK(recommended, relevant []string, k int) float32 {
	if k > len(recommended) {
		k = len(recommended)
	}
	if k == 0 {
		return 0
	}
	relevantSet := make(map[string]struct{}, len(relevant))
	for _, id := range relevant {
		relevantSet[id] = struct{}{}
	}
	hits := 0
	for _, id := range recommended[:k] {
		if _, ok := relevantSet[id]; ok {
			hits++
		}
	}
	return float32(hits) / float32(k)
}
