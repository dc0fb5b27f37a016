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

// Package dataset holds the student/tutor data model, synthetic profile
// generation and the supervised dataset utilities of tutormatch.
package dataset

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/jaswdr/faker"

	"github.com/tutormatch/tutormatch/base"
)

// Fixed domains of the categorical profile attributes. The metadata endpoint
// exposes these verbatim, so order matters: categorical encodings are the
// position in these slices.
var (
	Subjects       = []string{"math", "english", "science", "history", "programming", "art"}
	Levels         = []string{"primary", "middle", "high", "college"}
	Cities         = []string{"NYC", "LA", "SF", "CHI", "SEA"}
	LearningStyles = []string{"visual", "auditory", "kinesthetic", "reading"}
	TeachingStyles = LearningStyles
)

// Weekly availability is a bitmask over AM/PM slots of each day.
const (
	NumDays      = 7
	SlotsPerDay  = 2
	NumTimeSlots = NumDays * SlotsPerDay
)

var (
	budgets     = []float32{20, 30, 40, 50, 60}
	hourlyRates = []float32{25, 35, 45, 55, 65}

	// profileVocab is the closed vocabulary of profile descriptions. A small
	// shared vocabulary keeps the text-similarity feature informative.
	profileVocab = []string{
		"patient", "fun", "structured", "creative", "deep",
		"quick", "results", "flexible", "expert", "certified",
	}
)

// Student is an immutable synthetic student profile.
type Student struct {
	StudentId     string
	Name          string
	Subject       string
	Level         string
	City          string
	LearningStyle string
	Availability  *bitset.BitSet
	MaxBudget     float32
	ProfileText   string
}

// Tutor is an immutable synthetic tutor profile.
type Tutor struct {
	TutorId       string
	Name          string
	Subject       string
	Level         string
	City          string
	TeachingStyle string
	Availability  *bitset.BitSet
	HourlyRate    float32
	ProfileText   string
}

// FeedbackType is the type of an implicit interaction.
type FeedbackType string

const (
	FeedbackView    FeedbackType = "view"
	FeedbackContact FeedbackType = "contact"
	FeedbackBook    FeedbackType = "book"
)

// Interaction is one implicit feedback record. Never mutated after creation.
type Interaction struct {
	StudentId string
	TutorId   string
	Type      FeedbackType
}

// Generator produces synthetic profiles. All randomness is drawn from the
// passed generator so a fixed seed reproduces the population.
type Generator struct {
	rng   base.RandomGenerator
	faker faker.Faker
}

func NewGenerator(rng base.RandomGenerator) *Generator {
	return &Generator{
		rng:   rng,
		faker: faker.NewWithSeed(rand.NewSource(rng.Int63())),
	}
}

// Students generates n student profiles with sequential ids.
func (g *Generator) Students(n int) []Student {
	students := make([]Student, 0, n)
	for i := 0; i < n; i++ {
		students = append(students, Student{
			StudentId:     fmt.Sprintf("s%d", i),
			Name:          g.faker.Person().Name(),
			Subject:       g.choice(Subjects),
			Level:         g.choice(Levels),
			City:          g.choice(Cities),
			LearningStyle: g.choice(LearningStyles),
			Availability:  g.timeslotMask(4),
			MaxBudget:     g.choiceFloat(budgets),
			ProfileText:   g.profileText(2, 4),
		})
	}
	return students
}

// Tutors generates n tutor profiles with sequential ids.
func (g *Generator) Tutors(n int) []Tutor {
	tutors := make([]Tutor, 0, n)
	for i := 0; i < n; i++ {
		tutors = append(tutors, Tutor{
			TutorId:       fmt.Sprintf("t%d", i),
			Name:          g.faker.Person().Name(),
			Subject:       g.choice(Subjects),
			Level:         g.choice(Levels),
			City:          g.choice(Cities),
			TeachingStyle: g.choice(TeachingStyles),
			Availability:  g.timeslotMask(5),
			HourlyRate:    g.choiceFloat(hourlyRates),
			ProfileText:   g.profileText(3, 5),
		})
	}
	return tutors
}

// timeslotMask samples a Poisson distributed number of distinct weekly slots,
// at least one, and marks them in a bitmask.
func (g *Generator) timeslotMask(avgSlots float64) *bitset.BitSet {
	k := g.rng.Poisson(avgSlots)
	if k < 1 {
		k = 1
	}
	if k > NumTimeSlots {
		k = NumTimeSlots
	}
	mask := bitset.New(NumTimeSlots)
	for _, slot := range g.rng.Sample(0, NumTimeSlots, k) {
		mask.Set(uint(slot))
	}
	return mask
}

// profileText joins minWords to maxWords distinct vocabulary words.
func (g *Generator) profileText(minWords, maxWords int) string {
	k := minWords + g.rng.Intn(maxWords-minWords+1)
	words := make([]string, 0, k)
	for _, i := range g.rng.Sample(0, len(profileVocab), k) {
		words = append(words, profileVocab[i])
	}
	return strings.Join(words, " ")
}

// MaskValue folds an availability bitmask into its integer form.
func MaskValue(b *bitset.BitSet) uint64 {
	var mask uint64
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		mask |= 1 << i
	}
	return mask
}

func (g *Generator) choice(domain []string) string {
	return domain[g.rng.Intn(len(domain))]
}

func (g *Generator) choiceFloat(domain []float32) float32 {
	return domain[g.rng.Intn(len(domain))]
}
