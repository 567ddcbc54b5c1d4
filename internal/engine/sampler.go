package engine

import (
	"math"
	"math/rand"
	"sort"

	"github.com/doronnac/elsa/internal/adapter/llm"
)

// sampler applies the policy's chain to raw logits: repetition penalty
// over a trailing window, top-k, top-p, min-p, temperature, then a seeded
// draw from the remaining distribution. One sampler lives per generation
// call, so a fixed seed makes a call reproducible for a given prompt.
type sampler struct {
	policy llm.SamplingPolicy
	rng    *rand.Rand
	recent []int
}

type candidate struct {
	token int
	logit float64
}

func newSampler(policy llm.SamplingPolicy) *sampler {
	return &sampler{
		policy: policy,
		rng:    rand.New(rand.NewSource(int64(policy.Seed))),
	}
}

// sample picks the next token from logits under the policy.
func (s *sampler) sample(logits []float32) int {
	cands := make([]candidate, len(logits))
	for i, l := range logits {
		cands[i] = candidate{token: i, logit: float64(l)}
	}

	s.applyRepetitionPenalty(cands)

	sort.Slice(cands, func(i, j int) bool { return cands[i].logit > cands[j].logit })

	if k := s.policy.TopK; k > 0 && k < len(cands) {
		cands = cands[:k]
	}
	cands = truncateTopP(cands, s.policy.TopP)
	cands = truncateMinP(cands, s.policy.MinP)

	// Temperature at or below zero degenerates to greedy argmax.
	if s.policy.Temperature <= 0 {
		return cands[0].token
	}
	for i := range cands {
		cands[i].logit /= s.policy.Temperature
	}

	probs := softmax(cands)
	r := s.rng.Float64()
	cum := 0.0
	for i, p := range probs {
		cum += p
		if r < cum {
			return cands[i].token
		}
	}
	return cands[len(cands)-1].token
}

// accept records a sampled token in the repetition window.
func (s *sampler) accept(token int) {
	if s.policy.RepeatLastN <= 0 {
		return
	}
	s.recent = append(s.recent, token)
	if len(s.recent) > s.policy.RepeatLastN {
		s.recent = s.recent[len(s.recent)-s.policy.RepeatLastN:]
	}
}

// applyRepetitionPenalty dampens logits of recently emitted tokens:
// positive logits are divided by the penalty, negative ones multiplied.
func (s *sampler) applyRepetitionPenalty(cands []candidate) {
	if s.policy.RepeatPenalty == 1.0 || s.policy.RepeatPenalty <= 0 || len(s.recent) == 0 {
		return
	}
	seen := make(map[int]struct{}, len(s.recent))
	for _, t := range s.recent {
		seen[t] = struct{}{}
	}
	for i := range cands {
		if _, ok := seen[cands[i].token]; !ok {
			continue
		}
		if cands[i].logit > 0 {
			cands[i].logit /= s.policy.RepeatPenalty
		} else {
			cands[i].logit *= s.policy.RepeatPenalty
		}
	}
}

// truncateTopP keeps the smallest descending-sorted prefix whose
// cumulative probability reaches p. Always keeps at least one candidate.
func truncateTopP(cands []candidate, p float64) []candidate {
	if p <= 0 || p >= 1 || len(cands) <= 1 {
		return cands
	}
	probs := softmax(cands)
	cum := 0.0
	for i, prob := range probs {
		cum += prob
		if cum >= p {
			return cands[:i+1]
		}
	}
	return cands
}

// truncateMinP drops candidates whose probability falls below minP times
// the top candidate's probability.
func truncateMinP(cands []candidate, minP float64) []candidate {
	if minP <= 0 || len(cands) <= 1 {
		return cands
	}
	probs := softmax(cands)
	threshold := minP * probs[0]
	keep := len(cands)
	for i, prob := range probs {
		if prob < threshold {
			keep = i
			break
		}
	}
	if keep < 1 {
		keep = 1
	}
	return cands[:keep]
}

// softmax converts candidate logits into probabilities, shifted by the max
// logit for numerical stability. Candidates must be sorted descending.
func softmax(cands []candidate) []float64 {
	probs := make([]float64, len(cands))
	maxLogit := cands[0].logit
	sum := 0.0
	for i, c := range cands {
		probs[i] = math.Exp(c.logit - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
