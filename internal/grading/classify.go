package grading

import "fmt"

// FinalizedEpsilon is how close to zero the remaining weight must be for
// the result to count as settled.
const FinalizedEpsilon = 0.01

// OutcomeKind is the narrative classification of a planner
type OutcomeKind string

const (
	OutcomeHurdleBlocked OutcomeKind = "hurdle_blocked"
	OutcomeImpossible    OutcomeKind = "impossible"
	OutcomeFinalized     OutcomeKind = "finalized"
	OutcomeAlreadyPassed OutcomeKind = "already_passed"
	OutcomeNeedsAverage  OutcomeKind = "needs_average"
)

// ClassifierInput gathers everything the classifier looks at
type ClassifierInput struct {
	Target      float64
	Aggregate   Aggregate
	Range       FinalRange
	Hurdles     HurdleStatus
	Requirement PassRequirement
}

// Outcome is a classification plus the message rendered for it
type Outcome struct {
	Kind    OutcomeKind
	Message string
}

// Classify picks exactly one outcome. The checks run in a fixed priority
// order and the first match wins. A passed subject with nothing left to
// grade reports AlreadyPassed; Finalized covers every other settled result.
func Classify(in ClassifierInput) Outcome {
	remaining := in.Aggregate.RemainingWeight

	switch {
	case in.Hurdles.AnyFailed:
		return Outcome{
			Kind:    OutcomeHurdleBlocked,
			Message: fmt.Sprintf("A hurdle item is below %.0f%%, so the subject cannot be passed regardless of the overall mark.", HurdleThreshold),
		}
	case in.Range.Max < in.Target && remaining > 0:
		return Outcome{
			Kind: OutcomeImpossible,
			Message: fmt.Sprintf("Even 100%% on the remaining %.1f%% only reaches %.1f%%, below the %.1f%% target.",
				remaining, in.Range.Max, in.Target),
		}
	case !in.Hurdles.AnyFailed && !in.Hurdles.AnyMissing && in.Range.Min >= in.Target:
		return Outcome{
			Kind:    OutcomeAlreadyPassed,
			Message: fmt.Sprintf("You have already reached %.1f%%, meeting the %.1f%% target.", in.Range.Min, in.Target),
		}
	case remaining <= FinalizedEpsilon:
		return Outcome{
			Kind:    OutcomeFinalized,
			Message: finalizedMessage(in),
		}
	default:
		return Outcome{
			Kind: OutcomeNeedsAverage,
			Message: fmt.Sprintf("You need an average of %.1f%% across the remaining %.1f%% of the subject.",
				in.Requirement.Clamped, remaining),
		}
	}
}

func finalizedMessage(in ClassifierInput) string {
	msg := fmt.Sprintf("Nothing left to grade. Your final result is %.1f%%", in.Range.Min)
	if in.Range.Min >= in.Target {
		msg += fmt.Sprintf(", meeting the %.1f%% target.", in.Target)
	} else {
		msg += fmt.Sprintf(", below the %.1f%% target.", in.Target)
	}
	switch {
	case in.Hurdles.Count == 0:
	case in.Hurdles.AnyMissing:
		msg += " Some hurdle items still have no grade."
	default:
		msg += " All hurdles are cleared."
	}
	return msg
}
