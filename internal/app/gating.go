package app

import "eduflex-video-service/internal/domain"

// PassThreshold is the minimum percentage considered a passing quiz score.
const PassThreshold = 70.0

// CanAccessQuiz reports whether a student may open the quiz for a video.
// Only genuine completion unlocks it; accumulated watch time alone (e.g. 95%
// reached by seeking) never does.
func CanAccessQuiz(progress *domain.VideoProgress) bool {
	return progress != nil && progress.Completed
}

// Passed applies the shared pass threshold to a percentage score.
func Passed(percentage float64) bool {
	return percentage >= PassThreshold
}

// ComputeResult derives the aggregate outcome from a correct count and the
// number of questions. Pure; no side effects.
func ComputeResult(correct, total int) domain.QuizResult {
	result := domain.QuizResult{Correct: correct, Total: total}
	if total > 0 {
		result.Percentage = float64(correct) / float64(total) * 100
	}
	result.Passed = Passed(result.Percentage)
	return result
}
