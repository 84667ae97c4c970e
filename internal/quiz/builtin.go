package quiz

// CareerFundamentalsID identifies the quiz shipped with the landing page.
const CareerFundamentalsID = "career-fundamentals"

// CareerFundamentals returns the built-in "Career Development Fundamentals" quiz.
func CareerFundamentals() Definition {
	return Definition{
		ID:    CareerFundamentalsID,
		Title: "Career Development Fundamentals",
		Questions: []Question{
			{
				ID:     "q1",
				Prompt: "Which of the following is most important when identifying your career goals?",
				Options: []Option{
					{ID: "q1a", Text: "Following the highest paying path"},
					{ID: "q1b", Text: "Aligning with your personal values and interests", IsCorrect: true},
					{ID: "q1c", Text: "Choosing what your friends are doing"},
					{ID: "q1d", Text: "Selecting the easiest career path"},
				},
				Explanation: "Career satisfaction is highest when your career aligns with your personal values, strengths, and interests. This alignment leads to greater motivation and fulfillment.",
			},
			{
				ID:     "q2",
				Prompt: "What is the best approach to skill development?",
				Options: []Option{
					{ID: "q2a", Text: "Focus only on technical skills"},
					{ID: "q2b", Text: "Develop only soft skills"},
					{ID: "q2c", Text: "Balance both technical and soft skills development", IsCorrect: true},
					{ID: "q2d", Text: "Learn as many skills as possible simultaneously"},
				},
				Explanation: "A balanced approach to skill development that includes both technical and soft skills creates a well-rounded professional profile that's attractive to employers across industries.",
			},
			{
				ID:     "q3",
				Prompt: "How often should you reassess your career development plan?",
				Options: []Option{
					{ID: "q3a", Text: "Once in your career"},
					{ID: "q3b", Text: "Every 5-10 years"},
					{ID: "q3c", Text: "Regularly, at least annually", IsCorrect: true},
					{ID: "q3d", Text: "Only when forced to change jobs"},
				},
				Explanation: "Regular reassessment of your career plan, at least annually, allows you to adapt to changing industry trends, personal circumstances, and growing self-awareness.",
			},
		},
	}
}

// Builtin returns every definition compiled into the binary, keyed by id.
func Builtin() map[string]Definition {
	def := CareerFundamentals()
	return map[string]Definition{def.ID: def}
}

// FeedbackMessage is the summary line shown for a tier.
func FeedbackMessage(tier string) string {
	switch tier {
	case TierExcellent:
		return "Excellent work! You've mastered this topic."
	case TierGood:
		return "Good job! You're getting there."
	default:
		return "Keep practicing to improve your score."
	}
}

// AnswerFeedback is the title and description shown after checking an answer.
func AnswerFeedback(correct bool) (title, description string) {
	if correct {
		return "Correct!", "Great job! You got it right."
	}
	return "Not quite right", "Keep learning and try again."
}
