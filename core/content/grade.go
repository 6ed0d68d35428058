package content

// Grade is the outcome of a quiz attempt.
type Grade struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// Percentage is Score/Total*100 rounded half up; an empty quiz grades to 0.
func (g Grade) Percentage() int {
	if g.Total <= 0 {
		return 0
	}
	// floor(100*s/t + 1/2) without floating point
	return (200*g.Score + g.Total) / (2 * g.Total)
}

// GradeQuiz counts the questions whose selected option is the correct one.
// answers are matched to quiz.Questions by position; a nil or missing answer never counts.
func GradeQuiz(quiz Quiz, answers []*int) Grade {
	g := Grade{Total: len(quiz.Questions)}
	for i, qn := range quiz.Questions {
		if i >= len(answers) || answers[i] == nil {
			continue
		}
		if *answers[i] == qn.CorrectAnswer {
			g.Score++
		}
	}
	return g
}

// Answers turns plain option indexes into quiz answers.
func Answers(idx ...int) []*int {
	res := make([]*int, len(idx))
	for i := range idx {
		res[i] = &idx[i]
	}
	return res
}
