package services

import (
	"feedbackapp/internal/models"
)

// answerKey identifies a question across two snapshots of the same survey:
// section title+order plus question text+order.
type answerKey struct {
	sectionTitle  string
	sectionOrder  int
	questionText  string
	questionOrder int
}

// DiffAnswers compares two feedback snapshots of the same survey and reports
// every question whose rating moved. Only questions that carry a numeric
// rating (1..4) in BOTH snapshots produce an entry; unanswered questions and
// unchanged ratings are silent.
func DiffAnswers(previous, current []models.FeedbackSection) []models.AnswerChange {
	old := make(map[answerKey]int)
	for _, section := range previous {
		for _, question := range section.Questions {
			if question.Rating >= models.RatingMin {
				old[key(section, question)] = question.Rating
			}
		}
	}

	changes := []models.AnswerChange{}
	for _, section := range current {
		for _, question := range section.Questions {
			if question.Rating < models.RatingMin {
				continue
			}
			oldRating, ok := old[key(section, question)]
			if !ok || oldRating == question.Rating {
				continue
			}
			direction := "asc"
			if question.Rating < oldRating {
				direction = "des"
			}
			changes = append(changes, models.AnswerChange{
				Question:    question.Text,
				OldPoint:    oldRating,
				NewPoint:    question.Rating,
				TypeChanged: direction,
				Comment:     question.Comment,
			})
		}
	}
	return changes
}

func key(section models.FeedbackSection, question models.FeedbackQuestion) answerKey {
	return answerKey{
		sectionTitle:  section.Title,
		sectionOrder:  section.Order,
		questionText:  question.Text,
		questionOrder: question.Order,
	}
}
