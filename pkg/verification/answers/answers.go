package answers

import (
	"strconv"
	"strings"

	"github.com/opine-platform/opine-backend/pkg/verification/types"
)

// Interviewer apps have shipped these question ids with inconsistent
// casing over time, comparison is case-insensitive.
var (
	ageQuestionIDs    = []string{"age", "respondent_age", "respondentage"}
	genderQuestionIDs = []string{"gender", "respondent_gender", "sex"}
	acQuestionIDs     = []string{"ac", "ac_name", "acname", "assembly_constituency"}
)

const (
	GENDER_MALE   = "male"
	GENDER_FEMALE = "female"
	GENDER_OTHER  = "other"
)

// FindAnswer returns the first answer whose question id matches one of the
// given ids, ignoring case and surrounding whitespace.
func FindAnswer(answerList []types.Answer, questionIDs ...string) (types.Answer, bool) {
	for _, answer := range answerList {
		got := strings.ToLower(strings.TrimSpace(answer.QuestionID))
		for _, id := range questionIDs {
			if got == strings.ToLower(id) {
				return answer, true
			}
		}
	}
	return types.Answer{}, false
}

// ExtractAge parses the respondent age from the answer list.
func ExtractAge(answerList []types.Answer) (int, bool) {
	answer, ok := FindAnswer(answerList, ageQuestionIDs...)
	if !ok {
		return 0, false
	}

	age, err := strconv.Atoi(strings.TrimSpace(answer.RawValue))
	if err != nil || age < 0 {
		return 0, false
	}
	return age, true
}

// ExtractGender normalizes the respondent gender to male/female/other.
func ExtractGender(answerList []types.Answer) (string, bool) {
	answer, ok := FindAnswer(answerList, genderQuestionIDs...)
	if !ok {
		return "", false
	}

	switch strings.ToLower(strings.TrimSpace(answer.RawValue)) {
	case "m", "male":
		return GENDER_MALE, true
	case "f", "female":
		return GENDER_FEMALE, true
	case "o", "other", "third gender":
		return GENDER_OTHER, true
	}
	return "", false
}

// ExtractACName returns the assembly constituency tag from the answer list.
func ExtractACName(answerList []types.Answer) (string, bool) {
	answer, ok := FindAnswer(answerList, acQuestionIDs...)
	if !ok {
		return "", false
	}

	acName := strings.TrimSpace(answer.RawValue)
	if acName == "" {
		return "", false
	}
	return acName, true
}
