package answers

import (
	"testing"

	"github.com/opine-platform/opine-backend/pkg/verification/types"
)

func TestExtractAge(t *testing.T) {
	tests := []struct {
		name    string
		answers []types.Answer
		want    int
		wantOk  bool
	}{
		{
			name: "plain age answer",
			answers: []types.Answer{
				{QuestionID: "age", RawValue: "34"},
			},
			want:   34,
			wantOk: true,
		},
		{
			name: "uppercase question id with padding",
			answers: []types.Answer{
				{QuestionID: " Respondent_Age ", RawValue: " 61 "},
			},
			want:   61,
			wantOk: true,
		},
		{
			name: "non numeric value",
			answers: []types.Answer{
				{QuestionID: "age", RawValue: "thirty"},
			},
			wantOk: false,
		},
		{
			name: "negative age",
			answers: []types.Answer{
				{QuestionID: "age", RawValue: "-5"},
			},
			wantOk: false,
		},
		{
			name:    "no age question",
			answers: []types.Answer{{QuestionID: "gender", RawValue: "m"}},
			wantOk:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractAge(tt.answers)
			if ok != tt.wantOk {
				t.Errorf("ExtractAge() ok = %v, want %v", ok, tt.wantOk)
				return
			}
			if ok && got != tt.want {
				t.Errorf("ExtractAge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractGender(t *testing.T) {
	tests := []struct {
		name    string
		answers []types.Answer
		want    string
		wantOk  bool
	}{
		{
			name:    "short form male",
			answers: []types.Answer{{QuestionID: "gender", RawValue: "M"}},
			want:    GENDER_MALE,
			wantOk:  true,
		},
		{
			name:    "long form female",
			answers: []types.Answer{{QuestionID: "Sex", RawValue: "Female"}},
			want:    GENDER_FEMALE,
			wantOk:  true,
		},
		{
			name:    "third gender",
			answers: []types.Answer{{QuestionID: "gender", RawValue: "Third Gender"}},
			want:    GENDER_OTHER,
			wantOk:  true,
		},
		{
			name:    "unknown value",
			answers: []types.Answer{{QuestionID: "gender", RawValue: "yes"}},
			wantOk:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractGender(tt.answers)
			if ok != tt.wantOk {
				t.Errorf("ExtractGender() ok = %v, want %v", ok, tt.wantOk)
				return
			}
			if ok && got != tt.want {
				t.Errorf("ExtractGender() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractACName(t *testing.T) {
	tests := []struct {
		name    string
		answers []types.Answer
		want    string
		wantOk  bool
	}{
		{
			name:    "ac name present",
			answers: []types.Answer{{QuestionID: "AC_Name", RawValue: "Mylapore"}},
			want:    "Mylapore",
			wantOk:  true,
		},
		{
			name:    "empty value",
			answers: []types.Answer{{QuestionID: "ac", RawValue: "   "}},
			wantOk:  false,
		},
		{
			name:    "missing question",
			answers: []types.Answer{{QuestionID: "age", RawValue: "40"}},
			wantOk:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractACName(tt.answers)
			if ok != tt.wantOk {
				t.Errorf("ExtractACName() ok = %v, want %v", ok, tt.wantOk)
				return
			}
			if ok && got != tt.want {
				t.Errorf("ExtractACName() = %v, want %v", got, tt.want)
			}
		})
	}
}
