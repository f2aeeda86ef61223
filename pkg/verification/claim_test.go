package verification

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestClaimFilterToQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter ClaimFilter
		want   bson.M
	}{
		{
			name:   "empty filter matches everything",
			filter: ClaimFilter{},
			want:   bson.M{},
		},
		{
			name: "survey only",
			filter: ClaimFilter{
				SurveyKey: "exitpoll-2024",
			},
			want: bson.M{"surveyKey": "exitpoll-2024"},
		},
		{
			name: "all fields set",
			filter: ClaimFilter{
				SurveyKey: "exitpoll-2024",
				Mode:      "cati",
				ACName:    "Mylapore",
			},
			want: bson.M{
				"surveyKey": "exitpoll-2024",
				"mode":      "cati",
				"acName":    "Mylapore",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.toQuery(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("toQuery() = %v, want %v", got, tt.want)
			}
		})
	}
}
