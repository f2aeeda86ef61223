package response

import (
	"testing"
)

func TestGetTotalPages(t *testing.T) {
	type args struct {
		totalCount int64
		limit      int64
	}
	tests := []struct {
		name string
		args args
		want int64
	}{
		{
			name: "exact fit",
			args: args{
				totalCount: 10,
				limit:      10,
			},
			want: 1,
		},
		{
			name: "two pages",
			args: args{
				totalCount: 10,
				limit:      5,
			},
			want: 2,
		},
		{
			name: "partial last page",
			args: args{
				totalCount: 10,
				limit:      3,
			},
			want: 4,
		},
		{
			name: "zero limit",
			args: args{
				totalCount: 10,
				limit:      0,
			},
			want: 0,
		},
		{
			name: "no documents",
			args: args{
				totalCount: 0,
				limit:      10,
			},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getTotalPages(tt.args.totalCount, tt.args.limit); got != tt.want {
				t.Errorf("getTotalPages() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrepPaginationInfos(t *testing.T) {
	tests := []struct {
		name       string
		totalCount int64
		page       int64
		limit      int64
		wantPage   int64
		wantPages  int64
	}{
		{
			name:       "first page",
			totalCount: 25,
			page:       1,
			limit:      10,
			wantPage:   1,
			wantPages:  3,
		},
		{
			name:       "page beyond range is clamped",
			totalCount: 25,
			page:       10,
			limit:      10,
			wantPage:   3,
			wantPages:  3,
		},
		{
			name:       "page below range is clamped",
			totalCount: 25,
			page:       0,
			limit:      10,
			wantPage:   1,
			wantPages:  3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := prepPaginationInfos(tt.totalCount, tt.page, tt.limit)
			if got.CurrentPage != tt.wantPage {
				t.Errorf("prepPaginationInfos() CurrentPage = %v, want %v", got.CurrentPage, tt.wantPage)
			}
			if got.TotalPages != tt.wantPages {
				t.Errorf("prepPaginationInfos() TotalPages = %v, want %v", got.TotalPages, tt.wantPages)
			}
		})
	}
}
