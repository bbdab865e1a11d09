package dates

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{
			name: "fiscal year ended textual",
			text: "ANNUAL REPORT for the fiscal year ended December 31, 2019 pursuant to Section 13",
			want: "12/31/2019",
		},
		{
			name: "conformed period of report",
			text: "CONFORMED SUBMISSION TYPE: 10-K Conformed period of report: 20201231",
			want: "12/31/2020",
		},
		{
			name: "no zero padding",
			text: "for the fiscal year ended March 5, 2018",
			want: "3/5/2018",
		},
		{
			name: "abbreviated month",
			text: "for the year ended Jan 31, 2021",
			want: "1/31/2021",
		},
		{
			name: "case insensitive",
			text: "FOR THE FISCAL YEAR ENDED JUNE 30, 2017",
			want: "6/30/2017",
		},
		{
			name: "whitespace collapsed before matching",
			text: "for  the\n fiscal\tyear   ended   December 31, 2015",
			want: "12/31/2015",
		},
		{
			name: "earlier pattern wins over conformed period",
			text: "for the fiscal year ended December 31, 2019 ... conformed period of report: 20181231",
			want: "12/31/2019",
		},
		{
			name: "eight digit fiscal year form",
			text: "for the fiscal year ended 20191228",
			want: "12/28/2019",
		},
		{
			name:    "invalid day of month discarded",
			text:    "for the fiscal year ended February 30, 2020",
			wantErr: true,
		},
		{
			name:    "unrecognized month discarded",
			text:    "for the fiscal year ended Decembruary 31, 2020",
			wantErr: true,
		},
		{
			name:    "no date anywhere",
			text:    "This filing contains forward looking statements.",
			wantErr: true,
		},
		{
			name:    "empty text",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrNotFound) {
					t.Fatalf("Normalize() error = %v, want ErrNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeIsPure(t *testing.T) {
	text := "for the fiscal year ended December 31, 2019"
	first, err := Normalize(text)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Normalize(text)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("Normalize not deterministic: %q vs %q", first, second)
	}
}
