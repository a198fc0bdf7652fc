package textutil

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"both empty", "", "", 1},
		{"one empty", "abc", "", 0},
		{"identical", "IMG_0001.jpg", "IMG_0001.jpg", 1},
		{"disjoint", "abc", "xyz", 0},
		{"one substitution", "abcd", "abed", 0.75},
		{"case folded", "IMG_0001.JPG", "img_0001.jpg", 1},
		{"nfd equals nfc", "café.jpg", "café.jpg", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatioSymmetric(t *testing.T) {
	a := "vacation_photo.jpg"
	b := "vacation_photoo.jpg"
	if Ratio(a, b) != Ratio(b, a) {
		t.Errorf("Ratio not symmetric: %v vs %v", Ratio(a, b), Ratio(b, a))
	}
}

func TestRatioOrdersNearAndFarNames(t *testing.T) {
	media := "vacation_photo.jpg"
	near := Ratio(media, "vacation_photoo.jpg")
	far := Ratio(media, "unrelated_file")
	if near <= 0.6 {
		t.Errorf("near ratio = %v, want > 0.6", near)
	}
	if far >= 0.6 {
		t.Errorf("far ratio = %v, want < 0.6", far)
	}
}

func TestLCSLength(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 0},
		{"abc", "abc", 3},
		{"ABCBDAB", "BDCABA", 4},
		{"photo", "p_h_o_t_o", 5},
	}
	for _, tt := range tests {
		if got := lcsLength([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("lcsLength(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
